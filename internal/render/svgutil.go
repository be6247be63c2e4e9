package render

import "bytes"

func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}

// tintSVG fills the colour placeholders of a piece asset.
func tintSVG(svg []byte, fill, outline string) []byte {
	out := bytes.ReplaceAll(svg, []byte("{{fill}}"), []byte(fill))
	return bytes.ReplaceAll(out, []byte("{{outline}}"), []byte(outline))
}
