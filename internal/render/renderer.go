package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"
	"strings"

	fontassets "github.com/park285/dama-board/internal/assets/fonts"
	"github.com/park285/dama-board/internal/board"
	"github.com/park285/dama-board/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	ErrNoCells    = errors.New("no cells to render")
	ErrSquareSize = errors.New("square size out of range")
)

const (
	DefaultSquareSize = 72
	DefaultTitle      = "Dama"

	minSquareSize = 16
	maxSquareSize = 256
)

type RenderOptions struct {
	Theme       *theme.Theme
	Title       string
	SquareSize  int
	Coordinates bool
}

// BoardRenderer draws generated cells as a raster image.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, cells []board.Cell, opts RenderOptions) ([]byte, error)
	RenderImage(ctx context.Context, cells []board.Cell, opts RenderOptions) (*image.RGBA, error)
}

type pngBoardRenderer struct {
}

func NewBoardRenderer() BoardRenderer {
	return &pngBoardRenderer{}
}

// Geometry is the pixel layout of a rendered board.
type Geometry struct {
	SquareSize int
	Squares    int
	Origin     image.Point
	Width      int
	Height     int
}

const (
	sideMargin   = 36
	topMargin    = 96
	bottomMargin = 40
	titleHeight  = 48
	gapToBoard   = 22
	panelRadius  = 12
	titlePadX    = 28
	titleMinW    = 180
	shadowOffset = 6
	pieceScale   = 0.84
)

// NewGeometry computes where a board of the given dimension lands in the image.
func NewGeometry(squares, squareSize int) Geometry {
	boardSize := squares * squareSize
	return Geometry{
		SquareSize: squareSize,
		Squares:    squares,
		Origin:     image.Point{X: sideMargin, Y: topMargin},
		Width:      boardSize + sideMargin*2,
		Height:     boardSize + topMargin + bottomMargin,
	}
}

// CellRect is the pixel rectangle of the square at (row, col).
func (g Geometry) CellRect(row, col int) image.Rectangle {
	x := g.Origin.X + col*g.SquareSize
	y := g.Origin.Y + row*g.SquareSize
	return image.Rect(x, y, x+g.SquareSize, y+g.SquareSize)
}

func (g Geometry) BoardRect() image.Rectangle {
	size := g.Squares * g.SquareSize
	return image.Rect(g.Origin.X, g.Origin.Y, g.Origin.X+size, g.Origin.Y+size)
}

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, cells []board.Cell, opts RenderOptions) ([]byte, error) {
	img, err := r.RenderImage(ctx, cells, opts)
	if err != nil {
		return nil, err
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func (r *pngBoardRenderer) RenderImage(ctx context.Context, cells []board.Cell, opts RenderOptions) (*image.RGBA, error) {
	if len(cells) == 0 {
		return nil, ErrNoCells
	}
	opts, err := normalizeOptions(opts)
	if err != nil {
		return nil, err
	}
	pal, err := newPalette(opts.Theme)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	geo := NewGeometry(board.Dimension(cells), opts.SquareSize)
	img := image.NewRGBA(image.Rect(0, 0, geo.Width, geo.Height))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(pal.background), image.Point{}, imagedraw.Src)

	if err := drawTitle(img, opts.Title, geo, pal); err != nil {
		return nil, err
	}
	drawBoardShadow(img, geo.BoardRect())
	drawSquares(img, cells, geo, pal)
	if err := drawPieces(ctx, img, cells, geo, opts.Theme); err != nil {
		return nil, err
	}
	if opts.Coordinates {
		if err := drawCoordinates(img, geo, pal); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return img, nil
}

func normalizeOptions(opts RenderOptions) (RenderOptions, error) {
	if opts.Theme == nil {
		return opts, fmt.Errorf("render: %w: no theme", theme.ErrInvalidTheme)
	}
	if opts.SquareSize == 0 {
		opts.SquareSize = DefaultSquareSize
	}
	if opts.SquareSize < minSquareSize || opts.SquareSize > maxSquareSize {
		return opts, fmt.Errorf("render: %w: %d not in [%d,%d]", ErrSquareSize, opts.SquareSize, minSquareSize, maxSquareSize)
	}
	opts.Title = strings.TrimSpace(opts.Title)
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return opts, nil
}

type palette struct {
	dark        color.NRGBA
	light       color.NRGBA
	background  color.NRGBA
	heading     color.NRGBA
	coordinates color.NRGBA
}

func newPalette(t *theme.Theme) (palette, error) {
	if err := t.Validate(); err != nil {
		return palette{}, err
	}
	return palette{
		dark:        theme.MustHex(t.Colors.Dark),
		light:       theme.MustHex(t.Colors.Light),
		background:  theme.MustHex(t.Colors.Background),
		heading:     theme.MustHex(t.Colors.Heading),
		coordinates: theme.MustHex(t.Colors.Coordinates),
	}, nil
}

var (
	hudPanelColor    = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudShadowColor   = color.NRGBA{0, 0, 0, 50}
	boardShadowColor = color.NRGBA{0, 0, 0, 60}
)

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	if img == nil {
		return
	}
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+8,
		boardRect.Max.X+10,
		boardRect.Max.Y+12,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, cells []board.Cell, geo Geometry, pal palette) {
	for _, c := range cells {
		clr := pal.light
		if c.Dark {
			clr = pal.dark
		}
		imagedraw.Draw(dst, geo.CellRect(c.Row, c.Col), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(ctx context.Context, dst imagedraw.Image, cells []board.Cell, geo Geometry, t *theme.Theme) error {
	size := int(float64(geo.SquareSize) * pieceScale)
	inset := (geo.SquareSize - size) / 2
	for _, c := range cells {
		piece, ok := c.Piece()
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fill := t.Colors.Player1
		if piece.Owner == board.Player2 {
			fill = t.Colors.Player2
		}
		img, err := renderPieceImage(piece.Owner, size, fill, t.Colors.Outline)
		if err != nil {
			return err
		}
		rect := geo.CellRect(c.Row, c.Col)
		at := image.Rect(rect.Min.X+inset, rect.Min.Y+inset, rect.Min.X+inset+size, rect.Min.Y+inset+size)
		imagedraw.Draw(dst, at, img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawTitle(img *image.RGBA, title string, geo Geometry, pal palette) error {
	face, err := fontassets.TitleFace()
	if err != nil {
		return err
	}
	defer face.Close()

	drawer := &font.Drawer{Dst: img, Face: face}
	boardRect := geo.BoardRect()

	width := drawer.MeasureString(title).Round() + titlePadX*2
	if width < titleMinW {
		width = titleMinW
	}
	if width > boardRect.Dx() {
		width = boardRect.Dx()
	}
	bottom := boardRect.Min.Y - gapToBoard
	left := boardRect.Min.X + (boardRect.Dx()-width)/2
	rect := image.Rect(left, bottom-titleHeight, left+width, bottom)

	drawRoundedPanel(img, rect.Add(image.Pt(0, shadowOffset)), panelRadius, hudShadowColor)
	drawRoundedPanel(img, rect, panelRadius, hudPanelColor)
	title = truncateWithEllipsis(face, title, rect.Dx()-titlePadX*2)
	drawCenteredString(drawer, rect, title, pal.heading)
	return nil
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	// centre column, then the two side strips, then the corner discs
	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}
	leftRect := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if leftRect.Dy() > 0 {
		imagedraw.Draw(img, leftRect, fill, image.Point{}, imagedraw.Over)
	}
	rightRect := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if rightRect.Dy() > 0 {
		imagedraw.Draw(img, rightRect, fill, image.Point{}, imagedraw.Over)
	}

	corners := []struct {
		center image.Point
		dx, dy int
	}{
		{image.Pt(rect.Min.X+radius, rect.Min.Y+radius), -1, -1},
		{image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), 1, -1},
		{image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), -1, 1},
		{image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), 1, 1},
	}
	for _, c := range corners {
		drawQuarterDisc(img, c.center, radius, c.dx, c.dy, clr)
	}
}

// drawQuarterDisc fills one quadrant of a disc; dx/dy pick the quadrant.
func drawQuarterDisc(img *image.RGBA, center image.Point, radius, dx, dy int, clr color.Color) {
	rSquared := radius * radius
	for y := 0; y <= radius; y++ {
		for x := 0; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			// the row and column through the centre already belong to a strip
			if x == 0 || y == 0 {
				continue
			}
			blendPixel(img, center.X+x*dx, center.Y+y*dy, clr)
		}
	}
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

// drawCoordinates labels columns a, b, c... under the board and rows n..1 on the left,
// row 0 being the top row.
func drawCoordinates(dst imagedraw.Image, geo Geometry, pal palette) error {
	face, err := fontassets.CaptionFace()
	if err != nil {
		return err
	}
	defer face.Close()

	drawer := &font.Drawer{
		Dst:  dst,
		Face: face,
		Src:  image.NewUniform(pal.coordinates),
	}
	ascent := face.Metrics().Ascent.Ceil()
	boardRect := geo.BoardRect()

	for i := 0; i < geo.Squares; i++ {
		center := i*geo.SquareSize + geo.SquareSize/2

		rankX := boardRect.Min.X - sideMargin/2
		drawCenteredText(drawer, RowLabel(i, geo.Squares), rankX, boardRect.Min.Y+center+ascent/2)

		fileY := boardRect.Max.Y + ascent + 4
		drawCenteredText(drawer, ColLabel(i), boardRect.Min.X+center, fileY)
	}
	return nil
}

func RowLabel(row, squares int) string { return strconv.Itoa(squares - row) }

func ColLabel(col int) string { return string(rune('a' + col)) }

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	// premultiplied source
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	inv := 1 - srcA
	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8((srcR + float64(dst.R)/255.0*inv) * 255.0),
		G: floatToUint8((srcG + float64(dst.G)/255.0*inv) * 255.0),
		B: floatToUint8((srcB + float64(dst.B)/255.0*inv) * 255.0),
		A: floatToUint8((srcA + float64(dst.A)/255.0*inv) * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
