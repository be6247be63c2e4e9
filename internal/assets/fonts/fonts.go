// Package fonts provides the font faces used for board captions.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	captionSize = 18
	titleSize   = 24
)

var (
	regularOnce sync.Once
	regular     *truetype.Font
	regularErr  error

	boldOnce sync.Once
	bold     *truetype.Font
	boldErr  error
)

func regularFont() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
		if regularErr != nil {
			regularErr = fmt.Errorf("parse regular font: %w", regularErr)
		}
	})
	return regular, regularErr
}

func boldFont() (*truetype.Font, error) {
	boldOnce.Do(func() {
		bold, boldErr = truetype.Parse(gobold.TTF)
		if boldErr != nil {
			boldErr = fmt.Errorf("parse bold font: %w", boldErr)
		}
	})
	return bold, boldErr
}

// CaptionFace is used for coordinates.
// A font.Face is not safe for concurrent use, so every call returns a new one.
func CaptionFace() (font.Face, error) {
	return CaptionFaceSize(captionSize)
}

func CaptionFaceSize(size float64) (font.Face, error) {
	f, err := regularFont()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// TitleFace is used for the heading panel.
func TitleFace() (font.Face, error) {
	f, err := boldFont()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: titleSize, DPI: 72, Hinting: font.HintingFull}), nil
}
