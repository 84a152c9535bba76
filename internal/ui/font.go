package ui

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts holds the faces used for board labels and notifications.
type Fonts struct {
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
}

// LoadFonts parses the embedded Go fonts.
func LoadFonts() (*Fonts, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Fonts{regular: regular, bold: bold}, nil
}

// Regular returns the regular face at size.
func (f *Fonts) Regular(size float64) *text.GoTextFace {
	if f == nil {
		return nil
	}
	return &text.GoTextFace{Source: f.regular, Size: size}
}

// Bold returns the bold face at size.
func (f *Fonts) Bold(size float64) *text.GoTextFace {
	if f == nil {
		return nil
	}
	return &text.GoTextFace{Source: f.bold, Size: size}
}

// MeasureText returns the width and height of s in face.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
