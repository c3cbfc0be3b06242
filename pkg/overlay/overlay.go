// Package overlay draws detected QR codes onto camera frames.
package overlay

import (
	"image/color"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-qrscan/pkg/qr"
)

// Style controls how codes are drawn.
type Style struct {
	LineColor     color.RGBA
	LineThickness int
	TextColor     color.RGBA
	TextScale     float64
	TextThickness int
	LabelOffset   int // Pixels between the first corner and the text baseline
	Font          gocv.HersheyFont
}

// DefaultStyle returns green outlines and red labels.
func DefaultStyle() Style {
	return Style{
		LineColor:     color.RGBA{R: 0, G: 255, B: 0, A: 255},
		LineThickness: 3,
		TextColor:     color.RGBA{R: 255, G: 0, B: 0, A: 255},
		TextScale:     0.6,
		TextThickness: 2,
		LabelOffset:   10,
		Font:          gocv.FontHersheySimplex,
	}
}

// Draw outlines every code with a payload and writes the payload above
// its first corner. Codes with empty text are skipped.
func Draw(frame *gocv.Mat, codes []qr.Code, style Style) {
	for _, c := range codes {
		if c.Text == "" {
			continue
		}
		for _, e := range c.Polygon() {
			gocv.Line(frame, e.From, e.To, style.LineColor, style.LineThickness)
		}
		if len(c.Corners) > 0 {
			gocv.PutText(frame, c.Text, c.LabelOrigin(style.LabelOffset),
				style.Font, style.TextScale, style.TextColor, style.TextThickness)
		}
	}
}
