// Package qr finds and decodes QR codes in still images.
package qr

import "image"

// Code is one QR code found in a frame.
type Code struct {
	Text    string        // Decoded payload, may be empty when decoding failed
	Corners []image.Point // Polygon in frame pixel coordinates
}

// Edge is one side of a code's polygon.
type Edge struct {
	From, To image.Point
}

// Polygon returns the closed loop of edges through the corners,
// including the edge from the last corner back to the first.
func (c Code) Polygon() []Edge {
	n := len(c.Corners)
	if n < 2 {
		return nil
	}
	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Edge{From: c.Corners[i], To: c.Corners[(i+1)%n]})
	}
	return edges
}

// LabelOrigin returns where the decoded text is drawn: offset pixels
// above the first corner.
func (c Code) LabelOrigin(offset int) image.Point {
	if len(c.Corners) == 0 {
		return image.Point{}
	}
	p := c.Corners[0]
	return image.Pt(p.X, p.Y-offset)
}

// Detector is the interface for QR detection backends
type Detector interface {
	// Detect returns every code found in img. No codes is not an error.
	Detect(img image.Image) ([]Code, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(img image.Image) ([]Code, error)

// Detect calls f(img).
func (f DetectorFunc) Detect(img image.Image) ([]Code, error) {
	return f(img)
}
