package qr

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
)

// ErrNoImage is returned when Detect is called with a nil or empty image.
var ErrNoImage = errors.New("qr: empty image")

// Config holds detector configuration
type Config struct {
	TryHarder bool // Spend more time looking for codes (default true)
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{TryHarder: true}
}

type multiReader interface {
	DecodeMultiple(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error)
}

// ZXingDetector finds codes with gozxing's multi QR reader.
type ZXingDetector struct {
	reader multiReader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config) *ZXingDetector {
	hints := map[gozxing.DecodeHintType]interface{}{}
	if cfg.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return &ZXingDetector{
		reader: multiqr.NewQRCodeMultiReader(),
		hints:  hints,
	}
}

// Detect finds and decodes every QR code in img.
func (d *ZXingDetector) Detect(img image.Image) ([]Code, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("qr: binarize: %w", err)
	}

	results, err := d.reader.DecodeMultiple(bmp, d.hints)
	if err != nil {
		if isNoCode(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("qr: decode: %w", err)
	}

	origin := img.Bounds().Min
	codes := make([]Code, 0, len(results))
	for _, r := range results {
		codes = append(codes, Code{
			Text:    r.GetText(),
			Corners: corners(r.GetResultPoints(), origin),
		})
	}
	return codes, nil
}

// isNoCode reports whether err only means nothing readable was in the frame.
func isNoCode(err error) bool {
	var (
		nf gozxing.NotFoundException
		fe gozxing.FormatException
		ce gozxing.ChecksumException
	)
	return errors.As(err, &nf) || errors.As(err, &fe) || errors.As(err, &ce)
}

// finderHalfWidth is the distance, in modules, from a finder pattern centre
// to the outer edge of the code.
const finderHalfWidth = 3.5

// sizedPoint is a result point that knows the module size around it.
// gozxing's finder patterns implement it.
type sizedPoint interface {
	GetEstimatedModuleSize() float64
}

// corners turns QR result points into a quadrilateral.
// gozxing reports finder pattern centres as bottom-left, top-left, top-right
// (plus an optional alignment pattern, ignored here); the bottom-right corner
// completes the parallelogram. When the module size is known the corners are
// pushed out to the code's edge. The returned polygon starts at top-left.
func corners(pts []gozxing.ResultPoint, origin image.Point) []image.Point {
	if len(pts) < 3 {
		out := make([]image.Point, 0, len(pts))
		for _, p := range pts {
			out = append(out, toPoint(p.GetX(), p.GetY(), origin))
		}
		return out
	}

	bl, tl, tr := pts[0], pts[1], pts[2]
	tlX, tlY := tl.GetX(), tl.GetY()
	trX, trY := tr.GetX(), tr.GetY()
	blX, blY := bl.GetX(), bl.GetY()
	brX, brY := trX+blX-tlX, trY+blY-tlY

	if m := moduleSize(pts[:3]); m > 0 {
		ux, uy := unit(trX-tlX, trY-tlY) // along the top edge
		vx, vy := unit(blX-tlX, blY-tlY) // down the left edge
		d := finderHalfWidth * m

		tlX, tlY = tlX-d*(ux+vx), tlY-d*(uy+vy)
		trX, trY = trX+d*(ux-vx), trY+d*(uy-vy)
		brX, brY = brX+d*(ux+vx), brY+d*(uy+vy)
		blX, blY = blX+d*(vx-ux), blY+d*(vy-uy)
	}

	return []image.Point{
		toPoint(tlX, tlY, origin),
		toPoint(trX, trY, origin),
		toPoint(brX, brY, origin),
		toPoint(blX, blY, origin),
	}
}

// moduleSize averages the estimated module size of the finder patterns,
// or returns 0 when any of them does not carry one.
func moduleSize(pts []gozxing.ResultPoint) float64 {
	var sum float64
	for _, p := range pts {
		sp, ok := p.(sizedPoint)
		if !ok || sp.GetEstimatedModuleSize() <= 0 {
			return 0
		}
		sum += sp.GetEstimatedModuleSize()
	}
	return sum / float64(len(pts))
}

func unit(x, y float64) (float64, float64) {
	n := math.Hypot(x, y)
	if n == 0 {
		return 0, 0
	}
	return x / n, y / n
}

func toPoint(x, y float64, origin image.Point) image.Point {
	return image.Pt(int(math.Round(x))+origin.X, int(math.Round(y))+origin.Y)
}
