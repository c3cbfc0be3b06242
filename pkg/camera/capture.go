package camera

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-qrscan/internal/log"
)

// Sentinel errors for device setup.
var (
	// ErrInvalidConfig is returned when Config.Validate reports problems.
	ErrInvalidConfig = errors.New("camera: invalid config")

	// ErrNotOpened is returned when the driver accepts the device but it cannot stream.
	ErrNotOpened = errors.New("camera: device not opened")
)

// Capture is an open camera device.
type Capture struct {
	webcam *gocv.VideoCapture
}

// Open opens the device described by cfg.
func Open(cfg Config) (*Capture, error) {
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, problems)
	}

	webcam, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("camera: open device %d: %w", cfg.Device, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("%w: device %d", ErrNotOpened, cfg.Device)
	}

	if cfg.Width > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	log.Debug("camera opened",
		"device", cfg.Device,
		"width", webcam.Get(gocv.VideoCaptureFrameWidth),
		"height", webcam.Get(gocv.VideoCaptureFrameHeight))

	return &Capture{webcam: webcam}, nil
}

// Read grabs the next frame into m.
// It returns false when the device produced nothing usable.
func (c *Capture) Read(m *gocv.Mat) bool {
	if ok := c.webcam.Read(m); !ok {
		return false
	}
	return !m.Empty()
}

// Close releases the device.
func (c *Capture) Close() error {
	return c.webcam.Close()
}
