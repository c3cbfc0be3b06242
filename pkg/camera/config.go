// Package camera opens the local capture device for the scanner.
package camera

import "fmt"

// Config holds capture device parameters.
type Config struct {
	Device int // Device index, 0 is the system default camera
	Width  int // Requested frame width in pixels, 0 keeps the driver default
	Height int // Requested frame height in pixels, 0 keeps the driver default
}

// Resolution limits accepted by Validate.
const (
	MinWidth  = 160
	MinHeight = 120
	MaxWidth  = 4096
	MaxHeight = 2160
)

// DefaultConfig returns the default camera at 640x480.
// QR codes decode reliably at this size and frames stay cheap to convert.
func DefaultConfig() Config {
	return Config{
		Device: 0,
		Width:  640,
		Height: 480,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device must be 0 or greater")
	}
	if c.Width != 0 && (c.Width < MinWidth || c.Width > MaxWidth) {
		errors = append(errors, fmt.Sprintf("width must be 0 (driver default) or between %d and %d", MinWidth, MaxWidth))
	}
	if c.Height != 0 && (c.Height < MinHeight || c.Height > MaxHeight) {
		errors = append(errors, fmt.Sprintf("height must be 0 (driver default) or between %d and %d", MinHeight, MaxHeight))
	}

	return errors
}
