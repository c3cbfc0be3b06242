// Package browser hands URLs to the system's default URL handler.
package browser

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	sysbrowser "github.com/pkg/browser"

	"github.com/teslashibe/go-qrscan/internal/log"
)

// ErrNoDisplay is returned when no graphical session is available.
var ErrNoDisplay = errors.New("browser: no display detected")

// Opener opens a URL somewhere the user can see it.
type Opener interface {
	Open(url string) error
}

// Func adapts a function to the Opener interface.
type Func func(url string) error

// Open calls f(url).
func (f Func) Open(url string) error {
	return f(url)
}

// System opens URLs with the platform's default handler
// (xdg-open, open, or rundll32).
type System struct {
	// Getenv looks up environment variables; os.Getenv when nil.
	Getenv func(string) string
}

func init() {
	// nil sends the helper's output to the null device. Any io.Writer that is
	// not an *os.File makes exec wait for the launched browser to exit.
	sysbrowser.Stdout = nil
	sysbrowser.Stderr = nil
}

// Open launches the default browser at url.
func (s System) Open(url string) error {
	if !s.hasDisplay() {
		return ErrNoDisplay
	}
	if err := sysbrowser.OpenURL(url); err != nil {
		return fmt.Errorf("browser: open %s: %w", url, err)
	}
	return nil
}

func (s System) hasDisplay() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		getenv := s.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
	default:
		return true
	}
}

// Disabled never opens anything; it only logs the URL it was given.
type Disabled struct{}

// Open logs url at debug level and returns nil.
func (Disabled) Open(url string) error {
	log.Debug("browser disabled, not opening", "url", url)
	return nil
}
