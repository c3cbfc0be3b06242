// QR Scanner - live camera QR code reader
//
// Shows the camera feed with detected codes outlined, and opens the
// browser when a single code holding a web address comes into view.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/teslashibe/go-qrscan/internal/config"
	"github.com/teslashibe/go-qrscan/internal/log"
	"github.com/teslashibe/go-qrscan/pkg/browser"
	"github.com/teslashibe/go-qrscan/pkg/camera"
	"github.com/teslashibe/go-qrscan/pkg/debug"
	"github.com/teslashibe/go-qrscan/pkg/qr"
	"github.com/teslashibe/go-qrscan/pkg/scanner"
)

type options struct {
	camera    camera.Config
	scanner   scanner.Config
	qr        qr.Config
	noBrowser bool
	logLevel  string
}

func main() {
	opts := parseFlags()

	log.Init(opts.logLevel)
	log.Debug("starting", "device", opts.camera.Device)

	os.Exit(run(opts))
}

func run(opts options) int {
	capture, err := camera.Open(opts.camera)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Could not access webcam: %v\n", err)
		return 1
	}
	debug.Log("📷 camera %d opened\n", opts.camera.Device)

	var opener browser.Opener = browser.System{}
	if opts.noBrowser {
		opener = browser.Disabled{}
	}

	s := scanner.New(opts.scanner, capture, qr.NewDetector(opts.qr), opener, os.Stdout)
	if err := s.Run(); err != nil {
		log.Error("scanner stopped", "error", err)
		return 1
	}
	return 0
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() options {
	opts := options{
		camera:  camera.DefaultConfig(),
		scanner: scanner.DefaultConfig(),
		qr:      qr.DefaultConfig(),
	}

	device := flag.Int("device", config.Device(opts.camera.Device), "Camera device index (or set QRSCAN_DEVICE)")
	width := flag.Int("width", opts.camera.Width, "Requested frame width, 0 for driver default")
	height := flag.Int("height", opts.camera.Height, "Requested frame height, 0 for driver default")
	title := flag.String("title", opts.scanner.Title, "Window title")
	tryHarder := flag.Bool("try-harder", opts.qr.TryHarder, "Spend more time per frame looking for codes")
	noBrowser := flag.Bool("no-browser", config.NoBrowser(), "Print URLs instead of opening them (or set QRSCAN_NO_BROWSER=1)")
	logLevel := flag.String("log-level", config.LogLevel("info"), "Log level: debug, info, warn, error")
	debugFlag := flag.Bool("debug", false, "Enable verbose debug logging")
	debugFrames := flag.Bool("debug-frames", false, "Log every frame (very verbose)")
	flag.Parse()

	opts.camera.Device, opts.camera.Width, opts.camera.Height = *device, *width, *height
	opts.scanner.Title = *title
	opts.qr.TryHarder = *tryHarder
	opts.noBrowser = *noBrowser
	opts.logLevel = *logLevel

	debug.Enabled = *debugFlag || *debugFrames
	debug.Frames = *debugFrames
	if debug.Enabled {
		opts.logLevel = "debug"
	}

	return opts
}
