// Package scanner runs the capture-detect-render loop.
//
// Each iteration blocks on the camera, then on detection, draws the
// overlay, reports what changed and shows the frame. The loop ends on the
// quit key or when the camera stops delivering frames; the camera and the
// window are released either way.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-qrscan/internal/log"
	"github.com/teslashibe/go-qrscan/pkg/browser"
	"github.com/teslashibe/go-qrscan/pkg/debug"
	"github.com/teslashibe/go-qrscan/pkg/overlay"
	"github.com/teslashibe/go-qrscan/pkg/qr"
	"github.com/teslashibe/go-qrscan/pkg/scan"
)

// ErrCaptureFailed is returned by Run when the camera yields no frame.
var ErrCaptureFailed = errors.New("scanner: could not read frame")

// Source delivers frames. camera.Capture satisfies it.
type Source interface {
	// Read fills m with the next frame, false when nothing could be read.
	Read(m *gocv.Mat) bool
	Close() error
}

// Config holds loop configuration.
type Config struct {
	Title    string        // Window title
	QuitKey  byte          // Key that ends the loop
	KeyDelay int           // Milliseconds to wait for a key each frame
	Style    overlay.Style // How detections are drawn

	// NewWindow creates the display window; NewWindow (HighGUI) when nil.
	NewWindow WindowFactory
}

// DefaultConfig returns the standard scanner settings.
func DefaultConfig() Config {
	return Config{
		Title:    "QR Code Scanner",
		QuitKey:  'q',
		KeyDelay: 1,
		Style:    overlay.DefaultStyle(),
	}
}

// Scanner ties a frame source, a detector and a browser together.
type Scanner struct {
	cfg    Config
	src    Source
	det    qr.Detector
	opener browser.Opener
	out    io.Writer
}

// New creates a scanner. Status lines are written to out.
func New(cfg Config, src Source, det qr.Detector, opener browser.Opener, out io.Writer) *Scanner {
	if cfg.NewWindow == nil {
		cfg.NewWindow = NewWindow
	}
	return &Scanner{
		cfg:    cfg,
		src:    src,
		det:    det,
		opener: opener,
		out:    out,
	}
}

// Run loops until the quit key is pressed or a frame cannot be read.
// The source and the window are closed before Run returns.
func (s *Scanner) Run() error {
	defer s.src.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	var win Window
	defer func() {
		if win != nil {
			win.Close()
		}
	}()

	fmt.Fprintf(s.out, "QR Code Scanner started. Press '%c' to quit.\n", s.cfg.QuitKey)

	var st scan.State
	for n := 1; ; n++ {
		if !s.src.Read(&frame) {
			fmt.Fprintln(s.out, "Could not access webcam.")
			return fmt.Errorf("%w (frame %d)", ErrCaptureFailed, n)
		}

		st = s.Step(&frame, st)

		if win == nil {
			win = s.cfg.NewWindow(s.cfg.Title)
		}
		win.Show(frame)

		if win.WaitKey(s.cfg.KeyDelay)&0xFF == int(s.cfg.QuitKey) {
			fmt.Fprintln(s.out, "Exiting QR Code Scanner.")
			return nil
		}
	}
}

// Step detects codes in frame, draws them onto it and reports the
// outcome against st. It returns the state for the next frame.
func (s *Scanner) Step(frame *gocv.Mat, st scan.State) scan.State {
	start := time.Now()

	img, err := frame.ToImage()
	if err != nil {
		log.Warn("frame conversion failed", "error", err)
		return st
	}

	codes, err := s.det.Detect(img)
	if err != nil {
		log.Warn("qr detection failed", "error", err)
		return st
	}

	overlay.Draw(frame, codes, s.cfg.Style)

	res, next := scan.Decide(scan.Texts(codes), st)
	scan.Report(s.out, res)

	switch res.Kind {
	case scan.KindURL, scan.KindInvalid:
		log.Debug("qr code changed", "kind", res.Kind.String(), "text", res.Text)
	case scan.KindMultiple:
		log.Debug("multiple qr codes", "count", len(res.Texts))
	}

	if res.Navigate() {
		if err := s.opener.Open(res.URL); err != nil {
			log.Warn("could not open url", "url", res.URL, "error", err)
		}
	}

	debug.FrameLog("🔍 %d code(s), %s in %v\n", len(codes), res.Kind, time.Since(start))

	return next
}
