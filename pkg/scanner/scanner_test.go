package scanner

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"gocv.io/x/gocv"

	"github.com/teslashibe/go-qrscan/pkg/browser"
	"github.com/teslashibe/go-qrscan/pkg/qr"
	"github.com/teslashibe/go-qrscan/pkg/scan"
)

// TestRun_CaptureFailsOnFirstRead checks that a dead camera is reported,
// released, and never gets a window.
func TestRun_CaptureFailsOnFirstRead(t *testing.T) {
	src := &fakeSource{frames: 0}
	windows := 0
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.NewWindow = func(string) Window {
		windows++
		return &fakeWindow{}
	}

	s := New(cfg, src, noCodes(), failOpener(t), &out)
	err := s.Run()

	if !errors.Is(err, ErrCaptureFailed) {
		t.Errorf("Run: got %v, want ErrCaptureFailed", err)
	}
	if windows != 0 {
		t.Errorf("window opened %d times, want 0", windows)
	}
	if !src.closed {
		t.Error("source not closed after capture failure")
	}
	if !strings.Contains(out.String(), "Could not access webcam.") {
		t.Errorf("missing access error in output: %q", out.String())
	}
}

func TestRun_QuitKey(t *testing.T) {
	src := &fakeSource{frames: 100}
	win := &fakeWindow{quitAfter: 3}
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.NewWindow = func(title string) Window {
		if title != "QR Code Scanner" {
			t.Errorf("window title: got %q", title)
		}
		return win
	}

	s := New(cfg, src, noCodes(), failOpener(t), &out)
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if win.shown != 3 {
		t.Errorf("frames shown: got %d, want 3", win.shown)
	}
	if !win.closed || !src.closed {
		t.Errorf("closed: window %v source %v, want both", win.closed, src.closed)
	}

	lines := out.String()
	if !strings.HasPrefix(lines, "QR Code Scanner started. Press 'q' to quit.\n") {
		t.Errorf("missing banner: %q", lines)
	}
	if !strings.HasSuffix(lines, "Exiting QR Code Scanner.\n") {
		t.Errorf("missing exit line: %q", lines)
	}
}

// Other keys, and "no key" (-1), keep the loop going.
func TestRun_OtherKeysIgnored(t *testing.T) {
	src := &fakeSource{frames: 4}
	win := &fakeWindow{keys: []int{-1, 'x', 'Q'}}

	cfg := DefaultConfig()
	cfg.NewWindow = func(string) Window { return win }

	s := New(cfg, src, noCodes(), failOpener(t), &bytes.Buffer{})
	if err := s.Run(); !errors.Is(err, ErrCaptureFailed) {
		t.Fatalf("Run: got %v, want ErrCaptureFailed after frames run out", err)
	}
	if win.shown != 4 {
		t.Errorf("frames shown: got %d, want 4", win.shown)
	}
	if !win.closed {
		t.Error("window not closed after capture failure")
	}
}

func TestRun_StableURLOpensOnce(t *testing.T) {
	src := &fakeSource{frames: 10}
	win := &fakeWindow{quitAfter: 10}
	var opened []string
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.NewWindow = func(string) Window { return win }

	s := New(cfg, src, staticCodes("example.com"), recordOpener(&opened), &out)
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(opened) != 1 || opened[0] != "http://example.com" {
		t.Errorf("opened: got %q, want [http://example.com]", opened)
	}
	if n := strings.Count(out.String(), "QR Code detected: example.com"); n != 1 {
		t.Errorf("detection printed %d times, want 1", n)
	}
	if !strings.Contains(out.String(), "Opening URL: http://example.com\n") {
		t.Errorf("missing open line: %q", out.String())
	}
}

func TestRun_MultipleCodesNeverNavigate(t *testing.T) {
	src := &fakeSource{frames: 5}
	win := &fakeWindow{quitAfter: 5}
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.NewWindow = func(string) Window { return win }

	s := New(cfg, src, staticCodes("example.com", "example.org"), failOpener(t), &out)
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := strings.Count(out.String(), "Multiple QR codes detected:\n - example.com\n - example.org\n"); n != 5 {
		t.Errorf("multiple listing printed %d times, want once per frame (5)", n)
	}
}

func TestStep_InvalidURL(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()
	var out bytes.Buffer

	s := New(DefaultConfig(), &fakeSource{}, staticCodes("hello world"), failOpener(t), &out)
	st := s.Step(&frame, scan.State{})

	if st.Last != "hello world" {
		t.Errorf("Last: got %q, want hello world", st.Last)
	}
	want := "QR Code detected: hello world\nInvalid URL: hello world\n"
	if out.String() != want {
		t.Errorf("output:\ngot  %q\nwant %q", out.String(), want)
	}
}

func TestStep_EmptyTextIgnored(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()
	var out bytes.Buffer

	s := New(DefaultConfig(), &fakeSource{}, staticCodes("", "example.com"), nil, &out)
	var opened []string
	s.opener = recordOpener(&opened)

	st := s.Step(&frame, scan.State{})
	if st.Last != "example.com" {
		t.Errorf("Last: got %q, want example.com", st.Last)
	}
	if len(opened) != 1 {
		t.Errorf("one decoded code among undecoded ones should navigate, opened %q", opened)
	}
}

func TestStep_DetectorErrorIsNoCode(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()
	var out bytes.Buffer

	det := qr.DetectorFunc(func(image.Image) ([]qr.Code, error) {
		return nil, errors.New("boom")
	})
	s := New(DefaultConfig(), &fakeSource{}, det, failOpener(t), &out)

	st := s.Step(&frame, scan.State{Last: "keep.me"})
	if st.Last != "keep.me" {
		t.Errorf("Last: got %q, want keep.me", st.Last)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestStep_OpenerErrorDoesNotStop(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	opener := browser.Func(func(string) error { return browser.ErrNoDisplay })
	s := New(DefaultConfig(), &fakeSource{}, staticCodes("example.com"), opener, &bytes.Buffer{})

	st := s.Step(&frame, scan.State{})
	if st.Last != "example.com" {
		t.Errorf("Last: got %q, want example.com", st.Last)
	}
}

func TestStep_DrawsOverlay(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	det := qr.DetectorFunc(func(image.Image) ([]qr.Code, error) {
		return []qr.Code{{
			Text:    "example.com",
			Corners: []image.Point{{40, 60}, {200, 60}, {200, 200}, {40, 200}},
		}}, nil
	})
	s := New(DefaultConfig(), &fakeSource{}, det, browser.Disabled{}, &bytes.Buffer{})
	s.Step(&frame, scan.State{})

	px := frame.GetVecbAt(200, 120)
	if px[0] != 0 || px[1] != 255 || px[2] != 0 {
		t.Errorf("outline pixel: got BGR %v, want green", px)
	}
}

// TestStep_RealDetector runs a generated QR image through gozxing.
func TestStep_RealDetector(t *testing.T) {
	code, err := qrcode.NewQRCodeWriter().Encode("example.com", gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img := imaging.Paste(imaging.New(320, 240, color.White), code, image.Pt(60, 20))

	frame, err := gocv.ImageToMatRGB(img)
	if err != nil {
		t.Fatalf("ImageToMatRGB: %v", err)
	}
	defer frame.Close()

	var opened []string
	var out bytes.Buffer
	s := New(DefaultConfig(), &fakeSource{}, qr.NewDetector(qr.DefaultConfig()), recordOpener(&opened), &out)

	st := s.Step(&frame, scan.State{})
	if st.Last != "example.com" {
		t.Fatalf("Last: got %q, want example.com (output %q)", st.Last, out.String())
	}
	if len(opened) != 1 || opened[0] != "http://example.com" {
		t.Errorf("opened: got %q", opened)
	}

	// same frame again: nothing new
	out.Reset()
	st = s.Step(&frame, st)
	if out.Len() != 0 || len(opened) != 1 {
		t.Errorf("second pass fired again: output %q opened %q", out.String(), opened)
	}
}

// Helper functions

type fakeSource struct {
	frames int // successful reads before failing
	reads  int
	closed bool
}

func (f *fakeSource) Read(m *gocv.Mat) bool {
	if f.reads >= f.frames {
		return false
	}
	f.reads++
	blank := blankFrame()
	defer blank.Close()
	blank.CopyTo(m)
	return true
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type fakeWindow struct {
	quitAfter int   // press 'q' on this frame, 0 never
	keys      []int // keys returned in order before falling back to -1
	shown     int
	closed    bool
}

func (w *fakeWindow) Show(gocv.Mat) {
	w.shown++
}

func (w *fakeWindow) WaitKey(int) int {
	if w.quitAfter > 0 && w.shown == w.quitAfter {
		return 'q'
	}
	if len(w.keys) > 0 {
		k := w.keys[0]
		w.keys = w.keys[1:]
		return k
	}
	return -1
}

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
}

func noCodes() qr.Detector {
	return qr.DetectorFunc(func(image.Image) ([]qr.Code, error) { return nil, nil })
}

func staticCodes(texts ...string) qr.Detector {
	return qr.DetectorFunc(func(image.Image) ([]qr.Code, error) {
		codes := make([]qr.Code, 0, len(texts))
		for i, t := range texts {
			x := 10 + i*100
			codes = append(codes, qr.Code{
				Text:    t,
				Corners: []image.Point{{x, 20}, {x + 80, 20}, {x + 80, 100}, {x, 100}},
			})
		}
		return codes, nil
	})
}

func recordOpener(opened *[]string) browser.Opener {
	return browser.Func(func(url string) error {
		*opened = append(*opened, url)
		return nil
	})
}

func failOpener(t *testing.T) browser.Opener {
	return browser.Func(func(url string) error {
		t.Errorf("unexpected navigation to %q", url)
		return nil
	})
}
