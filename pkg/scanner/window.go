package scanner

import "gocv.io/x/gocv"

// Window shows annotated frames and reports key presses.
type Window interface {
	Show(img gocv.Mat)
	// WaitKey waits up to delay milliseconds for a key and returns its code, or -1.
	WaitKey(delay int) int
	Close() error
}

// WindowFactory creates the display window on the first captured frame.
type WindowFactory func(title string) Window

// NewWindow opens a HighGUI window.
func NewWindow(title string) Window {
	return &highGUIWindow{w: gocv.NewWindow(title)}
}

type highGUIWindow struct {
	w *gocv.Window
}

func (h *highGUIWindow) Show(img gocv.Mat) {
	h.w.IMShow(img)
}

func (h *highGUIWindow) WaitKey(delay int) int {
	return h.w.WaitKey(delay)
}

func (h *highGUIWindow) Close() error {
	return h.w.Close()
}
