// Package scan decides what a frame's detections mean for the user.
//
// Decide is pure: the last single payload seen is carried in State and
// returned updated, so the capture loop owns it and nothing is global.
package scan

import (
	"fmt"
	"io"

	"github.com/teslashibe/go-qrscan/pkg/link"
	"github.com/teslashibe/go-qrscan/pkg/qr"
)

// Kind classifies the outcome of one frame.
type Kind int

const (
	KindNone      Kind = iota // no readable code
	KindUnchanged             // one code, same payload as last time
	KindURL                   // one new payload that looks like a URL
	KindInvalid               // one new payload that is not a URL
	KindMultiple              // two or more codes, never navigated
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnchanged:
		return "unchanged"
	case KindURL:
		return "url"
	case KindInvalid:
		return "invalid"
	case KindMultiple:
		return "multiple"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is carried from one frame to the next.
type State struct {
	Last string // Last single payload reported, empty before the first
}

// Result is what one frame produced.
type Result struct {
	Kind  Kind
	Text  string   // The single payload (KindUnchanged, KindURL, KindInvalid)
	URL   string   // Navigation target (KindURL only)
	Texts []string // All payloads (KindMultiple only)
}

// Navigate reports whether the result should open a browser.
func (r Result) Navigate() bool {
	return r.Kind == KindURL
}

// Texts returns the non-empty payloads in detection order.
func Texts(codes []qr.Code) []string {
	var out []string
	for _, c := range codes {
		if c.Text != "" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Decide classifies one frame's non-empty payloads against st.
// The state only changes when exactly one payload differs from st.Last.
func Decide(texts []string, st State) (Result, State) {
	switch len(texts) {
	case 0:
		return Result{Kind: KindNone}, st
	case 1:
		text := texts[0]
		if text == st.Last {
			return Result{Kind: KindUnchanged, Text: text}, st
		}
		st.Last = text
		if link.IsURL(text) {
			return Result{Kind: KindURL, Text: text, URL: link.Normalize(text)}, st
		}
		return Result{Kind: KindInvalid, Text: text}, st
	default:
		all := make([]string, len(texts))
		copy(all, texts)
		return Result{Kind: KindMultiple, Texts: all}, st
	}
}

// Report writes the console lines for r. Nothing is written for
// KindNone and KindUnchanged.
func Report(w io.Writer, r Result) {
	switch r.Kind {
	case KindURL:
		fmt.Fprintf(w, "QR Code detected: %s\n", r.Text)
		fmt.Fprintf(w, "Opening URL: %s\n", r.URL)
	case KindInvalid:
		fmt.Fprintf(w, "QR Code detected: %s\n", r.Text)
		fmt.Fprintf(w, "Invalid URL: %s\n", r.Text)
	case KindMultiple:
		fmt.Fprintln(w, "Multiple QR codes detected:")
		for _, t := range r.Texts {
			fmt.Fprintf(w, " - %s\n", t)
		}
	}
}
