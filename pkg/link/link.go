// Package link classifies decoded QR payloads as web addresses.
//
// The check is syntactic: an optional http(s) scheme, dotted host labels
// ending in an alphabetic top-level label, and an optional path. Bare IP
// addresses, ports, userinfo and unicode hosts are not recognised. Letters
// are ASCII only, and a trailing newline makes the payload invalid.
package link

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`^([hH][tT][tT][pP][sS]?://)?[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(/.*)?$`)

// IsURL reports whether s looks like a web address.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// Normalize returns the address to hand to a browser: s itself when it
// already starts with "http", otherwise s prefixed with "http://".
func Normalize(s string) string {
	if len(s) >= 4 && strings.EqualFold(s[:4], "http") {
		return s
	}
	return "http://" + s
}
