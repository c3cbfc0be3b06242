// Package config provides environment helpers for go-qrscan commands.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvDevice    = "QRSCAN_DEVICE"
	EnvNoBrowser = "QRSCAN_NO_BROWSER"
	EnvLogLevel  = "QRSCAN_LOG_LEVEL"
)

// Device returns the camera index from QRSCAN_DEVICE.
// Falls back to the provided default if unset or not a number.
func Device(defaultID int) int {
	v := os.Getenv(EnvDevice)
	if v == "" {
		return defaultID
	}
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || id < 0 {
		return defaultID
	}
	return id
}

// NoBrowser reports whether QRSCAN_NO_BROWSER asks to skip opening URLs.
func NoBrowser() bool {
	return truthy(os.Getenv(EnvNoBrowser))
}

// LogLevel returns QRSCAN_LOG_LEVEL or the provided default.
func LogLevel(defaultLevel string) string {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		return lvl
	}
	return defaultLevel
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
