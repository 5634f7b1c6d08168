// Package x11 resolves the capture region (resolution and grab offset) for
// full-screen and current-window captures.
package x11

import (
	"fmt"
	"os"
)

// Region describes what portion of the display to capture. Resolution is a
// "WIDTHxHEIGHT" string and Offset is an "DISPLAY.SCREEN+X,Y" string; both
// are consumed verbatim by ffmpeg's x11grab input syntax and never
// interpreted further here.
type Region struct {
	Resolution string `json:"resolution"`
	Offset     string `json:"offset"`
}

// Backend computes capture regions. There is one terminal operation per
// region kind and no shared state between them; any missing geometry is a
// hard failure, never a partial result.
type Backend interface {
	// FullScreen returns the region covering the whole primary screen.
	FullScreen() (Region, error)

	// CurrentWindow returns the region covering the active window.
	CurrentWindow() (Region, error)

	// Close releases the backend's display connection, if any.
	Close() error

	// Name returns the backend name (e.g. "tools", "x11").
	Name() string
}

// NewBackend returns the region backend selected by name: "x11" for a
// native display connection, "tools" (or empty) for scraping the X11
// introspection utilities.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", "tools":
		return NewToolBackend(), nil
	case "x11":
		return NewXGBBackend()
	}
	return nil, fmt.Errorf("unknown region backend %q", name)
}

// Display returns the active display identifier with the default screen
// suffix, e.g. ":0.0", for composing grab offsets.
func Display() (string, error) {
	display := os.Getenv("DISPLAY")
	if display == "" {
		return "", fmt.Errorf("DISPLAY environment variable not set")
	}
	return display + ".0", nil
}
