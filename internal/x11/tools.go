package x11

import (
	"fmt"

	"github.com/xurtis/screencap/internal/logger"
	"github.com/xurtis/screencap/internal/proc"
)

// ToolBackend scrapes the line output of xdpyinfo, xprop and xwininfo. It
// is the default backend: the tools are available on any X11 desktop and
// need no display connection of their own.
type ToolBackend struct {
	// open launches a tool by name; replaced in tests with canned output.
	open func(name string, args ...string) (*proc.Lines, error)
}

// NewToolBackend creates a tool-scraping region backend.
func NewToolBackend() *ToolBackend {
	return &ToolBackend{open: proc.Open}
}

// Name returns the backend name.
func (b *ToolBackend) Name() string { return "tools" }

// Close is a no-op; every query owns its own child process.
func (b *ToolBackend) Close() error { return nil }

// FullScreen reads the primary screen dimensions from xdpyinfo.
func (b *ToolBackend) FullScreen() (Region, error) {
	display, err := Display()
	if err != nil {
		return Region{}, err
	}

	lines, err := b.open("xdpyinfo")
	if err != nil {
		return Region{}, err
	}
	defer lines.Close()

	if _, err := proc.FindLine(lines, proc.Contains("screen #0")); err != nil {
		return Region{}, fmt.Errorf("no primary screen in xdpyinfo output: %w", err)
	}

	dimensions, err := proc.FindToken(lines, proc.Contains("dimensions:"), 1)
	if err != nil {
		return Region{}, fmt.Errorf("no screen dimensions in xdpyinfo output: %w", err)
	}

	region := Region{Resolution: dimensions, Offset: display + "+0,0"}
	logger.WithComponent("x11").Debug().
		Str("resolution", region.Resolution).
		Str("offset", region.Offset).
		Msg("Resolved full screen region")
	return region, nil
}

// CurrentWindow reads the active window id from xprop and its geometry
// from xwininfo.
func (b *ToolBackend) CurrentWindow() (Region, error) {
	display, err := Display()
	if err != nil {
		return Region{}, err
	}

	windowID, err := b.activeWindowID()
	if err != nil {
		return Region{}, err
	}

	lines, err := b.open("xwininfo", "-id", windowID)
	if err != nil {
		return Region{}, err
	}
	defer lines.Close()

	x, err := proc.FindToken(lines, proc.Contains("Absolute upper-left X:"), 3)
	if err != nil {
		return Region{}, fmt.Errorf("no X offset in xwininfo output: %w", err)
	}
	y, err := proc.FindToken(lines, proc.Contains("Absolute upper-left Y:"), 3)
	if err != nil {
		return Region{}, fmt.Errorf("no Y offset in xwininfo output: %w", err)
	}
	width, err := proc.FindToken(lines, proc.Contains("Width:"), 1)
	if err != nil {
		return Region{}, fmt.Errorf("no width in xwininfo output: %w", err)
	}
	height, err := proc.FindToken(lines, proc.Contains("Height:"), 1)
	if err != nil {
		return Region{}, fmt.Errorf("no height in xwininfo output: %w", err)
	}

	region := Region{
		Resolution: fmt.Sprintf("%sx%s", width, height),
		Offset:     fmt.Sprintf("%s+%s,%s", display, x, y),
	}
	logger.WithComponent("x11").Debug().
		Str("window", windowID).
		Str("resolution", region.Resolution).
		Str("offset", region.Offset).
		Msg("Resolved current window region")
	return region, nil
}

// activeWindowID extracts the active window id from the root window
// properties reported by xprop.
func (b *ToolBackend) activeWindowID() (string, error) {
	lines, err := b.open("xprop", "-root")
	if err != nil {
		return "", err
	}
	defer lines.Close()

	id, err := proc.FindToken(lines, proc.Contains("_NET_ACTIVE_WINDOW"), 4)
	if err != nil {
		return "", fmt.Errorf("no active window property in xprop output: %w", err)
	}
	return id, nil
}
