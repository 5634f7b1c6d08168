// Package screenshot captures still images by delegating to an external
// screenshot tool.
package screenshot

import (
	"fmt"
	"os/exec"

	"github.com/xurtis/screencap/internal/logger"
	"github.com/xurtis/screencap/internal/proc"
)

// Mode selects what a screenshot covers.
type Mode int

const (
	// ModeScreen captures the whole screen.
	ModeScreen Mode = iota
	// ModeWindow captures the active window.
	ModeWindow
	// ModeArea lets the user select a rectangle interactively.
	ModeArea
)

// Backend takes a screenshot into the named file.
type Backend interface {
	// Capture writes a screenshot to filename. It blocks until the image
	// is on disk; for ModeArea that includes the interactive selection.
	Capture(filename string, mode Mode) error

	// Name returns the backend name.
	Name() string
}

// NewBackend picks a screenshot backend: the gnome-screenshot tool when it
// is on PATH, otherwise the GNOME Shell D-Bus interface.
func NewBackend() (Backend, error) {
	if path, err := proc.Which(toolName); err == nil {
		return &ToolBackend{path: path}, nil
	}

	logger.WithComponent("screenshot").Debug().
		Str("tool", toolName).
		Msg("Screenshot tool not found, falling back to GNOME Shell D-Bus")
	return NewShellBackend()
}

const toolName = "gnome-screenshot"

// ToolBackend shells out to gnome-screenshot.
type ToolBackend struct {
	path string
}

// Name returns the backend name.
func (b *ToolBackend) Name() string { return toolName }

// Capture runs gnome-screenshot and waits for it to exit. The -B flag
// suppresses the window border; region flags follow the tool's own
// -w (window) and -a (area) switches.
func (b *ToolBackend) Capture(filename string, mode Mode) error {
	args := []string{"-B", "-f", filename}
	switch mode {
	case ModeWindow:
		args = append(args, "-w")
	case ModeArea:
		args = append(args, "-a")
	}

	logger.WithComponent("screenshot").Debug().
		Str("path", b.path).
		Strs("args", args).
		Msg("Taking screenshot")

	cmd := exec.Command(b.path, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	return nil
}
