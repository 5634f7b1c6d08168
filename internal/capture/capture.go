// Package capture assembles and runs the external commands that produce a
// capture file, using the codec and region engines to fill in the details.
package capture

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/xurtis/screencap/internal/config"
	"github.com/xurtis/screencap/internal/ffmpeg"
	"github.com/xurtis/screencap/internal/logger"
	"github.com/xurtis/screencap/internal/proc"
	"github.com/xurtis/screencap/internal/screenshot"
	"github.com/xurtis/screencap/internal/x11"
)

// Mode is what kind of capture to produce.
type Mode int

const (
	// ModeImage captures a still image.
	ModeImage Mode = iota
	// ModeVideo records a video.
	ModeVideo
)

// ParseMode parses a mode name from the CLI or API.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "image":
		return ModeImage, nil
	case "video":
		return ModeVideo, nil
	}
	return 0, fmt.Errorf("unknown capture mode %q", s)
}

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeVideo {
		return "video"
	}
	return "image"
}

// RegionKind is which part of the screen to capture.
type RegionKind int

const (
	// RegionScreen captures the whole screen.
	RegionScreen RegionKind = iota
	// RegionWindow captures the active window.
	RegionWindow
	// RegionSelect captures an interactively selected rectangle. Only
	// valid for image capture.
	RegionSelect
)

// ParseRegion parses a region name from the CLI or API.
func ParseRegion(s string) (RegionKind, error) {
	switch s {
	case "screen":
		return RegionScreen, nil
	case "window":
		return RegionWindow, nil
	case "select":
		return RegionSelect, nil
	}
	return 0, fmt.Errorf("unknown capture region %q", s)
}

// String returns the region name.
func (r RegionKind) String() string {
	switch r {
	case RegionWindow:
		return "window"
	case RegionSelect:
		return "select"
	}
	return "screen"
}

// Capturer runs captures according to the loaded configuration.
type Capturer struct {
	cfg    *config.Config
	region x11.Backend
}

// New creates a Capturer with the region backend named by the config.
func New(cfg *config.Config) (*Capturer, error) {
	region, err := x11.NewBackend(cfg.RegionBackend)
	if err != nil {
		return nil, err
	}
	return &Capturer{cfg: cfg, region: region}, nil
}

// Close releases the region backend.
func (c *Capturer) Close() error {
	return c.region.Close()
}

// Region resolves the capture region for a region kind. RegionSelect has no
// geometry of its own; selection happens inside the screenshot tool.
func (c *Capturer) Region(kind RegionKind) (x11.Region, error) {
	switch kind {
	case RegionWindow:
		return c.region.CurrentWindow()
	case RegionSelect:
		return x11.Region{}, fmt.Errorf("select region has no fixed geometry")
	}
	return c.region.FullScreen()
}

// Options describes one capture request.
type Options struct {
	Mode      Mode
	Region    RegionKind
	Framerate int // frames per second for video; 0 uses the configured rate
	Duration  int // video length in seconds; 0 records until interrupted
}

// Capture produces a capture file and returns its path.
func (c *Capturer) Capture(opts Options) (string, error) {
	if opts.Mode == ModeVideo && opts.Region == RegionSelect {
		return "", fmt.Errorf("cannot select a region for video capture")
	}

	path, err := c.Filename(opts.Mode)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}

	if opts.Mode == ModeVideo {
		err = c.captureVideo(path, opts)
	} else {
		err = c.captureImage(path, opts.Region)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// Filename computes the output path for a capture: the mode's base
// directory, a Screenshot subdirectory, and a hostname-and-timestamp name.
func (c *Capturer) Filename(mode Mode) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := c.cfg.PictureDir
	extension := "png"
	if mode == ModeVideo {
		dir = c.cfg.VideoDir
		extension = "mkv"
	}
	if dir == "" {
		subdir := "Pictures"
		if mode == ModeVideo {
			subdir = "Videos"
		}
		dir = filepath.Join(home, subdir)
	}

	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to get hostname: %w", err)
	}
	host, _, _ = strings.Cut(host, ".")

	name := fmt.Sprintf("%s.%s.%s", host, time.Now().Format("2006-01-02.1504.05"), extension)
	return filepath.Join(dir, "Screenshot", name), nil
}

// captureImage delegates to the screenshot backend.
func (c *Capturer) captureImage(path string, region RegionKind) error {
	backend, err := screenshot.NewBackend()
	if err != nil {
		return err
	}

	mode := screenshot.ModeScreen
	switch region {
	case RegionWindow:
		mode = screenshot.ModeWindow
	case RegionSelect:
		mode = screenshot.ModeArea
	}
	return backend.Capture(path, mode)
}

// captureVideo negotiates codecs, resolves the region and records with
// ffmpeg until it exits.
func (c *Capturer) captureVideo(path string, opts Options) error {
	log := logger.WithComponent("capture")

	selection, err := SelectCodecs(c.cfg.Codecs)
	if err != nil {
		return err
	}
	log.Info().
		Str("container", selection.Container).
		Str("video", selection.VideoEncoder).
		Str("audio", selection.AudioEncoder).
		Msg("Negotiated codecs")

	grab, err := c.Region(opts.Region)
	if err != nil {
		return err
	}

	if opts.Framerate <= 0 {
		opts.Framerate = c.cfg.Framerate
	}

	ffmpegPath, err := proc.Which(ffmpeg.Binary)
	if err != nil {
		return err
	}

	args := videoArgs(selection, grab, opts, runtime.NumCPU(), path)
	log.Debug().Strs("args", args).Msg("Recording")

	cmd := exec.Command(ffmpegPath, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	log.Info().Int("pid", cmd.Process.Pid).Msg("Recording started")

	// Exit status matters for the final capture, unlike the capability
	// and region queries.
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg exited with error: %w", err)
	}
	return nil
}

// videoArgs assembles the ffmpeg command line for a screen recording.
func videoArgs(sel Selection, grab x11.Region, opts Options, threads int, path string) []string {
	args := []string{
		"-hide_banner",
		"-threads", strconv.Itoa(threads),
		"-y",
		"-f", sel.ScreenInput,
		"-draw_mouse", "1",
		"-framerate", strconv.Itoa(opts.Framerate),
		"-show_region", "1",
		"-video_size", grab.Resolution,
		"-i", grab.Offset,
		"-f", sel.AudioInput,
		"-i", "default",
		"-f", sel.Container,
		"-map", "0:0",
		"-c:v", sel.VideoEncoder,
		"-preset:v", "fast",
		"-crf", "16",
		"-map", "1:0",
		"-c:a", sel.AudioEncoder,
		"-b:a", "256k",
	}
	if opts.Duration > 0 {
		args = append(args, "-t", strconv.Itoa(opts.Duration))
	}
	return append(args, path)
}
