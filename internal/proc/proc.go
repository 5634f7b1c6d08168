// Package proc locates external tools and exposes their output as lazy line
// streams for scraping.
package proc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xurtis/screencap/internal/logger"
)

// Which resolves a binary name to a path the same way a shell would.
//
// A name starting with "./" is used directly when it exists and is executable.
// Anything else is searched for in $PATH, honoring directory order; the first
// entry that exists wins.
func Which(name string) (string, error) {
	if strings.HasPrefix(name, "./") {
		if info, err := os.Stat(name); err == nil && info.Mode().Perm()&0111 != 0 {
			return name, nil
		}
	}

	for _, prefix := range filepath.SplitList(os.Getenv("PATH")) {
		candidate := filepath.Join(prefix, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no %q found in PATH", name)
}

// Lines is a lazy, forward-only stream of text lines. It may own a child
// process, in which case abandoning the stream without Close leaks the child.
//
// Lines that are not valid UTF-8 are skipped silently; the external tools
// scraped here emit text, and a binary line is never one we are looking for.
type Lines struct {
	scanner *bufio.Scanner
	cmd     *exec.Cmd
	text    string
}

// NewLines wraps an io.Reader as a line stream. Used directly in tests; real
// callers go through Stream or Open.
func NewLines(r io.Reader) *Lines {
	return &Lines{scanner: bufio.NewScanner(r)}
}

// Stream launches path with args and returns its standard output as a line
// stream. Standard error is discarded and standard input is not connected.
// The returned stream owns the child; Close kills and reaps it.
func Stream(path string, args ...string) (*Lines, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = nil
	cmd.Stderr = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe for %s: %w", path, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	logger.WithComponent("proc").Debug().
		Str("path", path).
		Strs("args", args).
		Int("pid", cmd.Process.Pid).
		Msg("Started tool")

	return &Lines{scanner: bufio.NewScanner(stdout), cmd: cmd}, nil
}

// Open resolves name via Which and streams its output.
func Open(name string, args ...string) (*Lines, error) {
	path, err := Which(name)
	if err != nil {
		return nil, err
	}
	return Stream(path, args...)
}

// Scan advances to the next line, skipping lines that fail to decode as
// UTF-8. It returns false when the stream is exhausted.
func (l *Lines) Scan() bool {
	for l.scanner.Scan() {
		if !utf8.Valid(l.scanner.Bytes()) {
			continue
		}
		l.text = l.scanner.Text()
		return true
	}
	return false
}

// Text returns the line read by the last successful Scan.
func (l *Lines) Text() string {
	return l.text
}

// Close releases the stream. When the stream owns a child process the child
// is killed and reaped, even if its output was only partially consumed.
func (l *Lines) Close() error {
	if l.cmd == nil {
		return nil
	}
	if l.cmd.Process != nil {
		l.cmd.Process.Kill()
	}
	err := l.cmd.Wait()
	l.cmd = nil
	if err != nil {
		// Expected for killed children; callers only care that it is gone.
		logger.WithComponent("proc").Debug().Err(err).Msg("Tool exited")
	}
	return nil
}
