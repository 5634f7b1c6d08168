package proc

import (
	"fmt"
	"strings"
)

// Contains returns a line predicate matching lines that contain substr.
func Contains(substr string) func(string) bool {
	return func(line string) bool {
		return strings.Contains(line, substr)
	}
}

// FindLine consumes the stream until the first line satisfying match and
// returns it. The stream is left positioned after the matched line, so
// subsequent searches continue from there. Exhausting the stream without a
// match is a hard failure: the tool's output format is assumed stable, and a
// miss means an incompatible tool, not a transient condition.
func FindLine(lines *Lines, match func(string) bool) (string, error) {
	for lines.Scan() {
		if line := lines.Text(); match(line) {
			return line, nil
		}
	}
	return "", fmt.Errorf("output ended before a matching line")
}

// Token returns the nth whitespace-delimited token of line, zero-based.
func Token(line string, n int) (string, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if n >= len(fields) {
		return "", fmt.Errorf("no token #%d in line %q", n, line)
	}
	return fields[n], nil
}

// FindToken finds the first line satisfying match and returns its nth token.
func FindToken(lines *Lines, match func(string) bool, n int) (string, error) {
	line, err := FindLine(lines, match)
	if err != nil {
		return "", err
	}
	return Token(line, n)
}
