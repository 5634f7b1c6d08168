// Package ffmpeg queries the external ffmpeg binary for its supported
// container formats and codecs by parsing its capability listings.
package ffmpeg

import (
	"strings"
	"unicode"

	"github.com/xurtis/screencap/internal/proc"
)

// Binary is the transcoder queried for capability listings and invoked for
// the final capture.
const Binary = "ffmpeg"

// Kind classifies a capability row by media kind.
type Kind int

const (
	KindAudio Kind = iota
	KindVideo
	KindSubtitle
	KindFormat
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	case KindFormat:
		return "format"
	}
	return "unknown"
}

// Support is one row of ffmpeg's capability table: the aliases it is known
// by, its human-readable description, and whether ffmpeg can decode or
// encode it.
type Support struct {
	Names       []string `json:"names"`
	Description string   `json:"description"`
	Decode      bool     `json:"decode"`
	Encode      bool     `json:"encode"`
}

// Name returns the canonical (first) alias.
func (s Support) Name() string {
	return s.Names[0]
}

// HasName reports whether name is one of the row's aliases.
func (s Support) HasName(name string) bool {
	for _, n := range s.Names {
		if n == name {
			return true
		}
	}
	return false
}

// ParseLine decodes one line of a capability listing. Lines that do not
// look like data rows (banners, headers, column rules) report ok=false and
// are skipped by callers; a capability listing always interleaves them with
// real rows.
func ParseLine(line string) (Support, Kind, bool) {
	line = strings.TrimSpace(line)

	codeEnd := strings.IndexFunc(line, unicode.IsSpace)
	if codeEnd < 0 {
		return Support{}, 0, false
	}
	code := line[:codeEnd]

	kind, ok := classify(code)
	if !ok {
		return Support{}, 0, false
	}

	rest := strings.TrimSpace(line[codeEnd:])
	namesEnd := strings.IndexFunc(rest, unicode.IsSpace)
	if namesEnd < 0 {
		return Support{}, 0, false
	}

	support := Support{
		Names:       strings.Split(rest[:namesEnd], ","),
		Description: strings.TrimSpace(rest[namesEnd:]),
	}

	if kind == KindFormat {
		support.Decode = strings.Contains(code, "D")
		support.Encode = strings.Contains(code, "E")
	} else {
		support.Decode = code[0] == 'D'
		support.Encode = code[1] == 'E'
	}

	return support, kind, true
}

// classify maps a capability code to a media kind. Format rows use the
// short D/E/DE codes; everything else is a six-character flag column whose
// first and third characters carry the kind marker.
func classify(code string) (Kind, bool) {
	switch code {
	case "D", "E", "DE":
		return KindFormat, true
	}

	if len(code) != 6 {
		return 0, false
	}

	switch {
	case code[0] == 'A' || code[2] == 'A':
		return KindAudio, true
	case code[0] == 'V' || code[2] == 'V':
		return KindVideo, true
	case code[0] == 'S' || code[2] == 'S':
		return KindSubtitle, true
	}
	return 0, false
}

// Formats returns the container formats ffmpeg reports via -formats.
func Formats() ([]Support, error) {
	return listing("-formats", KindFormat, false)
}

// VideoEncoders returns the video encoders ffmpeg reports via -encoders.
func VideoEncoders() ([]Support, error) {
	return listing("-encoders", KindVideo, true)
}

// AudioEncoders returns the audio encoders ffmpeg reports via -encoders.
func AudioEncoders() ([]Support, error) {
	return listing("-encoders", KindAudio, true)
}

// listing invokes ffmpeg with a capability flag and collects the rows of
// the wanted kind. An encoder listing only reports encode capability
// meaningfully, so its rows have encode forced on and decode forced off.
func listing(flag string, want Kind, encoders bool) ([]Support, error) {
	lines, err := proc.Open(Binary, flag, "-hide_banner")
	if err != nil {
		return nil, err
	}
	defer lines.Close()

	var rows []Support
	for lines.Scan() {
		support, kind, ok := ParseLine(lines.Text())
		if !ok || kind != want {
			continue
		}
		if encoders {
			support.Encode = true
			support.Decode = false
		}
		rows = append(rows, support)
	}
	return rows, nil
}
