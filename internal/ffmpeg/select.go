package ffmpeg

// Encodes filters rows that can encode.
func Encodes(s Support) bool { return s.Encode }

// Decodes filters rows that can decode.
func Decodes(s Support) bool { return s.Decode }

// FindCodec picks the best available codec from rows. candidates lists
// acceptable codec names, most preferred first; filter restricts matches to
// encode- or decode-capable rows.
//
// The scan is exhaustive, remembering the last matching row per candidate
// name, and only then walks the candidate list in priority order. ffmpeg's
// listing order carries no meaning, so desirability must come purely from
// the candidate order; short-circuiting during the scan would let listing
// position leak into selection.
//
// Returns the canonical name of the winner, or ok=false when nothing
// matched. Absence is an answer, not an error; the caller decides whether
// it is fatal.
func FindCodec(rows []Support, candidates []string, filter func(Support) bool) (string, bool) {
	found := make(map[string]Support)
	for _, row := range rows {
		for _, name := range candidates {
			if row.HasName(name) && filter(row) {
				found[name] = row
			}
		}
	}

	for _, name := range candidates {
		if row, ok := found[name]; ok {
			return row.Name(), true
		}
	}
	return "", false
}
