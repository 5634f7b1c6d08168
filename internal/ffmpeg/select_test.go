package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoder(names ...string) Support {
	return Support{Names: names, Encode: true}
}

func TestFindCodecPrefersCandidateOrder(t *testing.T) {
	// libx264 appears before h264 in the candidate list but after it in
	// the listing; candidate order must win.
	rows := []Support{
		encoder("h264"),
		encoder("libx264"),
	}
	candidates := []string{"h264_nvenc", "h264_qsv", "libx264", "h264"}

	name, ok := FindCodec(rows, candidates, Encodes)
	require.True(t, ok)
	assert.Equal(t, "libx264", name)
}

func TestFindCodecEmptySet(t *testing.T) {
	_, ok := FindCodec(nil, []string{"libx264", "h264"}, Encodes)
	assert.False(t, ok)
}

func TestFindCodecNoCandidateMatches(t *testing.T) {
	rows := []Support{encoder("vp9"), encoder("av1")}

	_, ok := FindCodec(rows, []string{"libx264", "h264"}, Encodes)
	assert.False(t, ok)
}

func TestFindCodecRespectsFilter(t *testing.T) {
	rows := []Support{
		{Names: []string{"x11grab"}, Decode: true},
		{Names: []string{"matroska"}, Encode: true},
	}

	name, ok := FindCodec(rows, []string{"x11grab"}, Decodes)
	require.True(t, ok)
	assert.Equal(t, "x11grab", name)

	_, ok = FindCodec(rows, []string{"x11grab"}, Encodes)
	assert.False(t, ok)
}

func TestFindCodecReturnsCanonicalName(t *testing.T) {
	// Matched by alias, reported by canonical (first) name.
	rows := []Support{encoder("264", "h264")}

	name, ok := FindCodec(rows, []string{"h264"}, Encodes)
	require.True(t, ok)
	assert.Equal(t, "264", name)
}

func TestFindCodecLastRowWinsPerCandidate(t *testing.T) {
	// Two rows answer to the same candidate alias; the later one is
	// remembered, and its canonical name is reported.
	rows := []Support{
		encoder("first", "shared"),
		encoder("second", "shared"),
	}

	name, ok := FindCodec(rows, []string{"shared"}, Encodes)
	require.True(t, ok)
	assert.Equal(t, "second", name)
}
