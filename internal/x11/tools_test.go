package x11

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xurtis/screencap/internal/proc"
)

const xdpyinfoOutput = `name of display:    :0
version number:    11.0
vendor string:    The X.Org Foundation
default screen number:    0
number of screens:    1

screen #0:
  dimensions:    1920x1080 pixels (508x285 millimeters)
  resolution:    96x96 dots per inch
`

const xpropOutput = `_NET_SUPPORTING_WM_CHECK(WINDOW): window id # 0x400003
_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007
_NET_CLIENT_LIST(WINDOW): window id # 0x3a00007, 0x3c00003
`

const xwininfoOutput = `xwininfo: Window id: 0x3a00007 "some window"

  Absolute upper-left X:  128
  Absolute upper-left Y:  96
  Relative upper-left X:  0
  Relative upper-left Y:  0
  Width: 1024
  Height: 768
  Depth: 24
`

// fakeOpen serves canned tool output keyed by tool name.
func fakeOpen(output map[string]string) func(string, ...string) (*proc.Lines, error) {
	return func(name string, args ...string) (*proc.Lines, error) {
		text, ok := output[name]
		if !ok {
			return nil, fmt.Errorf("no %q found in PATH", name)
		}
		return proc.NewLines(strings.NewReader(text)), nil
	}
}

func TestFullScreen(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{"xdpyinfo": xdpyinfoOutput})

	region, err := backend.FullScreen()
	require.NoError(t, err)
	assert.Equal(t, "1920x1080", region.Resolution)
	assert.Equal(t, ":0.0+0,0", region.Offset)
}

func TestFullScreenNoDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{"xdpyinfo": xdpyinfoOutput})

	_, err := backend.FullScreen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISPLAY")
}

func TestFullScreenMissingDimensions(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{"xdpyinfo": "screen #0:\nno geometry here\n"})

	_, err := backend.FullScreen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestFullScreenMissingScreen(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{"xdpyinfo": "name of display: :0\n"})

	_, err := backend.FullScreen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary screen")
}

func TestCurrentWindow(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{
		"xprop":    xpropOutput,
		"xwininfo": xwininfoOutput,
	})

	region, err := backend.CurrentWindow()
	require.NoError(t, err)
	assert.Equal(t, "1024x768", region.Resolution)
	assert.Equal(t, ":0.0+128,96", region.Offset)
}

func TestCurrentWindowNoActiveWindow(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{
		"xprop":    "_NET_SUPPORTING_WM_CHECK(WINDOW): window id # 0x400003\n",
		"xwininfo": xwininfoOutput,
	})

	_, err := backend.CurrentWindow()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active window")
}

func TestCurrentWindowMissingGeometry(t *testing.T) {
	t.Setenv("DISPLAY", ":0")

	backend := NewToolBackend()
	backend.open = fakeOpen(map[string]string{
		"xprop":    xpropOutput,
		"xwininfo": "xwininfo: Window id: 0x3a00007\n  Width: 1024\n",
	})

	_, err := backend.CurrentWindow()
	require.Error(t, err)
}

func TestNewBackendUnknownName(t *testing.T) {
	_, err := NewBackend("wayland")
	require.Error(t, err)
}

func TestNewBackendDefault(t *testing.T) {
	backend, err := NewBackend("")
	require.NoError(t, err)
	assert.Equal(t, "tools", backend.Name())
}
