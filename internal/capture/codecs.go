package capture

import (
	"fmt"

	"github.com/xurtis/screencap/internal/config"
	"github.com/xurtis/screencap/internal/ffmpeg"
)

// Selection is the concrete set of codec names negotiated for a recording.
type Selection struct {
	Container    string `json:"container"`
	ScreenInput  string `json:"screen_input"`
	AudioInput   string `json:"audio_input"`
	VideoEncoder string `json:"video_encoder"`
	AudioEncoder string `json:"audio_encoder"`
}

// SelectCodecs queries ffmpeg's capability listings and picks a concrete
// codec per category from the configured candidate lists. A category with
// no available candidate is fatal: recording cannot proceed without it.
func SelectCodecs(codecs config.CodecConfig) (Selection, error) {
	formats, err := ffmpeg.Formats()
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	var ok bool

	if sel.Container, ok = ffmpeg.FindCodec(formats, codecs.Containers, ffmpeg.Encodes); !ok {
		return Selection{}, fmt.Errorf("ffmpeg supports none of the container formats %v", codecs.Containers)
	}
	if sel.ScreenInput, ok = ffmpeg.FindCodec(formats, codecs.ScreenInputs, ffmpeg.Decodes); !ok {
		return Selection{}, fmt.Errorf("ffmpeg supports none of the screen grab inputs %v", codecs.ScreenInputs)
	}
	if sel.AudioInput, ok = ffmpeg.FindCodec(formats, codecs.AudioInputs, ffmpeg.Decodes); !ok {
		return Selection{}, fmt.Errorf("ffmpeg supports none of the audio inputs %v", codecs.AudioInputs)
	}

	video, err := ffmpeg.VideoEncoders()
	if err != nil {
		return Selection{}, err
	}
	if sel.VideoEncoder, ok = ffmpeg.FindCodec(video, codecs.VideoEncoders, ffmpeg.Encodes); !ok {
		return Selection{}, fmt.Errorf("ffmpeg supports none of the video encoders %v", codecs.VideoEncoders)
	}

	audio, err := ffmpeg.AudioEncoders()
	if err != nil {
		return Selection{}, err
	}
	if sel.AudioEncoder, ok = ffmpeg.FindCodec(audio, codecs.AudioEncoders, ffmpeg.Encodes); !ok {
		return Selection{}, fmt.Errorf("ffmpeg supports none of the audio encoders %v", codecs.AudioEncoders)
	}

	return sel, nil
}
