package audio

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/jscyril/golang_timeline_editor/api"
	playerrors "github.com/jscyril/golang_timeline_editor/pkg/errors"
)

// SupportedFormats returns the formats that can actually be decoded.
// The browser lists more extensions; those fail with ErrUnsupportedFormat.
func SupportedFormats() []string {
	return []string{".mp3", ".wav", ".flac", ".ogg"}
}

// IsSupported checks if a file format is decodable
func IsSupported(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// DecodeAudio decodes an audio stream based on the file extension
func DecodeAudio(r io.ReadSeekCloser, filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".mp3":
		return mp3.Decode(r)
	case ".wav":
		return wav.Decode(r)
	case ".flac":
		return flac.Decode(r)
	case ".ogg":
		return vorbis.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", playerrors.ErrUnsupportedFormat, ext)
	}
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

// DecodePCM decodes a whole in-memory file into per-channel samples
func DecodePCM(data []byte, filePath string) (*api.PCM, error) {
	streamer, format, err := DecodeAudio(nopSeekCloser{bytes.NewReader(data)}, filePath)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	}
	if channels > 2 {
		channels = 2
	}

	pcm := &api.PCM{
		SampleRate: int(format.SampleRate),
		Channels:   make([][]float64, channels),
	}
	if n := streamer.Len(); n > 0 {
		for c := range pcm.Channels {
			pcm.Channels[c] = make([]float64, 0, n)
		}
	}

	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for _, frame := range buf[:n] {
			for c := range pcm.Channels {
				pcm.Channels[c] = append(pcm.Channels[c], frame[c])
			}
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("stream samples: %w", err)
	}
	if pcm.Frames() == 0 {
		return nil, fmt.Errorf("no samples decoded")
	}
	return pcm, nil
}
