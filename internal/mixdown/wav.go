package mixdown

import (
	"errors"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// EncodeWAV serializes a mix as 16-bit little-endian PCM WAV. Samples are
// clamped to [-1, 1]; negative values scale by 0x8000, positive by 0x7FFF.
func EncodeWAV(mix *Mix) ([]byte, error) {
	if mix == nil || len(mix.Frames) == 0 {
		return nil, errors.New("empty mix")
	}
	channels := mix.Channels
	if channels < 1 || channels > 2 {
		channels = 2
	}

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, mix.SampleRate, bitDepth, channels, 1)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  mix.SampleRate,
		},
		Data:           make([]int, len(mix.Frames)*channels),
		SourceBitDepth: bitDepth,
	}
	for i, frame := range mix.Frames {
		if channels == 1 {
			buf.Data[i] = quantize((frame[0] + frame[1]) / 2)
			continue
		}
		buf.Data[i*2] = quantize(frame[0])
		buf.Data[i*2+1] = quantize(frame[1])
	}

	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return ws.Bytes(), nil
}

// quantize converts a float sample to a signed 16-bit value, truncating
func quantize(v float64) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v < 0 {
		return int(int16(v * 0x8000))
	}
	return int(int16(v * 0x7FFF))
}

// memWriteSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back
// to patch chunk sizes once all samples are written
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(m.pos) + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = int(abs)
	return abs, nil
}

// Bytes returns everything written so far
func (m *memWriteSeeker) Bytes() []byte {
	return m.buf
}
