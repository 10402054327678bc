// Package audiotest provides in-memory audio fixtures for tests.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"sync"
)

// WAV encodes interleaved 16-bit samples as a canonical PCM WAV file
func WAV(rate, channels int, samples []int16) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)
	return buf.Bytes()
}

// Sine returns seconds of an interleaved sine tone at the given rate
func Sine(rate, channels int, seconds, freq, amp float64) []int16 {
	frames := int(math.Round(seconds * float64(rate)))
	out := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		for c := 0; c < channels; c++ {
			out[i*channels+c] = v
		}
	}
	return out
}

// Constant returns seconds of an interleaved constant signal
func Constant(rate, channels int, seconds float64, value int16) []int16 {
	frames := int(math.Round(seconds * float64(rate)))
	out := make([]int16, frames*channels)
	for i := range out {
		out[i] = value
	}
	return out
}

// MemFS is an in-memory FileIO that counts reads and can hold them on a gate
type MemFS struct {
	mu     sync.Mutex
	files  map[string][]byte
	reads  int
	writes int
	Gate   chan struct{}
	// WriteErr, when set, fails every write
	WriteErr error
}

// NewMemFS creates an empty file system
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// Put stores a file
func (m *MemFS) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// ReadFileBuffer implements library.FileIO
func (m *MemFS) ReadFileBuffer(path string) ([]byte, error) {
	m.mu.Lock()
	m.reads++
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return data, nil
}

// WriteFileBuffer implements library.FileIO
func (m *MemFS) WriteFileBuffer(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes++
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// File returns a stored file
func (m *MemFS) File(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return data, ok
}

// Reads returns how many reads were attempted
func (m *MemFS) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes returns how many writes succeeded
func (m *MemFS) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
