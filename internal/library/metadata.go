package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"golang.org/x/crypto/blake2b"
)

// MetadataReader extracts display metadata from audio files
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read returns a bin item for filePath. Files without readable tags fall
// back to their file name.
func (r *MetadataReader) Read(filePath string) *Item {
	item := &Item{
		AssetID: AssetID(filePath),
		Path:    filePath,
		Title:   baseTitle(filePath),
	}

	file, err := os.Open(filePath)
	if err != nil {
		return item
	}
	defer file.Close()

	if title, artist := ReadTags(file); title != "" {
		item.Title = title
		item.Artist = artist
	}
	return item
}

// ReadTags returns the title and artist tags of an audio stream, or empty
// strings when it carries none
func ReadTags(r io.ReadSeeker) (title, artist string) {
	metadata, err := tag.ReadFrom(r)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(metadata.Title()), strings.TrimSpace(metadata.Artist())
}

// AssetID derives a stable asset identity from a file path
func AssetID(filePath string) string {
	hash := blake2b.Sum256([]byte(filePath))
	return fmt.Sprintf("asset-%x", hash[:8])
}

func baseTitle(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
