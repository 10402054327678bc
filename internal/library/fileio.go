package library

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileIO reads source audio and persists exported files
type FileIO interface {
	ReadFileBuffer(path string) ([]byte, error)
	WriteFileBuffer(path string, data []byte) error
}

// OSFileIO is the FileIO backed by the local filesystem
type OSFileIO struct{}

// ReadFileBuffer reads the whole file at path
func (OSFileIO) ReadFileBuffer(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

// WriteFileBuffer writes data to path through a temp file and rename, so a
// failed write never leaves a partial file behind
func (OSFileIO) WriteFileBuffer(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "rename into %s", path)
	}
	return nil
}
