package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Entry is one item of a directory listing
type Entry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDirectory bool   `json:"is_directory"`
}

// AudioExtensions is the allow-list of files shown to the editor
var AudioExtensions = []string{".mp3", ".wav", ".ogg", ".flac", ".m4a", ".aac", ".wma", ".aiff"}

// IsAudioFile checks the extension against AudioExtensions
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range AudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ListDirectory returns the subdirectories and audio files of path.
// Hidden entries are skipped; directories come first and each group is
// sorted case-insensitively.
func ListDirectory(path string) ([]Entry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}

	var dirs, files []Entry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		fullPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, Entry{Name: entry.Name(), Path: fullPath, IsDirectory: true})
		} else if IsAudioFile(entry.Name()) {
			files = append(files, Entry{Name: entry.Name(), Path: fullPath})
		}
	}

	sortEntries(dirs)
	sortEntries(files)
	return append(dirs, files...), nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// Scanner walks directory trees concurrently using a worker pool
type Scanner struct {
	workers    int
	metaReader *MetadataReader
}

// NewScanner creates a new file scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		workers:    workers,
		metaReader: NewMetadataReader(),
	}
}

// Scan walks the given roots and returns channels for bin items and errors
func (s *Scanner) Scan(ctx context.Context, paths []string) (<-chan *Item, <-chan error) {
	items := make(chan *Item, 100)
	errs := make(chan error, 10)
	files := make(chan string, 100)

	var wg sync.WaitGroup

	go func() {
		defer close(files)
		for _, path := range paths {
			select {
			case <-ctx.Done():
				return
			default:
			}

			err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					select {
					case errs <- errors.Wrapf(err, "scan %s", p):
					default:
					}
					return nil
				}

				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if !d.IsDir() && IsAudioFile(p) {
					select {
					case files <- p:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				return nil
			})

			if err != nil && err != context.Canceled {
				select {
				case errs <- errors.Wrapf(err, "scan %s", path):
				default:
				}
			}
		}
	}()

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for filePath := range files {
				select {
				case <-ctx.Done():
					return
				default:
				}

				select {
				case items <- s.metaReader.Read(filePath):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(items)
		close(errs)
	}()

	return items, errs
}
