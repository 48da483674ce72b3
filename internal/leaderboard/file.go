package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// fileDocument is the on-disk layout of a FileStore.
type fileDocument struct {
	Version int     `msgpack:"version"`
	Scores  []Entry `msgpack:"scores"`
}

const fileVersion = 1

// FileStore keeps the score document in a local msgpack file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the document. A missing file is an empty leaderboard.
func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	if s.path == "" {
		return nil, ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var doc fileDocument
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return doc.Scores, nil
}

// Save writes the document atomically: a temp file in the same directory is
// renamed over the old one.
func (s *FileStore) Save(ctx context.Context, entries []Entry) error {
	if s.path == "" {
		return ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := msgpack.Marshal(fileDocument{Version: fileVersion, Scores: entries})
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
