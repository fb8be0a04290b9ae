package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/i474232898/weather-history/internal/weather"
)

// JSONFileStore keeps history as a single indented JSON array of
// HistoryRecord. Every Save rewrites the whole array.
//
// The read-modify-write cycle is serialized by a mutex inside the process and
// by an advisory lock on "<path>.lock" across processes, so concurrent
// writers cannot drop each other's entries.
type JSONFileStore struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
	now  func() time.Time
}

// NewJSONFileStore opens the store at path, creating it with an empty array
// if it does not exist yet.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONFileStore) init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", weather.ErrHistoryWrite, s.path, err)
	}

	// O_EXCL keeps a file created by a concurrent process intact.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	if _, err := f.WriteString("[]"); err != nil {
		f.Close()
		return fmt.Errorf("%w: init %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: init %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	return nil
}

// Save appends a record for w.
func (s *JSONFileStore) Save(w weather.Weather) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	defer s.lock.Unlock()

	// Opening read-write up front surfaces a permission problem on either
	// side before anything is changed.
	history, err := s.read(os.O_RDWR)
	if err != nil {
		return err
	}

	history = append(history, newRecord(s.now(), w))
	return s.write(history)
}

// Records returns all stored records in insertion order.
func (s *JSONFileStore) Records() ([]HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	defer s.lock.Unlock()

	return s.read(os.O_RDONLY)
}

func (s *JSONFileStore) read(flag int) ([]HistoryRecord, error) {
	f, err := os.OpenFile(s.path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", weather.ErrHistoryWrite, s.path, err)
	}

	history := []HistoryRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return history, nil
	}
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	return history, nil
}

// write replaces the file with history through a temp file and a rename, so
// readers never observe a half-written array. The replacement keeps the
// permission bits of the existing file, and a symlinked path is rewritten at
// its target.
func (s *JSONFileStore) write(history []HistoryRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(history); err != nil {
		return fmt.Errorf("%w: encode: %v", weather.ErrHistoryWrite, err)
	}

	target, err := filepath.EvalSymlinks(s.path)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	fi, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", weather.ErrHistoryWrite, target, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", weather.ErrHistoryWrite, target, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", weather.ErrHistoryWrite, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", weather.ErrHistoryWrite, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", weather.ErrHistoryWrite, tmpName, err)
	}
	if err := os.Chmod(tmpName, fi.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", weather.ErrHistoryWrite, tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("%w: replace %s: %v", weather.ErrHistoryWrite, target, err)
	}
	return nil
}
