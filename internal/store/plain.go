package store

import (
	"fmt"
	"os"
	"time"

	"github.com/i474232898/weather-history/internal/weather"
)

// PlainFileStore appends human-readable records to a text file. It never
// reads the file back.
type PlainFileStore struct {
	path string
	now  func() time.Time
}

// NewPlainFileStore creates a store writing to path. The file is created on
// the first Save.
func NewPlainFileStore(path string) *PlainFileStore {
	return &PlainFileStore{path: path, now: time.Now}
}

// Save appends "<timestamp>\n<formatted weather>\n\n".
func (s *PlainFileStore) Save(w weather.Weather) error {
	rec := newRecord(s.now(), w)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", weather.ErrHistoryWrite, s.path, err)
	}

	if _, err := fmt.Fprintf(f, "%s\n%s\n\n", rec.Date, rec.Weather); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", weather.ErrHistoryWrite, s.path, err)
	}
	return nil
}
