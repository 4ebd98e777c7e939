package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spec-kit/sla-engine/internal/domain"
)

// fileEntry is the on-disk JSON shape for one holiday.
type fileEntry struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// FileStore persists holiday entries as one JSON file per (countryCode, year)
// under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create holiday cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context, countryCode string, year int) ([]domain.Holiday, bool, error) {
	data, err := os.ReadFile(s.path(countryCode, year))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read holiday cache: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decode holiday cache %s/%d: %w", countryCode, year, err)
	}

	holidays := make([]domain.Holiday, 0, len(entries))
	for _, entry := range entries {
		day, err := time.ParseInLocation("2006-01-02", entry.Date, time.UTC)
		if err != nil {
			return nil, false, fmt.Errorf("decode holiday cache %s/%d: %w", countryCode, year, err)
		}
		holidays = append(holidays, domain.Holiday{
			Date:        day,
			LocalName:   entry.LocalName,
			Name:        entry.Name,
			CountryCode: countryCode,
		})
	}
	return holidays, true, nil
}

func (s *FileStore) Save(_ context.Context, countryCode string, year int, holidays []domain.Holiday) error {
	entries := make([]fileEntry, 0, len(holidays))
	for _, h := range holidays {
		entries = append(entries, fileEntry{
			Date:      h.Date.UTC().Format("2006-01-02"),
			LocalName: h.LocalName,
			Name:      h.Name,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	// Write-then-rename keeps a concurrent reader from seeing a torn file.
	target := s.path(countryCode, year)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write holiday cache: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("write holiday cache: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, countryCode string, year int) error {
	err := os.Remove(s.path(countryCode, year))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) path(countryCode string, year int) string {
	name := fmt.Sprintf("%s_%d.json", strings.ToUpper(countryCode), year)
	return filepath.Join(s.dir, name)
}
