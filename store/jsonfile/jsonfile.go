// Package jsonfile persists the register as a single JSON document:
//
//	{
//	  "2026-10-19": {"date": "2026-10-19", "opening_cash": "100", ...},
//	  ...
//	}
//
// Every save rewrites the whole file. The document is written to a
// temporary file next to the target and renamed over it.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/warp/cashdesk/register"
)

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the document. A missing file is an empty register.
func (s *Store) Load(_ context.Context) (map[register.Date]register.DayLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[register.Date]register.DayLedger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	days := map[register.Date]register.DayLedger{}
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	for date, day := range days {
		if day.Date != date {
			return nil, fmt.Errorf("%s: entry %s carries date %s", s.path, date, day.Date)
		}
		if day.Sales == nil {
			day.Sales = []register.Sale{}
			days[date] = day
		}
	}
	return days, nil
}

func (s *Store) Save(ctx context.Context, days map[register.Date]register.DayLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode register: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

var _ register.Persistence = (*Store)(nil)
