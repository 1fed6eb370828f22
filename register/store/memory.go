// Package store provides in-process Persistence implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/cashdesk/register"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps a deep copy of the last saved mapping. FailWith makes the
// next saves fail, which lets tests exercise write failures.
type Memory struct {
	mu      sync.RWMutex
	days    map[register.Date]register.DayLedger
	saves   int
	failErr error
}

func NewMemory() *Memory {
	return &Memory{days: make(map[register.Date]register.DayLedger)}
}

// NewMemoryWith seeds the store, as if days had been saved earlier.
func NewMemoryWith(days map[register.Date]register.DayLedger) *Memory {
	return &Memory{days: register.CloneDays(days)}
}

func (m *Memory) Load(_ context.Context) (map[register.Date]register.DayLedger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return register.CloneDays(m.days), nil
}

func (m *Memory) Save(_ context.Context, days map[register.Date]register.DayLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}
	m.days = register.CloneDays(days)
	m.saves++
	return nil
}

// Saves counts successful Save calls.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// FailWith makes every following Save return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}
