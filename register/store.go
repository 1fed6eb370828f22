/*
store.go - Persistence collaborator for the register

PURPOSE:
  The register keeps its state in memory and hands the whole date-keyed
  mapping to a Persistence after every mutation. Load is called once, when
  the Ledger is constructed.

WHOLESALE CONTRACT:
  Save always receives the complete mapping, never a delta. Implementations
  replace whatever they held before. There is no partial-write protection
  beyond what the backend gives for free.

IMPLEMENTATIONS:
  - register/store/memory.go: in-memory, for tests and dev
  - store/jsonfile: one JSON document on disk
  - store/sqlite: SQLite tables
  - store/postgres: PostgreSQL tables
*/
package register

import "context"

// Persistence loads and saves the full date → DayLedger mapping.
type Persistence interface {
	// Load returns every stored day. A fresh backend returns an empty map.
	Load(ctx context.Context) (map[Date]DayLedger, error)

	// Save replaces the stored mapping with days.
	Save(ctx context.Context, days map[Date]DayLedger) error
}
