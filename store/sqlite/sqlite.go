/*
Package sqlite provides a SQLite-backed register.Persistence.

TABLES:
  day_ledgers: one row per stored day (opening balances, lock flag)
  sales:       one row per sale; position 0 is the newest sale of its day

WHOLESALE WRITES:
  Save receives the complete date → ledger mapping. It clears both tables
  and reinserts everything inside one SQL transaction, so a failed save
  leaves the previous mapping in place.

CONCURRENCY:
  Uses sync.RWMutex, and a single connection so that ":memory:" databases
  survive between calls.

USAGE:
  store, err := sqlite.New("./cashdesk.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger, err := register.NewLedger(ctx, store, register.SystemClock{})

SEE ALSO:
  - register/store.go: Persistence interface
  - store/postgres: same schema on PostgreSQL
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/cashdesk/register"
)

// Store implements register.Persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS day_ledgers (
		date TEXT PRIMARY KEY,
		opening_cash TEXT NOT NULL,
		opening_card TEXT NOT NULL,
		locked BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		date TEXT NOT NULL REFERENCES day_ledgers(date) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		sale_id INTEGER NOT NULL,
		amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at TEXT NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, position)
	);

	-- Sale ids are per-day sequence numbers and may repeat after a delete,
	-- so this index is deliberately not UNIQUE.
	CREATE INDEX IF NOT EXISTS idx_sales_date_sale_id
		ON sales(date, sale_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSISTENCE (register.Persistence interface)
// =============================================================================

// Load reads every stored day with its sales.
func (s *Store) Load(ctx context.Context) (map[register.Date]register.DayLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make(map[register.Date]register.DayLedger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, opening_cash, opening_card, locked FROM day_ledgers`)
	if err != nil {
		return nil, fmt.Errorf("failed to query day ledgers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dateStr string
			day     register.DayLedger
		)
		if err := rows.Scan(&dateStr, &day.OpeningCash, &day.OpeningCard, &day.Locked); err != nil {
			return nil, fmt.Errorf("failed to scan day ledger: %w", err)
		}
		if err := day.Date.UnmarshalText([]byte(dateStr)); err != nil {
			return nil, err
		}
		day.Sales = []register.Sale{}
		days[day.Date] = day
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	saleRows, err := s.db.QueryContext(ctx, `
		SELECT date, sale_id, amount, payment_method, created_at, comment
		FROM sales
		ORDER BY date ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer saleRows.Close()

	for saleRows.Next() {
		var (
			dateStr, createdAt string
			sale               register.Sale
		)
		if err := saleRows.Scan(&dateStr, &sale.ID, &sale.Amount, &sale.PaymentMethod, &createdAt, &sale.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		date, err := register.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		sale.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sale timestamp %q: %w", createdAt, err)
		}

		day, ok := days[date]
		if !ok {
			return nil, fmt.Errorf("sale for unknown day %s", date)
		}
		day.Sales = append(day.Sales, sale)
		days[date] = day
	}

	return days, saleRows.Err()
}

// Save replaces the stored mapping atomically.
func (s *Store) Save(ctx context.Context, days map[register.Date]register.DayLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}
	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM day_ledgers`); err != nil {
		return fmt.Errorf("failed to clear day ledgers: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for date, day := range days {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO day_ledgers (date, opening_cash, opening_card, locked, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, date.String(), day.OpeningCash.String(), day.OpeningCard.String(), day.Locked, now)
		if err != nil {
			return fmt.Errorf("failed to insert day %s: %w", date, err)
		}

		for pos, sale := range day.Sales {
			_, err := sqlTx.ExecContext(ctx, `
				INSERT INTO sales (date, position, sale_id, amount, payment_method, created_at, comment)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, date.String(), pos, sale.ID, sale.Amount.String(), string(sale.PaymentMethod),
				sale.Timestamp.UTC().Format(time.RFC3339Nano), sale.Comment)
			if err != nil {
				return fmt.Errorf("failed to insert sale #%d on %s: %w", sale.ID, date, err)
			}
		}
	}

	return sqlTx.Commit()
}

var _ register.Persistence = (*Store)(nil)
