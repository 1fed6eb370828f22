// Package postgres provides a PostgreSQL-backed register.Persistence.
//
// The schema mirrors store/sqlite: day_ledgers plus sales ordered by
// position (0 = newest). Save rewrites both tables in one transaction.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/warp/cashdesk/register"
)

type Store struct {
	db *sql.DB
}

// Open connects using a lib/pq DSN and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := NewStore(db)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing connection pool. The schema must exist.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS day_ledgers (
		date DATE PRIMARY KEY,
		opening_cash NUMERIC NOT NULL,
		opening_card NUMERIC NOT NULL,
		locked BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		date DATE NOT NULL REFERENCES day_ledgers(date) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		sale_id INTEGER NOT NULL,
		amount NUMERIC NOT NULL CHECK (amount > 0),
		payment_method TEXT NOT NULL CHECK (payment_method IN ('cash', 'card')),
		created_at TIMESTAMPTZ NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (date, position)
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date_sale_id ON sales(date, sale_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Load(ctx context.Context) (map[register.Date]register.DayLedger, error) {
	days := make(map[register.Date]register.DayLedger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), opening_cash, opening_card, locked FROM day_ledgers`)
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
		if day.Date, err = register.ParseDate(dateStr); err != nil {
			return nil, err
		}
		day.Sales = []register.Sale{}
		days[day.Date] = day
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	saleRows, err := s.db.QueryContext(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), sale_id, amount, payment_method, created_at, comment
		FROM sales
		ORDER BY date, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer saleRows.Close()

	for saleRows.Next() {
		var (
			dateStr string
			method  string
			sale    register.Sale
		)
		if err := saleRows.Scan(&dateStr, &sale.ID, &sale.Amount, &method, &sale.Timestamp, &sale.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		date, err := register.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		sale.PaymentMethod = register.PaymentMethod(method)

		day, ok := days[date]
		if !ok {
			return nil, fmt.Errorf("sale for unknown day %s", date)
		}
		day.Sales = append(day.Sales, sale)
		days[date] = day
	}
	return days, saleRows.Err()
}

func (s *Store) Save(ctx context.Context, days map[register.Date]register.DayLedger) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}
	if _, err = dbTx.ExecContext(ctx, `DELETE FROM day_ledgers`); err != nil {
		return fmt.Errorf("failed to clear day ledgers: %w", err)
	}

	now := time.Now().UTC()
	for date, day := range days {
		_, err = dbTx.ExecContext(ctx, `
			INSERT INTO day_ledgers (date, opening_cash, opening_card, locked, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, date.String(), day.OpeningCash, day.OpeningCard, day.Locked, now)
		if err != nil {
			return fmt.Errorf("failed to insert day %s: %w", date, err)
		}

		for pos, sale := range day.Sales {
			_, err = dbTx.ExecContext(ctx, `
				INSERT INTO sales (date, position, sale_id, amount, payment_method, created_at, comment)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, date.String(), pos, sale.ID, sale.Amount, string(sale.PaymentMethod), sale.Timestamp.UTC(), sale.Comment)
			if err != nil {
				return fmt.Errorf("failed to insert sale #%d on %s: %w", sale.ID, date, err)
			}
		}
	}

	return dbTx.Commit()
}

var _ register.Persistence = (*Store)(nil)
