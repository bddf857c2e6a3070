package statsstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS wallet_views (
	address        TEXT PRIMARY KEY,
	views          INTEGER NOT NULL DEFAULT 0,
	last_viewed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS value_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	address     TEXT NOT NULL,
	value_usd   REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_value_history_address
	ON value_history(address, recorded_at DESC);
`

// SQLiteStore implements port.StatsStore on an embedded SQLite database.
// The per-address value history is trimmed to historySize rows on every
// insert, so the table stays bounded without a maintenance job.
type SQLiteStore struct {
	db          *sql.DB
	historySize int
	logger      port.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// applies the schema.
func NewSQLiteStore(dbPath string, historySize int, l port.Logger) (*SQLiteStore, error) {
	if historySize <= 0 {
		historySize = 30
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create stats database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database %s: %w", dbPath, err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent report requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply stats schema: %w", err)
	}

	l.Info("Stats database ready", "path", dbPath, "history_size", historySize)
	return &SQLiteStore{db: db, historySize: historySize, logger: l}, nil
}

// IncrementView bumps and returns the view counter for an address.
func (s *SQLiteStore) IncrementView(ctx context.Context, address string) (int64, error) {
	addr := utils.NormalizeAddress(address)

	var views int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wallet_views (address, views, last_viewed_at)
		VALUES (?, 1, ?)
		ON CONFLICT(address) DO UPDATE SET
			views = views + 1,
			last_viewed_at = excluded.last_viewed_at
		RETURNING views`,
		addr, time.Now().UTC()).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("failed to increment view counter for %s: %w", addr, err)
	}
	return views, nil
}

// UniqueWallets returns how many distinct addresses have been queried.
func (s *SQLiteStore) UniqueWallets(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM wallet_views`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unique wallets: %w", err)
	}
	return count, nil
}

// RecordValue appends a total-value sample and trims the address's history
// to the configured size.
func (s *SQLiteStore) RecordValue(ctx context.Context, address string, valueUSD float64) error {
	addr := utils.NormalizeAddress(address)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin value-history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO value_history (address, value_usd, recorded_at)
		VALUES (?, ?, ?)`,
		addr, valueUSD, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record value sample for %s: %w", addr, err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM value_history
		WHERE address = ? AND id NOT IN (
			SELECT id FROM value_history
			WHERE address = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		)`,
		addr, addr, s.historySize); err != nil {
		return fmt.Errorf("failed to trim value history for %s: %w", addr, err)
	}

	return tx.Commit()
}

// LatestValue returns the most recent sample for the address, or ok=false
// when there is none.
func (s *SQLiteStore) LatestValue(ctx context.Context, address string) (entity.ValueSample, bool, error) {
	addr := utils.NormalizeAddress(address)

	var sample entity.ValueSample
	err := s.db.QueryRowContext(ctx, `
		SELECT value_usd, recorded_at FROM value_history
		WHERE address = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`,
		addr).Scan(&sample.ValueUSD, &sample.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ValueSample{}, false, nil
	}
	if err != nil {
		return entity.ValueSample{}, false, fmt.Errorf("failed to read latest value for %s: %w", addr, err)
	}
	return sample, true, nil
}

// ValueHistory returns up to limit samples for the address, oldest first.
func (s *SQLiteStore) ValueHistory(ctx context.Context, address string, limit int) ([]entity.ValueSample, error) {
	addr := utils.NormalizeAddress(address)
	if limit <= 0 || limit > s.historySize {
		limit = s.historySize
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT value_usd, recorded_at FROM (
			SELECT id, value_usd, recorded_at FROM value_history
			WHERE address = ?
			ORDER BY recorded_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY recorded_at ASC, id ASC`,
		addr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read value history for %s: %w", addr, err)
	}
	defer rows.Close()

	var samples []entity.ValueSample
	for rows.Next() {
		var sample entity.ValueSample
		if err := rows.Scan(&sample.ValueUSD, &sample.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan value sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ port.StatsStore = (*SQLiteStore)(nil)
