package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"tcw-alerts/internal/alert"
)

// SQLite persists alerts in a single-file sqlite database so that standing
// alerts survive restarts of the service.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and ensures the alerts
// table exists.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	createTableQuery := `
	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		entry_price REAL NOT NULL,
		tag TEXT NOT NULL,
		signal_time TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to create alerts table: %w", err)
	}

	log.Debug("Database initialized successfully.")
	return &SQLite{db: db}, nil
}

func (s *SQLite) ListAll() ([]alert.Alert, error) {
	query := `SELECT id, symbol, side, entry_price, tag, signal_time FROM alerts;`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []alert.Alert
	for rows.Next() {
		var a alert.Alert
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Side, &a.EntryPrice, &a.Tag, &a.SignalTime); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLite) Insert(a alert.Alert) error {
	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM alerts WHERE id = ?);`, a.ID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check alert id: %w", err)
	}
	if exists {
		return ErrDuplicateID
	}

	query := `
	INSERT INTO alerts (id, symbol, side, entry_price, tag, signal_time)
	VALUES (?, ?, ?, ?, ?, ?);`
	if _, err := s.db.Exec(query, a.ID, a.Symbol, a.Side, a.EntryPrice, a.Tag, a.SignalTime); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`DELETE FROM alerts WHERE id IN (%s);`, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to delete alerts: %w", err)
	}
	return nil
}

func (s *SQLite) ReplaceAll(alerts []alert.Alert) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM alerts;`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}

	query := `
	INSERT INTO alerts (id, symbol, side, entry_price, tag, signal_time)
	VALUES (?, ?, ?, ?, ?, ?);`
	for _, a := range alerts {
		if _, err := tx.Exec(query, a.ID, a.Symbol, a.Side, a.EntryPrice, a.Tag, a.SignalTime); err != nil {
			return fmt.Errorf("failed to insert alert %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit overwrite: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
