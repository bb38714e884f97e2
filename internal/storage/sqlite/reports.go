// Package sqlite archives raw coded weather reports in a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"wxtools/pkg/logger"
)

// ReportRecord is one archived raw report.
type ReportRecord struct {
	ID         int64     `json:"id"`
	Station    string    `json:"station"`
	ReportType string    `json:"report_type"` // "METAR", "SPECI" or "HDOB"
	RawText    string    `json:"raw_text"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// ReportStorage is a SQLite backed archive of raw reports.
type ReportStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewReportStorage opens (creating if needed) the reports database under
// basePath and prepares the schema.
func NewReportStorage(basePath string, log *logger.Logger) (*ReportStorage, error) {
	storageLogger := log.Named("sqlite")

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	dbPath := filepath.Join(basePath, "reports.db")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &ReportStorage{
		db:     db,
		logger: storageLogger,
	}
	if err := storage.initDB(); err != nil {
		return nil, err
	}
	return storage, nil
}

// initDB initializes the database tables
func (s *ReportStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station TEXT NOT NULL,
			report_type TEXT NOT NULL,
			raw_text TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_station ON reports(station)`)
	if err != nil {
		return fmt.Errorf("failed to create station index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_fetched_at ON reports(fetched_at)`)
	if err != nil {
		return fmt.Errorf("failed to create fetched_at index: %w", err)
	}

	return nil
}

// StoreReport archives one raw report and returns its row id.
func (s *ReportStorage) StoreReport(record *ReportRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO reports (station, report_type, raw_text, fetched_at)
		VALUES (?, ?, ?, ?)`,
		record.Station,
		record.ReportType,
		record.RawText,
		record.FetchedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// LatestReport returns the most recently archived report for a station, or
// sql.ErrNoRows wrapped when none exists.
func (s *ReportStorage) LatestReport(station string) (*ReportRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, station, report_type, raw_text, fetched_at
		FROM reports
		WHERE station = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`,
		station,
	)
	record, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest report for %s: %w", station, err)
	}
	return record, nil
}

// ReportHistory returns up to limit archived reports for a station, newest
// first.
func (s *ReportStorage) ReportHistory(station string, limit int) ([]*ReportRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, station, report_type, raw_text, fetched_at
		FROM reports
		WHERE station = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?`,
		station, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	var records []*ReportRecord
	for rows.Next() {
		record, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report rows: %w", err)
	}
	return records, nil
}

// PruneBefore removes reports fetched before the cutoff and returns how
// many rows were deleted.
func (s *ReportStorage) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM reports WHERE fetched_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned reports: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Pruned archived reports",
			logger.Int64("deleted", deleted),
			logger.Time("cutoff", cutoff))
	}
	return deleted, nil
}

// Close closes the underlying database.
func (s *ReportStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*ReportRecord, error) {
	var record ReportRecord
	var fetchedAt string
	if err := row.Scan(&record.ID, &record.Station, &record.ReportType, &record.RawText, &fetchedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid fetched_at timestamp %q: %w", fetchedAt, err)
	}
	record.FetchedAt = parsed
	return &record, nil
}
