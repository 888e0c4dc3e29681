package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"zillow_scraper/identity"
	"zillow_scraper/models"
)

// SQLiteStore keeps local run history: one row per invocation, the flat
// listings it produced, and its log lines.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY,
		target TEXT NOT NULL,
		kind TEXT NOT NULL,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		listings_found INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS listings (
		id INTEGER PRIMARY KEY,
		run_id INTEGER NOT NULL,
		fingerprint TEXT,
		address TEXT,
		price TEXT,
		link TEXT,
		beds TEXT,
		baths TEXT,
		sqft TEXT,
		property_type TEXT,
		year_built TEXT,
		lot_size TEXT,
		hoa TEXT,
		scraped_at TEXT,
		FOREIGN KEY (run_id) REFERENCES scrape_runs(id)
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id);
	CREATE INDEX IF NOT EXISTS idx_listings_fingerprint ON listings(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_logs_run ON scrape_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON scrape_runs(status, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.ScrapeRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scrape_runs (target, kind, started_at, status, listings_found, errors_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.Target, run.Kind, run.StartedAt, run.Status, run.ListingsFound, run.ErrorsCount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs
		SET finished_at = ?, status = ?, listings_found = ?, errors_count = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.ListingsFound, run.ErrorsCount, run.ID)
	return err
}

func (s *SQLiteStore) SaveListings(runID int64, listings []models.Listing) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (run_id, fingerprint, address, price, link, beds, baths, sqft,
			property_type, year_built, lot_size, hoa, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range listings {
		if _, err := stmt.Exec(runID, identity.Fingerprint(l), l.Address, l.Price, l.Link,
			l.Beds, l.Baths, l.SqFt, l.PropertyType, l.YearBuilt, l.LotSize, l.HOA, l.ScrapedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message)
		VALUES (?, ?, ?, ?)`,
		runID, time.Now(), level, message)
	return err
}

// RecentLogs returns the newest log lines for a run, newest first.
func (s *SQLiteStore) RecentLogs(runID int64, limit int) ([]models.ScrapeLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message
		FROM scrape_logs WHERE run_id = ?
		ORDER BY timestamp DESC, id DESC LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.ScrapeLog{}
	for rows.Next() {
		var l models.ScrapeLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.Timestamp, &l.Level, &l.Message); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetLastRunTime returns the start time of the most recent run for a
// target, zero time when none exists.
func (s *SQLiteStore) GetLastRunTime(target string) (time.Time, error) {
	var startedAt time.Time
	err := s.db.QueryRow(`
		SELECT started_at FROM scrape_runs WHERE target = ?
		ORDER BY started_at DESC LIMIT 1`, target).Scan(&startedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return startedAt, nil
}
