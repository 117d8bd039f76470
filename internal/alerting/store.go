package alerting

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SentAlert is one row of delivery history.
type SentAlert struct {
	Ticker    string
	AlertType string
	Priority  string
	Message   string
	SentAt    time.Time
}

// CooldownStore tracks when an alert key was last delivered so the same
// alert does not fire on every scan cycle.
//
// CanSend only checks; MarkSent records a successful delivery. Keeping
// them separate means a failed SMTP send does not burn the cooldown.
type CooldownStore interface {
	CanSend(key string, cooldown time.Duration, now time.Time) (bool, error)
	MarkSent(key string, now time.Time) error
	Record(alert SentAlert) error
	History(limit int) ([]SentAlert, error)
	Close() error
}

// CooldownKey builds the per-ticker, per-alert-type dedupe key.
func CooldownKey(ticker, alertType string) string {
	return fmt.Sprintf("%s_%s", ticker, alertType)
}

// MemoryStore keeps cooldown state in memory. State is lost on restart,
// which is fine for one-shot runs and tests.
type MemoryStore struct {
	mu       sync.Mutex
	lastSent map[string]time.Time
	history  []SentAlert
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lastSent: make(map[string]time.Time)}
}

func (s *MemoryStore) CanSend(key string, cooldown time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastSent[key]
	if ok && now.Sub(last) < cooldown {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) MarkSent(key string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[key] = now
	return nil
}

func (s *MemoryStore) Record(alert SentAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, alert)
	return nil
}

func (s *MemoryStore) History(limit int) ([]SentAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]SentAlert, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.history[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// SQLiteStore persists cooldowns and alert history so restarts do not
// re-send every alert inside the cooldown window.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("💾 Alert store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alert_cooldowns (
			key TEXT PRIMARY KEY,
			last_sent INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS alert_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sent_at INTEGER NOT NULL,
			ticker TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			priority TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) CanSend(key string, cooldown time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastUnix int64
	err := s.db.QueryRow(`SELECT last_sent FROM alert_cooldowns WHERE key = ?`, key).Scan(&lastUnix)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("query cooldown: %w", err)
	}

	last := time.Unix(lastUnix, 0)
	return now.Sub(last) >= cooldown, nil
}

func (s *SQLiteStore) MarkSent(key string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO alert_cooldowns (key, last_sent) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET last_sent = excluded.last_sent`,
		key, now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Record(alert SentAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO alert_history (sent_at, ticker, alert_type, priority, message)
		 VALUES (?, ?, ?, ?, ?)`,
		alert.SentAt.Unix(), alert.Ticker, alert.AlertType, alert.Priority, alert.Message,
	)
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History(limit int) ([]SentAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT sent_at, ticker, alert_type, priority, message
		  FROM alert_history ORDER BY sent_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SentAlert
	for rows.Next() {
		var a SentAlert
		var sentUnix int64
		if err := rows.Scan(&sentUnix, &a.Ticker, &a.AlertType, &a.Priority, &a.Message); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		a.SentAt = time.Unix(sentUnix, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
