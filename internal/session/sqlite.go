package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const DefaultDatabase = "data/sessions.db"

const sessionTable string = `
  CREATE TABLE IF NOT EXISTS session_data (
      session TEXT NOT NULL,
      key TEXT NOT NULL,
      value BLOB NOT NULL,
      expiry INT NOT NULL,
      PRIMARY KEY (session, key)
  )
`

const purgeInterval = 1 * time.Hour

// SQLiteStore persists session data in a SQLite file so history survives
// restarts. Expired rows are ignored on read and purged hourly.
type SQLiteStore struct {
	db   *sql.DB
	ttl  time.Duration
	log  *logrus.Entry
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func NewSQLiteStore(filename string, ttl time.Duration) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open session database %s: %w", filename, err)
	}
	if _, err := db.Exec(sessionTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session table: %w", err)
	}

	store := &SQLiteStore{
		db:   db,
		ttl:  ttl,
		log:  logrus.WithField("component", "session"),
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go store.purgeExpired()
	return store, nil
}

func (s *SQLiteStore) purgeExpired() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		if _, err := s.DeleteBefore(context.Background(), s.now().Unix()); err != nil {
			s.log.WithError(err).Warn("failed to purge expired sessions")
		}
		select {
		case <-ticker.C:
		case <-s.stop:
			return
		}
	}
}

// DeleteBefore removes rows that expired before the given unix time and
// returns how many were removed.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, expiry int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM session_data WHERE expiry < ?", expiry)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT value FROM session_data WHERE session = ? AND key = ? AND expiry >= ?",
		sessionID, key, s.now().Unix())
	var data []byte
	err := row.Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_data (session, key, value, expiry) VALUES (?, ?, ?, ?)
		ON CONFLICT (session, key) DO UPDATE SET value = excluded.value, expiry = excluded.expiry`,
		sessionID, key, value, s.now().Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("write session %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_data WHERE session = ? AND key = ?", sessionID, key)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", key, err)
	}
	return nil
}

// Close stops the purge loop and closes the database.
func (s *SQLiteStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return s.db.Close()
}
