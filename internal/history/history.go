// Package history keeps a short, de-duplicated, most-recent-first log of the
// searches made in a session.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SintaW245/unsplash-gallery/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	MaxEntries = 10
	storeKey   = "search_history"
)

// ErrSessionStore wraps failures of the underlying session store.
var ErrSessionStore = errors.New("history: session store unavailable")

type Entry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"`
}

// Log is ordered most recent first and holds each query at most once.
type Log []Entry

// Queries returns just the query strings, most recent first.
func (l Log) Queries() []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = e.Query
	}
	return out
}

type Store struct {
	sessions session.Store
	now      func() time.Time
	locks    keyedMutex
	log      *logrus.Entry
}

type Option func(*Store)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(sessions session.Store, opts ...Option) *Store {
	s := &Store{
		sessions: sessions,
		now:      time.Now,
		log:      logrus.WithField("component", "history"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records q as the most recent search of the session.
func (s *Store) Save(ctx context.Context, sessionID, q string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	current, err := s.read(ctx, sessionID)
	if err != nil {
		return err
	}
	next := Append(current, Entry{Query: q, Timestamp: s.now().Unix()})

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.sessions.Set(ctx, sessionID, storeKey, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	return nil
}

// Load returns the session's log, empty if nothing was saved yet.
func (s *Store) Load(ctx context.Context, sessionID string) (Log, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.read(ctx, sessionID)
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionID, storeKey); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, sessionID string) (Log, error) {
	data, err := s.sessions.Get(ctx, sessionID, storeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionStore, err)
	}
	if len(data) == 0 {
		return Log{}, nil
	}
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		// An unreadable log is dropped rather than failing every search.
		s.log.WithError(err).Warn("discarding unreadable search history")
		return Log{}, nil
	}
	return l, nil
}

// Append puts e in front of l, keeps the MaxEntries most recent entries and
// then drops older repeats of the same query. Truncating first means fewer
// than MaxEntries may survive when the window held duplicates.
func Append(l Log, e Entry) Log {
	next := make(Log, 0, len(l)+1)
	next = append(next, e)
	next = append(next, l...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}

	seen := make(map[string]struct{}, len(next))
	unique := next[:0]
	for _, entry := range next {
		if _, dup := seen[entry.Query]; dup {
			continue
		}
		seen[entry.Query] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
