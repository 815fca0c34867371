package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okoreev/arenacore/internal/journal"
)

// JournalStore persists combat journal events to PostgreSQL.
//
// Record only buffers: the engine calls it synchronously from the
// simulation loop and must never block on I/O there. A separate
// flusher goroutine (cmd wiring) calls Flush on an interval and once
// more at shutdown.
type JournalStore struct {
	db      *pgxpool.Pool
	matchID string

	mu  sync.Mutex
	buf []journal.Event
}

// NewJournalStore creates a store writing events under one match id.
func NewJournalStore(db *pgxpool.Pool, matchID string) *JournalStore {
	return &JournalStore{db: db, matchID: matchID}
}

// Record buffers one event. Implements journal.Recorder.
func (s *JournalStore) Record(ev journal.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, ev)
}

// Pending returns the number of buffered, unflushed events.
func (s *JournalStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Flush writes all buffered events in one COPY. On error the events
// are kept for the next attempt.
func (s *JournalStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.buf
	s.buf = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	rows := make([][]any, len(batch))
	for i, ev := range batch {
		rows[i] = []any{
			s.matchID, string(ev.Type), ev.SimTime, ev.ActorID, ev.AbilityID,
			int64(ev.Handle), ev.TargetID, ev.Effect, ev.Amount, ev.Phase,
		}
	}

	_, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"journal_events"},
		[]string{"match_id", "event_type", "sim_time", "actor_id", "ability_id",
			"handle", "target_id", "effect", "amount", "phase"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		s.mu.Lock()
		s.buf = append(batch, s.buf...)
		s.mu.Unlock()
		return fmt.Errorf("flushing %d journal events: %w", len(batch), err)
	}
	return nil
}

// LoadMatch reads back every event of a match in sim-time order, for
// post-match analysis tooling.
func (s *JournalStore) LoadMatch(ctx context.Context, matchID string) ([]journal.Event, error) {
	query := `
		SELECT event_type, sim_time, actor_id, ability_id, handle, target_id, effect, amount, phase
		FROM journal_events
		WHERE match_id = $1
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("querying journal for match %q: %w", matchID, err)
	}
	defer rows.Close()

	var events []journal.Event
	for rows.Next() {
		var ev journal.Event
		var evType string
		var handle int64
		if err := rows.Scan(&evType, &ev.SimTime, &ev.ActorID, &ev.AbilityID,
			&handle, &ev.TargetID, &ev.Effect, &ev.Amount, &ev.Phase); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		ev.Type = journal.EventType(evType)
		ev.Handle = uint64(handle)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal rows: %w", err)
	}
	return events, nil
}
