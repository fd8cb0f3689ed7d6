package trace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// flushBatch is the number of buffered events written per transaction.
const flushBatch = 512

// Event is one recorded pipeline occurrence.
type Event struct {
	Tick uint64
	Kind string
	Lane int
	Seq  uint64
}

// Run accumulates events for a single pipeline run and writes them to the
// store in batches.
type Run struct {
	store  *Store
	id     string
	buffer []Event
}

// BeginRun inserts a new run row and returns a recorder for it. configJSON
// is stored verbatim so a run can later be reproduced.
func (s *Store) BeginRun(ctx context.Context, configJSON string) (*Run, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, config_json) VALUES (?, ?, ?)",
		id, createdAt, configJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{store: s, id: id, buffer: make([]Event, 0, flushBatch)}, nil
}

// ID returns the run's identifier.
func (r *Run) ID() string {
	return r.id
}

// Record buffers one event, flushing to the database when the batch fills.
func (r *Run) Record(ctx context.Context, ev Event) error {
	r.buffer = append(r.buffer, ev)
	if len(r.buffer) < flushBatch {
		return nil
	}
	return r.flush(ctx)
}

// Finish flushes remaining events and marks the run complete with its
// final counters.
func (r *Run) Finish(ctx context.Context, ticks, admitted, released uint64) error {
	if err := r.flush(ctx); err != nil {
		return err
	}
	_, err := r.store.db.ExecContext(ctx,
		"UPDATE runs SET ticks = ?, blocks_admitted = ?, blocks_released = ?, completed = 1 WHERE id = ?",
		ticks, admitted, released, r.id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (r *Run) flush(ctx context.Context) error {
	if len(r.buffer) == 0 {
		return nil
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var sb strings.Builder
	sb.WriteString("INSERT INTO events (run_id, tick, kind, lane, seq) VALUES ")
	args := make([]any, 0, len(r.buffer)*5)
	for i, ev := range r.buffer {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, r.id, ev.Tick, ev.Kind, ev.Lane, ev.Seq)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit events: %w", err)
	}

	r.buffer = r.buffer[:0]
	return nil
}
