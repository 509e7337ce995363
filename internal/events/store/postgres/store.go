package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"placements/internal/events"
	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
	txcontext "placements/pkg/platform/tx"
)

// Store implements events.Store on the domain_events outbox table. Append
// runs against the transaction carried in context so the event row commits
// atomically with the booking mutation; the worker reads and marks rows
// outside any business transaction.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, env *events.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal domain event: %w", err)
	}

	query, args, err := psql.Insert("domain_events").
		Columns("id", "type", "booking_id", "occurred_at", "payload", "created_at").
		Values(uuid.UUID(env.ID), string(env.Type), uuid.UUID(env.BookingID), env.OccurredAt, payload, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert domain event query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert domain event: %w", err)
	}
	return nil
}

func (s *Store) ListUndispatched(ctx context.Context, limit int) ([]*events.Envelope, error) {
	query, args, err := psql.Select("payload").
		From("domain_events").
		Where("dispatched_at IS NULL").
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build undispatched events query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list undispatched events: %w", err)
	}
	defer rows.Close()

	var out []*events.Envelope
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan domain event: %w", err)
		}
		var env events.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, fmt.Errorf("unmarshal domain event: %w", err)
		}
		out = append(out, &env)
	}
	return out, rows.Err()
}

func (s *Store) MarkDispatched(ctx context.Context, eventID id.EventID, at time.Time) error {
	query, args, err := psql.Update("domain_events").
		Set("dispatched_at", at).
		Where(squirrel.Eq{"id": uuid.UUID(eventID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark dispatched query: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark event dispatched: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
