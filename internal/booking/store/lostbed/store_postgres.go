package lostbed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	id "placements/pkg/domain"
	txcontext "placements/pkg/platform/tx"
)

// PostgresStore reads the out_of_service_periods table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindOverlapping(ctx context.Context, bedID id.BedID, candidate id.DateRange, exclude id.LostBedID) ([]*LostBed, error) {
	// Half-open overlap: existing.start < candidate.end AND existing.end > candidate.start.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	builder := psql.Select("id", "bed_id", "start_date", "end_date", "reason").
		From("out_of_service_periods").
		Where(squirrel.Eq{"bed_id": uuid.UUID(bedID)}).
		Where(squirrel.Lt{"start_date": candidate.End}).
		Where(squirrel.Gt{"end_date": candidate.Start})
	if !exclude.IsNil() {
		builder = builder.Where(squirrel.NotEq{"id": uuid.UUID(exclude)})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build overlapping periods query: %w", err)
	}

	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overlapping periods: %w", err)
	}
	defer rows.Close()

	var out []*LostBed
	for rows.Next() {
		var (
			p       LostBed
			rowID   uuid.UUID
			bedUUID uuid.UUID
		)
		if err := rows.Scan(&rowID, &bedUUID, &p.StartDate, &p.EndDate, &p.Reason); err != nil {
			return nil, fmt.Errorf("scan out-of-service period: %w", err)
		}
		p.ID = id.LostBedID(rowID)
		p.BedID = id.BedID(bedUUID)
		out = append(out, &p)
	}
	return out, rows.Err()
}
