package placementrequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
	txcontext "placements/pkg/platform/tx"
)

// PostgresStore persists placement requests.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (s *PostgresStore) FindByID(ctx context.Context, requestID id.PlacementRequestID) (*PlacementRequest, error) {
	query, args, err := psql.Select(
		"id", "application_id", "postcode_district", "radius_miles",
		"essential_criteria", "desirable_criteria",
		"expected_arrival", "duration_days", "notes",
		"booking_id", "allocated_to_user_id", "created_at",
	).
		From("placement_requests").
		Where(squirrel.Eq{"id": uuid.UUID(requestID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build placement request query: %w", err)
	}

	var (
		r           PlacementRequest
		rowID       uuid.UUID
		appID       uuid.UUID
		bookingID   uuid.NullUUID
		allocatedTo uuid.NullUUID
	)
	err = s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(
		&rowID, &appID, &r.Requirements.PostcodeDistrict, &r.Requirements.RadiusMiles,
		pq.Array(&r.Requirements.EssentialCriteria), pq.Array(&r.Requirements.DesirableCriteria),
		&r.ExpectedArrival, &r.DurationDays, &r.Notes,
		&bookingID, &allocatedTo, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find placement request: %w", err)
	}
	r.ID = id.PlacementRequestID(rowID)
	r.ApplicationID = id.ApplicationID(appID)
	if bookingID.Valid {
		r.BookingID = id.BookingID(bookingID.UUID)
	}
	if allocatedTo.Valid {
		r.AllocatedToUserID = id.UserID(allocatedTo.UUID)
	}
	return &r, nil
}

func (s *PostgresStore) Create(ctx context.Context, request *PlacementRequest) error {
	query, args, err := psql.Insert("placement_requests").
		Columns(
			"id", "application_id", "postcode_district", "radius_miles",
			"essential_criteria", "desirable_criteria",
			"expected_arrival", "duration_days", "notes",
			"booking_id", "allocated_to_user_id", "created_at",
		).
		Values(
			uuid.UUID(request.ID), uuid.UUID(request.ApplicationID),
			request.Requirements.PostcodeDistrict, request.Requirements.RadiusMiles,
			pq.Array(request.Requirements.EssentialCriteria), pq.Array(request.Requirements.DesirableCriteria),
			request.ExpectedArrival, request.DurationDays, request.Notes,
			nullUUID(uuid.UUID(request.BookingID)), nullUUID(uuid.UUID(request.AllocatedToUserID)),
			request.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create placement request query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create placement request: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, request *PlacementRequest) error {
	query, args, err := psql.Update("placement_requests").
		Set("booking_id", nullUUID(uuid.UUID(request.BookingID))).
		Set("allocated_to_user_id", nullUUID(uuid.UUID(request.AllocatedToUserID))).
		Set("notes", request.Notes).
		Where(squirrel.Eq{"id": uuid.UUID(request.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update placement request query: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update placement request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
