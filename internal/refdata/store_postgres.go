package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// PostgresStore reads the reference-data tables. Reference data is seeded by
// migrations and effectively immutable at runtime, so reads go straight to
// the pool.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (s *PostgresStore) FindDepartureReason(ctx context.Context, reasonID id.ReasonID) (*DepartureReason, error) {
	query, args, err := psql.Select("id", "name", "legacy_code", "service_scope", "is_active").
		From("departure_reasons").
		Where(squirrel.Eq{"id": uuid.UUID(reasonID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build departure reason query: %w", err)
	}

	var (
		r     DepartureReason
		rowID uuid.UUID
		scope string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &r.Name, &r.LegacyCode, &scope, &r.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find departure reason: %w", err)
	}
	r.ID = id.ReasonID(rowID)
	r.Scope = id.ServiceScope(scope)
	return &r, nil
}

func (s *PostgresStore) FindMoveOnCategory(ctx context.Context, categoryID id.CategoryID) (*MoveOnCategory, error) {
	query, args, err := psql.Select("id", "name", "service_scope", "is_active").
		From("move_on_categories").
		Where(squirrel.Eq{"id": uuid.UUID(categoryID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build move-on category query: %w", err)
	}

	var (
		c     MoveOnCategory
		rowID uuid.UUID
		scope string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &c.Name, &scope, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find move-on category: %w", err)
	}
	c.ID = id.CategoryID(rowID)
	c.Scope = id.ServiceScope(scope)
	return &c, nil
}

func (s *PostgresStore) FindNonArrivalReason(ctx context.Context, reasonID id.ReasonID) (*NonArrivalReason, error) {
	query, args, err := psql.Select("id", "name", "service_scope", "is_active").
		From("non_arrival_reasons").
		Where(squirrel.Eq{"id": uuid.UUID(reasonID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build non-arrival reason query: %w", err)
	}

	var (
		r     NonArrivalReason
		rowID uuid.UUID
		scope string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &r.Name, &scope, &r.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find non-arrival reason: %w", err)
	}
	r.ID = id.ReasonID(rowID)
	r.Scope = id.ServiceScope(scope)
	return &r, nil
}

func (s *PostgresStore) FindCancellationReason(ctx context.Context, reasonID id.ReasonID) (*CancellationReason, error) {
	query, args, err := psql.Select("id", "name", "service_scope", "is_active").
		From("cancellation_reasons").
		Where(squirrel.Eq{"id": uuid.UUID(reasonID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cancellation reason query: %w", err)
	}

	var (
		r     CancellationReason
		rowID uuid.UUID
		scope string
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &r.Name, &scope, &r.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find cancellation reason: %w", err)
	}
	r.ID = id.ReasonID(rowID)
	r.Scope = id.ServiceScope(scope)
	return &r, nil
}

func (s *PostgresStore) FindDestinationProvider(ctx context.Context, providerID id.ProviderID) (*DestinationProvider, error) {
	query, args, err := psql.Select("id", "name", "is_active").
		From("destination_providers").
		Where(squirrel.Eq{"id": uuid.UUID(providerID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build destination provider query: %w", err)
	}

	var (
		p     DestinationProvider
		rowID uuid.UUID
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&rowID, &p.Name, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find destination provider: %w", err)
	}
	p.ID = id.ProviderID(rowID)
	return &p, nil
}
