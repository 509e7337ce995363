package premises

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
	txcontext "placements/pkg/platform/tx"
)

// PostgresStore reads the premises catalog tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) rowQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindBed(ctx context.Context, bedID id.BedID) (*Bed, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("b.id", "b.name", "r.name", "r.premises_id").
		From("beds b").
		Join("rooms r ON b.room_id = r.id").
		Where(squirrel.Eq{"b.id": uuid.UUID(bedID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find bed query: %w", err)
	}

	var (
		bed      Bed
		bedUUID  uuid.UUID
		premUUID uuid.UUID
	)
	row := s.querier(ctx).QueryRowContext(ctx, query, args...)
	if err := row.Scan(&bedUUID, &bed.Name, &bed.RoomName, &premUUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find bed: %w", err)
	}
	bed.ID = id.BedID(bedUUID)
	bed.PremisesID = id.PremisesID(premUUID)
	return &bed, nil
}

func (s *PostgresStore) FindPremises(ctx context.Context, premisesID id.PremisesID) (*Premises, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("p.id", "p.name", "p.code", "p.legacy_code", "p.local_authority_area_name", "p.service").
		From("premises p").
		Where(squirrel.Eq{"p.id": uuid.UUID(premisesID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find premises query: %w", err)
	}

	var (
		p          Premises
		premUUID   uuid.UUID
		legacyCode sql.NullString
		service    string
	)
	row := s.querier(ctx).QueryRowContext(ctx, query, args...)
	if err := row.Scan(&premUUID, &p.Name, &p.Code, &legacyCode, &p.LocalAuthorityAreaName, &service); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find premises: %w", err)
	}
	p.ID = id.PremisesID(premUUID)
	p.LegacyCode = legacyCode.String
	p.Service = id.ServiceTag(service)
	return &p, nil
}
