package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
	txcontext "placements/pkg/platform/tx"
)

// PostgresStore persists bookings across the aggregate's tables: one row in
// bookings, at most one row each in the sub-record tables, and append-only
// rows in the audit tables.
//
// Conflict-sensitive writes (Create, Update and the audit appends) must run
// inside the caller's serializable transaction, carried via pkg/platform/tx,
// so the conflict check and the write commit or fail together.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindByID(ctx context.Context, bookingID id.BookingID) (*models.Booking, error) {
	b, err := s.loadBookingRow(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.loadSubRecords(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *PostgresStore) loadBookingRow(ctx context.Context, bookingID id.BookingID) (*models.Booking, error) {
	query, args, err := psql.Select(
		"b.id", "b.bed_id", "b.premises_id", "b.crn", "b.service",
		"b.arrival_date", "b.departure_date", "b.original_arrival_date",
		"b.placement_request_id", "b.created_at",
		"a.id", "a.crn", "a.noms_number", "a.event_number", "a.submitted_at",
		"o.id", "o.crn", "o.event_number",
	).
		From("bookings b").
		LeftJoin("applications a ON b.application_id = a.id").
		LeftJoin("offline_applications o ON b.offline_application_id = o.id").
		Where(squirrel.Eq{"b.id": uuid.UUID(bookingID)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking query: %w", err)
	}

	var (
		b                models.Booking
		rowID, bedID     uuid.UUID
		premisesID       uuid.UUID
		service          string
		placementRequest uuid.NullUUID

		appID          uuid.NullUUID
		appCRN         sql.NullString
		appNoms        sql.NullString
		appEventNumber sql.NullString
		appSubmittedAt sql.NullTime

		offID          uuid.NullUUID
		offCRN         sql.NullString
		offEventNumber sql.NullString
	)
	row := s.execer(ctx).QueryRowContext(ctx, query, args...)
	err = row.Scan(
		&rowID, &bedID, &premisesID, &b.CRN, &service,
		&b.ArrivalDate, &b.DepartureDate, &b.OriginalArrivalDate,
		&placementRequest, &b.CreatedAt,
		&appID, &appCRN, &appNoms, &appEventNumber, &appSubmittedAt,
		&offID, &offCRN, &offEventNumber,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}

	b.ID = id.BookingID(rowID)
	b.BedID = id.BedID(bedID)
	b.PremisesID = id.PremisesID(premisesID)
	b.Service = id.ServiceTag(service)
	if placementRequest.Valid {
		b.PlacementRequestID = id.PlacementRequestID(placementRequest.UUID)
	}

	switch {
	case appID.Valid:
		b.CaseRecord = models.OnlineCaseRecord(&models.OnlineApplication{
			ID:          id.ApplicationID(appID.UUID),
			CRN:         appCRN.String,
			NomsNumber:  appNoms.String,
			EventNumber: appEventNumber.String,
			SubmittedAt: appSubmittedAt.Time,
		})
	case offID.Valid:
		b.CaseRecord = models.OfflineCaseRecord(&models.OfflineApplication{
			ID:          id.ApplicationID(offID.UUID),
			CRN:         offCRN.String,
			EventNumber: offEventNumber.String,
		})
	default:
		b.CaseRecord = models.NoCaseRecord()
	}
	return &b, nil
}

func (s *PostgresStore) loadSubRecords(ctx context.Context, b *models.Booking) error {
	bid := uuid.UUID(b.ID)
	ex := s.execer(ctx)

	// Arrival
	{
		q, args, _ := psql.Select("id", "arrival_time", "arrival_date", "expected_departure_date", "notes", "key_worker_staff_code", "created_at").
			From("arrivals").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var a models.Arrival
		err := ex.QueryRowContext(ctx, q, args...).Scan(&a.ID, &a.ArrivalTime, &a.ArrivalDate, &a.ExpectedDepartureDate, &a.Notes, &a.KeyWorkerStaffCode, &a.CreatedAt)
		switch {
		case err == nil:
			a.BookingID = b.ID
			b.Outcome = models.ArrivedOutcome(&a)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load arrival: %w", err)
		}
	}

	// Non-arrival
	if b.Outcome.Kind() == models.OutcomeNone {
		q, args, _ := psql.Select("id", "date", "reason_id", "notes", "created_at").
			From("non_arrivals").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var (
			n        models.NonArrival
			reasonID uuid.UUID
		)
		err := ex.QueryRowContext(ctx, q, args...).Scan(&n.ID, &n.Date, &reasonID, &n.Notes, &n.CreatedAt)
		switch {
		case err == nil:
			n.BookingID = b.ID
			n.ReasonID = id.ReasonID(reasonID)
			b.Outcome = models.NotArrivedOutcome(&n)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load non-arrival: %w", err)
		}
	}

	// Cancellation
	if b.Outcome.Kind() == models.OutcomeNone {
		q, args, _ := psql.Select("id", "date", "reason_id", "notes", "created_at").
			From("cancellations").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var (
			c        models.Cancellation
			reasonID uuid.UUID
		)
		err := ex.QueryRowContext(ctx, q, args...).Scan(&c.ID, &c.Date, &reasonID, &c.Notes, &c.CreatedAt)
		switch {
		case err == nil:
			c.BookingID = b.ID
			c.ReasonID = id.ReasonID(reasonID)
			b.Outcome = models.CancelledOutcome(&c)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load cancellation: %w", err)
		}
	}

	// Departure
	{
		q, args, _ := psql.Select("id", "date_time", "reason_id", "move_on_category_id", "destination_provider_id", "notes", "created_at").
			From("departures").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var (
			d          models.Departure
			reasonID   uuid.UUID
			categoryID uuid.UUID
			providerID uuid.NullUUID
		)
		err := ex.QueryRowContext(ctx, q, args...).Scan(&d.ID, &d.DateTime, &reasonID, &categoryID, &providerID, &d.Notes, &d.CreatedAt)
		switch {
		case err == nil:
			d.BookingID = b.ID
			d.ReasonID = id.ReasonID(reasonID)
			d.MoveOnCategoryID = id.CategoryID(categoryID)
			if providerID.Valid {
				d.DestinationProviderID = id.ProviderID(providerID.UUID)
			}
			b.Departure = &d
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load departure: %w", err)
		}
	}

	// Confirmation
	{
		q, args, _ := psql.Select("id", "date_time", "notes", "created_at").
			From("confirmations").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var c models.Confirmation
		err := ex.QueryRowContext(ctx, q, args...).Scan(&c.ID, &c.DateTime, &c.Notes, &c.CreatedAt)
		switch {
		case err == nil:
			c.BookingID = b.ID
			b.Confirmation = &c
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load confirmation: %w", err)
		}
	}

	// Turnaround
	{
		q, args, _ := psql.Select("id", "working_days", "created_at").
			From("turnarounds").Where(squirrel.Eq{"booking_id": bid}).ToSql()
		var t models.Turnaround
		err := ex.QueryRowContext(ctx, q, args...).Scan(&t.ID, &t.WorkingDays, &t.CreatedAt)
		switch {
		case err == nil:
			t.BookingID = b.ID
			b.Turnaround = &t
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("load turnaround: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Create(ctx context.Context, b *models.Booking) error {
	query, args, err := psql.Insert("bookings").
		Columns(
			"id", "bed_id", "premises_id", "crn", "service",
			"arrival_date", "departure_date", "original_arrival_date",
			"application_id", "offline_application_id", "placement_request_id",
			"created_at",
		).
		Values(
			uuid.UUID(b.ID), uuid.UUID(b.BedID), uuid.UUID(b.PremisesID), b.CRN, b.Service.String(),
			b.ArrivalDate, b.DepartureDate, b.OriginalArrivalDate,
			onlineAppID(b.CaseRecord), offlineAppID(b.CaseRecord), nullUUID(uuid.UUID(b.PlacementRequestID)),
			b.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Booking) error {
	query, args, err := psql.Update("bookings").
		Set("bed_id", uuid.UUID(b.BedID)).
		Set("arrival_date", b.ArrivalDate).
		Set("departure_date", b.DepartureDate).
		Where(squirrel.Eq{"id": uuid.UUID(b.ID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query: %w", err)
	}
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return s.saveSubRecords(ctx, b)
}

// saveSubRecords writes whichever sub-records are attached. The one-to-one
// tables have a unique constraint on booking_id; immutable records insert
// with DO NOTHING, the turnaround upserts because recalculation replaces it.
func (s *PostgresStore) saveSubRecords(ctx context.Context, b *models.Booking) error {
	ex := s.execer(ctx)
	bid := uuid.UUID(b.ID)

	if a := b.Outcome.Arrival(); a != nil {
		q, args, _ := psql.Insert("arrivals").
			Columns("id", "booking_id", "arrival_time", "arrival_date", "expected_departure_date", "notes", "key_worker_staff_code", "created_at").
			Values(a.ID, bid, a.ArrivalTime, a.ArrivalDate, a.ExpectedDepartureDate, a.Notes, a.KeyWorkerStaffCode, a.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO NOTHING").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save arrival: %w", err)
		}
	}
	if n := b.Outcome.NonArrival(); n != nil {
		q, args, _ := psql.Insert("non_arrivals").
			Columns("id", "booking_id", "date", "reason_id", "notes", "created_at").
			Values(n.ID, bid, n.Date, uuid.UUID(n.ReasonID), n.Notes, n.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO NOTHING").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save non-arrival: %w", err)
		}
	}
	if c := b.Outcome.Cancellation(); c != nil {
		q, args, _ := psql.Insert("cancellations").
			Columns("id", "booking_id", "date", "reason_id", "notes", "created_at").
			Values(c.ID, bid, c.Date, uuid.UUID(c.ReasonID), c.Notes, c.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO NOTHING").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save cancellation: %w", err)
		}
	}
	if d := b.Departure; d != nil {
		q, args, _ := psql.Insert("departures").
			Columns("id", "booking_id", "date_time", "reason_id", "move_on_category_id", "destination_provider_id", "notes", "created_at").
			Values(d.ID, bid, d.DateTime, uuid.UUID(d.ReasonID), uuid.UUID(d.MoveOnCategoryID), nullUUID(uuid.UUID(d.DestinationProviderID)), d.Notes, d.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO NOTHING").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save departure: %w", err)
		}
	}
	if c := b.Confirmation; c != nil {
		q, args, _ := psql.Insert("confirmations").
			Columns("id", "booking_id", "date_time", "notes", "created_at").
			Values(c.ID, bid, c.DateTime, c.Notes, c.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO NOTHING").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save confirmation: %w", err)
		}
	}
	if t := b.Turnaround; t != nil {
		q, args, _ := psql.Insert("turnarounds").
			Columns("id", "booking_id", "working_days", "created_at").
			Values(t.ID, bid, t.WorkingDays, t.CreatedAt).
			Suffix("ON CONFLICT (booking_id) DO UPDATE SET id = EXCLUDED.id, working_days = EXCLUDED.working_days, created_at = EXCLUDED.created_at").
			ToSql()
		if _, err := ex.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("save turnaround: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) FindAllForBed(ctx context.Context, bedID id.BedID, exclude id.BookingID) ([]*models.Booking, error) {
	builder := psql.Select("b.id").
		From("bookings b").
		Where(squirrel.Eq{"b.bed_id": uuid.UUID(bedID)}).
		Where("NOT EXISTS (SELECT 1 FROM cancellations c WHERE c.booking_id = b.id)").
		Where("NOT EXISTS (SELECT 1 FROM non_arrivals n WHERE n.booking_id = b.id)")
	if !exclude.IsNil() {
		builder = builder.Where(squirrel.NotEq{"b.id": uuid.UUID(exclude)})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bed bookings query: %w", err)
	}

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bed bookings: %w", err)
	}
	defer rows.Close()

	var ids []id.BookingID
	for rows.Next() {
		var rowID uuid.UUID
		if err := rows.Scan(&rowID); err != nil {
			return nil, fmt.Errorf("scan booking id: %w", err)
		}
		ids = append(ids, id.BookingID(rowID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bed bookings: %w", err)
	}

	out := make([]*models.Booking, 0, len(ids))
	for _, bookingID := range ids {
		b, err := s.FindByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *PostgresStore) AppendExtension(ctx context.Context, e *models.Extension) error {
	q, args, err := psql.Insert("extensions").
		Columns("id", "booking_id", "previous_departure_date", "new_departure_date", "notes", "created_at").
		Values(e.ID, uuid.UUID(e.BookingID), e.PreviousDepartureDate, e.NewDepartureDate, e.Notes, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append extension query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append extension: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListExtensions(ctx context.Context, bookingID id.BookingID) ([]*models.Extension, error) {
	q, args, err := psql.Select("id", "previous_departure_date", "new_departure_date", "notes", "created_at").
		From("extensions").
		Where(squirrel.Eq{"booking_id": uuid.UUID(bookingID)}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list extensions query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list extensions: %w", err)
	}
	defer rows.Close()

	var out []*models.Extension
	for rows.Next() {
		e := models.Extension{BookingID: bookingID}
		if err := rows.Scan(&e.ID, &e.PreviousDepartureDate, &e.NewDepartureDate, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan extension: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendDateChange(ctx context.Context, dc *models.DateChange) error {
	q, args, err := psql.Insert("date_changes").
		Columns("id", "booking_id", "previous_arrival_date", "previous_departure_date", "new_arrival_date", "new_departure_date", "changed_by_user_id", "created_at").
		Values(dc.ID, uuid.UUID(dc.BookingID), dc.PreviousArrivalDate, dc.PreviousDepartureDate, dc.NewArrivalDate, dc.NewDepartureDate, uuid.UUID(dc.ChangedByUserID), dc.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append date change query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append date change: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDateChanges(ctx context.Context, bookingID id.BookingID) ([]*models.DateChange, error) {
	q, args, err := psql.Select("id", "previous_arrival_date", "previous_departure_date", "new_arrival_date", "new_departure_date", "changed_by_user_id", "created_at").
		From("date_changes").
		Where(squirrel.Eq{"booking_id": uuid.UUID(bookingID)}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list date changes query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list date changes: %w", err)
	}
	defer rows.Close()

	var out []*models.DateChange
	for rows.Next() {
		dc := models.DateChange{BookingID: bookingID}
		var changedBy uuid.UUID
		if err := rows.Scan(&dc.ID, &dc.PreviousArrivalDate, &dc.PreviousDepartureDate, &dc.NewArrivalDate, &dc.NewDepartureDate, &changedBy, &dc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan date change: %w", err)
		}
		dc.ChangedByUserID = id.UserID(changedBy)
		out = append(out, &dc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AppendBedMove(ctx context.Context, m *models.BedMove) error {
	q, args, err := psql.Insert("bed_moves").
		Columns("id", "booking_id", "previous_bed_id", "new_bed_id", "notes", "created_at").
		Values(m.ID, uuid.UUID(m.BookingID), uuid.UUID(m.PreviousBedID), uuid.UUID(m.NewBedID), m.Notes, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build append bed move query: %w", err)
	}
	if _, err := s.execer(ctx).ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("append bed move: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBedMoves(ctx context.Context, bookingID id.BookingID) ([]*models.BedMove, error) {
	q, args, err := psql.Select("id", "previous_bed_id", "new_bed_id", "notes", "created_at").
		From("bed_moves").
		Where(squirrel.Eq{"booking_id": uuid.UUID(bookingID)}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bed moves query: %w", err)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bed moves: %w", err)
	}
	defer rows.Close()

	var out []*models.BedMove
	for rows.Next() {
		m := models.BedMove{BookingID: bookingID}
		var prev, next uuid.UUID
		if err := rows.Scan(&m.ID, &prev, &next, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bed move: %w", err)
		}
		m.PreviousBedID = id.BedID(prev)
		m.NewBedID = id.BedID(next)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func onlineAppID(c models.CaseRecord) uuid.NullUUID {
	if c.Kind() == models.CaseRecordOnline {
		return uuid.NullUUID{UUID: uuid.UUID(c.Online().ID), Valid: true}
	}
	return uuid.NullUUID{}
}

func offlineAppID(c models.CaseRecord) uuid.NullUUID {
	if c.Kind() == models.CaseRecordOffline {
		return uuid.NullUUID{UUID: uuid.UUID(c.Offline().ID), Valid: true}
	}
	return uuid.NullUUID{}
}

func nullUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
