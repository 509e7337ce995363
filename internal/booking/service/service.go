// Package service implements the booking lifecycle engine: it orchestrates
// sub-record creation, conflict checking, persistence and domain event
// emission for every booking mutation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	bookingmetrics "placements/internal/booking/metrics"
	"placements/internal/booking/models"
	bookingstore "placements/internal/booking/store/booking"
	"placements/internal/booking/store/lostbed"
	"placements/internal/events"
	"placements/internal/platform/flags"
	"placements/internal/premises"
	"placements/internal/refdata"
	"placements/internal/workingdays"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
)

// Authorizer supplies yes/no decisions for privileged operations. The engine
// defers to it rather than embedding role checks.
type Authorizer interface {
	CanMoveBed(ctx context.Context, userID id.UserID) (bool, error)
}

// PersonDirectory resolves the person reference embedded in domain events
// from the case reference number.
type PersonDirectory interface {
	FindPerson(ctx context.Context, crn string) (events.PersonReference, error)
}

// StaticPersonDirectory serves person references from a fixed map, falling
// back to a CRN-only reference. Used in tests and record-free deployments.
type StaticPersonDirectory map[string]events.PersonReference

func (d StaticPersonDirectory) FindPerson(_ context.Context, crn string) (events.PersonReference, error) {
	if ref, ok := d[crn]; ok {
		return ref, nil
	}
	return events.PersonReference{CRN: crn}, nil
}

// PlacementRequestLinker marks a placement request fulfilled by a booking.
// Implemented by placementrequest.Linkage; the engine only needs this slice
// of it.
type PlacementRequestLinker interface {
	MarkFulfilled(ctx context.Context, requestID id.PlacementRequestID, bookingID id.BookingID) error
}

// StoreTx runs a unit of work. Booking-mutating operations execute their
// conflict check and writes inside one serializable transaction so a
// check-then-act race between two requests for the same bed cannot
// double-book it.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type inMemoryStoreTx struct{}

func (inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// CancellationHook runs after a cancellation commits, keyed by the
// cancellation reason. The successful-appeal replacement of placement
// requests is registered this way so the cancellation factory itself stays
// free of cross-aggregate side effects.
type CancellationHook func(ctx context.Context, booking *models.Booking) error

// Service is the booking lifecycle engine.
type Service struct {
	bookings bookingstore.Store
	lostBeds lostbed.Store
	catalog  premises.Store
	refData  refdata.Store

	publisher *events.Publisher
	composer  *events.Composer

	flagSource  flags.Source
	workingDays workingdays.Calculator
	people      PersonDirectory
	authorizer  Authorizer
	requests    PlacementRequestLinker
	tx          StoreTx

	cancellationHooks map[id.ReasonID][]CancellationHook

	logger  *slog.Logger
	metrics *bookingmetrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *bookingmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithFlags(source flags.Source) Option {
	return func(s *Service) { s.flagSource = source }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func WithAuthorizer(a Authorizer) Option {
	return func(s *Service) { s.authorizer = a }
}

func WithWorkingDays(c workingdays.Calculator) Option {
	return func(s *Service) { s.workingDays = c }
}

func WithPersonDirectory(d PersonDirectory) Option {
	return func(s *Service) { s.people = d }
}

func WithPlacementRequests(linker PlacementRequestLinker) Option {
	return func(s *Service) { s.requests = linker }
}

// WithCancellationHook registers a post-commit hook for the given
// cancellation reason. Multiple hooks per reason run in registration order.
func WithCancellationHook(reasonID id.ReasonID, hook CancellationHook) Option {
	return func(s *Service) {
		s.cancellationHooks[reasonID] = append(s.cancellationHooks[reasonID], hook)
	}
}

func New(bookings bookingstore.Store, lostBeds lostbed.Store, catalog premises.Store, refData refdata.Store, publisher *events.Publisher, composer *events.Composer, opts ...Option) *Service {
	s := &Service{
		bookings:          bookings,
		lostBeds:          lostBeds,
		catalog:           catalog,
		refData:           refData,
		publisher:         publisher,
		composer:          composer,
		flagSource:        flags.Static{},
		workingDays:       workingdays.NewUKCalendar(),
		people:            StaticPersonDirectory{},
		tx:                inMemoryStoreTx{},
		cancellationHooks: make(map[id.ReasonID][]CancellationHook),
		tracer:            otel.Tracer("placements/booking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBooking loads a booking by id.
func (s *Service) GetBooking(ctx context.Context, bookingID id.BookingID) (*models.Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

func (s *Service) loadBooking(ctx context.Context, bookingID id.BookingID) (*models.Booking, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "booking not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking")
	}
	return b, nil
}

// emit composes and durably records one event for the booking, respecting
// the emission rules. Runs strictly after the mutating transaction has
// committed; a failure here is logged and swallowed so it never rolls back
// the already-persisted sub-record.
func (s *Service) emit(ctx context.Context, b *models.Booking, eventType events.Type, build func(prem *premises.Premises, person events.PersonReference) *events.Envelope) {
	suppress := s.flagSource.Enabled(ctx, flags.SuppressArrivalEvents)
	if !events.ShouldEmit(b.CaseRecord, eventType, suppress) {
		return
	}

	prem, err := s.catalog.FindPremises(ctx, b.PremisesID)
	if err != nil {
		s.logError(ctx, "premises lookup failed, event skipped", b, eventType, err)
		return
	}
	person, err := s.people.FindPerson(ctx, b.CRN)
	if err != nil {
		s.logError(ctx, "person lookup failed, event skipped", b, eventType, err)
		return
	}

	if err := s.publisher.Emit(ctx, build(prem, person)); err != nil {
		s.logError(ctx, "event emission failed", b, eventType, err)
	}
}

func (s *Service) logError(ctx context.Context, msg string, b *models.Booking, eventType events.Type, err error) {
	if s.logger == nil {
		return
	}
	s.logger.ErrorContext(ctx, msg,
		"booking", b.ID.String(),
		"type", string(eventType),
		"error", err,
	)
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *Service) observe(operation string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(operation, err)
	}
}

