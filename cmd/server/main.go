// Command server wires the booking lifecycle engine to postgres, redis,
// kafka and the ops HTTP surface. Business logic lives in the internal
// packages; main only assembles and supervises.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"placements/internal/authz"
	bookingmetrics "placements/internal/booking/metrics"
	"placements/internal/booking/models"
	"placements/internal/booking/service"
	bookingstore "placements/internal/booking/store/booking"
	"placements/internal/booking/store/lostbed"
	"placements/internal/events"
	eventspg "placements/internal/events/store/postgres"
	"placements/internal/events/worker"
	"placements/internal/placementrequest"
	"placements/internal/platform/config"
	"placements/internal/platform/flags"
	"placements/internal/platform/httpserver"
	"placements/internal/platform/kafka"
	"placements/internal/platform/logger"
	platformredis "placements/internal/platform/redis"
	"placements/internal/premises"
	"placements/internal/refdata"
	id "placements/pkg/domain"
	txrunner "placements/pkg/platform/tx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	flagDefaults := flags.Static{flags.SuppressArrivalEvents: cfg.SuppressArrivalEvents}
	var flagSource flags.Source = flagDefaults
	if redisClient != nil {
		flagSource = flags.NewRedisSource(redisClient, flagDefaults, log)
	}

	eventStore := eventspg.New(db)
	eventMetrics := events.NewMetrics()
	publisher := events.NewPublisher(eventStore, events.WithLogger(log), events.WithMetrics(eventMetrics))
	composer := events.NewComposer(cfg.ApplicationURLTemplate)

	linkage := placementrequest.NewLinkage(placementrequest.NewPostgres(db), log)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(bookingmetrics.NewMetrics()),
		service.WithFlags(flagSource),
		service.WithTx(txrunner.NewRunner(db)),
		service.WithAuthorizer(authz.NewJWTAuthorizer([]byte(cfg.AuthzSigning), log)),
		service.WithPlacementRequests(linkage),
	}
	if cfg.SuccessfulAppealReasonID != "" {
		reasonUUID, err := uuid.Parse(cfg.SuccessfulAppealReasonID)
		if err != nil {
			return fmt.Errorf("parse SUCCESSFUL_APPEAL_REASON_ID: %w", err)
		}
		opts = append(opts, service.WithCancellationHook(id.ReasonID(reasonUUID), func(ctx context.Context, b *models.Booking) error {
			if b.PlacementRequestID.IsNil() {
				return nil
			}
			_, err := linkage.SpawnReplacement(ctx, b.PlacementRequestID)
			return err
		}))
	}

	engine := service.New(
		bookingstore.NewPostgres(db),
		lostbed.NewPostgres(db),
		premises.NewPostgres(db),
		refdata.NewPostgres(db),
		publisher,
		composer,
		opts...,
	)

	g, gctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, 3, 1); err != nil {
			return fmt.Errorf("ensure domain events topic: %w", err)
		}
		outbox := worker.New(eventStore, producer, log, eventMetrics)
		g.Go(func() error {
			if err := outbox.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("no kafka brokers configured, domain events will accumulate undispatched")
	}

	srv := httpserver.New(cfg.Addr, newRouter(db, redisClient, engine))
	g.Go(func() error {
		log.Info("starting placements server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRouter(db *sql.DB, redisClient *platformredis.Client, engine *service.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if redisClient != nil {
			if err := redisClient.Health(req.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	// Read-only debugging aid for operators; the booking API proper lives in
	// the separate edge service.
	r.Get("/internal/bookings/{id}", func(w http.ResponseWriter, req *http.Request) {
		bookingID, err := id.ParseBookingID(chi.URLParam(req, "id"))
		if err != nil {
			http.Error(w, "invalid booking id", http.StatusBadRequest)
			return
		}
		b, err := engine.GetBooking(req.Context(), bookingID)
		if err != nil {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            b.ID.String(),
			"bedId":         b.BedID.String(),
			"status":        string(b.Status()),
			"arrivalDate":   b.ArrivalDate.Format(id.DateLayout),
			"departureDate": b.DepartureDate.Format(id.DateLayout),
		})
	})
	return r
}
