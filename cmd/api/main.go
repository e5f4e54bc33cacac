package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia-api/internal/audit"
	"github.com/BruksfildServices01/barberia-api/internal/auth"
	"github.com/BruksfildServices01/barberia-api/internal/config"
	dbpkg "github.com/BruksfildServices01/barberia-api/internal/db"
	"github.com/BruksfildServices01/barberia-api/internal/domain/payment"
	"github.com/BruksfildServices01/barberia-api/internal/infra/events"
	"github.com/BruksfildServices01/barberia-api/internal/infra/lock"
	"github.com/BruksfildServices01/barberia-api/internal/infra/memory"
	payinfra "github.com/BruksfildServices01/barberia-api/internal/infra/payment"
	infraRepo "github.com/BruksfildServices01/barberia-api/internal/infra/repository"
	"github.com/BruksfildServices01/barberia-api/internal/infra/storage"
	"github.com/BruksfildServices01/barberia-api/internal/logging"
	"github.com/BruksfildServices01/barberia-api/internal/routes"
	"github.com/BruksfildServices01/barberia-api/internal/timezone"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Env)
	slog.SetDefault(logger)

	if !timezone.SetBusiness(cfg.BusinessTimezone) {
		logger.Warn("invalid BUSINESS_TIMEZONE, using default", "value", cfg.BusinessTimezone)
	}

	deps, cleanup, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := bootstrapAdmin(ctx, cfg, deps); err != nil {
		logger.Warn("admin bootstrap failed", "error", err)
	}

	if cfg.Env != "dev" && cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, deps)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.Addr(), "storage", cfg.Storage, "payment", cfg.PaymentProvider)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

// buildDeps wires storage, locking, events, payments and the archive.
// The returned cleanup flushes audit events before closing publishers.
func buildDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (routes.Deps, func(), error) {
	var (
		deps     routes.Deps
		closers  []func()
		auditLog *audit.Logger
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// ======================================================
	// STORAGE
	// ======================================================
	if cfg.UseMemoryStorage() {
		store := memory.NewStore()
		deps.Catalog = store
		deps.Appointments = store
		deps.Sales = store
		deps.Users = store
		deps.AuditStore = store
		auditLog = audit.New(store)
		logger.Warn("using in-memory storage, data is lost on restart")
	} else {
		db, err := dbpkg.NewDB(cfg, logger)
		if err != nil {
			return deps, cleanup, err
		}
		users := infraRepo.NewUserGormRepository(db)
		deps.Catalog = infraRepo.NewCatalogGormRepository(db)
		deps.Appointments = infraRepo.NewAppointmentGormRepository(db)
		deps.Sales = infraRepo.NewSaleGormRepository(db)
		deps.Users = users
		deps.AuditStore = users
		deps.Health = pingDB(db)
		auditLog = audit.New(users)
	}

	// ======================================================
	// BOOKING LOCK
	// ======================================================
	deps.Locker = lock.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := lock.NewClient(cfg.RedisURL)
		if err != nil {
			return deps, cleanup, err
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, booking lock disabled", "error", err)
			_ = rdb.Close()
		} else {
			deps.Locker = lock.NewRedisLocker(rdb, cfg.BookingLockTTL, cfg.BookingLockWait)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	}

	// ======================================================
	// AUDIT + EVENTS
	// ======================================================
	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = kp
		closers = append(closers, func() {
			if err := kp.Close(); err != nil {
				logger.Warn("kafka close failed", "error", err)
			}
		})
	}
	dispatcher := audit.NewDispatcher(auditLog, publisher, logger)
	// the dispatcher drains before the publisher closes
	closers = append(closers, dispatcher.Close)
	deps.Audit = dispatcher

	// ======================================================
	// PAYMENTS
	// ======================================================
	processor, err := buildProcessor(cfg)
	if err != nil {
		return deps, cleanup, err
	}
	deps.Processor = processor
	deps.PaymentTimeout = cfg.PaymentTimeout

	if cfg.S3Bucket != "" {
		deps.Archive = storage.NewS3Archive(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}

	// ======================================================
	// AUTH
	// ======================================================
	deps.Tokens = auth.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	deps.Verifier = auth.NewVerifier(deps.Users, auth.BcryptHasher{}, auth.ParseAllowList(cfg.AuthAllowedEmails))

	deps.Log = logger
	return deps, cleanup, nil
}

func buildProcessor(cfg *config.Config) (payment.Processor, error) {
	switch cfg.PaymentProvider {
	case "mercadopago":
		if cfg.MercadoPagoToken == "" {
			return nil, errors.New("MERCADOPAGO_ACCESS_TOKEN is required for the mercadopago provider")
		}
		return payinfra.NewMercadoPago(cfg.MercadoPagoToken)
	default:
		return payinfra.NewBankGateway(cfg.BankAPIURL, cfg.BankDestinationAccount, &http.Client{
			Timeout: cfg.PaymentTimeout + 2*time.Second,
		}), nil
	}
}

func pingDB(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// bootstrapAdmin creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when it does not exist yet.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, deps routes.Deps) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	existing, err := deps.Users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.AdminEmail)))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = deps.Verifier.Register(ctx, "Administrador", cfg.AdminEmail, cfg.AdminPassword, auth.RoleAdmin)
	return err
}
