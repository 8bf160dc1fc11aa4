package server

import (
	"context"
	"net/http"
	"time"

	"ledger-service/internal/config"
	hrest "ledger-service/internal/handler/rest"
	"ledger-service/internal/pub"
	"ledger-service/internal/repository"
	"ledger-service/internal/service"
	"ledger-service/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LedgerServer owns every process-wide resource and the HTTP listener
type LedgerServer struct {
	cfg       config.AppConfig
	logger    *zap.Logger
	httpSrv   *http.Server
	publisher *pub.JournalEventPublisher
}

// NewLedgerServer connects the database, Redis and Kafka, wires the
// repository/usecase/handler graph and seeds system account types.
func NewLedgerServer(cfg config.AppConfig, logger *zap.Logger) (*LedgerServer, error) {
	// --- DB connection ---
	dbpool, err := config.ConnectDB(logger)
	if err != nil {
		return nil, err
	}
	if err := repository.EnsureSchema(context.Background(), dbpool); err != nil {
		return nil, err
	}

	// --- Redis client ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Redis only backs the read caches; run uncached rather than fail.
		logger.Warn("redis unreachable, caching disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		rdb = nil
	}

	// --- Event publisher ---
	publisher := pub.NewJournalEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)

	// --- Repositories ---
	orgRepo := repository.NewOrganizationRepo(dbpool)
	accountRepo := repository.NewAccountRepo(dbpool)
	categoryRepo := repository.NewCategoryRepo(dbpool)
	balanceRepo := repository.NewBalanceRepo(dbpool)
	journalRepo := repository.NewJournalRepo(dbpool)
	ledgerRepo := repository.NewLedgerRepo(dbpool)
	reportRepo := repository.NewReportRepo(dbpool)

	// --- Usecases ---
	orgUC := usecase.NewOrganizationUsecase(orgRepo)
	accountUC := usecase.NewAccountUsecase(accountRepo, balanceRepo, categoryRepo, orgRepo, rdb)
	journalUC := usecase.NewJournalUsecase(journalRepo, accountRepo, balanceRepo, publisher, logger)
	ledgerUC := usecase.NewLedgerUsecase(ledgerRepo, accountRepo)
	reportUC := usecase.NewReportUsecase(reportRepo, orgRepo)

	// --- Seed system account types (non-blocking) ---
	systemSeeder := service.NewSystemSeeder(categoryRepo, logger)
	go func() {
		if err := systemSeeder.SeedSystem(context.Background()); err != nil {
			logger.Error("system seeding failed", zap.Error(err))
		}
	}()

	// --- REST handler ---
	handler := hrest.NewLedgerRestHandler(
		orgUC,
		accountUC,
		journalUC,
		ledgerUC,
		reportUC,
		cfg.APIToken,
		cfg.IsDevelopment(),
		logger,
	)

	return &LedgerServer{
		cfg:    cfg,
		logger: logger,
		httpSrv: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      handler.Router(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		publisher: publisher,
	}, nil
}

// Run serves HTTP until the listener fails or Shutdown is called
func (s *LedgerServer) Run() error {
	s.logger.Info("ledger HTTP server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and flushes the event publisher
func (s *LedgerServer) Shutdown(ctx context.Context) error {
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return err
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}
	return nil
}
