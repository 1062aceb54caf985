package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/school-payments/internal"
	"github.com/frahmantamala/school-payments/internal/auth"
	authrepo "github.com/frahmantamala/school-payments/internal/auth/postgres"
	"github.com/frahmantamala/school-payments/internal/core/events"
	"github.com/frahmantamala/school-payments/internal/gateway"
	"github.com/frahmantamala/school-payments/internal/order"
	orderrepo "github.com/frahmantamala/school-payments/internal/order/postgres"
	"github.com/frahmantamala/school-payments/internal/school"
	schoolrepo "github.com/frahmantamala/school-payments/internal/school/postgres"
	"github.com/frahmantamala/school-payments/internal/transaction"
	transactionrepo "github.com/frahmantamala/school-payments/internal/transaction/postgres"
	"github.com/frahmantamala/school-payments/internal/transport/rest"
	"github.com/frahmantamala/school-payments/internal/transport/swagger"
	"github.com/frahmantamala/school-payments/pkg/logger"
)

const openAPISpecPath = "api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "http-server",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogger(cfg)
		return runHTTPServer(cfg)
	},
}

func runHTTPServer(cfg *internal.Config) error {
	log := logger.LoggerWrapper()

	sqlDB, gormDB, err := initDB(cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer sqlDB.Close()

	// A broken or missing API contract disables the docs mount instead of
	// failing the whole server.
	var swaggerHandler http.Handler
	if _, err := swagger.LoadSpec(context.Background(), openAPISpecPath); err != nil {
		log.Warn("openapi spec unavailable, docs disabled", "error", err)
	} else {
		swaggerHandler = swagger.Handler(openAPISpecPath)
	}

	eventBus := events.NewEventBus(log)
	order.NewAuditSubscriber(log).Register(eventBus)

	userRepo := authrepo.NewUserRepository(gormDB)
	schoolRepo := schoolrepo.NewSchoolRepository(gormDB)
	orderRepo := orderrepo.NewOrderRepository(gormDB)
	statusRepo := orderrepo.NewStatusRepository(gormDB)
	transactionRepo := transactionrepo.NewTransactionRepository(gormDB)

	tokenGen := auth.NewTokenGenerator(cfg.Security)
	authService := auth.NewService(userRepo, tokenGen, cfg.Security.BCryptCost, log)
	schoolService := school.NewService(schoolRepo, log)
	gatewayClient := gateway.NewClient(cfg.Gateway, log)
	orderService := order.NewService(orderRepo, statusRepo, gatewayClient, cfg.Gateway, eventBus, log)
	transactionService := transaction.NewService(transactionRepo, log)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(log, authService),
		School:      school.NewHandler(log, schoolService),
		Order:       order.NewHandler(log, orderService),
		Transaction: transaction.NewHandler(log, transactionService),
		Health:      rest.NewHealthHandler(sqlDB.DB),
		Swagger:     swaggerHandler,
	}

	router := rest.NewRouter(log, cfg.Server, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// initDB opens the pgx pool via sqlx and layers gorm over the same
// connection, so pool settings apply to both access paths.
func initDB(cfg *internal.Config) (*sqlx.DB, *gorm.DB, error) {
	sqlDB, err := sqlx.Connect("pgx", cfg.Database.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: sqlDB.DB,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm: %w", err)
	}

	return sqlDB, gormDB, nil
}
