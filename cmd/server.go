package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fahrizalm/staffdesk/internal"
	"github.com/fahrizalm/staffdesk/internal/account"
	accountpg "github.com/fahrizalm/staffdesk/internal/account/postgres"
	"github.com/fahrizalm/staffdesk/internal/audit"
	auditpg "github.com/fahrizalm/staffdesk/internal/audit/postgres"
	"github.com/fahrizalm/staffdesk/internal/credential"
	"github.com/fahrizalm/staffdesk/internal/transport/rest"
	"github.com/fahrizalm/staffdesk/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ops HTTP server",
	Long:  `Start the operational HTTP server exposing liveness and readiness endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := seedInitialAdmin(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed initial admin: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterOpsRoutes(deps.Router, deps.DB.DB, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting ops HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

// seedInitialAdmin guarantees a usable admin account on an empty database.
// It is a no-op once any admin exists.
func seedInitialAdmin(deps *Dependencies) error {
	auditRepo := auditpg.NewAuditRepository(deps.GormDB)
	auditSvc := audit.NewService(auditRepo, deps.Logger)

	hasher := credential.NewBcryptHasher(deps.Config.Security.BCryptCost)
	accountRepo := accountpg.NewAccountRepository(deps.GormDB)
	accountSvc := account.NewService(accountRepo, hasher, auditSvc, deps.Logger)

	return accountSvc.SeedInitialAdmin()
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGormDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGormDB layers gorm on top of the shared *sql.DB. TranslateError is on so
// unique violations surface as gorm.ErrDuplicatedKey for the repositories.
func initGormDB(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
}
