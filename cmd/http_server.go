package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expense-approval/internal"
	"github.com/frahmantamala/expense-approval/internal/approval"
	approvalPostgres "github.com/frahmantamala/expense-approval/internal/approval/postgres"
	"github.com/frahmantamala/expense-approval/internal/auth"
	authPostgres "github.com/frahmantamala/expense-approval/internal/auth/postgres"
	"github.com/frahmantamala/expense-approval/internal/core/events"
	"github.com/frahmantamala/expense-approval/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-approval/internal/expense/postgres"
	"github.com/frahmantamala/expense-approval/internal/mail"
	"github.com/frahmantamala/expense-approval/internal/transport/rest"
	"github.com/frahmantamala/expense-approval/internal/transport/swagger"
	"github.com/frahmantamala/expense-approval/internal/user"
	userPostgres "github.com/frahmantamala/expense-approval/internal/user/postgres"
	"github.com/frahmantamala/expense-approval/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		_ = deps.DB.Close()
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.App.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// refuse to serve a broken API document
	if _, err := swagger.Load(ctx); err != nil {
		return err
	}

	cfg := deps.Config
	mailer := newMailer(cfg.Mail, deps.Logger)

	tokenGen := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, mailer, auth.Options{
		BCryptCost:      cfg.Security.BCryptCost,
		ResetTokenTTL:   cfg.Security.ResetTokenTTL,
		FrontendBaseURL: cfg.App.FrontendBaseURL,
		MailTimeout:     cfg.Mail.Timeout,
	}, deps.Logger)

	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(deps.Gorm), deps.Logger)
	userRepo := userPostgres.NewUserRepository(deps.Gorm)
	eventBus := events.NewEventBus(deps.Logger)
	approval.NewDecisionNotifier(userRepo, mailer, cfg.Mail.Timeout, deps.Logger).RegisterEventHandlers(eventBus)

	approvalService := approval.NewService(approvalPostgres.NewApprovalRepository(deps.Gorm), eventBus, deps.Logger)
	userService := user.NewService(userRepo, cfg.Security.BCryptCost, deps.Logger)

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Auth:     auth.NewHandler(authService),
		Expense:  expense.NewHandler(expenseService),
		Approval: approval.NewHandler(approvalService),
		User:     user.NewHandler(userService),
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Health:         map[string]rest.Pinger{"postgres": deps.DB},
	}, deps.Logger)

	return nil
}

func newMailer(cfg internal.MailConfig, lg *slog.Logger) mail.Sender {
	if cfg.Driver == "log" {
		return mail.NewLogSender(lg)
	}
	return mail.NewSMTPSender(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed pool shared by gorm and the health check.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
}
