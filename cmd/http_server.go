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

	"github.com/LeoXLiu-DS/timesheet-logging/internal"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/auth"
	authpostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/auth/postgres"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/core/events"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/enhance"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/export"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/payroll"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/project"
	projectpostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/project/postgres"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet"
	timesheetpostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/timesheet/postgres"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/transport/rest"
	"github.com/LeoXLiu-DS/timesheet-logging/internal/user"
	userpostgres "github.com/LeoXLiu-DS/timesheet-logging/internal/user/postgres"
	"github.com/LeoXLiu-DS/timesheet-logging/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
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
	Config        *internal.Config
	DB            *sqlx.DB
	Router        *chi.Mux
	PayrollClient *payroll.Client
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		deps.PayrollClient.Shutdown()
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx connection: %w", err)
	}

	eventBus := events.NewEventBus(log)

	payrollClient := payroll.NewClient(payroll.Config{
		ProviderURL:  config.Payroll.ProviderURL,
		APIKey:       config.Payroll.APIKey,
		SyncTimeout:  config.Payroll.SyncTimeout,
		MaxWorkers:   config.Payroll.MaxWorkers,
		JobQueueSize: config.Payroll.JobQueueSize,
	}, log)
	payroll.NewEventHandler(payrollClient, log).RegisterEventHandlers(eventBus)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authpostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userRepo := userpostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, authService, eventBus, log)
	userHandler := user.NewHandler(userService)

	baseHandler := transport.NewBaseHandler(log)

	projectRepo := projectpostgres.NewProjectRepository(gormDB)
	projectService := project.NewService(projectRepo, log)
	projectHandler := project.NewHandler(baseHandler, projectService)

	entryRepo := timesheetpostgres.NewEntryRepository(gormDB)
	timesheetService := timesheet.NewService(entryRepo, projectService, eventBus, log)
	timesheetHandler := timesheet.NewHandler(timesheetService)

	exportService := export.NewService(entryRepo, log)
	exportHandler := export.NewHandler(baseHandler, exportService)

	enhanceClient := enhance.NewClient(enhance.Config{
		APIURL:  config.Enhance.APIURL,
		APIKey:  config.Enhance.APIKey,
		Timeout: config.Enhance.Timeout,
	}, log)
	enhanceHandler := enhance.NewHandler(baseHandler, enhanceClient)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, authHandler, userHandler, projectHandler, timesheetHandler, exportHandler, enhanceHandler, log)

	return &Dependencies{
		Config:        config,
		Logger:        log,
		DB:            db,
		Router:        router,
		PayrollClient: payrollClient,
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
