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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal"
	"github.com/frahmantamala/payroll-management/internal/attendance"
	attendancePostgres "github.com/frahmantamala/payroll-management/internal/attendance/postgres"
	"github.com/frahmantamala/payroll-management/internal/auth"
	authPostgres "github.com/frahmantamala/payroll-management/internal/auth/postgres"
	"github.com/frahmantamala/payroll-management/internal/core/events"
	employeePostgres "github.com/frahmantamala/payroll-management/internal/employee/postgres"
	"github.com/frahmantamala/payroll-management/internal/notification"
	notificationPostgres "github.com/frahmantamala/payroll-management/internal/notification/postgres"
	"github.com/frahmantamala/payroll-management/internal/payroll"
	payrollPostgres "github.com/frahmantamala/payroll-management/internal/payroll/postgres"
	"github.com/frahmantamala/payroll-management/internal/payslip"
	"github.com/frahmantamala/payroll-management/internal/tax"
	"github.com/frahmantamala/payroll-management/internal/transport"
	"github.com/frahmantamala/payroll-management/internal/transport/rest"
	"github.com/frahmantamala/payroll-management/pkg/logger"
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
	Config     *internal.Config
	DB         *sqlx.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Dispatcher *notification.Dispatcher
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

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
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Dispatcher.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(appLogger)

	notificationRepo := notificationPostgres.NewNotificationRepository(gormDB)
	dispatcher := notification.NewDispatcher(notification.Config{
		MaxWorkers:   config.Notification.MaxWorkers,
		JobQueueSize: config.Notification.JobQueueSize,
	}, notificationRepo, appLogger)
	dispatcher.SubscribeTo(bus)

	userRepo := authPostgres.NewUserRepository(gormDB)
	authService := auth.NewService(userRepo, config.Security.JWTSecret, config.Security.AccessTokenDuration, appLogger)
	authHandler := auth.NewHandler(authService)

	employeeRepo := employeePostgres.NewEmployeeRepository(gormDB)
	attendanceRepo := attendancePostgres.NewAttendanceRepository(gormDB)
	aggregator := attendance.NewAggregator(attendanceRepo, appLogger)

	taxCalc := tax.NewBracketCalculator(tax.DefaultBrackets())
	calculator := payroll.NewCalculator(taxCalc, appLogger)

	payrollRepo := payrollPostgres.NewPayrollRepository(gormDB)
	payrollService := payroll.NewService(payrollRepo, employeeRepo, aggregator, calculator, bus, appLogger)

	baseHandler := transport.NewBaseHandler(appLogger)
	renderer := payslip.NewRenderer(config.Payslip.CompanyName)
	payrollHandler := payroll.NewHandler(baseHandler, payrollService, renderer)
	notificationHandler := notification.NewHandler(baseHandler, notificationRepo)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router,
		rest.RouterConfig{AllowedOrigins: config.Server.AllowedOrigins},
		db.DB, authHandler, authService, payrollHandler, notificationHandler, appLogger)

	return &Dependencies{
		Config:     config,
		Logger:     appLogger,
		DB:         db,
		Router:     router,
		Dispatcher: dispatcher,
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers GORM over the already verified connection so both share one
// pool.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
}
