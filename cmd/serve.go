package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/connector"
	"github.com/vibast-solutions/ms-go-payment-core/app/controller"
	"github.com/vibast-solutions/ms-go-payment-core/app/repository"
	"github.com/vibast-solutions/ms-go-payment-core/app/service"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
	"github.com/vibast-solutions/ms-go-payment-core/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the payment core service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, deps, cleanup := mustCreateDependencies()
	defer cleanup()

	paymentController := controller.NewPaymentController(deps.paymentService)
	healthController := controller.NewHealthController(deps.healthRepo)

	e := setupHTTPServer(paymentController, healthController)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	paymentController *controller.PaymentController,
	healthController *controller.HealthController,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(requireRequestID())

	e.GET("/health", healthController.Health)
	e.GET("/health/deep", healthController.DeepHealth)

	payments := e.Group("/payments")
	payments.GET("/:id", paymentController.GetPayment)
	payments.POST("/:id/confirm", paymentController.ConfirmPayment)

	return e
}

func requireRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" {
				return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: "x-request-id header is required"})
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

type dependencies struct {
	paymentService *service.PaymentService
	healthRepo     *repository.HealthRepository
}

func mustCreateDependencies() (*config.Config, *dependencies, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	primary := mustOpenDatabase(cfg, cfg.MySQL.DSN)

	var replica *sql.DB
	if cfg.MySQL.ReplicaDSN != "" {
		replica = mustOpenDatabase(cfg, cfg.MySQL.ReplicaDSN)
	}

	var replicaDBTX repository.DBTX
	if replica != nil {
		replicaDBTX = replica
	}

	intentRepo := repository.NewPaymentIntentRepository(primary, replicaDBTX)
	attemptRepo := repository.NewPaymentAttemptRepository(primary, replicaDBTX)
	addressRepo := repository.NewAddressRepository(primary, replicaDBTX)
	customerRepo := repository.NewCustomerRepository(primary, replicaDBTX)
	merchantRepo := repository.NewMerchantAccountRepository(primary, replicaDBTX)
	configRepo := repository.NewMerchantConfigRepository(primary, replicaDBTX)
	connRespRepo := repository.NewConnectorResponseRepository(primary, replicaDBTX)
	taskRepo := repository.NewProcessTaskRepository(primary, replicaDBTX)
	healthRepo := repository.NewHealthRepository(primary, replicaDBTX)

	connectors := connector.NewRegistry("stripe", "adyen", "checkout", "braintree")

	paymentService := service.NewPaymentService(
		intentRepo,
		attemptRepo,
		addressRepo,
		customerRepo,
		merchantRepo,
		configRepo,
		connRespRepo,
		taskRepo,
		connectors,
		nil,
		cfg.Payments,
	)

	cleanup := func() {
		if err := primary.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
		if replica != nil {
			if err := replica.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close replica database")
			}
		}
	}

	return cfg, &dependencies{paymentService: paymentService, healthRepo: healthRepo}, cleanup
}

func mustOpenDatabase(cfg *config.Config, dsn string) *sql.DB {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}
