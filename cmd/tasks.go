package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-payment-core/app/service"
	"github.com/vibast-solutions/ms-go-payment-core/config"
)

var (
	workerMode bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Run process-task related commands",
}

var tasksRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Pick due connector-invoke tasks and hand them to the worker",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"tasks_run",
			func(cfg *config.Config) time.Duration { return cfg.Tasks.RunInterval },
			func(s *service.PaymentService, ctx context.Context) error {
				_, err := s.RunDueTasksBatch(ctx)
				return err
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksRunCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.PaymentService, ctx context.Context) error,
) {
	cfg, deps, cleanup := mustCreateDependencies()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(cfg), deps.paymentService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(deps.paymentService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	paymentService *service.PaymentService,
	fn func(s *service.PaymentService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(paymentService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(paymentService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
