package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog/internal/config"
	httpAPI "github.com/iyhunko/product-catalog/internal/http"
	"github.com/iyhunko/product-catalog/internal/http/controller"
	"github.com/iyhunko/product-catalog/internal/metrics"
	reposql "github.com/iyhunko/product-catalog/internal/repository/sql"
	"github.com/iyhunko/product-catalog/internal/service"
	"github.com/iyhunko/product-catalog/internal/sqs"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the metrics server and the outbox worker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		conf, db, err := bootDB(ctx)
		if err != nil {
			return err
		}

		worker, err := startOutboxWorker(ctx, conf, db)
		if err != nil {
			db.Close()
			return err
		}

		if !conf.DebugMode {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := httpAPI.InitRouter(gin.New(), controller.New(), controller.NewProductController(newProductService(db)))
		httpServer := &http.Server{
			Addr:              ":" + conf.HTTPServer.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("error while listening to HTTP requests", slog.Any("err", err))
				os.Exit(1)
			}
		}()

		metricsServer := metrics.StartMetricsServer(conf)

		wait := gfshutdown.GracefulShutdown(context.Background(), conf.ShutdownTimeout, map[string]gfshutdown.Operation{
			"metrics-server": metricsServer.Shutdown,
			"catalog": func(ctx context.Context) error {
				// The database goes last: requests and the worker may still be using it.
				err := httpServer.Shutdown(ctx)
				if worker != nil {
					err = errors.Join(err, worker.Stop(ctx))
				}
				return errors.Join(err, db.Close())
			},
		})

		exitCode := <-wait
		slog.Info("catalog service exited", slog.Int("code", exitCode))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
		return nil
	},
}

// startOutboxWorker runs the outbox worker when a queue is configured.
// It returns nil when events are disabled.
func startOutboxWorker(ctx context.Context, conf *config.Config, db *sql.DB) (*service.OutboxWorker, error) {
	if !conf.EventsEnabled() {
		slog.Info("SQS queue not configured, outbox worker disabled")
		return nil, nil
	}
	if err := conf.ValidateEvents(); err != nil {
		return nil, err
	}

	client, err := sqs.NewClient(ctx, conf.AWS)
	if err != nil {
		return nil, err
	}
	worker := service.NewOutboxWorker(
		reposql.NewEventRepository(db),
		sqs.NewPublisher(client, conf.AWS.SQSQueueURL),
		conf.OutboxInterval,
	)
	go worker.Start(ctx)
	return worker, nil
}
