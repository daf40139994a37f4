package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/iyhunko/product-catalog/internal/logger"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)
	handleErr("validating AWS config", conf.ValidateEvents())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := sqs.NewClient(ctx, conf.AWS)
	handleErr("creating SQS client", err)
	consumer := sqs.NewConsumer(client, conf.AWS.SQSQueueURL, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("consumer stopped", slog.Any("err", err))
		}
	}()

	slog.Info("Notification service started. Listening for catalog events...")

	wait := gfshutdown.GracefulShutdown(context.Background(), conf.ShutdownTimeout, map[string]gfshutdown.Operation{
		"sqs-consumer": func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	os.Exit(<-wait)
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
