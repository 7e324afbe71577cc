// Command event-listener tails the estimate and version event channels and
// logs every event. Useful when developing consumers of the bus or checking
// that a deployment publishes what it should.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/costline/costline/pkg/config"
	"github.com/costline/costline/pkg/eventbus"
	redisclient "github.com/costline/costline/pkg/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := redisclient.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer client.Close()

	bus := eventbus.NewBus(client.Client())
	events := bus.Subscribe(ctx, eventbus.ChannelEstimate, eventbus.ChannelVersion)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	logger.Info("Listening for events",
		zap.Strings("channels", []string{eventbus.ChannelEstimate, eventbus.ChannelVersion}))

	for event := range events {
		logger.Info("event",
			zap.String("type", event.Type),
			zap.Int64("timestamp", event.Timestamp),
			zap.ByteString("data", event.Data),
		)
	}
}
