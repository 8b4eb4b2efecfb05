package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guildsmith/craftbot/internal/config"
	"github.com/guildsmith/craftbot/internal/guild"
	kafkax "github.com/guildsmith/craftbot/internal/kafka"
	"github.com/guildsmith/craftbot/internal/notifier"
	"github.com/guildsmith/craftbot/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.WebhookURL == "" {
		log.Fatal("NOTIFY_WEBHOOK_URL is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis: rdb,
		Sink:  notifier.NewWebhookSink(cfg.WebhookURL),
	}

	topics := []string{guild.TopicOrderAssigned, guild.TopicOrderReady}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, topics, cfg.NotifierWorkers)

	go func() {
		log.Printf("notifier started: group=%s topics=%v workers=%d", cfg.NotifierGroup, topics, cfg.NotifierWorkers)
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down notifier...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
