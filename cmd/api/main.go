package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/guildsmith/craftbot/internal/config"
	"github.com/guildsmith/craftbot/internal/dialog"
	"github.com/guildsmith/craftbot/internal/guild"
	"github.com/guildsmith/craftbot/internal/httpx"
	kafkax "github.com/guildsmith/craftbot/internal/kafka"
	"github.com/guildsmith/craftbot/internal/postgres"
	"github.com/guildsmith/craftbot/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (notifications, best effort)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	catalog := &guild.CatalogRepo{DB: db}
	engine := &guild.Engine{
		Orders:   &guild.OrderRepo{DB: db},
		Catalog:  catalog,
		Producer: prod,
		Service:  cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Engine: engine, Redis: rdb}).Register(router)
	(&httpx.InventoryHandler{Store: &guild.InventoryRepo{DB: db}}).Register(router)
	(&httpx.CatalogHandler{Catalog: catalog}).Register(router)
	(&httpx.DialogHandler{Manager: &dialog.Manager{
		Sessions: dialog.NewRedisStore(rdb),
		Catalog:  catalog,
		Orders:   engine,
	}}).Register(router)
	(&httpx.HealthHandler{Users: &guild.UserRepo{DB: db}}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // flush pending notifications, then stop
	prod.WaitClosed()
}
