package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zaiqa-pos/internal/config"
	"zaiqa-pos/internal/db"
	httpapi "zaiqa-pos/internal/http"
	"zaiqa-pos/internal/logger"
	"zaiqa-pos/internal/order"
	"zaiqa-pos/internal/payment"
	"zaiqa-pos/internal/queue"
	"zaiqa-pos/internal/register"
	"zaiqa-pos/internal/storage"
	"zaiqa-pos/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal("schema migration failed", zap.Error(err))
		}
		log.Info("schema migration applied")
	}

	wsServer := ws.New(log, cfg)
	ticketSinks := order.MultiSink{wsServer}

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; kitchen tickets stay websocket-only", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			publisher, err := queue.NewTicketPublisher(qc)
			if err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq topology failed; kitchen tickets stay websocket-only", zap.Error(err))
				_ = qc.Close()
				qc = nil
			} else {
				ticketSinks = append(ticketSinks, publisher)
				log.Info("rabbitmq enabled", zap.String("exchange", queue.EventsExchange))
			}
		}
		queueClient = qc
		if queueClient != nil {
			defer queueClient.Close()
		}
	} else {
		log.Info("kitchen ticket queue disabled (RABBITMQ_URL is empty)")
	}

	var store *storage.ObjectStore
	if cfg.ObjectStoreEndpoint != "" {
		store, err = storage.NewObjectStore(ctx, storage.Config{
			Endpoint:        cfg.ObjectStoreEndpoint,
			Region:          cfg.ObjectStoreRegion,
			AccessKeyID:     cfg.ObjectStoreAccessKeyID,
			SecretAccessKey: cfg.ObjectStoreSecretAccessKey,
			Bucket:          cfg.ObjectStoreBucket,
			PublicBaseURL:   cfg.ObjectStorePublicBaseURL,
			StorageClass:    cfg.ObjectStoreStorageClass,
		})
		if err != nil {
			log.Warn("object store unavailable; session reports stay download-only", zap.Error(err))
			store = nil
		}
	}

	sessions := &register.Reconciler{DB: pool, Logger: log}
	ledger := &order.Ledger{DB: pool, Logger: log, Tickets: ticketSinks}
	payments := &payment.Processor{DB: pool, Logger: log, Sessions: sessions}

	apiServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			DB:       pool,
			Logger:   log,
			Config:   cfg,
			Ledger:   ledger,
			Payments: payments,
			Sessions: sessions,
			Store:    store,
			WS:       wsServer,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pos api ready", zap.String("base", "/api"))
		log.Info("kitchen feed ready", zap.String("base", "/ws/kitchen"))
		log.Info("pos service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
