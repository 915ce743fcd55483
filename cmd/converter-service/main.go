package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/AlexZav1327/currency-converter/internal/config"
	converterserver "github.com/AlexZav1327/currency-converter/internal/converter-server"
	converterservice "github.com/AlexZav1327/currency-converter/internal/converter-service"
	"github.com/AlexZav1327/currency-converter/internal/history"
	"github.com/AlexZav1327/currency-converter/internal/kvstore"
	"github.com/AlexZav1327/currency-converter/internal/logger"
	"github.com/AlexZav1327/currency-converter/internal/notifications"
	"github.com/AlexZav1327/currency-converter/internal/postgres"
	"github.com/AlexZav1327/currency-converter/internal/rates"
	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logrus.Panicf("config.Load: %s", err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	if cfg.SecretGenerated {
		log.Warning("JWT_SECRET is not set, session tokens will not survive a restart")
	}

	var kv kvstore.Store = kvstore.NewMemory()

	if cfg.DSN != "" {
		pg, err := postgres.ConnectDB(ctx, log, cfg.DSN)
		if err != nil {
			log.Panicf("postgres.ConnectDB: %s", err)
		}

		defer func() {
			err := pg.Close(context.WithoutCancel(ctx))
			if err != nil {
				log.Warningf("pg.Close: %s", err)
			}
		}()

		err = pg.Migrate(migrate.Up)
		if err != nil {
			log.Panicf("Migrate: %s", err)
		}

		kv = pg
	} else {
		log.Info("DSN is not set, history is kept in memory")
	}

	historyStore := history.New(kv, log)

	err = historyStore.Load(ctx)
	if err != nil {
		log.Panicf("historyStore.Load: %s", err)
	}

	ratesClient := rates.New(cfg.RatesURL, cfg.RatesTimeout, cfg.RatesPerSecond, log)
	converterService := converterservice.New(ratesClient, historyStore, notifications.New(log),
		cfg.RatesTimeout, cfg.TokenTTL, log)

	defer converterService.Close()

	server := converterserver.New(cfg.Host, cfg.Port, converterService, log, cfg.JWTSecret, cfg.TokenTTL)

	err = server.Run(ctx)
	if err != nil {
		log.Panicf("server.Run: %s", err)
	}
}
