package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/AlexZav1327/currency-converter/internal/config"
	"github.com/AlexZav1327/currency-converter/internal/logger"
	xrserver "github.com/AlexZav1327/currency-converter/internal/xr-server"
	xrservice "github.com/AlexZav1327/currency-converter/internal/xr-service"
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
	rateService := xrservice.New(log)
	server := xrserver.New(cfg.Host, cfg.XRPort, rateService, log)

	err = server.Run(ctx)
	if err != nil {
		log.Panicf("server.Run: %s", err)
	}
}
