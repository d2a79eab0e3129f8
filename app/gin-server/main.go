package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/praveensuthar2105/Ai-Resume-Builder/config"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/app"
	"github.com/praveensuthar2105/Ai-Resume-Builder/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	l := logger.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.Telemetry.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("init error")
	}
	defer a.Close(context.Background())

	l.WithFields(logrus.Fields{
		"backend": cfg.Backend.URL,
		"store":   cfg.State.Driver,
		"sink":    cfg.Export.Sink,
	}).Info("studio starting")

	if err := a.Serve(ctx, ""); err != nil {
		l.WithError(err).Error("server error")
	}
}
