package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textrep/internal/api"
	"github.com/knowledge-engine/textrep/internal/config"
	"github.com/knowledge-engine/textrep/internal/engine"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "textrep-api")

	entry.Info("Starting text representation service")

	// 1. Config
	cfg, err := loadConfig()
	if err != nil {
		entry.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		entry.WithError(err).Warn("Unknown log level, keeping info")
	}

	// 2. Engine
	eng, err := engine.New(cfg, entry)
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}

	// 3. API Server
	server := api.NewServer(eng, cfg.API, entry)

	if err := server.Start(cfg.API.Addr); err != nil {
		entry.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("TEXTREP_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(), nil
}
