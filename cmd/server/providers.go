package main

import (
	"log"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database"
	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/logger"

	"go.uber.org/zap"
)

func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	l, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, func() {
		if err := l.Sync(); err != nil {
			log.Printf("logger sync: %v", err)
		}
	}, nil
}

func provideDatabase(cfg *config.Config, l *zap.Logger, migrate database.Migrator) (*database.Lazy, func()) {
	db := database.NewLazy(cfg, l, migrate)
	return db, db.Close
}
