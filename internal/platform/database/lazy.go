package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Conn hands out the process-wide database handle.
type Conn interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Opener establishes a new connection.
type Opener func(ctx context.Context) (*gorm.DB, error)

// Migrator prepares the schema on a freshly opened connection.
type Migrator func(db *gorm.DB) error

// Lazy connects on first use. Concurrent first callers share a single
// in-flight attempt; a failed attempt is not cached.
type Lazy struct {
	open    Opener
	migrate Migrator
	logger  *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	db    *gorm.DB
}

// NewLazy returns a Lazy handle for the configured PostgreSQL database.
func NewLazy(cfg *config.Config, logger *zap.Logger, migrate Migrator) *Lazy {
	if !cfg.DBAutoMigrate {
		migrate = nil
	}
	return NewLazyWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		return Open(ctx, cfg, logger)
	}, migrate, logger)
}

// NewLazyWithOpener returns a Lazy handle using a custom opener.
func NewLazyWithOpener(open Opener, migrate Migrator, logger *zap.Logger) *Lazy {
	return &Lazy{open: open, migrate: migrate, logger: logger.Named("database")}
}

// DB returns the shared handle bound to ctx, connecting if needed.
func (l *Lazy) DB(ctx context.Context) (*gorm.DB, error) {
	if db := l.current(); db != nil {
		return db.WithContext(ctx), nil
	}

	ch := l.group.DoChan("connect", func() (interface{}, error) {
		if db := l.current(); db != nil {
			return db, nil
		}
		// Detached from the caller: other waiters depend on this attempt.
		db, err := l.open(context.WithoutCancel(ctx))
		if err != nil {
			l.logger.Error("Database connection attempt failed", zap.Error(err))
			return nil, err
		}
		if l.migrate != nil {
			if err := l.migrate(db); err != nil {
				return nil, fmt.Errorf("auto-migrate: %w", err)
			}
			l.logger.Info("Database schema migrated")
		}
		l.mu.Lock()
		l.db = db
		l.mu.Unlock()
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB).WithContext(ctx), nil
	}
}

func (l *Lazy) current() *gorm.DB {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db
}

// Close releases the connection if one was opened.
func (l *Lazy) Close() {
	l.mu.Lock()
	db := l.db
	l.db = nil
	l.mu.Unlock()
	CloseGORMDB(db, l.logger)
}

type static struct {
	db *gorm.DB
}

// Static wraps an already opened handle.
func Static(db *gorm.DB) Conn {
	return static{db: db}
}

func (s static) DB(ctx context.Context) (*gorm.DB, error) {
	return s.db.WithContext(ctx), nil
}
