package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mhmasum1/digital-life-lessons-server/internal/platform/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestLazy_ConcurrentFirstCallersShareOneAttempt(t *testing.T) {
	db := dbtest.New(t)
	var opens, migrations int32
	release := make(chan struct{})

	lazy := NewLazyWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		<-release
		return db, nil
	}, func(*gorm.DB) error {
		atomic.AddInt32(&migrations, 1)
		return nil
	}, zap.NewNop())

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lazy.DB(context.Background())
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	assert.Equal(t, int32(1), atomic.LoadInt32(&migrations))

	_, err := lazy.DB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
}

func TestLazy_FailedAttemptIsRetried(t *testing.T) {
	db := dbtest.New(t)
	var opens int32

	lazy := NewLazyWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		if atomic.AddInt32(&opens, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return db, nil
	}, nil, zap.NewNop())

	_, err := lazy.DB(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	got, err := lazy.DB(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&opens))
}

func TestLazy_CallerContextCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	lazy := NewLazyWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		<-block
		return nil, errors.New("unreachable")
	}, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := lazy.DB(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
