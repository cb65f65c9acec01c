package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/lotterypool/pkg/errorx"
	"github.com/questx-lab/lotterypool/pkg/xcontext"
	"github.com/questx-lab/lotterypool/pkg/xredis"
)

// Locker serializes operations on the same key.
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned function
	// releases the key.
	Lock(ctx context.Context, key string) (func(), error)
}

// localLocker serializes within one process.
type localLocker struct {
	mutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewLocalLocker() *localLocker {
	return &localLocker{mutexes: xsync.NewMapOf[*sync.Mutex]()}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	mu, _ := l.mutexes.LoadOrStore(key, &sync.Mutex{})

	locked := make(chan struct{})
	go func() {
		mu.Lock()
		close(locked)
	}()

	select {
	case <-locked:
		return mu.Unlock, nil
	case <-ctx.Done():
		// Release the mutex once the pending Lock gets it.
		go func() {
			<-locked
			mu.Unlock()
		}()
		return nil, errorx.New(errorx.Unavailable, "Pool %s is busy", key)
	}
}

const (
	redisLockPrefix     = "lotterypool:lock:"
	redisLockRetry      = 20 * time.Millisecond
	defaultRedisLockTTL = 30 * time.Second
)

// redisLocker serializes across processes sharing a redis server. The holder
// renews its key every third of ttl, so the key only expires when the holder
// is gone.
type redisLocker struct {
	client xredis.Client
	ttl    time.Duration
}

func NewRedisLocker(client xredis.Client, ttl time.Duration) *redisLocker {
	if ttl <= 0 {
		ttl = defaultRedisLockTTL
	}

	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := redisLockPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot acquire lock %s: %v", redisKey, err)
			return nil, errorx.Unknown
		}

		if ok {
			break
		}

		select {
		case <-time.After(redisLockRetry):
		case <-ctx.Done():
			return nil, errorx.New(errorx.Unavailable, "Pool %s is busy", key)
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.keepAlive(ctx, redisKey, token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// The caller's ctx may be done by now.
			if _, err := l.client.DelIfEqual(context.Background(), redisKey, token); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot release lock %s: %v", redisKey, err)
			}
		})
	}, nil
}

func (l *redisLocker) keepAlive(ctx context.Context, redisKey, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ok, err := l.client.ExpireIfEqual(context.Background(), redisKey, token, l.ttl)
			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot renew lock %s: %v", redisKey, err)
				continue
			}

			if !ok {
				xcontext.Logger(ctx).Errorf("Lost lock %s before release", redisKey)
				return
			}
		}
	}
}
