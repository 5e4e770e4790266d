package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/wpwscannerapp/scanner-feed/internal/timeoutx"
)

const DefaultBootstrapTimeout = 5 * time.Second

// PushBootstrapper binds one signed-in identity to push delivery. The init
// attempt races readiness against a timeout; whichever settles first is
// the answer, and a readiness probe that limps in after the timeout can
// not flip an already-settled false.
type PushBootstrapper struct {
	push    PushService
	timeout time.Duration

	inited atomic.Bool
	ready  atomic.Bool
}

func NewPushBootstrapper(push PushService, timeout time.Duration) *PushBootstrapper {
	if timeout <= 0 {
		timeout = DefaultBootstrapTimeout
	}
	return &PushBootstrapper{push: push, timeout: timeout}
}

// Init attempts initialization at most once; repeat calls return the
// settled answer without re-probing.
func (b *PushBootstrapper) Init(ctx context.Context, userID string) bool {
	if !b.inited.CompareAndSwap(false, true) {
		return b.ready.Load()
	}

	res := timeoutx.Race(ctx, b.timeout, func(ctx context.Context) (bool, error) {
		return b.push.ProbeReady(ctx, userID)
	})

	ok := res.Ready() && res.Value
	b.ready.Store(ok)
	return ok
}

func (b *PushBootstrapper) Ready() bool { return b.ready.Load() }

// SignOut drops the device's subscription if one is active, then clears
// the readiness flag so a later sign-in bootstraps fresh.
func (b *PushBootstrapper) SignOut(ctx context.Context, userID, endpoint string) error {
	var err error
	if b.ready.Load() && endpoint != "" {
		err = b.push.Unsubscribe(ctx, userID, endpoint)
	}
	b.ready.Store(false)
	b.inited.Store(false)
	return err
}
