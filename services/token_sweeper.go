package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/realestate-app/utils"
)

// TokenSweeper periodically drops revocations of tokens that have expired.
type TokenSweeper struct {
	tokens   TokenStore
	Interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewTokenSweeper(tokens TokenStore) *TokenSweeper {
	return &TokenSweeper{
		tokens:   tokens,
		Interval: time.Hour,
		stopChan: make(chan struct{}),
	}
}

func (ts *TokenSweeper) Start() {
	go func() {
		ticker := time.NewTicker(ts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ts.Sweep(context.Background())
			case <-ts.stopChan:
				return
			}
		}
	}()
}

func (ts *TokenSweeper) Stop() {
	ts.stopOnce.Do(func() { close(ts.stopChan) })
}

func (ts *TokenSweeper) Sweep(ctx context.Context) int64 {
	n, err := ts.tokens.PurgeExpired(ctx, time.Now())
	if err != nil {
		utils.ErrorLogger.Printf("Error purging revoked tokens: %v", err)
		return 0
	}
	if n > 0 {
		utils.InfoLogger.Printf("Purged %d expired token revocations", n)
	}
	return n
}
