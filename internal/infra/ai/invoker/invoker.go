// Package invoker calls a Generator with retry on provider overload.
package invoker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

// RetryConfig controls the retry loop. The delay before attempt n+1 is
// BaseDelay * n.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Backoff returns the delay scheduled after the given failed attempt.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	return c.BaseDelay * time.Duration(attempt)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*Invoker)

func WithSleep(fn SleepFunc) Option {
	return func(i *Invoker) { i.sleep = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(i *Invoker) { i.log = l }
}

// Observer is notified of each retry; metrics hook in here.
type Observer interface {
	ObserveRetry(provider string)
}

func WithObserver(o Observer) Option {
	return func(i *Invoker) { i.obs = o }
}

type Invoker struct {
	cfg   RetryConfig
	sleep SleepFunc
	log   *zap.Logger
	obs   Observer
}

func New(cfg RetryConfig, opts ...Option) *Invoker {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	i := &Invoker{cfg: cfg, sleep: sleepCtx, log: zap.NewNop()}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Invoke sends prompt to gen. Only overload failures are retried; every
// other failure returns at once. All failures are *ai.InvocationError.
func (i *Invoker) Invoke(ctx context.Context, gen ai.Generator, prompt string) (string, error) {
	var last *ai.InvocationError

	for attempt := 1; attempt <= i.cfg.MaxAttempts; attempt++ {
		text, err := gen.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}

		last = asInvocationError(gen.Name(), err)
		last.Attempts = attempt
		if !last.Kind.Retryable() {
			return "", last
		}
		if attempt == i.cfg.MaxAttempts {
			break
		}

		delay := i.cfg.Backoff(attempt)
		i.log.Warn("ai provider overloaded, retrying",
			zap.String("provider", gen.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", i.cfg.MaxAttempts),
			zap.Duration("delay", delay),
		)
		if i.obs != nil {
			i.obs.ObserveRetry(gen.Name())
		}
		if err := i.sleep(ctx, delay); err != nil {
			return "", &ai.InvocationError{
				Kind:     ai.KindOther,
				Provider: gen.Name(),
				Attempts: attempt,
				Err:      err,
			}
		}
	}

	last.Kind = ai.KindOverloadedExhausted
	return "", last
}

func asInvocationError(provider string, err error) *ai.InvocationError {
	var ie *ai.InvocationError
	if errors.As(err, &ie) {
		cp := *ie
		if cp.Provider == "" {
			cp.Provider = provider
		}
		return &cp
	}
	return &ai.InvocationError{Kind: ai.KindOther, Provider: provider, Err: err}
}
