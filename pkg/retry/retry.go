// Package retry runs an operation again when it fails with a transient error.
package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

// Classifier reports whether err is worth another attempt.
type Classifier func(err error) bool

// Backoff returns the delay to wait after the given failed attempt (1-based).
type Backoff func(attempt int, base time.Duration) time.Duration

// Policy configures Do.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Classifier  Classifier
	Backoff     Backoff

	// OnRetry, when set, is called before sleeping ahead of the next attempt.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy is three attempts with a linear one second step.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Classifier:  IsTransient,
		Backoff:     Linear,
	}
}

// Linear waits base*n after the n-th failure, so attempt 2 waits base and
// attempt 3 waits 2*base.
func Linear(attempt int, base time.Duration) time.Duration {
	return base * time.Duration(attempt)
}

// Do calls op until it succeeds, fails with a non-transient error, or
// MaxAttempts is reached. The last error is returned unchanged. A context
// cancelled while waiting stops the loop and returns the last error joined
// with the context error.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Classifier == nil {
		p.Classifier = IsTransient
	}
	if p.Backoff == nil {
		p.Backoff = Linear
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == p.MaxAttempts || !p.Classifier(err) {
			break
		}

		delay := p.Backoff(attempt, p.BaseDelay)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if werr := wait(ctx, delay); werr != nil {
			return zero, errors.Join(lastErr, werr)
		}
	}
	return zero, lastErr
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// transient is implemented by errors that classify themselves.
type transient interface {
	Transient() bool
}

// statusCoder is implemented by errors carrying an upstream HTTP status.
type statusCoder interface {
	StatusCode() int
}

var transientMessages = []string{
	"timeout",
	"timed out",
	"etimedout",
	"econnreset",
	"connection reset",
	"connection refused",
	"econnrefused",
	"network",
	"socket hang up",
	"broken pipe",
}

// IsTransient is the default classifier: timeouts, network failures,
// connection resets and upstream 500/502/503.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var t transient
	if errors.As(err, &t) {
		return t.Transient()
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return IsTransientStatus(sc.StatusCode())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsTransientStatus reports whether an upstream HTTP status should be retried.
func IsTransientStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return true
	}
	return false
}
