// Package retry wraps a single fallible agent invocation with bounded retries
// and a fail-soft fallback: one overloaded stage must never abort the whole
// plan.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/travelplanner/internal/domain"
)

// ErrRateLimited marks provider errors caused by rate limiting. Callers wrap
// a 429 with it so Call switches to exponential backoff.
var ErrRateLimited = errors.New("too many requests")

type Caller struct {
	Attempts int
	BaseWait time.Duration

	// Notify, when set, receives the same retry warnings and terminal errors
	// that go to the log, so the caller can surface them to the user.
	Notify func(message string)

	// Sleep overrides the wait between attempts, used in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func New(attempts int, baseWait time.Duration) *Caller {
	return &Caller{Attempts: attempts, BaseWait: baseWait}
}

// Call runs fn up to Attempts times. Rate-limited failures back off
// exponentially, others wait the flat BaseWait. On exhaustion it returns a
// degraded response naming the stage instead of propagating the error.
func (c *Caller) Call(ctx context.Context, label string, fn func(ctx context.Context) (string, error)) domain.AgentResponse {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		content, err := fn(ctx)
		if err == nil {
			return domain.AgentResponse{Content: content}
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}

		wait := c.BaseWait
		if isRateLimited(err) {
			wait = c.BaseWait * time.Duration(1<<uint(attempt))
		}
		c.warn(fmt.Sprintf("%s: attempt %d/%d failed (%v), retrying in %s", label, attempt+1, attempts, err, wait))

		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}

	c.warn(fmt.Sprintf("%s failed after %d attempts: %v", label, attempts, lastErr))

	return domain.AgentResponse{
		Content:  fmt.Sprintf("The %s stage is unavailable right now. Please try again later.", label),
		Degraded: true,
		Reason:   lastErr.Error(),
	}
}

func (c *Caller) warn(message string) {
	log.Printf("%s", message)
	if c.Notify != nil {
		c.Notify(message)
	}
}

func (c *Caller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "rate limit")
}
