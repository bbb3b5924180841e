package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/nyattihq/nyatti/pkg/logger"
	"github.com/nyattihq/nyatti/pkg/utils"
)

// Status is the tri-state (plus in-flight) result of a subdomain check.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusChecking  Status = "checking"
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// CheckFunc asks the server whether a subdomain can still be claimed.
type CheckFunc func(ctx context.Context, subdomain string) (bool, error)

// Checker debounces subdomain availability lookups while the user types.
// Each edit supersedes any pending or in-flight check: every scheduled
// check carries a generation token, and only the result whose token still
// matches the latest generation is applied. Everything else is discarded.
type Checker struct {
	mu       sync.Mutex
	gen      uint64
	value    string
	status   Status
	timer    *time.Timer
	closed   bool
	debounce time.Duration
	check    CheckFunc
	onUpdate func(Status)
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewChecker creates a checker. onUpdate is called with every status
// change, including the synchronous ones from SetInput; it may be nil.
// onUpdate runs with the checker's lock held and must not call back in.
func NewChecker(check CheckFunc, debounce time.Duration, onUpdate func(Status)) *Checker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checker{
		status:   StatusIdle,
		debounce: debounce,
		check:    check,
		onUpdate: onUpdate,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetInput reports the latest subdomain text. Inputs that normalize to
// fewer than the minimum length go straight to idle with no network call.
func (c *Checker) SetInput(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	normalized := utils.NormalizeSubdomain(raw)
	c.gen++
	c.value = normalized
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len(normalized) < utils.MinSubdomainLength {
		c.setStatusLocked(StatusIdle)
		return
	}

	c.setStatusLocked(StatusChecking)

	gen := c.gen
	value := normalized
	c.timer = time.AfterFunc(c.debounce, func() {
		c.runCheck(gen, value)
	})
}

func (c *Checker) runCheck(gen uint64, value string) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx := c.ctx
	c.mu.Unlock()

	available, err := c.check(ctx, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A slow check may resolve after further edits; its result belongs to
	// a value the field no longer holds.
	if c.closed || gen != c.gen || value != c.value {
		return
	}

	if err != nil {
		// Unknown, not taken. The next edit re-triggers.
		logger.DebugEvent().Err(err).Str("subdomain", value).Msg("Availability check failed")
		c.setStatusLocked(StatusIdle)
		return
	}

	if available {
		c.setStatusLocked(StatusAvailable)
	} else {
		c.setStatusLocked(StatusTaken)
	}
}

// Status returns the current availability status.
func (c *Checker) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Value returns the normalized subdomain the current status refers to.
func (c *Checker) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Close cancels any pending check. Results resolving afterwards are
// discarded; the checker accepts no further input.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancel()
}

func (c *Checker) setStatusLocked(status Status) {
	if c.status == status {
		return
	}
	c.status = status
	if c.onUpdate != nil {
		c.onUpdate(status)
	}
}
