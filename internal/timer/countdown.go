// Package timer implements the quiz countdown.
//
// A Countdown ticks once per interval using a one-shot delayed callback that
// is re-armed after every tick. Stop invalidates the pending callback under the
// lock, so a tick that already left the scheduler is discarded instead of
// firing after the stop.
package timer

import (
	"fmt"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

// Stopper cancels a scheduled callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

// RealAfterFunc schedules on the runtime timer.
func RealAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Hooks receive countdown notifications. Both are optional and are invoked
// without the countdown lock held.
type Hooks struct {
	OnTick   func(remaining int)
	OnExpire func()
}

// Countdown is a Running/Stopped/Expired state machine over whole seconds.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	state     domain.TimerState
	started   bool
	interval  time.Duration
	afterFunc AfterFunc
	pending   Stopper
	gen       uint64
	hooks     Hooks
	done      chan struct{}
}

// NewCountdown returns a countdown that ticks every second once started.
func NewCountdown(seconds int, hooks Hooks) *Countdown {
	return NewCountdownWithScheduler(seconds, hooks, time.Second, RealAfterFunc)
}

// NewCountdownWithScheduler allows deterministic ticking in tests.
func NewCountdownWithScheduler(seconds int, hooks Hooks, interval time.Duration, afterFunc AfterFunc) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{
		remaining: seconds,
		state:     domain.TimerRunning,
		interval:  interval,
		afterFunc: afterFunc,
		hooks:     hooks,
		done:      make(chan struct{}),
	}
}

// Start arms the first tick. A countdown created with zero seconds expires
// immediately. Calling Start more than once has no effect.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started || c.state != domain.TimerRunning {
		c.mu.Unlock()
		return
	}
	c.started = true
	if c.remaining == 0 {
		c.expireLocked()
		c.mu.Unlock()
		c.fireExpire()
		return
	}
	c.armLocked()
	c.mu.Unlock()
}

// Stop moves a running countdown to Stopped and cancels its pending tick.
// It reports whether this call performed the transition.
func (c *Countdown) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.TimerRunning {
		return false
	}
	c.state = domain.TimerStopped
	c.disarmLocked()
	close(c.done)
	return true
}

// Remaining returns the seconds left; it never goes below zero.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// State returns the current state.
func (c *Countdown) State() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the countdown reaches Stopped or Expired.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

func (c *Countdown) tick(gen uint64) {
	c.mu.Lock()
	if c.state != domain.TimerRunning || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.remaining--
	remaining := c.remaining
	expired := remaining <= 0
	if expired {
		c.remaining = 0
		remaining = 0
		c.expireLocked()
	} else {
		c.armLocked()
	}
	c.mu.Unlock()

	if c.hooks.OnTick != nil {
		c.hooks.OnTick(remaining)
	}
	if expired {
		c.fireExpire()
	}
}

func (c *Countdown) armLocked() {
	c.gen++
	gen := c.gen
	c.pending = c.afterFunc(c.interval, func() { c.tick(gen) })
}

func (c *Countdown) disarmLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// expireLocked is the only path into Expired, so the expiry hook runs once.
func (c *Countdown) expireLocked() {
	c.state = domain.TimerExpired
	c.disarmLocked()
	close(c.done)
}

func (c *Countdown) fireExpire() {
	if c.hooks.OnExpire != nil {
		c.hooks.OnExpire()
	}
}

// Format renders remaining seconds as zero-padded mm:ss.
func Format(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}
