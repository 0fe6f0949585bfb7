package timer

import (
	"sync"
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
)

// manualScheduler records scheduled callbacks so tests decide when ticks fire.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.pending = append(s.pending, t)
	return t
}

// fire runs the oldest scheduled callback, even if it was stopped, to mimic a
// callback that already left the runtime timer when Stop was called.
func (s *manualScheduler) fire(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		t.Fatalf("no tick scheduled")
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	next.f()
}

func (s *manualScheduler) live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.pending {
		if !p.stopped {
			n++
		}
	}
	return n
}

type recorder struct {
	mu      sync.Mutex
	ticks   []int
	expires int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnTick: func(remaining int) {
			r.mu.Lock()
			r.ticks = append(r.ticks, remaining)
			r.mu.Unlock()
		},
		OnExpire: func() {
			r.mu.Lock()
			r.expires++
			r.mu.Unlock()
		},
	}
}

func TestCountdownTicksDownAndExpiresOnce(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	c := NewCountdownWithScheduler(3, rec.hooks(), time.Second, sched.AfterFunc)
	c.Start()

	sched.fire(t)
	sched.fire(t)
	if c.Remaining() != 1 || c.State() != domain.TimerRunning {
		t.Fatalf("expected running with 1 left, got %s/%d", c.State(), c.Remaining())
	}
	sched.fire(t)

	if c.State() != domain.TimerExpired {
		t.Fatalf("expected expired, got %s", c.State())
	}
	if rec.expires != 1 {
		t.Fatalf("expected one expiry, got %d", rec.expires)
	}
	if got := rec.ticks; len(got) != 3 || got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Fatalf("unexpected ticks %v", got)
	}
	if sched.live() != 0 {
		t.Fatalf("expected no tick armed after expiry")
	}
	select {
	case <-c.Done():
	default:
		t.Fatalf("expected done to be closed")
	}

	if c.Stop() {
		t.Fatalf("stop after expiry must be a no-op")
	}
	if rec.expires != 1 {
		t.Fatalf("expected expiry to stay at one, got %d", rec.expires)
	}
}

func TestCountdownZeroExpiresImmediately(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	c := NewCountdownWithScheduler(0, rec.hooks(), time.Second, sched.AfterFunc)
	c.Start()
	c.Start()

	if c.State() != domain.TimerExpired {
		t.Fatalf("expected expired, got %s", c.State())
	}
	if rec.expires != 1 {
		t.Fatalf("expected exactly one expiry, got %d", rec.expires)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", c.Remaining())
	}
	if sched.live() != 0 {
		t.Fatalf("expected nothing scheduled")
	}
}

func TestCountdownNegativeClampsToZero(t *testing.T) {
	rec := &recorder{}
	c := NewCountdownWithScheduler(-5, rec.hooks(), time.Second, (&manualScheduler{}).AfterFunc)
	c.Start()
	if c.Remaining() != 0 || rec.expires != 1 {
		t.Fatalf("expected clamped expiry, got remaining=%d expires=%d", c.Remaining(), rec.expires)
	}
}

func TestStopPreventsExpiry(t *testing.T) {
	sched := &manualScheduler{}
	rec := &recorder{}
	c := NewCountdownWithScheduler(2, rec.hooks(), time.Second, sched.AfterFunc)
	c.Start()

	if !c.Stop() {
		t.Fatalf("expected first stop to transition")
	}
	if c.Stop() {
		t.Fatalf("expected redundant stop to be a no-op")
	}
	if sched.live() != 0 {
		t.Fatalf("expected pending tick to be cancelled")
	}

	// The cancelled callback still runs here; it must be ignored.
	sched.fire(t)

	if c.State() != domain.TimerStopped {
		t.Fatalf("expected stopped, got %s", c.State())
	}
	if c.Remaining() != 2 {
		t.Fatalf("expected remaining frozen at 2, got %d", c.Remaining())
	}
	if rec.expires != 0 || len(rec.ticks) != 0 {
		t.Fatalf("expected no signals after stop, got ticks=%v expires=%d", rec.ticks, rec.expires)
	}
}

func TestStopWithRealScheduler(t *testing.T) {
	rec := &recorder{}
	c := NewCountdownWithScheduler(1, rec.hooks(), 20*time.Millisecond, RealAfterFunc)
	c.Start()
	c.Stop()

	time.Sleep(80 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.expires != 0 {
		t.Fatalf("expected no expiry after stop, got %d", rec.expires)
	}
}

func TestExpiresWithRealScheduler(t *testing.T) {
	rec := &recorder{}
	c := NewCountdownWithScheduler(2, rec.hooks(), 5*time.Millisecond, RealAfterFunc)
	c.Start()

	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not finish")
	}

	// Done closes before the hook runs; wait for the hook to land.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		rec.mu.Lock()
		n := rec.expires
		rec.mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("expected one expiry")
}

func TestFormat(t *testing.T) {
	cases := map[int]string{
		300: "05:00",
		299: "04:59",
		61:  "01:01",
		9:   "00:09",
		0:   "00:00",
		-3:  "00:00",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%d) = %q, want %q", in, got, want)
		}
	}
}
