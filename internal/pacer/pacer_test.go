package pacer

import (
	"testing"
	"time"
)

// sim delivers pacer timers in due order on a virtual clock.
type sim struct {
	p       *Pacer
	now     time.Duration
	pending []scheduled
	fired   int
	observe func()
}

type scheduled struct {
	due time.Duration
	t   Timer
}

func newSim(p *Pacer) *sim {
	return &sim{p: p}
}

func (s *sim) arm(timers []Timer) {
	for _, t := range timers {
		s.pending = append(s.pending, scheduled{due: s.now + t.After, t: t})
	}
}

func (s *sim) press() {
	s.arm(s.p.PressStart())
}

func (s *sim) release() {
	s.p.PressEnd()
}

func (s *sim) advance(d time.Duration) {
	end := s.now + d
	for {
		idx := -1
		for i, sc := range s.pending {
			if sc.due > end {
				continue
			}
			if idx == -1 || sc.due < s.pending[idx].due ||
				(sc.due == s.pending[idx].due && sc.t.ID < s.pending[idx].t.ID) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}
		sc := s.pending[idx]
		s.pending = append(s.pending[:idx], s.pending[idx+1:]...)
		s.now = sc.due
		s.fired++
		s.arm(s.p.Fire(sc.t))
		if s.observe != nil {
			s.observe()
		}
	}
	s.now = end
}

// steadyConfig never accelerates within a test run.
func steadyConfig() Config {
	return Config{
		StartCount:   3,
		BaseInterval: time.Second,
		AccelEvery:   time.Hour,
		AccelStep:    0,
		MinInterval:  time.Second,
	}
}

func TestNewStartsWaiting(t *testing.T) {
	p := New(4, DefaultConfig())
	st := p.State()
	if st.Mode != Waiting || st.Counter != 3 || st.Cursor != 0 || st.Held || st.Done {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if st.Interval != time.Second {
		t.Fatalf("expected base interval, got %v", st.Interval)
	}
}

func TestEmptyListActsAsSingleItem(t *testing.T) {
	p := New(0, steadyConfig())
	if p.Len() != 1 {
		t.Fatalf("expected length 1, got %d", p.Len())
	}
	s := newSim(p)
	s.press()
	s.advance(3 * time.Second)
	if p.State().Mode != Revealed || p.State().Done {
		t.Fatalf("expected placeholder revealed, got %+v", p.State())
	}
	s.advance(3 * time.Second)
	if !p.State().Done {
		t.Fatalf("expected done after one full cycle on the placeholder, got %+v", p.State())
	}
}

func TestSingleItemScenario(t *testing.T) {
	p := New(1, steadyConfig())
	s := newSim(p)
	s.press()

	s.advance(1 * time.Second)
	if got := p.State().Counter; got != 2 {
		t.Fatalf("expected counter 2 after one tick, got %d", got)
	}
	s.advance(2 * time.Second)
	st := p.State()
	if st.Mode != Revealed || st.Cursor != 0 || st.Done {
		t.Fatalf("expected revealed at cursor 0, got %+v", st)
	}
	if st.Counter != 3 {
		t.Fatalf("expected counter re-armed to 3, got %d", st.Counter)
	}

	s.advance(2 * time.Second)
	if p.State().Done {
		t.Fatalf("expected not done before the third tick")
	}
	s.advance(1 * time.Second)
	st = p.State()
	if !st.Done || st.Cursor != 1 {
		t.Fatalf("expected done with cursor 1, got %+v", st)
	}
	if st.Held {
		t.Fatalf("expected hold cleared on completion")
	}
	if p.tickID != 0 || p.accelID != 0 {
		t.Fatalf("expected no timers armed after completion, tick=%d accel=%d", p.tickID, p.accelID)
	}
	done := p.State()
	for _, sc := range s.pending {
		if next := p.Fire(sc.t); next != nil {
			t.Fatalf("expected leftover %v timer to be dropped, got %v", sc.t.Kind, next)
		}
	}
	if p.State() != done {
		t.Fatalf("leftover timer changed state: %+v vs %+v", done, p.State())
	}
}

func TestCounterFrozenWhileReleased(t *testing.T) {
	p := New(3, steadyConfig())
	s := newSim(p)
	s.press()
	s.advance(2 * time.Second)
	if got := p.State().Counter; got != 1 {
		t.Fatalf("expected counter 1, got %d", got)
	}

	s.release()
	s.advance(10 * time.Second)
	if got := p.State().Counter; got != 1 {
		t.Fatalf("expected counter frozen at 1, got %d", got)
	}
	if p.State().Mode != Waiting {
		t.Fatalf("expected still waiting while released")
	}

	s.press()
	s.advance(1 * time.Second)
	st := p.State()
	if st.Mode != Revealed || st.Cursor != 0 {
		t.Fatalf("expected reveal after resuming, got %+v", st)
	}
}

func TestRepeatedPressIsIdempotent(t *testing.T) {
	once := New(2, steadyConfig())
	twice := New(2, steadyConfig())
	a := newSim(once)
	b := newSim(twice)

	a.press()
	b.press()
	if extra := twice.PressStart(); extra != nil {
		t.Fatalf("expected no timers from a repeated press, got %v", extra)
	}
	b.press()

	a.advance(5 * time.Second)
	b.advance(5 * time.Second)
	if once.State() != twice.State() {
		t.Fatalf("expected identical state, got %+v vs %+v", once.State(), twice.State())
	}
}

func TestIntervalAcceleratesAndResets(t *testing.T) {
	cfg := Config{
		StartCount:   3,
		BaseInterval: time.Second,
		AccelEvery:   2 * time.Second,
		AccelStep:    300 * time.Millisecond,
		MinInterval:  400 * time.Millisecond,
	}
	p := New(50, cfg)
	s := newSim(p)
	s.press()

	prev := p.State().Interval
	for i := 0; i < 20; i++ {
		s.advance(time.Second)
		cur := p.State().Interval
		if cur > prev {
			t.Fatalf("interval grew from %v to %v while held", prev, cur)
		}
		if cur < cfg.MinInterval {
			t.Fatalf("interval %v below floor", cur)
		}
		prev = cur
	}
	if prev != cfg.MinInterval {
		t.Fatalf("expected interval at floor after a long hold, got %v", prev)
	}

	s.release()
	if got := p.State().Interval; got != cfg.BaseInterval {
		t.Fatalf("expected base interval after release, got %v", got)
	}
}

func TestAfterDoneInputIsIgnored(t *testing.T) {
	p := New(1, steadyConfig())
	s := newSim(p)
	s.press()
	s.advance(6 * time.Second)
	if !p.State().Done {
		t.Fatalf("expected done")
	}
	before := p.State()
	if timers := p.PressStart(); timers != nil {
		t.Fatalf("expected no timers after done, got %v", timers)
	}
	p.PressEnd()
	if p.State() != before {
		t.Fatalf("state changed after done: %+v vs %+v", before, p.State())
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	p := New(3, steadyConfig())
	s := newSim(p)
	s.press()
	s.advance(time.Second)
	p.Stop()
	counter := p.State().Counter
	s.advance(10 * time.Second)
	st := p.State()
	if st.Counter != counter || st.Held {
		t.Fatalf("expected frozen, released state after stop, got %+v", st)
	}
	if s.fired < 2 {
		t.Fatalf("expected the stale tick to be delivered and dropped, fired %d", s.fired)
	}
}

func TestStopInsideFireDropsReturnedTimer(t *testing.T) {
	p := New(3, steadyConfig())
	timers := p.PressStart()
	var tick Timer
	for _, tm := range timers {
		if tm.Kind == TickTimer {
			tick = tm
		}
	}
	next := p.Fire(tick)
	p.Stop()
	for _, tm := range next {
		if again := p.Fire(tm); again != nil {
			t.Fatalf("expected timer armed before stop to be dropped, got %v", again)
		}
	}
	if got := p.State().Counter; got != 2 {
		t.Fatalf("expected counter 2, got %d", got)
	}
}

func TestDuplicateDeliveryDecrementsOnce(t *testing.T) {
	p := New(3, steadyConfig())
	var tick Timer
	for _, tm := range p.PressStart() {
		if tm.Kind == TickTimer {
			tick = tm
		}
	}
	p.Fire(tick)
	p.Fire(tick)
	if got := p.State().Counter; got != 2 {
		t.Fatalf("expected a single decrement, got counter %d", got)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	p := New(2, steadyConfig())
	s := newSim(p)
	s.press()
	s.advance(7 * time.Second)
	p.Reset()
	want := New(2, steadyConfig()).State()
	if p.State() != want {
		t.Fatalf("expected %+v after reset, got %+v", want, p.State())
	}
	s.advance(10 * time.Second)
	if p.State() != want {
		t.Fatalf("expected timers armed before reset to be dropped, got %+v", p.State())
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cases := []func(*Config){
		func(c *Config) { c.StartCount = 0 },
		func(c *Config) { c.BaseInterval = 0 },
		func(c *Config) { c.AccelEvery = 0 },
		func(c *Config) { c.AccelStep = -time.Millisecond },
		func(c *Config) { c.MinInterval = 0 },
		func(c *Config) { c.MinInterval = 2 * c.BaseInterval },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, cfg)
		}
	}
}
