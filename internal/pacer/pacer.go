// Package pacer implements the hold-to-advance study timer.
//
// A Pacer is a pure state machine. It never starts goroutines or timers on
// its own; operations that need time to pass return Timer requests, and the
// owner hands each request back to Fire once its delay has elapsed. Every
// request carries an ID and only the most recently armed request of each
// kind is accepted, so cancelled or duplicated deliveries are dropped.
package pacer

import (
	"fmt"
	"time"
)

// Mode is the display mode of a session.
type Mode int

const (
	// Waiting shows the countdown before the first reveal.
	Waiting Mode = iota
	// Revealed shows the item under the cursor.
	Revealed
)

func (m Mode) String() string {
	if m == Revealed {
		return "revealed"
	}
	return "waiting"
}

// TimerKind identifies which of the two pacer timers a request belongs to.
type TimerKind int

const (
	// TickTimer decrements the counter.
	TickTimer TimerKind = iota
	// AccelTimer shortens the tick interval.
	AccelTimer
)

// Timer asks the owner to call Fire with this value after the delay.
type Timer struct {
	Kind  TimerKind
	After time.Duration
	ID    uint64
}

// Config holds the pacing constants.
type Config struct {
	StartCount   int
	BaseInterval time.Duration
	AccelEvery   time.Duration
	AccelStep    time.Duration
	MinInterval  time.Duration
}

// DefaultConfig returns the stock pacing constants.
func DefaultConfig() Config {
	return Config{
		StartCount:   3,
		BaseInterval: time.Second,
		AccelEvery:   2 * time.Second,
		AccelStep:    150 * time.Millisecond,
		MinInterval:  250 * time.Millisecond,
	}
}

// Validate reports the first invalid constant.
func (c Config) Validate() error {
	switch {
	case c.StartCount <= 0:
		return fmt.Errorf("start count must be > 0")
	case c.BaseInterval <= 0:
		return fmt.Errorf("interval must be > 0")
	case c.AccelEvery <= 0:
		return fmt.Errorf("acceleration period must be > 0")
	case c.AccelStep < 0:
		return fmt.Errorf("acceleration step must be >= 0")
	case c.MinInterval <= 0:
		return fmt.Errorf("minimum interval must be > 0")
	case c.MinInterval > c.BaseInterval:
		return fmt.Errorf("minimum interval must not exceed interval")
	}
	return nil
}

// State is a snapshot of a session.
type State struct {
	Mode     Mode
	Counter  int
	Cursor   int
	Held     bool
	Interval time.Duration
	Done     bool
}

// Pacer walks a study list of fixed length.
type Pacer struct {
	cfg    Config
	length int
	state  State

	lastID  uint64
	tickID  uint64
	accelID uint64
}

// New returns a pacer for a list of length items. Lengths below one are
// treated as a single placeholder item.
func New(length int, cfg Config) *Pacer {
	if length < 1 {
		length = 1
	}
	p := &Pacer{cfg: cfg, length: length}
	p.Reset()
	return p
}

// Len returns the list length the pacer walks.
func (p *Pacer) Len() int {
	return p.length
}

// Config returns the pacing constants.
func (p *Pacer) Config() Config {
	return p.cfg
}

// State returns a snapshot of the session.
func (p *Pacer) State() State {
	return p.state
}

// PressStart begins or resumes the countdown. Repeated presses while held
// and presses after completion are no-ops.
func (p *Pacer) PressStart() []Timer {
	if p.state.Done || p.state.Held {
		return nil
	}
	p.state.Held = true
	p.state.Interval = p.cfg.BaseInterval
	return []Timer{p.armTick(), p.armAccel()}
}

// PressEnd freezes the countdown in place and drops the acceleration.
func (p *Pacer) PressEnd() {
	if p.state.Done || !p.state.Held {
		return
	}
	p.state.Held = false
	p.state.Interval = p.cfg.BaseInterval
	p.cancel()
}

// Fire delivers an elapsed timer and returns the timers to arm next.
func (p *Pacer) Fire(t Timer) []Timer {
	if t.ID == 0 || p.state.Done || !p.state.Held {
		return nil
	}
	switch t.Kind {
	case TickTimer:
		if t.ID != p.tickID {
			return nil
		}
		p.tickID = 0
		return p.tick()
	case AccelTimer:
		if t.ID != p.accelID {
			return nil
		}
		p.accelID = 0
		return p.accelerate()
	default:
		return nil
	}
}

// Stop cancels both timers and releases the hold. Cursor and completion
// are left untouched.
func (p *Pacer) Stop() {
	p.cancel()
	p.state.Held = false
	p.state.Interval = p.cfg.BaseInterval
}

// Reset returns the session to its initial state.
func (p *Pacer) Reset() {
	p.cancel()
	p.state = State{
		Mode:     Waiting,
		Counter:  p.cfg.StartCount,
		Interval: p.cfg.BaseInterval,
	}
}

func (p *Pacer) tick() []Timer {
	if p.state.Counter > 0 {
		p.state.Counter--
	}
	if p.state.Counter > 0 {
		return []Timer{p.armTick()}
	}

	if p.state.Mode == Waiting {
		p.state.Mode = Revealed
	} else {
		p.state.Cursor++
	}
	if p.state.Cursor >= p.length {
		p.state.Done = true
		p.Stop()
		return nil
	}
	p.state.Counter = p.cfg.StartCount
	return []Timer{p.armTick()}
}

func (p *Pacer) accelerate() []Timer {
	next := p.state.Interval - p.cfg.AccelStep
	if next < p.cfg.MinInterval {
		next = p.cfg.MinInterval
	}
	p.state.Interval = next
	return []Timer{p.armAccel()}
}

func (p *Pacer) armTick() Timer {
	p.lastID++
	p.tickID = p.lastID
	return Timer{Kind: TickTimer, After: p.state.Interval, ID: p.tickID}
}

func (p *Pacer) armAccel() Timer {
	p.lastID++
	p.accelID = p.lastID
	return Timer{Kind: AccelTimer, After: p.cfg.AccelEvery, ID: p.accelID}
}

func (p *Pacer) cancel() {
	p.tickID = 0
	p.accelID = 0
}
