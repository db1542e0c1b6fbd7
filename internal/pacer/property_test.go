package pacer

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func drawConfig(t *rapid.T) Config {
	base := time.Duration(rapid.IntRange(100, 2000).Draw(t, "baseMs")) * time.Millisecond
	return Config{
		StartCount:   rapid.IntRange(1, 5).Draw(t, "start"),
		BaseInterval: base,
		AccelEvery:   time.Duration(rapid.IntRange(100, 5000).Draw(t, "accelMs")) * time.Millisecond,
		AccelStep:    time.Duration(rapid.IntRange(0, 500).Draw(t, "stepMs")) * time.Millisecond,
		MinInterval:  time.Duration(rapid.IntRange(50, int(base/time.Millisecond)).Draw(t, "minMs")) * time.Millisecond,
	}
}

// holdUntilDone keeps the press down and returns the cursor after every reveal.
func holdUntilDone(p *Pacer) []int {
	s := newSim(p)
	var cursors []int
	last := p.State()
	s.observe = func() {
		st := p.State()
		if st.Mode == Revealed && (last.Mode == Waiting || st.Cursor != last.Cursor) {
			cursors = append(cursors, st.Cursor)
		}
		last = st
	}
	s.press()
	for !p.State().Done {
		s.advance(p.Config().MinInterval)
	}
	return cursors
}

func TestPropertyHoldWalksWholeList(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		cfg := drawConfig(t)
		p := New(n, cfg)
		cursors := holdUntilDone(p)
		st := p.State()
		if !st.Done || st.Cursor != n {
			t.Fatalf("expected done at cursor %d, got %+v", n, st)
		}
		if len(cursors) != n+1 {
			t.Fatalf("expected %d reveals, got %v", n+1, cursors)
		}
		for i, c := range cursors {
			if c != i {
				t.Fatalf("cursor sequence not monotonic by one: %v", cursors)
			}
		}
	})
}

func TestPropertyResetIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		p := New(n, drawConfig(t))
		first := holdUntilDone(p)
		p.Reset()
		second := holdUntilDone(p)
		if len(first) != len(second) {
			t.Fatalf("runs differ in length: %v vs %v", first, second)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("runs differ: %v vs %v", first, second)
			}
		}
	})
}

func TestPropertyReleasedCounterNeverMoves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := New(rapid.IntRange(1, 10).Draw(t, "n"), drawConfig(t))
		s := newSim(p)
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			held := rapid.Bool().Draw(t, "held")
			if held {
				s.press()
			} else {
				s.release()
			}
			before := p.State()
			s.advance(time.Duration(rapid.IntRange(1, 3000).Draw(t, "waitMs")) * time.Millisecond)
			after := p.State()
			if !before.Held && after != before {
				t.Fatalf("state moved while released: %+v -> %+v", before, after)
			}
			if before.Held && !after.Done && after.Interval > before.Interval {
				t.Fatalf("interval grew while held: %v -> %v", before.Interval, after.Interval)
			}
			if after.Counter < 0 || after.Cursor < before.Cursor {
				t.Fatalf("invalid transition: %+v -> %+v", before, after)
			}
			if !after.Held && after.Interval != p.Config().BaseInterval {
				t.Fatalf("interval %v not reset after release", after.Interval)
			}
		}
	})
}
