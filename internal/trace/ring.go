package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. treeconv dumps it when
// a conversion panics.
type RingTracer struct {
	mu     sync.Mutex
	level  Level
	events []Event
	next   int // slot the next event goes to
	count  int // filled slots, at most len(events)
}

// NewRingTracer keeps the last size events; size <= 0 means 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{level: level, events: make([]Event, size)}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.next] = *ev
	t.events[t.next].Seq = NextSeq()
	t.next = (t.next + 1) % len(t.events)
	if t.count < len(t.events) {
		t.count++
	}
}

// Snapshot returns the retained events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.count)
	start := (t.next - t.count + len(t.events)) % len(t.events)
	for i := range t.count {
		out = append(out, t.events[(start+i)%len(t.events)])
	}
	return out
}

// Dump writes the retained events to w as text.
func (t *RingTracer) Dump(w io.Writer) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, FormatText)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Close() error { return nil }

// Ring returns the ring tracer inside t, or nil when t keeps no ring.
func Ring(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *MultiTracer:
		for _, tr := range t.tracers {
			if r := Ring(tr); r != nil {
				return r
			}
		}
	}
	return nil
}
