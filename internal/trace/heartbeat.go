package trace

import (
	"strconv"
	"time"
)

// Heartbeat emits a driver-scope event every interval until stopped. Beats
// with no span ends between them point at a stuck unit.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
}

// StartHeartbeat returns nil when t records nothing or interval is not
// positive. Stop on a nil Heartbeat is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if !Enabled(t) || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(t, interval)
	return h
}

func (h *Heartbeat) run(t Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 1; ; n++ {
		select {
		case now := <-ticker.C:
			t.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine. Call it once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	close(h.stop)
	<-h.done
}
