package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes each event as soon as it is emitted.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
}

// NewStreamTracer writes events at or above level's depth to w. A zero format
// means text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == 0 {
		format = FormatText
	}
	return &StreamTracer{out: w, buf: bufio.NewWriter(w), level: level, format: format}
}

// Emit writes ev. Write errors are dropped: a broken trace file must not fail
// a conversion. Span ends are flushed right away so a killed process still
// leaves complete spans behind.
func (t *StreamTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Seq = NextSeq()
	_, _ = t.buf.Write(FormatEvent(ev, t.format))
	if ev.Kind == KindSpanEnd || ev.Kind == KindHeartbeat {
		_ = t.buf.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close flushes pending output and closes the writer when it is closable.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.buf.Flush(); err != nil {
		return err
	}
	if c, ok := t.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
