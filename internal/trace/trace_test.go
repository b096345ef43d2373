package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeUnit, false},
		{LevelDetail, ScopeUnit, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"":                 FormatText,
		"-":                FormatText,
		"trace.log":        FormatText,
		"out/trace.NDJSON": FormatNDJSON,
		"trace.jsonl":      FormatNDJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %d, want %d", path, got, want)
		}
	}
}

func TestStreamTracerNestedSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	drv, ctx := Start(ctx, ScopeDriver, "convert")
	unit, _ := Start(ctx, ScopeUnit, "unit:Main")
	node, _ := Start(ctx, ScopeNode, "stmt:For") // filtered at detail level
	node.End("")
	unit.WithExtra("hoisted", "2").WithExtra("diags", "0").End("")
	drv.End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "→ unit:Main") || !strings.Contains(lines[2], "{diags=0, hoisted=2}") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(lines[3], "← convert (ok)") {
		t.Errorf("driver end line = %q", lines[3])
	}
	if unit.parent != drv.ID() {
		t.Errorf("unit parent = %d, want %d", unit.parent, drv.ID())
	}
}

func TestNDJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "exit-flag", "exitDo", 0)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "node" || ev["detail"] != "exitDo" {
		t.Errorf("unexpected event %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestMultiTracerFindsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "print", 0).End("")
	ring := Ring(tr)
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatal("ring tracer should hold both events")
	}
	if buf.Len() == 0 {
		t.Error("stream tracer wrote nothing")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || Enabled(tr) {
		t.Fatalf("level off must give a disabled tracer, got %v %v", tr, err)
	}
	if sp := Begin(tr, ScopeDriver, "x", 0); sp.ID() != 0 {
		t.Error("disabled spans have no id")
	}
}

func TestSpanEndCarriesElapsed(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	sp := Begin(r, ScopeDriver, "convert", 0)
	sp.End("")
	snap := r.Snapshot()
	if len(snap) != 2 || snap[1].Kind != KindSpanEnd || snap[1].SpanID != sp.ID() {
		t.Fatalf("unexpected events %+v", snap)
	}
	if !strings.Contains(string(FormatEvent(&snap[1], FormatText)), "← convert [") {
		t.Errorf("end line lacks elapsed time: %q", FormatEvent(&snap[1], FormatText))
	}
}

func TestWithTracerKeepsSpan(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	sp, ctx := Start(WithTracer(context.Background(), r), ScopeDriver, "convert")
	ctx = WithTracer(ctx, Nop)
	if CurrentSpan(ctx) != sp.ID() {
		t.Errorf("CurrentSpan = %d, want %d", CurrentSpan(ctx), sp.ID())
	}
	if FromContext(ctx) != Nop {
		t.Error("tracer was not replaced")
	}
	if Ring(Nop) != nil {
		t.Error("Nop keeps no ring")
	}
}
