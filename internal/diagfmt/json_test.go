package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"treeconv/internal/diag"
	"treeconv/internal/source"
)

func TestBuildDiagnosticsOutput(t *testing.T) {
	bag, fs := sampleBag(t)
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "CNV1001" {
		t.Errorf("diagnostic = %+v", d)
	}
	want := LocationJSON{File: "Module1.vb", StartByte: 12, EndByte: 21, StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 14}
	if d.Location != want {
		t.Errorf("location = %+v, want %+v", d.Location, want)
	}
	if d.Notes != nil {
		t.Errorf("notes included without IncludeNotes: %+v", d.Notes)
	}
}

func TestJSONMaxAndTimingNotes(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").WithNote(source.Span{}, `{"kind":"convert"}`))
	bag.Add(diag.NewError(diag.ConvInternal, source.Span{}, "second"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, nil, JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Errorf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	if len(out.Diagnostics[0].Notes) != 1 || out.Diagnostics[0].Location.File != "<generated>" {
		t.Errorf("diagnostic = %+v", out.Diagnostics[0])
	}
}
