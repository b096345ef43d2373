package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"treeconv/internal/diag"
	"treeconv/internal/driver"
	"treeconv/internal/source"
)

const sampleFixture = "../../internal/fixture/testdata/module1.json"

func testSettings() settings {
	return settings{driver: driver.Options{Jobs: 2}, format: "pretty"}
}

func TestConvertFileUsesCache(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first, err := convertFile(context.Background(), sampleFixture, testSettings(), cache)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || first.Payload == nil {
		t.Fatalf("first run: cached=%v payload=%v", first.Cached, first.Payload)
	}
	second, err := convertFile(context.Background(), sampleFixture, testSettings(), cache)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run missed the cache")
	}

	var a, b bytes.Buffer
	if err := writePayload(&a, first.Payload); err != nil {
		t.Fatal(err)
	}
	if err := writePayload(&b, second.Payload); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("cached output differs\n%s\n---\n%s", a.String(), b.String())
	}
	if first.Bag.Len() != 1 || second.Bag.Len() != 1 {
		t.Errorf("diagnostics: %v / %v", first.Bag.Items(), second.Bag.Items())
	}
	// Both runs resolve the GoTo span against the same source.
	var d1, d2 bytes.Buffer
	_ = writeDiagnostics(&d1, first, testSettings())
	_ = writeDiagnostics(&d2, second, testSettings())
	if d1.String() != d2.String() || !strings.Contains(d1.String(), "CNV1001") {
		t.Errorf("diagnostics output:\n%s\n---\n%s", d1.String(), d2.String())
	}
}

func TestWritePayload(t *testing.T) {
	p := &driver.DiskPayload{
		Name:   "Module1",
		Fields: "private static int _M_n = 0;\n",
		Units: []driver.CachedUnit{
			{Name: "M", Text: "F();\n"},
			{Name: "N", Skipped: true},
		},
	}
	var buf bytes.Buffer
	if err := writePayload(&buf, p); err != nil {
		t.Fatal(err)
	}
	want := "// Module1\n\n// fields\nprivate static int _M_n = 0;\n\n// M\nF();\n\n// N (not converted)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoadFailuresAreDiagnostics(t *testing.T) {
	dir := t.TempDir()
	badSchema := filepath.Join(dir, "old.json")
	if err := os.WriteFile(badSchema, []byte(`{"schema":"0.1.0","name":"x","units":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	badKind := filepath.Join(dir, "kind.json")
	if err := os.WriteFile(badKind, []byte(`{"schema":"1.0.0","name":"x","units":[{"method":"M","body":[{"kind":"Nope"}]}]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		code diag.Code
	}{
		{filepath.Join(dir, "missing.json"), diag.IOLoadFileError},
		{badSchema, diag.IOFixtureSchema},
		{badKind, diag.IOFixtureDecode},
	}
	for _, tt := range tests {
		r, err := convertFile(context.Background(), tt.path, testSettings(), nil)
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if r.Payload != nil || r.Bag.Len() != 1 || r.Bag.Items()[0].Code != tt.code {
			t.Errorf("%s: payload=%v diagnostics=%v", tt.path, r.Payload, r.Bag.Items())
		}
	}
}

func TestProcessFileReportsErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	ok, err := processFile(context.Background(), &out, &errOut, sampleFixture, testSettings(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// The fixture contains a GoTo, which is an error.
	if ok {
		t.Error("expected failure for a document with errors")
	}
	if !strings.Contains(out.String(), "// Rename\nstring tmpValue = this.Name;\n") {
		t.Errorf("stdout:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "error CNV1001") {
		t.Errorf("stderr:\n%s", errOut.String())
	}
}

func TestQuietDropsInfo(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ConvCopyInOnly, source.Span{}, "info"))
	bag.Add(diag.New(diag.SevWarning, diag.ConvCancelled, source.Span{}, "warn"))
	if got := withoutInfo(bag); got.Len() != 1 || got.Items()[0].Code != diag.ConvCancelled {
		t.Errorf("got %v", got.Items())
	}
}

func TestWatchLoopRunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer func() { _ = w.Close() }()
	targets, err := watchTargets(w, []string{path})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ran := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, targets, 20*time.Millisecond, func(p string) { ran <- p }, func(error) {})
	}()

	if err := os.WriteFile(path, []byte(`{"name":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-ran:
		if got != path {
			t.Errorf("ran %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no run after write")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
