package source

import (
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Module1.vb", []byte("hello world"))
	if id1 != 1 {
		t.Errorf("first FileID = %d, want 1 (0 is reserved)", id1)
	}
	id2 := fs.Add("Module1.vb", []byte("hello universe"))
	if latest, ok := fs.GetLatest("Module1.vb"); !ok || latest != id2 {
		t.Errorf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	f1, ok := fs.Get(id1)
	if !ok || string(f1.Content) != "hello world" {
		t.Errorf("old version lost: %+v", f1)
	}
	if _, ok := fs.Get(NoFileID); ok {
		t.Error("NoFileID must not resolve")
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.vb", []byte("Dim x\r\nx = 1\n\nCall Foo(x)"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{4, LineCol{1, 5}},
		{6, LineCol{1, 7}}, // the '\n' itself belongs to line 1
		{7, LineCol{2, 1}},
		{13, LineCol{3, 1}},
		{14, LineCol{4, 1}},
		{19, LineCol{4, 6}},
	}
	for _, tt := range tests {
		start, _, ok := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if !ok || start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.vb", []byte("first\nsecond\nthird"))
	f, _ := fs.Get(id)
	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestPosition(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileSetWithBase(dir)
	id := fs.Add(filepath.Join(dir, "src", "a.vb"), []byte("x\ny"))

	if got := fs.Position(Span{File: id, Start: 2, End: 3}); got != "src/a.vb:2:1" {
		t.Errorf("Position = %q", got)
	}
	unknown := Span{File: 9, Start: 1, End: 2}
	if got := fs.Position(unknown); got != unknown.String() {
		t.Errorf("Position(unknown) = %q", got)
	}
}
