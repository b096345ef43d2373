package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"treeconv/internal/diag"
	"treeconv/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.Add("/home/user/project/src/Module1.vb", []byte("Sub M()\n    GoTo done\nEnd Sub\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.ConvUnsupported, source.Span{File: fileID, Start: 12, End: 21}, "cannot convert GoTo").
		WithNote(source.Span{}, "no conversion rule"))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := sampleBag(t)

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"auto", PathModeAuto, "src/Module1.vb:2:5: "},
		{"absolute", PathModeAbsolute, "/home/user/project/src/Module1.vb:2:5: "},
		{"basename", PathModeBasename, "Module1.vb:2:5: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Errorf("got %q, want prefix %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrettySnippetAndNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	opts := PrettyOpts{Snippet: true, ShowNotes: true, PathMode: PathModeBasename}
	if err := Pretty(&buf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	want := "Module1.vb:2:5: error CNV1001: cannot convert GoTo\n" +
		"    GoTo done\n" +
		"    ^~~~~~~~~\n" +
		"  note: no conversion rule\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrettyGeneratedSpan(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{Snippet: true}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "<generated>: info OBS3001: timings\n" {
		t.Errorf("got %q", got)
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := sampleBag(t)
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape sequences")
	}
}
