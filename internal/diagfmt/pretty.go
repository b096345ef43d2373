package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"treeconv/internal/diag"
	"treeconv/internal/source"
)

// generatedPath stands in for spans of synthesized code.
const generatedPath = "<generated>"

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <sev> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.location.Sprint(location(d.Primary, fs, opts.PathMode)),
			pal.severity(d.Severity).Sprint(d.Severity.Label()),
			d.Code.ID(),
			d.Message)
		if err != nil {
			return err
		}
		if opts.Snippet {
			if err := writeSnippet(w, d.Primary, fs, pal); err != nil {
				return err
			}
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			where := ""
			if n.Span.File != source.NoFileID {
				where = location(n.Span, fs, opts.PathMode) + ": "
			}
			if _, err := fmt.Fprintf(w, "  %s %s%s\n", pal.note.Sprint("note:"), where, n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

type palette struct {
	location *color.Color
	err      *color.Color
	warn     *color.Color
	info     *color.Color
	note     *color.Color
	marker   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		err:      color.New(color.FgRed, color.Bold),
		warn:     color.New(color.FgYellow, color.Bold),
		info:     color.New(color.FgCyan),
		note:     color.New(color.FgBlue),
		marker:   color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.err, p.warn, p.info, p.note, p.marker} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// location renders path:line:col.
func location(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil {
		return generatedPath
	}
	f, ok := fs.Get(span.File)
	if !ok {
		return generatedPath
	}
	start, _, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f.Path, fs, mode), start.Line, start.Col)
}

func formatPath(path string, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
	case PathModeBasename:
		return source.BaseName(path)
	default:
		if rel, err := source.RelativePath(path, fs.BaseDir()); err == nil {
			return rel
		}
	}
	return path
}

// writeSnippet prints the first line of span and underlines the part of the
// span that lies on it.
func writeSnippet(w io.Writer, span source.Span, fs *source.FileSet, pal palette) error {
	if fs == nil {
		return nil
	}
	f, ok := fs.Get(span.File)
	if !ok {
		return nil
	}
	start, _, _ := fs.Resolve(span)
	line := f.GetLine(start.Line)
	if line == "" {
		return nil
	}
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	width := min(int(span.Len()), len(line)-col)
	width = max(width, 1)

	var pad strings.Builder
	for i := 0; i < col; i++ {
		// табы сохраняем, чтобы ^ встал под нужный символ
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	marker := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, "%s\n%s%s\n", line, pad.String(), pal.marker.Sprint(marker))
	return err
}
