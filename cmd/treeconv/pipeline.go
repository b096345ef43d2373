package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"treeconv/internal/diag"
	"treeconv/internal/diagfmt"
	"treeconv/internal/driver"
	"treeconv/internal/fixture"
	"treeconv/internal/observ"
	"treeconv/internal/source"
	"treeconv/internal/trace"
	"treeconv/internal/version"
)

// fileResult is one converted fixture, fresh or from the cache.
type fileResult struct {
	Path    string
	Payload *driver.DiskPayload // nil when the fixture could not be loaded
	Files   *source.FileSet
	Bag     *diag.Bag
	Cached  bool
	Timing  observ.Report
}

// convertFile loads, converts and renders one fixture. Problems with the
// fixture itself are diagnostics; the returned error is reserved for
// cancellation.
func convertFile(ctx context.Context, path string, s settings, cache *driver.DiskCache) (*fileResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, path)
	defer span.End("")

	out := &fileResult{Path: path, Files: source.NewFileSet(), Bag: diag.NewBag(0)}

	doc, raw, err := fixture.Load(path)
	if err != nil {
		out.Bag.Add(diag.NewError(loadErrorCode(err), source.Span{}, err.Error()))
		return out, nil
	}

	key := driver.CacheKey(version.Version, raw, s.driver)
	var cached driver.DiskPayload
	hit, err := cache.Get(key, &cached)
	switch {
	case err != nil:
		out.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheCorrupted, source.Span{}, err.Error()))
	case hit:
		fixture.Register(doc, out.Files)
		out.Payload = &cached
		out.Bag = cached.Bag()
		out.Cached = true
		return out, nil
	}

	built, tab, err := fixture.Build(doc, out.Files)
	if err != nil {
		out.Bag.Add(diag.NewError(diag.IOFixtureDecode, source.Span{}, fmt.Sprintf("%s: %v", path, err)))
		return out, nil
	}
	res, convErr := driver.ConvertDocument(ctx, built, tab, s.driver)
	if res == nil {
		return nil, convErr
	}
	payload, err := driver.NewPayload(res)
	if err != nil {
		return nil, err
	}
	out.Payload = payload
	out.Bag.Merge(res.Bag)
	out.Timing = res.Timing
	if convErr != nil {
		// Partial results are shown but never cached.
		return out, convErr
	}
	if err := cache.Put(key, payload); err != nil {
		out.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheCorrupted, source.Span{}, "cache write: "+err.Error()))
	}
	return out, nil
}

func loadErrorCode(err error) diag.Code {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fixture.ErrSchema):
		return diag.IOFixtureSchema
	case errors.As(err, &pathErr):
		return diag.IOLoadFileError
	default:
		return diag.IOFixtureDecode
	}
}

// writePayload prints the converted document: field members first, then each
// unit under a comment naming it.
func writePayload(w io.Writer, p *driver.DiskPayload) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s\n", p.Name)
	if p.Fields != "" {
		sb.WriteString("\n// fields\n")
		sb.WriteString(p.Fields)
	}
	for _, u := range p.Units {
		sb.WriteString("\n// " + u.Name)
		if u.Skipped {
			sb.WriteString(" (not converted)")
		}
		sb.WriteString("\n")
		sb.WriteString(u.Text)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeDiagnostics prints the bag in the selected format. Info diagnostics
// are left out when quiet is set.
func writeDiagnostics(w io.Writer, r *fileResult, s settings) error {
	bag := r.Bag
	if s.quiet {
		bag = withoutInfo(bag)
	}
	if s.format == "json" {
		return diagfmt.JSON(w, bag, r.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	}
	return diagfmt.Pretty(w, bag, r.Files, diagfmt.PrettyOpts{Color: s.color, Snippet: true, ShowNotes: s.timings})
}

func withoutInfo(bag *diag.Bag) *diag.Bag {
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity > diag.SevInfo {
			out.Add(d)
		}
	}
	return out
}

// processFile converts path and writes the result to out and diagnostics to
// errOut. It reports whether the document converted without errors.
func processFile(ctx context.Context, out, errOut io.Writer, path string, s settings, cache *driver.DiskCache) (bool, error) {
	r, err := convertFile(ctx, path, s, cache)
	if r == nil {
		return false, err
	}
	if r.Payload != nil {
		if werr := writePayload(out, r.Payload); werr != nil {
			return false, werr
		}
	}
	if derr := writeDiagnostics(errOut, r, s); derr != nil {
		return false, derr
	}
	if s.timings && s.format == "pretty" && !r.Cached {
		printPhaseTimings(errOut, r.Timing)
	}
	return r.Payload != nil && !r.Bag.HasErrors(), err
}
