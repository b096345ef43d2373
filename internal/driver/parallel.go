package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"treeconv/internal/convert"
	"treeconv/internal/diag"
	"treeconv/internal/facts"
	"treeconv/internal/observ"
	"treeconv/internal/source"
	"treeconv/internal/trace"
)

// unitOutput is what one worker leaves at its index.
type unitOutput struct {
	result UnitResult
	bag    *diag.Bag
}

// ConvertDocument converts every unit of doc. Units run in parallel, each with
// its own converter; results are stored by index so the output does not depend
// on scheduling. Cancellation is honored only before a unit starts: a
// cancelled document still returns the units that finished, together with the
// context error.
func ConvertDocument(ctx context.Context, doc *Document, p facts.Provider, opts Options) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("convert document: nil document")
	}
	timer := observ.NewTimer()
	passSpan, ctx := trace.Start(ctx, trace.ScopePass, "convert "+doc.Name)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	observe(opts.Observer, "convert", PhaseStart, 0)
	convIdx := timer.Begin("convert")

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	outputs := make([]unitOutput, len(doc.Units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(doc.Units))))
	for i := range doc.Units {
		g.Go(func() error {
			u := &doc.Units[i]
			if gctx.Err() != nil {
				outputs[i] = unitOutput{result: UnitResult{Name: u.Name(), Skipped: true}}
				return nil
			}
			outputs[i] = convertUnit(gctx, u, p, opts, timer)
			return nil
		})
	}
	// Workers never fail; errors surface as diagnostics.
	_ = g.Wait()

	timer.End(convIdx, fmt.Sprintf("%d units, %d jobs", len(doc.Units), jobs))
	observe(opts.Observer, "convert", PhaseEnd, timer.Report().Phases[convIdx].DurationMS)

	mergeIdx := timer.Begin("merge")
	res := merge(doc, outputs, opts.MaxDiagnostics)
	timer.End(mergeIdx, fmt.Sprintf("%d fields, %d diagnostics", len(res.Fields), res.Bag.Len()))

	res.Timing = timer.Report()
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "convert",
			Path:    doc.Name,
			TotalMS: res.Timing.TotalMS,
			Phases:  res.Timing.Phases,
		})
	}
	passSpan.End(fmt.Sprintf("units=%d diagnostics=%d", len(res.Units), res.Bag.Len()))

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("convert %s: %w", doc.Name, err)
	}
	return res, nil
}

func convertUnit(ctx context.Context, u *Unit, p facts.Provider, opts Options, timer *observ.Timer) unitOutput {
	span, ctx := trace.Start(ctx, trace.ScopeUnit, u.Name())
	idx := timer.Begin("unit " + u.Name())

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	conv := convert.New(u.Unit, p, reporter, opts.Convert)
	res := conv.Convert(ctx, u.Body)

	timer.End(idx, fmt.Sprintf("%d stmts", len(res.Stmts)))
	span.End(fmt.Sprintf("stmts=%d fields=%d", len(res.Stmts), len(res.Fields)))
	return unitOutput{
		result: UnitResult{Name: u.Name(), Stmts: res.Stmts, Fields: res.Fields},
		bag:    bag,
	}
}

// merge concatenates unit outputs in document order.
func merge(doc *Document, outputs []unitOutput, maxDiagnostics int) *Result {
	res := &Result{
		Name:  doc.Name,
		Units: make([]UnitResult, len(outputs)),
		Bag:   diag.NewBag(maxDiagnostics),
	}
	for i, out := range outputs {
		res.Units[i] = out.result
		res.Fields = append(res.Fields, out.result.Fields...)
		if out.result.Skipped {
			res.Bag.Add(diag.New(diag.SevWarning, diag.ConvCancelled, doc.Units[i].Span,
				fmt.Sprintf("%s was not converted: cancelled", out.result.Name)))
			continue
		}
		res.Bag.Merge(out.bag)
	}
	res.Bag.Sort()
	res.Bag.Dedup()
	if n := res.Bag.Dropped(); n > 0 {
		res.Bag.Force(diag.New(diag.SevInfo, diag.ConvUnitLimitReached, source.Span{},
			fmt.Sprintf("%d more diagnostics not shown", n)))
	}
	return res
}
