package driver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"treeconv/internal/convert"
	"treeconv/internal/diag"
	"treeconv/internal/facts"
	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

func callUnit(b *src.Builder, method, callee string) Unit {
	return Unit{
		Unit: convert.Unit{Method: method, Kind: src.ExitSub},
		Body: src.NewBlock(src.ExprStmt(b.Call(b.Ident(callee, 0)))),
	}
}

func TestConvertDocumentKeepsUnitOrder(t *testing.T) {
	b := src.NewBuilder()
	doc := &Document{Name: "Module1"}
	for i := 0; i < 16; i++ {
		doc.Units = append(doc.Units, callUnit(b, fmt.Sprintf("M%d", i), fmt.Sprintf("F%d", i)))
	}
	res, err := ConvertDocument(context.Background(), doc, facts.NewTable(), Options{Jobs: 3})
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	if len(res.Units) != 16 {
		t.Fatalf("got %d units", len(res.Units))
	}
	for i, u := range res.Units {
		if u.Name != fmt.Sprintf("M%d", i) {
			t.Errorf("unit %d is %s", i, u.Name)
		}
		if got, want := target.Format(u.Stmts), fmt.Sprintf("F%d();\n", i); got != want {
			t.Errorf("unit %d: got %q, want %q", i, got, want)
		}
	}
	if res.Bag.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Bag.Items())
	}
}

func TestConvertDocumentMergesFieldsAndDiagnostics(t *testing.T) {
	b := src.NewBuilder()
	static := Unit{
		Unit: convert.Unit{Method: "Tick", Kind: src.ExitSub},
		Body: src.NewBlock(src.NewStmt(src.StmtLocal, source.Span{}, src.LocalData{
			Name: "n", SymbolID: 1, Type: "Integer", Value: b.Int("0"), IsStatic: true,
		})),
	}
	broken := Unit{
		Unit: convert.Unit{Method: "Jump", Kind: src.ExitSub},
		Body: src.NewBlock(src.NewStmt(src.StmtGoTo, source.Span{File: 1, Start: 4, End: 8}, src.RawData{Text: "GoTo x"})),
	}
	doc := &Document{Name: "Module1", Units: []Unit{static, broken, callUnit(b, "Plain", "F")}}

	res, err := ConvertDocument(context.Background(), doc, nil, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	if len(res.Fields) != 1 || res.Fields[0].Name != "_Tick_n" {
		t.Fatalf("fields = %+v", res.Fields)
	}
	if res.Bag.Len() != 1 {
		t.Fatalf("diagnostics = %v", res.Bag.Items())
	}
	if d := res.Bag.Items()[0]; d.Code != diag.ConvUnsupported || d.Primary.Start != 4 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestConvertDocumentCancelledBeforeStart(t *testing.T) {
	b := src.NewBuilder()
	doc := &Document{Name: "Module1", Units: []Unit{callUnit(b, "A", "F"), callUnit(b, "B", "G")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ConvertDocument(ctx, doc, nil, Options{Jobs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("expected a partial result")
	}
	for _, u := range res.Units {
		if !u.Skipped || u.Stmts != nil {
			t.Errorf("unit %s should be skipped: %+v", u.Name, u)
		}
	}
	if res.Bag.Len() != 2 {
		t.Fatalf("diagnostics = %v", res.Bag.Items())
	}
	for _, d := range res.Bag.Items() {
		if d.Code != diag.ConvCancelled {
			t.Errorf("unexpected code %s", d.Code.ID())
		}
	}
}

func TestConvertDocumentTimings(t *testing.T) {
	b := src.NewBuilder()
	doc := &Document{Name: "Module1", Units: []Unit{callUnit(b, "A", "F")}}
	var events []PhaseEvent
	opts := Options{
		Timings:        true,
		MaxDiagnostics: 1,
		Observer:       func(ev PhaseEvent) { events = append(events, ev) },
	}
	res, err := ConvertDocument(context.Background(), doc, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Timing.Phases) != 3 {
		t.Errorf("phases = %+v", res.Timing.Phases)
	}
	var found bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings && len(d.Notes) == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("no timing diagnostic in %v", res.Bag.Items())
	}
	if len(events) != 2 || events[0].Status != PhaseStart || events[1].Status != PhaseEnd {
		t.Errorf("events = %+v", events)
	}
}

func TestConvertDocumentNil(t *testing.T) {
	if _, err := ConvertDocument(context.Background(), nil, nil, Options{}); err == nil {
		t.Fatal("expected an error for a nil document")
	}
}
