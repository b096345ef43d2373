package diag

import (
	"testing"

	"treeconv/internal/source"
)

func TestBagLimitAndMerge(t *testing.T) {
	a := NewBag(2)
	for i := 0; i < 3; i++ {
		a.Add(NewError(ConvUnsupported, source.Span{File: 1, Start: uint32(i)}, "x"))
	}
	if a.Len() != 2 || a.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2 and 1", a.Len(), a.Dropped())
	}

	all := NewBag(0)
	all.Merge(a)
	all.Merge(nil)
	if all.Len() != 2 || all.Dropped() != 1 {
		t.Fatalf("merge: len=%d dropped=%d", all.Len(), all.Dropped())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, ConvCopyInOnly, source.Span{File: 1, Start: 10, End: 12}, "w"))
	b.Add(NewError(ConvUnsupported, source.Span{File: 1, Start: 10, End: 12}, "e"))
	b.Add(NewError(ConvInternal, source.Span{File: 1, Start: 2, End: 4}, "first"))
	b.Add(New(SevInfo, ObsTimings, source.Span{File: 0}, "timings"))
	b.Sort()

	want := []Code{ObsTimings, ConvInternal, ConvUnsupported, ConvCopyInOnly}
	for i, d := range b.Items() {
		if d.Code != want[i] {
			t.Fatalf("item %d: got %s, want %s", i, d.Code.ID(), want[i].ID())
		}
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Error("expected errors and warnings")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{File: 3, Start: 1, End: 5}
	ReportError(r, ConvNoExitTarget, sp, "'Exit Do' must be inside a Do block").Emit()
	ReportError(r, ConvNoExitTarget, sp, "'Exit Do' must be inside a Do block").Emit()
	ReportWarning(r, ConvNoExitTarget, sp, "'Exit Do' must be inside a Do block").Emit()
	if bag.Len() != 2 {
		t.Fatalf("got %d diagnostics, want 2", bag.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, ConvUnsupported, source.Span{}, "cannot convert GoTo").
		WithNote(source.Span{File: 1, Start: 3, End: 7}, "label declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("unexpected bag contents %+v", bag.Items())
	}
}

func TestFormatLines(t *testing.T) {
	diags := []Diagnostic{
		NewError(ConvUnsupported, source.Span{File: 1, Start: 4, End: 9}, "cannot convert\nGoTo").
			WithNote(source.Span{File: 1, Start: 0, End: 2}, "label"),
		New(SevWarning, ConvCopyInOnly, source.Span{File: 2, Start: 0, End: 1}, "x is passed by value"),
	}
	want := "error CNV1001 1:4-9 cannot convert GoTo\n" +
		"  note 1:0-2 label\n" +
		"warning CNV1004 2:0-1 x is passed by value\n"
	if got := FormatLines(diags, true); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		ConvInternal:    "CNV1002",
		IOFixtureSchema: "IO2001",
		ObsTimings:      "OBS3001",
		UnknownCode:     "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: got %s, want %s", code, got, want)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Error("unknown codes must fall back to the generic title")
	}
}

func TestBagForceIgnoresLimit(t *testing.T) {
	b := NewBag(1)
	b.Add(NewError(ConvUnsupported, source.Span{}, "a"))
	if b.Add(New(SevInfo, ObsTimings, source.Span{}, "t")) {
		t.Fatal("expected the limit to reject the second item")
	}
	b.Force(New(SevInfo, ObsTimings, source.Span{}, "t"))
	if b.Len() != 2 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d, want 2 and 1", b.Len(), b.Dropped())
	}
}
