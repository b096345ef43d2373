package facts

import (
	"reflect"
	"testing"

	"treeconv/internal/source"
)

func TestTableVisibleNames(t *testing.T) {
	tbl := NewTable()
	tbl.AddVisible(source.Span{File: 1, Start: 0, End: 100}, "x", "tmp")
	tbl.AddVisible(source.Span{File: 1, Start: 10, End: 20}, "inner", "x")

	names, ok := tbl.VisibleNames(source.Span{File: 1, Start: 12, End: 14})
	if !ok {
		t.Fatal("expected table to answer")
	}
	if want := []string{"inner", "tmp", "x"}; !reflect.DeepEqual(names, want) {
		t.Errorf("VisibleNames = %v, want %v", names, want)
	}

	names, _ = tbl.VisibleNames(source.Span{File: 1, Start: 50, End: 60})
	if want := []string{"tmp", "x"}; !reflect.DeepEqual(names, want) {
		t.Errorf("VisibleNames outside inner range = %v, want %v", names, want)
	}
}

func TestTableBlind(t *testing.T) {
	tbl := NewTable()
	tbl.AddVisible(source.Span{File: 1, Start: 0, End: 100}, "x")
	tbl.Blind = true
	if _, ok := tbl.VisibleNames(source.Span{File: 1, Start: 1, End: 2}); ok {
		t.Error("blind table must not answer visibility queries")
	}
}

func TestSymbolKindTraits(t *testing.T) {
	tests := []struct {
		kind        SymbolKind
		addressable bool
		writable    bool
	}{
		{SymLocal, true, true},
		{SymWriteOnceLocal, false, false},
		{SymField, true, true},
		{SymReadOnlyField, false, false},
		{SymProperty, false, true},
		{SymReadOnlyProperty, false, false},
		{SymIndexer, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Addressable(); got != tt.addressable {
				t.Errorf("Addressable() = %v, want %v", got, tt.addressable)
			}
			if got := tt.kind.Writable(); got != tt.writable {
				t.Errorf("Writable() = %v, want %v", got, tt.writable)
			}
			back, ok := ParseSymbolKind(tt.kind.String())
			if !ok || back != tt.kind {
				t.Errorf("ParseSymbolKind(%q) = %v, %v", tt.kind.String(), back, ok)
			}
		})
	}
}
