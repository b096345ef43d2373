package facts

import (
	"sort"

	"treeconv/internal/source"
	"treeconv/internal/src"
)

// Visibility lists names visible anywhere inside Span.
type Visibility struct {
	Span  source.Span
	Names []string
}

// Table is a map-backed Provider. Populate it before conversion starts; it is
// read-only afterwards.
type Table struct {
	Types      map[src.ExprID]string
	Constants  map[src.ExprID]Constant
	Symbols    map[src.SymbolID]Symbol
	CallParams map[src.ExprID][]Param
	Visible    []Visibility
	// Blind makes VisibleNames report that it cannot answer.
	Blind bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		Types:      make(map[src.ExprID]string),
		Constants:  make(map[src.ExprID]Constant),
		Symbols:    make(map[src.SymbolID]Symbol),
		CallParams: make(map[src.ExprID][]Param),
	}
}

func (t *Table) TypeOf(id src.ExprID) (string, bool) {
	if t == nil {
		return "", false
	}
	ty, ok := t.Types[id]
	return ty, ok
}

func (t *Table) ConstantOf(id src.ExprID) (Constant, bool) {
	if t == nil {
		return Constant{}, false
	}
	c, ok := t.Constants[id]
	return c, ok
}

func (t *Table) Symbol(id src.SymbolID) (Symbol, bool) {
	if t == nil {
		return Symbol{}, false
	}
	s, ok := t.Symbols[id]
	return s, ok
}

func (t *Table) Params(id src.ExprID) ([]Param, bool) {
	if t == nil {
		return nil, false
	}
	ps, ok := t.CallParams[id]
	return ps, ok
}

// VisibleNames merges every visibility range that contains sp.
func (t *Table) VisibleNames(sp source.Span) ([]string, bool) {
	if t == nil || t.Blind {
		return nil, false
	}
	seen := make(map[string]struct{})
	for _, v := range t.Visible {
		if !v.Span.Contains(sp) {
			continue
		}
		for _, n := range v.Names {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, true
}

// Declare is a convenience for tests and decoders.
func (t *Table) Declare(id src.SymbolID, name string, kind SymbolKind, typ string) {
	t.Symbols[id] = Symbol{Name: name, Kind: kind, Type: typ}
}

// AddVisible records names visible inside sp.
func (t *Table) AddVisible(sp source.Span, names ...string) {
	t.Visible = append(t.Visible, Visibility{Span: sp, Names: names})
}
