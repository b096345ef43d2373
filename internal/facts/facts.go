// Package facts defines the semantic facts the converter consumes from the
// front end: expression types and constants, symbol kinds, callee parameter
// conventions and the identifiers visible at a source position.
package facts

import (
	"treeconv/internal/source"
	"treeconv/internal/src"
)

// SymbolKind classifies a bound symbol.
type SymbolKind uint8

const (
	SymUnknown SymbolKind = iota
	SymLocal
	SymStaticLocal    // persisted across calls, promoted to a field
	SymWriteOnceLocal // assigned once, never addressable by reference
	SymParam
	SymByRefParam
	SymField
	SymReadOnlyField
	SymProperty
	SymReadOnlyProperty
	SymMethod
	SymIndexer
	SymReadOnlyIndexer
)

var symbolKindNames = [...]string{
	SymUnknown:          "unknown",
	SymLocal:            "local",
	SymStaticLocal:      "static-local",
	SymWriteOnceLocal:   "write-once-local",
	SymParam:            "param",
	SymByRefParam:       "byref-param",
	SymField:            "field",
	SymReadOnlyField:    "readonly-field",
	SymProperty:         "property",
	SymReadOnlyProperty: "readonly-property",
	SymMethod:           "method",
	SymIndexer:          "indexer",
	SymReadOnlyIndexer:  "readonly-indexer",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// ParseSymbolKind maps a kind name back to SymbolKind.
func ParseSymbolKind(s string) (SymbolKind, bool) {
	for i, name := range symbolKindNames {
		if name == s {
			return SymbolKind(i), true
		}
	}
	return SymUnknown, false
}

// Addressable reports whether a value of this kind can be aliased by a
// reference argument in the target.
func (k SymbolKind) Addressable() bool {
	switch k {
	case SymLocal, SymParam, SymByRefParam, SymField, SymStaticLocal:
		return true
	}
	return false
}

// Writable reports whether the symbol can be assigned after a by-reference call.
func (k SymbolKind) Writable() bool {
	switch k {
	case SymLocal, SymParam, SymByRefParam, SymField, SymStaticLocal, SymProperty, SymIndexer:
		return true
	}
	return false
}

// Symbol describes one bound symbol.
type Symbol struct {
	Name string
	Kind SymbolKind
	Type string
}

// Param describes one callee parameter.
type Param struct {
	Name  string
	Type  string
	ByRef bool
}

// Constant is a compile-time constant value in source spelling.
type Constant struct {
	Text string
}

// Provider answers semantic queries about the tree being converted.
// Implementations must be safe for concurrent readers.
type Provider interface {
	TypeOf(id src.ExprID) (string, bool)
	ConstantOf(id src.ExprID) (Constant, bool)
	Symbol(id src.SymbolID) (Symbol, bool)
	// Params returns the parameter list of the method invoked by call expression id.
	Params(id src.ExprID) ([]Param, bool)
	// VisibleNames lists identifiers in scope at sp. ok=false means the
	// provider cannot answer and callers must not assume anything.
	VisibleNames(sp source.Span) (names []string, ok bool)
}
