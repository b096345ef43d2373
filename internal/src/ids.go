// Package src models the statement/expression tree handed over by the front end.
//
// The tree is already parsed and bound: identifiers carry symbol IDs and every
// expression carries an ExprID under which the facts provider answers type and
// constant-value queries. The converter never mutates it.
package src

// SymbolID identifies a bound symbol (local, parameter, field, property, ...).
type SymbolID uint32

// ExprID identifies an expression node for facts lookups.
type ExprID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoSymbolID SymbolID = 0
	NoExprID   ExprID   = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id SymbolID) IsValid() bool { return id != NoSymbolID }
func (id ExprID) IsValid() bool   { return id != NoExprID }
