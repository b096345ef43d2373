// Package hoist implements the scope-stacked side channel that lets an
// expression-level conversion emit declarations, assignments, statements,
// local functions and fields into its nearest enclosing statement list.
//
// # Protocol
//
// Every statement conversion that can open a block pushes a Scope, delegates,
// then splices and pops:
//
//	sc := stack.Push(hoist.ScopeOptions{Kind: src.ExitDo, NativelyBreakable: true})
//	defer stack.Pop(sc)
//	converted := convertInner(st)
//	return stack.Splice(sc, converted)
//
// Nested conversions call Hoist to append a node to the innermost scope and
// embed the node's placeholder identifier inline. Splice lowers the pending
// nodes, finalizes placeholder names bottom-up and concatenates
// functions, pre-statements, the converted statements and post-statements.
//
// # Exits
//
// Stack.Exit walks the open scopes outward to build the boolean-flag cascade
// that simulates leaving several nested constructs when the target language
// only offers a single-level break.
//
// A Stack belongs to exactly one top-level conversion. It is not safe for
// concurrent use and must never be shared between units.
package hoist
