// Package convert lowers a bound source tree to the target tree, one unit
// (method or accessor body) at a time.
//
// Every statement passes through the splicing decorator in decorator.go: it
// opens a scope on the unit's hoist.Stack, converts the statement, and splices
// whatever nested expression conversions hoisted (temporaries, write-backs,
// local functions, exit flags) around the result. Statements without a
// conversion rule become diagnostic statements; the rest of the unit is
// unaffected.
package convert
