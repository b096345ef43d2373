package driver

import (
	"treeconv/internal/convert"
	"treeconv/internal/diag"
	"treeconv/internal/observ"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

// Unit is one method or accessor body of a document.
type Unit struct {
	convert.Unit
	Body *src.Block
}

// Document is the set of independent units converted together.
type Document struct {
	Name  string
	Units []Unit
}

// Options configure ConvertDocument.
type Options struct {
	// Jobs limits parallel units; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the merged bag; <= 0 means no limit.
	MaxDiagnostics int
	Convert        convert.Options
	// Timings appends an ObsTimings diagnostic with the phase report.
	Timings  bool
	Observer PhaseObserver
}

// UnitResult is the converted body of one unit.
type UnitResult struct {
	Name    string
	Stmts   []*target.Stmt
	Fields  []target.Field
	Skipped bool // cancelled before it started
}

// Result is the conversion of a whole document. Units follow document order.
type Result struct {
	Name   string
	Units  []UnitResult
	Fields []target.Field
	Bag    *diag.Bag
	Timing observ.Report
}
