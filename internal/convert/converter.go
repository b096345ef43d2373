package convert

import (
	"context"

	"treeconv/internal/diag"
	"treeconv/internal/facts"
	"treeconv/internal/hoist"
	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
	"treeconv/internal/trace"
)

// Unit describes the method or accessor whose body is converted.
type Unit struct {
	Method   string       // owning method name
	Accessor string       // "get"/"set" for property accessors
	Static   bool         // shared method: promoted statics become static fields
	Kind     src.ExitKind // ExitSub, ExitFunction or ExitProperty
	// Result names the implicit result variable that Exit Function returns.
	Result string
	Span   source.Span
}

// Name is the display name used in traces and diagnostics.
func (u Unit) Name() string {
	if u.Accessor == "" {
		return u.Method
	}
	return u.Method + "." + u.Accessor
}

// Options tune a conversion.
type Options struct {
	// CaseInsensitiveNames makes generated names collide with source names
	// that differ only in case.
	CaseInsensitiveNames bool
}

// Result is the converted body plus the type-level members it produced.
type Result struct {
	Stmts  []*target.Stmt
	Fields []target.Field
}

// Converter lowers one unit. It owns a fresh scope stack and must not be
// shared between goroutines or reused for another unit.
type Converter struct {
	unit     Unit
	facts    facts.Provider
	stack    *hoist.Stack
	reporter diag.Reporter

	tracer trace.Tracer
	parent uint64 // trace span of the unit

	with        []withObject
	statics     map[src.SymbolID]string // static local -> field name
	staticNames map[string]string       // same, for locals the front end left unbound
	lambdaDepth int
}

// withObject is one open With block.
type withObject struct {
	expr *src.Expr          // re-converted per use when decl is nil
	decl *hoist.Declaration // hoisted evaluate-once object
}

// New prepares a converter for unit. A nil provider answers nothing; a nil
// reporter drops diagnostics.
func New(unit Unit, p facts.Provider, r diag.Reporter, opts Options) *Converter {
	if p == nil {
		p = &facts.Table{Blind: true}
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Converter{
		unit:        unit,
		facts:       p,
		stack:       hoist.NewStack(hoist.NewNames(opts.CaseInsensitiveNames), p),
		reporter:    r,
		tracer:      trace.Nop,
		statics:     make(map[src.SymbolID]string),
		staticNames: make(map[string]string),
	}
}

// Convert lowers body. Statements without a conversion rule are replaced by
// diagnostic statements, so Convert always produces a complete body.
func (c *Converter) Convert(ctx context.Context, body *src.Block) Result {
	c.tracer = trace.FromContext(ctx)
	c.parent = trace.CurrentSpan(ctx)

	var stmts []*target.Stmt
	if body != nil {
		stmts = c.convertStmts(body.Stmts)
	}
	return Result{Stmts: stmts, Fields: c.stack.Fields()}
}

// Depth exposes the scope stack depth; 1 between statements.
func (c *Converter) Depth() int {
	return c.stack.Depth()
}

func (c *Converter) convertStmts(stmts []*src.Stmt) []*target.Stmt {
	var out []*target.Stmt
	for _, st := range stmts {
		out = append(out, c.convertStmt(st)...)
	}
	return out
}

func (c *Converter) convertBlock(b *src.Block) *target.Block {
	if b == nil {
		return target.NewBlock()
	}
	return target.NewBlock(c.convertStmts(b.Stmts)...)
}
