package target

import "treeconv/internal/source"

// StmtKind enumerates target statement kinds.
type StmtKind uint8

const (
	StmtLocal StmtKind = iota
	StmtExpr
	StmtAssign
	StmtIf
	StmtWhile
	// StmtDoWhile is do { } while (cond); the single-iteration wrapper uses it with a false condition.
	StmtDoWhile
	StmtFor
	StmtForEach
	StmtTry
	StmtBreak
	StmtContinue
	StmtReturn
	StmtThrow
	StmtBlock
	StmtLocalFunc
	// StmtDiagnostic stands in for a statement that could not be converted.
	StmtDiagnostic
)

var stmtKindNames = [...]string{
	StmtLocal:      "Local",
	StmtExpr:       "Expr",
	StmtAssign:     "Assign",
	StmtIf:         "If",
	StmtWhile:      "While",
	StmtDoWhile:    "DoWhile",
	StmtFor:        "For",
	StmtForEach:    "ForEach",
	StmtTry:        "Try",
	StmtBreak:      "Break",
	StmtContinue:   "Continue",
	StmtReturn:     "Return",
	StmtThrow:      "Throw",
	StmtBlock:      "Block",
	StmtLocalFunc:  "LocalFunc",
	StmtDiagnostic: "Diagnostic",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// Stmt is a target statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // nil for break/continue
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// Block is a braced statement list.
type Block struct {
	Stmts []*Stmt
}

// NewBlock wraps statements into a Block.
func NewBlock(stmts ...*Stmt) *Block {
	return &Block{Stmts: stmts}
}

// LocalData holds data for StmtLocal. An empty Type prints as var.
type LocalData struct {
	Name *Ident
	Type string
	Init *Expr
}

func (LocalData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// AssignData holds data for StmtAssign. Op is "" for =, otherwise the compound operator.
type AssignData struct {
	Target *Expr
	Op     string
	Value  *Expr
}

func (AssignData) stmtData() {}

// IfData holds data for StmtIf.
type IfData struct {
	Cond *Expr
	Then *Block
	Else *Block // nil if none
}

func (IfData) stmtData() {}

// LoopData holds data for StmtWhile and StmtDoWhile.
type LoopData struct {
	Cond *Expr
	Body *Block
}

func (LoopData) stmtData() {}

// ForData holds data for StmtFor.
type ForData struct {
	Init *Stmt
	Cond *Expr
	Post *Stmt
	Body *Block
}

func (ForData) stmtData() {}

// ForEachData holds data for StmtForEach.
type ForEachData struct {
	Type string
	Var  *Ident
	Iter *Expr
	Body *Block
}

func (ForEachData) stmtData() {}

// Catch is one catch clause.
type Catch struct {
	Type string
	Name *Ident // nil when unbound
	Body *Block
}

// TryData holds data for StmtTry.
type TryData struct {
	Body    *Block
	Catches []Catch
	Finally *Block
}

func (TryData) stmtData() {}

// ValueData holds data for StmtReturn and StmtThrow.
type ValueData struct {
	Value *Expr // nil for bare return / rethrow
}

func (ValueData) stmtData() {}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Block *Block
}

func (BlockData) stmtData() {}

// Param is a function parameter.
type Param struct {
	Name *Ident
	Type string
	Ref  bool
}

// FuncData holds data for StmtLocalFunc.
type FuncData struct {
	Name   *Ident
	Params []Param
	Result string // empty for void
	Body   *Block
}

func (FuncData) stmtData() {}

// DiagnosticData holds data for StmtDiagnostic.
type DiagnosticData struct {
	Message  string
	Original string
}

func (DiagnosticData) stmtData() {}

func newStmt(kind StmtKind, data StmtData) *Stmt {
	return &Stmt{Kind: kind, Data: data}
}

// Local builds a declaration with initializer.
func Local(name *Ident, typ string, init *Expr) *Stmt {
	return newStmt(StmtLocal, LocalData{Name: name, Type: typ, Init: init})
}

// ExprStatement builds an expression statement.
func ExprStatement(e *Expr) *Stmt {
	return newStmt(StmtExpr, ExprStmtData{Expr: e})
}

// Assign builds lhs = rhs.
func Assign(lhs, rhs *Expr) *Stmt {
	return newStmt(StmtAssign, AssignData{Target: lhs, Value: rhs})
}

// If builds an if statement; els may be nil.
func If(cond *Expr, then *Block, els *Block) *Stmt {
	return newStmt(StmtIf, IfData{Cond: cond, Then: then, Else: els})
}

// CompoundAssign builds lhs op= rhs.
func CompoundAssign(op string, lhs, rhs *Expr) *Stmt {
	return newStmt(StmtAssign, AssignData{Target: lhs, Op: op, Value: rhs})
}

// While builds while (cond) { body }.
func While(cond *Expr, body *Block) *Stmt {
	return newStmt(StmtWhile, LoopData{Cond: cond, Body: body})
}

// DoWhile builds do { body } while (cond);.
func DoWhile(body *Block, cond *Expr) *Stmt {
	return newStmt(StmtDoWhile, LoopData{Cond: cond, Body: body})
}

// For builds for (init; cond; post) { body }.
func For(init *Stmt, cond *Expr, post *Stmt, body *Block) *Stmt {
	return newStmt(StmtFor, ForData{Init: init, Cond: cond, Post: post, Body: body})
}

// ForEach builds foreach (typ v in iter) { body }.
func ForEach(typ string, v *Ident, iter *Expr, body *Block) *Stmt {
	return newStmt(StmtForEach, ForEachData{Type: typ, Var: v, Iter: iter, Body: body})
}

// Try builds try/catch/finally; finally may be nil.
func Try(body *Block, catches []Catch, finally *Block) *Stmt {
	return newStmt(StmtTry, TryData{Body: body, Catches: catches, Finally: finally})
}

// Throw builds throw [value];.
func Throw(value *Expr) *Stmt {
	return newStmt(StmtThrow, ValueData{Value: value})
}

// BlockStmt builds a nested { ... } block.
func BlockStmt(b *Block) *Stmt {
	return newStmt(StmtBlock, BlockData{Block: b})
}

// LocalFunc builds a local function declaration.
func LocalFunc(name *Ident, result string, params []Param, body *Block) *Stmt {
	return newStmt(StmtLocalFunc, FuncData{Name: name, Params: params, Result: result, Body: body})
}

// Lambda builds (params) => { body }.
func Lambda(params []Param, body *Block) *Expr {
	return &Expr{Kind: ExprLambda, Data: LambdaData{Params: params, Body: body}}
}

// Break builds break;.
func Break() *Stmt {
	return newStmt(StmtBreak, nil)
}

// Continue builds continue;.
func Continue() *Stmt {
	return newStmt(StmtContinue, nil)
}

// Return builds return [value];.
func Return(value *Expr) *Stmt {
	return newStmt(StmtReturn, ValueData{Value: value})
}

// SingleIteration wraps stmts in do { ... } while (false);.
func SingleIteration(stmts []*Stmt) *Stmt {
	return newStmt(StmtDoWhile, LoopData{Cond: False(), Body: NewBlock(stmts...)})
}

// Diagnostic builds a placeholder statement for an unconvertible source statement.
func Diagnostic(sp source.Span, message, original string) *Stmt {
	st := newStmt(StmtDiagnostic, DiagnosticData{Message: message, Original: original})
	st.Span = sp
	return st
}

// WithSpan sets the statement span and returns the statement.
func (s *Stmt) WithSpan(sp source.Span) *Stmt {
	s.Span = sp
	return s
}

// IsSingleIteration reports whether s is a synthesized do { } while (false).
func (s *Stmt) IsSingleIteration() bool {
	if s == nil || s.Kind != StmtDoWhile {
		return false
	}
	data, ok := s.Data.(LoopData)
	if !ok || data.Cond == nil || data.Cond.Kind != ExprLiteral {
		return false
	}
	lit, ok := data.Cond.Data.(LiteralData)
	return ok && lit.Text == "false"
}
