package src

import "treeconv/internal/source"

// Builder constructs tree nodes and hands out sequential ExprIDs.
// The fixture decoder and tests use it; a real front end may assign IDs itself.
type Builder struct {
	next ExprID
}

// NewBuilder returns a builder whose first ExprID is 1.
func NewBuilder() *Builder {
	return &Builder{}
}

// NextID reserves the next ExprID.
func (b *Builder) NextID() ExprID {
	b.next++
	return b.next
}

func (b *Builder) expr(kind ExprKind, data ExprData) *Expr {
	return &Expr{Kind: kind, ID: b.NextID(), Data: data}
}

func (b *Builder) Ident(name string, sym SymbolID) *Expr {
	return b.expr(ExprIdent, IdentData{Name: name, SymbolID: sym})
}

func (b *Builder) Int(text string) *Expr {
	return b.expr(ExprLiteral, LiteralData{Kind: LiteralInt, Text: text})
}

func (b *Builder) Str(text string) *Expr {
	return b.expr(ExprLiteral, LiteralData{Kind: LiteralString, Text: text})
}

func (b *Builder) Bool(v bool) *Expr {
	text := "False"
	if v {
		text = "True"
	}
	return b.expr(ExprLiteral, LiteralData{Kind: LiteralBool, Text: text})
}

func (b *Builder) Binary(op string, left, right *Expr) *Expr {
	return b.expr(ExprBinary, BinaryData{Op: op, Left: left, Right: right})
}

func (b *Builder) Unary(op string, operand *Expr) *Expr {
	return b.expr(ExprUnary, UnaryData{Op: op, Operand: operand})
}

func (b *Builder) Call(callee *Expr, args ...*Expr) *Expr {
	return b.expr(ExprCall, CallData{Callee: callee, Args: args})
}

// Index builds an array element access when sym is zero and an indexer access otherwise.
func (b *Builder) Index(target *Expr, sym SymbolID, args ...*Expr) *Expr {
	return b.expr(ExprIndex, IndexData{Target: target, Args: args, SymbolID: sym})
}

func (b *Builder) Member(target *Expr, name string, sym SymbolID) *Expr {
	return b.expr(ExprMember, MemberData{Target: target, Name: name, SymbolID: sym})
}

func (b *Builder) Me() *Expr {
	return b.expr(ExprMe, MeData{})
}

func (b *Builder) Lambda(params []Param, result string, body ...*Stmt) *Expr {
	return b.expr(ExprLambda, LambdaData{Params: params, Result: result, Body: NewBlock(body...)})
}

func (b *Builder) Ternary(cond, then, els *Expr) *Expr {
	return b.expr(ExprTernary, TernaryData{Cond: cond, Then: then, Else: els})
}

// NewBlock wraps statements into a Block.
func NewBlock(stmts ...*Stmt) *Block {
	blk := &Block{Stmts: stmts}
	seen := false
	for _, st := range stmts {
		if st == nil {
			continue
		}
		if !seen {
			blk.Span = st.Span
			seen = true
			continue
		}
		blk.Span = blk.Span.Cover(st.Span)
	}
	return blk
}

// NewStmt builds a statement with the given payload.
func NewStmt(kind StmtKind, sp source.Span, data StmtData) *Stmt {
	return &Stmt{Kind: kind, Span: sp, Data: data}
}

func ExprStmt(e *Expr) *Stmt {
	return NewStmt(StmtExpr, e.Span, ExprStmtData{Expr: e})
}

func Exit(kind ExitKind) *Stmt {
	return NewStmt(StmtExit, source.Span{}, ExitData{Kind: kind})
}

func Continue(kind ExitKind) *Stmt {
	return NewStmt(StmtContinue, source.Span{}, ExitData{Kind: kind})
}

func Assign(target, value *Expr) *Stmt {
	return NewStmt(StmtAssign, target.Span, AssignData{Target: target, Value: value})
}

func DoLoop(cond *Expr, body ...*Stmt) *Stmt {
	return NewStmt(StmtDo, source.Span{}, DoData{Cond: cond, Body: NewBlock(body...)})
}

func While(cond *Expr, body ...*Stmt) *Stmt {
	return NewStmt(StmtWhile, source.Span{}, WhileData{Cond: cond, Body: NewBlock(body...)})
}

func TryCatch(body []*Stmt, catches []Catch, finally []*Stmt) *Stmt {
	data := TryData{Body: NewBlock(body...), Catches: catches}
	if finally != nil {
		data.Finally = NewBlock(finally...)
	}
	return NewStmt(StmtTry, source.Span{}, data)
}

func If(cond *Expr, then []*Stmt, els []*Stmt) *Stmt {
	data := IfData{Cond: cond, Then: NewBlock(then...)}
	if els != nil {
		data.Else = NewBlock(els...)
	}
	return NewStmt(StmtIf, source.Span{}, data)
}
