package target

// ExprKind enumerates target expression kinds.
type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprLiteral
	ExprBinary
	ExprUnary
	ExprCall
	ExprIndex
	ExprMember
	ExprThis
	ExprLambda
	ExprConditional
)

var exprKindNames = [...]string{
	ExprIdent:       "Ident",
	ExprLiteral:     "Literal",
	ExprBinary:      "Binary",
	ExprUnary:       "Unary",
	ExprCall:        "Call",
	ExprIndex:       "Index",
	ExprMember:      "Member",
	ExprThis:        "This",
	ExprLambda:      "Lambda",
	ExprConditional: "Conditional",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is a target expression.
type Expr struct {
	Kind ExprKind
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Ident *Ident
}

func (IdentData) exprData() {}

// LiteralData holds data for ExprLiteral. Text is already in target spelling.
type LiteralData struct {
	Text string
}

func (LiteralData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      string
	Operand *Expr
}

func (UnaryData) exprData() {}

// Arg is a call argument; Ref passes it by reference.
type Arg struct {
	Ref   bool
	Value *Expr
}

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []Arg
}

func (CallData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Target *Expr
	Args   []*Expr
}

func (IndexData) exprData() {}

// MemberData holds data for ExprMember.
type MemberData struct {
	Target *Expr
	Name   string
}

func (MemberData) exprData() {}

// ThisData holds data for ExprThis.
type ThisData struct{}

func (ThisData) exprData() {}

// LambdaData holds data for ExprLambda.
type LambdaData struct {
	Params []Param
	Body   *Block
}

func (LambdaData) exprData() {}

// ConditionalData holds data for ExprConditional.
type ConditionalData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (ConditionalData) exprData() {}

// Id wraps an identifier node into an expression.
func Id(id *Ident) *Expr {
	return &Expr{Kind: ExprIdent, Data: IdentData{Ident: id}}
}

// Name builds an expression for a final identifier.
func Name(name string) *Expr {
	return Id(NewIdent(name))
}

// Lit builds a literal.
func Lit(text string) *Expr {
	return &Expr{Kind: ExprLiteral, Data: LiteralData{Text: text}}
}

// True and False build boolean literals.
func True() *Expr  { return Lit("true") }
func False() *Expr { return Lit("false") }

// Binary builds left op right.
func Binary(op string, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: BinaryData{Op: op, Left: left, Right: right}}
}

// Unary builds op operand.
func Unary(op string, operand *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Data: UnaryData{Op: op, Operand: operand}}
}

// Call builds callee(args).
func Call(callee *Expr, args ...Arg) *Expr {
	return &Expr{Kind: ExprCall, Data: CallData{Callee: callee, Args: args}}
}

// Index builds target[args].
func Index(target *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprIndex, Data: IndexData{Target: target, Args: args}}
}

// Member builds target.name.
func Member(target *Expr, name string) *Expr {
	return &Expr{Kind: ExprMember, Data: MemberData{Target: target, Name: name}}
}

// This builds this.
func This() *Expr {
	return &Expr{Kind: ExprThis, Data: ThisData{}}
}

// Conditional builds cond ? then : els.
func Conditional(cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprConditional, Data: ConditionalData{Cond: cond, Then: then, Else: els}}
}

// AsIdent returns the identifier of an ExprIdent, or nil.
func (e *Expr) AsIdent() *Ident {
	if e == nil || e.Kind != ExprIdent {
		return nil
	}
	data, ok := e.Data.(IdentData)
	if !ok {
		return nil
	}
	return data.Ident
}
