package src

import "treeconv/internal/source"

// ExprKind enumerates source expression kinds.
type ExprKind uint8

const (
	// ExprIdent represents a name bound to a symbol.
	ExprIdent ExprKind = iota
	// ExprLiteral represents a literal (number, string, boolean, Nothing).
	ExprLiteral
	// ExprBinary represents a binary operator.
	ExprBinary
	// ExprUnary represents a unary operator.
	ExprUnary
	// ExprCall represents an invocation.
	ExprCall
	// ExprIndex represents an array element or default-property access.
	ExprIndex
	// ExprMember represents obj.Name; a nil target binds to the innermost With object.
	ExprMember
	// ExprMe represents Me.
	ExprMe
	// ExprLambda represents a statement lambda.
	ExprLambda
	// ExprTernary represents If(cond, a, b).
	ExprTernary
)

var exprKindNames = [...]string{
	ExprIdent:   "Ident",
	ExprLiteral: "Literal",
	ExprBinary:  "Binary",
	ExprUnary:   "Unary",
	ExprCall:    "Call",
	ExprIndex:   "Index",
	ExprMember:  "Member",
	ExprMe:      "Me",
	ExprLambda:  "Lambda",
	ExprTernary: "Ternary",
}

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// ParseExprKind maps a kind name back to ExprKind.
func ParseExprKind(s string) (ExprKind, bool) {
	for i, name := range exprKindNames {
		if name == s {
			return ExprKind(i), true
		}
	}
	return 0, false
}

// Expr represents a source expression.
type Expr struct {
	Kind ExprKind
	ID   ExprID // key for facts lookups
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name     string
	SymbolID SymbolID
}

func (IdentData) exprData() {}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralString
	LiteralBool
	LiteralNothing
)

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind LiteralKind
	Text string // raw text; strings are unquoted
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

// CallData holds data for ExprCall.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// IndexData holds data for ExprIndex.
// SymbolID names the default property for indexer access and is zero for array elements.
type IndexData struct {
	Target   *Expr
	Args     []*Expr
	SymbolID SymbolID
}

func (IndexData) exprData() {}

// MemberData holds data for ExprMember.
type MemberData struct {
	Target   *Expr // nil inside With: binds to the With object
	Name     string
	SymbolID SymbolID
}

func (MemberData) exprData() {}

// MeData holds data for ExprMe.
type MeData struct{}

func (MeData) exprData() {}

// Param is a lambda parameter.
type Param struct {
	Name     string
	SymbolID SymbolID
	Type     string
	ByRef    bool
}

// LambdaData holds data for ExprLambda.
type LambdaData struct {
	Params []Param
	Result string // empty for Sub lambdas
	Body   *Block
}

func (LambdaData) exprData() {}

// TernaryData holds data for ExprTernary.
type TernaryData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (TernaryData) exprData() {}
