package hoist

import (
	"strings"

	"treeconv/internal/target"
)

// Kind tags a hoisted node.
type Kind uint8

const (
	KindDeclaration Kind = iota
	KindAssignment
	KindStatement
	KindLocalFunction
	KindStaticField
	KindExitFlag
)

func (k Kind) String() string {
	switch k {
	case KindDeclaration:
		return "Declaration"
	case KindAssignment:
		return "Assignment"
	case KindStatement:
		return "Statement"
	case KindLocalFunction:
		return "LocalFunction"
	case KindStaticField:
		return "StaticField"
	case KindExitFlag:
		return "ExitFlag"
	default:
		return "Unknown"
	}
}

// Node is one artifact waiting in a scope.
type Node interface {
	Kind() Kind
}

// Declaration becomes `Type name = Init;` before the converted statements.
type Declaration struct {
	Prefix string
	Init   *target.Expr
	Type   string // empty prints as var
	ident  *target.Ident
}

// NewDeclaration allocates a declaration with a fresh placeholder.
func NewDeclaration(prefix string, init *target.Expr, typ string) *Declaration {
	return &Declaration{Prefix: prefix, Init: init, Type: typ, ident: target.NewPlaceholderIdent(prefix)}
}

func (*Declaration) Kind() Kind { return KindDeclaration }

// Placeholder returns the token standing in for the final name.
func (d *Declaration) Placeholder() target.Placeholder { return d.ident.Placeholder }

// Ref returns a new expression referring to the declared variable.
func (d *Declaration) Ref() *target.Expr { return target.Id(d.ident.Ref()) }

// Assignment becomes `LHS = RHS;` after the converted statements.
type Assignment struct {
	LHS *target.Expr
	RHS *target.Expr
}

func (*Assignment) Kind() Kind { return KindAssignment }

// Statement is an arbitrary statement; it runs before the converted
// statements unless Post is set.
type Statement struct {
	Stmt *target.Stmt
	Post bool
}

func (*Statement) Kind() Kind { return KindStatement }

// LocalFunction becomes a local function declared ahead of everything else in
// the scope.
type LocalFunction struct {
	Prefix string
	Result string
	Params []target.Param
	Body   *target.Block
	ident  *target.Ident
}

// NewLocalFunction allocates a local function with a fresh placeholder.
func NewLocalFunction(prefix, result string, params []target.Param, body *target.Block) *LocalFunction {
	return &LocalFunction{Prefix: prefix, Result: result, Params: params, Body: body, ident: target.NewPlaceholderIdent(prefix)}
}

func (*LocalFunction) Kind() Kind { return KindLocalFunction }

// Placeholder returns the token standing in for the final name.
func (f *LocalFunction) Placeholder() target.Placeholder { return f.ident.Placeholder }

// Ref returns a new expression referring to the function.
func (f *LocalFunction) Ref() *target.Expr { return target.Id(f.ident.Ref()) }

// StaticField promotes a local whose value persists across calls to a field
// of the enclosing type. It is only meaningful in the outermost scope.
type StaticField struct {
	Method   string // owning method name
	Accessor string // "get"/"set" for property accessors, empty otherwise
	Var      string // original local name
	Init     *target.Expr
	Type     string
	Static   bool // the owning method is shared/static
}

func (*StaticField) Kind() Kind { return KindStaticField }

// FieldName returns _Method[_accessor]_Var.
func (f *StaticField) FieldName() string {
	var sb strings.Builder
	sb.WriteByte('_')
	sb.WriteString(f.Method)
	if f.Accessor != "" {
		sb.WriteByte('_')
		sb.WriteString(f.Accessor)
	}
	sb.WriteByte('_')
	sb.WriteString(f.Var)
	return sb.String()
}

// Field lowers the node to a member.
func (f *StaticField) Field() target.Field {
	return target.Field{Name: f.FieldName(), Type: f.Type, Init: f.Init, Static: f.Static}
}

// ExitFlag is a boolean local that carries a non-local exit across a scope
// whose construct cannot be left with one native break.
type ExitFlag struct {
	Owner  ScopeID // scope the flag is declared in
	Target ScopeID // scope the exit is heading for
	Mode   ExitMode
	// Resume is the statement the post-check issues: break, or continue when
	// the owner sits directly inside the target loop.
	Resume target.StmtKind
	ident  *target.Ident
}

func (*ExitFlag) Kind() Kind { return KindExitFlag }

// Placeholder returns the token standing in for the final name.
func (f *ExitFlag) Placeholder() target.Placeholder { return f.ident.Placeholder }

// Ref returns a new expression referring to the flag.
func (f *ExitFlag) Ref() *target.Expr { return target.Id(f.ident.Ref()) }

// Prefix returns the requested flag name.
func (f *ExitFlag) Prefix() string { return f.ident.Name }
