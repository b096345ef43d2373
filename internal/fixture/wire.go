package fixture

// The wire types mirror the src tree with flat, optional fields so that a
// fixture reads naturally as JSON. The same struct tags drive msgpack.

// Document is one converted source file: its units plus the facts the front
// end computed for it.
type Document struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	// Path and Source let diagnostics point at lines of the original file.
	Path   string `json:"path,omitempty"`
	Source string `json:"source,omitempty"`
	Units  []Unit `json:"units"`
	Facts  Facts  `json:"facts"`
}

// Unit is a method or accessor body.
type Unit struct {
	Method   string `json:"method"`
	Accessor string `json:"accessor,omitempty"`
	Static   bool   `json:"static,omitempty"`
	Kind     string `json:"kind,omitempty"` // Sub, Function or Property
	Result   string `json:"result,omitempty"`
	Span     *Span  `json:"span,omitempty"`
	Body     []Stmt `json:"body"`
}

// Span is a byte range in Document.Source.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Stmt is a statement; Kind selects which fields are read.
type Stmt struct {
	Kind string `json:"kind"`
	Span *Span  `json:"span,omitempty"`

	Expr *Expr `json:"expr,omitempty"` // Expr; value of Return/Throw

	// Local
	Name   string `json:"name,omitempty"`
	Symbol uint32 `json:"symbol,omitempty"`
	Type   string `json:"type,omitempty"`
	Static bool   `json:"static,omitempty"`

	// Assign
	Target *Expr  `json:"target,omitempty"`
	Op     string `json:"op,omitempty"`
	Value  *Expr  `json:"value,omitempty"` // also the Local initializer

	// If, While, Do
	Cond      *Expr    `json:"cond,omitempty"`
	Then      []Stmt   `json:"then,omitempty"`
	ElseIfs   []ElseIf `json:"elseIfs,omitempty"`
	Else      []Stmt   `json:"else,omitempty"`
	CondAtEnd bool     `json:"condAtEnd,omitempty"`
	Until     bool     `json:"until,omitempty"`
	Body      []Stmt   `json:"body,omitempty"`

	// For, ForEach
	Var      *Expr  `json:"var,omitempty"`
	VarType  string `json:"varType,omitempty"`
	Declare  bool   `json:"declare,omitempty"`
	From     *Expr  `json:"from,omitempty"`
	To       *Expr  `json:"to,omitempty"`
	Step     *Expr  `json:"step,omitempty"`
	Iterable *Expr  `json:"iterable,omitempty"`

	// Select
	Selector *Expr  `json:"selector,omitempty"`
	Cases    []Case `json:"cases,omitempty"`

	// Try
	Catches []Catch `json:"catches,omitempty"`
	Finally []Stmt  `json:"finally,omitempty"`

	// With
	Object *Expr `json:"object,omitempty"`

	// Exit, Continue
	Exit string `json:"exit,omitempty"`

	// GoTo, Label, OnError, ReDim: original text
	Text string `json:"text,omitempty"`
}

type ElseIf struct {
	Cond *Expr  `json:"cond"`
	Body []Stmt `json:"body"`
}

type Case struct {
	Values []*Expr `json:"values,omitempty"`
	Else   bool    `json:"else,omitempty"`
	Body   []Stmt  `json:"body"`
	Span   *Span   `json:"span,omitempty"`
}

type Catch struct {
	Name   string `json:"name,omitempty"`
	Symbol uint32 `json:"symbol,omitempty"`
	Type   string `json:"type,omitempty"`
	Body   []Stmt `json:"body"`
}

// Expr is an expression. ID links it to entries in Facts; expressions without
// one get a fresh ID when the document is built.
type Expr struct {
	Kind string `json:"kind"`
	ID   uint32 `json:"id,omitempty"`
	Span *Span  `json:"span,omitempty"`

	// Ident, Member
	Name   string `json:"name,omitempty"`
	Symbol uint32 `json:"symbol,omitempty"`

	// Literal: int, float, string, bool, nothing
	Lit  string `json:"lit,omitempty"`
	Text string `json:"text,omitempty"`

	// Binary, Unary
	Op      string `json:"op,omitempty"`
	Left    *Expr  `json:"left,omitempty"`
	Right   *Expr  `json:"right,omitempty"`
	Operand *Expr  `json:"operand,omitempty"`

	// Call, Index, Member
	Callee *Expr   `json:"callee,omitempty"`
	Target *Expr   `json:"target,omitempty"`
	Args   []*Expr `json:"args,omitempty"`

	// Lambda
	Params []Param `json:"params,omitempty"`
	Result string  `json:"result,omitempty"`
	Body   []Stmt  `json:"body,omitempty"`

	// Ternary
	Cond *Expr `json:"cond,omitempty"`
	Then *Expr `json:"then,omitempty"`
	Else *Expr `json:"else,omitempty"`
}

type Param struct {
	Name   string `json:"name"`
	Symbol uint32 `json:"symbol,omitempty"`
	Type   string `json:"type,omitempty"`
	ByRef  bool   `json:"byRef,omitempty"`
}

// Facts is the semantic information keyed by expression and symbol IDs.
type Facts struct {
	Types     map[uint32]string `json:"types,omitempty"`
	Constants map[uint32]string `json:"constants,omitempty"`
	Symbols   []Symbol          `json:"symbols,omitempty"`
	Calls     []Call            `json:"calls,omitempty"`
	Visible   []Visible         `json:"visible,omitempty"`
	// Blind marks a front end that cannot list visible names.
	Blind bool `json:"blind,omitempty"`
}

type Symbol struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
	Type string `json:"type,omitempty"`
}

// Call lists the parameters of the method a call expression invokes.
type Call struct {
	Expr   uint32  `json:"expr"`
	Params []Param `json:"params"`
}

type Visible struct {
	Span  Span     `json:"span"`
	Names []string `json:"names"`
}
