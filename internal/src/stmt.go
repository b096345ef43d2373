package src

import "treeconv/internal/source"

// StmtKind enumerates source statement kinds.
type StmtKind uint8

const (
	// StmtExpr represents an expression statement (usually a call).
	StmtExpr StmtKind = iota
	// StmtLocal represents a Dim/Static local declaration.
	StmtLocal
	// StmtAssign represents assignment, possibly compound (x += 1).
	StmtAssign
	// StmtIf represents If/ElseIf/Else.
	StmtIf
	// StmtWhile represents While ... End While.
	StmtWhile
	// StmtDo represents Do ... Loop with an optional While/Until condition.
	StmtDo
	// StmtFor represents For v = a To b [Step s].
	StmtFor
	// StmtForEach represents For Each v In xs.
	StmtForEach
	// StmtSelect represents Select Case.
	StmtSelect
	// StmtTry represents Try/Catch/Finally.
	StmtTry
	// StmtWith represents With obj ... End With.
	StmtWith
	// StmtExit represents Exit <kind>.
	StmtExit
	// StmtContinue represents Continue <kind>.
	StmtContinue
	// StmtReturn represents Return [expr].
	StmtReturn
	// StmtThrow represents Throw [expr].
	StmtThrow
	// StmtBlock represents a nested statement list.
	StmtBlock
	// StmtGoTo represents GoTo label. No conversion rule exists for it.
	StmtGoTo
	// StmtLabel represents a label definition. No conversion rule exists for it.
	StmtLabel
	// StmtOnError represents On Error ... No conversion rule exists for it.
	StmtOnError
	// StmtReDim represents ReDim [Preserve]. No conversion rule exists for it.
	StmtReDim
)

var stmtKindNames = [...]string{
	StmtExpr:     "Expr",
	StmtLocal:    "Local",
	StmtAssign:   "Assign",
	StmtIf:       "If",
	StmtWhile:    "While",
	StmtDo:       "Do",
	StmtFor:      "For",
	StmtForEach:  "ForEach",
	StmtSelect:   "Select",
	StmtTry:      "Try",
	StmtWith:     "With",
	StmtExit:     "Exit",
	StmtContinue: "Continue",
	StmtReturn:   "Return",
	StmtThrow:    "Throw",
	StmtBlock:    "Block",
	StmtGoTo:     "GoTo",
	StmtLabel:    "Label",
	StmtOnError:  "OnError",
	StmtReDim:    "ReDim",
}

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// ParseStmtKind maps a kind name back to StmtKind.
func ParseStmtKind(s string) (StmtKind, bool) {
	for i, name := range stmtKindNames {
		if name == s {
			return StmtKind(i), true
		}
	}
	return 0, false
}

// Stmt represents a source statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData // Kind-specific payload
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// Block is an ordered statement list.
type Block struct {
	Stmts []*Stmt
	Span  source.Span
}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// LocalData holds data for StmtLocal.
type LocalData struct {
	Name     string
	SymbolID SymbolID
	Type     string // declared type name, empty when inferred
	Value    *Expr  // nil if none
	IsStatic bool   // Static: value persists across calls
}

func (LocalData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Target *Expr
	Op     string // "" for plain assignment, otherwise the binary operator ("+", "&", ...)
	Value  *Expr
}

func (AssignData) stmtData() {}

// ElseIf is one ElseIf arm.
type ElseIf struct {
	Cond *Expr
	Body *Block
}

// IfData holds data for StmtIf.
type IfData struct {
	Cond    *Expr
	Then    *Block
	ElseIfs []ElseIf
	Else    *Block // nil if no else branch
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body *Block
}

func (WhileData) stmtData() {}

// DoData holds data for StmtDo.
type DoData struct {
	Cond      *Expr // nil for an unconditional loop
	CondAtEnd bool  // Loop While/Until rather than Do While/Until
	Until     bool  // Until negates the condition
	Body      *Block
}

func (DoData) stmtData() {}

// ForData holds data for StmtFor.
type ForData struct {
	Var     *Expr // control variable (usually an Ident)
	VarType string
	Declare bool // For v As T = ... declares the variable
	From    *Expr
	To      *Expr
	Step    *Expr // nil means 1
	Body    *Block
}

func (ForData) stmtData() {}

// ForEachData holds data for StmtForEach.
type ForEachData struct {
	Var      *Expr
	VarType  string
	Iterable *Expr
	Body     *Block
}

func (ForEachData) stmtData() {}

// Case is one Case arm of a Select.
type Case struct {
	Values []*Expr // empty with IsElse for Case Else
	IsElse bool
	Body   *Block
	Span   source.Span
}

// SelectData holds data for StmtSelect.
type SelectData struct {
	Selector *Expr
	Cases    []Case
}

func (SelectData) stmtData() {}

// Catch is one Catch clause.
type Catch struct {
	Name     string // empty when the exception is not bound
	SymbolID SymbolID
	Type     string
	Body     *Block
}

// TryData holds data for StmtTry.
type TryData struct {
	Body    *Block
	Catches []Catch
	Finally *Block // nil if none
}

func (TryData) stmtData() {}

// WithData holds data for StmtWith.
type WithData struct {
	Object *Expr
	Body   *Block
}

func (WithData) stmtData() {}

// ExitData holds data for StmtExit and StmtContinue.
type ExitData struct {
	Kind ExitKind
}

func (ExitData) stmtData() {}

// ReturnData holds data for StmtReturn and StmtThrow.
type ReturnData struct {
	Value *Expr // nil for bare return / rethrow
}

func (ReturnData) stmtData() {}

// BlockData holds data for StmtBlock.
type BlockData struct {
	Block *Block
}

func (BlockData) stmtData() {}

// RawData carries the original text of statements the converter has no rule for.
type RawData struct {
	Text string
}

func (RawData) stmtData() {}
