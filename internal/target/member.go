package target

// Field is a type-level member produced by hoisting to the outermost scope.
type Field struct {
	Name   string
	Type   string
	Init   *Expr
	Static bool
}
