package target

// Visitor receives every statement and identifier reachable from a tree.
// Either callback may be nil.
type Visitor struct {
	Stmt  func(*Stmt)
	Ident func(*Ident)
}

// Walk visits stmts depth-first in source order.
func Walk(stmts []*Stmt, v Visitor) {
	for _, st := range stmts {
		v.stmt(st)
	}
}

// ForEachIdent calls fn for every identifier node in stmts.
func ForEachIdent(stmts []*Stmt, fn func(*Ident)) {
	Walk(stmts, Visitor{Ident: fn})
}

// ForEachStmt calls fn for every statement in stmts, nested ones included.
func ForEachStmt(stmts []*Stmt, fn func(*Stmt)) {
	Walk(stmts, Visitor{Stmt: fn})
}

func (v Visitor) ident(id *Ident) {
	if id != nil && v.Ident != nil {
		v.Ident(id)
	}
}

func (v Visitor) block(b *Block) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		v.stmt(st)
	}
}

func (v Visitor) stmt(st *Stmt) {
	if st == nil {
		return
	}
	if v.Stmt != nil {
		v.Stmt(st)
	}
	switch data := st.Data.(type) {
	case LocalData:
		v.ident(data.Name)
		v.expr(data.Init)
	case ExprStmtData:
		v.expr(data.Expr)
	case AssignData:
		v.expr(data.Target)
		v.expr(data.Value)
	case IfData:
		v.expr(data.Cond)
		v.block(data.Then)
		v.block(data.Else)
	case LoopData:
		v.expr(data.Cond)
		v.block(data.Body)
	case ForData:
		v.stmt(data.Init)
		v.expr(data.Cond)
		v.stmt(data.Post)
		v.block(data.Body)
	case ForEachData:
		v.ident(data.Var)
		v.expr(data.Iter)
		v.block(data.Body)
	case TryData:
		v.block(data.Body)
		for _, c := range data.Catches {
			v.ident(c.Name)
			v.block(c.Body)
		}
		v.block(data.Finally)
	case ValueData:
		v.expr(data.Value)
	case BlockData:
		v.block(data.Block)
	case FuncData:
		v.ident(data.Name)
		for _, p := range data.Params {
			v.ident(p.Name)
		}
		v.block(data.Body)
	}
}

func (v Visitor) expr(e *Expr) {
	if e == nil {
		return
	}
	switch data := e.Data.(type) {
	case IdentData:
		v.ident(data.Ident)
	case BinaryData:
		v.expr(data.Left)
		v.expr(data.Right)
	case UnaryData:
		v.expr(data.Operand)
	case CallData:
		v.expr(data.Callee)
		for _, a := range data.Args {
			v.expr(a.Value)
		}
	case IndexData:
		v.expr(data.Target)
		for _, a := range data.Args {
			v.expr(a)
		}
	case MemberData:
		v.expr(data.Target)
	case LambdaData:
		for _, p := range data.Params {
			v.ident(p.Name)
		}
		v.block(data.Body)
	case ConditionalData:
		v.expr(data.Cond)
		v.expr(data.Then)
		v.expr(data.Else)
	}
}

// Placeholders returns the distinct placeholder tokens still present in stmts.
func Placeholders(stmts []*Stmt) []Placeholder {
	var out []Placeholder
	seen := make(map[Placeholder]bool)
	ForEachIdent(stmts, func(id *Ident) {
		if id.IsPlaceholder() && !seen[id.Placeholder] {
			seen[id.Placeholder] = true
			out = append(out, id.Placeholder)
		}
	})
	return out
}

// Rename replaces every identifier whose token appears in names with its final
// spelling and clears the token. Identifiers without a token are never touched.
func Rename(stmts []*Stmt, names map[Placeholder]string) {
	if len(names) == 0 {
		return
	}
	ForEachIdent(stmts, func(id *Ident) {
		if !id.IsPlaceholder() {
			return
		}
		if final, ok := names[id.Placeholder]; ok {
			id.Name = final
			id.Placeholder = NoPlaceholder
		}
	})
}
