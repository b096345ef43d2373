package fixture

import (
	"fmt"

	"treeconv/internal/convert"
	"treeconv/internal/driver"
	"treeconv/internal/facts"
	"treeconv/internal/source"
	"treeconv/internal/src"
)

// Build lowers a decoded document into converter input. The document source
// is registered with files so spans resolve to lines; files may be nil.
func Build(doc *Document, files *source.FileSet) (*driver.Document, *facts.Table, error) {
	if files == nil {
		files = source.NewFileSet()
	}
	b := &builder{
		file: Register(doc, files),
		next: src.ExprID(maxExprID(doc)),
	}

	out := &driver.Document{Name: doc.Name, Units: make([]driver.Unit, 0, len(doc.Units))}
	for i := range doc.Units {
		u, err := b.unit(&doc.Units[i], fmt.Sprintf("units[%d]", i))
		if err != nil {
			return nil, nil, err
		}
		out.Units = append(out.Units, u)
	}
	tab, err := b.facts(&doc.Facts)
	if err != nil {
		return nil, nil, err
	}
	return out, tab, nil
}

// Register adds the document source to files under its path, or its name
// when it has none.
func Register(doc *Document, files *source.FileSet) source.FileID {
	name := doc.Path
	if name == "" {
		name = doc.Name
	}
	return files.Add(name, []byte(doc.Source))
}

type builder struct {
	file source.FileID
	next src.ExprID // last ExprID in use
}

func (b *builder) span(s *Span, at string) (source.Span, error) {
	if s == nil {
		return source.Span{}, nil
	}
	sp, err := source.SpanFromOffsets(b.file, s.Start, s.End)
	if err != nil {
		return source.Span{}, fmt.Errorf("%s: %w", at, err)
	}
	return sp, nil
}

func (b *builder) unit(u *Unit, at string) (driver.Unit, error) {
	kind := src.ExitSub
	if u.Kind != "" {
		kind = src.ParseExitKind(u.Kind)
		if !kind.LeavesMethod() {
			return driver.Unit{}, fmt.Errorf("%s: unit kind %q is not Sub, Function or Property", at, u.Kind)
		}
	}
	if u.Method == "" {
		return driver.Unit{}, fmt.Errorf("%s: missing method name", at)
	}
	sp, err := b.span(u.Span, at)
	if err != nil {
		return driver.Unit{}, err
	}
	body, err := b.block(u.Body, at+".body")
	if err != nil {
		return driver.Unit{}, err
	}
	return driver.Unit{
		Unit: convert.Unit{
			Method:   u.Method,
			Accessor: u.Accessor,
			Static:   u.Static,
			Kind:     kind,
			Result:   u.Result,
			Span:     sp,
		},
		Body: body,
	}, nil
}

func (b *builder) block(list []Stmt, at string) (*src.Block, error) {
	stmts := make([]*src.Stmt, 0, len(list))
	for i := range list {
		st, err := b.stmt(&list[i], fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	blk := src.NewBlock(stmts...)
	return blk, nil
}

func (b *builder) optBlock(list []Stmt, at string) (*src.Block, error) {
	if list == nil {
		return nil, nil
	}
	return b.block(list, at)
}

// required converts a mandatory sub-expression.
func (b *builder) required(e *Expr, at, field string) (*src.Expr, error) {
	if e == nil {
		return nil, fmt.Errorf("%s: missing %s", at, field)
	}
	return b.expr(e, at+"."+field)
}

func (b *builder) stmt(s *Stmt, at string) (*src.Stmt, error) {
	kind, ok := src.ParseStmtKind(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: unknown statement kind %q", at, s.Kind)
	}
	sp, err := b.span(s.Span, at)
	if err != nil {
		return nil, err
	}
	data, err := b.stmtData(kind, s, at)
	if err != nil {
		return nil, err
	}
	return src.NewStmt(kind, sp, data), nil
}

func (b *builder) stmtData(kind src.StmtKind, s *Stmt, at string) (src.StmtData, error) {
	var err error
	switch kind {
	case src.StmtExpr:
		e, err := b.required(s.Expr, at, "expr")
		return src.ExprStmtData{Expr: e}, err

	case src.StmtLocal:
		if s.Name == "" {
			return nil, fmt.Errorf("%s: missing name", at)
		}
		v, err := b.expr(s.Value, at+".value")
		return src.LocalData{Name: s.Name, SymbolID: src.SymbolID(s.Symbol), Type: s.Type, Value: v, IsStatic: s.Static}, err

	case src.StmtAssign:
		t, err := b.required(s.Target, at, "target")
		if err != nil {
			return nil, err
		}
		v, err := b.required(s.Value, at, "value")
		return src.AssignData{Target: t, Op: s.Op, Value: v}, err

	case src.StmtIf:
		cond, err := b.required(s.Cond, at, "cond")
		if err != nil {
			return nil, err
		}
		then, err := b.block(s.Then, at+".then")
		if err != nil {
			return nil, err
		}
		data := src.IfData{Cond: cond, Then: then}
		for i := range s.ElseIfs {
			arm := &s.ElseIfs[i]
			armAt := fmt.Sprintf("%s.elseIfs[%d]", at, i)
			c, err := b.required(arm.Cond, armAt, "cond")
			if err != nil {
				return nil, err
			}
			body, err := b.block(arm.Body, armAt+".body")
			if err != nil {
				return nil, err
			}
			data.ElseIfs = append(data.ElseIfs, src.ElseIf{Cond: c, Body: body})
		}
		data.Else, err = b.optBlock(s.Else, at+".else")
		return data, err

	case src.StmtWhile:
		cond, err := b.required(s.Cond, at, "cond")
		if err != nil {
			return nil, err
		}
		body, err := b.block(s.Body, at+".body")
		return src.WhileData{Cond: cond, Body: body}, err

	case src.StmtDo:
		cond, err := b.expr(s.Cond, at+".cond")
		if err != nil {
			return nil, err
		}
		body, err := b.block(s.Body, at+".body")
		return src.DoData{Cond: cond, CondAtEnd: s.CondAtEnd, Until: s.Until, Body: body}, err

	case src.StmtFor:
		data := src.ForData{VarType: s.VarType, Declare: s.Declare}
		if data.Var, err = b.required(s.Var, at, "var"); err != nil {
			return nil, err
		}
		if data.From, err = b.required(s.From, at, "from"); err != nil {
			return nil, err
		}
		if data.To, err = b.required(s.To, at, "to"); err != nil {
			return nil, err
		}
		if data.Step, err = b.expr(s.Step, at+".step"); err != nil {
			return nil, err
		}
		data.Body, err = b.block(s.Body, at+".body")
		return data, err

	case src.StmtForEach:
		data := src.ForEachData{VarType: s.VarType}
		if data.Var, err = b.required(s.Var, at, "var"); err != nil {
			return nil, err
		}
		if data.Iterable, err = b.required(s.Iterable, at, "iterable"); err != nil {
			return nil, err
		}
		data.Body, err = b.block(s.Body, at+".body")
		return data, err

	case src.StmtSelect:
		sel, err := b.required(s.Selector, at, "selector")
		if err != nil {
			return nil, err
		}
		data := src.SelectData{Selector: sel}
		for i := range s.Cases {
			cs, err := b.caseArm(&s.Cases[i], fmt.Sprintf("%s.cases[%d]", at, i))
			if err != nil {
				return nil, err
			}
			data.Cases = append(data.Cases, cs)
		}
		return data, nil

	case src.StmtTry:
		body, err := b.block(s.Body, at+".body")
		if err != nil {
			return nil, err
		}
		data := src.TryData{Body: body}
		for i := range s.Catches {
			cl := &s.Catches[i]
			cb, err := b.block(cl.Body, fmt.Sprintf("%s.catches[%d].body", at, i))
			if err != nil {
				return nil, err
			}
			data.Catches = append(data.Catches, src.Catch{Name: cl.Name, SymbolID: src.SymbolID(cl.Symbol), Type: cl.Type, Body: cb})
		}
		data.Finally, err = b.optBlock(s.Finally, at+".finally")
		return data, err

	case src.StmtWith:
		obj, err := b.required(s.Object, at, "object")
		if err != nil {
			return nil, err
		}
		body, err := b.block(s.Body, at+".body")
		return src.WithData{Object: obj, Body: body}, err

	case src.StmtExit, src.StmtContinue:
		k := src.ParseExitKind(s.Exit)
		if k == src.ExitNone {
			return nil, fmt.Errorf("%s: unknown exit kind %q", at, s.Exit)
		}
		return src.ExitData{Kind: k}, nil

	case src.StmtReturn, src.StmtThrow:
		v, err := b.expr(s.Expr, at+".expr")
		return src.ReturnData{Value: v}, err

	case src.StmtBlock:
		body, err := b.block(s.Body, at+".body")
		return src.BlockData{Block: body}, err

	default:
		return src.RawData{Text: s.Text}, nil
	}
}

func (b *builder) caseArm(c *Case, at string) (src.Case, error) {
	sp, err := b.span(c.Span, at)
	if err != nil {
		return src.Case{}, err
	}
	out := src.Case{IsElse: c.Else, Span: sp}
	for i, v := range c.Values {
		x, err := b.required(v, at, fmt.Sprintf("values[%d]", i))
		if err != nil {
			return src.Case{}, err
		}
		out.Values = append(out.Values, x)
	}
	out.Body, err = b.block(c.Body, at+".body")
	return out, err
}

var literalKinds = map[string]src.LiteralKind{
	"int":     src.LiteralInt,
	"float":   src.LiteralFloat,
	"string":  src.LiteralString,
	"bool":    src.LiteralBool,
	"nothing": src.LiteralNothing,
}

func (b *builder) expr(e *Expr, at string) (*src.Expr, error) {
	if e == nil {
		return nil, nil
	}
	kind, ok := src.ParseExprKind(e.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: unknown expression kind %q", at, e.Kind)
	}
	sp, err := b.span(e.Span, at)
	if err != nil {
		return nil, err
	}
	id := src.ExprID(e.ID)
	if !id.IsValid() {
		b.next++
		id = b.next
	}
	data, err := b.exprData(kind, e, at)
	if err != nil {
		return nil, err
	}
	return &src.Expr{Kind: kind, ID: id, Span: sp, Data: data}, nil
}

func (b *builder) exprs(list []*Expr, at string) ([]*src.Expr, error) {
	out := make([]*src.Expr, 0, len(list))
	for i, e := range list {
		x, err := b.required(e, at, fmt.Sprintf("args[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (b *builder) exprData(kind src.ExprKind, e *Expr, at string) (src.ExprData, error) {
	var err error
	switch kind {
	case src.ExprIdent:
		if e.Name == "" {
			return nil, fmt.Errorf("%s: missing name", at)
		}
		return src.IdentData{Name: e.Name, SymbolID: src.SymbolID(e.Symbol)}, nil

	case src.ExprLiteral:
		lk, ok := literalKinds[e.Lit]
		if !ok {
			return nil, fmt.Errorf("%s: unknown literal kind %q", at, e.Lit)
		}
		return src.LiteralData{Kind: lk, Text: e.Text}, nil

	case src.ExprBinary:
		data := src.BinaryData{Op: e.Op}
		if data.Left, err = b.required(e.Left, at, "left"); err != nil {
			return nil, err
		}
		data.Right, err = b.required(e.Right, at, "right")
		return data, err

	case src.ExprUnary:
		x, err := b.required(e.Operand, at, "operand")
		return src.UnaryData{Op: e.Op, Operand: x}, err

	case src.ExprCall:
		callee, err := b.required(e.Callee, at, "callee")
		if err != nil {
			return nil, err
		}
		args, err := b.exprs(e.Args, at)
		return src.CallData{Callee: callee, Args: args}, err

	case src.ExprIndex:
		t, err := b.required(e.Target, at, "target")
		if err != nil {
			return nil, err
		}
		args, err := b.exprs(e.Args, at)
		return src.IndexData{Target: t, Args: args, SymbolID: src.SymbolID(e.Symbol)}, err

	case src.ExprMember:
		t, err := b.expr(e.Target, at+".target")
		return src.MemberData{Target: t, Name: e.Name, SymbolID: src.SymbolID(e.Symbol)}, err

	case src.ExprMe:
		return src.MeData{}, nil

	case src.ExprLambda:
		params := make([]src.Param, 0, len(e.Params))
		for _, p := range e.Params {
			params = append(params, src.Param{Name: p.Name, SymbolID: src.SymbolID(p.Symbol), Type: p.Type, ByRef: p.ByRef})
		}
		body, err := b.block(e.Body, at+".body")
		return src.LambdaData{Params: params, Result: e.Result, Body: body}, err

	case src.ExprTernary:
		data := src.TernaryData{}
		if data.Cond, err = b.required(e.Cond, at, "cond"); err != nil {
			return nil, err
		}
		if data.Then, err = b.required(e.Then, at, "then"); err != nil {
			return nil, err
		}
		data.Else, err = b.required(e.Else, at, "else")
		return data, err
	}
	return nil, fmt.Errorf("%s: unhandled expression kind %s", at, kind)
}

func (b *builder) facts(f *Facts) (*facts.Table, error) {
	tab := facts.NewTable()
	tab.Blind = f.Blind
	for id, t := range f.Types {
		tab.Types[src.ExprID(id)] = t
	}
	for id, c := range f.Constants {
		tab.Constants[src.ExprID(id)] = facts.Constant{Text: c}
	}
	for i, s := range f.Symbols {
		kind, ok := facts.ParseSymbolKind(s.Kind)
		if !ok {
			return nil, fmt.Errorf("facts.symbols[%d]: unknown symbol kind %q", i, s.Kind)
		}
		tab.Declare(src.SymbolID(s.ID), s.Name, kind, s.Type)
	}
	for _, c := range f.Calls {
		params := make([]facts.Param, 0, len(c.Params))
		for _, p := range c.Params {
			params = append(params, facts.Param{Name: p.Name, Type: p.Type, ByRef: p.ByRef})
		}
		tab.CallParams[src.ExprID(c.Expr)] = params
	}
	for i, v := range f.Visible {
		sp, err := b.span(&v.Span, fmt.Sprintf("facts.visible[%d]", i))
		if err != nil {
			return nil, err
		}
		tab.AddVisible(sp, v.Names...)
	}
	return tab, nil
}

// maxExprID returns the largest expression ID the document assigns itself.
func maxExprID(doc *Document) uint32 {
	var top uint32
	var stmts func([]Stmt)
	var expr func(*Expr)
	expr = func(e *Expr) {
		if e == nil {
			return
		}
		top = max(top, e.ID)
		for _, x := range []*Expr{e.Left, e.Right, e.Operand, e.Callee, e.Target, e.Cond, e.Then, e.Else} {
			expr(x)
		}
		for _, a := range e.Args {
			expr(a)
		}
		stmts(e.Body)
	}
	stmts = func(list []Stmt) {
		for i := range list {
			s := &list[i]
			for _, x := range []*Expr{s.Expr, s.Target, s.Value, s.Cond, s.Var, s.From, s.To, s.Step, s.Iterable, s.Selector, s.Object} {
				expr(x)
			}
			stmts(s.Then)
			stmts(s.Else)
			stmts(s.Body)
			stmts(s.Finally)
			for _, arm := range s.ElseIfs {
				expr(arm.Cond)
				stmts(arm.Body)
			}
			for _, cs := range s.Cases {
				for _, v := range cs.Values {
					expr(v)
				}
				stmts(cs.Body)
			}
			for _, cl := range s.Catches {
				stmts(cl.Body)
			}
		}
	}
	for i := range doc.Units {
		stmts(doc.Units[i].Body)
	}
	return top
}
