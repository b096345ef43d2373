package convert

import (
	"strings"

	"treeconv/internal/facts"
	"treeconv/internal/hoist"
	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

// dispatch converts one statement. Hoists land in the scope convertStmt
// opened for st.
func (c *Converter) dispatch(st *src.Stmt) ([]*target.Stmt, error) {
	switch st.Kind {
	case src.StmtExpr:
		x, err := c.expr(st.Data.(src.ExprStmtData).Expr)
		if err != nil {
			return nil, err
		}
		return []*target.Stmt{target.ExprStatement(x)}, nil

	case src.StmtLocal:
		return c.local(st, st.Data.(src.LocalData))

	case src.StmtAssign:
		data := st.Data.(src.AssignData)
		lhs, err := c.expr(data.Target)
		if err != nil {
			return nil, err
		}
		rhs, err := c.settled(data.Value, "value", "")
		if err != nil {
			return nil, err
		}
		return []*target.Stmt{target.CompoundAssign(compoundOp(data.Op), lhs, rhs)}, nil

	case src.StmtIf:
		return c.ifStmt(st, st.Data.(src.IfData))

	case src.StmtWhile:
		data := st.Data.(src.WhileData)
		return c.whileLoop(st.Span, data.Cond, false, data.Body)

	case src.StmtDo:
		return c.doLoop(st, st.Data.(src.DoData))

	case src.StmtFor:
		return c.forLoop(st.Data.(src.ForData))

	case src.StmtForEach:
		return c.forEach(st, st.Data.(src.ForEachData))

	case src.StmtSelect:
		return c.selectCase(st.Data.(src.SelectData))

	case src.StmtTry:
		data := st.Data.(src.TryData)
		body := c.convertBlock(data.Body)
		catches := make([]target.Catch, 0, len(data.Catches))
		for _, cl := range data.Catches {
			tc := target.Catch{Type: mapType(cl.Type), Body: c.convertBlock(cl.Body)}
			if cl.Name != "" {
				tc.Name = target.NewIdent(cl.Name)
			}
			catches = append(catches, tc)
		}
		var finally *target.Block
		if data.Finally != nil {
			finally = c.convertBlock(data.Finally)
		}
		return []*target.Stmt{target.Try(body, catches, finally)}, nil

	case src.StmtWith:
		return c.withBlock(st.Data.(src.WithData))

	case src.StmtExit:
		kind := st.Data.(src.ExitData).Kind
		if kind.LeavesMethod() {
			return []*target.Stmt{c.methodExit()}, nil
		}
		stmts, _, err := c.stack.Exit(kind, hoist.ModeBreak)
		return stmts, err

	case src.StmtContinue:
		stmts, _, err := c.stack.Exit(st.Data.(src.ExitData).Kind, hoist.ModeContinue)
		return stmts, err

	case src.StmtReturn, src.StmtThrow:
		var value *target.Expr
		if v := st.Data.(src.ReturnData).Value; v != nil {
			// Nothing after the statement runs, so write-backs go first.
			x, err := c.settled(v, "ret", "")
			if err != nil {
				return nil, err
			}
			value = x
		}
		if st.Kind == src.StmtThrow {
			return []*target.Stmt{target.Throw(value)}, nil
		}
		return []*target.Stmt{target.Return(value)}, nil

	case src.StmtBlock:
		return []*target.Stmt{target.BlockStmt(c.convertBlock(st.Data.(src.BlockData).Block))}, nil

	case src.StmtGoTo, src.StmtLabel, src.StmtOnError, src.StmtReDim:
		return nil, unsupported(st.Span, st.Kind.String(), "")
	}
	return nil, unsupported(st.Span, st.Kind.String(), "unknown statement kind")
}

func (c *Converter) local(st *src.Stmt, data src.LocalData) ([]*target.Stmt, error) {
	sym, _ := c.facts.Symbol(data.SymbolID)
	typ := mapType(data.Type)
	if typ == "" {
		typ = mapType(sym.Type)
	}
	if data.IsStatic || sym.Kind == facts.SymStaticLocal {
		return nil, c.staticLocal(st, data, typ)
	}

	var init *target.Expr
	if data.Value != nil {
		x, err := c.expr(data.Value)
		if err != nil {
			return nil, err
		}
		init = x
	} else {
		if typ == "" {
			typ = "object"
		}
		init = defaultValue(typ)
	}
	c.stack.Names().Reserve(data.Name)
	return []*target.Stmt{target.Local(target.NewIdent(data.Name), typ, init)}, nil
}

// staticLocal promotes a local that keeps its value across calls to a field
// of the enclosing type; references to it resolve to the field.
func (c *Converter) staticLocal(st *src.Stmt, data src.LocalData, typ string) error {
	if c.lambdaDepth > 0 {
		return unsupported(st.Span, "Static local "+data.Name, "not allowed inside a lambda")
	}
	if _, dup := c.stack.StaticFieldFor(c.unit.Method, c.unit.Accessor, data.Name); dup {
		return unsupported(st.Span, "Static local "+data.Name, "declared twice in one method")
	}
	var init *target.Expr
	if data.Value != nil {
		sc := c.stack.Innermost()
		before := sc.Len()
		x, err := c.expr(data.Value)
		if err != nil {
			return err
		}
		if sc.Len() != before {
			return unsupported(st.Span, "Static local "+data.Name, "initializer needs temporaries")
		}
		init = x
	}
	if typ == "" {
		typ = "object"
	}
	f := hoist.HoistToOutermost(c.stack, &hoist.StaticField{
		Method:   c.unit.Method,
		Accessor: c.unit.Accessor,
		Var:      data.Name,
		Init:     init,
		Type:     typ,
		Static:   c.unit.Static,
	})
	if data.SymbolID.IsValid() {
		c.statics[data.SymbolID] = f.FieldName()
	} else {
		c.staticNames[strings.ToLower(data.Name)] = f.FieldName()
	}
	return nil
}

func (c *Converter) methodExit() *target.Stmt {
	if c.lambdaDepth == 0 && c.unit.Result != "" {
		return target.Return(target.Name(c.unit.Result))
	}
	return target.Return(nil)
}

func (c *Converter) ifStmt(st *src.Stmt, data src.IfData) ([]*target.Stmt, error) {
	cond, err := c.settled(data.Cond, "condition", "bool")
	if err != nil {
		return nil, err
	}
	then := c.convertBlock(data.Then)
	els, err := c.elseChain(st.Span, data.ElseIfs, data.Else)
	if err != nil {
		return nil, err
	}
	return []*target.Stmt{target.If(cond, then, els)}, nil
}

// elseChain nests ElseIf arms. Each arm gets its own scope so temporaries of
// its condition are evaluated only when the earlier conditions failed.
func (c *Converter) elseChain(sp source.Span, arms []src.ElseIf, final *src.Block) (*target.Block, error) {
	if len(arms) == 0 {
		if final == nil {
			return nil, nil
		}
		return c.convertBlock(final), nil
	}
	arm := arms[0]
	if arm.Body != nil && !arm.Body.Span.Empty() {
		sp = arm.Body.Span
	}
	stmts, err := c.scoped(hoist.ScopeOptions{Span: sp}, func() ([]*target.Stmt, error) {
		cond, err := c.settled(arm.Cond, "condition", "bool")
		if err != nil {
			return nil, err
		}
		then := c.convertBlock(arm.Body)
		els, err := c.elseChain(sp, arms[1:], final)
		if err != nil {
			return nil, err
		}
		return []*target.Stmt{target.If(cond, then, els)}, nil
	})
	if err != nil {
		return nil, err
	}
	return target.NewBlock(stmts...), nil
}

// loopGuard converts a loop condition that must be re-evaluated on every
// iteration. When the condition needs temporaries, guard holds them followed
// by "if (!condition) break;" and cond is nil.
func (c *Converter) loopGuard(sp source.Span, e *src.Expr, negate bool) (guard []*target.Stmt, cond *target.Expr, err error) {
	guard, err = c.scoped(hoist.ScopeOptions{Span: sp}, func() ([]*target.Stmt, error) {
		sc := c.stack.Innermost()
		x, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		if negate {
			x = target.Unary("!", x)
		}
		if sc.Len() == 0 {
			cond = x
			return nil, nil
		}
		flag := hoist.Hoist(c.stack, hoist.NewDeclaration("condition", x, "bool"))
		hoist.Hoist(c.stack, &hoist.Statement{
			Stmt: target.If(target.Unary("!", flag.Ref()), target.NewBlock(target.Break()), nil),
			Post: true,
		})
		return nil, nil
	})
	if err != nil || cond != nil {
		return nil, cond, err
	}
	return guard, nil, nil
}

func (c *Converter) whileLoop(sp source.Span, e *src.Expr, negate bool, body *src.Block) ([]*target.Stmt, error) {
	guard, cond, err := c.loopGuard(sp, e, negate)
	if err != nil {
		return nil, err
	}
	tb := c.convertBlock(body)
	if cond != nil {
		return []*target.Stmt{target.While(cond, tb)}, nil
	}
	tb.Stmts = append(guard, tb.Stmts...)
	return []*target.Stmt{target.While(target.True(), tb)}, nil
}

func (c *Converter) doLoop(st *src.Stmt, data src.DoData) ([]*target.Stmt, error) {
	if data.Cond == nil {
		return []*target.Stmt{target.While(target.True(), c.convertBlock(data.Body))}, nil
	}
	if !data.CondAtEnd {
		return c.whileLoop(st.Span, data.Cond, data.Until, data.Body)
	}
	tb := c.convertBlock(data.Body)
	guard, cond, err := c.loopGuard(st.Span, data.Cond, data.Until)
	if err != nil {
		return nil, err
	}
	if cond != nil {
		return []*target.Stmt{target.DoWhile(tb, cond)}, nil
	}
	// The guard runs at the top of every pass but the first, so Continue Do
	// re-checks the condition as well.
	first := hoist.Hoist(c.stack, hoist.NewDeclaration("firstPass", target.True(), "bool"))
	head := []*target.Stmt{
		target.If(target.Unary("!", first.Ref()), target.NewBlock(guard...), nil),
		target.Assign(first.Ref(), target.False()),
	}
	tb.Stmts = append(head, tb.Stmts...)
	return []*target.Stmt{target.While(target.True(), tb)}, nil
}

func (c *Converter) forLoop(data src.ForData) ([]*target.Stmt, error) {
	typ := mapType(data.VarType)
	if typ == "" {
		typ = c.typeName(data.Var)
	}
	from, err := c.settled(data.From, "loopFrom", typ)
	if err != nil {
		return nil, err
	}
	to, _, err := c.evalOnce(data.To, "loopTo", typ)
	if err != nil {
		return nil, err
	}
	var step *target.Expr
	stepVaries, descending := false, false
	if data.Step != nil {
		if text, ok := c.constantText(data.Step); ok {
			descending = strings.HasPrefix(strings.TrimSpace(text), "-")
		}
		step, stepVaries, err = c.evalOnce(data.Step, "loopStep", typ)
		if err != nil {
			return nil, err
		}
	}

	var init *target.Stmt
	if data.Declare {
		id, ok := data.Var.Data.(src.IdentData)
		if !ok {
			return nil, unsupported(data.Var.Span, "For", "declared control variable is not a name")
		}
		c.stack.Names().Reserve(id.Name)
		init = target.Local(target.NewIdent(id.Name), typ, from)
	} else {
		lhs, err := c.expr(data.Var)
		if err != nil {
			return nil, err
		}
		init = target.Assign(lhs, from)
	}

	cmp := func(op string) (*target.Expr, error) {
		lhs, err := c.expr(data.Var)
		if err != nil {
			return nil, err
		}
		return target.Binary(op, lhs, clone(to)), nil
	}
	var cond *target.Expr
	switch {
	case stepVaries:
		up, err := cmp("<=")
		if err != nil {
			return nil, err
		}
		down, err := cmp(">=")
		if err != nil {
			return nil, err
		}
		cond = target.Conditional(target.Binary(">=", clone(step), target.Lit("0")), up, down)
	case descending:
		cond, err = cmp(">=")
	default:
		cond, err = cmp("<=")
	}
	if err != nil {
		return nil, err
	}

	if step == nil {
		step = target.Lit("1")
	}
	lhs, err := c.expr(data.Var)
	if err != nil {
		return nil, err
	}
	post := target.CompoundAssign("+", lhs, step)
	return []*target.Stmt{target.For(init, cond, post, c.convertBlock(data.Body))}, nil
}

func (c *Converter) forEach(st *src.Stmt, data src.ForEachData) ([]*target.Stmt, error) {
	id, ok := data.Var.Data.(src.IdentData)
	if !ok {
		return nil, unsupported(st.Span, "For Each", "control variable is not a name")
	}
	iter, err := c.settled(data.Iterable, "iterable", "")
	if err != nil {
		return nil, err
	}
	c.stack.Names().Reserve(id.Name)
	typ := mapType(data.VarType)
	return []*target.Stmt{target.ForEach(typ, target.NewIdent(id.Name), iter, c.convertBlock(data.Body))}, nil
}

// selectCase lowers Select Case to an if/else-if chain on a selector that is
// evaluated once.
func (c *Converter) selectCase(data src.SelectData) ([]*target.Stmt, error) {
	selector, err := c.stable(data.Selector, "switchExpr")
	if err != nil {
		return nil, err
	}
	out, err := c.caseChain(selector, data.Cases)
	if err != nil {
		return nil, err
	}
	if len(data.Cases) > 0 && data.Cases[0].IsElse && len(out) > 0 {
		return []*target.Stmt{target.BlockStmt(target.NewBlock(out...))}, nil
	}
	return out, nil
}

// caseChain converts cases from the first one on. Later arms get their own
// scope so temporaries of their tests run only when earlier tests failed.
// Arms after Case Else are unreachable and dropped.
func (c *Converter) caseChain(selector func() *target.Expr, cases []src.Case) ([]*target.Stmt, error) {
	if len(cases) == 0 {
		return nil, nil
	}
	cs := cases[0]
	if cs.IsElse {
		return c.convertBlock(cs.Body).Stmts, nil
	}
	mark := c.stack.Innermost().Len()
	var cond *target.Expr
	for _, v := range cs.Values {
		test, err := c.caseTest(selector, v)
		if err != nil {
			return nil, err
		}
		if cond == nil {
			cond = test
		} else {
			cond = target.Binary("||", cond, test)
		}
	}
	if cond == nil {
		return nil, unsupported(cs.Span, "Case", "no values")
	}
	cond = c.stack.Settle(mark, cond, "condition", "bool")
	body := c.convertBlock(cs.Body)

	var els *target.Block
	if len(cases) > 1 {
		rest, err := c.scoped(hoist.ScopeOptions{Span: cases[1].Span}, func() ([]*target.Stmt, error) {
			return c.caseChain(selector, cases[1:])
		})
		if err != nil {
			return nil, err
		}
		if len(rest) > 0 {
			els = target.NewBlock(rest...)
		}
	}
	return []*target.Stmt{target.If(cond, body, els)}, nil
}

// caseTest builds the test of one Case value: equality, or a range for
// "lo To hi".
func (c *Converter) caseTest(selector func() *target.Expr, v *src.Expr) (*target.Expr, error) {
	if bin, ok := v.Data.(src.BinaryData); ok && strings.EqualFold(bin.Op, "To") {
		lo, err := c.expr(bin.Left)
		if err != nil {
			return nil, err
		}
		hi, err := c.expr(bin.Right)
		if err != nil {
			return nil, err
		}
		return target.Binary("&&",
			target.Binary(">=", selector(), lo),
			target.Binary("<=", selector(), hi)), nil
	}
	x, err := c.expr(v)
	if err != nil {
		return nil, err
	}
	return target.Binary("==", selector(), x), nil
}

func (c *Converter) withBlock(data src.WithData) ([]*target.Stmt, error) {
	obj := withObject{expr: data.Object}
	if !c.isPure(data.Object) {
		mark := c.stack.Innermost().Len()
		x, err := c.expr(data.Object)
		if err != nil {
			return nil, err
		}
		decl := hoist.Hoist(c.stack, hoist.NewDeclaration("withBlock", x, c.typeName(data.Object)))
		c.stack.Settle(mark, decl.Ref(), "withBlock", "")
		obj = withObject{decl: decl}
	}
	c.with = append(c.with, obj)
	body := c.convertBlock(data.Body)
	c.with = c.with[:len(c.with)-1]
	return []*target.Stmt{target.BlockStmt(body)}, nil
}
