package convert

import (
	"strings"

	"treeconv/internal/hoist"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

// expr converts one expression. Anything it needs evaluated ahead of the
// enclosing statement is hoisted into the innermost scope.
func (c *Converter) expr(e *src.Expr) (*target.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch data := e.Data.(type) {
	case src.IdentData:
		if field, ok := c.staticField(data); ok {
			return target.Name(field), nil
		}
		return target.Name(data.Name), nil

	case src.LiteralData:
		return convertLiteral(data), nil

	case src.BinaryData:
		if strings.EqualFold(data.Op, "To") {
			return nil, unsupported(e.Span, "range expression", "only valid in a Case clause")
		}
		l, err := c.expr(data.Left)
		if err != nil {
			return nil, err
		}
		var r *target.Expr
		switch data.Op {
		case "AndAlso", "OrElse":
			r, err = c.lazy(data.Right, data.Op)
		default:
			r, err = c.expr(data.Right)
		}
		if err != nil {
			return nil, err
		}
		if data.Op == "^" {
			return target.Call(target.Member(target.Name("Math"), "Pow"), target.Arg{Value: l}, target.Arg{Value: r}), nil
		}
		return target.Binary(binaryOp(data.Op), l, r), nil

	case src.UnaryData:
		x, err := c.expr(data.Operand)
		if err != nil {
			return nil, err
		}
		return target.Unary(unaryOp(data.Op), x), nil

	case src.CallData:
		return c.call(e, data)

	case src.IndexData:
		t, err := c.expr(data.Target)
		if err != nil {
			return nil, err
		}
		args := make([]*target.Expr, 0, len(data.Args))
		for _, a := range data.Args {
			x, err := c.expr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, x)
		}
		return target.Index(t, args...), nil

	case src.MemberData:
		obj, err := c.memberTarget(e, data.Target)
		if err != nil {
			return nil, err
		}
		return target.Member(obj, data.Name), nil

	case src.MeData:
		return target.This(), nil

	case src.LambdaData:
		params, body, err := c.lambdaBody(data)
		if err != nil {
			return nil, err
		}
		return target.Lambda(params, body), nil

	case src.TernaryData:
		cond, err := c.expr(data.Cond)
		if err != nil {
			return nil, err
		}
		then, err := c.lazy(data.Then, "If()")
		if err != nil {
			return nil, err
		}
		els, err := c.lazy(data.Else, "If()")
		if err != nil {
			return nil, err
		}
		return target.Conditional(cond, then, els), nil
	}
	return nil, unsupported(e.Span, e.Kind.String()+" expression", "unknown expression kind")
}

// lazy converts an operand that runs only on some paths. Hoisted temporaries
// would run unconditionally ahead of the statement, so they are refused.
func (c *Converter) lazy(e *src.Expr, what string) (*target.Expr, error) {
	sc := c.stack.Innermost()
	before := sc.Len()
	x, err := c.expr(e)
	if err != nil {
		return nil, err
	}
	for _, n := range sc.Nodes()[before:] {
		if n.Kind() != hoist.KindLocalFunction {
			return nil, unsupported(e.Span, what, "conditionally evaluated operand needs temporaries")
		}
	}
	return x, nil
}

func (c *Converter) staticField(id src.IdentData) (string, bool) {
	if id.SymbolID.IsValid() {
		field, ok := c.statics[id.SymbolID]
		return field, ok
	}
	field, ok := c.staticNames[strings.ToLower(id.Name)]
	return field, ok
}

// memberTarget converts the object of a member access; a missing object binds
// to the innermost With block.
func (c *Converter) memberTarget(e *src.Expr, obj *src.Expr) (*target.Expr, error) {
	if obj != nil {
		return c.expr(obj)
	}
	if len(c.with) == 0 {
		return nil, unsupported(e.Span, "member access without object", "no enclosing With block")
	}
	w := c.with[len(c.with)-1]
	if w.decl != nil {
		return w.decl.Ref(), nil
	}
	return c.expr(w.expr)
}

func (c *Converter) call(e *src.Expr, data src.CallData) (*target.Expr, error) {
	if lam, ok := data.Callee.Data.(src.LambdaData); ok {
		return c.invokeLambda(e, data, lam)
	}
	callee, err := c.expr(data.Callee)
	if err != nil {
		return nil, err
	}
	args, err := c.args(e, data.Args, nil)
	if err != nil {
		return nil, err
	}
	return target.Call(callee, args...), nil
}

// invokeLambda turns an immediately invoked lambda into a local function
// declared ahead of the statement and a call to it.
func (c *Converter) invokeLambda(e *src.Expr, data src.CallData, lam src.LambdaData) (*target.Expr, error) {
	params, body, err := c.lambdaBody(lam)
	if err != nil {
		return nil, err
	}
	fn := hoist.Hoist(c.stack, hoist.NewLocalFunction("localFunc", mapType(lam.Result), params, body))
	args, err := c.args(e, data.Args, lambdaParams(lam))
	if err != nil {
		return nil, err
	}
	return target.Call(fn.Ref(), args...), nil
}

// lambdaBody converts a lambda body inside a function boundary: exits cannot
// leave it and hoists stay inside it.
func (c *Converter) lambdaBody(data src.LambdaData) ([]target.Param, *target.Block, error) {
	params := make([]target.Param, 0, len(data.Params))
	for _, p := range data.Params {
		params = append(params, target.Param{Name: target.NewIdent(p.Name), Type: mapType(p.Type), Ref: p.ByRef})
	}
	kind := src.ExitSub
	if data.Result != "" {
		kind = src.ExitFunction
	}
	opts := hoist.ScopeOptions{Kind: kind, Barrier: true}
	if data.Body != nil {
		opts.Span = data.Body.Span
	}

	c.lambdaDepth++
	defer func() { c.lambdaDepth-- }()
	stmts, err := c.scoped(opts, func() ([]*target.Stmt, error) {
		return c.convertBlock(data.Body).Stmts, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return params, target.NewBlock(stmts...), nil
}

// typeName returns the mapped static type of e, or "" when unknown.
func (c *Converter) typeName(e *src.Expr) string {
	if e == nil {
		return ""
	}
	if t, ok := c.facts.TypeOf(e.ID); ok {
		return mapType(t)
	}
	if id, ok := e.Data.(src.IdentData); ok {
		if sym, ok := c.facts.Symbol(id.SymbolID); ok {
			return mapType(sym.Type)
		}
	}
	return ""
}

// constantText returns the source spelling of a compile-time constant.
func (c *Converter) constantText(e *src.Expr) (string, bool) {
	if k, ok := c.facts.ConstantOf(e.ID); ok {
		return k.Text, true
	}
	switch data := e.Data.(type) {
	case src.LiteralData:
		return data.Text, data.Kind != src.LiteralNothing
	case src.UnaryData:
		if data.Op != "-" && data.Op != "+" {
			return "", false
		}
		if lit, ok := data.Operand.Data.(src.LiteralData); ok && (lit.Kind == src.LiteralInt || lit.Kind == src.LiteralFloat) {
			if data.Op == "-" {
				return "-" + lit.Text, true
			}
			return lit.Text, true
		}
	}
	return "", false
}

// evalOnce converts e for use where the source evaluates it exactly once.
// Non-constant values are hoisted into a declaration; hoisted reports that.
func (c *Converter) evalOnce(e *src.Expr, prefix, typ string) (x *target.Expr, hoisted bool, err error) {
	if _, ok := c.constantText(e); ok {
		x, err = c.expr(e)
		return x, false, err
	}
	mark := c.stack.Innermost().Len()
	x, err = c.expr(e)
	if err != nil {
		return nil, false, err
	}
	if typ == "" {
		typ = c.typeName(e)
	}
	ref := hoist.Hoist(c.stack, hoist.NewDeclaration(prefix, x, typ)).Ref()
	return c.stack.Settle(mark, ref, prefix, typ), true, nil
}

// settled converts a value the statement consumes before its own body runs
// (a condition, a selector, a returned value). By-ref write-backs hoisted
// while converting e are moved in front of the statement so the body sees
// the updated storage.
func (c *Converter) settled(e *src.Expr, prefix, typ string) (*target.Expr, error) {
	mark := c.stack.Innermost().Len()
	x, err := c.expr(e)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = c.typeName(e)
	}
	return c.stack.Settle(mark, x, prefix, typ), nil
}

// isPure reports whether converting e again yields the same value with no
// side effects.
func (c *Converter) isPure(e *src.Expr) bool {
	switch e.Data.(type) {
	case src.IdentData, src.LiteralData, src.MeData:
		return true
	}
	_, ok := c.constantText(e)
	return ok
}

// stable returns a producer of e's value that can be embedded any number of
// times; impure expressions are hoisted into a declaration first.
func (c *Converter) stable(e *src.Expr, prefix string) (func() *target.Expr, error) {
	mark := c.stack.Innermost().Len()
	x, err := c.expr(e)
	if err != nil {
		return nil, err
	}
	if c.isPure(e) {
		return func() *target.Expr { return clone(x) }, nil
	}
	decl := hoist.Hoist(c.stack, hoist.NewDeclaration(prefix, x, c.typeName(e)))
	c.stack.Settle(mark, decl.Ref(), prefix, "")
	return decl.Ref, nil
}

// clone copies an expression tree so it can appear at a second position.
// Identifiers are re-referenced; literals and lambda bodies are shared.
func clone(e *target.Expr) *target.Expr {
	if e == nil {
		return nil
	}
	cp := *e
	switch data := e.Data.(type) {
	case target.IdentData:
		cp.Data = target.IdentData{Ident: data.Ident.Ref()}
	case target.BinaryData:
		cp.Data = target.BinaryData{Op: data.Op, Left: clone(data.Left), Right: clone(data.Right)}
	case target.UnaryData:
		cp.Data = target.UnaryData{Op: data.Op, Operand: clone(data.Operand)}
	case target.CallData:
		args := make([]target.Arg, len(data.Args))
		for i, a := range data.Args {
			args[i] = target.Arg{Ref: a.Ref, Value: clone(a.Value)}
		}
		cp.Data = target.CallData{Callee: clone(data.Callee), Args: args}
	case target.IndexData:
		args := make([]*target.Expr, len(data.Args))
		for i, a := range data.Args {
			args[i] = clone(a)
		}
		cp.Data = target.IndexData{Target: clone(data.Target), Args: args}
	case target.MemberData:
		cp.Data = target.MemberData{Target: clone(data.Target), Name: data.Name}
	case target.ConditionalData:
		cp.Data = target.ConditionalData{Cond: clone(data.Cond), Then: clone(data.Then), Else: clone(data.Else)}
	}
	return &cp
}
