package convert

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"treeconv/internal/diag"
	"treeconv/internal/facts"
	"treeconv/internal/hoist"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

// args converts call arguments. Parameters come from the facts provider; when
// it has nothing for the call, fallback (the lambda's own parameters for an
// invoked lambda) is used. Arguments past the known parameters pass by value.
func (c *Converter) args(call *src.Expr, args []*src.Expr, fallback []facts.Param) ([]target.Arg, error) {
	params := fallback
	if ps, ok := c.facts.Params(call.ID); ok {
		params = ps
	}
	out := make([]target.Arg, 0, len(args))
	for i, a := range args {
		if i < len(params) && params[i].ByRef {
			arg, err := c.refArg(a, params[i])
			if err != nil {
				return nil, err
			}
			out = append(out, arg)
			continue
		}
		x, err := c.expr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, target.Arg{Value: x})
	}
	return out, nil
}

func lambdaParams(lam src.LambdaData) []facts.Param {
	out := make([]facts.Param, len(lam.Params))
	for i, p := range lam.Params {
		out[i] = facts.Param{Name: p.Name, Type: p.Type, ByRef: p.ByRef}
	}
	return out
}

// refArg converts an argument bound to a by-reference parameter.
//
// Storage the target can alias (locals, parameters, fields, array elements)
// is passed as ref directly. Properties and indexers are copied into a
// temporary that is passed instead and written back after the call; their
// container and index arguments are evaluated once. Everything else is only
// copied in.
func (c *Converter) refArg(a *src.Expr, p facts.Param) (target.Arg, error) {
	switch data := a.Data.(type) {
	case src.IdentData:
		if _, ok := c.staticField(data); ok {
			return c.directRef(a)
		}
		sym, ok := c.facts.Symbol(data.SymbolID)
		switch {
		case !ok || sym.Kind.Addressable():
			return c.directRef(a)
		case sym.Kind == facts.SymProperty:
			return c.writeBack(a, p, func() *target.Expr { return target.Name(data.Name) })
		}
		return c.copyIn(a, p, sym)

	case src.MemberData:
		sym, ok := c.facts.Symbol(data.SymbolID)
		switch {
		case !ok || sym.Kind.Addressable():
			return c.directRef(a)
		case sym.Kind == facts.SymProperty:
			obj, err := c.container(a, data.Target)
			if err != nil {
				return target.Arg{}, err
			}
			return c.writeBack(a, p, func() *target.Expr { return target.Member(obj(), data.Name) })
		}
		return c.copyIn(a, p, sym)

	case src.IndexData:
		if !data.SymbolID.IsValid() {
			return c.directRef(a)
		}
		sym, ok := c.facts.Symbol(data.SymbolID)
		if ok && !sym.Kind.Writable() {
			return c.copyIn(a, p, sym)
		}
		obj, err := c.container(a, data.Target)
		if err != nil {
			return target.Arg{}, err
		}
		index := make([]func() *target.Expr, 0, len(data.Args))
		for _, ix := range data.Args {
			get, err := c.stable(ix, "index")
			if err != nil {
				return target.Arg{}, err
			}
			index = append(index, get)
		}
		return c.writeBack(a, p, func() *target.Expr {
			args := make([]*target.Expr, len(index))
			for i, get := range index {
				args[i] = get()
			}
			return target.Index(obj(), args...)
		})
	}
	return c.copyIn(a, p, facts.Symbol{})
}

func (c *Converter) directRef(a *src.Expr) (target.Arg, error) {
	x, err := c.expr(a)
	if err != nil {
		return target.Arg{}, err
	}
	return target.Arg{Ref: true, Value: x}, nil
}

// container hoists the object an l-value is reached through so the write-back
// addresses the same instance the value was read from.
func (c *Converter) container(a, obj *src.Expr) (func() *target.Expr, error) {
	switch {
	case obj == nil:
		x, err := c.memberTarget(a, nil)
		if err != nil {
			return nil, err
		}
		return func() *target.Expr { return clone(x) }, nil
	case obj.Kind == src.ExprMe:
		return target.This, nil
	}
	x, err := c.expr(obj)
	if err != nil {
		return nil, err
	}
	return hoist.Hoist(c.stack, hoist.NewDeclaration("tmp", x, c.typeName(obj))).Ref, nil
}

// writeBack copies the l-value into a temporary, passes the temporary and
// assigns it back through a second rendering of the l-value after the call.
func (c *Converter) writeBack(a *src.Expr, p facts.Param, lvalue func() *target.Expr) (target.Arg, error) {
	value := hoist.Hoist(c.stack, hoist.NewDeclaration(tempPrefix(p), lvalue(), c.argType(a, p)))
	hoist.Hoist(c.stack, &hoist.Assignment{LHS: lvalue(), RHS: value.Ref()})
	return target.Arg{Ref: true, Value: value.Ref()}, nil
}

// copyIn passes a copy of the argument; changes made by the callee are lost.
// Read-only storage gets an informational diagnostic since the source allowed
// the call to look like it could modify it.
func (c *Converter) copyIn(a *src.Expr, p facts.Param, sym facts.Symbol) (target.Arg, error) {
	x, err := c.expr(a)
	if err != nil {
		return target.Arg{}, err
	}
	value := hoist.Hoist(c.stack, hoist.NewDeclaration(tempPrefix(p), x, c.argType(a, p)))
	switch sym.Kind {
	case facts.SymReadOnlyField, facts.SymReadOnlyProperty, facts.SymReadOnlyIndexer, facts.SymWriteOnceLocal:
		diag.ReportInfo(c.reporter, diag.ConvCopyInOnly, a.Span,
			fmt.Sprintf("%s %q is passed by reference but cannot be written back", sym.Kind, sym.Name)).Emit()
	}
	return target.Arg{Ref: true, Value: value.Ref()}, nil
}

func (c *Converter) argType(a *src.Expr, p facts.Param) string {
	if t := c.typeName(a); t != "" {
		return t
	}
	return mapType(p.Type)
}

// tempPrefix derives the temporary's name from the parameter: value -> tmpValue.
func tempPrefix(p facts.Param) string {
	if p.Name == "" {
		return "tmp"
	}
	// Casers keep state; units convert concurrently.
	return "tmp" + cases.Title(language.Und, cases.NoLower).String(p.Name)
}
