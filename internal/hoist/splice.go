package hoist

import (
	"treeconv/internal/target"
)

// lowered holds a drained scope split by placement.
type lowered struct {
	funcs      []*target.Stmt
	flagDecls  []*target.Stmt
	pre        []*target.Stmt
	post       []*target.Stmt
	flagChecks []*target.Stmt
	requests   []Request
}

// drain lowers the pending nodes of sc in hoist order.
func drain(sc *Scope) lowered {
	var l lowered
	for _, n := range sc.nodes {
		switch n := n.(type) {
		case *Declaration:
			l.pre = append(l.pre, target.Local(n.ident.Ref(), n.Type, n.Init))
			l.requests = append(l.requests, Request{Token: n.Placeholder(), Prefix: n.Prefix})
		case *Assignment:
			l.post = append(l.post, target.Assign(n.LHS, n.RHS))
		case *Statement:
			if n.Post {
				l.post = append(l.post, n.Stmt)
			} else {
				l.pre = append(l.pre, n.Stmt)
			}
		case *LocalFunction:
			l.funcs = append(l.funcs, target.LocalFunc(n.ident.Ref(), n.Result, n.Params, n.Body))
			l.requests = append(l.requests, Request{Token: n.Placeholder(), Prefix: n.Prefix})
		case *ExitFlag:
			l.flagDecls = append(l.flagDecls, target.Local(n.ident.Ref(), "bool", target.False()))
			resume := target.Break()
			if n.Resume == target.StmtContinue {
				resume = target.Continue()
			}
			l.flagChecks = append(l.flagChecks, target.If(n.Ref(), target.NewBlock(resume), nil))
			l.requests = append(l.requests, Request{Token: n.Placeholder(), Prefix: n.Prefix()})
		case *StaticField:
			// type-level; collected from the outermost scope by Stack.Fields
		}
	}
	return l
}

// Splice drains sc and returns the statements that replace the scope's
// statement: local functions, pre-statements, converted, post-statements.
// Placeholders owned by sc are finalized and renamed across all of them in
// one pass. When an exit left sc through the flag mechanism and the construct
// has no native break, everything except the flag declarations and checks is
// wrapped in a single-iteration loop. sc is marked drained; the caller still
// pops it.
func (s *Stack) Splice(sc *Scope, converted []*target.Stmt) []*target.Stmt {
	l := drain(sc)
	sc.nodes = nil
	sc.flags = nil
	sc.drained = true

	var out []*target.Stmt
	if sc.NeedsWrapper() {
		inner := make([]*target.Stmt, 0, len(l.funcs)+len(l.pre)+len(converted)+len(l.post))
		inner = append(inner, l.funcs...)
		inner = append(inner, l.pre...)
		inner = append(inner, converted...)
		inner = append(inner, l.post...)
		out = make([]*target.Stmt, 0, len(l.flagDecls)+1+len(l.flagChecks))
		out = append(out, l.flagDecls...)
		out = append(out, target.SingleIteration(inner).WithSpan(sc.Span))
		out = append(out, l.flagChecks...)
	} else {
		out = make([]*target.Stmt, 0, len(l.funcs)+len(l.flagDecls)+len(l.pre)+len(converted)+len(l.flagChecks)+len(l.post))
		out = append(out, l.funcs...)
		out = append(out, l.flagDecls...)
		out = append(out, l.pre...)
		out = append(out, converted...)
		out = append(out, l.flagChecks...)
		out = append(out, l.post...)
	}

	if len(l.requests) > 0 {
		names := s.names.Finalize(l.requests, s.visibleAt(sc.Span))
		target.Rename(out, names)
	}
	return out
}
