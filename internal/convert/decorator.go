package convert

import (
	"fmt"
	"strings"

	"treeconv/internal/diag"
	"treeconv/internal/hoist"
	"treeconv/internal/src"
	"treeconv/internal/target"
	"treeconv/internal/trace"
)

// convertStmt is the splicing decorator every statement goes through. It
// opens the statement's scope, converts, drains the scope around the result
// and pops it. A failed conversion (error or panic) leaves one diagnostic
// statement in place of st; the stack depth is the same on every path.
func (c *Converter) convertStmt(st *src.Stmt) (out []*target.Stmt) {
	if st == nil {
		return nil
	}
	meta := scopeFor(st.Kind)
	sc := c.stack.Push(hoist.ScopeOptions{
		Kind:              meta.exit,
		NativelyBreakable: meta.native,
		Span:              st.Span,
	})
	withDepth := len(c.with)
	span := trace.Begin(c.tracer, trace.ScopeNode, st.Kind.String(), c.parent)

	defer func() {
		if r := recover(); r != nil {
			out = c.abandon(st, sc, withDepth, diag.ConvInternal, fmt.Sprintf("internal error: %v", r))
		}
		c.stack.Pop(sc)
		span.End("")
	}()

	converted, err := c.dispatch(st)
	if err != nil {
		return c.abandon(st, sc, withDepth, codeOf(err), err.Error())
	}
	return c.stack.Splice(sc, converted)
}

// abandon discards everything st left on the stack and reports the failure.
func (c *Converter) abandon(st *src.Stmt, sc *hoist.Scope, withDepth int, code diag.Code, msg string) []*target.Stmt {
	c.stack.Unwind(sc)
	sc.Discard()
	c.with = c.with[:withDepth]

	diag.ReportError(c.reporter, code, st.Span, msg).Emit()
	trace.Point(c.tracer, trace.ScopeNode, "diagnostic", msg, c.parent)
	return []*target.Stmt{target.Diagnostic(st.Span, msg, originalText(st))}
}

func originalText(st *src.Stmt) string {
	if raw, ok := st.Data.(src.RawData); ok && strings.TrimSpace(raw.Text) != "" {
		return raw.Text
	}
	return st.Kind.String() + " at " + st.Span.String()
}

// scoped runs fn inside a nested scope and splices its result. On error the
// scope stays open; the enclosing decorator unwinds it.
func (c *Converter) scoped(opts hoist.ScopeOptions, fn func() ([]*target.Stmt, error)) ([]*target.Stmt, error) {
	sc := c.stack.Push(opts)
	out, err := fn()
	if err != nil {
		return nil, err
	}
	out = c.stack.Splice(sc, out)
	c.stack.Pop(sc)
	return out, nil
}
