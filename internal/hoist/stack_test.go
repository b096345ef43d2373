package hoist

import (
	"strings"
	"testing"

	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

type fixedOracle []string

func (o fixedOracle) VisibleNames(source.Span) ([]string, bool) { return o, true }

type blindOracle struct{}

func (blindOracle) VisibleNames(source.Span) ([]string, bool) { return nil, false }

func call(name string, args ...*target.Expr) *target.Stmt {
	as := make([]target.Arg, len(args))
	for i, a := range args {
		as[i] = target.Arg{Value: a}
	}
	return target.ExprStatement(target.Call(target.Name(name), as...))
}

func TestPushPopDepth(t *testing.T) {
	st := NewStack(nil, nil)
	if st.Depth() != 1 {
		t.Fatalf("fresh stack depth = %d, want 1", st.Depth())
	}
	a := st.Push(ScopeOptions{})
	b := st.Push(ScopeOptions{Kind: src.ExitDo, NativelyBreakable: true})
	if st.Innermost() != b || st.Depth() != 3 {
		t.Fatalf("unexpected innermost/depth after pushes")
	}
	st.Splice(b, nil)
	st.Pop(b)
	st.Splice(a, nil)
	st.Pop(a)
	if st.Depth() != 1 {
		t.Errorf("depth after pops = %d, want 1", st.Depth())
	}
}

func TestPopUndrainedPanics(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})
	Hoist(st, NewDeclaration("tmp", target.Lit("1"), ""))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for undrained pop")
		}
		if !strings.Contains(r.(string), "drained") {
			t.Errorf("unexpected panic message %v", r)
		}
	}()
	st.Pop(sc)
}

func TestPopOutOfOrderPanics(t *testing.T) {
	st := NewStack(nil, nil)
	outer := st.Push(ScopeOptions{})
	st.Push(ScopeOptions{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when popping a non-innermost scope")
		}
	}()
	outer.Discard()
	st.Pop(outer)
}

func TestUnwindDiscardsInnerScopes(t *testing.T) {
	st := NewStack(nil, nil)
	outer := st.Push(ScopeOptions{})
	inner := st.Push(ScopeOptions{})
	Hoist(st, NewDeclaration("tmp", target.Lit("1"), ""))
	st.Push(ScopeOptions{})

	st.Unwind(outer)
	if st.Innermost() != outer || st.Depth() != 2 {
		t.Fatalf("Unwind left depth %d", st.Depth())
	}
	if inner.Len() != 0 {
		t.Errorf("unwound scope still holds %d nodes", inner.Len())
	}
}

func TestHoistReturnsNodeAndKeepsOrder(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})

	var decls []*Declaration
	for i, v := range []string{"1", "2", "3", "4", "5"} {
		d := Hoist(st, NewDeclaration("v", target.Lit(v), "int"))
		if d == nil || sc.Len() != i+1 {
			t.Fatalf("Hoist must append to the innermost scope")
		}
		decls = append(decls, d)
	}
	Hoist(st, &Assignment{LHS: target.Name("a"), RHS: decls[0].Ref()})
	Hoist(st, &Assignment{LHS: target.Name("b"), RHS: decls[4].Ref()})

	out := st.Splice(sc, []*target.Stmt{call("Use", decls[2].Ref())})
	st.Pop(sc)

	want := strings.Join([]string{
		"int v = 1;",
		"int v1 = 2;",
		"int v2 = 3;",
		"int v3 = 4;",
		"int v4 = 5;",
		"Use(v2);",
		"a = v;",
		"b = v4;",
		"",
	}, "\n")
	if got := target.Format(out); got != want {
		t.Errorf("splice output:\n%s\nwant:\n%s", got, want)
	}
}

func TestSplicePlacement(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})

	Hoist(st, &Statement{Stmt: call("Before")})
	Hoist(st, &Statement{Stmt: call("After"), Post: true})
	fn := Hoist(st, NewLocalFunction("localFunc", "int", nil, target.NewBlock(target.Return(target.Lit("42")))))
	Hoist(st, &Assignment{LHS: target.Name("x"), RHS: target.Lit("0")})

	out := st.Splice(sc, []*target.Stmt{call("Body", target.Call(fn.Ref()))})
	st.Pop(sc)

	want := strings.Join([]string{
		"int localFunc() {",
		"    return 42;",
		"}",
		"Before();",
		"Body(localFunc());",
		"After();",
		"x = 0;",
		"",
	}, "\n")
	if got := target.Format(out); got != want {
		t.Errorf("splice output:\n%s\nwant:\n%s", got, want)
	}
}

func TestStaticFieldsGoToOutermost(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})
	HoistToOutermost(st, &StaticField{Method: "Count", Var: "calls", Type: "int", Init: target.Lit("0")})
	HoistToOutermost(st, &StaticField{Method: "Name", Accessor: "get", Var: "cache", Type: "string"})
	if sc.Len() != 0 {
		t.Fatalf("static fields must not land in the innermost scope")
	}
	st.Splice(sc, nil)
	st.Pop(sc)

	fields := st.Fields()
	if len(fields) != 2 {
		t.Fatalf("Fields() = %d entries, want 2", len(fields))
	}
	if fields[0].Name != "_Count_calls" || fields[1].Name != "_Name_get_cache" {
		t.Errorf("unexpected field names %q, %q", fields[0].Name, fields[1].Name)
	}
	if _, ok := st.StaticFieldFor("Count", "", "calls"); !ok {
		t.Error("StaticFieldFor should find the hoisted field")
	}
}

func TestSettleRunsWriteBackBeforeConsumer(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})

	Hoist(st, &Statement{Stmt: call("Early")})
	mark := sc.Len()
	tmp := Hoist(st, NewDeclaration("tmp", target.Member(target.Name("obj"), "P"), "int"))
	Hoist(st, &Assignment{LHS: target.Member(target.Name("obj"), "P"), RHS: tmp.Ref()})
	check := target.Call(target.Name("Check"), target.Arg{Ref: true, Value: tmp.Ref()})

	cond := st.Settle(mark, check, "condition", "bool")
	if cond == check {
		t.Fatal("a value followed by a write-back must be captured")
	}
	out := st.Splice(sc, []*target.Stmt{target.If(cond, target.NewBlock(call("Use")), nil)})
	st.Pop(sc)

	want := strings.Join([]string{
		"Early();",
		"int tmp = obj.P;",
		"bool condition = Check(ref tmp);",
		"obj.P = tmp;",
		"if (condition) {",
		"    Use();",
		"}",
		"",
	}, "\n")
	if got := target.Format(out); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}

func TestSettleKeepsValueWithoutWriteBack(t *testing.T) {
	st := NewStack(nil, nil)
	sc := st.Push(ScopeOptions{})

	mark := sc.Len()
	tmp := Hoist(st, NewDeclaration("tmp", target.Lit("5"), "int"))
	check := target.Call(target.Name("Check"), target.Arg{Ref: true, Value: tmp.Ref()})
	if got := st.Settle(mark, check, "condition", "bool"); got != check || sc.Len() != 1 {
		t.Errorf("copy-in only value must stay inline (nodes %d)", sc.Len())
	}

	// An already hoisted value only gets the write-back moved behind it.
	mark = sc.Len()
	sel := Hoist(st, NewDeclaration("switchExpr", target.Call(target.Name("Next")), "int"))
	Hoist(st, &Assignment{LHS: target.Name("p"), RHS: target.Lit("0")})
	ref := sel.Ref()
	if got := st.Settle(mark, ref, "switchExpr", "int"); got != ref {
		t.Error("hoisted value must not be captured twice")
	}
	nodes := sc.Nodes()
	if len(nodes) != 3 || nodes[1] != Node(sel) {
		t.Fatalf("unexpected nodes %v", nodes)
	}
	if s, ok := nodes[2].(*Statement); !ok || s.Post {
		t.Errorf("write-back must become a pre-statement, got %#v", nodes[2])
	}
	sc.Discard()
	st.Pop(sc)
}
