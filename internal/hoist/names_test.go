package hoist

import (
	"testing"

	"treeconv/internal/target"
)

func finalNames(t *testing.T, st *Stack, prefixes ...string) []string {
	t.Helper()
	sc := st.Push(ScopeOptions{})
	var stmts []*target.Stmt
	for _, p := range prefixes {
		d := Hoist(st, NewDeclaration(p, target.Lit("0"), "int"))
		stmts = append(stmts, call("Use", d.Ref()))
	}
	out := st.Splice(sc, stmts)
	st.Pop(sc)

	if left := target.Placeholders(out); len(left) != 0 {
		t.Fatalf("placeholders left after splice: %v", left)
	}
	var names []string
	for _, s := range out {
		if s.Kind == target.StmtLocal {
			names = append(names, s.Data.(target.LocalData).Name.Name)
		}
	}
	return names
}

func TestFinalizeSiblingPrefixes(t *testing.T) {
	tests := []struct {
		name    string
		visible []string
		want    []string
	}{
		{name: "nothing visible", want: []string{"tmp", "tmp1"}},
		{name: "tmp visible in source", visible: []string{"tmp"}, want: []string{"tmp1", "tmp2"}},
		{name: "case-insensitive clash", visible: []string{"TMP", "Tmp1"}, want: []string{"tmp2", "tmp3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStack(NewNames(true), fixedOracle(tt.visible))
			got := finalNames(t, st, "tmp", "tmp")
			if len(got) != 2 || got[0] != tt.want[0] || got[1] != tt.want[1] {
				t.Errorf("names = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFinalizeAvoidsEarlierDocumentNames(t *testing.T) {
	st := NewStack(NewNames(true), nil)
	first := finalNames(t, st, "tmp")
	second := finalNames(t, st, "tmp", "loopTo")
	if first[0] != "tmp" || second[0] != "tmp1" || second[1] != "loopTo" {
		t.Errorf("first=%v second=%v", first, second)
	}
}

func TestFinalizeBlindOracle(t *testing.T) {
	st := NewStack(NewNames(true), blindOracle{})
	got := finalNames(t, st, "tmp", "tmp")
	if got[0] != "tmp" || got[1] != "tmp1" {
		t.Errorf("blind oracle must only dedupe within the batch, got %v", got)
	}
}

func TestFinalizeCaseSensitive(t *testing.T) {
	n := NewNames(false)
	n.Reserve("Tmp")
	a := target.NextPlaceholder()
	got := n.Finalize([]Request{{Token: a, Prefix: "tmp"}}, nil)
	if got[a] != "tmp" {
		t.Errorf("case-sensitive registry should accept tmp next to Tmp, got %q", got[a])
	}
	if !n.Taken("tmp") || n.Taken("TMP") {
		t.Error("Taken must respect case sensitivity")
	}
}

func TestUserIdentifierUntouched(t *testing.T) {
	st := NewStack(nil, fixedOracle{"tmp"})
	sc := st.Push(ScopeOptions{})
	d := Hoist(st, NewDeclaration("tmp", target.Lit("1"), "int"))
	user := target.Name("tmp")
	out := st.Splice(sc, []*target.Stmt{target.Assign(user, d.Ref())})
	st.Pop(sc)
	if got := target.Format(out); got != "int tmp1 = 1;\ntmp = tmp1;\n" {
		t.Errorf("unexpected output %q", got)
	}
}
