package fixture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"treeconv/internal/driver"
	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"1.0.0", true},
		{"1.4.2", true},
		{"", false},
		{"one", false},
		{"0.9.0", false},
		{"2.0.0", false},
	}
	for _, tt := range tests {
		err := CheckSchema(tt.version)
		if tt.ok && err != nil {
			t.Errorf("CheckSchema(%q) = %v", tt.version, err)
		}
		if !tt.ok && !errors.Is(err, ErrSchema) {
			t.Errorf("CheckSchema(%q) = %v, want ErrSchema", tt.version, err)
		}
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"schema":"1.0.0","nmae":"x","units":[]}`), FormatJSON)
	if err == nil {
		t.Fatal("expected an error for a misspelled field")
	}
	if errors.Is(err, ErrSchema) {
		t.Errorf("unknown field reported as schema error: %v", err)
	}
}

func TestDecodeMissingSchema(t *testing.T) {
	_, err := Decode([]byte(`{"name":"x","units":[]}`), FormatJSON)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":        FormatJSON,
		"a.mp":          FormatMsgpack,
		"dir/a.MSGPACK": FormatMsgpack,
		"noext":         FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	doc, _, err := Load("testdata/module1.json")
	if err != nil {
		t.Fatal(err)
	}
	files := source.NewFileSetWithBase(".")
	out, tab, err := Build(doc, files)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if out.Name != "Module1" || len(out.Units) != 3 {
		t.Fatalf("document = %+v", out)
	}

	m := out.Units[0]
	if m.Kind != src.ExitSub || m.Name() != "M" {
		t.Errorf("unit = %+v", m.Unit)
	}
	loop := m.Body.Stmts[0]
	if loop.Kind != src.StmtDo {
		t.Fatalf("first statement is %s", loop.Kind)
	}
	if got := files.Position(loop.Span); got != "Module1.vb:2:5" {
		t.Errorf("position = %q", got)
	}

	// Expressions without an ID get fresh ones above every ID in the file.
	call := m.Body.Stmts[0].Data.(src.DoData).Body.Stmts[1].Data.(src.ExprStmtData).Expr
	callee := call.Data.(src.CallData).Callee
	if call.ID != 2 || callee.ID <= 6 {
		t.Errorf("ids: call=%d callee=%d", call.ID, callee.ID)
	}

	if typ, ok := tab.TypeOf(6); !ok || typ != "String" {
		t.Errorf("TypeOf(6) = %q, %v", typ, ok)
	}
	if params, ok := tab.Params(5); !ok || len(params) != 1 || !params[0].ByRef {
		t.Errorf("Params(5) = %+v, %v", params, ok)
	}
	if sym, ok := tab.Symbol(1); !ok || sym.Name != "Name" {
		t.Errorf("Symbol(1) = %+v, %v", sym, ok)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown statement",
			doc:  `{"method":"M","body":[{"kind":"Loop"}]}`,
			want: `units[0].body[0]: unknown statement kind "Loop"`,
		},
		{
			name: "missing condition",
			doc:  `{"method":"M","body":[{"kind":"If","then":[]}]}`,
			want: "units[0].body[0]: missing cond",
		},
		{
			name: "bad exit kind",
			doc:  `{"method":"M","body":[{"kind":"Exit","exit":"Loop"}]}`,
			want: `units[0].body[0]: unknown exit kind "Loop"`,
		},
		{
			name: "bad literal",
			doc:  `{"method":"M","body":[{"kind":"Return","expr":{"kind":"Literal","lit":"date","text":"#1/1/2000#"}}]}`,
			want: `units[0].body[0].expr: unknown literal kind "date"`,
		},
		{
			name: "nested path",
			doc:  `{"method":"M","body":[{"kind":"While","cond":{"kind":"Me"},"body":[{"kind":"Expr"}]}]}`,
			want: "units[0].body[0].body[0]: missing expr",
		},
		{
			name: "unit kind",
			doc:  `{"method":"M","kind":"Do","body":[]}`,
			want: `units[0]: unit kind "Do" is not Sub, Function or Property`,
		},
		{
			name: "inverted span",
			doc:  `{"method":"M","span":{"start":5,"end":2},"body":[]}`,
			want: "units[0]: span end 2 before start 5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"schema":"1.0.0","name":"x","units":[` + tt.doc + `]}`
			doc, err := Decode([]byte(raw), FormatJSON)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			_, _, err = Build(doc, nil)
			if err == nil || err.Error() != tt.want {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestBuildRejectsUnknownSymbolKind(t *testing.T) {
	raw := `{"schema":"1.0.0","name":"x","units":[],"facts":{"symbols":[{"id":1,"name":"a","kind":"global"}]}}`
	doc, err := Decode([]byte(raw), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Build(doc, nil); err == nil || !strings.Contains(err.Error(), "facts.symbols[0]") {
		t.Errorf("err = %v", err)
	}
}

func convertFixture(t *testing.T, doc *Document) []string {
	t.Helper()
	built, tab, err := Build(doc, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := driver.ConvertDocument(context.Background(), built, tab, driver.Options{Jobs: 2})
	if err != nil {
		t.Fatalf("ConvertDocument: %v", err)
	}
	var out []string
	for _, u := range res.Units {
		out = append(out, target.Format(u.Stmts))
	}
	return out
}

func TestConvertFixture(t *testing.T) {
	doc, _, err := Load("testdata/module1.json")
	if err != nil {
		t.Fatal(err)
	}
	got := convertFixture(t, doc)
	want := []string{
		"while (true) {\n" +
			"    bool exitDo = false;\n" +
			"    do {\n" +
			"        try {\n" +
			"            exitDo = true;\n" +
			"            break;\n" +
			"        }\n" +
			"    } while (false);\n" +
			"    if (exitDo) {\n" +
			"        break;\n" +
			"    }\n" +
			"    X();\n" +
			"}\n",
		"string tmpValue = this.Name;\nFoo(ref tmpValue);\nthis.Name = tmpValue;\n",
		"#error cannot convert GoTo\n// GoTo done\n",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d units, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("unit %d\n--- got ---\n%s--- want ---\n%s", i, got[i], want[i])
		}
	}
}

// A document re-encoded as msgpack converts to the same output.
func TestMsgpackMatchesJSON(t *testing.T) {
	doc, _, err := Load("testdata/module1.json")
	if err != nil {
		t.Fatal(err)
	}
	want := convertFixture(t, doc)

	data, err := Encode(doc, FormatMsgpack)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(data, FormatMsgpack)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if again.Name != doc.Name || again.Source != doc.Source {
		t.Errorf("header changed: %q %q", again.Name, again.Path)
	}
	got := convertFixture(t, again)
	if strings.Join(got, "\x00") != strings.Join(want, "\x00") {
		t.Errorf("msgpack output differs\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}
