package convert

import (
	"strconv"
	"strings"

	"treeconv/internal/src"
	"treeconv/internal/target"
)

// builtinTypes maps source type keywords (lower-cased) to target keywords.
var builtinTypes = map[string]string{
	"boolean":  "bool",
	"byte":     "byte",
	"sbyte":    "sbyte",
	"short":    "short",
	"ushort":   "ushort",
	"integer":  "int",
	"uinteger": "uint",
	"long":     "long",
	"ulong":    "ulong",
	"single":   "float",
	"double":   "double",
	"decimal":  "decimal",
	"char":     "char",
	"string":   "string",
	"object":   "object",
	"date":     "DateTime",
}

// mapType converts a source type name. Arrays "T()" become "T[]" and generic
// "T(Of A, B)" becomes "T<A, B>"; unknown names pass through.
func mapType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasSuffix(name, "()") {
		return mapType(strings.TrimSuffix(name, "()")) + "[]"
	}
	if open := strings.Index(name, "(Of "); open > 0 && strings.HasSuffix(name, ")") {
		args := splitTypeArgs(name[open+len("(Of ") : len(name)-1])
		for i, a := range args {
			args[i] = mapType(a)
		}
		return mapType(name[:open]) + "<" + strings.Join(args, ", ") + ">"
	}
	if kw, ok := builtinTypes[strings.ToLower(name)]; ok {
		return kw
	}
	return name
}

// splitTypeArgs splits on top-level commas only.
func splitTypeArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

// defaultValue is the initializer of a declaration without one: the source
// language zero-initializes every local.
func defaultValue(typ string) *target.Expr {
	switch typ {
	case "", "object", "string":
		return target.Lit("null")
	default:
		return target.Lit("default")
	}
}

func convertLiteral(lit src.LiteralData) *target.Expr {
	switch lit.Kind {
	case src.LiteralString:
		return target.Lit(strconv.Quote(lit.Text))
	case src.LiteralBool:
		if strings.EqualFold(lit.Text, "true") {
			return target.True()
		}
		return target.False()
	case src.LiteralNothing:
		return target.Lit("null")
	default:
		return target.Lit(lit.Text)
	}
}

// binaryOps maps source operators whose spelling differs in the target.
var binaryOps = map[string]string{
	"=":       "==",
	"<>":      "!=",
	"&":       "+",
	"And":     "&",
	"AndAlso": "&&",
	"Or":      "|",
	"OrElse":  "||",
	"Xor":     "^",
	"Mod":     "%",
	`\`:       "/",
	"Is":      "==",
	"IsNot":   "!=",
}

func binaryOp(op string) string {
	if t, ok := binaryOps[op]; ok {
		return t
	}
	return op
}

func unaryOp(op string) string {
	if op == "Not" {
		return "!"
	}
	return op
}

// compoundOp maps the operator of a compound assignment (x &= y).
func compoundOp(op string) string {
	switch op {
	case "":
		return ""
	case "&":
		return "+"
	case `\`:
		return "/"
	}
	return binaryOp(op)
}
