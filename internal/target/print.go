package target

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders target trees as C#-flavoured text. Output is deterministic:
// the same tree always prints byte-for-byte identically.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Fprint writes stmts to w.
func Fprint(w io.Writer, stmts []*Stmt) error {
	p := NewPrinter(w)
	p.PrintStmts(stmts)
	return p.err
}

// Format renders stmts to a string.
func Format(stmts []*Stmt) string {
	var sb strings.Builder
	_ = Fprint(&sb, stmts) //nolint:errcheck // strings.Builder never fails
	return sb.String()
}

// FormatExpr renders a single expression.
func FormatExpr(e *Expr) string {
	var sb strings.Builder
	p := NewPrinter(&sb)
	p.printExpr(e)
	return sb.String()
}

// PrintFields writes field declarations, one per line.
func (p *Printer) PrintFields(fields []Field) error {
	for _, f := range fields {
		p.printIndent()
		p.printf("private ")
		if f.Static {
			p.printf("static ")
		}
		p.printf("%s %s", typeOrObject(f.Type), f.Name)
		if f.Init != nil {
			p.printf(" = ")
			p.printExpr(f.Init)
		}
		p.printf(";\n")
	}
	return p.err
}

// PrintStmts writes each statement on its own line(s).
func (p *Printer) PrintStmts(stmts []*Stmt) {
	for _, st := range stmts {
		p.printStmt(st)
	}
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("    ", p.indent))
}

func (p *Printer) printBlockBody(b *Block) {
	p.indent++
	if b != nil {
		p.PrintStmts(b.Stmts)
	}
	p.indent--
}

func (p *Printer) printStmt(s *Stmt) {
	if s == nil {
		return
	}
	p.printIndent()
	p.printStmtNoIndent(s)
}

func (p *Printer) printStmtNoIndent(s *Stmt) {
	switch s.Kind {
	case StmtLocal, StmtExpr, StmtAssign:
		p.printSimple(s)
		p.printf(";\n")
	case StmtIf:
		data := s.Data.(IfData)
		p.printf("if (")
		p.printExpr(data.Cond)
		p.printf(") {\n")
		p.printBlockBody(data.Then)
		p.printIndent()
		if data.Else == nil {
			p.printf("}\n")
			return
		}
		if len(data.Else.Stmts) == 1 && data.Else.Stmts[0].Kind == StmtIf {
			p.printf("} else ")
			p.printStmtNoIndent(data.Else.Stmts[0])
			return
		}
		p.printf("} else {\n")
		p.printBlockBody(data.Else)
		p.printIndent()
		p.printf("}\n")
	case StmtWhile:
		data := s.Data.(LoopData)
		p.printf("while (")
		p.printExpr(data.Cond)
		p.printf(") {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtDoWhile:
		data := s.Data.(LoopData)
		p.printf("do {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("} while (")
		p.printExpr(data.Cond)
		p.printf(");\n")
	case StmtFor:
		data := s.Data.(ForData)
		p.printf("for (")
		if data.Init != nil {
			p.printSimple(data.Init)
		}
		p.printf("; ")
		p.printExpr(data.Cond)
		p.printf("; ")
		if data.Post != nil {
			p.printSimple(data.Post)
		}
		p.printf(") {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtForEach:
		data := s.Data.(ForEachData)
		p.printf("foreach (%s %s in ", typeOrVar(data.Type), data.Var)
		p.printExpr(data.Iter)
		p.printf(") {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtTry:
		data := s.Data.(TryData)
		p.printf("try {\n")
		p.printBlockBody(data.Body)
		for _, c := range data.Catches {
			p.printIndent()
			switch {
			case c.Name != nil:
				p.printf("} catch (%s %s) {\n", typeOrException(c.Type), c.Name)
			case c.Type != "":
				p.printf("} catch (%s) {\n", c.Type)
			default:
				p.printf("} catch {\n")
			}
			p.printBlockBody(c.Body)
		}
		if data.Finally != nil {
			p.printIndent()
			p.printf("} finally {\n")
			p.printBlockBody(data.Finally)
		}
		p.printIndent()
		p.printf("}\n")
	case StmtBreak:
		p.printf("break;\n")
	case StmtContinue:
		p.printf("continue;\n")
	case StmtReturn, StmtThrow:
		data := s.Data.(ValueData)
		if s.Kind == StmtReturn {
			p.printf("return")
		} else {
			p.printf("throw")
		}
		if data.Value != nil {
			p.printf(" ")
			p.printExpr(data.Value)
		}
		p.printf(";\n")
	case StmtBlock:
		data := s.Data.(BlockData)
		p.printf("{\n")
		p.printBlockBody(data.Block)
		p.printIndent()
		p.printf("}\n")
	case StmtLocalFunc:
		data := s.Data.(FuncData)
		result := data.Result
		if result == "" {
			result = "void"
		}
		p.printf("%s %s(", result, data.Name)
		p.printParams(data.Params)
		p.printf(") {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("}\n")
	case StmtDiagnostic:
		data := s.Data.(DiagnosticData)
		p.printf("#error %s\n", data.Message)
		for _, line := range strings.Split(strings.TrimRight(data.Original, "\n"), "\n") {
			if line == "" {
				continue
			}
			p.printIndent()
			p.printf("// %s\n", line)
		}
	default:
		p.printf("/* unknown statement %s */\n", s.Kind)
	}
}

// printSimple prints statements that can appear in a for header.
func (p *Printer) printSimple(s *Stmt) {
	switch data := s.Data.(type) {
	case LocalData:
		p.printf("%s %s", typeOrVar(data.Type), data.Name)
		if data.Init != nil {
			p.printf(" = ")
			p.printExpr(data.Init)
		}
	case ExprStmtData:
		p.printExpr(data.Expr)
	case AssignData:
		p.printExpr(data.Target)
		p.printf(" %s= ", data.Op)
		p.printExpr(data.Value)
	default:
		p.printf("/* %s */", s.Kind)
	}
}

func (p *Printer) printParams(params []Param) {
	for i, prm := range params {
		if i > 0 {
			p.printf(", ")
		}
		if prm.Ref {
			p.printf("ref ")
		}
		p.printf("%s %s", typeOrObject(prm.Type), prm.Name)
	}
}

func (p *Printer) printExpr(e *Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}
	switch data := e.Data.(type) {
	case IdentData:
		p.printf("%s", data.Ident)
	case LiteralData:
		p.printf("%s", data.Text)
	case BinaryData:
		p.printOperand(data.Left)
		p.printf(" %s ", data.Op)
		p.printOperand(data.Right)
	case UnaryData:
		p.printf("%s", data.Op)
		p.printOperand(data.Operand)
	case CallData:
		p.printOperand(data.Callee)
		p.printf("(")
		for i, a := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			if a.Ref {
				p.printf("ref ")
			}
			p.printExpr(a.Value)
		}
		p.printf(")")
	case IndexData:
		p.printOperand(data.Target)
		p.printf("[")
		for i, a := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(a)
		}
		p.printf("]")
	case MemberData:
		p.printOperand(data.Target)
		p.printf(".%s", data.Name)
	case ThisData:
		p.printf("this")
	case LambdaData:
		p.printf("(")
		p.printParams(data.Params)
		p.printf(") => {\n")
		p.printBlockBody(data.Body)
		p.printIndent()
		p.printf("}")
	case ConditionalData:
		p.printOperand(data.Cond)
		p.printf(" ? ")
		p.printOperand(data.Then)
		p.printf(" : ")
		p.printOperand(data.Else)
	default:
		p.printf("/* %s */", e.Kind)
	}
}

// printOperand parenthesizes compound operands; precedence is not modelled.
func (p *Printer) printOperand(e *Expr) {
	if e != nil && (e.Kind == ExprBinary || e.Kind == ExprConditional || e.Kind == ExprLambda) {
		p.printf("(")
		p.printExpr(e)
		p.printf(")")
		return
	}
	p.printExpr(e)
}

func typeOrVar(t string) string {
	if t == "" {
		return "var"
	}
	return t
}

func typeOrObject(t string) string {
	if t == "" {
		return "object"
	}
	return t
}

func typeOrException(t string) string {
	if t == "" {
		return "Exception"
	}
	return t
}
