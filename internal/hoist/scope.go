package hoist

import (
	"fmt"

	"treeconv/internal/source"
	"treeconv/internal/src"
	"treeconv/internal/target"
)

// ScopeID identifies a scope within one Stack.
type ScopeID uint32

// ScopeOptions describe the construct a scope represents.
type ScopeOptions struct {
	// Kind is the exitable kind, src.ExitNone for plain blocks.
	Kind src.ExitKind
	// NativelyBreakable is true when a single target break leaves the construct.
	NativelyBreakable bool
	// Barrier stops exit walks (function and lambda bodies).
	Barrier bool
	// Span is the source position used for visible-name queries.
	Span source.Span
}

// Scope is one open block with its pending hoisted nodes.
type Scope struct {
	ID ScopeID
	ScopeOptions

	nodes   []Node
	flags   map[flagKey]*ExitFlag
	exited  bool
	drained bool
}

type flagKey struct {
	target ScopeID
	mode   ExitMode
}

// Exitable reports whether exits can target or cross this scope.
func (s *Scope) Exitable() bool {
	return s.Kind != src.ExitNone
}

// Exited reports whether an exit left this scope through the flag mechanism.
func (s *Scope) Exited() bool {
	return s.exited
}

// NeedsWrapper reports whether the spliced output must be wrapped in a
// single-iteration loop so a native break can leave it.
func (s *Scope) NeedsWrapper() bool {
	return s.Exitable() && s.exited && !s.NativelyBreakable
}

// Nodes returns the pending nodes in hoist order. Do not modify the slice.
func (s *Scope) Nodes() []Node {
	return s.nodes
}

// Len returns the number of pending nodes.
func (s *Scope) Len() int {
	return len(s.nodes)
}

// Discard drops pending nodes without lowering them. Used when the statement
// owning the scope failed to convert.
func (s *Scope) Discard() {
	s.nodes = nil
	s.flags = nil
	s.drained = true
}

func (s *Scope) add(n Node) {
	s.nodes = append(s.nodes, n)
}

// Stack is the per-conversion stack of open scopes, innermost last. The
// bottom scope lives for the whole conversion and collects type-level items.
type Stack struct {
	scopes []*Scope
	nextID ScopeID
	names  *Names
	oracle NameOracle
}

// NameOracle answers which identifiers are visible at a source position.
// facts.Provider satisfies it.
type NameOracle interface {
	VisibleNames(sp source.Span) ([]string, bool)
}

// NewStack returns a stack holding only the outermost scope. names records
// identifiers finalized so far in the document; oracle may be nil.
func NewStack(names *Names, oracle NameOracle) *Stack {
	if names == nil {
		names = NewNames(true)
	}
	s := &Stack{names: names, oracle: oracle}
	s.Push(ScopeOptions{Barrier: true})
	return s
}

// Names returns the document-level name registry.
func (s *Stack) Names() *Names {
	return s.names
}

// Depth returns the number of open scopes including the outermost one.
func (s *Stack) Depth() int {
	return len(s.scopes)
}

// Push opens a new empty scope.
func (s *Stack) Push(opts ScopeOptions) *Scope {
	s.nextID++
	sc := &Scope{ID: s.nextID, ScopeOptions: opts}
	s.scopes = append(s.scopes, sc)
	return sc
}

// Pop closes sc, which must be the innermost scope and already drained.
// Anything else is a protocol violation and panics.
func (s *Stack) Pop(sc *Scope) {
	if len(s.scopes) <= 1 {
		panic("hoist: pop of the outermost scope")
	}
	top := s.scopes[len(s.scopes)-1]
	if top != sc {
		panic(fmt.Sprintf("hoist: pop of scope %d while %d is innermost", sc.ID, top.ID))
	}
	if !sc.drained {
		panic(fmt.Sprintf("hoist: scope %d popped before it was drained (%d pending nodes)", sc.ID, len(sc.nodes)))
	}
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Unwind discards and pops every scope opened after sc, leaving sc innermost.
// Recovery paths call it before popping sc itself.
func (s *Stack) Unwind(sc *Scope) {
	for len(s.scopes) > 1 {
		top := s.scopes[len(s.scopes)-1]
		if top == sc {
			return
		}
		top.Discard()
		s.Pop(top)
	}
}

// Innermost returns the innermost open scope.
func (s *Stack) Innermost() *Scope {
	return s.scopes[len(s.scopes)-1]
}

// Outermost returns the program-lifetime scope.
func (s *Stack) Outermost() *Scope {
	return s.scopes[0]
}

// Hoist appends n to the innermost scope and returns it so its placeholder
// can be embedded in the expression under construction.
func Hoist[T Node](s *Stack, n T) T {
	s.Innermost().add(n)
	return n
}

// HoistToOutermost appends n to the outermost scope; used for items that
// become type members rather than block locals.
func HoistToOutermost[T Node](s *Stack, n T) T {
	s.Outermost().add(n)
	return n
}

// Settle moves the post-statements hoisted into the innermost scope since
// mark so they run as soon as value has been computed, ahead of the statement
// that consumes it. value is captured in a declaration first unless it already
// names a hoisted variable; the returned expression is what the statement must
// use in its place. Without such post-statements value is returned unchanged.
func (s *Stack) Settle(mark int, value *target.Expr, prefix, typ string) *target.Expr {
	sc := s.Innermost()
	if mark < 0 || mark > len(sc.nodes) {
		panic(fmt.Sprintf("hoist: settle mark %d out of range (%d nodes)", mark, len(sc.nodes)))
	}
	var keep, post []Node
	for _, n := range sc.nodes[mark:] {
		if st, ok := postStmt(n); ok {
			post = append(post, &Statement{Stmt: st})
			continue
		}
		keep = append(keep, n)
	}
	if len(post) == 0 {
		return value
	}
	nodes := append(sc.nodes[:mark:mark], keep...)
	if id := value.AsIdent(); !id.IsPlaceholder() {
		decl := NewDeclaration(prefix, value, typ)
		nodes = append(nodes, decl)
		value = decl.Ref()
	}
	sc.nodes = append(nodes, post...)
	return value
}

// postStmt returns the statement a node runs after the converted statements.
func postStmt(n Node) (*target.Stmt, bool) {
	switch n := n.(type) {
	case *Assignment:
		return target.Assign(n.LHS, n.RHS), true
	case *Statement:
		if n.Post {
			return n.Stmt, true
		}
	}
	return nil, false
}

// Fields lowers the StaticField nodes collected in the outermost scope, in
// hoist order.
func (s *Stack) Fields() []target.Field {
	var out []target.Field
	for _, n := range s.Outermost().nodes {
		if f, ok := n.(*StaticField); ok {
			out = append(out, f.Field())
		}
	}
	return out
}

// StaticFieldFor returns the field already hoisted for the given local, if any.
func (s *Stack) StaticFieldFor(method, accessor, name string) (*StaticField, bool) {
	for _, n := range s.Outermost().nodes {
		f, ok := n.(*StaticField)
		if ok && f.Method == method && f.Accessor == accessor && f.Var == name {
			return f, true
		}
	}
	return nil, false
}
