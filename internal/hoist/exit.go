package hoist

import (
	"fmt"

	"treeconv/internal/src"
	"treeconv/internal/target"
)

// ExitMode selects between leaving a construct and starting its next iteration.
type ExitMode uint8

const (
	ModeBreak ExitMode = iota
	ModeContinue
)

func (m ExitMode) String() string {
	if m == ModeContinue {
		return "continue"
	}
	return "exit"
}

// ErrNoExitTarget is returned when no enclosing construct matches the exit.
type ErrNoExitTarget struct {
	Kind src.ExitKind
	Mode ExitMode
}

func (e *ErrNoExitTarget) Error() string {
	if e.Mode == ModeContinue {
		return fmt.Sprintf("'Continue %s' must be inside a %s loop", e.Kind, e.Kind)
	}
	return fmt.Sprintf("'Exit %s' must be inside a %s block", e.Kind, e.Kind)
}

// ExitPlan is the resolved route of one exit statement.
type ExitPlan struct {
	Target *Scope
	// Crossed lists the exitable scopes between the exit site and Target,
	// innermost first. Plain blocks are not part of it.
	Crossed []*Scope
	Flags   []*ExitFlag
}

// Exit replaces an exit of the given kind issued from the innermost scope.
//
// The open scopes are walked innermost-outward, collecting every exitable
// scope up to and including the first one of the requested kind; function
// barriers end the walk. Each crossed scope gets an ExitFlag (declared false
// ahead of it, checked right after it) because a single target break would
// stop there: natively breakable scopes catch the break themselves, the others
// are wrapped in a single-iteration loop that does. The exit site becomes
// "set every flag; break". Without crossed scopes it is a lone break (or
// continue), and a target with no native break is wrapped.
func (s *Stack) Exit(kind src.ExitKind, mode ExitMode) ([]*target.Stmt, *ExitPlan, error) {
	plan, err := s.planExit(kind, mode)
	if err != nil {
		return nil, nil, err
	}

	if len(plan.Crossed) == 0 {
		if mode == ModeContinue {
			return []*target.Stmt{target.Continue()}, plan, nil
		}
		if !plan.Target.NativelyBreakable {
			plan.Target.exited = true
		}
		return []*target.Stmt{target.Break()}, plan, nil
	}

	if mode == ModeBreak && !plan.Target.NativelyBreakable {
		plan.Target.exited = true
	}

	out := make([]*target.Stmt, 0, len(plan.Crossed)+1)
	last := len(plan.Crossed) - 1
	for i, sc := range plan.Crossed {
		resume := target.StmtBreak
		if mode == ModeContinue && i == last {
			resume = target.StmtContinue
		}
		flag := sc.flagFor(plan.Target, kind, mode, resume)
		sc.exited = true
		plan.Flags = append(plan.Flags, flag)
		out = append(out, target.Assign(flag.Ref(), target.True()))
	}
	out = append(out, target.Break())
	return out, plan, nil
}

func (s *Stack) planExit(kind src.ExitKind, mode ExitMode) (*ExitPlan, error) {
	plan := &ExitPlan{}
	for i := len(s.scopes) - 1; i > 0; i-- {
		sc := s.scopes[i]
		if sc.Barrier {
			break
		}
		if !sc.Exitable() {
			continue
		}
		if sc.Kind == kind && (mode == ModeBreak || kind.IsLoop()) {
			plan.Target = sc
			return plan, nil
		}
		plan.Crossed = append(plan.Crossed, sc)
	}
	return nil, &ErrNoExitTarget{Kind: kind, Mode: mode}
}

// flagFor returns the flag sc already carries for exits to tgt, hoisting a new
// one on first use.
func (sc *Scope) flagFor(tgt *Scope, kind src.ExitKind, mode ExitMode, resume target.StmtKind) *ExitFlag {
	key := flagKey{target: tgt.ID, mode: mode}
	if f, ok := sc.flags[key]; ok {
		return f
	}
	prefix := "exit" + kind.String()
	if mode == ModeContinue {
		prefix = "continue" + kind.String()
	}
	f := &ExitFlag{
		Owner:  sc.ID,
		Target: tgt.ID,
		Mode:   mode,
		Resume: resume,
		ident:  target.NewPlaceholderIdent(prefix),
	}
	if sc.flags == nil {
		sc.flags = make(map[flagKey]*ExitFlag)
	}
	sc.flags[key] = f
	sc.add(f)
	return f
}
