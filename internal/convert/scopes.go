package convert

import "treeconv/internal/src"

// scopeMeta is what entering a statement of some kind means for the stack.
type scopeMeta struct {
	exit   src.ExitKind
	native bool // one target break leaves the construct
}

// scopeTable lists the exitable statement kinds; every other kind opens a
// plain scope.
var scopeTable = map[src.StmtKind]scopeMeta{
	src.StmtDo:      {exit: src.ExitDo, native: true},
	src.StmtWhile:   {exit: src.ExitWhile, native: true},
	src.StmtFor:     {exit: src.ExitFor, native: true},
	src.StmtForEach: {exit: src.ExitFor, native: true},
	src.StmtSelect:  {exit: src.ExitSelect},
	src.StmtTry:     {exit: src.ExitTry},
}

func scopeFor(kind src.StmtKind) scopeMeta {
	return scopeTable[kind]
}
