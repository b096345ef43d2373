package src

// ExitKind names the construct an Exit/Continue statement leaves. It doubles
// as the exitable kind of a converter scope.
type ExitKind uint8

const (
	ExitNone ExitKind = iota
	ExitDo
	ExitFor // For and For Each
	ExitWhile
	ExitSelect
	ExitTry
	ExitSub
	ExitFunction
	ExitProperty
)

// String returns the keyword spelling of the kind.
func (k ExitKind) String() string {
	switch k {
	case ExitNone:
		return "None"
	case ExitDo:
		return "Do"
	case ExitFor:
		return "For"
	case ExitWhile:
		return "While"
	case ExitSelect:
		return "Select"
	case ExitTry:
		return "Try"
	case ExitSub:
		return "Sub"
	case ExitFunction:
		return "Function"
	case ExitProperty:
		return "Property"
	default:
		return "Unknown"
	}
}

// LeavesMethod reports whether the exit returns from the enclosing method.
func (k ExitKind) LeavesMethod() bool {
	return k == ExitSub || k == ExitFunction || k == ExitProperty
}

// IsLoop reports whether the kind names a loop construct.
func (k ExitKind) IsLoop() bool {
	return k == ExitDo || k == ExitFor || k == ExitWhile
}

// ParseExitKind converts a keyword to ExitKind; unknown keywords map to ExitNone.
func ParseExitKind(s string) ExitKind {
	switch s {
	case "Do", "do":
		return ExitDo
	case "For", "for":
		return ExitFor
	case "While", "while":
		return ExitWhile
	case "Select", "select":
		return ExitSelect
	case "Try", "try":
		return ExitTry
	case "Sub", "sub":
		return ExitSub
	case "Function", "function":
		return ExitFunction
	case "Property", "property":
		return ExitProperty
	default:
		return ExitNone
	}
}
