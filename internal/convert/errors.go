package convert

import (
	"errors"
	"fmt"

	"treeconv/internal/diag"
	"treeconv/internal/hoist"
	"treeconv/internal/source"
)

// UnsupportedError reports a source construct with no conversion rule. The
// decorator turns it into a diagnostic statement; it never aborts a unit.
type UnsupportedError struct {
	What   string
	Reason string
	Span   source.Span
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "cannot convert " + e.What
	}
	return fmt.Sprintf("cannot convert %s: %s", e.What, e.Reason)
}

func unsupported(sp source.Span, what, reason string) error {
	return &UnsupportedError{What: what, Reason: reason, Span: sp}
}

// codeOf picks the diagnostic code for a failed statement.
func codeOf(err error) diag.Code {
	var unsup *UnsupportedError
	var noTarget *hoist.ErrNoExitTarget
	switch {
	case errors.As(err, &unsup):
		return diag.ConvUnsupported
	case errors.As(err, &noTarget):
		return diag.ConvNoExitTarget
	default:
		return diag.ConvInternal
	}
}
