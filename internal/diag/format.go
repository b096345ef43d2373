package diag

import (
	"fmt"
	"strings"
)

// FormatLines renders diagnostics one per line as
// "severity CODE file:start-end message", with notes as indented lines.
// Output order follows the input; callers sort the bag first.
func FormatLines(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "%s %s %s %s\n", d.Severity.Label(), d.Code.ID(), d.Primary, sanitizeMessage(d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "  note %s %s\n", n.Span, sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
