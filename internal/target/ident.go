// Package target models the tree the converter produces: C#-flavoured
// statements and expressions, identifiers that may still be placeholders, and
// type-level field members.
package target

import (
	"fmt"
	"sync/atomic"
)

// Placeholder is the marker annotation of a not-yet-named identifier. Tokens
// are unique for the whole process so trees from concurrent conversions never
// collide.
type Placeholder uint64

// NoPlaceholder marks a final identifier.
const NoPlaceholder Placeholder = 0

var placeholderSeq uint64

// NextPlaceholder returns a fresh, globally unique token.
func NextPlaceholder() Placeholder {
	return Placeholder(atomic.AddUint64(&placeholderSeq, 1))
}

// Ident is an identifier node. While Placeholder is set, Name holds the
// requested prefix, not the final spelling.
type Ident struct {
	Name        string
	Placeholder Placeholder
}

// NewIdent returns a final identifier.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// NewPlaceholderIdent returns an identifier tagged with a fresh token.
func NewPlaceholderIdent(prefix string) *Ident {
	return &Ident{Name: prefix, Placeholder: NextPlaceholder()}
}

// IsPlaceholder reports whether the identifier still awaits its final name.
func (id *Ident) IsPlaceholder() bool {
	return id != nil && id.Placeholder != NoPlaceholder
}

// Ref returns a new identifier node carrying the same token (or final name),
// for embedding the same variable at another position.
func (id *Ident) Ref() *Ident {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

func (id *Ident) String() string {
	if id == nil {
		return "<nil>"
	}
	if id.IsPlaceholder() {
		return fmt.Sprintf("{{%s#%d}}", id.Name, id.Placeholder)
	}
	return id.Name
}
