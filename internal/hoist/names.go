package hoist

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"treeconv/internal/source"
	"treeconv/internal/target"
)

// Names records identifiers finalized earlier in the document and allocates
// collision-free names for placeholders.
type Names struct {
	fold   bool
	folder cases.Caser
	used   map[string]struct{}
}

// NewNames returns an empty registry. With caseInsensitive set, names that
// differ only in case collide, matching the source language's binding rules.
func NewNames(caseInsensitive bool) *Names {
	return &Names{
		fold:   caseInsensitive,
		folder: cases.Fold(),
		used:   make(map[string]struct{}),
	}
}

func (n *Names) key(name string) string {
	name = norm.NFC.String(name)
	if !n.fold {
		return name
	}
	return n.folder.String(name)
}

// Reserve marks name as taken for the rest of the document.
func (n *Names) Reserve(name string) {
	n.used[n.key(name)] = struct{}{}
}

// Taken reports whether name was finalized or reserved before.
func (n *Names) Taken(name string) bool {
	_, ok := n.used[n.key(name)]
	return ok
}

// Len returns the number of taken names.
func (n *Names) Len() int {
	return len(n.used)
}

// Request asks for a final name for one placeholder.
type Request struct {
	Token  target.Placeholder
	Prefix string
}

// Finalize allocates one name per request, in order. Each candidate is tried
// as prefix, prefix1, prefix2, ... and rejected while it is visible in
// source, finalized earlier in the document or used by an earlier request of
// the same batch. Allocated names are recorded in the registry.
func (n *Names) Finalize(reqs []Request, visible []string) map[target.Placeholder]string {
	if len(reqs) == 0 {
		return nil
	}
	inSource := make(map[string]struct{}, len(visible))
	for _, v := range visible {
		inSource[n.key(v)] = struct{}{}
	}
	batch := make(map[string]struct{}, len(reqs))
	out := make(map[target.Placeholder]string, len(reqs))

	for _, r := range reqs {
		if _, done := out[r.Token]; done {
			continue
		}
		prefix := r.Prefix
		if prefix == "" {
			prefix = "tmp"
		}
		candidate := prefix
		for i := 1; ; i++ {
			k := n.key(candidate)
			_, vis := inSource[k]
			_, prev := n.used[k]
			_, sib := batch[k]
			if !vis && !prev && !sib {
				batch[k] = struct{}{}
				n.used[k] = struct{}{}
				out[r.Token] = candidate
				break
			}
			candidate = prefix + strconv.Itoa(i)
		}
	}
	return out
}

// visibleAt queries the oracle; when it cannot answer, the batch proceeds as
// if nothing from source were visible.
func (s *Stack) visibleAt(sp source.Span) []string {
	if s.oracle == nil {
		return nil
	}
	names, ok := s.oracle.VisibleNames(sp)
	if !ok {
		return nil
	}
	return names
}
