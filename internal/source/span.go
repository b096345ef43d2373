package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Span is a half-open byte range inside one document.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// SpanFromOffsets builds a span from int offsets as produced by decoders.
// Negative or overflowing offsets are rejected.
func SpanFromOffsets(file FileID, start, end int) (Span, error) {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return Span{}, fmt.Errorf("span start %d: %w", start, err)
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return Span{}, fmt.Errorf("span end %d: %w", end, err)
	}
	if e < s {
		return Span{}, fmt.Errorf("span end %d before start %d", end, start)
	}
	return Span{File: file, Start: s, End: e}, nil
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsSynthetic reports whether the span was not taken from the input.
func (s Span) IsSynthetic() bool {
	return s.File == NoFileID && s.Start == 0 && s.End == 0
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully within s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
