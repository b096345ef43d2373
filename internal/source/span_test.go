package source

import (
	"testing"
)

func TestSpanFromOffsets(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		want    Span
		wantErr bool
	}{
		{name: "normal range", start: 3, end: 9, want: Span{File: 1, Start: 3, End: 9}},
		{name: "empty range", start: 4, end: 4, want: Span{File: 1, Start: 4, End: 4}},
		{name: "negative start", start: -1, end: 4, wantErr: true},
		{name: "end before start", start: 8, end: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpanFromOffsets(1, tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SpanFromOffsets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpan_Contains(t *testing.T) {
	outer := Span{File: 1, Start: 10, End: 40}
	tests := []struct {
		name  string
		inner Span
		want  bool
	}{
		{"inside", Span{File: 1, Start: 12, End: 20}, true},
		{"same", outer, true},
		{"overlaps end", Span{File: 1, Start: 30, End: 41}, false},
		{"other file", Span{File: 2, Start: 12, End: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestSpan_Cover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	c := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(c); got != a {
		t.Errorf("Cover across files must keep receiver, got %v", got)
	}
}
