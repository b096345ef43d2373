package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPrettyKeepsComponents(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	orig := Version
	defer func() { Version = orig }()

	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.3.0-dev", "0.3.0-dev"},
		{"v2.0.1-rc.1", "2.0.1-rc.1"},
		{"not-a-version", "not-a-version"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Pretty(); got != tt.want {
			t.Errorf("Pretty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultVersionParses(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if Pretty() != Version {
		t.Errorf("default version %q should be valid semver", Version)
	}
}
