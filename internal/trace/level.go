package trace

import (
	"fmt"
	"strings"
)

// Level is how deep into the conversion events go.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // recorded only to be dumped on failure
	LevelPhase        // driver and pass spans
	LevelDetail       // plus one span per unit
	LevelDebug        // plus every converted statement
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel parses a [trace].level value; empty means off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// deepest is the finest scope each level records.
var deepest = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeUnit,
	LevelDebug:  ScopeNode,
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(deepest) && scope <= deepest[l]
}
