package models

import (
	"encoding"
	"fmt"
)

// Grade is the learner's self-reported recall quality.
type Grade int

const (
	Again Grade = iota + 1 // failed recall, resets repetition progress
	Hard                   // recalled with significant difficulty
	Good                   // recalled with some effort
	Easy                   // recalled effortlessly
)

var (
	gradeNames  = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}
	gradeByName = map[string]Grade{
		"Again": Again,
		"Hard":  Hard,
		"Good":  Good,
		"Easy":  Easy,
	}
)

var (
	_ fmt.Stringer             = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// String returns "Again", "Hard", "Good" or "Easy", or "Grade(n)" for
// invalid values.
func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// IsValid reports whether g is one of the four defined grades.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

// Quality maps the grade onto the SM-2 quality scale (lower = worse recall).
func (g Grade) Quality() int {
	return int(g) + 1 // Again=2, Hard=3, Good=4, Easy=5
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("marshal grade: invalid value %d", int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	v, ok := gradeByName[string(text)]
	if !ok {
		return fmt.Errorf("unmarshal grade: unknown value %q", text)
	}
	*g = v
	return nil
}
