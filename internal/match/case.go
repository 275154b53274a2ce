package match

import (
	"golang.org/x/text/cases"
)

// CaseMode selects how letters of different case compare.
type CaseMode int

const (
	CaseSensitive CaseMode = iota
	CaseInsensitive
)

// String returns the config spelling of the mode.
func (c CaseMode) String() string {
	if c == CaseInsensitive {
		return "insensitive"
	}
	return "sensitive"
}

// ParseCaseMode converts a config string into a CaseMode.
func ParseCaseMode(s string) (CaseMode, bool) {
	switch s {
	case "sensitive", "":
		return CaseSensitive, true
	case "insensitive":
		return CaseInsensitive, true
	default:
		return CaseSensitive, false
	}
}

// folder maps a string to the form used for comparison.
type folder func(string) string

func (c CaseMode) folder() folder {
	if c != CaseInsensitive {
		return func(s string) string { return s }
	}
	caser := cases.Fold()
	return func(s string) string {
		return caser.String(s)
	}
}
