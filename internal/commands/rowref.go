package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// ErrRowRefRequired indicates no row number was provided.
var ErrRowRefRequired = errors.New("task number required")

// ParseRowRef parses a 1-based row number of the filtered view from args and
// returns the 0-based store index.
//
// Parsing rules:
// 1. No args → ErrRowRefRequired
// 2. First arg all digits → that row
// 3. Otherwise → error: invalid task reference: <ref>
//
// Range checks against the view are left to the caller.
func ParseRowRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrRowRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("invalid task reference: %s", args[1])
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num - 1, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
