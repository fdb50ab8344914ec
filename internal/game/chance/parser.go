package chance

import (
	"fmt"
	"strconv"
	"strings"
)

// Roll represents a parsed roll expression ready to be evaluated.
// Precondition: Count >= 1, Sides >= 2 after successful ParseRoll.
type Roll struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// ParseRoll parses a roll expression string into a Roll.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2"
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a valid Roll or a descriptive error.
func ParseRoll(expr string) (Roll, error) {
	if expr == "" {
		return Roll{}, fmt.Errorf("chance: empty expression")
	}

	raw := expr
	s := strings.ToLower(expr)

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Roll{}, fmt.Errorf("chance: missing 'd' in expression %q", raw)
	}

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	var count int
	countStr := s[:dIdx]
	if countStr == "" {
		count = 1
	} else {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Roll{}, fmt.Errorf("chance: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Roll{}, fmt.Errorf("chance: invalid die count in %q: must be >= 1", raw)
		}
	}

	// Parse sides and optional modifier from the part after 'd'.
	// Find the first '+' or '-' that is not at position 0 (to skip leading sign).
	rest := s[dIdx+1:]
	modOffset := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			modOffset = i
			break
		}
	}

	var sidesStr, modStr string
	if modOffset >= 0 {
		sidesStr = rest[:modOffset]
		modStr = rest[modOffset:]
	} else {
		sidesStr = rest
		modStr = ""
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Roll{}, fmt.Errorf("chance: invalid die sides in %q: %w", raw, err)
	}
	if sides < 2 {
		return Roll{}, fmt.Errorf("chance: invalid die sides in %q: must be >= 2", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Roll{}, fmt.Errorf("chance: invalid modifier in %q: %w", raw, err)
		}
	}

	return Roll{
		Raw:      raw,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}

// MustParseRoll parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid roll expression.
func MustParseRoll(expr string) Roll {
	r, err := ParseRoll(expr)
	if err != nil {
		panic("chance: MustParseRoll failed for expression " + expr + ": " + err.Error())
	}
	return r
}
