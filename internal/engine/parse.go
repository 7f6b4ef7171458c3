package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseMode selects how non-empty cells that are not plain numbers are read.
type ParseMode int

const (
	// ParseLenient reads the longest numeric prefix of a cell ("12abc" -> 12)
	// and falls back to 0 when there is none.
	ParseLenient ParseMode = iota
	// ParseStrict accepts only a whole, finite, non-negative decimal number.
	// Anything else is stored as NullAmount.
	ParseStrict
)

func (m ParseMode) String() string {
	switch m {
	case ParseLenient:
		return "lenient"
	case ParseStrict:
		return "strict"
	default:
		return fmt.Sprintf("ParseMode(%d)", int(m))
	}
}

// ParseModeOf maps "lenient" or "strict" (any case) to a ParseMode.
func ParseModeOf(s string) (ParseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return ParseLenient, nil
	case "strict":
		return ParseStrict, nil
	default:
		return 0, fmt.Errorf("unknown parse mode %q (want lenient or strict)", s)
	}
}

// parseAmount converts a raw cell. ok is false when the cell was non-empty
// but not a well-formed number under mode.
func parseAmount(cell string, mode ParseMode) (a Amount, ok bool) {
	if cell == "" {
		return NullAmount, true
	}
	trimmed := strings.TrimSpace(cell)
	n := numericPrefix(trimmed)

	if mode == ParseStrict {
		if n == 0 || n != len(trimmed) {
			return NullAmount, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsInf(f, 0) || f < 0 {
			return NullAmount, false
		}
		return Amount(f), true
	}

	if n == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed[:n], 64)
	if err != nil {
		return 0, false
	}
	return Amount(f), n == len(trimmed)
}

// numericPrefix returns the length of the longest prefix of s that reads as
// a decimal float: sign, digits, optional fraction, optional exponent.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
