package core

import (
	"reflect"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pmezard/go-difflib/difflib"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// RoundDiv returns a/b rounded half up, or 0 when b is 0. a and b must not be negative.
func RoundDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (2*a + b) / (2 * b)
}

// Percent returns part/total as a rounded percentage, 0 when total is 0.
func Percent(part, total int) int {
	return RoundDiv(100*part, total)
}

// ClosestMatch returns the candidate most similar to word (case-insensitive),
// or "" when none reaches cutoff (0..1).
func ClosestMatch(word string, candidates []string, cutoff float64) string {
	word = CleanString(word, true /* lower */)
	if word == "" {
		return ""
	}
	var (
		best      string
		bestRatio float64
	)
	for _, cand := range candidates {
		ratio := difflib.NewMatcher(
			strings.Split(word, ""),
			strings.Split(strings.ToLower(cand), ""),
		).Ratio()
		if ratio >= cutoff && ratio > bestRatio {
			best, bestRatio = cand, ratio
		}
	}
	return best
}

// IsNotNil is vala.IsNotNil for interface arguments of any kind:
// values that cannot be nil (structs, numbers, ...) pass instead of panicking.
func IsNotNil(obtained interface{}, paramName string) vala.Checker {
	return func() (bool, string) {
		msg := "Parameter was nil: " + paramName
		if obtained == nil {
			return false, msg
		}
		switch v := reflect.ValueOf(obtained); v.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return !v.IsNil(), msg
		default:
			return true, msg
		}
	}
}
