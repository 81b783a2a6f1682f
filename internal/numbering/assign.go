// Package numbering gives every channel a stable display number.
package numbering

import "strings"

// Fallback numbers for channels that match nothing more specific
const (
	FallbackMin = 900
	FallbackMax = 998
	LastResort  = 999
)

// Range is a block of numbers for channels whose name contains any keyword
type Range struct {
	Category string
	Min      int
	Max      int
	Keywords []string
}

// preferred holds well-known channel numbers, keyed by lower-cased name
var preferred = map[string]int{
	"action":          201,
	"adventure":       202,
	"thriller":        203,
	"crime":           204,
	"war":             205,
	"western":         206,
	"comedy":          301,
	"animation":       302,
	"family":          303,
	"kids":            304,
	"romance":         305,
	"drama":           401,
	"documentary":     402,
	"biography":       403,
	"history":         404,
	"sport":           405,
	"music":           406,
	"mystery":         601,
	"scary halloween": 613,
	"horror":          666,
	"sci-fi":          701,
	"science fiction": 701,
	"fantasy":         702,
	"new years":       801,
	"valentines":      802,
	"summer":          807,
	"cozy halloween":  810,
	"thanksgiving":    811,
	"christmas":       812,
}

// reserved is the set of preferred numbers, kept free for their owners
var reserved = func() map[int]struct{} {
	out := make(map[int]struct{}, len(preferred))
	for _, n := range preferred {
		out[n] = struct{}{}
	}
	return out
}()

// DefaultRanges returns the category blocks. Holidays are listed first so a
// "Halloween Horror" channel lands with the other holiday channels.
func DefaultRanges() []Range {
	return []Range{
		{Category: "holiday", Min: 800, Max: 899, Keywords: []string{"christmas", "xmas", "halloween", "thanksgiving", "valentine", "new year", "easter", "holiday", "summer"}},
		{Category: "action", Min: 200, Max: 299, Keywords: []string{"action", "adventure", "thriller", "crime", "war", "western", "martial"}},
		{Category: "comedy", Min: 300, Max: 399, Keywords: []string{"comedy", "animation", "animated", "family", "kids", "romance", "romantic"}},
		{Category: "drama", Min: 400, Max: 499, Keywords: []string{"drama", "documentary", "biography", "history", "sport", "music"}},
		{Category: "horror", Min: 600, Max: 699, Keywords: []string{"horror", "mystery", "scary", "suspense", "slasher"}},
		{Category: "scifi", Min: 700, Max: 799, Keywords: []string{"sci-fi", "science", "fantasy", "space"}},
	}
}

// PreferredNumber returns the well-known number for name, if it has one
func PreferredNumber(name string) (int, bool) {
	n, ok := preferred[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

// AssignNumber picks a number for name that is not in used. It tries the
// well-known number, then the first category range whose keyword appears in
// the name, then the fallback block, then 999 and upward.
// Range and fallback picks skip numbers reserved for well-known channels.
func AssignNumber(name string, used map[int]bool, ranges []Range) int {
	if n, ok := PreferredNumber(name); ok && !used[n] {
		return n
	}

	lower := strings.ToLower(name)
	for _, r := range ranges {
		if !containsAny(lower, r.Keywords) {
			continue
		}
		if n, ok := firstFree(r.Min, r.Max, used); ok {
			return n
		}
	}

	if n, ok := firstFree(FallbackMin, FallbackMax, used); ok {
		return n
	}

	n := LastResort
	for used[n] {
		n++
	}
	return n
}

func firstFree(lo, hi int, used map[int]bool) (int, bool) {
	for n := lo; n <= hi; n++ {
		if used[n] {
			continue
		}
		if _, taken := reserved[n]; taken {
			continue
		}
		return n, true
	}
	return 0, false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
