// Package urlgen implements the sequential short code generator.
//
// Codes are drawn from a fixed 62-symbol alphabet and issued as a bijective
// counter: incrementing the previous code with a rightmost carry, and growing
// by one trailing symbol when the whole string overflows. Every length is
// exhausted before the next length begins, so no code is ever issued twice.
package urlgen

// charset defines the symbol set and its priority order: lowercase first,
// then uppercase, then digits. Code ordering follows this ranking, not ASCII.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// rank maps a symbol byte to its position in the charset, -1 for bytes
// outside the alphabet.
var rank [256]int

func init() {
	for i := range rank {
		rank[i] = -1
	}
	for i := 0; i < len(charset); i++ {
		rank[charset[i]] = i
	}
}

// ReservedSet holds codes that must never be issued, such as codes that
// would collide with static routes.
type ReservedSet map[string]struct{}

// NewReservedSet builds a ReservedSet from the given codes.
func NewReservedSet(codes ...string) ReservedSet {
	s := make(ReservedSet, len(codes))
	for _, code := range codes {
		s[code] = struct{}{}
	}
	return s
}

// Contains reports whether code is reserved.
func (s ReservedSet) Contains(code string) bool {
	_, ok := s[code]
	return ok
}

// Next returns the code that follows prev in the sequence, skipping any
// reserved codes. An empty prev yields the first code of the sequence.
// Next is pure: identical inputs always produce identical outputs, so the
// caller owns all shared state (the last issued code lives in the record
// store, not here).
func Next(prev string, reserved ReservedSet) string {
	code := successor(prev)
	for reserved.Contains(code) {
		code = successor(code)
	}
	return code
}

// successor performs a rightmost-carry increment over the charset. A symbol
// that wraps to the charset's first symbol carries into its left neighbor;
// when the leftmost symbol itself wraps, the code grows by one trailing
// first-symbol instead of resetting.
func successor(prev string) string {
	if prev == "" {
		return string(charset[0])
	}
	code := []byte(prev)
	for i := len(code) - 1; i >= 0; i-- {
		code[i] = charset[(rank[code[i]]+1)%len(charset)]
		if code[i] != charset[0] {
			return string(code)
		}
		if i == 0 {
			code = append(code, charset[0])
		}
	}
	return string(code)
}

// Compare orders two codes by issue order: shorter codes precede longer
// ones, and equal lengths compare symbol by symbol using the charset rank.
// It returns -1 when a precedes b, 1 when b precedes a, and 0 when equal.
func Compare(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a); i++ {
		ra, rb := rank[a[i]], rank[b[i]]
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
	}
	return 0
}
