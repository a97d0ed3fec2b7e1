package domain

import "math"

// MaxDay bounds issue days, creation days, lead times and the day counter.
// A delivery is at most 2*MaxDay, which stays inside the four-digit years of
// DateLayout for epochs up to year 4000.
const MaxDay = 1_000_000

// AddQty returns a+b and whether the sum fits in an int.
func AddQty(a, b int) (int, bool) {
	if b > 0 && a > math.MaxInt-b {
		return 0, false
	}
	if b < 0 && a < math.MinInt-b {
		return 0, false
	}
	return a + b, true
}

// MulQty returns a*b for non-negative operands and whether the product fits in an int.
func MulQty(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// SaturatingAdd returns a+b clamped to math.MaxInt for non-negative operands.
func SaturatingAdd(a, b int) int {
	if sum, ok := AddQty(a, b); ok {
		return sum
	}
	return math.MaxInt
}
