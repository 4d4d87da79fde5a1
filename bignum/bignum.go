// Package bignum implements signed integers of unbounded size stored as
// decimal digit strings.
//
// A number is written with an optional leading '-' followed by at least one
// digit. Results are always canonical: no redundant leading zeros, "0" for
// zero, and a sign only on negative values.
package bignum

import (
	"strconv"
	"strings"
)

// FromInt returns the digit string of i.
func FromInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// Valid reports whether s is a well-formed digit string.
func Valid(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Canonical strips leading zeros and normalizes negative zero.
func Canonical(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	if neg {
		return "-" + s
	}
	return s
}

// IsNegative reports whether s carries a minus sign.
func IsNegative(s string) bool {
	return strings.HasPrefix(s, "-")
}

// IsZero reports whether s denotes zero.
func IsZero(s string) bool {
	return Canonical(s) == "0"
}

// Neg flips the sign of s.
func Neg(s string) string {
	s = Canonical(s)
	switch {
	case s == "0":
		return s
	case IsNegative(s):
		return s[1:]
	default:
		return "-" + s
	}
}

// Add returns a+b.
func Add(a, b string) string {
	a, b = Canonical(a), Canonical(b)
	switch {
	case IsNegative(a) && !IsNegative(b):
		// -a + b -> b - a
		return Sub(b, a[1:])
	case !IsNegative(a) && IsNegative(b):
		// a + -b -> a - b
		return Sub(a, b[1:])
	case IsNegative(a) && IsNegative(b):
		return Neg(addDigits(a[1:], b[1:]))
	}
	return addDigits(a, b)
}

// Sub returns a-b.
func Sub(a, b string) string {
	a, b = Canonical(a), Canonical(b)
	if IsNegative(b) {
		// a - -b -> a + b
		return Add(a, b[1:])
	}
	if IsNegative(a) {
		// -a - b -> -(a + b)
		return Neg(Add(a[1:], b))
	}
	diff, borrow := subDigits(a, b)
	if borrow {
		// b > a: start over with the operands swapped.
		diff, _ = subDigits(b, a)
		return Neg(diff)
	}
	return diff
}

// Mul returns a*b.
func Mul(a, b string) string {
	a, b = Canonical(a), Canonical(b)
	neg := IsNegative(a) != IsNegative(b)
	a = strings.TrimPrefix(a, "-")
	b = strings.TrimPrefix(b, "-")

	prod := make([]int, len(a)+len(b))
	for i := len(a) - 1; i >= 0; i-- {
		da := int(a[i] - '0')
		for j := len(b) - 1; j >= 0; j-- {
			prod[i+j+1] += da * int(b[j]-'0')
		}
	}
	for k := len(prod) - 1; k > 0; k-- {
		prod[k-1] += prod[k] / 10
		prod[k] %= 10
	}
	out := make([]byte, len(prod))
	for k, d := range prod {
		out[k] = byte(d) + '0'
	}
	res := Canonical(string(out))
	if neg && res != "0" {
		return "-" + res
	}
	return res
}

// Cmp compares a and b by the sign of their difference, returning -1, 0
// or +1.
func Cmp(a, b string) int {
	d := Sub(a, b)
	switch {
	case d == "0":
		return 0
	case IsNegative(d):
		return -1
	default:
		return 1
	}
}

// addDigits adds two unsigned digit strings right to left.
func addDigits(a, b string) string {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n+1)
	carry := 0
	ai, bi := len(a)-1, len(b)-1
	for ri := n; ri >= 1; ri-- {
		d := carry
		if ai >= 0 {
			d += int(a[ai] - '0')
			ai--
		}
		if bi >= 0 {
			d += int(b[bi] - '0')
			bi--
		}
		carry = d / 10
		out[ri] = byte(d%10) + '0'
	}
	out[0] = byte(carry) + '0'
	return Canonical(string(out))
}

// subDigits subtracts two unsigned digit strings right to left. The second
// result reports a borrow out of the most significant digit, meaning b > a
// and the digits are meaningless.
func subDigits(a, b string) (string, bool) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]byte, n)
	borrow := 0
	ai, bi := len(a)-1, len(b)-1
	for ri := n - 1; ri >= 0; ri-- {
		d := -borrow
		if ai >= 0 {
			d += int(a[ai] - '0')
			ai--
		}
		if bi >= 0 {
			d -= int(b[bi] - '0')
			bi--
		}
		if d < 0 {
			d += 10
			borrow = 1
		} else {
			borrow = 0
		}
		out[ri] = byte(d) + '0'
	}
	return Canonical(string(out)), borrow == 1
}
