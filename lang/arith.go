package lang

import (
	"bytes"
	"math"

	"github.com/sergev/minilisp/bignum"
)

// primFold folds + - * / % over its evaluated arguments. The accumulator
// starts as a copy of the first argument. Fixed-width results that would
// overflow continue as bignums; a bignum never turns back into a fixed
// integer.
func primFold(ev *Evaluator, self, args, env *Value) *Value {
	op := Op(self.Int)
	if car(args) == nil {
		return ev.heap.Error(ErrInvalidParamType)
	}
	first := ev.Eval(args.Car, env)
	if !first.IsNumber() {
		return ev.heap.Error(ErrInvalidParamType)
	}
	acc := ev.heap.Clone(first, ev.heap.Scope())

	for _, expr := range elems(args.Next) {
		operand := ev.Eval(expr, env)
		if !operand.IsNumber() {
			return ev.heap.Error(ErrInvalidParamType)
		}
		if acc.Type == TypeInt && operand.Type == TypeInt {
			res, fits, valid := foldInt(op, acc.Int, operand.Int)
			if !valid {
				return ev.heap.Error(ErrInvalidParamType)
			}
			if fits {
				acc.Int = res
				continue
			}
		}
		if op == OpDiv || op == OpMod {
			return ev.heap.Error(ErrInvalidParamType)
		}
		if acc.Type == TypeInt {
			promote(acc)
		}
		b := digits(operand)
		switch op {
		case OpAdd:
			acc.Buf = []byte(bignum.Add(string(acc.Buf), b))
		case OpSub:
			acc.Buf = []byte(bignum.Sub(string(acc.Buf), b))
		case OpMul:
			acc.Buf = []byte(bignum.Mul(string(acc.Buf), b))
		}
	}
	return acc
}

// foldInt applies op to fixed-width operands. fits is false when the result
// does not fit and the caller must continue in extended precision; valid is
// false for division by zero.
func foldInt(op Op, a, b int64) (res int64, fits, valid bool) {
	switch op {
	case OpAdd:
		res = a + b
		return res, !((a > 0 && b > 0 && res < 0) || (a < 0 && b < 0 && res >= 0)), true
	case OpSub:
		res = a - b
		return res, !((a >= 0 && b < 0 && res < 0) || (a < 0 && b > 0 && res >= 0)), true
	case OpMul:
		if a == 0 || b == 0 {
			return 0, true, true
		}
		res = a * b
		if res/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return 0, false, true
		}
		return res, true, true
	case OpDiv:
		if b == 0 || (a == math.MinInt64 && b == -1) {
			return 0, false, false
		}
		return a / b, true, true
	case OpMod:
		if b == 0 {
			return 0, false, false
		}
		if b == -1 {
			return 0, true, true
		}
		return a % b, true, true
	}
	return 0, false, false
}

// promote turns a fixed-width integer into a bignum in place.
func promote(v *Value) {
	v.Buf = []byte(bignum.FromInt(v.Int))
	v.Int = 0
	v.Type = TypeBignum
}

// digits returns the decimal digit string of a number.
func digits(v *Value) string {
	if v.Type == TypeBignum {
		return string(v.Buf)
	}
	return bignum.FromInt(v.Int)
}

func ordered(v *Value) bool {
	switch v.Type {
	case TypeInt, TypeBignum, TypeString, TypeSymbol:
		return true
	}
	return false
}

func isText(v *Value) bool {
	return v.Type == TypeString || v.Type == TypeSymbol
}

// primCompare implements < > =. Numbers compare numerically, strings and
// symbols by byte order. Mixing the two is an error.
func primCompare(ev *Evaluator, self, args, env *Value) *Value {
	a := ev.evalArg(args, 0, env)
	b := ev.evalArg(args, 1, env)
	if !ordered(a) || !ordered(b) || isText(a) != isText(b) {
		return ev.heap.Error(ErrInvalidParamType)
	}

	var c int
	switch {
	case isText(a):
		c = bytes.Compare(a.Buf, b.Buf)
	case a.Type == TypeInt && b.Type == TypeInt:
		switch {
		case a.Int < b.Int:
			c = -1
		case a.Int > b.Int:
			c = 1
		}
	default:
		c = bignum.Cmp(digits(a), digits(b))
	}

	var hit bool
	switch Op(self.Int) {
	case OpLess:
		hit = c < 0
	case OpGreater:
		hit = c > 0
	case OpEqual:
		hit = c == 0
	}
	if hit {
		return ev.heap.Int(1)
	}
	return ev.heap.Int(0)
}
