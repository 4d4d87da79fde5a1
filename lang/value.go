package lang

import "fmt"

// ValueType enumerates the different runtime value categories. The numeric
// codes are visible to programs through the type builtin.
type ValueType int

const (
	TypeInt ValueType = iota
	TypePair
	TypeSymbol
	TypeClosure
	TypeBuiltin
	TypeBignum
	TypeString
	TypeBytes
	_
	TypeError
	TypeLet

	numTypes
)

var typeNames = [numTypes]string{
	TypeInt:     "int",
	TypePair:    "pair",
	TypeSymbol:  "symbol",
	TypeClosure: "closure",
	TypeBuiltin: "builtin",
	TypeBignum:  "bignum",
	TypeString:  "string",
	TypeBytes:   "bytes",
	TypeError:   "error",
	TypeLet:     "let",
}

func (t ValueType) String() string {
	if t >= 0 && t < numTypes && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("type%d", int(t))
}

// NativeFunc is a host function reachable through the native builtin. It
// receives the already evaluated argument list.
type NativeFunc func(ev *Evaluator, args *Value, env *Value) *Value

// Value is the single cell every datum is built from.
//
// Which fields are meaningful depends on Type:
//
//	TypeInt              Int
//	TypeBignum           Buf holds decimal digits, optionally signed
//	TypeSymbol           Buf holds the name
//	TypeString, Bytes    Buf holds the payload
//	TypePair             Car and Next; both nil for the empty list
//	TypeClosure          Car is the parameter list, Next the body list
//	TypeLet              Car is the binding list, Next the body list
//	TypeBuiltin          Int is the opcode, Native the host function
//	TypeError            Int is the error code
//
// Scope records the allocation scope the cell was created in.
type Value struct {
	Type   ValueType
	Int    int64
	Buf    []byte
	Car    *Value
	Next   *Value
	Native NativeFunc
	Scope  uint32
}

// Nil returns a fresh empty list.
func Nil() *Value {
	return &Value{Type: TypePair}
}

// IntValue constructs an integer Value.
func IntValue(i int64) *Value {
	return &Value{Type: TypeInt, Int: i}
}

// BignumValue constructs an extended precision integer from its digits.
func BignumValue(digits string) *Value {
	return &Value{Type: TypeBignum, Buf: []byte(digits)}
}

// StringValue constructs a string Value.
func StringValue(s string) *Value {
	return &Value{Type: TypeString, Buf: []byte(s)}
}

// BytesValue constructs a byte vector holding a copy of b.
func BytesValue(b []byte) *Value {
	return &Value{Type: TypeBytes, Buf: append(make([]byte, 0, len(b)), b...)}
}

// SymbolValue constructs a symbol Value.
func SymbolValue(s string) *Value {
	return &Value{Type: TypeSymbol, Buf: []byte(s)}
}

// ErrorValue constructs an error Value.
func ErrorValue(code ErrorCode) *Value {
	return &Value{Type: TypeError, Int: int64(code)}
}

// PairValue constructs a pair Value.
func PairValue(car, next *Value) *Value {
	return &Value{Type: TypePair, Car: car, Next: next}
}

// List constructs a proper list from provided values.
func List(vals ...*Value) *Value {
	result := Nil()
	for i := len(vals) - 1; i >= 0; i-- {
		result = PairValue(vals[i], result)
	}
	return result
}

// Quote wraps v so that evaluating the result yields v unchanged.
func Quote(v *Value) *Value {
	return List(&Value{Type: TypeBuiltin, Int: int64(OpQuote)}, v)
}

// ToSlice converts a proper list into a Go slice.
func ToSlice(list *Value) ([]*Value, error) {
	if list == nil || list.Type != TypePair {
		return nil, fmt.Errorf("expected proper list")
	}
	var out []*Value
	for cur := list; !cur.IsNil(); cur = cur.Next {
		if cur.Next == nil || cur.Next.Type != TypePair {
			return nil, fmt.Errorf("expected proper list")
		}
		out = append(out, cur.Car)
	}
	return out, nil
}

// IsNil reports whether v is the empty list.
func (v *Value) IsNil() bool {
	return v != nil && v.Type == TypePair && v.Car == nil && v.Next == nil
}

// IsNumber reports whether v is a fixed or extended precision integer.
func (v *Value) IsNumber() bool {
	return v != nil && (v.Type == TypeInt || v.Type == TypeBignum)
}

// IsProcedure reports whether v can be applied.
func (v *Value) IsProcedure() bool {
	return v != nil && (v.Type == TypeClosure || v.Type == TypeBuiltin)
}

// IsError reports whether v is an error value.
func (v *Value) IsError() bool {
	return v != nil && v.Type == TypeError
}

// Truthy reports whether v counts as true. Only the empty list is false.
func (v *Value) Truthy() bool {
	return v != nil && !v.IsNil()
}

// Str returns the payload of a string, symbol, bytes or bignum value.
func (v *Value) Str() string {
	if v == nil {
		return ""
	}
	return string(v.Buf)
}

// Code returns the error code of an error value.
func (v *Value) Code() ErrorCode {
	return ErrorCode(v.Int)
}

// car returns the head of a pair, or nil for anything else.
func car(v *Value) *Value {
	if v == nil || v.Type != TypePair {
		return nil
	}
	return v.Car
}

// cdr returns the tail of a pair, or nil for anything else.
func cdr(v *Value) *Value {
	if v == nil || v.Type != TypePair {
		return nil
	}
	return v.Next
}

// elems collects the elements of a list, stopping at the first cell that
// does not carry one.
func elems(list *Value) []*Value {
	var out []*Value
	for cur := list; car(cur) != nil; cur = cur.Next {
		out = append(out, cur.Car)
	}
	return out
}
