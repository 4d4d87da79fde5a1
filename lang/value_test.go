package lang

import (
	"strings"
	"testing"
)

func TestValueString(t *testing.T) {
	closure := &Value{
		Type: TypeClosure,
		Car:  List(SymbolValue("x")),
		Next: List(List(SymbolValue("+"), SymbolValue("x"), SymbolValue("x"))),
	}
	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"nil pointer", nil, "null"},
		{"empty list", Nil(), "nil"},
		{"integer", IntValue(-42), "-42"},
		{"bignum", BignumValue("-123456789012345678901"), "-123456789012345678901"},
		{"symbol", SymbolValue("foo"), "foo"},
		{"string", StringValue("hi there"), `"hi there"`},
		{"bytes", BytesValue([]byte{0x0a, 0xbc}), "[0abc]"},
		{"empty bytes", BytesValue(nil), "[]"},
		{"list", List(IntValue(1), IntValue(2), IntValue(3)), "(1 2 3)"},
		{"nested", List(IntValue(1), List(IntValue(2)), Nil()), "(1 (2) nil)"},
		{"dotted pair", PairValue(SymbolValue("a"), SymbolValue("b")), "(a.b)"},
		{"improper tail", PairValue(IntValue(1), PairValue(IntValue(2), IntValue(3))), "(1 2.3)"},
		{"closure", closure, "<proc ((+ x x))>"},
		{"builtin", &Value{Type: TypeBuiltin, Int: int64(OpAdd)}, "<op 1>"},
		{"error", ErrorValue(ErrInvalidParamType), "<e4:invalid or no parameter given.>"},
		{"fatal", ErrorValue(ErrFatal), "<e500:fatal error in native function.>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	if Nil().Truthy() {
		t.Fatalf("empty list must be false")
	}
	var missing *Value
	if missing.Truthy() {
		t.Fatalf("nil pointer must be false")
	}
	for _, v := range []*Value{IntValue(0), StringValue(""), ErrorValue(ErrSyntax), List(Nil())} {
		if !v.Truthy() {
			t.Fatalf("expected %s to be true", v)
		}
	}
}

func TestToSlice(t *testing.T) {
	items, err := ToSlice(List(IntValue(1), SymbolValue("a")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Int != 1 || items[1].Str() != "a" {
		t.Fatalf("unexpected items %v", items)
	}
	if _, err := ToSlice(PairValue(IntValue(1), IntValue(2))); err == nil {
		t.Fatalf("expected error for improper list")
	}
	if _, err := ToSlice(IntValue(1)); err == nil {
		t.Fatalf("expected error for non-list")
	}
}

func TestErrorDescriptions(t *testing.T) {
	if got := ErrNotFound.Description(); got != "not found." {
		t.Fatalf("expected not found., got %s", got)
	}
	if got := ErrorCode(77).Description(); got != "unknown error." {
		t.Fatalf("expected unknown error., got %s", got)
	}
}

func TestHeapStampsScope(t *testing.T) {
	h := NewHeap()
	outer := h.Int(1)
	h.EnterScope()
	inner := h.List(h.Int(2))
	if outer.Scope != 0 || inner.Scope != 1 || inner.Car.Scope != 1 {
		t.Fatalf("unexpected scopes %d %d %d", outer.Scope, inner.Scope, inner.Car.Scope)
	}

	h.Free(outer)
	h.Free(inner)
	stats := h.Stats()
	if stats.Allocs[TypeInt] != 2 || stats.Allocs[TypePair] != 2 {
		t.Fatalf("unexpected allocations %+v", stats.Allocs)
	}
	if stats.Frees[TypeInt] != 1 || stats.Frees[TypePair] != 2 {
		t.Fatalf("outer value should survive, got frees %+v", stats.Frees)
	}
	if stats.Live() != 1 {
		t.Fatalf("expected 1 live cell, got %d", stats.Live())
	}
	if !strings.Contains(stats.String(), "live     1") {
		t.Fatalf("unexpected stats report %q", stats.String())
	}

	h.Free(inner)
	if again := h.Stats(); again.Frees != stats.Frees {
		t.Fatalf("released cells counted twice: %+v", again.Frees)
	}

	h.ExitScope()
	h.ExitScope()
	if h.Scope() != 0 {
		t.Fatalf("scope must not go below zero, got %d", h.Scope())
	}
}

func TestCloneIsDeep(t *testing.T) {
	h := NewHeap()
	orig := List(StringValue("ab"), IntValue(7))
	c := h.Clone(orig, 3)
	if c.String() != orig.String() {
		t.Fatalf("expected %s, got %s", orig, c)
	}
	c.Car.Buf[0] = 'x'
	if orig.Car.Str() != "ab" {
		t.Fatalf("clone shares its payload with the original")
	}
	if c.Scope != 3 || c.Car.Scope != 3 || c.Next.Car.Scope != 3 {
		t.Fatalf("clone not stamped with target scope")
	}
	if h.Clone(nil, 1) != nil {
		t.Fatalf("cloning nil must yield nil")
	}
}

func TestDefineNeverMutatesBindings(t *testing.T) {
	ev := NewEvaluator()
	first := ev.Define("x", IntValue(1))
	ev.Define("x", IntValue(2))

	got, ok := ev.Lookup("x")
	if !ok || got.Int != 2 {
		t.Fatalf("expected newest binding 2, got %v", got)
	}
	if first.Int != 1 {
		t.Fatalf("older binding was modified: %s", first)
	}
	if ev.Global().Car != nil {
		t.Fatalf("global head must stay empty")
	}
	if first.Scope != 0 {
		t.Fatalf("definitions live in the global scope, got %d", first.Scope)
	}
}

func TestBuiltinsInstalled(t *testing.T) {
	ev := NewEvaluator()
	for _, b := range builtinNames {
		v, ok := ev.Lookup(b.name)
		if !ok || v.Type != TypeBuiltin || Op(v.Int) != b.op {
			t.Fatalf("builtin %s not installed, got %v", b.name, v)
		}
	}
	if _, ok := ev.Lookup("undefined-name"); ok {
		t.Fatalf("unexpected binding")
	}
}
