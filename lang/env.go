package lang

import "bytes"

// Environments are association lists of (symbol . value) bindings. A local
// environment is a chain of binding cells that continues into the global
// list, so a lookup walks from the innermost binding outwards.
//
// The global list starts with a permanent head cell whose Car is nil. New
// definitions are spliced in directly after the head, which keeps every
// chain that already reaches the head able to see them.

func newGlobals() *Value {
	return &Value{Type: TypePair, Next: Nil()}
}

// lookup finds the innermost binding of name in env.
func lookup(env *Value, name []byte) (*Value, bool) {
	for cell := env; cell != nil && cell.Type == TypePair && !cell.IsNil(); cell = cell.Next {
		b := cell.Car
		if b == nil || b.Type != TypePair || b.Car == nil || b.Car.Type != TypeSymbol {
			continue
		}
		if bytes.Equal(b.Car.Buf, name) {
			return b.Next, true
		}
	}
	return nil, false
}

// bind prepends a binding of sym to val in front of env.
func (h *Heap) bind(env, sym, val *Value) *Value {
	return h.Pair(h.Pair(sym, val), env)
}

// Global returns the head of the global environment.
func (ev *Evaluator) Global() *Value {
	return ev.globals
}

// Lookup resolves name in the global environment.
func (ev *Evaluator) Lookup(name string) (*Value, bool) {
	return lookup(ev.globals, []byte(name))
}

// Define binds name globally to a copy of val and returns the stored value.
func (ev *Evaluator) Define(name string, val *Value) *Value {
	return ev.define(SymbolValue(name), val)
}

// define adds a new binding after the global head. Existing bindings are
// never modified; the newest one shadows older ones.
func (ev *Evaluator) define(sym, val *Value) *Value {
	binding := ev.heap.Clone(PairValue(sym, val), 0)
	ev.heap.pin(binding)
	ev.globals.Next = &Value{Type: TypePair, Car: binding, Next: ev.globals.Next}
	return binding.Next
}
