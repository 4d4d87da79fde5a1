package lang

import (
	"fmt"
	"strings"
)

// Stats counts allocations and releases per value type.
type Stats struct {
	Allocs [numTypes]int
	Frees  [numTypes]int
}

// Live returns the number of cells allocated but not yet released.
func (s Stats) Live() int {
	n := 0
	for t := range s.Allocs {
		n += s.Allocs[t] - s.Frees[t]
	}
	return n
}

func (s Stats) String() string {
	var sb strings.Builder
	for t := ValueType(0); t < numTypes; t++ {
		if s.Allocs[t] == 0 && s.Frees[t] == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%-8s allocs %-8d frees %-8d\n", t, s.Allocs[t], s.Frees[t])
	}
	fmt.Fprintf(&sb, "live     %d", s.Live())
	return sb.String()
}

// Heap stamps new cells with the current allocation scope and keeps the
// allocation statistics. Cells are ordinary Go values owned by the garbage
// collector; Free only performs the scope bookkeeping.
type Heap struct {
	scope uint32
	stats Stats
	// pinned holds the cells owned by global bindings. Free never counts
	// them.
	pinned map[*Value]struct{}
}

// NewHeap returns a heap positioned at the global scope.
func NewHeap() *Heap {
	return &Heap{pinned: make(map[*Value]struct{})}
}

// Scope returns the current allocation scope.
func (h *Heap) Scope() uint32 {
	return h.scope
}

// EnterScope starts a nested allocation scope.
func (h *Heap) EnterScope() {
	h.scope++
}

// ExitScope returns to the enclosing allocation scope.
func (h *Heap) ExitScope() {
	if h.scope > 0 {
		h.scope--
	}
}

// Stats returns a snapshot of the allocation counters.
func (h *Heap) Stats() Stats {
	return h.stats
}

func (h *Heap) alloc(v *Value) *Value {
	v.Scope = h.scope
	h.stats.Allocs[v.Type]++
	return v
}

// Int allocates an integer.
func (h *Heap) Int(i int64) *Value {
	return h.alloc(&Value{Type: TypeInt, Int: i})
}

// Bignum allocates an extended precision integer.
func (h *Heap) Bignum(digits string) *Value {
	return h.alloc(&Value{Type: TypeBignum, Buf: []byte(digits)})
}

// String allocates a string.
func (h *Heap) String(s string) *Value {
	return h.alloc(&Value{Type: TypeString, Buf: []byte(s)})
}

// Bytes allocates a byte vector holding a copy of b.
func (h *Heap) Bytes(b []byte) *Value {
	return h.alloc(&Value{Type: TypeBytes, Buf: append(make([]byte, 0, len(b)), b...)})
}

// Symbol allocates a symbol.
func (h *Heap) Symbol(name string) *Value {
	return h.alloc(&Value{Type: TypeSymbol, Buf: []byte(name)})
}

// Nil allocates an empty list.
func (h *Heap) Nil() *Value {
	return h.alloc(&Value{Type: TypePair})
}

// Pair allocates a cons cell.
func (h *Heap) Pair(car, next *Value) *Value {
	return h.alloc(&Value{Type: TypePair, Car: car, Next: next})
}

// Error allocates an error value.
func (h *Heap) Error(code ErrorCode) *Value {
	return h.alloc(&Value{Type: TypeError, Int: int64(code)})
}

// Builtin allocates a builtin operation.
func (h *Heap) Builtin(op Op) *Value {
	return h.alloc(&Value{Type: TypeBuiltin, Int: int64(op)})
}

// Closure allocates a procedure from its parameter and body lists.
func (h *Heap) Closure(params, body *Value) *Value {
	return h.alloc(&Value{Type: TypeClosure, Car: params, Next: body})
}

// Let allocates a let form from its binding and body lists.
func (h *Heap) Let(bindings, body *Value) *Value {
	return h.alloc(&Value{Type: TypeLet, Car: bindings, Next: body})
}

// List allocates a proper list holding vals.
func (h *Heap) List(vals ...*Value) *Value {
	result := h.Nil()
	for i := len(vals) - 1; i >= 0; i-- {
		result = h.Pair(vals[i], result)
	}
	return result
}

// Clone deep-copies v into the given scope. Byte payloads are copied, and
// pairs, closures and let forms are copied recursively.
func (h *Heap) Clone(v *Value, scope uint32) *Value {
	if v == nil {
		return nil
	}
	c := &Value{Type: v.Type, Int: v.Int, Native: v.Native, Scope: scope}
	if v.Buf != nil {
		c.Buf = append(make([]byte, 0, len(v.Buf)), v.Buf...)
	}
	switch v.Type {
	case TypePair, TypeClosure, TypeLet:
		c.Car = h.Clone(v.Car, scope)
		c.Next = h.Clone(v.Next, scope)
	}
	h.stats.Allocs[c.Type]++
	return c
}

// pin marks v and everything reachable through it as owned by the global
// environment.
func (h *Heap) pin(v *Value) {
	for v != nil {
		if h.pinned == nil {
			h.pinned = make(map[*Value]struct{})
		}
		h.pinned[v] = struct{}{}
		switch v.Type {
		case TypePair, TypeClosure, TypeLet:
			h.pin(v.Car)
			v = v.Next
		default:
			return
		}
	}
}

func (h *Heap) isPinned(v *Value) bool {
	_, ok := h.pinned[v]
	return ok
}

// released stamps cells that Free has already counted.
const released = ^uint32(0)

// Free releases v and, for pairs, everything reachable through it. Cells
// stamped with a scope older than the current one are skipped, so values
// owned by an enclosing scope survive. Cells held by global bindings or
// released before are skipped as well.
func (h *Heap) Free(v *Value) {
	for v != nil && v.Scope >= h.scope && v.Scope != released && !h.isPinned(v) {
		h.stats.Frees[v.Type]++
		v.Scope = released
		if v.Type != TypePair {
			return
		}
		h.Free(v.Car)
		v = v.Next
	}
}

// Reaches reports whether v is root or is reachable from it.
func Reaches(root, v *Value) bool {
	for root != nil {
		if root == v {
			return true
		}
		switch root.Type {
		case TypePair, TypeClosure, TypeLet:
			if Reaches(root.Car, v) {
				return true
			}
			root = root.Next
		default:
			return false
		}
	}
	return false
}
