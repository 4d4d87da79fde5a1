// Package reader turns minilisp source text into value trees.
//
// The reader is a byte-at-a-time state machine. Each byte either extends the
// atom under construction, finishes it, or opens or closes a list; no byte
// is ever looked at twice.
package reader

import (
	"fmt"

	"github.com/sergev/minilisp/bignum"
	"github.com/sergev/minilisp/lang"
)

const (
	// stackSize bounds list nesting.
	stackSize = 100

	symInitCap    = 8
	bignumInitCap = 32

	// Integer literals reaching this magnitude are read as bignums.
	bignumThreshold = 922337203685477580
)

type state int

const (
	stateAtom state = iota
	stateNum
	stateNumNeg
	stateSym
	stateBignum
	stateStr
	stateBytes
)

const (
	stateErrUnexpectedClose state = iota + 10
	stateErrJunkInNumber
	stateErrJunkInBytes
	stateErrTooDeep
)

func (s state) failed() bool {
	return s >= stateErrUnexpectedClose
}

func (s state) String() string {
	switch s {
	case stateErrUnexpectedClose:
		return "unexpected closing paren"
	case stateErrJunkInNumber:
		return "unexpected junk in number"
	case stateErrJunkInBytes:
		return "unexpected junk in byte buffer"
	case stateErrTooDeep:
		return fmt.Sprintf("lists nested deeper than %d", stackSize-1)
	}
	return fmt.Sprintf("state %d", int(s))
}

// Reader builds values in the active scope of a heap.
type Reader struct {
	heap *lang.Heap
}

// New returns a reader allocating from h. A nil heap gets a private one.
func New(h *lang.Heap) *Reader {
	if h == nil {
		h = lang.NewHeap()
	}
	return &Reader{heap: h}
}

// ReadString parses the first expression from a string.
func ReadString(src string) (*lang.Value, error) {
	return New(nil).ReadString(src)
}

// ReadAll parses all expressions from a string.
func ReadAll(src string) ([]*lang.Value, error) {
	return New(nil).ReadAll(src)
}

// ReadString parses src and returns its first top-level form. Malformed
// input yields the syntax error value together with a *Error. Unfinished
// input yields the partial form together with an incomplete *Error.
func (r *Reader) ReadString(src string) (*lang.Value, error) {
	forms, err := r.ReadAll(src)
	if err != nil && !IsIncomplete(err) {
		return r.heap.Error(lang.ErrSyntax), err
	}
	if len(forms) == 0 {
		return r.heap.Nil(), err
	}
	return forms[0], err
}

// ReadAll parses every top-level form in src.
func (r *Reader) ReadAll(src string) ([]*lang.Value, error) {
	m := &machine{heap: r.heap}
	m.root = m.heap.Nil()
	m.slot = m.root
	for i := 0; i < len(src); i++ {
		m.step(src[i])
		if m.state.failed() {
			return nil, newError(i, fmt.Errorf("read error %d at %d: %s", int(m.state), i, m.state))
		}
	}

	var forms []*lang.Value
	for cur := m.root; cur != nil && cur.Car != nil; cur = cur.Next {
		forms = append(forms, cur.Car)
	}

	switch {
	case m.level > 0:
		err := newIncompleteError(len(src), fmt.Errorf("missing %d closing parens", m.level))
		err.Missing = m.level
		return forms, err
	case m.state == stateStr:
		return forms, newIncompleteError(len(src), fmt.Errorf("unterminated string"))
	case m.state == stateBytes:
		return forms, newIncompleteError(len(src), fmt.Errorf("unterminated byte buffer"))
	}
	return forms, nil
}

// machine holds the parse state. Lists are built in place: slot is the
// list cell whose Car receives the next atom, and stack keeps the slots of
// the enclosing lists.
type machine struct {
	heap  *lang.Heap
	state state
	root  *lang.Value
	slot  *lang.Value
	stack [stackSize]*lang.Value
	level int
	nyb   int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (m *machine) step(c byte) {
	switch m.state {
	case stateAtom:
		m.atom(c)
	case stateNum, stateNumNeg:
		m.number(c)
	case stateSym, stateBignum:
		m.token(c)
	case stateStr:
		if c == '"' {
			m.next()
			return
		}
		v := m.slot.Car
		v.Buf = append(v.Buf, c)
	case stateBytes:
		m.bytes(c)
	}
}

func (m *machine) atom(c byte) {
	switch {
	case isSpace(c):
	case isDigit(c):
		m.state = stateNum
		m.slot.Car = m.heap.Int(int64(c - '0'))
	case c == '(':
		m.open()
	case c == ')':
		m.close()
	case c == '[':
		m.state = stateBytes
		m.nyb = 0
		v := m.heap.Bytes(nil)
		v.Buf = make([]byte, 0, symInitCap)
		m.slot.Car = v
	case c == '"':
		m.state = stateStr
		v := m.heap.String("")
		v.Buf = make([]byte, 0, symInitCap)
		m.slot.Car = v
	default:
		m.state = stateSym
		v := m.heap.Symbol("")
		v.Buf = append(make([]byte, 0, symInitCap), c)
		m.slot.Car = v
	}
}

func (m *machine) number(c byte) {
	v := m.slot.Car
	switch {
	case isDigit(c):
		d := int64(c - '0')
		if m.state == stateNumNeg {
			v.Int = v.Int*10 - d
		} else {
			v.Int = v.Int*10 + d
		}
		if v.Int >= bignumThreshold || v.Int <= -bignumThreshold {
			big := m.heap.Bignum("")
			big.Buf = append(make([]byte, 0, bignumInitCap), bignum.FromInt(v.Int)...)
			m.heap.Free(v)
			m.slot.Car = big
			m.state = stateBignum
		}
	case isSpace(c):
		m.next()
	case c == ')':
		m.close()
	default:
		m.state = stateErrJunkInNumber
	}
}

// token extends a symbol or bignum literal.
func (m *machine) token(c byte) {
	v := m.slot.Car
	switch {
	case c == ')':
		m.close()
	case isSpace(c):
		m.next()
	case m.state == stateBignum:
		if !isDigit(c) {
			m.state = stateErrJunkInNumber
			return
		}
		v.Buf = append(v.Buf, c)
	case c == '(':
		m.next()
		m.open()
	case isDigit(c) && len(v.Buf) == 1 && v.Buf[0] == '-':
		// A lone minus followed by a digit is a negative literal.
		m.heap.Free(v)
		m.slot.Car = m.heap.Int(-int64(c - '0'))
		m.state = stateNumNeg
	default:
		v.Buf = append(v.Buf, c)
	}
}

func (m *machine) bytes(c byte) {
	switch {
	case c == ']':
		if m.nyb%2 != 0 {
			m.state = stateErrJunkInBytes
			return
		}
		m.next()
	case isSpace(c):
	default:
		n, ok := hexValue(c)
		if !ok {
			m.state = stateErrJunkInBytes
			return
		}
		v := m.slot.Car
		if m.nyb%2 == 0 {
			v.Buf = append(v.Buf, n<<4)
		} else {
			v.Buf[len(v.Buf)-1] |= n
		}
		m.nyb++
	}
}

// next finishes the current atom and moves to a fresh cell of the same
// list.
func (m *machine) next() {
	m.slot.Next = m.heap.Nil()
	m.slot = m.slot.Next
	m.state = stateAtom
}

func (m *machine) open() {
	if m.level >= stackSize-1 {
		m.state = stateErrTooDeep
		return
	}
	head := m.heap.Nil()
	m.slot.Car = head
	m.stack[m.level] = m.slot
	m.level++
	m.slot = head
	m.state = stateAtom
}

func (m *machine) close() {
	if m.level < 1 {
		m.state = stateErrUnexpectedClose
		return
	}
	if m.slot.Car != nil {
		m.slot.Next = m.heap.Nil()
	}
	m.level--
	m.slot = m.stack[m.level]
	m.next()
}
