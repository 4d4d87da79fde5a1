package lang

import "bytes"

// appendText writes a string payload raw and anything else in printed form.
func appendText(buf *bytes.Buffer, v *Value) {
	if v.Type == TypeString {
		buf.Write(v.Buf)
		return
	}
	buf.WriteString(v.String())
}

// primConcat joins its evaluated arguments into a string. A single list
// argument joins the list's elements instead.
func primConcat(ev *Evaluator, _, args, env *Value) *Value {
	var buf bytes.Buffer
	exprs := elems(args)
	if len(exprs) == 1 {
		if v := ev.Eval(exprs[0], env); v.Type == TypePair {
			for _, e := range elems(v) {
				appendText(&buf, e)
			}
		} else {
			appendText(&buf, v)
		}
		return ev.heap.String(buf.String())
	}
	for _, expr := range exprs {
		appendText(&buf, ev.Eval(expr, env))
	}
	return ev.heap.String(buf.String())
}

// primSubstr extracts (substr s offset [len]) from a string or byte vector.
// Without len the rest of the input is returned.
func primSubstr(ev *Evaluator, _, args, env *Value) *Value {
	s := ev.evalArg(args, 0, env)
	if s.Type != TypeString && s.Type != TypeBytes {
		return ev.heap.Error(ErrInvalidParamType)
	}
	off := ev.evalArg(args, 1, env)
	if off.Type != TypeInt {
		return ev.heap.Error(ErrInvalidParamType)
	}
	size := int64(len(s.Buf))
	if off.Int < 0 || off.Int >= size {
		return ev.heap.Error(ErrOutOfBounds)
	}
	n := size - off.Int
	if nthArg(args, 2) != nil {
		l := ev.evalArg(args, 2, env)
		if l.Type != TypeInt {
			return ev.heap.Error(ErrInvalidParamType)
		}
		if l.Int < 0 || off.Int+l.Int > size {
			return ev.heap.Error(ErrOutOfBounds)
		}
		n = l.Int
	}
	part := s.Buf[off.Int : off.Int+n]
	if s.Type == TypeBytes {
		return ev.heap.Bytes(part)
	}
	return ev.heap.String(string(part))
}

// primStr converts its argument to a string. Symbols and byte vectors keep
// their raw payload; other values use their printed form.
func primStr(ev *Evaluator, _, args, env *Value) *Value {
	v := ev.evalArg(args, 0, env)
	switch v.Type {
	case TypeString:
		return v
	case TypeSymbol, TypeBytes:
		return ev.heap.String(string(v.Buf))
	}
	return ev.heap.String(v.String())
}
