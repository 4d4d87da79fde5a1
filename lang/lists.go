package lang

func primList(ev *Evaluator, _, args, env *Value) *Value {
	return ev.evalList(args, env)
}

func primCar(ev *Evaluator, _, args, env *Value) *Value {
	v := ev.evalArg(args, 0, env)
	if v.Type != TypePair {
		return ev.heap.Error(ErrInvalidParamType)
	}
	if v.Car == nil {
		return ev.heap.Nil()
	}
	return v.Car
}

func primCdr(ev *Evaluator, _, args, env *Value) *Value {
	v := ev.evalArg(args, 0, env)
	if v.Type != TypePair {
		return ev.heap.Error(ErrInvalidParamType)
	}
	if v.Next == nil {
		return ev.heap.Nil()
	}
	return v.Next
}

func primCons(ev *Evaluator, _, args, env *Value) *Value {
	return ev.heap.Pair(ev.evalArg(args, 0, env), ev.evalArg(args, 1, env))
}

// reverseLists conses the elements of each list, in order, onto a new
// list, which leaves them reversed.
func (ev *Evaluator) reverseLists(lists []*Value) *Value {
	result := ev.heap.Nil()
	for _, l := range lists {
		for _, v := range elems(l) {
			result = ev.heap.Pair(v, result)
		}
	}
	return result
}

func (ev *Evaluator) evalLists(args, env *Value) ([]*Value, bool) {
	var lists []*Value
	for _, expr := range elems(args) {
		l := ev.Eval(expr, env)
		if l.Type != TypePair {
			return nil, false
		}
		lists = append(lists, l)
	}
	return lists, true
}

func primReverse(ev *Evaluator, _, args, env *Value) *Value {
	lists, ok := ev.evalLists(args, env)
	if !ok {
		return ev.heap.Error(ErrInvalidParamType)
	}
	return ev.reverseLists(lists)
}

func primAppend(ev *Evaluator, _, args, env *Value) *Value {
	lists, ok := ev.evalLists(args, env)
	if !ok {
		return ev.heap.Error(ErrInvalidParamType)
	}
	return ev.reverseLists([]*Value{ev.reverseLists(lists)})
}

func primLen(ev *Evaluator, _, args, env *Value) *Value {
	v := ev.evalArg(args, 0, env)
	switch v.Type {
	case TypeBytes, TypeString, TypeSymbol:
		return ev.heap.Int(int64(len(v.Buf)))
	case TypePair:
		return ev.heap.Int(int64(len(elems(v))))
	}
	return ev.heap.Error(ErrInvalidParamType)
}

// indexArgs evaluates the buffer and index arguments shared by get and set.
func (ev *Evaluator) indexArgs(args, env *Value, types ...ValueType) (buf *Value, idx int, errv *Value) {
	buf = ev.evalArg(args, 0, env)
	matched := false
	for _, t := range types {
		if buf.Type == t {
			matched = true
		}
	}
	if !matched {
		return nil, 0, ev.heap.Error(ErrInvalidParamType)
	}
	i := ev.evalArg(args, 1, env)
	if i.Type != TypeInt {
		return nil, 0, ev.heap.Error(ErrInvalidParamType)
	}
	if i.Int < 0 || i.Int >= int64(len(buf.Buf)) {
		return nil, 0, ev.heap.Error(ErrOutOfBounds)
	}
	return buf, int(i.Int), nil
}

func primGet(ev *Evaluator, _, args, env *Value) *Value {
	buf, idx, errv := ev.indexArgs(args, env, TypeBytes, TypeString, TypeSymbol)
	if errv != nil {
		return errv
	}
	return ev.heap.Int(int64(buf.Buf[idx]))
}

func primSet(ev *Evaluator, _, args, env *Value) *Value {
	buf, idx, errv := ev.indexArgs(args, env, TypeBytes, TypeString)
	if errv != nil {
		return errv
	}
	b := ev.evalArg(args, 2, env)
	if b.Type != TypeInt {
		return ev.heap.Error(ErrInvalidParamType)
	}
	buf.Buf[idx] = byte(b.Int)
	return ev.heap.Int(int64(buf.Buf[idx]))
}

// procArg evaluates the procedure argument of map and filter.
func (ev *Evaluator) procArg(args, env *Value) *Value {
	fn := ev.evalArg(args, 0, env)
	if !fn.IsProcedure() {
		return nil
	}
	return fn
}

// primMap applies its procedure to (element index) for every element of a
// list, or to (char index) for every byte of a string, where char is a
// one-byte string.
func primMap(ev *Evaluator, _, args, env *Value) *Value {
	if nthArg(args, 0) == nil || nthArg(args, 1) == nil {
		return ev.heap.Nil()
	}
	fn := ev.procArg(args, env)
	if fn == nil {
		return ev.heap.Nil()
	}
	seq := ev.evalArg(args, 1, env)

	var out []*Value
	switch seq.Type {
	case TypePair:
		for i, v := range elems(seq) {
			out = append(out, ev.applyValues(fn, []*Value{v, ev.heap.Int(int64(i))}, env))
		}
	case TypeString:
		for i, c := range seq.Buf {
			s := ev.heap.String(string([]byte{c}))
			out = append(out, ev.applyValues(fn, []*Value{s, ev.heap.Int(int64(i))}, env))
		}
	default:
		return ev.heap.Nil()
	}
	return ev.heap.List(out...)
}

// primFilter keeps the elements for which the procedure returns something
// other than nil or 0.
func primFilter(ev *Evaluator, _, args, env *Value) *Value {
	if nthArg(args, 0) == nil || nthArg(args, 1) == nil {
		return ev.heap.Nil()
	}
	fn := ev.procArg(args, env)
	if fn == nil {
		return ev.heap.Nil()
	}
	seq := ev.evalArg(args, 1, env)
	if seq.Type != TypePair {
		return ev.heap.Error(ErrInvalidParamType)
	}

	var out []*Value
	for _, v := range elems(seq) {
		r := ev.applyValues(fn, []*Value{v}, env)
		if r.IsNil() || (r.Type == TypeInt && r.Int == 0) {
			continue
		}
		out = append(out, v)
	}
	return ev.heap.List(out...)
}
