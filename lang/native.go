package lang

// RegisterNative binds name globally to a host function. The function is
// called with the evaluated argument list whenever name is applied.
func (ev *Evaluator) RegisterNative(name string, fn NativeFunc) {
	ev.define(SymbolValue(name), &Value{Type: TypeBuiltin, Int: int64(OpNative), Native: fn})
}

// callNative runs a host function. A panic inside it is reported as the
// fatal native error value instead of unwinding the interpreter.
func (ev *Evaluator) callNative(fn, args, env *Value) (result *Value) {
	if fn.Native == nil {
		return ev.heap.Error(ErrUnknownOp)
	}
	depth, nesting, scope := ev.depth, ev.nesting, ev.heap.scope
	defer func() {
		if r := recover(); r != nil {
			ev.logger.Printf("native function panicked: %v", r)
			ev.depth, ev.nesting, ev.heap.scope = depth, nesting, scope
			result = ev.heap.Error(ErrFatal)
		}
	}()
	result = fn.Native(ev, args, env)
	if result == nil {
		result = ev.heap.Nil()
	}
	return result
}
