package lang

import "os"

func (ev *Evaluator) pathArg(args, env *Value) (string, bool) {
	p := ev.evalArg(args, 0, env)
	if p.Type != TypeString && p.Type != TypeSymbol {
		return "", false
	}
	return string(p.Buf), true
}

// primLoad reads a whole file into a byte vector.
func primLoad(ev *Evaluator, _, args, env *Value) *Value {
	path, ok := ev.pathArg(args, env)
	if !ok {
		return ev.heap.Error(ErrInvalidParamType)
	}
	if _, err := os.Stat(path); err != nil {
		ev.logger.Printf("load %s: %v", path, err)
		return ev.heap.Error(ErrNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		ev.logger.Printf("load %s: %v", path, err)
		return ev.heap.Error(ErrForbidden)
	}
	return ev.heap.Bytes(data)
}

// primSave writes a string or byte vector to a file and returns the number
// of bytes written.
func primSave(ev *Evaluator, _, args, env *Value) *Value {
	path, ok := ev.pathArg(args, env)
	if !ok {
		return ev.heap.Error(ErrInvalidParamType)
	}
	data := ev.evalArg(args, 1, env)
	if data.Type != TypeString && data.Type != TypeBytes {
		return ev.heap.Error(ErrInvalidParamType)
	}
	if err := os.WriteFile(path, data.Buf, 0o644); err != nil {
		ev.logger.Printf("save %s: %v", path, err)
		return ev.heap.Error(ErrForbidden)
	}
	return ev.heap.Int(int64(len(data.Buf)))
}

// primRead parses a string into a form without evaluating it.
func primRead(ev *Evaluator, _, args, env *Value) *Value {
	src := ev.evalArg(args, 0, env)
	if src.Type != TypeString && src.Type != TypeBytes {
		return ev.heap.Error(ErrInvalidParamType)
	}
	if ev.read == nil {
		return ev.heap.Error(ErrUnknownOp)
	}
	v := ev.read(ev.heap, string(src.Buf))
	if v == nil {
		return ev.heap.Nil()
	}
	return v
}

func primDebug(ev *Evaluator, _, args, env *Value) *Value {
	expr := car(args)
	v := ev.Eval(expr, env)
	ev.logger.Printf("debug %s: type=%s size=%d scope=%d depth=%d value=%s",
		expr, v.Type, len(v.Buf), v.Scope, ev.depth, v)
	return ev.heap.Nil()
}
