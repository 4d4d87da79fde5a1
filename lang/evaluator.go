package lang

import (
	"io"
	"log"
)

// DefaultMaxDepth is the evaluation nesting ceiling used unless
// WithMaxDepth overrides it.
const DefaultMaxDepth = 10000

// ReadFunc parses source text into a single form. It backs the read
// builtin and is provided by the host, since the reader depends on this
// package.
type ReadFunc func(h *Heap, src string) *Value

// Evaluator executes minilisp programs against a global environment.
type Evaluator struct {
	globals  *Value
	heap     *Heap
	depth    int
	maxDepth int
	// nesting counts active Eval and Apply calls; unlike depth it is never
	// reset. aborting is set when depth passes maxDepth and holds until the
	// outermost call returns.
	nesting  int
	aborting bool
	read     ReadFunc
	logger   *log.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger directs diagnostics, including the debug builtin, to l.
func WithLogger(l *log.Logger) Option {
	return func(ev *Evaluator) { ev.logger = l }
}

// WithMaxDepth sets the evaluation nesting ceiling.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) {
		if n > 0 {
			ev.maxDepth = n
		}
	}
}

// WithReader installs the parser used by the read builtin.
func WithReader(fn ReadFunc) Option {
	return func(ev *Evaluator) { ev.read = fn }
}

// NewEvaluator constructs an evaluator rooted at a new global environment
// holding the builtin operations.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{
		globals:  newGlobals(),
		heap:     NewHeap(),
		maxDepth: DefaultMaxDepth,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(ev)
	}
	ev.installBuiltins()
	return ev
}

// Heap returns the allocator shared by everything the evaluator creates.
func (ev *Evaluator) Heap() *Heap {
	return ev.heap
}

// Depth returns the current evaluation nesting level.
func (ev *Evaluator) Depth() int {
	return ev.depth
}

// Release hands a value the caller no longer needs back to the heap.
func (ev *Evaluator) Release(v *Value) {
	ev.heap.Free(v)
}

// Eval evaluates a single expression within the provided environment. A
// nil env means the global environment. Failures are reported as error
// values, never as Go errors.
func (ev *Evaluator) Eval(expr, env *Value) *Value {
	if env == nil {
		env = ev.globals
	}
	if ev.aborting {
		return ev.heap.Error(ErrMaxEvalDepth)
	}
	ev.nesting++
	ev.depth++
	if ev.depth > ev.maxDepth {
		ev.logger.Printf("evaluation depth %d exceeds %d", ev.depth, ev.maxDepth)
		ev.depth = 0
		ev.aborting = true
		return ev.leave(nil)
	}
	result := ev.eval(expr, env)
	if ev.depth > 0 {
		ev.depth--
	}
	return ev.leave(result)
}

// leave closes an Eval or Apply call. While an abort is in progress every
// call yields the depth error, so the whole chain unwinds with it.
func (ev *Evaluator) leave(result *Value) *Value {
	if ev.aborting {
		result = ev.heap.Error(ErrMaxEvalDepth)
	}
	ev.nesting--
	if ev.nesting == 0 {
		ev.aborting = false
	}
	return result
}

// EvalAll evaluates a sequence of expressions in the global environment and
// returns the last result. Earlier results are released unless they are
// part of their own expression.
func (ev *Evaluator) EvalAll(exprs []*Value) *Value {
	result := ev.heap.Nil()
	for i, expr := range exprs {
		result = ev.Eval(expr, nil)
		if i < len(exprs)-1 && !Reaches(expr, result) {
			ev.Release(result)
		}
	}
	return result
}

func (ev *Evaluator) eval(expr, env *Value) *Value {
	if expr == nil {
		return ev.heap.Nil()
	}
	switch expr.Type {
	case TypeSymbol:
		if v, ok := lookup(env, expr.Buf); ok && v != nil {
			return v
		}
		if env != ev.globals {
			if v, ok := lookup(ev.globals, expr.Buf); ok && v != nil {
				return v
			}
		}
		return ev.heap.Nil()
	case TypePair:
		if expr.IsNil() || expr.Car == nil {
			return expr
		}
		head := expr.Car
		if head.Type == TypeSymbol || head.Type == TypePair {
			head = ev.Eval(head, env)
		}
		switch {
		case head.IsProcedure():
			return ev.apply(head, expr.Next, env)
		case head.IsError():
			return head
		}
		return expr
	case TypeClosure:
		return ev.apply(expr, nil, env)
	default:
		return expr
	}
}

// Apply invokes a procedure on unevaluated argument expressions.
func (ev *Evaluator) Apply(fn, args, env *Value) *Value {
	if env == nil {
		env = ev.globals
	}
	if ev.aborting {
		return ev.heap.Error(ErrMaxEvalDepth)
	}
	ev.nesting++
	return ev.leave(ev.apply(fn, args, env))
}

func (ev *Evaluator) apply(fn, args, env *Value) *Value {
	if fn == nil {
		return ev.heap.Error(ErrApplyNil)
	}
	switch fn.Type {
	case TypeBuiltin:
		return ev.applyBuiltin(fn, args, env)
	case TypeClosure:
		return ev.applyClosure(fn, args, env)
	case TypeLet:
		return ev.applyLet(fn, env)
	default:
		return ev.heap.Error(ErrApplyNil)
	}
}

// applyClosure evaluates as many actual arguments as there are formals, in
// the caller's environment, and runs the body in a new scope.
func (ev *Evaluator) applyClosure(fn, args, env *Value) *Value {
	ev.heap.EnterScope()
	defer ev.heap.ExitScope()

	var vals []*Value
	for p, a := fn.Car, args; car(p) != nil && car(a) != nil; p, a = p.Next, a.Next {
		vals = append(vals, ev.Eval(a.Car, env))
	}
	return ev.callClosure(fn, vals, env)
}

// callClosure binds each formal to a copy of the matching value in the
// current scope and evaluates the first body form. Missing values leave
// their formals unbound.
func (ev *Evaluator) callClosure(fn *Value, vals []*Value, env *Value) *Value {
	scope := ev.heap.Scope()
	local := env
	p := fn.Car
	for _, v := range vals {
		if car(p) == nil {
			break
		}
		local = ev.heap.bind(local, p.Car, ev.heap.Clone(v, scope))
		p = p.Next
	}
	return ev.Eval(car(fn.Next), local)
}

// applyLet binds each (name expr) pair in turn, so later expressions see
// earlier names, then evaluates the body forms and returns the last.
func (ev *Evaluator) applyLet(let, env *Value) *Value {
	ev.heap.EnterScope()
	defer ev.heap.ExitScope()

	scope := ev.heap.Scope()
	local := env
	for b := let.Car; car(b) != nil && car(cdr(b)) != nil; b = cdr(cdr(b)) {
		val := ev.heap.Clone(ev.Eval(car(cdr(b)), local), scope)
		local = ev.heap.bind(local, b.Car, val)
	}

	result := ev.heap.Nil()
	for _, expr := range elems(let.Next) {
		if !boundIn(local, env, result) {
			ev.heap.Free(result)
		}
		result = ev.Eval(expr, local)
	}
	return result
}

// boundIn reports whether v is reachable from a binding pushed onto env to
// form local.
func boundIn(local, env, v *Value) bool {
	for cell := local; cell != nil && cell != env; cell = cell.Next {
		if b := cell.Car; b != nil && Reaches(b.Next, v) {
			return true
		}
	}
	return false
}

// applyValues calls fn on arguments that are already evaluated.
func (ev *Evaluator) applyValues(fn *Value, vals []*Value, env *Value) *Value {
	switch fn.Type {
	case TypeClosure:
		ev.heap.EnterScope()
		defer ev.heap.ExitScope()
		return ev.callClosure(fn, vals, env)
	case TypeBuiltin:
		quoted := make([]*Value, len(vals))
		for i, v := range vals {
			quoted[i] = ev.heap.List(ev.heap.Builtin(OpQuote), v)
		}
		return ev.applyBuiltin(fn, ev.heap.List(quoted...), env)
	default:
		return ev.heap.Error(ErrApplyNil)
	}
}
