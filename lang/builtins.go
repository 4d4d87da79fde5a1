package lang

// Op identifies a builtin operation.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLess
	OpGreater
	OpEqual
	OpDo
	OpDef
	OpIf
	OpFn
	OpList
	OpCar
	OpCdr
	OpCons
	OpGet
	OpSet
	OpLen
	OpType
	OpLet
	OpQuote
	OpMap
	OpFilter
	OpConcat
	OpSubstr
	OpAppend
	OpReverse
	OpEval
	OpLoad
	OpStr
	OpDebug
	OpRead
	OpNative
	OpSave
)

var builtinNames = []struct {
	name string
	op   Op
}{
	{"+", OpAdd},
	{"-", OpSub},
	{"*", OpMul},
	{"/", OpDiv},
	{"%", OpMod},
	{"<", OpLess},
	{">", OpGreater},
	{"=", OpEqual},
	{"do", OpDo},
	{"def", OpDef},
	{"if", OpIf},
	{"fn", OpFn},
	{"list", OpList},
	{"car", OpCar},
	{"cdr", OpCdr},
	{"cons", OpCons},
	{"get", OpGet},
	{"set", OpSet},
	{"len", OpLen},
	{"type", OpType},
	{"let", OpLet},
	{"quote", OpQuote},
	{"map", OpMap},
	{"filter", OpFilter},
	{"concat", OpConcat},
	{"substr", OpSubstr},
	{"append", OpAppend},
	{"reverse", OpReverse},
	{"eval", OpEval},
	{"load", OpLoad},
	{"str", OpStr},
	{"debug", OpDebug},
	{"read", OpRead},
	{"save", OpSave},
}

// builtinFunc receives its arguments unevaluated.
type builtinFunc func(ev *Evaluator, self, args, env *Value) *Value

var builtins map[Op]builtinFunc

func init() {
	builtins = map[Op]builtinFunc{
		OpAdd:     primFold,
		OpSub:     primFold,
		OpMul:     primFold,
		OpDiv:     primFold,
		OpMod:     primFold,
		OpLess:    primCompare,
		OpGreater: primCompare,
		OpEqual:   primCompare,
		OpDo:      primDo,
		OpDef:     primDef,
		OpIf:      primIf,
		OpFn:      primFn,
		OpList:    primList,
		OpCar:     primCar,
		OpCdr:     primCdr,
		OpCons:    primCons,
		OpGet:     primGet,
		OpSet:     primSet,
		OpLen:     primLen,
		OpType:    primType,
		OpLet:     primLet,
		OpQuote:   primQuote,
		OpMap:     primMap,
		OpFilter:  primFilter,
		OpConcat:  primConcat,
		OpSubstr:  primSubstr,
		OpAppend:  primAppend,
		OpReverse: primReverse,
		OpEval:    primEval,
		OpLoad:    primLoad,
		OpStr:     primStr,
		OpDebug:   primDebug,
		OpRead:    primRead,
		OpNative:  primNative,
		OpSave:    primSave,
	}
}

// installBuiltins binds every named builtin in the global environment.
func (ev *Evaluator) installBuiltins() {
	for _, b := range builtinNames {
		ev.define(SymbolValue(b.name), &Value{Type: TypeBuiltin, Int: int64(b.op)})
	}
}

func (ev *Evaluator) applyBuiltin(fn, args, env *Value) *Value {
	prim, ok := builtins[Op(fn.Int)]
	if !ok {
		ev.logger.Printf("cannot apply unknown op %d", fn.Int)
		return ev.heap.Error(ErrUnknownOp)
	}
	return prim(ev, fn, args, env)
}

// evalArg evaluates the i-th argument expression; a missing argument
// evaluates to nil.
func (ev *Evaluator) evalArg(args *Value, i int, env *Value) *Value {
	return ev.Eval(nthArg(args, i), env)
}

func nthArg(args *Value, i int) *Value {
	cur := args
	for ; i > 0 && cur != nil; i-- {
		cur = cdr(cur)
	}
	return car(cur)
}

func (ev *Evaluator) evalList(args, env *Value) *Value {
	var vals []*Value
	for _, a := range elems(args) {
		vals = append(vals, ev.Eval(a, env))
	}
	return ev.heap.List(vals...)
}

func primDo(ev *Evaluator, _, args, env *Value) *Value {
	result := ev.heap.Nil()
	for _, expr := range elems(args) {
		result = ev.Eval(expr, env)
	}
	return result
}

func primDef(ev *Evaluator, _, args, env *Value) *Value {
	key := car(args)
	if key == nil || key.Type != TypeSymbol {
		return ev.heap.Error(ErrInvalidParamType)
	}
	return ev.define(key, ev.evalArg(args, 1, env))
}

func primIf(ev *Evaluator, _, args, env *Value) *Value {
	if ev.evalArg(args, 0, env).Truthy() {
		return ev.evalArg(args, 1, env)
	}
	return ev.evalArg(args, 2, env)
}

func primFn(ev *Evaluator, _, args, _ *Value) *Value {
	params := car(args)
	if params == nil || params.Type != TypePair || nthArg(args, 1) == nil {
		return ev.heap.Error(ErrInvalidParamType)
	}
	return ev.heap.Closure(params, cdr(args))
}

func primLet(ev *Evaluator, _, args, env *Value) *Value {
	bindings := car(args)
	if bindings == nil || bindings.Type != TypePair {
		return ev.heap.Error(ErrInvalidParamType)
	}
	return ev.applyLet(ev.heap.Let(bindings, cdr(args)), env)
}

func primQuote(ev *Evaluator, _, args, _ *Value) *Value {
	if v := car(args); v != nil {
		return v
	}
	return ev.heap.Nil()
}

func primType(ev *Evaluator, _, args, env *Value) *Value {
	v := ev.evalArg(args, 0, env)
	if v.IsNil() {
		return ev.heap.Int(0)
	}
	return ev.heap.Int(int64(v.Type) + 1)
}

func primEval(ev *Evaluator, _, args, env *Value) *Value {
	return ev.Eval(ev.evalArg(args, 0, env), env)
}

func primNative(ev *Evaluator, self, args, env *Value) *Value {
	return ev.callNative(self, ev.evalList(args, env), env)
}
