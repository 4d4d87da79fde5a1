package lang_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/runtime"
)

const (
	e4 = "<e4:invalid or no parameter given.>"
	e5 = "<e5:out of bounds.>"
)

func mustEval(t *testing.T, ev *lang.Evaluator, src string) *lang.Value {
	t.Helper()
	v, err := runtime.EvaluateString(ev, src)
	if err != nil {
		t.Fatalf("EvaluateString(%q) error: %v", src, err)
	}
	return v
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(+ 1 2 3)", "6"},
		{"(def double (fn (x) (+ x x))) (double 21)", "42"},
		{"(+ 9223372036854775807 1)", "9223372036854775808"},
		{"(if (- 2 2) 1 0)", "1"},
		{"(map (fn (x i) (* x 2)) (list 1 2 3))", "(2 4 6)"},
	}
	for _, tt := range tests {
		ev := runtime.NewEvaluator()
		if got := mustEval(t, ev, tt.src).String(); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.src, tt.want, got)
		}
	}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"sub", "(- 10 4 3)", "3"},
		{"mul", "(* 2 3 7)", "42"},
		{"div", "(/ 84 2)", "42"},
		{"mod", "(% 17 5)", "2"},
		{"single operand", "(- 5)", "5"},
		{"no operands", "(+)", e4},
		{"non-number operand", `(+ 1 "a")`, e4},
		{"div by zero", "(/ 1 0)", e4},
		{"mod by zero", "(% 1 0)", e4},
		{"mul overflow promotes", "(* 922337203685477579 100)", "92233720368547757900"},
		{"negative overflow promotes", "(* -922337203685477579 100)", "-92233720368547757900"},
		{"bignum division", "(/ 12345678901234567890 2)", e4},
		{"bignum difference canonical", "(- 12345678901234567890 12345678901234567890)", "0"},
		{"no demotion", "(type (- 12345678901234567890 12345678901234567889))", "6"},

		{"less", "(< 1 2)", "1"},
		{"greater", "(> 1 2)", "0"},
		{"equal", "(= 3 3)", "1"},
		{"int below bignum", "(< 5 12345678901234567890)", "1"},
		{"negative bignum", "(> -12345678901234567890 5)", "0"},
		{"string equal", `(= "abc" "abc")`, "1"},
		{"string order", `(< "abc" "abd")`, "1"},
		{"symbol and string", `(= (quote a) "a")`, "1"},
		{"mixed comparison", `(< 1 "a")`, e4},

		{"if zero is true", "(if 0 1 2)", "1"},
		{"if nil", "(if nil 1 0)", "0"},
		{"if without else", "(if () 1)", "nil"},
		{"error is true", "(if (/ 1 0) 1 0)", "1"},
		{"do", "(do 1 2 3)", "3"},
		{"empty do", "(do)", "nil"},
		{"quote", "(quote (a b))", "(a b)"},
		{"eval", "(eval (quote (+ 1 2)))", "3"},
		{"eval built form", "(eval (list + 1 2))", "3"},
		{"anonymous call", "((fn (x) (* x x)) 7)", "49"},
		{"non-procedure head", "(1 2)", "(1 2)"},
		{"unbound head", "(undefined-fn 1)", "(undefined-fn 1)"},
		{"unbound symbol", "unbound", "nil"},

		{"def returns value", "(def a 5)", "5"},
		{"def shadows", "(def a 1) (def a 2) a", "2"},
		{"closure form", "(fn (x) x)", "<proc (x)>"},
		{"closure value", "(def k (fn () 5)) k", "<proc (5)>"},
		{"eval applies closure", "(def k (fn () 5)) (eval k)", "5"},
		{"fn without params", "(fn x x)", e4},
		{"fn without body", "(fn (x))", e4},
		{"missing actual", "(def f (fn (a b) b)) (f 1)", "nil"},
		{"extra actuals", "(def f (fn (a) a)) (f 1 2 3)", "1"},
		{"dynamic scope", "(def show (fn () y)) (def g (fn (y) (show))) (g 9)", "9"},

		{"let", "(let (a 1 b (+ a 1)) (+ a b))", "3"},
		{"let body sequence", "(let (a 1) 1 2 a)", "1"},
		{"let empty body", "(let (a 1))", "nil"},
		{"let bad bindings", "(let a 1)", e4},

		{"list", "(list 1 2 3)", "(1 2 3)"},
		{"empty list", "(list)", "nil"},
		{"car", "(car (list 1 2))", "1"},
		{"cdr", "(cdr (list 1 2))", "(2)"},
		{"car of nil", "(car nil)", "nil"},
		{"cdr of nil", "(cdr nil)", "nil"},
		{"car of int", "(car 5)", e4},
		{"cons pair", "(cons 1 2)", "(1.2)"},
		{"cons list", "(cons 1 (list 2 3))", "(1 2 3)"},
		{"reverse", "(reverse (list 1 2 3))", "(3 2 1)"},
		{"reverse several", "(reverse (list 1 2) (list 3 4))", "(4 3 2 1)"},
		{"append", "(append (list 1 2) (list 3) nil)", "(1 2 3)"},
		{"append non-list", "(append (list 1) 2)", e4},
		{"len string", `(len "hello")`, "5"},
		{"len bytes", "(len [0102])", "2"},
		{"len list", "(len (list 1 2 3))", "3"},
		{"len int", "(len 5)", e4},
		{"get string", `(get "abc" 1)`, "98"},
		{"get bytes", "(get [ff00] 0)", "255"},
		{"get past end", `(get "abc" 3)`, e5},
		{"get negative", `(get "abc" -1)`, e5},
		{"get int", "(get 1 0)", e4},
		{"set returns byte", "(def b [000000]) (set b 1 258)", "2"},
		{"set stores low byte", "(def b [000000]) (set b 1 258) b", "[000200]"},
		{"set past end", `(set "abc" 5 1)`, e5},
		{"map index", "(map (fn (x i) i) (list 7 8 9))", "(0 1 2)"},
		{"map string", `(map (fn (c i) c) "ab")`, `("a" "b")`},
		{"map builtin", "(map car (list (list 1 2) (list 3)))", "(1 3)"},
		{"map non-procedure", "(map 5 (list 1))", "nil"},
		{"filter", "(filter (fn (x) (> x 1)) (list 1 2 3))", "(2 3)"},
		{"filter drops nil and zero", "(filter (fn (x) x) (list 1 0 nil 2))", "(1 2)"},
		{"filter non-list", "(filter (fn (x) x) 5)", e4},

		{"concat", `(concat "a" 1 "b")`, `"a1b"`},
		{"concat list", `(concat (list "x" "y" 3))`, `"xy3"`},
		{"concat nothing", "(concat)", `""`},
		{"substr", `(substr "hello" 1 3)`, `"ell"`},
		{"substr rest", `(substr "hello" 2)`, `"llo"`},
		{"substr offset at end", `(substr "hello" 5)`, e5},
		{"substr too long", `(substr "hello" 1 9)`, e5},
		{"substr bytes", "(substr [010203] 1 1)", "[02]"},
		{"substr int", "(substr 5 0)", e4},
		{"str int", "(str 42)", `"42"`},
		{"str symbol", "(str (quote abc))", `"abc"`},
		{"str list", "(str (list 1 2))", `"(1 2)"`},
		{"str bytes", "(str [6869])", `"hi"`},

		{"type int", "(type 1)", "1"},
		{"type nil", "(type nil)", "0"},
		{"type string", `(type "s")`, "7"},
		{"type bytes", "(type [00])", "8"},
		{"type symbol", "(type (quote a))", "3"},
		{"type list", "(type (list 1))", "2"},
		{"type builtin", "(type +)", "5"},
		{"type closure", "(type (fn (x) x))", "4"},
		{"type error", "(type (/ 1 0))", "10"},

		{"read", `(read "(+ 1 2)")`, "(+ 1 2)"},
		{"eval read", `(eval (read "(+ 1 2)"))`, "3"},
		{"read non-string", "(read 5)", e4},

		{"not zero", "(not 0)", "1"},
		{"not one", "(not 1)", "nil"},
		{"nth", "(nth (list 5 6 7) 2)", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := runtime.NewEvaluator()
			if got := mustEval(t, ev, tt.src).String(); got != tt.want {
				t.Fatalf("%s: expected %s, got %s", tt.src, tt.want, got)
			}
		})
	}
}

func TestNativeFunctions(t *testing.T) {
	ev := runtime.NewEvaluator()
	ev.RegisterNative("ping", func(*lang.Evaluator, *lang.Value, *lang.Value) *lang.Value {
		return lang.IntValue(1)
	})
	ev.RegisterNative("sum", func(_ *lang.Evaluator, args, _ *lang.Value) *lang.Value {
		items, err := lang.ToSlice(args)
		if err != nil {
			return lang.ErrorValue(lang.ErrInvalidParamType)
		}
		var total int64
		for _, v := range items {
			total += v.Int
		}
		return lang.IntValue(total)
	})
	ev.RegisterNative("nothing", func(*lang.Evaluator, *lang.Value, *lang.Value) *lang.Value {
		return nil
	})
	ev.RegisterNative("boom", func(*lang.Evaluator, *lang.Value, *lang.Value) *lang.Value {
		panic("malformed input")
	})

	tests := []struct {
		src  string
		want string
	}{
		{"(ping)", "1"},
		{"(sum 1 (+ 1 1) 3)", "6"},
		{"(nothing)", "nil"},
		{"(type ping)", "5"},
		{"(boom)", "<e500:fatal error in native function.>"},
		{"(def f (fn (x) (boom x))) (f 1)", "<e500:fatal error in native function.>"},
		{"(+ 1 1)", "2"},
	}
	for _, tt := range tests {
		if got := mustEval(t, ev, tt.src).String(); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", tt.src, tt.want, got)
		}
		if ev.Depth() != 0 || ev.Heap().Scope() != 0 {
			t.Fatalf("%s: evaluator not restored: depth %d scope %d", tt.src, ev.Depth(), ev.Heap().Scope())
		}
	}
}

func TestDepthGuard(t *testing.T) {
	tests := []struct {
		name     string
		maxDepth int
		src      string
	}{
		{"head position", 100, "(def f (fn (x) (f x))) (f 1)"},
		{"argument position", 100, "(def g (fn (x) (g (+ x 1)))) (g 0)"},
		{"operand position", 100, "(def h (fn (n) (* n (h (- n 1))))) (h 5)"},
		{"inside map", 100, "(def m (fn (l) (map m (list l)))) (m 1)"},
		{"default ceiling", 0, "(def g (fn (x) (g (+ x 1)))) (g 0)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []lang.Option
			if tt.maxDepth > 0 {
				opts = append(opts, lang.WithMaxDepth(tt.maxDepth))
			}
			ev := runtime.NewEvaluator(opts...)
			v := mustEval(t, ev, tt.src)
			if !v.IsError() || v.Code() != lang.ErrMaxEvalDepth {
				t.Fatalf("expected depth error, got %s", v)
			}
			if ev.Depth() != 0 {
				t.Fatalf("expected depth 0 after abort, got %d", ev.Depth())
			}
			if got := mustEval(t, ev, "(+ 1 2)").String(); got != "3" {
				t.Fatalf("evaluator unusable after abort, got %s", got)
			}
		})
	}
}

func TestReleaseSkipsLiveValues(t *testing.T) {
	ev := runtime.NewEvaluator()
	before := ev.Heap().Stats()
	v := mustEval(t, ev, "(def a (list 1 2)) (let (b (list 3 4)) b 5) (len a)")
	if v.String() != "2" {
		t.Fatalf("expected 2, got %s", v)
	}
	after := ev.Heap().Stats()
	if after.Frees[lang.TypeInt] != before.Frees[lang.TypeInt] {
		t.Fatalf("bound integers were released: %d before, %d after",
			before.Frees[lang.TypeInt], after.Frees[lang.TypeInt])
	}
	if got := mustEval(t, ev, "a").String(); got != "(1 2)" {
		t.Fatalf("expected (1 2), got %s", got)
	}
}

func TestNestedResultsSurviveScopes(t *testing.T) {
	ev := runtime.NewEvaluator()
	src := `
(def mk (fn (x) (let (y (list x x)) y)))
(def r (mk 5))
(def s (let (z (mk 6)) (cons z z)))
(list r s)`
	if got := mustEval(t, ev, src).String(); got != "((5 5) ((6 6) 6 6))" {
		t.Fatalf("unexpected result %s", got)
	}
	if ev.Heap().Scope() != 0 {
		t.Fatalf("scope not restored, got %d", ev.Heap().Scope())
	}
}

func TestComparisonMatchesBigInt(t *testing.T) {
	values := []string{
		"0", "1", "-1",
		"922337203685477579", "922337203685477580", "922337203685477581",
		"-922337203685477579", "-922337203685477580",
		"9223372036854775807", "9223372036854775808", "-9223372036854775808",
		"123456789012345678901234567890",
	}
	ev := runtime.NewEvaluator()
	for _, a := range values {
		for _, b := range values {
			x, _ := new(big.Int).SetString(a, 10)
			y, _ := new(big.Int).SetString(b, 10)
			c := x.Cmp(y)
			for op, want := range map[string]bool{"<": c < 0, ">": c > 0, "=": c == 0} {
				src := fmt.Sprintf("(%s %s %s)", op, a, b)
				got := mustEval(t, ev, src)
				if got.Type != lang.TypeInt || (got.Int == 1) != want {
					t.Fatalf("%s: expected %v, got %s", src, want, got)
				}
			}
		}
	}
}

func TestSumMatchesBigInt(t *testing.T) {
	ev := runtime.NewEvaluator()
	terms := []string{"9223372036854775807", "9223372036854775807", "-5", "922337203685477579"}
	want := new(big.Int)
	src := "(+"
	for _, term := range terms {
		n, _ := new(big.Int).SetString(term, 10)
		want.Add(want, n)
		src += " " + term
	}
	src += ")"
	if got := mustEval(t, ev, src).String(); got != want.String() {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
