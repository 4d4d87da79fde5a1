// Package runtime assembles a ready to use interpreter: the evaluator, the
// reader hook for the read builtin, the prelude, and helpers to run source
// text and files.
package runtime

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/reader"
)

// NewEvaluator constructs an evaluator with the standard runtime installed.
func NewEvaluator(opts ...lang.Option) *lang.Evaluator {
	opts = append([]lang.Option{lang.WithReader(readForm)}, opts...)
	ev := lang.NewEvaluator(opts...)
	if err := installLibrary(ev); err != nil {
		panic(fmt.Errorf("runtime bootstrap failed: %w", err))
	}
	return ev
}

func readForm(h *lang.Heap, src string) *lang.Value {
	v, _ := reader.New(h).ReadString(src)
	return v
}

// SetArgv binds argv to the command-line arguments as a list of strings.
func SetArgv(ev *lang.Evaluator, args []string) {
	values := make([]*lang.Value, len(args))
	for i, arg := range args {
		values[i] = lang.StringValue(arg)
	}
	ev.Define("argv", lang.List(values...))
}

func installLibrary(ev *lang.Evaluator) error {
	for _, form := range preludeForms {
		v, err := EvaluateString(ev, form)
		if err != nil {
			return err
		}
		if v.IsError() {
			return fmt.Errorf("prelude %s: %s", form, v)
		}
	}
	return nil
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx+1:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// EvaluateString parses every form in src and evaluates them in order in
// the global environment, returning the last result. Source that does not
// parse completely is not evaluated at all.
func EvaluateString(ev *lang.Evaluator, src string) (*lang.Value, error) {
	forms, err := reader.New(ev.Heap()).ReadAll(src)
	if err != nil {
		return ev.Heap().Error(lang.ErrSyntax), err
	}
	return ev.EvalAll(forms), nil
}

// EvaluateReader consumes all input from r and evaluates it.
func EvaluateReader(ev *lang.Evaluator, r io.Reader) (*lang.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return EvaluateString(ev, string(data))
}

// EvaluateFile loads and executes a source file, allowing #! shebang.
func EvaluateFile(ev *lang.Evaluator, path string) (*lang.Value, error) {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return nil, err
	}
	v, err := EvaluateString(ev, string(data))
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
