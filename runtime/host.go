package runtime

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"

	"github.com/sergev/minilisp/lang"
)

// Host shares one evaluator between several front ends. The evaluator is
// not safe for concurrent use, so every entry point takes the same lock.
type Host struct {
	mu     sync.Mutex
	ev     *lang.Evaluator
	logger *log.Logger
}

// NewHost wraps ev.
func NewHost(ev *lang.Evaluator, logger *log.Logger) *Host {
	return &Host{ev: ev, logger: logger}
}

// Do runs fn with exclusive access to the evaluator.
func (h *Host) Do(fn func(ev *lang.Evaluator)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.ev)
}

// EvalString evaluates every form in src.
func (h *Host) EvalString(src string) (*lang.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return EvaluateString(h.ev, src)
}

// EvalPrint evaluates a top-level form and returns the printed result.
// The form and the result are released afterwards.
func (h *Host) EvalPrint(form *lang.Value) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := h.ev.Eval(form, nil)
	out := result.String()
	if !lang.Reaches(form, result) {
		h.ev.Release(result)
	}
	h.ev.Release(form)
	return out
}

// Call applies the global procedure bound to name to already evaluated
// arguments. An unbound name yields the cannot-apply error value.
func (h *Host) Call(name string, args ...*lang.Value) *lang.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn, ok := h.ev.Lookup(name)
	if !ok || !fn.IsProcedure() {
		return lang.ErrorValue(lang.ErrApplyNil)
	}
	quoted := make([]*lang.Value, len(args))
	for i, arg := range args {
		quoted[i] = lang.Quote(arg)
	}
	return h.ev.Apply(fn, lang.List(quoted...), nil)
}

// Stats returns the evaluator's allocation counters.
func (h *Host) Stats() lang.Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ev.Heap().Stats()
}

// LoadFile evaluates a source file.
func (h *Host) LoadFile(path string) (*lang.Value, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return EvaluateFile(h.ev, path)
}

// LoadBoot evaluates the boot file at path. A missing file is not an error.
func (h *Host) LoadBoot(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.Printf("no boot file at %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("boot file: %w", err)
	}
	v, err := h.LoadFile(path)
	if err != nil {
		return fmt.Errorf("boot file: %w", err)
	}
	h.logger.Printf("boot file bytes read: %d, result %s", info.Size(), v)
	return nil
}
