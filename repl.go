package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/sergev/minilisp/internal/history"
	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/reader"
	"github.com/sergev/minilisp/runtime"
)

const (
	prompt         = "minilisp> "
	continuePrompt = ".... "
	historyLimit   = 1000
	historyShown   = 20
)

type repl struct {
	host   *runtime.Host
	boot   string
	store  *history.Store
	logger *log.Logger
}

func (r *repl) run(in io.Reader, out, errOut io.Writer) error {
	if f, ok := in.(*os.File); ok && isInteractive(f) {
		return r.runInteractive(out, errOut)
	}
	return r.runBuffered(bufio.NewReader(in), out, errOut)
}

func isInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// command handles the REPL commands typed on a line of their own.
func (r *repl) command(line string, out io.Writer) (handled, quit bool) {
	switch strings.TrimSpace(line) {
	case "quit":
		return true, true
	case "boot":
		if err := r.host.LoadBoot(r.boot); err != nil {
			fmt.Fprintf(out, "boot: %v\n", err)
		}
		return true, false
	case ":mem":
		fmt.Fprintln(out, r.host.Stats())
		return true, false
	case ":history":
		r.showHistory(out)
		return true, false
	}
	return false, false
}

// showHistory prints the most recent stored commands with their sequence
// numbers.
func (r *repl) showHistory(out io.Writer) {
	if r.store == nil {
		fmt.Fprintln(out, "history is not available")
		return
	}
	next, err := r.store.NextCmdSeq()
	if err != nil {
		fmt.Fprintf(out, "history: %v\n", err)
		return
	}
	first := next - historyShown
	if first < 1 {
		first = 1
	}
	for seq := first; seq < next; seq++ {
		cmd, err := r.store.Cmd(seq)
		if errors.Is(err, history.ErrNoMatchingCmd) {
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "history: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%5d  %s\n", seq, cmd)
	}
}

// evalSource evaluates every form in src and prints each result. When the
// input stops inside a form and more may follow, nothing is evaluated and
// evalSource reports true.
func (r *repl) evalSource(src string, final bool, out, errOut io.Writer) (incomplete bool) {
	var forms []*lang.Value
	var err error
	r.host.Do(func(ev *lang.Evaluator) {
		forms, err = reader.New(ev.Heap()).ReadAll(src)
	})
	if err != nil {
		if reader.IsIncomplete(err) && !final {
			return true
		}
		fmt.Fprintf(errOut, "parse error: %v\n", err)
		return false
	}
	for _, form := range forms {
		fmt.Fprintln(out, r.host.EvalPrint(form))
	}
	return false
}

func (r *repl) runBuffered(in *bufio.Reader, out, errOut io.Writer) error {
	var buffer strings.Builder
	for {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read error: %w", err)
		}
		eof := err != nil

		if buffer.Len() == 0 {
			handled, quit := r.command(line, out)
			if quit {
				return nil
			}
			if handled {
				if eof {
					return nil
				}
				continue
			}
		}

		buffer.WriteString(line)
		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
		} else if !r.evalSource(src, eof, out, errOut) {
			buffer.Reset()
		}
		if eof {
			return nil
		}
	}
}

func (r *repl) runInteractive(out, errOut io.Writer) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	r.loadHistory(state)

	var buffer strings.Builder
	for {
		p := prompt
		if buffer.Len() > 0 {
			p = continuePrompt
		}
		input, err := state.Prompt(p)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				buffer.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}

		if buffer.Len() == 0 {
			handled, quit := r.command(input, out)
			if handled {
				r.remember(state, input)
			}
			if quit {
				return nil
			}
			if handled {
				continue
			}
		}

		buffer.WriteString(input)
		buffer.WriteByte('\n')
		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}
		if r.evalSource(src, false, out, errOut) {
			continue
		}
		buffer.Reset()
		r.remember(state, src)
	}
}

func (r *repl) loadHistory(state *liner.State) {
	if r.store == nil {
		return
	}
	cmds, err := r.store.Recent(historyLimit)
	if err != nil {
		r.logger.Printf("load history: %v", err)
		return
	}
	for _, cmd := range cmds {
		state.AppendHistory(cmd)
	}
}

func (r *repl) remember(state *liner.State, src string) {
	entry := strings.TrimSpace(src)
	if entry == "" {
		return
	}
	state.AppendHistory(entry)
	if r.store == nil {
		return
	}
	if _, err := r.store.AddCmd(entry); err != nil {
		r.logger.Printf("save history: %v", err)
	}
}
