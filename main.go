package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/sergev/minilisp/httpd"
	"github.com/sergev/minilisp/internal/config"
	"github.com/sergev/minilisp/internal/history"
	"github.com/sergev/minilisp/internal/logutil"
	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/project"
	"github.com/sergev/minilisp/runtime"
)

type options struct {
	config  string
	boot    string
	project string
	listen  string
	noHTTP  bool
	logFile string
	expr    string
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	opts := &options{}
	fs := flag.NewFlagSet("minilisp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.config, "config", "minilisp.toml", "configuration `file`")
	fs.StringVar(&opts.boot, "boot", "", "boot `file` evaluated at startup")
	fs.StringVar(&opts.project, "project", "", "project `file` evaluated at startup")
	fs.StringVar(&opts.listen, "http", "", "serve the HTTP bridge on `addr`")
	fs.BoolVar(&opts.noHTTP, "no-http", false, "disable the HTTP bridge")
	fs.StringVar(&opts.logFile, "log", "", "append log output to `file`")
	fs.StringVar(&opts.expr, "e", "", "evaluate `expr`, print the result and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs.Args(), nil
}

// apply overrides file settings with the flags given on the command line.
func (o *options) apply(cfg *config.Config) {
	if o.boot != "" {
		cfg.Boot = o.boot
	}
	if o.project != "" {
		cfg.Project = o.project
	}
	if o.listen != "" {
		cfg.HTTPD.Enabled = true
		cfg.HTTPD.Listen = o.listen
	}
	if o.noHTTP {
		cfg.HTTPD.Enabled = false
	}
	if o.logFile != "" {
		cfg.Log = o.logFile
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}
	cfg, err := config.Load(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "minilisp: %v\n", err)
		return 1
	}
	opts.apply(&cfg)
	if err := logutil.SetOutputFile(cfg.Log); err != nil {
		fmt.Fprintf(stderr, "minilisp: log: %v\n", err)
	}
	logger := logutil.GetLogger("[minilisp] ")

	ev := runtime.NewEvaluator(
		lang.WithLogger(logutil.GetLogger("[eval] ")),
		lang.WithMaxDepth(cfg.Eval.MaxDepth),
	)
	runtime.SetArgv(ev, rest)
	host := runtime.NewHost(ev, logger)
	host.Do(project.New(logutil.GetLogger("[project] ")).Install)

	if err := host.LoadBoot(cfg.Boot); err != nil {
		fmt.Fprintf(stderr, "minilisp: %v\n", err)
	}
	if cfg.Project != "" {
		if _, err := os.Stat(cfg.Project); err == nil {
			if _, err := project.LoadFile(host, cfg.Project); err != nil {
				fmt.Fprintf(stderr, "minilisp: %v\n", err)
			}
		}
	}

	switch {
	case opts.expr != "":
		v, err := host.EvalString(opts.expr)
		if err != nil {
			fmt.Fprintf(stderr, "minilisp: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, v)
		return 0
	case len(rest) > 0:
		return runScript(host, rest[0], stdin, stderr)
	}

	r := &repl{host: host, boot: cfg.Boot, logger: logger}
	if f, ok := stdin.(*os.File); ok && isInteractive(f) {
		if path := cfg.HistoryPath(); path != "" {
			if st, err := history.Open(path); err != nil {
				logger.Printf("history disabled: %v", err)
			} else {
				defer st.Close()
				r.store = st
			}
		}
	}
	return serve(host, cfg, r, stdin, stdout, stderr, logger)
}

func runScript(host *runtime.Host, script string, stdin io.Reader, stderr io.Writer) int {
	var err error
	if script == "-" {
		host.Do(func(ev *lang.Evaluator) {
			_, err = runtime.EvaluateReader(ev, stdin)
		})
	} else {
		_, err = host.LoadFile(script)
	}
	if err != nil {
		fmt.Fprintf(stderr, "minilisp: %v\n", err)
		return 1
	}
	return 0
}

// serve runs the REPL and, when enabled, the HTTP bridge. The bridge stops
// when the REPL ends.
func serve(host *runtime.Host, cfg config.Config, r *repl, stdin io.Reader, stdout, stderr io.Writer, logger *log.Logger) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.HTTPD.Enabled {
		handler := httpd.New(host, logutil.GetLogger("[httpd] "))
		g.Go(func() error {
			if err := httpd.Serve(ctx, cfg.HTTPD.Listen, handler, logger); err != nil {
				fmt.Fprintf(stderr, "minilisp: %v\n", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return r.run(stdin, stdout, stderr)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(stderr, "minilisp: %v\n", err)
		return 1
	}
	return 0
}
