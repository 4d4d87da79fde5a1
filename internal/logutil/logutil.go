// Package logutil hands out loggers that share one output sink. Output is
// discarded until the sink is set.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	file    *os.File
	loggers []*log.Logger
)

// GetLogger returns a logger writing to the shared sink with the given
// prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, l)
	return l
}

// SetOutput redirects every logger to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	setOutput(w)
}

func setOutput(w io.Writer) {
	out = w
	for _, l := range loggers {
		l.SetOutput(w)
	}
}

// SetOutputFile redirects every logger to the named file, appending to it.
// An empty name discards output again.
func SetOutputFile(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	if name == "" {
		setOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		setOutput(io.Discard)
		return err
	}
	file = f
	setOutput(f)
	return nil
}
