package logutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSharedSink(t *testing.T) {
	l := GetLogger("[test] ")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	l.Print("hello")
	if !strings.Contains(buf.String(), "[test] ") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected prefixed message, got %q", buf.String())
	}

	late := GetLogger("[late] ")
	late.Print("again")
	if !strings.Contains(buf.String(), "[late] ") {
		t.Fatalf("loggers created after SetOutput must use the sink, got %q", buf.String())
	}
}

func TestSetOutputFile(t *testing.T) {
	l := GetLogger("[file] ")
	name := filepath.Join(t.TempDir(), "log.txt")
	if err := SetOutputFile(name); err != nil {
		t.Fatalf("SetOutputFile: %v", err)
	}
	l.Print("to file")
	if err := SetOutputFile(""); err != nil {
		t.Fatalf("SetOutputFile reset: %v", err)
	}
	l.Print("discarded")

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") || strings.Contains(string(data), "discarded") {
		t.Fatalf("unexpected log contents %q", data)
	}

	if err := SetOutputFile(filepath.Join(t.TempDir(), "missing", "log.txt")); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
