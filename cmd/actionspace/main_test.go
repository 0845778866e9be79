package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunPerftDivide(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"-perft", "1"}, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d; stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "2410 e2e4: 1\n") || !strings.HasSuffix(out.String(), "Total: 20\n") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunLegalOnly(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"-legal-only", "-backend", "goose"}, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d; stderr: %s", code, errOut.String())
	}
	if !strings.HasSuffix(out.String(), "Total: 20\n") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunErrorKeepsProfile(t *testing.T) {
	prof := filepath.Join(t.TempDir(), "cpu.prof")
	var out, errOut bytes.Buffer
	code := run([]string{"-legal-only", "-backend", "nope", "-cpuprofile", prof}, &out, &errOut)
	if code != 2 {
		t.Fatalf("exit code = %d; want 2", code)
	}
	if !strings.Contains(errOut.String(), "open position") {
		t.Errorf("stderr = %q", errOut.String())
	}
	info, err := os.Stat(prof)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("cpu profile was not flushed on the error path")
	}
}

func TestRunBadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"-nosuchflag"}, &out, &errOut); code != 2 {
		t.Errorf("exit code = %d; want 2", code)
	}
}
