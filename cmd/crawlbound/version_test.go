package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("getVersion() should never be empty")
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "crawlbound version") {
		t.Errorf("output missing version line: %s", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("output missing build metadata: %s", out)
	}
}
