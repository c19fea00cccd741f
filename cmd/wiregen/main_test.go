package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const colorsTOML = `
package = "palette"

[[types]]
name = "Color"
kind = "union"
variants = ["Red", "Green"]

[[types]]
name = "Swatch"
kind = "record"
fields = [
  { name = "Color", type = "Color" },
  { name = "Weight", type = "u8" },
]
`

func TestRunWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "palette.toml")
	out := filepath.Join(dir, "palette_wire.go")
	if err := os.WriteFile(in, []byte(colorsTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"-schema", in, "-out", out}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	src, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), out, src, 0)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	if f.Name.Name != "palette" {
		t.Errorf("package = %q, want palette", f.Name.Name)
	}
	if !strings.Contains(string(src), "from palette.toml") {
		t.Error("header does not name the schema file")
	}
}

func TestRunStdoutAndPackageOverride(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "palette.toml")
	if err := os.WriteFile(in, []byte(colorsTOML), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run([]string{"-schema", in, "-package", "colors"}, &stdout); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "package colors") {
		t.Errorf("stdout missing package override:\n%s", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	if err := run(nil, &bytes.Buffer{}); err == nil {
		t.Error("expected error without -schema")
	}
	if err := run([]string{"-schema", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing schema file")
	}
}
