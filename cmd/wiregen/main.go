// Command wiregen generates Go types with wire methods from a schema file.
//
//	wiregen -schema people.yaml -out people_wire.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zoobzio/wire/internal/gen"
	"github.com/zoobzio/wire/schema"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "wiregen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("wiregen", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "schema file (.yaml, .yml or .toml)")
	out := fs.String("out", "", "output Go file (default: stdout)")
	pkg := fs.String("package", "", "Go package name (default: the schema's package)")
	verbose := fs.Bool("v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		return fmt.Errorf("-schema is required")
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	s, err := schema.Load(*schemaPath)
	if err != nil {
		return err
	}
	logger.Debug("schema loaded",
		zap.String("path", *schemaPath),
		zap.Int("types", len(s.Types)),
	)

	src, err := gen.Generate(s, gen.Options{
		Package: *pkg,
		Source:  filepath.Base(*schemaPath),
	})
	if err != nil {
		return err
	}

	if *out == "" {
		_, err := stdout.Write(src)
		return err
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	logger.Info("generated",
		zap.String("out", *out),
		zap.Int("bytes", len(src)),
	)
	return nil
}
