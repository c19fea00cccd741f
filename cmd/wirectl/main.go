// Command wirectl inspects wire data using a schema file.
//
//	wirectl check  -schema people.yaml
//	wirectl decode -schema people.yaml -type Person -format yaml < person.bin
//	wirectl encode -schema people.yaml -type Person -format json < person.json > person.bin
//
// Settings may also come from a TOML file given with -config; flags win.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zoobzio/wire"
	"github.com/zoobzio/wire/bson"
	"github.com/zoobzio/wire/json"
	"github.com/zoobzio/wire/msgpack"
	"github.com/zoobzio/wire/schema"
	"github.com/zoobzio/wire/yaml"
	"go.uber.org/zap"
)

const usage = `usage: wirectl <command> [flags]

commands:
  check   validate a schema and list its types
  decode  read one wire value and print it as -format
  encode  read a -format document and write it as wire bytes

run "wirectl <command> -h" for command flags
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "wirectl: %v\n", err)
		os.Exit(1)
	}
}

var codecs = map[string]func() wire.Codec{
	"json":    func() wire.Codec { return json.NewIndent("  ") },
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
}

type command struct {
	cfg    config
	in     string
	out    string
	schema *schema.Schema
	log    *zap.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}
	name, args := args[0], args[1:]

	var exec func(*command, io.Reader, io.Writer) error
	switch name {
	case "check":
		exec = (*command).check
	case "decode":
		exec = (*command).decode
	case "encode":
		exec = (*command).encode
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", name)
	}

	cmd, err := parseCommand(name, args, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = cmd.log.Sync() }()

	wire.SetLogger(cmd.log)
	defer wire.SetLogger(nil)

	return exec(cmd, stdin, stdout)
}

func parseCommand(name string, args []string, stderr io.Writer) (*command, error) {
	fs := flag.NewFlagSet("wirectl "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "TOML config file")
	schemaPath := fs.String("schema", "", "schema file (.yaml, .yml or .toml)")
	typeExpr := fs.String("type", "", "type expression, e.g. Person or []u32")
	format := fs.String("format", "", "document format: json, yaml, msgpack or bson")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	in := fs.String("in", "", "input file (default: stdin)")
	out := fs.String("out", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = *schemaPath
		case "type":
			cfg.Type = *typeExpr
		case "format":
			cfg.Format = *format
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if cfg.Schema == "" {
		return nil, errors.New("no schema given (use -schema or the config schema key)")
	}
	if _, ok := codecs[cfg.Format]; !ok {
		return nil, fmt.Errorf("unknown format %q", cfg.Format)
	}
	if name != "check" && cfg.Type == "" {
		return nil, errors.New("no type given (use -type or the config type key)")
	}

	logger, err := cfg.newLogger()
	if err != nil {
		return nil, err
	}

	s, err := schema.Load(cfg.Schema)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("schema loaded",
		zap.String("path", cfg.Schema),
		zap.Int("types", len(s.Types)),
	)

	return &command{
		cfg:    cfg,
		in:     *in,
		out:    *out,
		schema: s,
		log:    logger,
	}, nil
}

func (c *command) check(_ io.Reader, stdout io.Writer) error {
	for _, def := range c.schema.Types {
		switch def.Kind {
		case schema.KindRecord:
			fmt.Fprintf(stdout, "record %s (%d fields)\n", def.Name, len(def.Fields))
			for _, f := range def.Fields {
				fmt.Fprintf(stdout, "  %s %s\n", f.Name, f.Ref())
			}
		case schema.KindUnion:
			fmt.Fprintf(stdout, "union %s (%d variants)\n", def.Name, len(def.Variants))
			for i, v := range def.Variants {
				fmt.Fprintf(stdout, "  %d %s\n", i, v)
			}
		}
	}
	if c.cfg.Type != "" {
		if _, err := c.schema.Resolve(c.cfg.Type); err != nil {
			return err
		}
	}
	return nil
}

func (c *command) decode(stdin io.Reader, stdout io.Writer) error {
	data, err := c.readInput(stdin)
	if err != nil {
		return err
	}

	r := bytes.NewReader(data)
	v, err := c.schema.Decode(r, c.cfg.Type)
	if err != nil {
		return err
	}
	if r.Len() > 0 {
		return &wire.DecodeError{
			Err:   wire.ErrTrailingData,
			Type:  c.cfg.Type,
			Cause: fmt.Errorf("%d unread bytes", r.Len()),
		}
	}

	rendered, err := codecs[c.cfg.Format]().Marshal(v)
	if err != nil {
		return fmt.Errorf("render %s: %w", c.cfg.Format, err)
	}
	if c.cfg.Format == "json" && !bytes.HasSuffix(rendered, []byte("\n")) {
		rendered = append(rendered, '\n')
	}
	c.log.Debug("decoded",
		zap.String("type", c.cfg.Type),
		zap.Int("wire_bytes", len(data)),
		zap.String("format", c.cfg.Format),
	)
	return c.writeOutput(stdout, rendered)
}

func (c *command) encode(stdin io.Reader, stdout io.Writer) error {
	data, err := c.readInput(stdin)
	if err != nil {
		return err
	}

	var v any
	if err := codecs[c.cfg.Format]().Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse %s: %w", c.cfg.Format, err)
	}
	if c.cfg.Format == "bson" {
		if doc, ok := v.(map[string]any); ok && !c.isRecord() {
			v = doc[bson.ValueKey]
		}
	}

	var buf bytes.Buffer
	n, err := c.schema.Encode(&buf, c.cfg.Type, v)
	if err != nil {
		return err
	}
	c.log.Debug("encoded",
		zap.String("type", c.cfg.Type),
		zap.Int("wire_bytes", n),
		zap.String("format", c.cfg.Format),
	)
	return c.writeOutput(stdout, buf.Bytes())
}

func (c *command) isRecord() bool {
	def, ok := c.schema.Lookup(c.cfg.Type)
	return ok && def.Kind == schema.KindRecord
}

func (c *command) readInput(stdin io.Reader) ([]byte, error) {
	if c.in == "" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(c.in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func (c *command) writeOutput(stdout io.Writer, data []byte) error {
	if c.out == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.out, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
