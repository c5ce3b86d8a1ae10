// Package config loads valobs settings from valobs.cue or .valobs.yaml.
//
// Both forms are unified with the embedded CUE schema, which supplies
// defaults and rejects unknown fields and out-of-range values.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/valobs/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// File names searched for, in order, when no explicit path is given.
const (
	CUEFile  = "valobs.cue"
	YAMLFile = ".valobs.yaml"
)

// Config holds generator settings.
type Config struct {
	DirectivePrefix string `json:"directive_prefix" yaml:"directive_prefix"`
	BuildTag        string `json:"build_tag" yaml:"build_tag"`
	OutputSuffix    string `json:"output_suffix" yaml:"output_suffix"`
	Cache           string `json:"cache" yaml:"cache"`
	Workers         int    `json:"workers" yaml:"workers"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `json:"-" yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DirectivePrefix: "valobs",
		BuildTag:        "valobsgen",
		OutputSuffix:    "_valobs.go",
		Workers:         4,
	}
}

// Directive returns the full spelling of a directive, e.g. "//valobs:observe".
func (c Config) Directive(name string) string {
	return "//" + c.DirectivePrefix + ":" + name
}

// OutputPath maps a template file to its generated file.
func (c Config) OutputPath(template string) string {
	return strings.TrimSuffix(template, ".go") + c.OutputSuffix
}

// Fingerprint identifies the settings that change generated output. Cache
// location and worker count are excluded.
func (c Config) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%s", c.DirectivePrefix, c.BuildTag, c.OutputSuffix, ir.GeneratorVersion)
}

// Error is a configuration error, positioned when CUE reports a location.
type Error struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Load reads the configuration for dir. An explicit path wins over discovery;
// when neither exists the defaults are returned.
func Load(dir, explicit string) (Config, error) {
	path := explicit
	if path == "" {
		for _, name := range []string{CUEFile, YAMLFile} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return Default(), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Path: path, Message: fmt.Sprintf("reading config: %v", err)}
	}

	var cfg Config
	switch filepath.Ext(path) {
	case ".cue":
		cfg, err = ParseCUE(path, src)
	case ".yaml", ".yml":
		cfg, err = ParseYAML(path, src)
	default:
		return Config{}, &Error{Path: path, Message: "unsupported config format (want .cue or .yaml)"}
	}
	if err != nil {
		return Config{}, err
	}
	cfg.Source = path
	return cfg, nil
}

// ParseCUE parses a CUE configuration.
func ParseCUE(path string, src []byte) (Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(path, err)
	}
	return unifyWithSchema(ctx, path, v)
}

// ParseYAML parses a YAML configuration. Unknown fields are rejected before
// the schema runs so typos get a YAML line number.
func ParseYAML(path string, src []byte) (Config, error) {
	var raw yamlConfig
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &Error{Path: path, Message: err.Error()}
	}

	ctx := cuecontext.New()
	v := ctx.Encode(raw.fields())
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(path, err)
	}
	return unifyWithSchema(ctx, path, v)
}

// yamlConfig records which fields were set so schema defaults fill the rest.
type yamlConfig struct {
	DirectivePrefix *string `yaml:"directive_prefix"`
	BuildTag        *string `yaml:"build_tag"`
	OutputSuffix    *string `yaml:"output_suffix"`
	Cache           *string `yaml:"cache"`
	Workers         *int    `yaml:"workers"`
}

func (y yamlConfig) fields() map[string]any {
	out := map[string]any{}
	if y.DirectivePrefix != nil {
		out["directive_prefix"] = *y.DirectivePrefix
	}
	if y.BuildTag != nil {
		out["build_tag"] = *y.BuildTag
	}
	if y.OutputSuffix != nil {
		out["output_suffix"] = *y.OutputSuffix
	}
	if y.Cache != nil {
		out["cache"] = *y.Cache
	}
	if y.Workers != nil {
		out["workers"] = *y.Workers
	}
	return out
}

func unifyWithSchema(ctx *cue.Context, path string, v cue.Value) (Config, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(path, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(path, err)
	}
	return cfg, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Path: path, Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
