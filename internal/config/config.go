// Package config loads host configuration for specification runs.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults
//  2. the file named by MSPEC_CONFIG (.yaml, .yml or .cue)
//  3. MSPEC_* environment variables
//
// Files of either format are checked against the embedded CUE schema
// (#Config in schema.cue), which is closed: unknown keys are rejected.
package config

import (
	_ "embed"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig    = "MSPEC_CONFIG"
	EnvLogLevel  = "MSPEC_LOG_LEVEL"
	EnvLogFormat = "MSPEC_LOG_FORMAT"
	EnvInclude   = "MSPEC_INCLUDE"
	EnvExclude   = "MSPEC_EXCLUDE"
	EnvStore     = "MSPEC_STORE"
	EnvVerbose   = "MSPEC_VERBOSE"
)

//go:embed schema.cue
var schemaSource string

// Config controls how hosts log, filter and record specification runs.
type Config struct {
	LogLevel  string   `json:"log_level" yaml:"log_level"`
	LogFormat string   `json:"log_format" yaml:"log_format"`
	Include   []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude   []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Store     string   `json:"store,omitempty" yaml:"store,omitempty"`
	Verbose   bool     `json:"verbose" yaml:"verbose"`
}

// fileConfig distinguishes absent keys from zero values when merging.
type fileConfig struct {
	LogLevel  *string  `json:"log_level"`
	LogFormat *string  `json:"log_format"`
	Include   []string `json:"include"`
	Exclude   []string `json:"exclude"`
	Store     *string  `json:"store"`
	Verbose   *bool    `json:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load builds the effective configuration from defaults, the MSPEC_CONFIG
// file (if set) and the environment.
func Load() (Config, error) {
	cfg := Default()
	if p, ok := os.LookupEnv(EnvConfig); ok && p != "" {
		fc, err := readFile(p)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.merge(fc)
	}

	cfg, err := cfg.applyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile returns the defaults overlaid with the file at p. The environment
// is not consulted.
func LoadFile(p string) (Config, error) {
	fc, err := readFile(p)
	if err != nil {
		return Config{}, err
	}
	return Default().merge(fc), nil
}

// Validate checks cfg against the schema. Load and LoadFile validate their
// inputs; Validate is for configurations assembled in code.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	v := schema(ctx).Unify(ctx.Encode(cfg.values()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return newError(ErrCodeSchemaViolation, "", err, "%v", err)
	}
	return nil
}

func readFile(p string) (fileConfig, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return fileConfig{}, newError(ErrCodeReadFailed, p, err, "%v", err)
	}

	ctx := cuecontext.New()
	var doc cue.Value
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		raw := map[string]any{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fileConfig{}, newError(ErrCodeParseFailed, p, err, "parsing YAML: %v", err)
		}
		doc = ctx.Encode(raw)
	case ".cue":
		doc = ctx.CompileBytes(data, cue.Filename(p))
	default:
		return fileConfig{}, newError(ErrCodeUnsupportedFormat, p, nil,
			"unsupported extension %q (want .yaml, .yml or .cue)", filepath.Ext(p))
	}
	if err := doc.Err(); err != nil {
		return fileConfig{}, newError(ErrCodeParseFailed, p, err, "%v", err)
	}

	v := schema(ctx).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fileConfig{}, newError(ErrCodeSchemaViolation, p, err, "%v", err)
	}

	var fc fileConfig
	if err := v.Decode(&fc); err != nil {
		return fileConfig{}, newError(ErrCodeParseFailed, p, err, "decoding: %v", err)
	}
	return fc, nil
}

func schema(ctx *cue.Context) cue.Value {
	return ctx.CompileString(schemaSource, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
}

func (c Config) merge(fc fileConfig) Config {
	if fc.LogLevel != nil {
		c.LogLevel = *fc.LogLevel
	}
	if fc.LogFormat != nil {
		c.LogFormat = *fc.LogFormat
	}
	if fc.Include != nil {
		c.Include = fc.Include
	}
	if fc.Exclude != nil {
		c.Exclude = fc.Exclude
	}
	if fc.Store != nil {
		c.Store = *fc.Store
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	return c
}

func (c Config) applyEnv(lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v, ok := lookup(EnvInclude); ok && v != "" {
		c.Include = splitList(v)
	}
	if v, ok := lookup(EnvExclude); ok && v != "" {
		c.Exclude = splitList(v)
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store = v
	}
	if v, ok := lookup(EnvVerbose); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, newError(ErrCodeInvalidEnv, EnvVerbose, err, "%q is not a boolean", v)
		}
		c.Verbose = b
	}
	return c, nil
}

// values renders the non-empty fields under their schema keys.
func (c Config) values() map[string]any {
	m := map[string]any{
		"log_level":  c.LogLevel,
		"log_format": c.LogFormat,
		"verbose":    c.Verbose,
	}
	if len(c.Include) > 0 {
		m["include"] = c.Include
	}
	if len(c.Exclude) > 0 {
		m["exclude"] = c.Exclude
	}
	if c.Store != "" {
		m["store"] = c.Store
	}
	return m
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}

// Allows reports whether test cases in category should run. A non-empty
// Include list admits only matching categories; Exclude then removes
// matches. Patterns are doublestar globs, so "{Account,Ledger}*" admits
// both concepts. Uncategorized cases run only when Include is empty.
func (c Config) Allows(category string) bool {
	if category == "" {
		return len(c.Include) == 0
	}
	if len(c.Include) > 0 && !lo.SomeBy(c.Include, matcher(category)) {
		return false
	}
	return !lo.SomeBy(c.Exclude, matcher(category))
}

func matcher(category string) func(string) bool {
	return func(pattern string) bool {
		if pattern == category {
			return true
		}
		ok, err := doublestar.Match(pattern, category)
		return err == nil && ok
	}
}

// Level returns the slog level for LogLevel. Verbose forces debug.
func (c Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Logger returns a logger writing to w in LogFormat at Level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
