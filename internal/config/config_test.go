package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvLogLevel, EnvLogFormat, EnvInclude, EnvExclude, EnvStore, EnvVerbose} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFile_YAML(t *testing.T) {
	p := writeFile(t, "mspec.yaml", `
log_level: debug
include:
  - "Account*"
exclude: [Account, slow]
store: runs.db
verbose: true
`)

	cfg, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, Config{
		LogLevel:  "debug",
		LogFormat: "text",
		Include:   []string{"Account*"},
		Exclude:   []string{"Account", "slow"},
		Store:     "runs.db",
		Verbose:   true,
	}, cfg)
}

func TestLoadFile_CUE(t *testing.T) {
	p := writeFile(t, "mspec.cue", `
log_format: "json"
exclude: ["Flaky"]
`)

	cfg, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"Flaky"}, cfg.Exclude)
	assert.Nil(t, cfg.Include)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    ErrorCode
	}{
		{"unknown key", "c.yaml", "colour: blue\n", ErrCodeSchemaViolation},
		{"bad enum", "c.yaml", "log_level: loud\n", ErrCodeSchemaViolation},
		{"wrong type", "c.yml", "verbose: sometimes\n", ErrCodeSchemaViolation},
		{"empty store", "c.cue", `store: ""`, ErrCodeSchemaViolation},
		{"bad yaml", "c.yaml", "log_level: [unterminated\n", ErrCodeParseFailed},
		{"bad cue", "c.cue", "log_level: {\n", ErrCodeParseFailed},
		{"unsupported", "c.toml", "log_level = 'debug'\n", ErrCodeUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, tt.file, tt.content)
			_, err := LoadFile(p)
			require.Error(t, err)

			var ce *Error
			require.True(t, errors.As(err, &ce), "got %T: %v", err, err)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, p, ce.Source)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeReadFailed, ce.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchemaViolation_CarriesHint(t *testing.T) {
	p := writeFile(t, "c.yaml", "log_format: xml\n")
	_, err := LoadFile(p)
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
	assert.Contains(t, errors.FlattenHints(err), "log_format (text|json)")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	p := writeFile(t, "mspec.yaml", "log_level: info\nstore: file.db\ninclude: [A]\n")
	t.Setenv(EnvConfig, p)
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvInclude, " Account , ,Ledger")
	t.Setenv(EnvVerbose, "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "file.db", cfg.Store)
	assert.Equal(t, []string{"Account", "Ledger"}, cfg.Include)
	assert.True(t, cfg.Verbose)
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvVerbose, "maybe")

	_, err := Load()
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeInvalidEnv, ce.Code)
	assert.Equal(t, EnvVerbose, ce.Source)
}

func TestLoad_EnvValuesAreValidated(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLogFormat, "xml")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, IsSchemaViolation(err))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	bad := Default()
	bad.LogLevel = "trace"
	assert.True(t, IsSchemaViolation(Validate(bad)))
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		category string
		want     bool
	}{
		{"no filters", Config{}, "Account", true},
		{"no filters uncategorized", Config{}, "", true},
		{"included exact", Config{Include: []string{"Account"}}, "Account", true},
		{"included glob", Config{Include: []string{"Account*"}}, "Account, deposits", true},
		{"not included", Config{Include: []string{"Ledger"}}, "Account", false},
		{"uncategorized with include", Config{Include: []string{"*"}}, "", false},
		{"excluded", Config{Exclude: []string{"Account"}}, "Account", false},
		{"exclude wins over include", Config{Include: []string{"A*"}, Exclude: []string{"Account"}}, "Account", false},
		{"uncategorized ignores exclude", Config{Exclude: []string{"*"}}, "", true},
		{"alternation first", Config{Include: []string{"{Account,Ledger}*"}}, "Account, deposits", true},
		{"alternation second", Config{Include: []string{"{Account,Ledger}*"}}, "Ledger", true},
		{"alternation miss", Config{Include: []string{"{Account,Ledger}*"}}, "Audit", false},
		{"excluded alternation", Config{Exclude: []string{"*{slow,flaky}"}}, "Account, slow", false},
		{"malformed pattern never matches", Config{Exclude: []string{"["}}, "Account", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Allows(tt.category))
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Default().Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "info"}.Level())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.Level())
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "error", Verbose: true}.Level())
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	Config{LogLevel: "info", LogFormat: "json"}.Logger(&buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	Config{LogLevel: "warn", LogFormat: "text"}.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())
}
