package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Output.Format != "sexpr" {
		t.Errorf("expected default format 'sexpr', got %q", cfg.Output.Format)
	}
	if cfg.Parser.MaxDepth != 1000 {
		t.Errorf("expected default max depth 1000, got %d", cfg.Parser.MaxDepth)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected default log level 'warn', got %q", cfg.Logging.Level)
	}
	if !cfg.Check.Extensions.Contains(".lkql") {
		t.Errorf("expected default extensions to contain .lkql, got %v", cfg.Check.Extensions)
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "LKQL_FORMAT":
			return "json"
		case "LKQL_DEPTH":
			return "50"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "format: ${LKQL_FORMAT}",
			expected: "format: json",
		},
		{
			name:     "with default (env set)",
			input:    "format: ${LKQL_FORMAT:-yaml}",
			expected: "format: json",
		},
		{
			name:     "with default (env not set)",
			input:    "format: ${UNSET_VAR:-yaml}",
			expected: "format: yaml",
		},
		{
			name:     "unset without default",
			input:    "format: ${UNSET_VAR}",
			expected: "format: ",
		},
		{
			name:     "multiple substitutions",
			input:    "x: ${LKQL_FORMAT}/${LKQL_DEPTH}",
			expected: "x: json/50",
		},
		{
			name:     "no substitution needed",
			input:    "static: value $HOME",
			expected: "static: value $HOME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, ".lkql.yaml", `
output:
  format: json
  color: never
check:
  extensions: [.lkql, .q]
parser:
  max_depth: 64
logging:
  level: debug
  encoding: json
repl:
  history_file: history.txt
`)

	cfg, err := Load(path, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Format != "json" {
		t.Errorf("expected format 'json', got %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "never" {
		t.Errorf("expected color 'never', got %q", cfg.Output.Color)
	}
	if len(cfg.Check.Extensions) != 2 {
		t.Errorf("expected 2 extensions, got %v", cfg.Check.Extensions)
	}
	if cfg.Parser.MaxDepth != 64 {
		t.Errorf("expected max depth 64, got %d", cfg.Parser.MaxDepth)
	}
	if cfg.Logging.Encoding != "json" {
		t.Errorf("expected encoding 'json', got %q", cfg.Logging.Encoding)
	}
	expectedHistory := filepath.Join(filepath.Dir(path), "history.txt")
	if cfg.REPL.HistoryFile != expectedHistory {
		t.Errorf("expected history file %q, got %q", expectedHistory, cfg.REPL.HistoryFile)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, ".lkql.toml", `
[output]
format = "yaml"

[check]
extensions = ".q"
watch = true

[logging]
level = "info"
`)

	cfg, err := Load(path, os.Getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format 'yaml', got %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" {
		t.Errorf("expected default color 'auto', got %q", cfg.Output.Color)
	}
	if !cfg.Check.Watch {
		t.Error("expected check.watch to be true")
	}
	if len(cfg.Check.Extensions) != 1 || cfg.Check.Extensions[0] != ".q" {
		t.Errorf("expected [.q], got %v", cfg.Check.Extensions)
	}
	if cfg.Parser.MaxDepth != 1000 {
		t.Errorf("expected default max depth, got %d", cfg.Parser.MaxDepth)
	}
}

func TestLoadWithEnvInterpolation(t *testing.T) {
	path := writeConfig(t, ".lkql.yml", `
output:
  format: ${LKQL_TEST_FORMAT:-sexpr}
logging:
  level: ${LKQL_TEST_LEVEL}
`)
	getenv := func(key string) string {
		if key == "LKQL_TEST_LEVEL" {
			return "error"
		}
		return ""
	}

	cfg, err := Load(path, getenv)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != "sexpr" {
		t.Errorf("expected format 'sexpr', got %q", cfg.Output.Format)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level 'error', got %q", cfg.Logging.Level)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		expectErr bool
		errSubstr string
	}{
		{
			name:      "empty file keeps defaults",
			config:    ``,
			expectErr: false,
		},
		{
			name: "invalid format",
			config: `
output:
  format: xml
`,
			expectErr: true,
			errSubstr: "invalid output format",
		},
		{
			name: "invalid color",
			config: `
output:
  color: sometimes
`,
			expectErr: true,
			errSubstr: "invalid color mode",
		},
		{
			name: "invalid log level",
			config: `
logging:
  level: verbose
`,
			expectErr: true,
			errSubstr: "invalid log level",
		},
		{
			name: "invalid log encoding",
			config: `
logging:
  encoding: logfmt
`,
			expectErr: true,
			errSubstr: "invalid log encoding",
		},
		{
			name: "zero max depth",
			config: `
parser:
  max_depth: 0
`,
			expectErr: true,
			errSubstr: "invalid parser max_depth",
		},
		{
			name: "extension without dot",
			config: `
check:
  extensions: lkql
`,
			expectErr: true,
			errSubstr: "must start with '.'",
		},
		{
			name:      "malformed yaml",
			config:    "output: [",
			expectErr: true,
			errSubstr: "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, ".lkql.yaml", tt.config)

			_, err := Load(path, os.Getenv)

			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	noenv := func(string) string { return "" }

	if _, err := resolveConfigPath("/nonexistent/path/.lkql.yaml", noenv); err == nil {
		t.Error("expected error for nonexistent path")
	}

	dir := t.TempDir()
	if _, err := resolveConfigPath(dir, noenv); err == nil {
		t.Error("expected error for directory")
	}

	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	resolved, err := resolveConfigPath(path, noenv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != path {
		t.Errorf("expected %q, got %q", path, resolved)
	}

	// LKQL_CONFIG is used when no explicit path is given
	getenv := func(key string) string {
		if key == "LKQL_CONFIG" {
			return path
		}
		return ""
	}
	resolved, err = resolveConfigPath("", getenv)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if resolved != path {
		t.Errorf("expected %q from LKQL_CONFIG, got %q", path, resolved)
	}

	missing := func(key string) string {
		if key == "LKQL_CONFIG" {
			return filepath.Join(dir, "missing.yaml")
		}
		return ""
	}
	if _, err := resolveConfigPath("", missing); err == nil || !strings.Contains(err.Error(), "LKQL_CONFIG") {
		t.Errorf("expected LKQL_CONFIG error, got %v", err)
	}
}

func TestLoadWithPath(t *testing.T) {
	path := writeConfig(t, "settings.toml", "[parser]\nmax_depth = 10\n")

	cfg, resolved, err := LoadWithPath(path, os.Getenv)
	if err != nil {
		t.Fatalf("LoadWithPath failed: %v", err)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("expected absolute path, got %q", resolved)
	}
	if cfg.BaseDir != filepath.Dir(resolved) {
		t.Errorf("expected base dir %q, got %q", filepath.Dir(resolved), cfg.BaseDir)
	}
	if cfg.Parser.MaxDepth != 10 {
		t.Errorf("expected max depth 10, got %d", cfg.Parser.MaxDepth)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Output.Format = "xml"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration errors:") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "invalid output format: xml") || !strings.Contains(msg, "invalid log level: loud") {
		t.Errorf("expected both problems in %q", msg)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(root, ".lkql.toml")
	if err := os.WriteFile(want, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	if got := Find(nested); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	// yaml wins over toml in the same directory
	yamlPath := filepath.Join(root, ".lkql.yaml")
	if err := os.WriteFile(yamlPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if got := Find(root); got != yamlPath {
		t.Errorf("expected %q, got %q", yamlPath, got)
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		wantWarn string
	}{
		{
			name:     "no extensions",
			cfg:      &Config{Output: OutputConfig{Format: "sexpr"}},
			wantWarn: "no check extensions",
		},
		{
			name:     "string format",
			cfg:      &Config{Output: OutputConfig{Format: "string"}, Check: CheckConfig{Extensions: StringOrSlice{".lkql"}}},
			wantWarn: "lossy",
		},
		{
			name:     "defaults",
			cfg:      Defaults(),
			wantWarn: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := Warnings(tt.cfg)
			if tt.wantWarn == "" {
				if len(warnings) > 0 {
					t.Errorf("expected no warnings, got %v", warnings)
				}
				return
			}
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected warning containing %q, got %v", tt.wantWarn, warnings)
			}
		})
	}
}
