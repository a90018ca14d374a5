package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the file names Find looks for, in order
var ConfigNames = []string{".lkql.yaml", ".lkql.yml", ".lkql.toml"}

// Load reads configuration over the defaults. The file is configPath when
// given, else $LKQL_CONFIG, else the nearest file found by Find from the
// working directory; with none of these it returns the defaults.
// ${VAR} and ${VAR:-default} references are replaced using getenv before
// decoding. The format follows the extension: .toml is TOML, anything
// else YAML.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath is Load that also returns the absolute path of the file
// read, or "" when the defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.BaseDir = filepath.Dir(absPath)

	// Resolve relative history file
	if cfg.REPL.HistoryFile != "" && !filepath.IsAbs(cfg.REPL.HistoryFile) {
		cfg.REPL.HistoryFile = filepath.Join(cfg.BaseDir, cfg.REPL.HistoryFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// Find returns the first file named in ConfigNames found in dir or one of
// its parents, or "" if there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > LKQL_CONFIG env > nearest config file.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if err := checkFile(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	if envPath := getenv("LKQL_CONFIG"); envPath != "" {
		if err := checkFile(envPath); err != nil {
			return "", fmt.Errorf("LKQL_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	return Find("."), nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} references
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		value := getenv(string(parts[1]))
		if value == "" {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

// Validate checks every option and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains(OutputFormats, c.Output.Format) {
		errs = append(errs, fmt.Sprintf("invalid output format: %s (must be %s)", c.Output.Format, strings.Join(OutputFormats, ", ")))
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		errs = append(errs, fmt.Sprintf("invalid color mode: %s (must be %s)", c.Output.Color, strings.Join(ColorModes, ", ")))
	}
	for i, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("check.extensions[%d]: %q must start with '.'", i, ext))
		}
	}
	if c.Parser.MaxDepth < 1 {
		errs = append(errs, fmt.Sprintf("invalid parser max_depth: %d (must be positive)", c.Parser.MaxDepth))
	}
	if !slices.Contains(LogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be %s)", c.Logging.Level, strings.Join(LogLevels, ", ")))
	}
	if !slices.Contains(LogEncodings, c.Logging.Encoding) {
		errs = append(errs, fmt.Sprintf("invalid log encoding: %s (must be %s)", c.Logging.Encoding, strings.Join(LogEncodings, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Warnings returns non-fatal configuration issues that should be reported
// to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if len(cfg.Check.Extensions) == 0 {
		warnings = append(warnings, "no check extensions configured - directories given to check will yield no files")
	}
	if cfg.Output.Format == "string" {
		warnings = append(warnings, "output format 'string' is lossy - use sexpr, json or yaml for tooling")
	}

	return warnings
}
