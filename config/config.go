package config

import (
	"fmt"
	"strings"
)

// Config represents the complete lkql tool configuration
type Config struct {
	BaseDir string        `yaml:"-" toml:"-"` // Directory containing config file, for resolving relative paths
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Check   CheckConfig   `yaml:"check" toml:"check"`
	Parser  ParserConfig  `yaml:"parser" toml:"parser"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	REPL    REPLConfig    `yaml:"repl" toml:"repl"`
}

// OutputConfig controls how trees and diagnostics are printed
type OutputConfig struct {
	Format string `yaml:"format" toml:"format"` // sexpr, json, yaml or string
	Color  string `yaml:"color" toml:"color"`   // auto, always or never
}

// CheckConfig holds settings for `lkql check`
type CheckConfig struct {
	Extensions StringOrSlice `yaml:"extensions" toml:"extensions"` // source file extensions, e.g. ".lkql"
	Watch      bool          `yaml:"watch" toml:"watch"`           // keep running and re-check on change
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level    string `yaml:"level" toml:"level"`       // debug, info, warn, error
	Encoding string `yaml:"encoding" toml:"encoding"` // console or json
}

// REPLConfig holds REPL settings
type REPLConfig struct {
	HistoryFile string `yaml:"history_file" toml:"history_file"` // empty means the temp dir
}

// StringOrSlice is a list that may be written as a single string
type StringOrSlice []string

// UnmarshalYAML accepts a string or a sequence of strings.
func (s *StringOrSlice) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var multi []string
	if err := unmarshal(&multi); err != nil {
		return err
	}
	*s = multi
	return nil
}

// UnmarshalTOML accepts a string or an array of strings.
func (s *StringOrSlice) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*s = []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, str)
		}
		*s = out
	default:
		return fmt.Errorf("expected string or array, got %T", data)
	}
	return nil
}

// Contains reports whether str is in the list, ignoring case.
func (s StringOrSlice) Contains(str string) bool {
	for _, v := range s {
		if strings.EqualFold(v, str) {
			return true
		}
	}
	return false
}

// Valid option values
var (
	OutputFormats = []string{"sexpr", "json", "yaml", "string"}
	ColorModes    = []string{"auto", "always", "never"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogEncodings  = []string{"console", "json"}
)

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "sexpr",
			Color:  "auto",
		},
		Check: CheckConfig{
			Extensions: StringOrSlice{".lkql"},
		},
		Parser: ParserConfig{
			MaxDepth: 1000,
		},
		Logging: LoggingConfig{
			Level:    "warn",
			Encoding: "console",
		},
	}
}
