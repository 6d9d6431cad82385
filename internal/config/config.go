package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds container nesting for parsing and tree building.
const DefaultMaxDepth = 1000

// Input formats
const (
	InputAuto = "auto"
	InputJSON = "json"
	InputYAML = "yaml"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Label cases
const (
	CaseNone       = "none"
	CaseCamel      = "camel"
	CaseLowerCamel = "lower_camel"
	CaseSnake      = "snake"
	CaseKebab      = "kebab"
)

// Config represents the complete configuration for jsontree
type Config struct {
	RootLabel string       `yaml:"root_label"`
	MaxDepth  int          `yaml:"max_depth"`
	Input     InputConfig  `yaml:"input"`
	Output    OutputConfig `yaml:"output"`
	Labels    LabelsConfig `yaml:"labels"`
	Dev       DevConfig    `yaml:"dev"`
}

// InputConfig controls how input documents are decoded
type InputConfig struct {
	Format string `yaml:"format"`
}

// OutputConfig controls how the tree is exported
type OutputConfig struct {
	Format    string `yaml:"format"`
	Indent    int    `yaml:"indent"`
	ShowKinds bool   `yaml:"show_kinds"`
}

// LabelsConfig controls how branch labels are displayed. Leaf labels are
// values and are never rewritten.
type LabelsConfig struct {
	Case     string            `yaml:"case"`
	Mappings map[string]string `yaml:"mappings"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootLabel: "root",
		MaxDepth:  DefaultMaxDepth,
		Input: InputConfig{
			Format: InputAuto,
		},
		Output: OutputConfig{
			Format:    OutputText,
			Indent:    2,
			ShowKinds: false,
		},
		Labels: LabelsConfig{
			Case:     CaseNone,
			Mappings: make(map[string]string),
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every option holds a supported value
func (c *Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	switch c.Input.Format {
	case InputAuto, InputJSON, InputYAML:
	default:
		return fmt.Errorf("unknown input format '%s'", c.Input.Format)
	}
	switch c.Output.Format {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format '%s'", c.Output.Format)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Output.Indent)
	}
	switch c.Labels.Case {
	case CaseNone, CaseCamel, CaseLowerCamel, CaseSnake, CaseKebab:
	default:
		return fmt.Errorf("unknown label case '%s'", c.Labels.Case)
	}
	return nil
}

// Display returns the label shown for a branch node, applying the mappings
// first and the label case second.
func (l LabelsConfig) Display(label string) string {
	if mapped, exists := l.Mappings[label]; exists {
		return mapped
	}

	switch l.Case {
	case CaseCamel:
		return strcase.ToCamel(label)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(label)
	case CaseSnake:
		return strcase.ToSnake(label)
	case CaseKebab:
		return strcase.ToKebab(label)
	default:
		return label
	}
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not set.
type Overrides struct {
	RootLabel    string
	MaxDepth     int
	InputFormat  string
	OutputFormat string
	LabelCase    string
	ShowKinds    bool
	Debug        bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.RootLabel != "" {
		cfg.RootLabel = o.RootLabel
	}
	if o.MaxDepth != 0 {
		cfg.MaxDepth = o.MaxDepth
	}
	if o.InputFormat != "" {
		cfg.Input.Format = o.InputFormat
	}
	if o.OutputFormat != "" {
		cfg.Output.Format = o.OutputFormat
	}
	if o.LabelCase != "" {
		cfg.Labels.Case = o.LabelCase
	}
	// Boolean flags can only switch features on
	if o.ShowKinds {
		cfg.Output.ShowKinds = true
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
