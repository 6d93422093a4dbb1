// Package config holds the user's status line choices.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/himattm/claude-statusline/internal/catalog"
	"github.com/himattm/claude-statusline/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Layout arranges fields on one line or two
type Layout string

const (
	LayoutSingle Layout = "single"
	LayoutMulti  Layout = "multi"
)

// ColorStyle decides whether and how metrics are colored
type ColorStyle string

const (
	ColorTrafficLight ColorStyle = "traffic-light"
	ColorMonochrome   ColorStyle = "monochrome"
	ColorCustom       ColorStyle = "custom"
)

// Default thresholds used by the traffic-light style
const (
	DefaultYellow = 50
	DefaultRed    = 80
)

var (
	ErrNoFields          = stderrors.New("no fields selected")
	ErrUnknownField      = stderrors.New("unknown field")
	ErrUnknownLayout     = stderrors.New("unknown layout")
	ErrUnknownColorStyle = stderrors.New("unknown color style")
	ErrInvalidThresholds = stderrors.New("thresholds must satisfy 1 <= yellow < red <= 100")
)

// Thresholds are the percentages at which a metric turns yellow and red
type Thresholds struct {
	Yellow int `yaml:"yellow" mapstructure:"yellow"`
	Red    int `yaml:"red" mapstructure:"red"`
}

// Valid reports whether 1 <= Yellow < Red <= 100
func (t Thresholds) Valid() bool {
	return t.Yellow >= 1 && t.Yellow < t.Red && t.Red <= 100
}

// Config is a validated set of choices. Build it with New or Default.
type Config struct {
	Fields     []catalog.ID `yaml:"fields" mapstructure:"fields"`
	Layout     Layout       `yaml:"layout" mapstructure:"layout"`
	ColorStyle ColorStyle   `yaml:"color_style" mapstructure:"color_style"`
	Thresholds Thresholds   `yaml:"thresholds" mapstructure:"thresholds"`
}

// Default returns the choices the setup wizard starts from
func Default() Config {
	return Config{
		Fields:     catalog.Defaults(),
		Layout:     LayoutMulti,
		ColorStyle: ColorTrafficLight,
		Thresholds: Thresholds{Yellow: DefaultYellow, Red: DefaultRed},
	}
}

// New validates the choices and returns a Config with fields in catalog order
func New(fields []catalog.ID, layout Layout, style ColorStyle, thresholds Thresholds) (Config, error) {
	cfg := Config{
		Fields:     append([]catalog.ID(nil), fields...),
		Layout:     layout,
		ColorStyle: style,
		Thresholds: thresholds,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Fields = catalog.Order(cfg.Fields)
	return cfg, nil
}

// Validate checks every invariant of the configuration
func (c Config) Validate() error {
	if len(c.Fields) == 0 {
		return errors.WrapWithCode(ErrNoFields, errors.ErrConfig,
			"No fields selected",
			"Pick at least one field, e.g. --fields model,contextBar")
	}
	for _, id := range c.Fields {
		if !catalog.Has(id) {
			return errors.WrapWithCode(fmt.Errorf("%w: %q", ErrUnknownField, id), errors.ErrConfig,
				"Unknown field "+string(id),
				"Run 'claude-statusline fields' to see the available fields")
		}
	}
	switch c.Layout {
	case LayoutSingle, LayoutMulti:
	default:
		return errors.WrapWithCode(fmt.Errorf("%w: %q", ErrUnknownLayout, c.Layout), errors.ErrConfig,
			"Unknown layout "+string(c.Layout),
			"Use single or multi")
	}
	switch c.ColorStyle {
	case ColorTrafficLight, ColorMonochrome, ColorCustom:
	default:
		return errors.WrapWithCode(fmt.Errorf("%w: %q", ErrUnknownColorStyle, c.ColorStyle), errors.ErrConfig,
			"Unknown color style "+string(c.ColorStyle),
			"Use traffic-light, monochrome or custom")
	}
	if !c.Thresholds.Valid() {
		return errors.WrapWithCode(ErrInvalidThresholds, errors.ErrConfig,
			fmt.Sprintf("Invalid thresholds yellow=%d red=%d", c.Thresholds.Yellow, c.Thresholds.Red),
			"Yellow must be 1-99 and red must be above yellow, at most 100")
	}
	return nil
}

// Colored reports whether metrics get escape sequences
func (c Config) Colored() bool {
	return c.ColorStyle != ColorMonochrome
}

// Has reports whether id is selected
func (c Config) Has(id catalog.ID) bool {
	for _, f := range c.Fields {
		if f == id {
			return true
		}
	}
	return false
}

// ParseFields splits values like "model,contextBar" and flag repeats into IDs
func ParseFields(values []string) []catalog.ID {
	var ids []catalog.ID
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, catalog.ID(part))
			}
		}
	}
	return ids
}

// DefaultPath returns ~/.claude/statusline/config.yaml, honoring CLAUDE_CONFIG_DIR
func DefaultPath() string {
	return filepath.Join(ClaudeDir(), "statusline", "config.yaml")
}

// ClaudeDir returns the Claude Code config directory
func ClaudeDir() string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".claude")
}

// Load reads saved answers from path. A missing file yields Default.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("fields", def.Fields)
	v.SetDefault("layout", string(def.Layout))
	v.SetDefault("color_style", string(def.ColorStyle))
	v.SetDefault("thresholds.yellow", def.Thresholds.Yellow)
	v.SetDefault("thresholds.red", def.Thresholds.Red)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read "+path,
			"Check the file is valid YAML, or delete it to start over")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse "+path,
			"Check the file is valid YAML, or delete it to start over")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Fields = catalog.Order(cfg.Fields)
	return cfg, nil
}

// Save writes c to path as YAML
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create "+filepath.Dir(path),
			"Check directory permissions")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write "+path,
			"Check file permissions")
	}
	return nil
}
