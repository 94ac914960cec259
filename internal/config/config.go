// Package config loads shiftboard settings from defaults, an optional YAML
// file and SHIFTBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/shiftboard/internal/domain"
	"github.com/alexanderramin/shiftboard/internal/rules"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Rules    rules.Config   `mapstructure:"rules" yaml:"rules" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	IDs      IDConfig       `mapstructure:"ids" yaml:"ids"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
}

// DatabaseConfig locates the SQLite file datasets are saved to.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// IDConfig selects how blank record ids are generated.
type IDConfig struct {
	Scheme domain.IDScheme `mapstructure:"scheme" yaml:"scheme" validate:"oneof=sequence content"`
}

// LogConfig toggles use-case logging to stderr.
type LogConfig struct {
	UseCases bool `mapstructure:"use_cases" yaml:"use_cases"`
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	DefaultDate string `mapstructure:"default_date" yaml:"default_date" validate:"required,calendar_date"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return domain.IsValidTime(fl.Field().String())
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		return domain.IsValidDate(fl.Field().String())
	})
	return v
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Rules:    rules.DefaultConfig(),
		Database: DatabaseConfig{Path: filepath.Join(home, ".shiftboard", "shiftboard.db")},
		IDs:      IDConfig{Scheme: domain.IDSchemeSequence},
		UI:       UIConfig{DefaultDate: domain.DefaultDate},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix
// SHIFTBOARD_ with dots replaced by underscores, e.g.
// SHIFTBOARD_RULES_BUSINESS_END=19:00.
func Load() (Config, error) {
	return load(os.Getenv("SHIFTBOARD_CONFIG"))
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "shiftboard"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHIFTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("rules.business_start", d.Rules.BusinessStart)
	v.SetDefault("rules.business_end", d.Rules.BusinessEnd)
	v.SetDefault("rules.time_step", d.Rules.TimeStep)
	v.SetDefault("rules.allow_overlap", d.Rules.AllowOverlap)
	v.SetDefault("rules.round_mode", string(d.Rules.RoundMode))
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("ids.scheme", string(d.IDs.Scheme))
	v.SetDefault("log.use_cases", d.Log.UseCases)
	v.SetDefault("ui.default_date", d.UI.DefaultDate)
}

// Validate checks field formats and the business window.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Rules.CheckWindow(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WriteDefault renders the default configuration as YAML.
func WriteDefault(w io.Writer) error {
	return Write(w, Default())
}

// Write renders cfg as YAML in the config file layout.
func Write(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
