// Package config holds the library's tunable options. Values can come from a
// YAML file or environment variables; environment variables override YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Options configures placeholder resolution, parameter naming and the
// connection state guard.
type Options struct {
	// ParamPrefix overrides the provider's parameter-name prefix. Empty means
	// use the provider's registered prefix.
	ParamPrefix string `yaml:"param_prefix" env:"DRIFTSQL_PARAM_PREFIX" env-default:""`

	// NamingTemplate builds generated bound-parameter names. Substitution
	// points: {prefix}, {counter}, {name}.
	NamingTemplate string `yaml:"naming_template" env:"DRIFTSQL_NAMING_TEMPLATE" env-default:"{prefix}p{counter}_{name}"`

	// PlaceholderPattern is the default placeholder marker pattern (three
	// capture groups: open marker, name, close marker). Empty means the
	// built-in {{name}} pattern.
	PlaceholderPattern string `yaml:"placeholder_pattern" env:"DRIFTSQL_PLACEHOLDER_PATTERN" env-default:""`

	// TypeHintPattern is the column-type hint marker pattern (two capture
	// groups: tag, alias). Empty means the built-in {type{tag{alias}}}
	// pattern.
	TypeHintPattern string `yaml:"type_hint_pattern" env:"DRIFTSQL_TYPE_HINT_PATTERN" env-default:""`

	// CaseSensitive switches placeholder/value lookup from the default
	// case-insensitive matching to exact matching.
	CaseSensitive bool `yaml:"case_sensitive" env:"DRIFTSQL_CASE_SENSITIVE" env-default:"false"`

	// NullReplacement replaces unresolved placeholders in generic-text
	// substitution.
	NullReplacement string `yaml:"null_replacement" env:"DRIFTSQL_NULL_REPLACEMENT" env-default:""`

	// RejectInjection fails query execution when a bound string parameter
	// matches a SQL-injection pattern.
	RejectInjection bool `yaml:"reject_injection" env:"DRIFTSQL_REJECT_INJECTION" env-default:"true"`

	// GuardPollMillis is the state guard's fixed poll delay in milliseconds.
	GuardPollMillis int `yaml:"guard_poll_millis" env:"DRIFTSQL_GUARD_POLL_MILLIS" env-default:"50"`

	// GuardMaxWaitMillis bounds the state guard's busy wait in milliseconds.
	GuardMaxWaitMillis int `yaml:"guard_max_wait_millis" env:"DRIFTSQL_GUARD_MAX_WAIT_MILLIS" env-default:"30000"`
}

// Default returns the built-in options.
func Default() *Options {
	return &Options{
		NamingTemplate:     "{prefix}p{counter}_{name}",
		CaseSensitive:      false,
		RejectInjection:    true,
		GuardPollMillis:    50,
		GuardMaxWaitMillis: 30000,
	}
}

// Load reads options from an optional YAML file plus the environment.
// An empty path reads the environment only.
func Load(path string) (*Options, error) {
	opts := &Options{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, opts); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(opts); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks option combinations that would silently misbehave.
func (o *Options) Validate() error {
	if o.NamingTemplate != "" && !strings.Contains(o.NamingTemplate, "{counter}") {
		return fmt.Errorf("naming template %q must contain {counter}, or generated parameter names collide", o.NamingTemplate)
	}
	return nil
}

// Dump renders the effective options as YAML for debug logging.
func (o *Options) Dump() (string, error) {
	out, err := yaml.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("dump options: %w", err)
	}
	return string(out), nil
}
