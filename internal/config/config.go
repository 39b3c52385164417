package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/coot-trips/tripsort/pkg/core/sorter"
)

const (
	configFileBase = "tripsort_config"

	// DefaultLockTTL is how long a sorting run may hold the cohort lock
	DefaultLockTTL = 5 * time.Minute
)

// TripOverride adjusts every trip of a type before sorting
type TripOverride struct {
	TripType string `yaml:"tripType" validate:"required"`
	Capacity *int   `yaml:"capacity,omitempty" validate:"omitempty,min=0"`
	Closed   bool   `yaml:"closed,omitempty"`
}

// RedisConfig configures the lock that serialises sorting runs per cohort
type RedisConfig struct {
	Addr     string        `yaml:"addr" validate:"required,hostname_port"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty" validate:"min=0,max=15"`
	LockTTL  time.Duration `yaml:"lockTTL,omitempty"`
}

// Config represents the application configuration
type Config struct {
	// Cohort names the sorting domain (e.g. "fall-2025"); runs are serialised per cohort
	Cohort      string       `yaml:"cohort" validate:"required"`
	DatabaseURL string       `yaml:"databaseURL" validate:"required"`
	Redis       *RedisConfig `yaml:"redis,omitempty" validate:"omitempty"`

	RosterSheetID  string `yaml:"rosterSheetID,omitempty"`
	StudentsTab    string `yaml:"studentsTab,omitempty" validate:"required_with=RosterSheetID"`
	TripsTab       string `yaml:"tripsTab,omitempty" validate:"required_with=RosterSheetID"`
	PublishSheetID string `yaml:"publishSheetID,omitempty"`

	MaxAttempts   int            `yaml:"maxAttempts,omitempty" validate:"omitempty,min=1,max=1000"`
	Criteria      CriteriaList   `yaml:"criteria,omitempty" validate:"dive,oneof=dorm sports_team gender trip_preference"`
	TripOverrides []TripOverride `yaml:"tripOverrides,omitempty" validate:"dive"`
}

// CriteriaList is the configured constraint order. Entries may be plain names
// or {type: name} mappings; both decode to canonical names.
type CriteriaList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *CriteriaList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: criteria must be a list", node.Line)
	}

	specs := make([]map[string]string, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			specs = append(specs, map[string]string{"type": item.Value})
		case yaml.MappingNode:
			var spec map[string]string
			if err := item.Decode(&spec); err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			specs = append(specs, spec)
		default:
			return fmt.Errorf("line %d: criterion must be a name or a {type: name} mapping", item.Line)
		}
	}

	criteria, err := sorter.ParseCriteriaSpec(specs)
	if err != nil {
		return err
	}
	*l = sorter.CriteriaNames(criteria)
	return nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates tripsort_config.<env>.yaml (or tripsort_config.yaml if env is empty)
// from the current directory or the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and the criteria order
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := sorter.ParseCriteria(cfg.Criteria); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}

	return nil
}

// SortCriteria returns the configured constraint order
func (c *Config) SortCriteria() ([]sorter.Criterion, error) {
	return sorter.ParseCriteria(c.Criteria)
}

// SheetsEnabled reports whether a roster spreadsheet is configured
func (c *Config) SheetsEnabled() bool {
	return c.RosterSheetID != ""
}

func applyDefaults(cfg *Config) {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = sorter.DefaultMaxAttempts
	}
	if cfg.Redis != nil && cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultLockTTL
	}
}

func configFileName(env string) string {
	if env == "" {
		return configFileBase + ".yaml"
	}
	return configFileBase + "." + env + ".yaml"
}

// findFile looks for the named file in the current directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
