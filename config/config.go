// Package config loads the settings shared by the command line and the
// visualisation server.
//
// Values are resolved in three layers: Default(), then an optional YAML file,
// then GRIDASTAR_* environment variables. The result is checked with struct
// tags before use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/editor"
)

// Config is the full settings tree.
type Config struct {
	Grid   GridConfig   `json:"grid" yaml:"grid"`
	Search SearchConfig `json:"search" yaml:"search"`
	Editor EditorConfig `json:"editor" yaml:"editor"`
	Log    LogConfig    `json:"log" yaml:"log"`
	Server ServerConfig `json:"server" yaml:"server"`
}

// GridConfig selects the map a session starts from.
type GridConfig struct {
	Scenario string `json:"scenario" yaml:"scenario" validate:"oneof=normal wiki empty random"`
	// Size applies to the empty and random scenarios.
	Size int `json:"size" yaml:"size" validate:"gte=1,lte=256"`
}

// SearchConfig mirrors the library options.
type SearchConfig struct {
	Heuristic    string        `json:"heuristic" yaml:"heuristic" validate:"oneof=diagonal chebyshev euclidean"`
	Weighted     bool          `json:"weighted" yaml:"weighted"`
	Connectivity string        `json:"connectivity" yaml:"connectivity" validate:"oneof=diagonal orthogonal 8 4"`
	StepInterval time.Duration `json:"step_interval" yaml:"step_interval" validate:"gt=0"`
	// Workers bounds batch concurrency; 0 means one per CPU.
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`
}

type EditorConfig struct {
	Mode string `json:"mode" yaml:"mode" validate:"oneof=none start end wall"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" validate:"required,hostname_port"`
}

var validate = validator.New()

// Default returns the settings used when neither file nor environment say otherwise.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Scenario: "normal",
			Size:     10,
		},
		Search: SearchConfig{
			Heuristic:    "diagonal",
			Connectivity: "diagonal",
			StepInterval: 100 * time.Millisecond,
		},
		Editor: EditorConfig{Mode: "none"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load resolves the configuration. An empty path or a missing file means
// defaults plus environment.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&config); err != nil {
		return config, fmt.Errorf("load config env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, config)
}

func loadEnv(config *Config) error {
	if v := os.Getenv("GRIDASTAR_SCENARIO"); v != "" {
		config.Grid.Scenario = v
	}
	if v := os.Getenv("GRIDASTAR_SIZE"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRIDASTAR_SIZE: %w", err)
		}
		config.Grid.Size = i
	}
	if v := os.Getenv("GRIDASTAR_HEURISTIC"); v != "" {
		config.Search.Heuristic = v
	}
	if v := os.Getenv("GRIDASTAR_WEIGHTED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GRIDASTAR_WEIGHTED: %w", err)
		}
		config.Search.Weighted = b
	}
	if v := os.Getenv("GRIDASTAR_CONNECTIVITY"); v != "" {
		config.Search.Connectivity = v
	}
	if v := os.Getenv("GRIDASTAR_STEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GRIDASTAR_STEP_INTERVAL: %w", err)
		}
		config.Search.StepInterval = d
	}
	if v := os.Getenv("GRIDASTAR_WORKERS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRIDASTAR_WORKERS: %w", err)
		}
		config.Search.Workers = i
	}
	if v := os.Getenv("GRIDASTAR_EDITOR_MODE"); v != "" {
		config.Editor.Mode = v
	}
	if v := os.Getenv("GRIDASTAR_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("GRIDASTAR_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	if v := os.Getenv("GRIDASTAR_ADDR"); v != "" {
		config.Server.Addr = v
	}
	return nil
}

// Validate checks every field against its tag.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// SearchOptions converts the search section into library options.
func (c Config) SearchOptions() ([]gridastar.Option, error) {
	heuristic, err := gridastar.ParseHeuristic(c.Search.Heuristic)
	if err != nil {
		return nil, err
	}
	connectivity, err := gridastar.ParseConnectivity(c.Search.Connectivity)
	if err != nil {
		return nil, err
	}

	options := []gridastar.Option{
		gridastar.WithHeuristic(heuristic),
		gridastar.WithWeighted(c.Search.Weighted),
		gridastar.WithConnectivity(connectivity),
	}
	if c.Search.Workers > 0 {
		options = append(options, gridastar.WithWorkers(c.Search.Workers))
	}
	return options, nil
}

// EditorMode is the parsed initial click mode.
func (c Config) EditorMode() (editor.Mode, error) {
	return editor.ParseMode(c.Editor.Mode)
}
