package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"warn"`
	LogFormat string    `yaml:"log-format" env:"TTT_LOG_FORMAT" env-default:"text"`
	Telemetry Telemetry `yaml:"telemetry"`
	Game      Game      `yaml:"game"`
}

type Telemetry struct {
	Enabled      bool   `yaml:"enabled" env:"TTT_TELEMETRY_ENABLED" env-default:"false"`
	OTLPEndpoint string `yaml:"otlp-endpoint" env:"TTT_OTLP_ENDPOINT" env-default:""`
	Stdout       bool   `yaml:"stdout" env:"TTT_TELEMETRY_STDOUT" env-default:"false"`
	ServiceName  string `yaml:"service-name" env:"TTT_SERVICE_NAME" env-default:"tic-tac-toe"`
}

type Game struct {
	// ThinkDelay is how long the computer pauses before its move is shown.
	ThinkDelay time.Duration `yaml:"think-delay" env:"TTT_THINK_DELAY" env-default:"300ms"`
	// ResetDelay is how long a finished board stays on screen.
	ResetDelay  time.Duration `yaml:"reset-delay" env:"TTT_RESET_DELAY" env-default:"2s"`
	NoColor     bool          `yaml:"no-color" env:"TTT_NO_COLOR,NO_COLOR"`
	OpeningMark string        `yaml:"opening-mark" env:"TTT_OPENING_MARK" env-default:"X"`
}

// Load reads the YAML file at path, then applies env overrides. An empty
// path reads the environment only. cleanenv fills env-default only into zero
// fields, so a zero value in the file cannot switch a non-zero default off.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (that *Config) validate() error {
	if that.Game.OpeningMark != "X" && that.Game.OpeningMark != "O" {
		return fmt.Errorf("game.opening-mark must be X or O, got %q", that.Game.OpeningMark)
	}
	if that.Game.ThinkDelay < 0 || that.Game.ResetDelay < 0 {
		return fmt.Errorf("game delays must not be negative")
	}
	if that.Telemetry.Enabled && that.Telemetry.OTLPEndpoint == "" && !that.Telemetry.Stdout {
		return fmt.Errorf("telemetry is enabled but neither otlp-endpoint nor stdout is set")
	}
	return nil
}

// Usage returns a description of the supported environment variables.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return err.Error()
	}
	return desc
}
