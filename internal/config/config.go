package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigParam carries every externally tunable setting, including the
// base directories each component works under. Components never resolve
// paths relative to the process working directory on their own; they
// take them from here.
type ConfigParam struct {
	ServerPort          string `toml:"server_port"`
	HandleCORS          bool   `toml:"handle_cors"`
	ProjectDir          string `toml:"project_dir"`
	BuildsDir           string `toml:"builds_dir"`
	SecretsDir          string `toml:"secrets_dir"`
	MonitoringDir       string `toml:"monitoring_dir"`
	SimulationDir       string `toml:"simulation_dir"`
	DBPath              string `toml:"db_path"`
	KeyEncryptionPasswd string `toml:"key_encryption_passwd"`
	DownloadWindow      string `toml:"download_window"`
}

var cfg *ConfigParam

func Config() *ConfigParam {
	return cfg
}

func LoadConfig(filename string) error {
	if filename == "" {
		cfg = &ConfigParam{
			ServerPort:          "8195",
			HandleCORS:          true,
			ProjectDir:          "lab/project",
			BuildsDir:           "lab/builds",
			SecretsDir:          "lab/secrets",
			MonitoringDir:       "lab/monitoring",
			SimulationDir:       "lab/simulations",
			DBPath:              "lab/lab.db",
			KeyEncryptionPasswd: "lab-dev-passwd",
			DownloadWindow:      "7d",
		}
		return nil
	}
	// Read the config file
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	// Parse the config file
	var cp ConfigParam
	if _, err := toml.Decode(string(content), &cp); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}
	// assign config to global cfg
	cfg = &cp
	return nil
}

// DownloadWindowDuration returns the configured authorized-download
// window, falling back to 7 days when unset or unparseable.
func (c *ConfigParam) DownloadWindowDuration() time.Duration {
	d, err := ParseWindowDuration(c.DownloadWindow)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

func ParseWindowDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	// Extract the unit and the value from the input string
	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	// Convert the value to a duration based on the unit
	var duration time.Duration
	switch unit {
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "h":
		duration = time.Duration(value) * time.Hour
	case "m":
		duration = time.Duration(value) * time.Minute
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

func init() {
	err := LoadConfig("")
	if err != nil {
		panic(err)
	}
}
