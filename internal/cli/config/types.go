// Package config provides configuration management for the recset CLI.
// Values resolve with the usual precedence: flags over environment
// variables over the config file over defaults.
package config

// Config holds all CLI configuration options.
type Config struct {
	// StatePath is the baseline database location.
	StatePath string `koanf:"state_path"`
	// OutputFormat is the rendering mode: auto, text, markdown, or json.
	OutputFormat string `koanf:"output"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// ProjectRoot is the directory relative paths resolve against. Set
	// during loading, not a config key.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".recset/state.db"
	DefaultOutput    = "auto"

	// EnvPrefix is the prefix for configuration environment variables,
	// e.g. RECSET_STATE_PATH.
	EnvPrefix = "RECSET_"
)

// configFileNames are the config file names searched for, in order.
var configFileNames = []string{"recset.yaml", "recset.yml"}
