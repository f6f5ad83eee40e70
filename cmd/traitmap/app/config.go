package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from various
// sources: command-line flags, environment variables, .env files, and
// the config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Curation policy
	ReviewFloor   int
	MaxColumns    int
	LookupTimeout time.Duration
	LookupWorkers int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of
// precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.traitmap.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.SetEnvPrefix("traitmap")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".traitmap")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	// Defaults
	viper.SetDefault("review_floor", 10)
	viper.SetDefault("lookup_timeout", 10*time.Second)
	viper.SetDefault("lookup_workers", 8)
	viper.SetDefault("log_format", "auto")
	viper.SetDefault("log_output", "stderr")

	config := &Config{
		Verbose:       viper.GetBool("verbose"),
		Quiet:         viper.GetBool("quiet"),
		NoColor:       viper.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		ConfigFile:    configFile,
		ReviewFloor:   viper.GetInt("review_floor"),
		MaxColumns:    viper.GetInt("max_columns"),
		LookupTimeout: viper.GetDuration("lookup_timeout"),
		LookupWorkers: viper.GetInt("lookup_workers"),
		LogLevel:      viper.GetString("log_level"),
		LogFormat:     viper.GetString("log_format"),
		LogOutput:     viper.GetString("log_output"),
	}

	return config, nil
}

// UpdateFromFlags applies parsed global flags over the loaded config.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose || c.Verbose
	c.Quiet = quiet || c.Quiet
	c.NoColor = noColor || c.NoColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads .env files from the current directory.
// Missing files are not an error.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}
