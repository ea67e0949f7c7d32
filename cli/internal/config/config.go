package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	// Root is the project root directory.
	Root string
	// SchemaPath is the table definition file, relative to Root.
	SchemaPath string
	// RemoteURL is the managed database endpoint.
	RemoteURL string
	// RemoteToken is the managed database app token.
	RemoteToken string
	// Debug enables debug logging.
	Debug bool
}

// LoadConfig loads configuration from config files, environment variables,
// and .env files.
func LoadConfig() (*Config, error) {
	// Find home directory
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	// Set config file paths
	viper.SetConfigName(".astro-db")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "astro-db"))

	// Set environment variable prefix
	viper.SetEnvPrefix("ASTRO_DB")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("root", ".")
	viper.SetDefault("schema_path", "db/config.adb")
	viper.SetDefault("debug", false)

	// Try to read config file (ignore if not found)
	_ = viper.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	root, err := filepath.Abs(viper.GetString("root"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Root:        root,
		SchemaPath:  viper.GetString("schema_path"),
		RemoteURL:   os.Getenv("ASTRO_DB_REMOTE_URL"),
		RemoteToken: os.Getenv("ASTRO_DB_APP_TOKEN"),
		Debug:       viper.GetBool("debug"),
	}

	return cfg, nil
}

// SchemaFile returns the absolute path of the table definition file.
func (c *Config) SchemaFile() string {
	if filepath.IsAbs(c.SchemaPath) {
		return c.SchemaPath
	}
	return filepath.Join(c.Root, c.SchemaPath)
}

// SaveConfig saves configuration to the user config directory.
func SaveConfig(cfg *Config) error {
	viper.Set("root", cfg.Root)
	viper.Set("schema_path", cfg.SchemaPath)
	viper.Set("debug", cfg.Debug)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "astro-db")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	configFile := filepath.Join(configPath, ".astro-db.yaml")
	return viper.WriteConfigAs(configFile)
}
