package commands

import (
	"fmt"
	"os"

	"github.com/xshadowlegendx/astro-db/cli/internal/config"
	"github.com/xshadowlegendx/astro-db/internal/debug"
	"github.com/xshadowlegendx/astro-db/schema"
)

// loadConfig loads the configuration and re-initializes debug logging, since
// the config file may enable it even when the flag does not.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Debug && !debug.Enabled() {
		debug.Init(true)
	}
	return cfg, nil
}

// loadTables parses and validates the table definition file.
func loadTables(cfg *config.Config) ([]*schema.Table, error) {
	path := cfg.SchemaFile()
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	tables, err := schema.ParseString(path, string(content))
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(tables); err != nil {
		return nil, err
	}

	debug.Debug("loaded table definitions", "path", path, "tables", len(tables))
	return tables, nil
}
