package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/config"
	"github.com/xshadowlegendx/astro-db/cli/internal/ui"
	"github.com/xshadowlegendx/astro-db/cli/internal/watch"
	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/internal/debug"
	"github.com/xshadowlegendx/astro-db/lifecycle"
	"github.com/xshadowlegendx/astro-db/schema"
	"github.com/xshadowlegendx/astro-db/sqlgen"
	"github.com/xshadowlegendx/astro-db/vmod"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start a local development session",
	Long: `Start a local development session.

The local database file is rebuilt from the table definitions, and the
definition file and seed files are watched: every change drops and recreates
the schema so the dev server always observes the latest shape.`,
	RunE: runDev,
}

func init() {
	rootCmd.AddCommand(devCmd)
}

// tableStore holds the current table definitions for the session. The
// resolver reads it through a late-bound accessor so watched edits are
// observed without restarting.
type tableStore struct {
	mu     sync.RWMutex
	tables []*schema.Table
}

func (s *tableStore) get() []*schema.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables
}

func (s *tableStore) set(tables []*schema.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = tables
}

func runDev(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ui.PrintHeader("astro-db", "Local Development")

	store := &tableStore{}
	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}
	store.set(tables)

	dialect, err := sqlgen.New("sqlite")
	if err != nil {
		return err
	}

	var handle client.Handle
	defer handle.Close()
	local, err := handle.Get(func() (client.Client, error) {
		return client.NewLocal(cfg.Root)
	})
	if err != nil {
		return err
	}

	// The resolver is the same surface the dev server's plugin host drives;
	// the session reuses its load path so seed-triggering loads and watcher
	// events take the identical route to the lifecycle manager.
	resolver := vmod.NewResolver(vmod.Options{
		Root:   cfg.Root,
		Mode:   vmod.ModeLocal,
		Tables: store.get,
		Client: local,
		Sync:   lifecycle.NewManager(dialect),
	})

	ctx := context.Background()
	if _, _, err := resolver.Load(ctx, vmod.ResolvedSeedModuleID); err != nil {
		return err
	}
	ui.PrintSuccess("Schema synchronized (%d tables)", len(store.get()))

	schemaFile := cfg.SchemaFile()
	watched := append([]string{schemaFile}, vmod.LocalSeedFiles(config.AppFs, cfg.Root)...)

	watcher, err := watch.NewWatcher(watched, func(path string) error {
		debug.Debug("file changed", "path", path)
		id := path
		if path == schemaFile {
			tables, err := loadTables(cfg)
			if err != nil {
				ui.PrintError("Schema reload failed: %v", err)
				return err
			}
			store.set(tables)
			id = vmod.ResolvedSeedModuleID
		}
		if _, _, err := resolver.Load(ctx, id); err != nil {
			ui.PrintError("Resync failed: %v", err)
			return err
		}
		ui.PrintSuccess("Schema synchronized (%d tables)", len(store.get()))
		return nil
	})
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Stop()

	ui.PrintInfo("Watching %s and seed files. Press Ctrl+C to stop.", cfg.SchemaPath)
	ui.PrintDim("database: %s", local.(*client.LocalClient).Path())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println()
	ui.PrintInfo("Shutting down")

	return nil
}
