package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/update"
	"github.com/xshadowlegendx/astro-db/cli/internal/version"
	"github.com/xshadowlegendx/astro-db/internal/debug"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "astro-db",
	Short: "Schema-driven database toolchain",
	Long: `astro-db keeps a local SQLite database in sync with your table
definitions and serves the astro:db virtual module during development.

Define tables in db/config.adb, seed them from db/seed.ts, and push the
same schema to a managed remote database for production.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.Init(debugFlag)
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version.Get().FullString())
		return update.CheckForUpdates(version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(versionCmd)
}

// Execute is the main entry point for the CLI
func Execute() error {
	return rootCmd.Execute()
}
