package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/ui"
	"github.com/xshadowlegendx/astro-db/client"
	"github.com/xshadowlegendx/astro-db/lifecycle"
	"github.com/xshadowlegendx/astro-db/sqlgen"
)

var (
	pushRemoteURL string
	pushToken     string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the schema to the managed remote database",
	Long: `Push the schema to the managed remote database.

Every table is dropped and recreated from the current definitions, inside a
single deferred-foreign-key batch. Remote row data does not survive a push.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushRemoteURL, "remote-url", "", "Remote database endpoint (defaults to ASTRO_DB_REMOTE_URL)")
	pushCmd.Flags().StringVar(&pushToken, "token", "", "App token (defaults to ASTRO_DB_APP_TOKEN)")

	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	endpoint := pushRemoteURL
	if endpoint == "" {
		endpoint = cfg.RemoteURL
	}
	if endpoint == "" {
		endpoint = client.DefaultRemoteURL
	}
	token := pushToken
	if token == "" {
		token = cfg.RemoteToken
	}
	if token == "" {
		return fmt.Errorf("no app token: set ASTRO_DB_APP_TOKEN or pass --token")
	}

	ui.PrintHeader("astro-db", "Push Schema")

	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}

	remote, err := client.NewRemote(endpoint, token)
	if err != nil {
		return err
	}
	defer remote.Close()

	dialect, err := sqlgen.New(remote.Provider())
	if err != nil {
		return err
	}

	spinner, _ := ui.PrintSpinner(fmt.Sprintf("Pushing %d tables", len(tables)))
	if err := lifecycle.NewManager(dialect).Resync(context.Background(), remote, tables); err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return err
	}
	if spinner != nil {
		spinner.Success()
	}

	ui.PrintSuccess("Schema pushed to %s", endpoint)
	return nil
}
