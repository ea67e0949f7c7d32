package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/ui"
	"github.com/xshadowlegendx/astro-db/client"
)

var executeRemote bool

var executeCmd = &cobra.Command{
	Use:   "execute [sql-command|sql-file]",
	Short: "Execute raw SQL",
	Long: `Execute raw SQL statements or a SQL file against the local database,
or against the managed remote database with --remote. Multiple statements run
as one all-or-nothing batch.`,
	Args: cobra.ExactArgs(1),
	RunE: runExecute,
}

func init() {
	executeCmd.Flags().BoolVar(&executeRemote, "remote", false, "Execute against the managed remote database")

	rootCmd.AddCommand(executeCmd)
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sqlText := args[0]
	if info, err := os.Stat(sqlText); err == nil && !info.IsDir() {
		content, err := os.ReadFile(sqlText)
		if err != nil {
			return fmt.Errorf("failed to read SQL file: %w", err)
		}
		sqlText = string(content)
	}

	stmts := splitStatements(sqlText)
	if len(stmts) == 0 {
		return fmt.Errorf("no SQL statements to execute")
	}

	var c client.Client
	if executeRemote {
		endpoint := cfg.RemoteURL
		if endpoint == "" {
			endpoint = client.DefaultRemoteURL
		}
		if cfg.RemoteToken == "" {
			return fmt.Errorf("no app token: set ASTRO_DB_APP_TOKEN")
		}
		c, err = client.NewRemote(endpoint, cfg.RemoteToken)
	} else {
		c, err = client.NewLocal(cfg.Root)
	}
	if err != nil {
		return err
	}
	defer c.Close()

	results, err := c.Batch(context.Background(), stmts)
	if err != nil {
		return err
	}

	var affected int64
	for _, res := range results {
		affected += res.RowsAffected
	}
	ui.PrintSuccess("Executed %d statement(s), %d row(s) affected", len(results), affected)
	return nil
}

// splitStatements splits a SQL script on semicolons, dropping empty pieces.
// Semicolons inside string literals are not handled; scripts needing them
// should run one statement per invocation.
func splitStatements(script string) []client.Statement {
	var stmts []client.Statement
	for _, part := range strings.Split(script, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		stmts = append(stmts, client.Statement{SQL: part})
	}
	return stmts
}
