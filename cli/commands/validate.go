package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the table definition file",
	Long: `Validate the table definition file for syntax and semantic errors.

This command will:
- Parse the definition file
- Check table, column, and index declarations
- Check foreign key references
- Display a schema summary`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ui.PrintHeader("astro-db", "Validate Schema")

	tables, err := loadTables(cfg)
	if err != nil {
		ui.PrintError("Schema validation failed:")
		fmt.Printf("\n%v\n", err)
		return fmt.Errorf("schema has errors")
	}

	absPath, _ := filepath.Abs(cfg.SchemaFile())
	ui.PrintSuccess("Schema is valid: %s", absPath)

	fmt.Println()
	ui.PrintSection("Tables")
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []string{
			t.Name,
			fmt.Sprintf("%d", len(t.Columns)),
			fmt.Sprintf("%d", len(t.Indexes)),
		})
	}
	ui.PrintTable([]string{"Table", "Columns", "Indexes"}, rows)

	return nil
}
