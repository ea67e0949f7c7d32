package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/xshadowlegendx/astro-db/cli/internal/ui"
	"github.com/xshadowlegendx/astro-db/vmod"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Scaffold a new astro-db project",
	Long: `Scaffold a new astro-db project: the db/ directory with a sample
table definition file, an optional seed file, and an .env.example.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	answers := struct {
		TableName string
		WithSeed  bool
	}{}
	questions := []*survey.Question{
		{
			Name: "tableName",
			Prompt: &survey.Input{
				Message: "Name of your first table:",
				Default: "Author",
			},
			Validate: survey.Required,
		},
		{
			Name: "withSeed",
			Prompt: &survey.Confirm{
				Message: "Create a seed file?",
				Default: true,
			},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	dbDir := filepath.Join(dir, vmod.SeedDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("failed to create db directory: %w", err)
	}

	schemaPath := filepath.Join(dbDir, "config.adb")
	if _, err := os.Stat(schemaPath); err == nil {
		ui.PrintWarning("Definition file already exists: %s", schemaPath)
	} else {
		content := fmt.Sprintf(`table %s {
	id    number @id
	name  text
	bio   text?

	@@index(%s_name_idx, [name])
}
`, answers.TableName, answers.TableName)
		if err := os.WriteFile(schemaPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create definition file: %w", err)
		}
		ui.PrintSuccess("Created %s", schemaPath)
	}

	if answers.WithSeed {
		seedPath := filepath.Join(dbDir, "seed.ts")
		if _, err := os.Stat(seedPath); err == nil {
			ui.PrintWarning("Seed file already exists: %s", seedPath)
		} else {
			content := fmt.Sprintf(`import { db, %s } from 'astro:db';

export default async function seed() {
	await db.insert(%s).values([
		{ id: 1, name: 'First %s' },
	]);
}
`, answers.TableName, answers.TableName, answers.TableName)
			if err := os.WriteFile(seedPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to create seed file: %w", err)
			}
			ui.PrintSuccess("Created %s", seedPath)
		}
	}

	envPath := filepath.Join(dir, ".env.example")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		content := `# Managed remote database (production)
ASTRO_DB_REMOTE_URL="postgres://db.example.com:5432/app"
ASTRO_DB_APP_TOKEN=""
`
		if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create .env.example: %w", err)
		}
		ui.PrintSuccess("Created %s", envPath)
	}

	fmt.Println()
	return ui.PrintMarkdown(`# Next steps

1. Edit ` + "`db/config.adb`" + ` to define your tables
2. Run ` + "`astro-db validate`" + ` to check the schema
3. Run ` + "`astro-db dev`" + ` to start a local session
4. Run ` + "`astro-db push`" + ` to push the schema to your remote database
`)
}
