package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/revlint/internal/db"
	"github.com/example/revlint/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the revlint database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := wire.Settings().Database.Path
			fmt.Printf("Initializing revlint database at %s\n", path)

			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			fmt.Println("✓ Database initialized successfully")
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  revlint import tasks.yaml")
			fmt.Println("  revlint sweep --dry-run")
			return nil
		},
	}
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load folders, projects, tasks and tags from a YAML file",
		Long: `Load a YAML description of a task database. With --replace, existing
folders, projects, tasks and tags are deleted first; preferences and run
history are kept. --sample loads a small built-in database instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()
			replace, _ := cmd.Flags().GetBool("replace")
			sample, _ := cmd.Flags().GetBool("sample")
			if sample == (len(args) == 1) {
				return fmt.Errorf("specify a file or --sample")
			}

			wire.Settings()
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			var stats *db.ImportStats
			if sample {
				stats, err = db.SeedFixtures(ctx, database)
			} else {
				f, openErr := os.Open(args[0])
				if openErr != nil {
					return openErr
				}
				defer f.Close()
				stats, err = db.Import(ctx, database, f, db.ImportOptions{Replace: replace})
			}
			if err != nil {
				return err
			}

			wire.Logger().Debug("import complete", "folders", stats.Folders, "projects", stats.Projects, "tasks", stats.Tasks)
			fmt.Printf("✓ Imported %d folder(s), %d project(s), %d task(s), %d tag(s)\n",
				stats.Folders, stats.Projects, stats.Tasks, stats.Tags)
			return nil
		},
	}
	cmd.Flags().Bool("replace", false, "Delete existing items before importing")
	cmd.Flags().Bool("sample", false, "Load the built-in sample database (replaces existing items)")
	return cmd
}
