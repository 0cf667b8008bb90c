package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eduplay/quizquest/internal/config"
	"github.com/eduplay/quizquest/internal/database"
	"github.com/eduplay/quizquest/internal/importer"
	"github.com/eduplay/quizquest/internal/server"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import question files into the bank",
		Long:  "Parses xlsx, csv, docx, txt, or json question files and appends the valid rows to the question bank.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			db, err := database.Open(ctx, filepath.Join(cfg.DBDir, "quizquest.db"))
			if err != nil {
				return fmt.Errorf("connecting to sqlite: %w", err)
			}
			defer db.Close()

			store, err := server.NewDocStore(ctx, db)
			if err != nil {
				return fmt.Errorf("initializing store: %w", err)
			}

			im := importer.New()
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				batch, err := im.File(ctx, filepath.Base(path), f)
				f.Close()
				if err != nil {
					return fmt.Errorf("parsing %s: %w", path, err)
				}

				n, err := store.AppendQuestions(ctx, batch.Questions)
				if err != nil {
					return fmt.Errorf("saving questions from %s: %w", path, err)
				}
				cmd.Printf("%s: imported %d, skipped %d\n", path, n, len(batch.Skipped))
				for _, reason := range batch.Skipped {
					cmd.Printf("  skipped: %s\n", reason)
				}
			}
			return nil
		},
	}
}
