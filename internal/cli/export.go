package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eduplay/quizquest/internal/config"
	"github.com/eduplay/quizquest/internal/database"
	"github.com/eduplay/quizquest/internal/export"
	"github.com/eduplay/quizquest/internal/server"
)

func newExportCmd() *cobra.Command {
	var out string
	var title string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the question bank as a standalone playable HTML file",
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

			gameCfg, err := store.Config(ctx)
			if err != nil {
				return err
			}
			questions, err := store.Questions(ctx)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				return fmt.Errorf("question bank is empty")
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := export.Write(f, title, gameCfg, questions); err != nil {
				return fmt.Errorf("rendering artifact: %w", err)
			}
			cmd.Printf("wrote %d questions to %s\n", len(questions), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "quizquest.html", "output file")
	cmd.Flags().StringVar(&title, "title", "Thử Thách Lịch Sử", "game title shown in the artifact")
	return cmd
}
