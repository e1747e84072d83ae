package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharoushi/studybank/internal/assets"
	"github.com/sharoushi/studybank/internal/bank"
	"github.com/sharoushi/studybank/internal/corpus"
	"github.com/sharoushi/studybank/internal/legacy"
	"github.com/sharoushi/studybank/internal/logging"
	"github.com/sharoushi/studybank/internal/prefs"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Run corpus import and history migration, then exit",
	Long: `Runs the one-time corpus import and legacy history migration without
starting the server. Useful for provisioning a data directory ahead of
time. Both operations are idempotent: a bank that already holds data is
left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := logging.New(cfg)
		defer log.Sync()

		store, err := bank.Open(bank.Config{DataDir: cfg.DataDir}, log)
		if err != nil {
			return fmt.Errorf("opening question bank: %w", err)
		}
		defer store.Close()

		src := assets.NewDirSource(cfg.AssetDir)

		if err := corpus.New(store, src, cfg.CorpusCandidates, log).ImportIfNeeded(); err != nil {
			return fmt.Errorf("corpus import: %w", err)
		}

		flags := prefs.NewFileStore(cfg.DataDir)
		migrator := legacy.NewMigrator(store, src, flags, log)
		migrator.UseAssets(cfg.BookmarkAsset, cfg.WeakAsset)
		if err := migrator.MigrateIfNeeded(); err != nil {
			return fmt.Errorf("history migration: %w", err)
		}

		questions, err := store.QuestionCount()
		if err != nil {
			return err
		}
		bookmarks, err := store.BookmarkCount()
		if err != nil {
			return err
		}
		answers, err := store.AnswerCount()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Bank ready: %d questions, %d bookmarks, %d answer records\n",
			questions, bookmarks, answers)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
