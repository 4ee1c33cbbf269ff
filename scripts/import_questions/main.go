package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mroshb/quiz_bot/internal/config"
	"github.com/mroshb/quiz_bot/internal/database"
	"github.com/mroshb/quiz_bot/internal/questions"
	"github.com/mroshb/quiz_bot/internal/repositories"
	"github.com/mroshb/quiz_bot/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.Init(os.Getenv("LOG_LEVEL"), true)
	defer logger.Sync()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "import_questions",
		Short: "Manage the Postgres question bank",
	}
	root.AddCommand(importCmd(), inspectCmd(), countCmd())
	return root
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored bank with a .json, .yaml or .xlsx question file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := questions.LoadFile(args[0])
			if err != nil {
				return err
			}
			if len(qs) == 0 {
				return fmt.Errorf("%s has no complete questions", args[0])
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if dryRun {
				fmt.Printf("Would import %d questions from %s\n", len(qs), args[0])
				return nil
			}

			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.ReplaceAll(cmd.Context(), qs); err != nil {
				return err
			}
			fmt.Printf("Successfully imported %d questions.\n", len(qs))
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Parse the file without touching the database")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the questions a file would load",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			qs, err := questions.LoadFile(args[0])
			if err != nil {
				return err
			}
			for _, q := range qs {
				fmt.Printf("%d. %s\n   -> %s\n", q.Position+1, q.Prompt, q.OfficialAnswer)
			}
			fmt.Printf("%d complete questions\n", len(qs))
			return nil
		},
	}
}

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print how many questions are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := repo.CountQuestions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d questions stored\n", n)
			return nil
		},
	}
}

func openRepository() (*repositories.QuestionRepository, func(), error) {
	cfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, nil, err
	}

	closeDB := func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}
	return repositories.NewQuestionRepository(db), closeDB, nil
}

