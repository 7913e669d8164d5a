package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trivia-quiz/internal/bestscore"
	sqlitestore "trivia-quiz/internal/bestscore/sqlite"
	"trivia-quiz/internal/cli"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/localbank"
	"trivia-quiz/internal/opentdb"
	"trivia-quiz/internal/quiz"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	source := flag.String("source", "remote", "question source (remote or local)")
	amount := flag.Int("amount", 10, "number of questions")
	difficulty := flag.String("difficulty", "", "difficulty filter (easy, medium, hard)")
	category := flag.String("category", "", "category slug (gk, js, science, sports, geography, history)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := sqlitestore.NewStore(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	bank, err := localbank.Default()
	if err != nil {
		return err
	}

	remote := opentdb.NewClient(
		&http.Client{Timeout: cfg.OpenTDB.Timeout},
		opentdb.WithBaseURL(cfg.OpenTDB.BaseURL),
	)
	loader := quiz.NewLoader(remote.FetchQuestions, bank.Fetch, nil)

	app := cli.NewApp(loader.Load, bestscore.NewRecorder(store, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	return app.Run(ctx, quiz.Config{
		Source:     quiz.Source(*source),
		Amount:     *amount,
		Difficulty: *difficulty,
		Category:   *category,
	}, os.Stdin, os.Stdout)
}
