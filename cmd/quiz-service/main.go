package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"trivia-quiz/internal/bestscore"
	sqlitestore "trivia-quiz/internal/bestscore/sqlite"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/httpapi"
	"trivia-quiz/internal/localbank"
	"trivia-quiz/internal/logger"
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

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := sqlitestore.NewStore(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	bank, err := openBank(cfg.BankPath)
	if err != nil {
		return fmt.Errorf("open question bank: %w", err)
	}

	remote := opentdb.NewClient(
		&http.Client{Timeout: cfg.OpenTDB.Timeout},
		opentdb.WithBaseURL(cfg.OpenTDB.BaseURL),
	)
	loader := quiz.NewLoader(remote.FetchQuestions, bank.Fetch, log)

	api := httpapi.NewAPI(
		loader.Load,
		bestscore.NewRecorder(store, log),
		bestscore.NewPrefs(store),
		log,
		quiz.WithQuestionSeconds(cfg.Quiz.QuestionSeconds),
		quiz.WithSkipDelay(cfg.Quiz.SkipDelay),
	)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("quiz-service listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openBank(path string) (*localbank.Bank, error) {
	if path == "" {
		return localbank.Default()
	}
	return localbank.FromFile(path)
}
