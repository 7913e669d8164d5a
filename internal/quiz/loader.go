package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trivia-quiz/internal/opentdb"
)

const defaultAmount = 10

// Config describes one quiz attempt. It is immutable once a load has
// been started with it.
type Config struct {
	Source     Source `json:"source"`
	Amount     int    `json:"amount"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

func (c Config) withDefaults() Config {
	if c.Source != SourceLocal {
		c.Source = SourceRemote
	}
	if c.Amount <= 0 {
		c.Amount = defaultAmount
	}
	difficulty := strings.ToLower(strings.TrimSpace(c.Difficulty))
	switch difficulty {
	case "easy", "medium", "hard":
	default:
		difficulty = "mixed"
	}
	c.Difficulty = difficulty
	c.Category = strings.ToLower(strings.TrimSpace(c.Category))
	return c
}

// RemoteFetchFunc fetches raw rows from the remote trivia service.
type RemoteFetchFunc func(ctx context.Context, amount int, difficulty string, categoryID int) ([]map[string]any, error)

// LocalFetchFunc samples raw rows from the bundled question bank.
type LocalFetchFunc func(amount int, difficulty, slug string) []map[string]any

// LoadResult carries the normalized questions plus the metadata of
// what was actually served.
type LoadResult struct {
	Questions []Question `json:"questions"`
	Meta      Meta       `json:"meta"`
}

// Loader picks a source for a Config and normalizes its rows. When the
// remote service reports rate limiting, the same request intent is
// silently retried against the local bank; any other remote failure
// propagates as ErrSourceUnavailable. (The fallback is deliberately
// limited to the rate-limit case so that real outages stay visible.)
type Loader struct {
	remote RemoteFetchFunc
	local  LocalFetchFunc
	log    *zap.Logger
}

func NewLoader(remote RemoteFetchFunc, local LocalFetchFunc, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		remote: remote,
		local:  local,
		log:    log,
	}
}

func (l *Loader) Load(ctx context.Context, cfg Config) (LoadResult, error) {
	cfg = cfg.withDefaults()

	if cfg.Source == SourceLocal {
		return l.loadLocal(cfg), nil
	}

	rows, err := l.remote(ctx, cfg.Amount, cfg.Difficulty, CategoryID(cfg.Category))
	if err != nil {
		if errors.Is(err, opentdb.ErrRateLimited) {
			l.log.Info("remote source rate limited, falling back to local bank",
				zap.String("category", cfg.Category),
				zap.String("difficulty", cfg.Difficulty),
				zap.Int("amount", cfg.Amount),
			)
			return l.loadLocal(cfg), nil
		}
		return LoadResult{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	questions := l.normalizeAll(rows, SourceRemote, cfg)
	return LoadResult{
		Questions: questions,
		Meta:      buildMeta(SourceRemote, cfg, len(questions)),
	}, nil
}

func (l *Loader) loadLocal(cfg Config) LoadResult {
	rows := l.local(cfg.Amount, cfg.Difficulty, cfg.Category)
	questions := l.normalizeAll(rows, SourceLocal, cfg)
	return LoadResult{
		Questions: questions,
		Meta:      buildMeta(SourceLocal, cfg, len(questions)),
	}
}

func (l *Loader) normalizeAll(rows []map[string]any, source Source, cfg Config) []Question {
	fallbackCategory := cfg.Category
	if fallbackCategory == "" {
		fallbackCategory = string(source)
	}

	questions := make([]Question, 0, len(rows))
	for idx, row := range rows {
		question, err := normalizeRow(row, len(questions), source, fallbackCategory, cfg.Difficulty)
		if err != nil {
			l.log.Warn("dropping malformed question row",
				zap.Int("index", idx),
				zap.String("source", string(source)),
				zap.Error(err),
			)
			continue
		}
		questions = append(questions, question)
	}
	return questions
}

func buildMeta(source Source, cfg Config, amount int) Meta {
	category := cfg.Category
	if category == "" {
		category = "mixed"
	}
	return Meta{
		Source:     source,
		Difficulty: cfg.Difficulty,
		Amount:     amount,
		Category:   category,
	}
}
