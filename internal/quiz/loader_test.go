package quiz

import (
	"context"
	"errors"
	"testing"

	"trivia-quiz/internal/opentdb"
)

func remoteRows(rows ...map[string]any) RemoteFetchFunc {
	return func(context.Context, int, string, int) ([]map[string]any, error) {
		return rows, nil
	}
}

func remoteFailure(err error) RemoteFetchFunc {
	return func(context.Context, int, string, int) ([]map[string]any, error) {
		return nil, err
	}
}

func localRows(rows ...map[string]any) LocalFetchFunc {
	return func(int, string, string) []map[string]any {
		return rows
	}
}

func sampleRow(question string) map[string]any {
	return map[string]any{
		"question":          question,
		"correct_answer":    "yes",
		"incorrect_answers": []any{"no", "maybe"},
	}
}

func TestLoadLocalSource(t *testing.T) {
	var seenAmount int
	var seenDifficulty, seenSlug string
	local := func(amount int, difficulty, slug string) []map[string]any {
		seenAmount, seenDifficulty, seenSlug = amount, difficulty, slug
		return []map[string]any{sampleRow("Q1"), sampleRow("Q2")}
	}

	loader := NewLoader(remoteFailure(errors.New("must not be called")), local, nil)
	result, err := loader.Load(context.Background(), Config{
		Source:     SourceLocal,
		Amount:     5,
		Difficulty: "easy",
		Category:   "GK",
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if seenAmount != 5 || seenDifficulty != "easy" || seenSlug != "gk" {
		t.Fatalf("local adapter called with (%d, %q, %q)", seenAmount, seenDifficulty, seenSlug)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(result.Questions))
	}
	if result.Meta.Source != SourceLocal || result.Meta.Amount != 2 || result.Meta.Category != "gk" {
		t.Fatalf("unexpected meta: %+v", result.Meta)
	}
}

func TestLoadRemoteSuccess(t *testing.T) {
	loader := NewLoader(remoteRows(sampleRow("Q1")), localRows(), nil)

	result, err := loader.Load(context.Background(), Config{Source: SourceRemote, Amount: 1})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if result.Meta.Source != SourceRemote {
		t.Fatalf("meta source = %q, want remote", result.Meta.Source)
	}
	if result.Meta.Category != "mixed" {
		t.Fatalf("meta category = %q, want mixed for absent slug", result.Meta.Category)
	}
	if len(result.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(result.Questions))
	}
}

func TestLoadFallsBackToLocalOnRateLimit(t *testing.T) {
	var seenAmount int
	var seenDifficulty, seenSlug string
	local := func(amount int, difficulty, slug string) []map[string]any {
		seenAmount, seenDifficulty, seenSlug = amount, difficulty, slug
		return []map[string]any{sampleRow("Fallback")}
	}

	loader := NewLoader(remoteFailure(opentdb.ErrRateLimited), local, nil)
	result, err := loader.Load(context.Background(), Config{
		Source:     SourceRemote,
		Amount:     7,
		Difficulty: "hard",
		Category:   "science",
	})
	if err != nil {
		t.Fatalf("rate-limited load must not error, got %v", err)
	}

	// The request intent survives the fallback.
	if seenAmount != 7 || seenDifficulty != "hard" || seenSlug != "science" {
		t.Fatalf("fallback called with (%d, %q, %q)", seenAmount, seenDifficulty, seenSlug)
	}
	if result.Meta.Source != SourceLocal {
		t.Fatalf("meta source = %q, want local after fallback", result.Meta.Source)
	}
	if len(result.Questions) != 1 || result.Questions[0].Question != "Fallback" {
		t.Fatalf("unexpected fallback questions: %+v", result.Questions)
	}
}

func TestLoadPropagatesNonRateLimitErrors(t *testing.T) {
	localCalled := false
	local := func(int, string, string) []map[string]any {
		localCalled = true
		return nil
	}

	loader := NewLoader(remoteFailure(errors.New("boom")), local, nil)
	_, err := loader.Load(context.Background(), Config{Source: SourceRemote})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if localCalled {
		t.Fatalf("local adapter must not be consulted for non-rate-limit failures")
	}
}

func TestLoadDropsMalformedRows(t *testing.T) {
	loader := NewLoader(remoteRows(
		sampleRow("Good 1"),
		map[string]any{"question": "no answer here"},
		sampleRow("Good 2"),
	), localRows(), nil)

	result, err := loader.Load(context.Background(), Config{Source: SourceRemote})
	if err != nil {
		t.Fatalf("one bad row must not fail the load: %v", err)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 surviving questions, got %d", len(result.Questions))
	}
	// IDs stay dense even when rows are dropped.
	if result.Questions[0].ID != 0 || result.Questions[1].ID != 1 {
		t.Fatalf("ids not dense after drop: %d, %d", result.Questions[0].ID, result.Questions[1].ID)
	}
	if result.Meta.Amount != 2 {
		t.Fatalf("meta amount = %d, want 2", result.Meta.Amount)
	}
}

func TestLoadEmptyResultIsNotAnError(t *testing.T) {
	loader := NewLoader(remoteRows(), localRows(), nil)

	result, err := loader.Load(context.Background(), Config{Source: SourceRemote})
	if err != nil {
		t.Fatalf("empty result must not be an error, got %v", err)
	}
	if len(result.Questions) != 0 || result.Meta.Amount != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Source != SourceRemote || cfg.Amount != 10 || cfg.Difficulty != "mixed" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	cfg = Config{Source: "bogus", Amount: -3, Difficulty: "IMPOSSIBLE", Category: " GK "}.withDefaults()
	if cfg.Source != SourceRemote || cfg.Amount != 10 || cfg.Difficulty != "mixed" || cfg.Category != "gk" {
		t.Fatalf("unexpected sanitized config: %+v", cfg)
	}
}
