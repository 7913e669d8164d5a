package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"trivia-quiz/internal/bestscore"
	"trivia-quiz/internal/quiz"
)

func scriptedLoad(questions []quiz.Question) quiz.LoadFunc {
	return func(ctx context.Context, cfg quiz.Config) (quiz.LoadResult, error) {
		return quiz.LoadResult{
			Questions: questions,
			Meta: quiz.Meta{
				Source:     quiz.SourceLocal,
				Difficulty: "mixed",
				Amount:     len(questions),
				Category:   "mixed",
			},
		}, nil
	}
}

func twoQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: 0, Question: "first", Options: []string{"right-0", "wrong"}, Correct: "right-0", Category: "GK"},
		{ID: 1, Question: "second", Options: []string{"wrong", "right-1"}, Correct: "right-1", Category: "GK"},
	}
}

func runApp(t *testing.T, input string) (string, *bestscore.MemStore) {
	t.Helper()

	store := bestscore.NewMemStore()
	app := NewApp(scriptedLoad(twoQuestions()), bestscore.NewRecorder(store, nil))

	var out bytes.Buffer
	if err := app.Run(context.Background(), quiz.Config{Source: quiz.SourceLocal, Amount: 2}, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String(), store
}

func TestRunScoresCorrectAnswers(t *testing.T) {
	output, store := runApp(t, "A\nB\n")

	if !strings.Contains(output, "Final score: 2/2") {
		t.Fatalf("expected perfect score, output:\n%s", output)
	}
	if !strings.Contains(output, "Best for these settings: 2/2") {
		t.Fatalf("expected best score line, output:\n%s", output)
	}

	key := bestscore.Key("local", "mixed", 2, "")
	if value, ok, _ := store.Get(key); !ok || value != "2" {
		t.Fatalf("best not persisted under %s: (%q, %v)", key, value, ok)
	}
}

func TestRunSkipRevealsAnswer(t *testing.T) {
	output, _ := runApp(t, "s\nB\n")

	if !strings.Contains(output, "Skipped. Correct answer was right-0") {
		t.Fatalf("expected skip message, output:\n%s", output)
	}
	if !strings.Contains(output, "Final score: 1/2") {
		t.Fatalf("expected 1/2, output:\n%s", output)
	}
}

func TestRunPrevReturnsToEarlierQuestion(t *testing.T) {
	// Answer wrong, go back from question two, answer right this time.
	output, _ := runApp(t, "B\np\nA\nB\n")

	if !strings.Contains(output, "Final score: 2/2") {
		t.Fatalf("expected 2/2 after retrying via prev, output:\n%s", output)
	}
	if strings.Count(output, "Q1/2") != 2 {
		t.Fatalf("expected question one to be shown twice, output:\n%s", output)
	}
}

func TestRunInvalidInputFallsBackToSkip(t *testing.T) {
	output, _ := runApp(t, "x\n1\nzz\nB\n")

	if !strings.Contains(output, "Invalid input.") {
		t.Fatalf("expected a reprompt, output:\n%s", output)
	}
	if !strings.Contains(output, "Skipped. Correct answer was right-0") {
		t.Fatalf("three bad inputs should skip, output:\n%s", output)
	}
}

func TestRunQuitLeavesNoResult(t *testing.T) {
	output, store := runApp(t, "q\n")

	if !strings.Contains(output, "Bye.") {
		t.Fatalf("expected quit message, output:\n%s", output)
	}
	if value, ok, _ := store.Get(bestscore.Key("local", "mixed", 2, "")); ok {
		t.Fatalf("quit must not record a best score, got %q", value)
	}
}
