// Package quiz holds the core of the trivia application: question
// normalization, the source-selecting loader with its rate-limit
// fallback, and the per-attempt session state machine.
package quiz

import (
	"errors"
	"time"
)

// Source identifies where a quiz attempt draws its questions from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

var (
	// ErrSourceUnavailable wraps remote failures other than rate
	// limiting; the caller must surface these as a load failure.
	ErrSourceUnavailable = errors.New("question source unavailable")

	// ErrMalformedRow marks a row that lacks question text or a
	// correct answer after alias resolution. Such rows are dropped,
	// never fatal for the whole load.
	ErrMalformedRow = errors.New("malformed question row")

	// ErrNotFinished is returned when a result is requested before
	// the session reached its terminal state.
	ErrNotFinished = errors.New("quiz session not finished")
)

// Question is the canonical question shape every source is normalized
// into. Options contain the correct answer exactly once, at a random
// position; the text is rendered verbatim downstream.
type Question struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Correct    string   `json:"correct"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// AnswerRecord is one entry of the session's append-only answer log.
// Selected is nil for skipped or timed-out questions.
type AnswerRecord struct {
	QID         int     `json:"qid"`
	Question    string  `json:"question"`
	Selected    *string `json:"selected"`
	Correct     string  `json:"correct"`
	Category    string  `json:"category"`
	AutoSkipped bool    `json:"auto_skipped"`
}

// Meta describes what a load actually returned, which can differ from
// what was requested (fallback source, short pools).
type Meta struct {
	Source     Source `json:"source"`
	Difficulty string `json:"difficulty"`
	Amount     int    `json:"amount"`
	Category   string `json:"category"`
}

type ResultMeta struct {
	Meta
	FinishedAt time.Time `json:"finished_at"`
}

// Result is assembled once, when the session finishes.
type Result struct {
	Score   int            `json:"score"`
	Total   int            `json:"total"`
	Answers []AnswerRecord `json:"answers"`
	Meta    ResultMeta     `json:"meta"`
}
