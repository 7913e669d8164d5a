package httpapi

import (
	"time"

	"trivia-quiz/internal/bestscore"
	"trivia-quiz/internal/quiz"
)

type startQuizRequest struct {
	Source     string `json:"source,omitempty"`
	Amount     int    `json:"amount,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Category   string `json:"category,omitempty"`
	// Slug is what the dashboard links send; same meaning as Category.
	Slug string `json:"slug,omitempty"`
}

type startQuizResponse struct {
	SessionID string      `json:"session_id"`
	State     string      `json:"state"`
	Config    quiz.Config `json:"config"`
}

type questionResponse struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	// Correct is only revealed once the question is locked, for the
	// correctness visualization.
	Correct string `json:"correct,omitempty"`
}

type snapshotResponse struct {
	Index    int               `json:"index"`
	Total    int               `json:"total"`
	Question *questionResponse `json:"question,omitempty"`
	Selected *string           `json:"selected,omitempty"`
	Locked   bool              `json:"locked"`
	Score    int               `json:"score"`
	TimeLeft int               `json:"time_left"`
	Finished bool              `json:"finished"`
	Meta     quiz.Meta         `json:"meta"`
}

type sessionResponse struct {
	SessionID string            `json:"session_id"`
	State     string            `json:"state"`
	Error     string            `json:"error,omitempty"`
	Snapshot  *snapshotResponse `json:"snapshot,omitempty"`
}

type selectRequest struct {
	Option string `json:"option"`
}

type transitionResponse struct {
	Applied  bool             `json:"applied"`
	Snapshot snapshotResponse `json:"snapshot"`
}

type answerResponse struct {
	QID         int     `json:"qid"`
	Question    string  `json:"question"`
	Selected    *string `json:"selected"`
	Correct     string  `json:"correct"`
	Category    string  `json:"category"`
	AutoSkipped bool    `json:"auto_skipped"`
}

type resultResponse struct {
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Best       int              `json:"best"`
	Answers    []answerResponse `json:"answers"`
	Source     quiz.Source      `json:"source"`
	Difficulty string           `json:"difficulty"`
	Category   string           `json:"category"`
	FinishedAt time.Time        `json:"finished_at"`
}

type categoriesResponse struct {
	Categories []quiz.Category `json:"categories"`
}

type preferencesResponse struct {
	LastConfig *quiz.Config    `json:"last_config,omitempty"`
	User       *bestscore.User `json:"user,omitempty"`
}

type preferencesRequest struct {
	LastConfig *quiz.Config    `json:"last_config,omitempty"`
	User       *bestscore.User `json:"user,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
