package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"trivia-quiz/internal/quiz"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeSessionNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

// parseStartRequest accepts the quiz settings either as a JSON body or
// as query parameters, with "slug" as an alias for "category" to match
// the dashboard links.
func parseStartRequest(r *http.Request) (quiz.Config, error) {
	var request startQuizRequest
	if r.ContentLength > 0 {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return quiz.Config{}, errors.New("invalid JSON body")
		}
	} else {
		amount, err := parseIntParam(r, "amount", 0)
		if err != nil {
			return quiz.Config{}, err
		}
		request = startQuizRequest{
			Source:     r.URL.Query().Get("source"),
			Amount:     amount,
			Difficulty: r.URL.Query().Get("difficulty"),
			Category:   r.URL.Query().Get("category"),
			Slug:       r.URL.Query().Get("slug"),
		}
	}

	if request.Amount < 0 {
		return quiz.Config{}, errors.New("amount must be a positive integer")
	}

	category := strings.TrimSpace(request.Category)
	if category == "" {
		category = strings.TrimSpace(request.Slug)
	}

	return quiz.Config{
		Source:     quiz.Source(strings.ToLower(strings.TrimSpace(request.Source))),
		Amount:     request.Amount,
		Difficulty: request.Difficulty,
		Category:   category,
	}, nil
}

// toSnapshotResponse converts a session snapshot for the wire. The
// correct answer is withheld until the question is locked so a client
// cannot peek before committing.
func toSnapshotResponse(snapshot quiz.Snapshot) snapshotResponse {
	response := snapshotResponse{
		Index:    snapshot.Index,
		Total:    snapshot.Total,
		Selected: snapshot.Selected,
		Locked:   snapshot.Locked,
		Score:    snapshot.Score,
		TimeLeft: snapshot.TimeLeft,
		Finished: snapshot.Finished,
		Meta:     snapshot.Meta,
	}
	if snapshot.Question != nil {
		question := questionResponse{
			ID:         snapshot.Question.ID,
			Question:   snapshot.Question.Question,
			Options:    snapshot.Question.Options,
			Category:   snapshot.Question.Category,
			Difficulty: snapshot.Question.Difficulty,
		}
		if snapshot.Locked {
			question.Correct = snapshot.Question.Correct
		}
		response.Question = &question
	}
	return response
}

func toAnswerResponses(answers []quiz.AnswerRecord) []answerResponse {
	response := make([]answerResponse, 0, len(answers))
	for _, answer := range answers {
		response = append(response, answerResponse{
			QID:         answer.QID,
			Question:    answer.Question,
			Selected:    answer.Selected,
			Correct:     answer.Correct,
			Category:    answer.Category,
			AutoSkipped: answer.AutoSkipped,
		})
	}
	return response
}
