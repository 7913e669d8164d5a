package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"trivia-quiz/internal/bestscore"
	"trivia-quiz/internal/quiz"
)

// HandleStartQuiz creates a new quiz attempt and kicks off the question
// load in the background. The response returns immediately with the
// session id; clients poll GET /quiz/{session_id} until the load
// settles.
func (a *API) HandleStartQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	cfg, err := parseStartRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, controller := a.register()
	// The load must outlive this request, so it does not inherit
	// r.Context().
	controller.Start(context.Background(), cfg)

	if a.prefs != nil {
		if err := a.prefs.SaveLastConfig(cfg); err != nil {
			a.log.Warn("failed to save last config", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusCreated, startQuizResponse{
		SessionID: id,
		State:     string(quiz.StateLoading),
		Config:    cfg,
	})
}

// HandleSession reports the lifecycle state of an attempt (GET) or
// tears it down (DELETE).
func (a *API) HandleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")

	switch r.Method {
	case http.MethodGet:
		controller, ok := a.lookup(id)
		if !ok {
			writeSessionNotFound(w)
			return
		}
		writeJSON(w, http.StatusOK, a.sessionState(id, controller))
	case http.MethodDelete:
		controller, ok := a.remove(id)
		if !ok {
			writeSessionNotFound(w)
			return
		}
		controller.Close()
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

// HandleRestart supersedes the attempt's current load or session with a
// fresh one. Without a body the previous settings are reused; a slow
// response from the superseded load is discarded, never applied.
func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	controller, ok := a.lookup(r.PathValue("session_id"))
	if !ok {
		writeSessionNotFound(w)
		return
	}

	cfg := controller.Config()
	if r.ContentLength > 0 {
		parsed, err := parseStartRequest(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		cfg = parsed
	}

	controller.Start(context.Background(), cfg)

	writeJSON(w, http.StatusOK, startQuizResponse{
		SessionID: r.PathValue("session_id"),
		State:     string(quiz.StateLoading),
		Config:    cfg,
	})
}

func (a *API) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	defer r.Body.Close()

	var request selectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(request.Option) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "option is required"})
		return
	}

	a.applyTransition(w, r, func(sess *quiz.Session) bool {
		return sess.Select(request.Option)
	})
}

func (a *API) HandleSkip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	a.applyTransition(w, r, func(sess *quiz.Session) bool {
		return sess.Skip(false)
	})
}

func (a *API) HandleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	a.applyTransition(w, r, func(sess *quiz.Session) bool {
		return sess.Next()
	})
}

func (a *API) HandlePrev(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	a.applyTransition(w, r, func(sess *quiz.Session) bool {
		return sess.Prev()
	})
}

// HandleResult serves the final score record and folds it into the
// persisted best for the attempt's settings. Repeated calls are safe:
// the best never decreases.
func (a *API) HandleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}

	controller, ok := a.lookup(r.PathValue("session_id"))
	if !ok {
		writeSessionNotFound(w)
		return
	}

	sess, ok := controller.Session()
	if !ok {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "quiz is not finished"})
		return
	}

	result, err := sess.Result()
	if err != nil {
		if errors.Is(err, quiz.ErrNotFinished) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "quiz is not finished"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
		return
	}

	key := bestscore.Key(
		string(result.Meta.Source),
		result.Meta.Difficulty,
		result.Total,
		controller.Config().Category,
	)
	best, err := a.recorder.RecordIfHigher(key, result.Score)
	if err != nil {
		a.log.Warn("failed to persist best score", zap.String("key", key), zap.Error(err))
		best = result.Score
	}

	writeJSON(w, http.StatusOK, resultResponse{
		Score:      result.Score,
		Total:      result.Total,
		Best:       best,
		Answers:    toAnswerResponses(result.Answers),
		Source:     result.Meta.Source,
		Difficulty: result.Meta.Difficulty,
		Category:   result.Meta.Category,
		FinishedAt: result.Meta.FinishedAt,
	})
}

func (a *API) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: quiz.Categories()})
}

// HandlePreferences reads and writes the small records the dashboard
// keeps next to the best scores: the last used quiz settings and the
// signed-in user marker.
func (a *API) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	if a.prefs == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "preferences unavailable"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		response := preferencesResponse{}
		if cfg, ok, err := a.prefs.LastConfig(); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
			return
		} else if ok {
			response.LastConfig = &cfg
		}
		if user, ok, err := a.prefs.CurrentUser(); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
			return
		} else if ok {
			response.User = &user
		}
		writeJSON(w, http.StatusOK, response)
	case http.MethodPut:
		defer r.Body.Close()

		var request preferencesRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if request.LastConfig == nil && request.User == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "last_config or user is required"})
			return
		}

		if request.LastConfig != nil {
			if err := a.prefs.SaveLastConfig(*request.LastConfig); err != nil {
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
				return
			}
		}
		if request.User != nil {
			if err := a.prefs.SetCurrentUser(*request.User); err != nil {
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
				return
			}
		}
		writeJSON(w, http.StatusOK, preferencesResponse{
			LastConfig: request.LastConfig,
			User:       request.User,
		})
	case http.MethodDelete:
		if err := a.prefs.ClearCurrentUser(); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// applyTransition runs one session transition and returns whether it
// took effect plus the resulting snapshot. A rejected transition (for
// example selecting on a locked question) still answers 200: the
// applied flag carries the outcome, and the snapshot lets the client
// resync.
func (a *API) applyTransition(w http.ResponseWriter, r *http.Request, transition func(*quiz.Session) bool) {
	controller, ok := a.lookup(r.PathValue("session_id"))
	if !ok {
		writeSessionNotFound(w)
		return
	}

	sess, ok := controller.Session()
	if !ok {
		state, _ := controller.State()
		writeJSON(w, http.StatusConflict, errorResponse{Error: "session is not ready: " + string(state)})
		return
	}

	applied := transition(sess)
	writeJSON(w, http.StatusOK, transitionResponse{
		Applied:  applied,
		Snapshot: toSnapshotResponse(sess.Snapshot()),
	})
}

func (a *API) sessionState(id string, controller *quiz.Controller) sessionResponse {
	state, stateErr := controller.State()
	response := sessionResponse{
		SessionID: id,
		State:     string(state),
	}
	if stateErr != nil {
		response.Error = stateErr.Error()
	}
	if sess, ok := controller.Session(); ok {
		snapshot := toSnapshotResponse(sess.Snapshot())
		response.Snapshot = &snapshot
	}
	return response
}
