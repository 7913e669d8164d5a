// Package webclient is a terminal front end that plays a quiz through
// the HTTP service instead of an in-process session. It mirrors what
// the browser dashboard does: start an attempt, poll until the load
// settles, then drive transitions one request at a time.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"trivia-quiz/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type startedQuiz struct {
	SessionID string      `json:"session_id"`
	State     string      `json:"state"`
	Config    quiz.Config `json:"config"`
}

type questionView struct {
	ID         int      `json:"id"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Correct    string   `json:"correct,omitempty"`
}

type snapshotView struct {
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Question *questionView `json:"question,omitempty"`
	Selected *string       `json:"selected,omitempty"`
	Locked   bool          `json:"locked"`
	Score    int           `json:"score"`
	TimeLeft int           `json:"time_left"`
	Finished bool          `json:"finished"`
	Meta     quiz.Meta     `json:"meta"`
}

type sessionView struct {
	SessionID string        `json:"session_id"`
	State     string        `json:"state"`
	Error     string        `json:"error,omitempty"`
	Snapshot  *snapshotView `json:"snapshot,omitempty"`
}

type transitionView struct {
	Applied  bool         `json:"applied"`
	Snapshot snapshotView `json:"snapshot"`
}

type answerView struct {
	QID         int     `json:"qid"`
	Question    string  `json:"question"`
	Selected    *string `json:"selected"`
	Correct     string  `json:"correct"`
	Category    string  `json:"category"`
	AutoSkipped bool    `json:"auto_skipped"`
}

type resultView struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Best       int          `json:"best"`
	Answers    []answerView `json:"answers"`
	Source     string       `json:"source"`
	Difficulty string       `json:"difficulty"`
	Category   string       `json:"category"`
}

type categoriesView struct {
	Categories []quiz.Category `json:"categories"`
}

type selectPayload struct {
	Option string `json:"option"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *HTTPClient) StartQuiz(ctx context.Context, cfg quiz.Config) (startedQuiz, error) {
	query := url.Values{}
	if cfg.Source != "" {
		query.Set("source", string(cfg.Source))
	}
	if cfg.Amount > 0 {
		query.Set("amount", fmt.Sprint(cfg.Amount))
	}
	if cfg.Difficulty != "" {
		query.Set("difficulty", cfg.Difficulty)
	}
	if cfg.Category != "" {
		query.Set("category", cfg.Category)
	}

	path := "/quiz"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var payload startedQuiz
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &payload); err != nil {
		return startedQuiz{}, err
	}
	return payload, nil
}

func (c *HTTPClient) SessionState(ctx context.Context, sessionID string) (sessionView, error) {
	var payload sessionView
	err := c.doJSON(ctx, http.MethodGet, "/quiz/"+url.PathEscape(sessionID), nil, &payload)
	return payload, err
}

func (c *HTTPClient) Select(ctx context.Context, sessionID, option string) (transitionView, error) {
	var payload transitionView
	err := c.doJSON(ctx, http.MethodPost, "/quiz/"+url.PathEscape(sessionID)+"/select", selectPayload{Option: option}, &payload)
	return payload, err
}

func (c *HTTPClient) transition(ctx context.Context, sessionID, action string) (transitionView, error) {
	var payload transitionView
	err := c.doJSON(ctx, http.MethodPost, "/quiz/"+url.PathEscape(sessionID)+"/"+action, nil, &payload)
	return payload, err
}

func (c *HTTPClient) Skip(ctx context.Context, sessionID string) (transitionView, error) {
	return c.transition(ctx, sessionID, "skip")
}

func (c *HTTPClient) Next(ctx context.Context, sessionID string) (transitionView, error) {
	return c.transition(ctx, sessionID, "next")
}

func (c *HTTPClient) Prev(ctx context.Context, sessionID string) (transitionView, error) {
	return c.transition(ctx, sessionID, "prev")
}

func (c *HTTPClient) Result(ctx context.Context, sessionID string) (resultView, error) {
	var payload resultView
	err := c.doJSON(ctx, http.MethodGet, "/quiz/"+url.PathEscape(sessionID)+"/result", nil, &payload)
	return payload, err
}

func (c *HTTPClient) CloseSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/quiz/"+url.PathEscape(sessionID), nil, nil)
}

func (c *HTTPClient) Categories(ctx context.Context) ([]quiz.Category, error) {
	var payload categoriesView
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorPayload
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
