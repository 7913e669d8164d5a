package opentdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://opentdb.com/api.php"
	defaultAmount  = 10

	// Open Trivia DB rejects requests outside this range.
	minAmount = 1
	maxAmount = 50

	// One retry after a 429 before giving up.
	maxRetries     = 1
	defaultBackoff = time.Second
)

// ErrRateLimited is returned once the retry budget is exhausted on
// HTTP 429 responses. Callers are expected to fall back to another
// question source rather than surface it.
var ErrRateLimited = errors.New("opentdb: rate limited")

// Row is one question payload as returned by the service. It stays
// loosely typed so the normalizer can resolve field aliases itself.
type Row = map[string]any

type apiResponse struct {
	ResponseCode int   `json:"response_code"`
	Results      []Row `json:"results"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	backoff    time.Duration
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithBackoff(backoff time.Duration) Option {
	return func(c *Client) {
		c.backoff = backoff
	}
}

func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		backoff:    defaultBackoff,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// FetchQuestions requests amount questions, optionally filtered by
// difficulty (easy|medium|hard; "mixed" or empty means no filter) and
// a numeric category id (<=0 means no filter). A 429 is retried once
// with a backoff proportional to the attempt number; all other
// failures return immediately.
func (c *Client) FetchQuestions(ctx context.Context, amount int, difficulty string, categoryID int) ([]Row, error) {
	if amount <= 0 {
		amount = defaultAmount
	}
	if amount > maxAmount {
		amount = maxAmount
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(amount))
	params.Set("type", "multiple")
	if difficulty != "" && difficulty != "mixed" {
		params.Set("difficulty", difficulty)
	}
	if categoryID > 0 {
		params.Set("category", strconv.Itoa(categoryID))
	}
	reqURL := c.baseURL + "?" + params.Encode()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		rows, retry, err := c.fetchOnce(ctx, reqURL)
		if err != nil {
			return nil, err
		}
		if !retry {
			return rows, nil
		}

		if attempt < maxRetries {
			if err := sleep(ctx, time.Duration(attempt+1)*c.backoff); err != nil {
				return nil, err
			}
		}
	}

	return nil, ErrRateLimited
}

func (c *Client) fetchOnce(ctx context.Context, reqURL string) (rows []Row, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("opentdb returned status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("opentdb: decode response: %w", err)
	}

	if payload.ResponseCode != 0 {
		return nil, false, fmt.Errorf("opentdb response_code=%d", payload.ResponseCode)
	}

	return payload.Results, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
