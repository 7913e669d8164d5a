package webclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trivia-quiz/internal/quiz"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
	defaultPollTimeout = 10 * time.Second
	maxInvalidAnswers  = 3
)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
	PollTimeout time.Duration
}

// Run starts the interactive command loop against the quiz service.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "trivia quiz client\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "categories":
			if err := runCategories(ctx, out, client, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		case "start":
			quizCfg, parseErr := parseStartArgs(args[1:])
			if parseErr != nil {
				fmt.Fprintf(out, "invalid start arguments: %v\n", parseErr)
				fmt.Fprintln(out, "usage: start [category] [amount] [difficulty] [source]")
				continue
			}
			if err := runQuiz(ctx, reader, out, client, quizCfg, pollTimeout, serverURL); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runCategories(ctx context.Context, out io.Writer, client *HTTPClient, serverURL string) error {
	categories, err := client.Categories(ctx)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	fmt.Fprintln(out, "Categories:")
	for _, category := range categories {
		fmt.Fprintf(out, "  %-10s %s\n", category.Slug, category.Label)
	}
	return nil
}

func runQuiz(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, cfg quizConfig, pollTimeout time.Duration, serverURL string) error {
	started, err := client.StartQuiz(ctx, cfg.toQuizConfig())
	if err != nil {
		return describeClientError(err, serverURL)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultHTTPTimeout)
		defer cancel()
		_ = client.CloseSession(shutdownCtx, started.SessionID)
	}()

	state, err := waitForQuestions(ctx, client, started.SessionID, pollTimeout)
	if err != nil {
		return describeClientError(err, serverURL)
	}

	switch state.State {
	case "failed":
		return fmt.Errorf("quiz load failed: %s", state.Error)
	case "empty":
		fmt.Fprintln(out, "No questions matched the requested settings.")
		return nil
	}

	fmt.Fprintf(out, "session=%s source=%s\n", started.SessionID, state.Snapshot.Meta.Source)

	snapshot := *state.Snapshot
	for !snapshot.Finished {
		next, quit, playErr := playQuestion(ctx, reader, out, client, started.SessionID, snapshot)
		if playErr != nil {
			return describeClientError(playErr, serverURL)
		}
		if quit {
			return nil
		}
		snapshot = next
	}

	result, err := client.Result(ctx, started.SessionID)
	if err != nil {
		return describeClientError(err, serverURL)
	}
	printResult(out, result)
	return nil
}

// waitForQuestions polls the session until the background load settles.
func waitForQuestions(ctx context.Context, client *HTTPClient, sessionID string, pollTimeout time.Duration) (sessionView, error) {
	deadline := time.Now().Add(pollTimeout)
	for {
		state, err := client.SessionState(ctx, sessionID)
		if err != nil {
			return sessionView{}, err
		}
		if state.State != "loading" && state.State != "idle" {
			return state, nil
		}
		if time.Now().After(deadline) {
			return sessionView{}, fmt.Errorf("quiz still loading after %s", pollTimeout)
		}

		select {
		case <-ctx.Done():
			return sessionView{}, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func playQuestion(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, sessionID string, snapshot snapshotView) (snapshotView, bool, error) {
	question := snapshot.Question
	if question == nil {
		return snapshotView{}, false, errors.New("session has no current question")
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d [%s]: %s\n\n", snapshot.Index+1, snapshot.Total, question.Category, question.Question)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "%c. %s\n", 'A'+idx, option)
	}
	fmt.Fprintln(out)

	invalidCount := 0
	for {
		input, ok := promptAnswer(reader, out, len(question.Options))
		if !ok {
			invalidCount++
			if invalidCount >= maxInvalidAnswers {
				fmt.Fprintln(out, "Skipping question after multiple invalid responses.")
				transition, err := client.Skip(ctx, sessionID)
				return transition.Snapshot, false, err
			}
			fmt.Fprintf(out, "Invalid input. Attempts remaining: %d\n", maxInvalidAnswers-invalidCount)
			continue
		}

		switch input {
		case "S":
			transition, err := client.Skip(ctx, sessionID)
			return transition.Snapshot, false, err
		case "P":
			transition, err := client.Prev(ctx, sessionID)
			if err != nil {
				return snapshotView{}, false, err
			}
			if !transition.Applied {
				fmt.Fprintln(out, "Already at the first question.")
			}
			return transition.Snapshot, false, nil
		case "Q":
			fmt.Fprintln(out, "Bye.")
			return snapshotView{}, true, nil
		}

		chosen := question.Options[input[0]-'A']
		locked, err := client.Select(ctx, sessionID, chosen)
		if err != nil {
			return snapshotView{}, false, err
		}
		if locked.Snapshot.Question != nil && locked.Snapshot.Question.Correct == chosen {
			fmt.Fprintln(out, "Correct!")
		} else if locked.Snapshot.Question != nil {
			fmt.Fprintf(out, "Wrong. Correct answer was %s\n", locked.Snapshot.Question.Correct)
		}

		transition, err := client.Next(ctx, sessionID)
		return transition.Snapshot, false, err
	}
}

func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (string, bool) {
	if optionCount < 1 {
		return "S", true
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c, s=skip, p=prev, q=quit): ", maxLetter)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "Q", true
	}

	answer := strings.ToUpper(strings.TrimSpace(line))
	switch answer {
	case "S", "P", "Q":
		return answer, true
	}
	if len(answer) != 1 {
		return "", false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxLetter {
		return "", false
	}
	return answer, true
}

func printResult(out io.Writer, result resultView) {
	fmt.Fprintf(out, "\nFinal score: %d/%d (best %d)\n", result.Score, result.Total, result.Best)
	for _, answer := range result.Answers {
		switch {
		case answer.Selected == nil && answer.AutoSkipped:
			fmt.Fprintf(out, "  Q%d timed out (answer: %s)\n", answer.QID+1, answer.Correct)
		case answer.Selected == nil:
			fmt.Fprintf(out, "  Q%d skipped (answer: %s)\n", answer.QID+1, answer.Correct)
		case strings.TrimSpace(*answer.Selected) == strings.TrimSpace(answer.Correct):
			fmt.Fprintf(out, "  Q%d correct\n", answer.QID+1)
		default:
			fmt.Fprintf(out, "  Q%d wrong: picked %s, answer %s\n", answer.QID+1, *answer.Selected, answer.Correct)
		}
	}
}

type quizConfig struct {
	Category   string
	Amount     int
	Difficulty string
	Source     string
}

func (c quizConfig) toQuizConfig() quiz.Config {
	return quiz.Config{
		Source:     quiz.Source(c.Source),
		Amount:     c.Amount,
		Difficulty: c.Difficulty,
		Category:   c.Category,
	}
}

func parseStartArgs(args []string) (quizConfig, error) {
	cfg := quizConfig{}
	if len(args) > 0 {
		cfg.Category = strings.ToLower(args[0])
	}
	if len(args) > 1 {
		amount, err := strconv.Atoi(args[1])
		if err != nil || amount <= 0 {
			return quizConfig{}, errors.New("amount must be a positive integer")
		}
		cfg.Amount = amount
	}
	if len(args) > 2 {
		cfg.Difficulty = strings.ToLower(args[2])
	}
	if len(args) > 3 {
		source := strings.ToLower(args[3])
		if source != "remote" && source != "local" {
			return quizConfig{}, errors.New("source must be remote or local")
		}
		cfg.Source = source
	}
	return cfg, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  categories")
	fmt.Fprintln(out, "  start [category] [amount] [difficulty] [source]")
	fmt.Fprintln(out, "  exit")
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
