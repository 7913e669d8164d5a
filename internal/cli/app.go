// Package cli plays a quiz attempt in the terminal. It drives the same
// session engine as the HTTP API, with the real-time countdown
// disabled: the terminal has no place to render a ticking timer, so
// questions simply wait for input.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"trivia-quiz/internal/bestscore"
	"trivia-quiz/internal/quiz"
)

const maxAttempts = 3

type App struct {
	load     quiz.LoadFunc
	recorder *bestscore.Recorder
}

func NewApp(load quiz.LoadFunc, recorder *bestscore.Recorder) *App {
	return &App{load: load, recorder: recorder}
}

// Run loads questions for cfg and plays them through. Enter a letter
// to answer, "s" to skip, "p" to go back one question.
func (a *App) Run(ctx context.Context, cfg quiz.Config, in io.Reader, out io.Writer) error {
	result, err := a.load(ctx, cfg)
	if err != nil {
		return err
	}
	if len(result.Questions) == 0 {
		fmt.Fprintln(out, "No questions matched the requested settings.")
		return nil
	}

	sess := quiz.NewSession(result.Questions, result.Meta,
		quiz.WithTickInterval(0), quiz.WithSkipDelay(0))
	defer sess.Close()

	reader := bufio.NewReader(in)

	for {
		snapshot := sess.Snapshot()
		if snapshot.Finished {
			break
		}
		question := *snapshot.Question
		printQuestion(out, snapshot.Index+1, snapshot.Total, question)

		switch input := readCommand(reader, out, len(question.Options)); input.kind {
		case commandQuit:
			fmt.Fprintln(out, "\nBye.")
			return nil
		case commandPrev:
			if !sess.Prev() {
				fmt.Fprintln(out, "\nAlready at the first question.")
			}
		case commandSkip:
			sess.Skip(false)
			fmt.Fprintf(out, "\nSkipped. Correct answer was %s\n", question.Correct)
		default:
			chosen := question.Options[input.optionIndex]
			sess.Select(chosen)
			if chosen == question.Correct {
				fmt.Fprintln(out, "\nCorrect!")
			} else {
				fmt.Fprintf(out, "\nWrong. Correct answer was %s\n", question.Correct)
			}
			sess.Next()
		}
	}

	final, err := sess.Result()
	if err != nil {
		return err
	}
	printResult(out, final)

	if a.recorder != nil {
		key := bestscore.Key(string(final.Meta.Source), final.Meta.Difficulty, final.Total, cfg.Category)
		best, err := a.recorder.RecordIfHigher(key, final.Score)
		if err != nil {
			return fmt.Errorf("cli: persist best score: %w", err)
		}
		fmt.Fprintf(out, "Best for these settings: %d/%d\n", best, final.Total)
	}
	return nil
}

type commandKind int

const (
	commandAnswer commandKind = iota
	commandSkip
	commandPrev
	commandQuit
)

type command struct {
	kind        commandKind
	optionIndex int
}

func printQuestion(out io.Writer, number, total int, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d [%s]: %s\n\n", number, total, question.Category, question.Question)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "%c. %s\n", 'A'+idx, option)
	}
	fmt.Fprintln(out)
}

// readCommand reads one answer letter or control command. Repeated
// invalid input falls back to a skip so a broken pipe cannot wedge the
// session.
func readCommand(reader *bufio.Reader, out io.Writer, optionCount int) command {
	if optionCount < 1 {
		return command{kind: commandSkip}
	}

	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return command{kind: commandQuit}
		}

		input := strings.ToUpper(strings.TrimSpace(line))
		switch input {
		case "S":
			return command{kind: commandSkip}
		case "P":
			return command{kind: commandPrev}
		case "Q":
			return command{kind: commandQuit}
		}
		if len(input) == 1 {
			letter := input[0]
			if letter >= 'A' && letter <= maxLetter {
				return command{kind: commandAnswer, optionIndex: int(letter - 'A')}
			}
		}

		if attempt < maxAttempts {
			fmt.Fprintf(out, "\nInvalid input. Enter a letter A-%c, s to skip, p for previous, q to quit.\n", maxLetter)
		}
	}

	return command{kind: commandSkip}
}

func printResult(out io.Writer, result quiz.Result) {
	fmt.Fprintf(out, "\nFinal score: %d/%d\n\n", result.Score, result.Total)
	for _, answer := range result.Answers {
		switch {
		case answer.Selected == nil:
			fmt.Fprintf(out, "  Q%d skipped (answer: %s)\n", answer.QID+1, answer.Correct)
		case strings.TrimSpace(*answer.Selected) == strings.TrimSpace(answer.Correct):
			fmt.Fprintf(out, "  Q%d correct\n", answer.QID+1)
		default:
			fmt.Fprintf(out, "  Q%d wrong: picked %s, answer %s\n", answer.QID+1, *answer.Selected, answer.Correct)
		}
	}
	fmt.Fprintln(out)
}
