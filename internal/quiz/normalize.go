package quiz

import (
	"fmt"
	"html"
	"math/rand"
	"strings"
)

// Accepted field names per logical field, in priority order. Remote
// rows and current bank exports use the long names; older bank rows
// used the short forms. This list is the normalizer's contract: a row
// matching none of the aliases for a required field is malformed.
var (
	questionAliases  = []string{"question", "q", "text"}
	correctAliases   = []string{"correct", "a", "answer", "correct_answer"}
	incorrectAliases = []string{"incorrect_answers", "incorrect"}
	optionsAliases   = []string{"options", "choices"}
)

// normalizeRow converts a raw source row into a Question. The id is
// assigned by the caller and only needs to be unique within one load.
// Remote rows arrive HTML-entity-encoded and are decoded here; any
// residual markup is left in place for the caller to render verbatim.
func normalizeRow(row map[string]any, id int, source Source, fallbackCategory, fallbackDifficulty string) (Question, error) {
	text, ok := firstString(row, questionAliases)
	if !ok || strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf("%w: no question text", ErrMalformedRow)
	}

	correct, ok := firstString(row, correctAliases)
	if !ok || strings.TrimSpace(correct) == "" {
		return Question{}, fmt.Errorf("%w: no correct answer", ErrMalformedRow)
	}

	decode := func(s string) string { return s }
	if source == SourceRemote {
		decode = html.UnescapeString
	}
	text = decode(text)
	correct = decode(correct)

	options := buildOptions(row, correct, decode)

	category, _ := firstString(row, []string{"category"})
	if strings.TrimSpace(category) == "" {
		category = fallbackCategory
	}

	difficulty, _ := firstString(row, []string{"difficulty"})
	if strings.TrimSpace(difficulty) == "" {
		difficulty = fallbackDifficulty
	}

	return Question{
		ID:         id,
		Question:   text,
		Options:    options,
		Correct:    correct,
		Category:   strings.ToUpper(strings.TrimSpace(category)),
		Difficulty: strings.ToLower(strings.TrimSpace(difficulty)),
	}, nil
}

// buildOptions prefers a pre-built option list when the row carries
// one; otherwise it combines the correct answer with the incorrect
// ones and applies a uniform Fisher-Yates shuffle. Duplicate option
// text is preserved verbatim, never deduplicated.
func buildOptions(row map[string]any, correct string, decode func(string) string) []string {
	if prebuilt, ok := firstStringSlice(row, optionsAliases); ok && len(prebuilt) > 0 {
		options := make([]string, 0, len(prebuilt)+1)
		found := false
		for _, option := range prebuilt {
			option = decode(option)
			if strings.TrimSpace(option) == strings.TrimSpace(correct) {
				found = true
			}
			options = append(options, option)
		}
		// The invariant is that options contain the correct answer;
		// repair rows whose pre-built list dropped it.
		if !found {
			options = append(options, correct)
			shuffleStrings(options)
		}
		return options
	}

	incorrect, _ := firstStringSlice(row, incorrectAliases)
	options := make([]string, 0, len(incorrect)+1)
	options = append(options, correct)
	for _, wrong := range incorrect {
		options = append(options, decode(wrong))
	}
	shuffleStrings(options)
	return options
}

func shuffleStrings(values []string) {
	rand.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

func firstString(row map[string]any, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if value, ok := row[alias].(string); ok {
			return value, true
		}
	}
	return "", false
}

// firstStringSlice tolerates both []string (rows built in-process) and
// []any (rows straight out of encoding/json).
func firstStringSlice(row map[string]any, aliases []string) ([]string, bool) {
	for _, alias := range aliases {
		switch value := row[alias].(type) {
		case []string:
			return value, true
		case []any:
			out := make([]string, 0, len(value))
			for _, item := range value {
				text, ok := item.(string)
				if !ok {
					continue
				}
				out = append(out, text)
			}
			return out, true
		}
	}
	return nil, false
}
