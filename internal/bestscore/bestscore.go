// Package bestscore persists the highest score ever achieved for one
// exact quiz configuration, plus a few small preference records, on
// top of a pluggable string key-value store.
package bestscore

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Store is the key-value substrate. Implementations: MemStore and the
// sqlite subpackage. Absent keys are reported via the boolean, not an
// error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Key derives the best-score key for a quiz configuration. Absent
// fields get documented defaults so the same settings always map to
// the same key.
func Key(source, difficulty string, amount int, category string) string {
	source = strings.TrimSpace(strings.ToLower(source))
	if source == "" {
		source = "remote"
	}
	difficulty = strings.TrimSpace(strings.ToLower(difficulty))
	if difficulty == "" {
		difficulty = "mixed"
	}
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		category = "any"
	}
	return fmt.Sprintf("best:%s:%s:%d:%s", source, difficulty, amount, category)
}

// Recorder reads and monotonically updates best scores.
type Recorder struct {
	store Store
	log   *zap.Logger
}

func NewRecorder(store Store, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: store, log: log}
}

// Best returns the stored best for key; an absent or unparseable
// value reads as 0.
func (r *Recorder) Best(key string) (int, error) {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	best, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r.log.Warn("ignoring unparseable best score", zap.String("key", key), zap.String("value", raw))
		return 0, nil
	}
	return best, nil
}

// RecordIfHigher stores score under key only when it beats the
// current best; the write never decreases the stored value. Returns
// the best after the call.
func (r *Recorder) RecordIfHigher(key string, score int) (int, error) {
	current, err := r.Best(key)
	if err != nil {
		return 0, err
	}
	if score <= current {
		return current, nil
	}

	if err := r.store.Set(key, strconv.Itoa(score)); err != nil {
		return current, err
	}
	return score, nil
}
