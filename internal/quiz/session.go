package quiz

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultQuestionSeconds is the per-question countdown length.
	DefaultQuestionSeconds = 30

	// DefaultSkipDelay lets a caller show the skipped state briefly
	// before the session moves on.
	DefaultSkipDelay = 150 * time.Millisecond
)

type SessionOption func(*Session)

// WithQuestionSeconds overrides the countdown length.
func WithQuestionSeconds(seconds int) SessionOption {
	return func(s *Session) {
		if seconds > 0 {
			s.questionSeconds = seconds
		}
	}
}

// WithTickInterval sets the real-time countdown interval. Zero
// disables the background driver entirely; the caller then advances
// the countdown via Tick.
func WithTickInterval(interval time.Duration) SessionOption {
	return func(s *Session) {
		s.tickInterval = interval
	}
}

// WithSkipDelay sets the pause between a skip and the automatic
// advance. Zero advances synchronously.
func WithSkipDelay(delay time.Duration) SessionOption {
	return func(s *Session) {
		s.skipDelay = delay
	}
}

// Session is the state machine for one quiz attempt. Each question is
// either unanswered (input accepted) or locked (selection recorded or
// question skipped); the session terminates after the last question
// with an immutable Result.
//
// All methods are safe for concurrent use; the countdown runs on a
// background goroutine guarded by a generation counter so a tick can
// never land on a question that was already locked or left.
type Session struct {
	mu sync.Mutex

	questions []Question
	meta      Meta

	idx      int
	selected *string
	locked   bool
	score    int
	answers  []AnswerRecord
	timeLeft int
	finished bool
	result   *Result

	questionSeconds int
	tickInterval    time.Duration
	skipDelay       time.Duration

	// timerGen invalidates the running countdown and any pending
	// skip-advance whenever the question, or the session, changes.
	timerGen uint64
}

func NewSession(questions []Question, meta Meta, opts ...SessionOption) *Session {
	s := &Session{
		questions:       questions,
		meta:            meta,
		answers:         make([]AnswerRecord, 0, len(questions)),
		questionSeconds: DefaultQuestionSeconds,
		tickInterval:    time.Second,
		skipDelay:       DefaultSkipDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		s.finishLocked()
		return s
	}
	s.startQuestionLocked()
	return s
}

// Select records an answer for the current question and locks it.
// Returns false (and does nothing) when the question is already
// locked or the session is finished.
func (s *Session) Select(option string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.locked {
		return false
	}

	current := s.questions[s.idx]
	selected := option
	s.selected = &selected
	s.locked = true
	s.timerGen++ // the countdown must never fire after a manual lock

	s.answers = append(s.answers, AnswerRecord{
		QID:         current.ID,
		Question:    current.Question,
		Selected:    &selected,
		Correct:     current.Correct,
		Category:    current.Category,
		AutoSkipped: false,
	})

	if strings.TrimSpace(option) == strings.TrimSpace(current.Correct) {
		s.score++
	}
	return true
}

// Next advances past an answered question. It requires a recorded
// selection; skipped questions advance on their own.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.selected == nil {
		return false
	}
	s.advanceLocked()
	return true
}

// Skip records the current question as skipped (Selected=nil) and,
// after the configured delay, advances. A locked question cannot be
// skipped again, which also makes the timeout path idempotent against
// a simultaneous click.
func (s *Session) Skip(auto bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.locked {
		return false
	}
	s.skipLocked(auto)
	return true
}

// Prev moves back one question and resets its interactive state. The
// answer log is append-only: records for the revisited question stay
// in place.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || s.idx == 0 {
		return false
	}
	s.idx--
	s.startQuestionLocked()
	return true
}

// Tick advances the countdown by one unit. Callers running without
// the real-time driver (CLI, tests) drive the timeout behavior with
// it; a tick on a locked or finished question is ignored.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// Close stops the countdown and any pending skip-advance. The session
// state stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerGen++
}

// Snapshot is a point-in-time view of the session for rendering.
type Snapshot struct {
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Question *Question `json:"question,omitempty"`
	Selected *string   `json:"selected,omitempty"`
	Locked   bool      `json:"locked"`
	Score    int       `json:"score"`
	TimeLeft int       `json:"time_left"`
	Finished bool      `json:"finished"`
	Meta     Meta      `json:"meta"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		Index:    s.idx,
		Total:    len(s.questions),
		Selected: s.selected,
		Locked:   s.locked,
		Score:    s.score,
		TimeLeft: s.timeLeft,
		Finished: s.finished,
		Meta:     s.meta,
	}
	if !s.finished && s.idx < len(s.questions) {
		question := s.questions[s.idx]
		snapshot.Question = &question
	}
	return snapshot
}

// Result returns the final score record; ErrNotFinished before the
// terminal state.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return Result{}, ErrNotFinished
	}
	return *s.result, nil
}

// Answers returns a copy of the answer log recorded so far.
func (s *Session) Answers() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

func (s *Session) startQuestionLocked() {
	s.timerGen++
	s.selected = nil
	s.locked = false
	s.timeLeft = s.questionSeconds
	if s.tickInterval > 0 {
		go s.runCountdown(s.timerGen)
	}
}

func (s *Session) runCountdown(gen uint64) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		if gen != s.timerGen {
			s.mu.Unlock()
			return
		}
		live := s.tickLocked()
		s.mu.Unlock()
		if !live {
			return
		}
	}
}

// tickLocked decrements the countdown and auto-skips at zero. Returns
// whether the countdown for the current question is still live.
func (s *Session) tickLocked() bool {
	if s.finished || s.locked {
		return false
	}
	s.timeLeft--
	if s.timeLeft > 0 {
		return true
	}
	s.skipLocked(true)
	return false
}

func (s *Session) skipLocked(auto bool) {
	current := s.questions[s.idx]
	s.answers = append(s.answers, AnswerRecord{
		QID:         current.ID,
		Question:    current.Question,
		Selected:    nil,
		Correct:     current.Correct,
		Category:    current.Category,
		AutoSkipped: auto,
	})
	s.selected = nil
	s.locked = true
	s.timerGen++
	gen := s.timerGen

	if s.skipDelay <= 0 {
		s.advanceLocked()
		return
	}

	time.AfterFunc(s.skipDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Prev or Close in the meantime invalidates the advance.
		if gen != s.timerGen || s.finished {
			return
		}
		s.advanceLocked()
	})
}

func (s *Session) advanceLocked() {
	if s.idx < len(s.questions)-1 {
		s.idx++
		s.startQuestionLocked()
		return
	}
	s.finishLocked()
}

func (s *Session) finishLocked() {
	s.finished = true
	s.locked = false
	s.selected = nil
	s.timerGen++

	answers := make([]AnswerRecord, len(s.answers))
	copy(answers, s.answers)
	s.result = &Result{
		Score:   s.score,
		Total:   len(s.questions),
		Answers: answers,
		Meta: ResultMeta{
			Meta:       s.meta,
			FinishedAt: time.Now().UTC(),
		},
	}
}
