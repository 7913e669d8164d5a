package bestscore

import (
	"errors"
	"testing"

	"trivia-quiz/internal/quiz"
)

func TestKeyDerivation(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		difficulty string
		amount     int
		category   string
		want       string
	}{
		{
			name:   "full config",
			source: "remote", difficulty: "hard", amount: 10, category: "gk",
			want: "best:remote:hard:10:gk",
		},
		{
			name:   "defaults substituted",
			source: "", difficulty: "", amount: 5, category: "",
			want: "best:remote:mixed:5:any",
		},
		{
			name:   "normalized casing",
			source: "Local", difficulty: "EASY", amount: 7, category: " Science ",
			want: "best:local:easy:7:science",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.source, tc.difficulty, tc.amount, tc.category); got != tc.want {
				t.Fatalf("Key = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRecorderMonotonicWrites(t *testing.T) {
	recorder := NewRecorder(NewMemStore(), nil)
	key := Key("local", "mixed", 10, "gk")

	best, err := recorder.RecordIfHigher(key, 6)
	if err != nil || best != 6 {
		t.Fatalf("RecordIfHigher(6) = (%d, %v), want (6, nil)", best, err)
	}

	best, err = recorder.RecordIfHigher(key, 4)
	if err != nil || best != 6 {
		t.Fatalf("RecordIfHigher(4) = (%d, %v), want stored best 6", best, err)
	}

	best, err = recorder.Best(key)
	if err != nil || best != 6 {
		t.Fatalf("Best = (%d, %v), want (6, nil)", best, err)
	}

	best, err = recorder.RecordIfHigher(key, 9)
	if err != nil || best != 9 {
		t.Fatalf("RecordIfHigher(9) = (%d, %v), want (9, nil)", best, err)
	}
}

func TestRecorderAbsentValueReadsAsZero(t *testing.T) {
	recorder := NewRecorder(NewMemStore(), nil)

	best, err := recorder.Best("best:remote:mixed:10:any")
	if err != nil || best != 0 {
		t.Fatalf("Best on absent key = (%d, %v), want (0, nil)", best, err)
	}
}

func TestRecorderToleratesGarbageValue(t *testing.T) {
	store := NewMemStore()
	key := Key("remote", "mixed", 10, "any")
	if err := store.Set(key, "not-a-number"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	recorder := NewRecorder(store, nil)
	best, err := recorder.Best(key)
	if err != nil || best != 0 {
		t.Fatalf("Best on garbage = (%d, %v), want (0, nil)", best, err)
	}

	best, err = recorder.RecordIfHigher(key, 3)
	if err != nil || best != 3 {
		t.Fatalf("RecordIfHigher over garbage = (%d, %v), want (3, nil)", best, err)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(string, string) error         { return f.err }
func (f failingStore) Delete(string) error              { return f.err }

func TestRecorderPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk gone")
	recorder := NewRecorder(failingStore{err: boom}, nil)

	if _, err := recorder.Best("k"); !errors.Is(err, boom) {
		t.Fatalf("Best error = %v, want boom", err)
	}
	if _, err := recorder.RecordIfHigher("k", 1); !errors.Is(err, boom) {
		t.Fatalf("RecordIfHigher error = %v, want boom", err)
	}
}

func TestPrefsLastConfigRoundTrip(t *testing.T) {
	prefs := NewPrefs(NewMemStore())

	if _, ok, err := prefs.LastConfig(); ok || err != nil {
		t.Fatalf("LastConfig on empty store = (ok=%v, err=%v)", ok, err)
	}

	want := quiz.Config{Source: quiz.SourceLocal, Amount: 7, Difficulty: "hard", Category: "js"}
	if err := prefs.SaveLastConfig(want); err != nil {
		t.Fatalf("SaveLastConfig failed: %v", err)
	}

	got, ok, err := prefs.LastConfig()
	if err != nil || !ok {
		t.Fatalf("LastConfig = (ok=%v, err=%v)", ok, err)
	}
	if got != want {
		t.Fatalf("LastConfig = %+v, want %+v", got, want)
	}
}

func TestPrefsCurrentUserLifecycle(t *testing.T) {
	prefs := NewPrefs(NewMemStore())

	if err := prefs.SetCurrentUser(User{Name: "sam", Email: "sam@example.com"}); err != nil {
		t.Fatalf("SetCurrentUser failed: %v", err)
	}

	user, ok, err := prefs.CurrentUser()
	if err != nil || !ok || user.Name != "sam" {
		t.Fatalf("CurrentUser = (%+v, ok=%v, err=%v)", user, ok, err)
	}

	if err := prefs.ClearCurrentUser(); err != nil {
		t.Fatalf("ClearCurrentUser failed: %v", err)
	}
	if _, ok, _ := prefs.CurrentUser(); ok {
		t.Fatalf("user still present after clear")
	}
}

func TestPrefsCorruptRecordBehavesAsAbsent(t *testing.T) {
	store := NewMemStore()
	_ = store.Set("last_config", "{broken")
	_ = store.Set("quiz_user", "{broken")
	prefs := NewPrefs(store)

	if _, ok, err := prefs.LastConfig(); ok || err != nil {
		t.Fatalf("corrupt LastConfig = (ok=%v, err=%v), want absent", ok, err)
	}
	if _, ok, err := prefs.CurrentUser(); ok || err != nil {
		t.Fatalf("corrupt CurrentUser = (ok=%v, err=%v), want absent", ok, err)
	}
}
