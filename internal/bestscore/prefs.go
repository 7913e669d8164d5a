package bestscore

import (
	"encoding/json"
	"fmt"

	"trivia-quiz/internal/quiz"
)

// Storage keys shared with the browser build; kept stable so an
// export/import of the KV data stays meaningful.
const (
	lastConfigKey  = "last_config"
	currentUserKey = "quiz_user"
)

// User is the lightweight signed-in marker the navigation layer
// stores. The quiz core itself never reads it.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Prefs wraps the non-score records living in the same KV store.
type Prefs struct {
	store Store
}

func NewPrefs(store Store) *Prefs {
	return &Prefs{store: store}
}

// SaveLastConfig remembers the most recently started quiz settings.
func (p *Prefs) SaveLastConfig(cfg quiz.Config) error {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("bestscore: encode last config: %w", err)
	}
	return p.store.Set(lastConfigKey, string(encoded))
}

func (p *Prefs) LastConfig() (quiz.Config, bool, error) {
	raw, ok, err := p.store.Get(lastConfigKey)
	if err != nil || !ok {
		return quiz.Config{}, false, err
	}

	var cfg quiz.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		// A corrupt record behaves like an absent one.
		return quiz.Config{}, false, nil
	}
	return cfg, true, nil
}

func (p *Prefs) SetCurrentUser(user User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("bestscore: encode user: %w", err)
	}
	return p.store.Set(currentUserKey, string(encoded))
}

func (p *Prefs) CurrentUser() (User, bool, error) {
	raw, ok, err := p.store.Get(currentUserKey)
	if err != nil || !ok {
		return User{}, false, err
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, false, nil
	}
	return user, true, nil
}

func (p *Prefs) ClearCurrentUser() error {
	return p.store.Delete(currentUserKey)
}
