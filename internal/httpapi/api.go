package httpapi

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trivia-quiz/internal/bestscore"
	"trivia-quiz/internal/quiz"
)

// API exposes quiz attempts over HTTP. Each attempt is a Controller
// registered under a UUID; handlers translate requests into session
// transitions.
type API struct {
	load        quiz.LoadFunc
	recorder    *bestscore.Recorder
	prefs       *bestscore.Prefs
	log         *zap.Logger
	sessionOpts []quiz.SessionOption

	mu       sync.Mutex
	sessions map[string]*quiz.Controller
}

func NewAPI(load quiz.LoadFunc, recorder *bestscore.Recorder, prefs *bestscore.Prefs, log *zap.Logger, sessionOpts ...quiz.SessionOption) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		load:        load,
		recorder:    recorder,
		prefs:       prefs,
		log:         log,
		sessionOpts: sessionOpts,
		sessions:    make(map[string]*quiz.Controller),
	}
}

func (a *API) register() (string, *quiz.Controller) {
	id := uuid.NewString()
	controller := quiz.NewController(a.load, a.log, a.sessionOpts...)

	a.mu.Lock()
	a.sessions[id] = controller
	a.mu.Unlock()
	return id, controller
}

func (a *API) lookup(id string) (*quiz.Controller, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	controller, ok := a.sessions[id]
	return controller, ok
}

func (a *API) remove(id string) (*quiz.Controller, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	controller, ok := a.sessions[id]
	if ok {
		delete(a.sessions, id)
	}
	return controller, ok
}
