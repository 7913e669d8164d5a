package quiz

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ControllerState describes where a quiz attempt is in its lifecycle.
// Empty is deliberately distinct from Failed: zero questions is a
// valid, displayable outcome, not an error.
type ControllerState string

const (
	StateIdle    ControllerState = "idle"
	StateLoading ControllerState = "loading"
	StateReady   ControllerState = "ready"
	StateEmpty   ControllerState = "empty"
	StateFailed  ControllerState = "failed"
)

// LoadFunc is the loader dependency of a Controller, injectable for
// tests.
type LoadFunc func(ctx context.Context, cfg Config) (LoadResult, error)

// Controller owns one quiz attempt: it runs the question load in the
// background and creates the Session once questions arrive. Restarting
// with a new Config supersedes any in-flight load; results carrying a
// stale generation are discarded, so a slow response can never clobber
// a newer request.
type Controller struct {
	mu sync.Mutex

	load        LoadFunc
	sessionOpts []SessionOption
	log         *zap.Logger

	gen    uint64
	state  ControllerState
	cfg    Config
	sess   *Session
	err    error
	cancel context.CancelFunc
}

func NewController(load LoadFunc, log *zap.Logger, sessionOpts ...SessionOption) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		load:        load,
		sessionOpts: sessionOpts,
		log:         log,
		state:       StateIdle,
	}
}

// Start begins loading questions for cfg, cancelling and superseding
// any attempt already in flight.
func (c *Controller) Start(ctx context.Context, cfg Config) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	if c.sess != nil {
		c.sess.Close()
		c.sess = nil
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = StateLoading
	c.cfg = cfg
	c.err = nil
	c.mu.Unlock()

	go c.runLoad(loadCtx, gen, cfg)
}

func (c *Controller) runLoad(ctx context.Context, gen uint64, cfg Config) {
	result, err := c.load(ctx, cfg)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.log.Debug("discarding stale load result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", c.gen),
		)
		return
	}

	if err != nil {
		c.state = StateFailed
		c.err = err
		return
	}
	if len(result.Questions) == 0 {
		c.state = StateEmpty
		return
	}

	c.sess = NewSession(result.Questions, result.Meta, c.sessionOpts...)
	c.state = StateReady
}

// State reports the lifecycle state; err is non-nil only for
// StateFailed and carries the raw load failure for display.
func (c *Controller) State() (ControllerState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.err
}

// Session returns the active session once the controller is ready.
func (c *Controller) Session() (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess, c.sess != nil
}

// Config returns the configuration of the current attempt.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Close cancels any in-flight load and stops the session timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.sess != nil {
		c.sess.Close()
	}
	c.state = StateIdle
}
