// Package companion ties the store, the oracle and the journal together. It
// is the only place that applies oracle results to the store.
package companion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stefanpenner/unfold/pkg/oracle"
	"github.com/stefanpenner/unfold/pkg/store"
)

// DefaultTimeout bounds each oracle call.
const DefaultTimeout = 45 * time.Second

var (
	ErrEmptyIntention   = errors.New("intention is empty")
	ErrNotOnboarded     = errors.New("no profile yet, run onboarding first")
	ErrNothingToReflect = errors.New("no goals to reflect on")
	ErrNoReflection     = errors.New("no reflection to save")
)

// Companion runs oracle requests and applies their results.
type Companion struct {
	store   *store.Store
	oracle  oracle.Oracle
	journal *store.Journal
	tracker *Tracker
	log     *slog.Logger
	now     func() time.Time

	mu         sync.Mutex
	reflection *store.Reflection
}

// Option configures a Companion.
type Option func(*Companion)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Companion) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Companion) { c.tracker = NewTracker(d) }
}

// WithClock overrides time.Now for reflection dates.
func WithClock(now func() time.Time) Option {
	return func(c *Companion) { c.now = now }
}

// New creates a Companion. journal may be nil, in which case reflections
// cannot be saved.
func New(s *store.Store, o oracle.Oracle, journal *store.Journal, opts ...Option) *Companion {
	c := &Companion{
		store:   s,
		oracle:  o,
		journal: journal,
		tracker: NewTracker(DefaultTimeout),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *Companion) Store() *store.Store { return c.store }

// PlantGoal asks the oracle to shape text into a goal and stores the result.
// Nothing is stored when the call fails, times out or is superseded.
func (c *Companion) PlantGoal(ctx context.Context, text string) (store.Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.Goal{}, ErrEmptyIntention
	}
	profile, ok := c.store.Profile()
	if !ok {
		return store.Goal{}, ErrNotOnboarded
	}

	req := c.tracker.Begin(ctx, KindGoal)
	c.log.Info("planting goal", "request", req.ID, "intention", text)

	proposal, err := c.oracle.ProposeGoal(req.Ctx, text, profile)
	if err := c.tracker.Finish(req, err); err != nil {
		c.log.Warn("goal request did not complete", "request", req.ID, "error", err)
		return store.Goal{}, err
	}

	g := c.store.CreateGoalFromProposal(proposal)
	c.log.Info("goal planted", "request", req.ID, "goal", g.ID, "type", g.Type, "milestones", len(g.Milestones))
	return g, nil
}

// Reflect asks the oracle for a reflection on every goal and keeps it as the
// current reflection.
func (c *Companion) Reflect(ctx context.Context) (store.Reflection, error) {
	profile, ok := c.store.Profile()
	if !ok {
		return store.Reflection{}, ErrNotOnboarded
	}
	goals := c.store.Goals()
	if len(goals) == 0 {
		return store.Reflection{}, ErrNothingToReflect
	}

	req := c.tracker.Begin(ctx, KindReflection)
	c.log.Info("requesting reflection", "request", req.ID, "goals", len(goals))

	text, err := c.oracle.ProposeReflection(req.Ctx, goals, profile)
	if err := c.tracker.Finish(req, err); err != nil {
		c.log.Warn("reflection request did not complete", "request", req.ID, "error", err)
		return store.Reflection{}, err
	}

	r := store.Reflection{
		ID:        store.NewID(),
		Date:      c.now(),
		Harmony:   store.Harmony(goals),
		GoalCount: len(goals),
		Content:   oracle.ReflectionText(text),
	}

	c.mu.Lock()
	c.reflection = &r
	c.mu.Unlock()
	return r, nil
}

// Reflection returns the current reflection, if any.
func (c *Companion) Reflection() (store.Reflection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reflection == nil {
		return store.Reflection{}, false
	}
	return *c.reflection, true
}

// DismissReflection clears the current reflection.
func (c *Companion) DismissReflection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reflection = nil
}

// SaveReflection writes the current reflection to the journal.
func (c *Companion) SaveReflection() (store.Reflection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reflection == nil {
		return store.Reflection{}, ErrNoReflection
	}
	if c.journal == nil {
		return store.Reflection{}, fmt.Errorf("no journal configured")
	}
	if c.reflection.FilePath != "" {
		return *c.reflection, nil
	}

	saved, err := c.journal.Save(*c.reflection)
	if err != nil {
		return store.Reflection{}, fmt.Errorf("saving reflection: %w", err)
	}
	c.reflection = &saved
	c.log.Info("reflection saved", "path", saved.FilePath)
	return saved, nil
}

// Busy reports whether an oracle request is pending.
func (c *Companion) Busy() bool { return c.tracker.Busy() }

// Phase returns the lifecycle phase of the latest request.
func (c *Companion) Phase() Phase { return c.tracker.Phase() }

// Pending returns the kind of the pending request.
func (c *Companion) Pending() (Kind, bool) { return c.tracker.Pending() }

// Cancel aborts the pending request. Its result, if it still arrives, is
// discarded.
func (c *Companion) Cancel() bool {
	if c.tracker.Cancel() {
		c.log.Info("request cancelled")
		return true
	}
	return false
}
