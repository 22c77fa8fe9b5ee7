package store

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the goal collection and the profile. It is the only thing that
// mutates them, and every mutation is written through to the KV before the
// method returns.
type Store struct {
	mu    sync.Mutex
	kv    KV
	log   *slog.Logger
	now   func() time.Time
	newID func() string

	profile    *Profile
	goals      []Goal
	persistErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the identifier scheme (random UUIDs by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewID returns a random 128-bit identifier.
func NewID() string {
	return uuid.NewString()
}

// Open creates a Store over kv and loads whatever records it holds. Records
// that cannot be read or decoded are logged and treated as absent.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
		newID: NewID,
		goals: []Goal{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

// ErrUnsavedChanges is returned by Reload while the last write failed. The
// in-memory state is then the only copy of the session.
var ErrUnsavedChanges = errors.New("last write failed, keeping in-memory state")

// Reload re-reads both records, e.g. after another process changed them. It
// refuses while PersistErr is set, and a record that cannot be read or decoded
// keeps its current in-memory value.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persistErr != nil {
		s.log.Warn("reload skipped, unsaved changes in memory", "error", s.persistErr)
		return ErrUnsavedChanges
	}
	s.load()
	return nil
}

func (s *Store) load() {
	switch raw, ok, err := s.kv.Get(KeyProfile); {
	case err != nil:
		s.log.Warn("storage read failed", "key", KeyProfile, "error", err)
	case !ok:
		s.profile = nil
	default:
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.log.Warn("ignoring malformed profile record", "error", err)
		} else {
			s.profile = &p
		}
	}

	switch raw, ok, err := s.kv.Get(KeyGoals); {
	case err != nil:
		s.log.Warn("storage read failed", "key", KeyGoals, "error", err)
	case !ok:
		s.goals = []Goal{}
	default:
		var goals []Goal
		if err := json.Unmarshal([]byte(raw), &goals); err != nil {
			s.log.Warn("ignoring malformed goals record", "error", err)
		} else {
			s.goals = s.normalize(goals)
		}
	}
}

// normalize repairs loaded goals so the invariants hold no matter what was on
// disk: valid enums, unique ids, and progress derived from milestones.
func (s *Store) normalize(goals []Goal) []Goal {
	seen := make(map[string]bool, len(goals))
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if g.ID == "" || seen[g.ID] {
			g.ID = s.newID()
		}
		seen[g.ID] = true

		if t, ok := ParseGoalType(string(g.Type)); ok {
			g.Type = t
		} else {
			g.Type = TypeShortTerm
		}
		if _, err := ParseGoalStatus(string(g.Status)); err != nil {
			g.Status = StatusActive
		}
		if g.Milestones == nil {
			g.Milestones = []Milestone{}
		}
		for i := range g.Milestones {
			if g.Milestones[i].ID == "" {
				g.Milestones[i].ID = s.newID()
			}
		}
		g.ConnectedGoalIDs = []string{}
		g.Progress = ComputeProgress(g.Milestones)
		out = append(out, g)
	}
	return out
}

// Profile returns a copy of the profile and whether one exists.
func (s *Store) Profile() (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return Profile{}, false
	}
	return s.profile.clone(), true
}

// HasProfile reports whether onboarding has produced a profile.
func (s *Store) HasProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// SetProfile replaces the profile wholesale.
func (s *Store) SetProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p.clone()
	s.profile = &c
	s.persist(KeyProfile, s.profile)
}

// UpdateProfile applies fn to a copy of the profile and stores the result. It
// does nothing when there is no profile yet.
func (s *Store) UpdateProfile(fn func(*Profile)) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return Profile{}, false
	}
	c := s.profile.clone()
	fn(&c)
	s.profile = &c
	s.persist(KeyProfile, s.profile)
	return c.clone(), true
}

// Goals returns a snapshot of the collection, newest first.
func (s *Store) Goals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = g.clone()
	}
	return out
}

// Goal returns a copy of the goal with the given id.
func (s *Store) Goal(id string) (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.goals[i].clone(), true
	}
	return Goal{}, false
}

// CreateGoalFromProposal turns an oracle proposal into a goal, fills every
// missing field with its default and prepends it to the collection.
func (s *Store) CreateGoalFromProposal(p Proposal) Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := NewGoal(p, s.newID(), s.now(), s.newID)

	goals := make([]Goal, 0, len(s.goals)+1)
	goals = append(goals, g)
	goals = append(goals, s.goals...)
	s.goals = goals

	s.persist(KeyGoals, s.goals)
	return g.clone()
}

// ToggleMilestone flips a milestone and recomputes its goal's progress. An
// unknown goal or milestone id is a silent no-op; the returned bool reports
// whether anything changed.
func (s *Store) ToggleMilestone(goalID, milestoneID string) (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(goalID)
	if i < 0 {
		return Goal{}, false
	}
	g := s.goals[i]

	found := false
	milestones := make([]Milestone, len(g.Milestones))
	for j, m := range g.Milestones {
		if m.ID == milestoneID {
			m.Completed = !m.Completed
			found = true
		}
		milestones[j] = m
	}
	if !found {
		return g.clone(), false
	}

	g.Milestones = milestones
	g.Progress = ComputeProgress(milestones)
	s.replace(i, g)

	s.persist(KeyGoals, s.goals)
	return g.clone(), true
}

// SetStatus changes a goal's status. Unknown ids are a no-op.
func (s *Store) SetStatus(goalID string, status GoalStatus) (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(goalID)
	if i < 0 {
		return Goal{}, false
	}
	g := s.goals[i].clone()
	g.Status = status
	s.replace(i, g)

	s.persist(KeyGoals, s.goals)
	return g.clone(), true
}

// DeleteGoal removes a goal. It reports whether the goal existed.
func (s *Store) DeleteGoal(goalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(goalID)
	if i < 0 {
		return false
	}
	goals := make([]Goal, 0, len(s.goals)-1)
	goals = append(goals, s.goals[:i]...)
	goals = append(goals, s.goals[i+1:]...)
	s.goals = goals

	s.persist(KeyGoals, s.goals)
	return true
}

// PersistErr returns the error from the most recent write, or nil if it
// succeeded. State stays usable in memory either way.
func (s *Store) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// replace swaps in g at index i on a fresh slice.
func (s *Store) replace(i int, g Goal) {
	goals := make([]Goal, len(s.goals))
	copy(goals, s.goals)
	goals[i] = g
	s.goals = goals
}

func (s *Store) indexOf(id string) int {
	for i, g := range s.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with the lock held.
func (s *Store) persist(key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = s.kv.Set(key, string(data))
	}
	if err != nil {
		s.log.Warn("persisting failed, continuing in memory", "key", key, "error", err)
	} else {
		s.log.Debug("persisted", "key", key, "bytes", len(data))
	}
	s.persistErr = err
}
