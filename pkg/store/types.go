package store

import (
	"fmt"
	"strings"
	"time"
)

// GoalType classifies the planning horizon of a goal.
type GoalType string

const (
	TypeShortTerm GoalType = "short-term"
	TypeLongTerm  GoalType = "long-term"
)

// ParseGoalType accepts the canonical spelling as well as the upper-snake form
// the oracle tends to answer with. Unknown values return false.
func ParseGoalType(s string) (GoalType, bool) {
	switch normalizeEnum(s) {
	case "short-term", "short", "shortterm":
		return TypeShortTerm, true
	case "long-term", "long", "longterm":
		return TypeLongTerm, true
	}
	return "", false
}

// Label is the display name used when grouping goals.
func (t GoalType) Label() string {
	if t == TypeLongTerm {
		return "Direction"
	}
	return "Focus Point"
}

// GoalStatus is the lifecycle state of a goal. Goals start active; the other
// states exist for SetStatus.
type GoalStatus string

const (
	StatusActive  GoalStatus = "active"
	StatusResting GoalStatus = "resting"
	StatusFlowing GoalStatus = "flowing"
	StatusPaused  GoalStatus = "paused"
)

// Statuses lists every status in cycling order.
var Statuses = []GoalStatus{StatusActive, StatusResting, StatusFlowing, StatusPaused}

// ParseGoalStatus parses a status name.
func ParseGoalStatus(s string) (GoalStatus, error) {
	n := GoalStatus(normalizeEnum(s))
	for _, st := range Statuses {
		if n == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s (use active, resting, flowing or paused)", s)
}

// Next returns the status after s in cycling order.
func (s GoalStatus) Next() GoalStatus {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusActive
}

// Pace is how the user prefers to move. It only shapes the oracle prompts.
type Pace string

const (
	PaceSlow     Pace = "slow"
	PaceBalanced Pace = "balanced"
	PaceIntense  Pace = "intense"
)

// Paces lists the paces in the order onboarding offers them.
var Paces = []Pace{PaceSlow, PaceBalanced, PaceIntense}

// ParsePace parses a pace name.
func ParsePace(s string) (Pace, error) {
	p := Pace(normalizeEnum(s))
	for _, known := range Paces {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid pace: %s (use slow, balanced or intense)", s)
}

// Label returns the onboarding title for the pace.
func (p Pace) Label() string {
	switch p {
	case PaceSlow:
		return "Slow & Intentional"
	case PaceIntense:
		return "Focused Bursts"
	default:
		return "Balanced Rhythm"
	}
}

// Description returns the one-line explanation shown under the label.
func (p Pace) Description() string {
	switch p {
	case PaceSlow:
		return "I value depth over speed."
	case PaceIntense:
		return "I work best in energetic cycles."
	default:
		return "Steady movement with rest."
	}
}

// Profile is the single per-user record collected during onboarding.
type Profile struct {
	Name      string   `json:"name"`
	Pace      Pace     `json:"pace"`
	Priority  string   `json:"priority,omitempty"`
	Blockers  []string `json:"blockers,omitempty"`
	Onboarded bool     `json:"onboarded"`
}

func (p Profile) clone() Profile {
	p.Blockers = append([]string(nil), p.Blockers...)
	return p
}

// Milestone is an atomic, user-toggleable step of a goal.
type Milestone struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Goal is a user-declared intention. Progress is derived from Milestones and is
// never set directly.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        GoalType    `json:"type"`
	Status      GoalStatus  `json:"status"`
	Progress    int         `json:"progress"`
	CreatedAt   time.Time   `json:"createdAt"`
	Milestones  []Milestone `json:"milestones"`

	// ConnectedGoalIDs is kept so stored records keep their shape. It is always
	// empty; DeriveLinks is the only source of relationships.
	ConnectedGoalIDs []string `json:"connectedGoalIds"`
}

// IsLongTerm reports whether the goal is a long-term direction.
func (g Goal) IsLongTerm() bool {
	return g.Type == TypeLongTerm
}

// IsBloomed reports whether every milestone is complete.
func (g Goal) IsBloomed() bool {
	return g.Progress == 100
}

// CompletedCount returns how many milestones are complete.
func (g Goal) CompletedCount() int {
	n := 0
	for _, m := range g.Milestones {
		if m.Completed {
			n++
		}
	}
	return n
}

func (g Goal) clone() Goal {
	g.Milestones = append([]Milestone{}, g.Milestones...)
	g.ConnectedGoalIDs = append([]string{}, g.ConnectedGoalIDs...)
	return g
}

// Proposal is the oracle's untrusted suggestion for a new goal. Any field may
// be empty; NewGoal fills the gaps.
type Proposal struct {
	Title       string
	Description string
	Type        GoalType
	Milestones  []string
}

// DefaultGoalTitle is used when a proposal carries no title.
const DefaultGoalTitle = "New Exploration"

// NewGoal builds a complete, valid goal from a possibly partial proposal.
func NewGoal(p Proposal, id string, now time.Time, newID func() string) Goal {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = DefaultGoalTitle
	}

	typ, ok := ParseGoalType(string(p.Type))
	if !ok {
		typ = TypeShortTerm
	}

	milestones := []Milestone{}
	for _, text := range p.Milestones {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		milestones = append(milestones, Milestone{ID: newID(), Text: text})
	}

	return Goal{
		ID:               id,
		Title:            title,
		Description:      strings.TrimSpace(p.Description),
		Type:             typ,
		Status:           StatusActive,
		Progress:         ComputeProgress(milestones),
		CreatedAt:        now,
		Milestones:       milestones,
		ConnectedGoalIDs: []string{},
	}
}

// Reflection is an oracle-authored summary of the goal collection.
type Reflection struct {
	ID        string    `yaml:"id" json:"id"`
	Date      time.Time `yaml:"date" json:"date"`
	Harmony   int       `yaml:"harmony" json:"harmony"`
	GoalCount int       `yaml:"goal_count" json:"goalCount"`

	// Body of the journal file.
	Content string `yaml:"-" json:"content"`

	// Set when loaded from or saved to the journal.
	FilePath string `yaml:"-" json:"-"`
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}
