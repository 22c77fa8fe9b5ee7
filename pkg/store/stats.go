package store

// Stats are the aggregate counters shown in the footer.
type Stats struct {
	Bloomed int `json:"bloomed"`
	Flowing int `json:"flowing"`
	Harmony int `json:"harmony"`
	Total   int `json:"total"`
}

// ComputeStats derives all counters from the goal collection.
func ComputeStats(goals []Goal) Stats {
	return Stats{
		Bloomed: BloomedCount(goals),
		Flowing: FlowingCount(goals),
		Harmony: Harmony(goals),
		Total:   len(goals),
	}
}

// BloomedCount counts goals whose milestones are all complete.
func BloomedCount(goals []Goal) int {
	n := 0
	for _, g := range goals {
		if g.Progress == 100 {
			n++
		}
	}
	return n
}

// FlowingCount counts active goals.
func FlowingCount(goals []Goal) int {
	n := 0
	for _, g := range goals {
		if g.Status == StatusActive {
			n++
		}
	}
	return n
}

// Harmony is the mean progress across all goals, rounded half up. It is 0 for
// an empty collection.
func Harmony(goals []Goal) int {
	if len(goals) == 0 {
		return 0
	}
	sum := 0
	for _, g := range goals {
		sum += g.Progress
	}
	return roundRatio(sum, len(goals))
}
