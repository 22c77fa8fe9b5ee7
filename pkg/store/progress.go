package store

// ComputeProgress returns the percentage of completed milestones, rounded half
// up. A goal without milestones has no progress.
func ComputeProgress(milestones []Milestone) int {
	total := len(milestones)
	if total == 0 {
		return 0
	}
	done := 0
	for _, m := range milestones {
		if m.Completed {
			done++
		}
	}
	return roundRatio(100*done, total)
}

// roundRatio computes num/den rounded half up for non-negative inputs.
func roundRatio(num, den int) int {
	return (2*num + den) / (2 * den)
}
