package store

// Link connects a short-term goal to its long-term anchor.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeriveLinks connects every short-term goal to the first long-term goal in
// collection order. Without a long-term goal there are no links, and long-term
// goals are never linked to each other.
func DeriveLinks(goals []Goal) []Link {
	anchor, ok := firstLongTerm(goals)
	if !ok {
		return nil
	}
	var links []Link
	for _, g := range goals {
		if g.Type == TypeShortTerm {
			links = append(links, Link{From: g.ID, To: anchor.ID})
		}
	}
	return links
}

// Network groups the derived links for rendering.
type Network struct {
	Anchor    *Goal  // first long-term goal, nil if none
	Attached  []Goal // short-term goals linked to Anchor
	Others    []Goal // remaining long-term goals, unlinked
	Unlinked  []Goal // short-term goals when there is no anchor
	LinkCount int
}

// BuildNetwork derives the same relationships as DeriveLinks, grouped by node.
func BuildNetwork(goals []Goal) Network {
	var n Network
	anchor, ok := firstLongTerm(goals)
	if ok {
		a := anchor.clone()
		n.Anchor = &a
	}
	for _, g := range goals {
		switch {
		case g.Type == TypeLongTerm:
			if n.Anchor == nil || g.ID != n.Anchor.ID {
				n.Others = append(n.Others, g.clone())
			}
		case n.Anchor != nil:
			n.Attached = append(n.Attached, g.clone())
		default:
			n.Unlinked = append(n.Unlinked, g.clone())
		}
	}
	n.LinkCount = len(n.Attached)
	return n
}

func firstLongTerm(goals []Goal) (Goal, bool) {
	for _, g := range goals {
		if g.Type == TypeLongTerm {
			return g, true
		}
	}
	return Goal{}, false
}
