package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/unfold/pkg/store"
)

// renderNetwork draws "The Unfolding Path": the anchor direction with its
// focus points hanging off it, then any directions and focus points without a
// link.
func renderNetwork(n store.Network, width int) string {
	var lines []string
	lines = append(lines, HeaderStyle.Render("The Unfolding Path"))
	lines = append(lines, "")

	if n.Anchor == nil && len(n.Unlinked) == 0 {
		lines = append(lines, FooterStyle.Render("Nothing has been planted yet."))
		return strings.Join(lines, "\n")
	}

	if n.Anchor != nil {
		lines = append(lines, DirectionStyle.Render(IconAnchor+" "+truncate(n.Anchor.Title, width-2))+
			HeaderCountStyle.Render(fmt.Sprintf("  %d%%", n.Anchor.Progress)))
		for i, g := range n.Attached {
			branch := "├─ "
			if i == len(n.Attached)-1 {
				branch = "└─ "
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(branch)+
				FocusPointStyle.UnsetBold().Render(IconLeaf+" "+truncate(g.Title, width-6))+
				HeaderCountStyle.Render(fmt.Sprintf("  %d%%", g.Progress)))
		}
		if len(n.Attached) == 0 {
			lines = append(lines, FooterStyle.Render("   no focus points yet"))
		}
	}

	if len(n.Others) > 0 {
		lines = append(lines, "")
		lines = append(lines, FooterStyle.Render("Other directions"))
		for _, g := range n.Others {
			lines = append(lines, DirectionStyle.UnsetBold().Render(IconAnchor+" "+truncate(g.Title, width-2)))
		}
	}

	if len(n.Unlinked) > 0 {
		lines = append(lines, FooterStyle.Render("No direction set yet. Focus points float freely:"))
		for _, g := range n.Unlinked {
			lines = append(lines, FocusPointStyle.UnsetBold().Render(IconLeaf+" "+truncate(g.Title, width-2)))
		}
	}

	lines = append(lines, "")
	lines = append(lines, HeaderCountStyle.Render(fmt.Sprintf("%d links", n.LinkCount)))
	return strings.Join(lines, "\n")
}

// truncate shortens s to at most width cells.
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
