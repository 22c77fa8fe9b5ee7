package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#A78BFA")
	ColorPurpleDeep  = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#6EE7B7")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#71717A")
	ColorGrayDim     = lipgloss.Color("#3F3F46")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D4D4D8")
	ColorSelectionBg = lipgloss.Color("#27233A")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Italic(true).
			Foreground(ColorWhite)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOffWhite)
)

// List item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	BloomedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	GrowingStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SeedStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	RestingStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DepthIndent = "  "
)

// Section styles
var (
	DirectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	FocusPointStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(ColorPurple)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(ColorGrayDim)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurpleDeep).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(14)

	ModalValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	ChoiceStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite).
			Padding(0, 1)

	ChoiceSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite).
				Background(ColorSelectionBg).
				Padding(0, 1)
)

// Status icons
const (
	IconBloomed   = "✿"
	IconGrowing   = "◐"
	IconSeed      = "○"
	IconDone      = "✓"
	IconOpen      = "·"
	IconExpanded  = "▼"
	IconCollapsed = "▶"
	IconAnchor    = "◆"
	IconLeaf      = "●"
)
