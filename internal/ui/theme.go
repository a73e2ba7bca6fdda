package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/smartmix/internal/mix"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Unfocused panels
	FocusBg    string // Focused panel

	// List selection
	SelectionBg   string
	SelectionText string

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// palette is the handful of source colors a theme is derived from.
type palette struct {
	bg     [5]string // darkest to lightest background shades
	sel    string
	fg     string
	muted  string
	faint  string
	blue   string
	green  string
	yellow string
	red    string
	cyan   string
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:          name,
		Background:    p.bg[0],
		Surface:       p.bg[1],
		SurfaceAlt:    p.bg[2],
		FocusBg:       p.bg[3],
		SelectionBg:   p.sel,
		SelectionText: p.fg,
		Border:        p.bg[4],
		BorderFocus:   p.blue,
		Text:          p.fg,
		Muted:         p.muted,
		Faint:         p.faint,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style
	SurfaceAlt lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	// Attribute filter values
	Yes lipgloss.Style
	No  lipgloss.Style
	Any lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface:    fg(t.Text).Background(lipgloss.Color(t.Surface)),
		SurfaceAlt: fg(t.Text).Background(lipgloss.Color(t.SurfaceAlt)),

		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)),
		Logo:     fg(t.Accent).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		Yes: fg(t.Success).Bold(true),
		No:  fg(t.Danger).Bold(true),
		Any: fg(t.Faint),
	}
}

// TriStateStyle returns the style for an attribute filter value.
func (s Styles) TriStateStyle(v mix.TriState) lipgloss.Style {
	switch v {
	case mix.Present:
		return s.Yes
	case mix.Absent:
		return s.No
	default:
		return s.Any
	}
}

// WithBackground returns a copy of Styles with every style painted on bgColor,
// so text never falls through to the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Background, &s.Surface, &s.SurfaceAlt,
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo, &s.Selected,
		&s.Yes, &s.No, &s.Any,
	} {
		*st = st.Background(bg)
	}
	return s
}

var themePalettes = map[string]palette{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		bg:     [5]string{"#131a24", "#192330", "#212e3f", "#29394f", "#39506d"},
		sel:    "#2b3b51",
		fg:     "#cdcecf",
		muted:  "#738091",
		faint:  "#71839b",
		blue:   "#719cd6",
		green:  "#81b29a",
		yellow: "#dbc074",
		red:    "#c94f6d",
		cyan:   "#63cdcf",
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		bg:     [5]string{"#16161D", "#1F1F28", "#2A2A37", "#2A2A37", "#54546D"},
		sel:    "#2D4F67",
		fg:     "#DCD7BA",
		muted:  "#C8C093",
		faint:  "#727169",
		blue:   "#7E9CD8",
		green:  "#98BB6C",
		yellow: "#E6C384",
		red:    "#E46876",
		cyan:   "#7FB4CA",
	},
	// Tailwind slate and sky
	"Slate": {
		bg:     [5]string{"#020617", "#0f172a", "#1e293b", "#283548", "#334155"},
		sel:    "#0284c7",
		fg:     "#f1f5f9",
		muted:  "#94a3b8",
		faint:  "#64748b",
		blue:   "#38bdf8",
		green:  "#22c55e",
		yellow: "#f59e0b",
		red:    "#ef4444",
		cyan:   "#06b6d4",
	},
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name. Unknown names get the first theme.
func GetTheme(name string) Theme {
	if p, ok := themePalettes[name]; ok {
		return p.theme(name)
	}
	return themePalettes[themeOrder[0]].theme(themeOrder[0])
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
