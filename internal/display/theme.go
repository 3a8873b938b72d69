package display

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the title and info labels. Values stay uncolored.
type Theme struct {
	Title lipgloss.Style
	Label lipgloss.Style
}

func themeOf(title, label string) Theme {
	return Theme{
		Title: lipgloss.NewStyle().Foreground(lipgloss.Color(title)).Bold(true),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color(label)),
	}
}

var themes = map[string]Theme{
	"default": themeOf("4", "6"),
	"windows": themeOf("6", "14"),
	"red":     themeOf("1", "9"),
	"green":   themeOf("2", "10"),
	"yellow":  themeOf("3", "11"),
	"magenta": themeOf("5", "13"),
	"cyan":    themeOf("6", "14"),
}

// ThemeByName returns the named theme, falling back to default for
// unknown names.
func ThemeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// ThemeNames lists available themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
