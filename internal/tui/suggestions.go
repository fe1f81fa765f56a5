package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/toyrobot/internal/codec"
	"github.com/fentz26/toyrobot/internal/models"
)

// Suggestions provides autocomplete for the command bar.
type Suggestions struct {
	items       []SuggestionItem
	filtered    []SuggestionItem
	selectedIdx int
	visible     bool
}

// SuggestionItem represents a single autocomplete suggestion
type SuggestionItem struct {
	Text        string
	Description string
	// Params is true when the command takes parameters.
	Params bool
}

var commandDescriptions = map[models.CommandName]string{
	models.CmdPlaceRobot: "X,Y,DIRECTION  place the robot",
	models.CmdPlaceWall:  "X,Y  place a wall",
	models.CmdMove:       "step forward, wrapping at the edges",
	models.CmdLeft:       "turn 90° anticlockwise",
	models.CmdRight:      "turn 90° clockwise",
	models.CmdReport:     "print X,Y,DIRECTION",
}

// commandSuggestions lists every command the codec recognizes.
func commandSuggestions() []SuggestionItem {
	var items []SuggestionItem
	for _, name := range codec.Names() {
		items = append(items, SuggestionItem{
			Text:        string(name),
			Description: commandDescriptions[name],
			Params:      name == models.CmdPlaceRobot || name == models.CmdPlaceWall,
		})
	}
	return items
}

// NewSuggestions creates a new suggestions handler
func NewSuggestions() *Suggestions {
	return &Suggestions{items: commandSuggestions()}
}

// Update refilters against input. Suggestions show only while the command
// name is still being typed.
func (s *Suggestions) Update(input string) {
	trimmed := strings.TrimLeft(input, " ")
	if trimmed == "" || strings.ContainsAny(trimmed, " ,") {
		s.visible = false
		s.filtered = nil
		return
	}
	s.visible = true
	s.filter(strings.ToUpper(trimmed))
}

func (s *Suggestions) filter(query string) {
	s.filtered = s.filtered[:0]
	for _, item := range s.items {
		if strings.HasPrefix(item.Text, query) {
			s.filtered = append(s.filtered, item)
		}
	}
	s.selectedIdx = 0
	if len(s.filtered) == 1 && codec.Known(query) {
		// Fully typed.
		s.visible = false
	}
}

// Next moves to the next suggestion
func (s *Suggestions) Next() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx = (s.selectedIdx + 1) % len(s.filtered)
}

// Prev moves to the previous suggestion
func (s *Suggestions) Prev() {
	if len(s.filtered) == 0 {
		return
	}
	s.selectedIdx--
	if s.selectedIdx < 0 {
		s.selectedIdx = len(s.filtered) - 1
	}
}

// Selected returns the currently selected suggestion
func (s *Suggestions) Selected() *SuggestionItem {
	if !s.visible || len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}
	return &s.filtered[s.selectedIdx]
}

// Completion is the input text that accepting the selection produces.
func (s *Suggestions) Completion() (string, bool) {
	sel := s.Selected()
	if sel == nil {
		return "", false
	}
	if sel.Params {
		return sel.Text + " ", true
	}
	return sel.Text, true
}

// IsVisible returns whether suggestions are currently visible
func (s *Suggestions) IsVisible() bool {
	return s.visible && len(s.filtered) > 0
}

// Render renders the suggestions dropdown
func (s *Suggestions) Render(width int) string {
	if !s.IsVisible() {
		return ""
	}

	var b strings.Builder

	suggestionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondaryColor).
		Padding(0, 1).
		Width(max(width-4, 20))

	selStyle := lipgloss.NewStyle().
		Background(primaryColor).
		Foreground(fgColor).
		Bold(true)

	itemStyle := lipgloss.NewStyle().
		Foreground(fgColor)

	descStyle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true)

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Render("Commands"))
	b.WriteString("\n")

	maxVisible := 5
	for i, item := range s.filtered {
		if i >= maxVisible {
			b.WriteString(descStyle.Render(fmt.Sprintf("  ... and %d more", len(s.filtered)-maxVisible)))
			break
		}

		var line string
		if i == s.selectedIdx {
			line = selStyle.Render("▶ "+item.Text) + " " + selStyle.Render(item.Description)
		} else {
			line = itemStyle.Render("  "+item.Text) + " " + descStyle.Render(item.Description)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return suggestionStyle.Render(strings.TrimRight(b.String(), "\n"))
}
