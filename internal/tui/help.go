package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Reference is the command grammar in Markdown.
const Reference = `# Toy Robot

The board is a square grid. **1,1** is the bottom-left cell and NORTH points up.
Walking off an edge re-enters on the opposite side.

## Commands

| Command | Effect |
|---------|--------|
| ` + "`PLACE_ROBOT X,Y,DIRECTION`" + ` | Put the robot on an empty cell, replacing any previous robot |
| ` + "`PLACE_WALL X,Y`" + ` | Put a wall on an empty cell |
| ` + "`MOVE`" + ` | Step one cell forward unless a wall is there |
| ` + "`LEFT`" + ` | Turn 90° anticlockwise |
| ` + "`RIGHT`" + ` | Turn 90° clockwise |
| ` + "`REPORT`" + ` | Print ` + "`X,Y,DIRECTION`" + ` |

DIRECTION is one of NORTH, EAST, SOUTH, WEST. Names are case-insensitive and
extra whitespace is ignored. Commands that cannot be carried out are ignored.

## Keys

| Key | Action |
|-----|--------|
| ↑ / f | MOVE |
| ← / → | LEFT / RIGHT |
| r | REPORT |
| p | place robot (arrows pick the cell, tab the direction, enter confirms) |
| w | place wall |
| : | type a command |
| ctrl+r | reset the session |
| ? | toggle this help |
| q | quit |
`

// RenderReference renders Reference for a terminal of the given width.
func RenderReference(width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return r.Render(Reference)
}
