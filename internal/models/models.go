// Package models defines the core domain types for the toy robot.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Position is a 1-based cell address on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Direction is the way the robot is facing.
type Direction int

// Directions in clockwise order.
const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction clockwise starting at North.
var Directions = [...]Direction{North, East, South, West}

var directionNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST"}

var directionVectors = [...]Position{
	North: {X: 0, Y: 1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: -1},
	West:  {X: -1, Y: 0},
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Vector returns the unit displacement of one step in direction d.
func (d Direction) Vector() Position {
	if !d.Valid() {
		return Position{}
	}
	return directionVectors[d]
}

// Rotate returns the direction reached after a quarter turn.
func (d Direction) Rotate(t Turn) Direction {
	n := len(Directions)
	return Directions[((int(d)+int(t))%n+n)%n]
}

// ParseDirection parses a direction name, ignoring case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// MarshalText encodes the direction as its name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Turn is a quarter rotation: -1 counterclockwise, +1 clockwise.
type Turn int

const (
	TurnLeft  Turn = -1
	TurnRight Turn = 1
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "LEFT"
	case TurnRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("Turn(%d)", int(t))
	}
}

// CellContent is what occupies a board cell.
type CellContent int

const (
	Empty CellContent = iota
	Robot
	Wall
)

func (c CellContent) String() string {
	switch c {
	case Robot:
		return "ROBOT"
	case Wall:
		return "WALL"
	default:
		return ""
	}
}

// MarshalText encodes the content as "ROBOT", "WALL" or "" for an empty cell.
func (c CellContent) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a cell content name.
func (c *CellContent) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "":
		*c = Empty
	case "ROBOT":
		*c = Robot
	case "WALL":
		*c = Wall
	default:
		return fmt.Errorf("unknown cell content %q", string(text))
	}
	return nil
}

// RobotState is the placed robot. A nil *RobotState means no robot yet.
type RobotState struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
}

// Report formats the robot as "x,y,DIRECTION".
func (r RobotState) Report() string {
	return fmt.Sprintf("%d,%d,%s", r.Position.X, r.Position.Y, r.Direction)
}

// HistoryEntry is one dispatched command in the session history.
type HistoryEntry struct {
	Seq     int         `json:"seq"`
	Name    CommandName `json:"name"`
	Command Command     `json:"-"`
	Text    string      `json:"text"`
	// Result is empty when the command produced no output.
	Result string    `json:"result,omitempty"`
	At     time.Time `json:"at"`
}

// State is a read-only snapshot of a session.
type State struct {
	Size int `json:"size"`
	// Cells is indexed [y-1][x-1].
	Cells   [][]CellContent `json:"cells"`
	Robot   *RobotState     `json:"robot,omitempty"`
	History []HistoryEntry  `json:"history"`
}

// CellAt returns the content at pos, or Empty when pos is off the board.
func (s State) CellAt(pos Position) CellContent {
	if pos.Y < 1 || pos.Y > len(s.Cells) || pos.X < 1 || pos.X > len(s.Cells[pos.Y-1]) {
		return Empty
	}
	return s.Cells[pos.Y-1][pos.X-1]
}

// Outcome classifies a dispatch attempt for the audit journal.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRejected Outcome = "rejected"
)

// AuditRecord is a journaled dispatch attempt.
type AuditRecord struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Seq        int       `json:"seq"`
	Command    string    `json:"command"`
	Name       string    `json:"name,omitempty"`
	Outcome    Outcome   `json:"outcome"`
	Result     string    `json:"result,omitempty"`
	InputsHash string    `json:"inputs_hash"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
