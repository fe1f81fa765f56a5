// Package engine owns the board and robot state and enforces the placement
// and movement rules.
//
// Every mutator is total: when its preconditions fail (coordinates off the
// board, occupied target, no robot yet) it leaves the state untouched and
// reports false. Mutations build a fresh board and swap it in together with
// the robot, so readers only ever see whole states.
package engine

import (
	"errors"
	"fmt"

	"github.com/fentz26/toyrobot/internal/models"
)

// DefaultSize is the side length of the reference board.
const DefaultSize = 5

// ErrInvalidSize is returned by New for a board side below 1.
var ErrInvalidSize = errors.New("board size must be at least 1")

type state struct {
	board [][]models.CellContent
	robot *models.RobotState
}

// Engine is a square board with at most one robot. It is not safe for
// concurrent use.
type Engine struct {
	size  int
	state *state
}

// New creates an empty board of the given side length.
func New(size int) (*Engine, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	e := &Engine{size: size}
	e.Reset()
	return e, nil
}

// Size returns the board side length.
func (e *Engine) Size() int {
	return e.size
}

// Valid reports whether pos lies on the board.
func (e *Engine) Valid(pos models.Position) bool {
	return pos.X >= 1 && pos.Y >= 1 && pos.X <= e.size && pos.Y <= e.size
}

// CellContent returns what occupies pos. Off-board positions are Empty.
func (e *Engine) CellContent(pos models.Position) models.CellContent {
	if !e.Valid(pos) {
		return models.Empty
	}
	return e.state.board[pos.Y-1][pos.X-1]
}

// Robot returns a copy of the robot state, or nil if no robot was placed.
func (e *Engine) Robot() *models.RobotState {
	if e.state.robot == nil {
		return nil
	}
	r := *e.state.robot
	return &r
}

// Board returns a copy of the cells indexed [y-1][x-1].
func (e *Engine) Board() [][]models.CellContent {
	return cloneBoard(e.state.board)
}

// PlaceWall puts a wall on an empty on-board cell.
func (e *Engine) PlaceWall(pos models.Position) bool {
	if !e.Valid(pos) || e.CellContent(pos) != models.Empty {
		return false
	}

	board := cloneBoard(e.state.board)
	board[pos.Y-1][pos.X-1] = models.Wall
	e.state = &state{board: board, robot: e.state.robot}
	return true
}

// PlaceRobot puts the robot on an empty on-board cell facing dir, clearing
// the cell it previously held.
func (e *Engine) PlaceRobot(pos models.Position, dir models.Direction) bool {
	if !dir.Valid() || !e.Valid(pos) || e.CellContent(pos) != models.Empty {
		return false
	}

	board := cloneBoard(e.state.board)
	if old := e.state.robot; old != nil {
		board[old.Position.Y-1][old.Position.X-1] = models.Empty
	}
	board[pos.Y-1][pos.X-1] = models.Robot
	e.state = &state{
		board: board,
		robot: &models.RobotState{Position: pos, Direction: dir},
	}
	return true
}

// Move steps the robot one cell forward. Leaving the board re-enters on the
// opposite edge. A wall in the target cell blocks the move.
func (e *Engine) Move() bool {
	r := e.state.robot
	if r == nil {
		return false
	}
	target := e.wrap(r.Position.Add(r.Direction.Vector()))
	return e.PlaceRobot(target, r.Direction)
}

// Rotate90 turns the robot a quarter turn.
func (e *Engine) Rotate90(t models.Turn) bool {
	r := e.state.robot
	if r == nil || (t != models.TurnLeft && t != models.TurnRight) {
		return false
	}
	e.state = &state{
		board: e.state.board,
		robot: &models.RobotState{Position: r.Position, Direction: r.Direction.Rotate(t)},
	}
	return true
}

// Left is Rotate90(models.TurnLeft).
func (e *Engine) Left() bool { return e.Rotate90(models.TurnLeft) }

// Right is Rotate90(models.TurnRight).
func (e *Engine) Right() bool { return e.Rotate90(models.TurnRight) }

// Report formats the robot as "x,y,DIRECTION". ok is false without a robot.
func (e *Engine) Report() (report string, ok bool) {
	if e.state.robot == nil {
		return "", false
	}
	return e.state.robot.Report(), true
}

// Reset empties the board and removes the robot.
func (e *Engine) Reset() {
	board := make([][]models.CellContent, e.size)
	for y := range board {
		board[y] = make([]models.CellContent, e.size)
	}
	e.state = &state{board: board}
}

func (e *Engine) wrap(pos models.Position) models.Position {
	return models.Position{X: wrapAxis(pos.X, e.size), Y: wrapAxis(pos.Y, e.size)}
}

func wrapAxis(v, size int) int {
	switch {
	case v > size:
		return 1
	case v < 1:
		return size
	default:
		return v
	}
}

func cloneBoard(board [][]models.CellContent) [][]models.CellContent {
	out := make([][]models.CellContent, len(board))
	for y, row := range board {
		out[y] = append([]models.CellContent(nil), row...)
	}
	return out
}
