package models

// CommandName identifies a command variant.
type CommandName string

const (
	CmdPlaceRobot CommandName = "PLACE_ROBOT"
	CmdPlaceWall  CommandName = "PLACE_WALL"
	CmdMove       CommandName = "MOVE"
	CmdLeft       CommandName = "LEFT"
	CmdRight      CommandName = "RIGHT"
	CmdReport     CommandName = "REPORT"
)

// CommandNames lists every recognized command name.
var CommandNames = []CommandName{CmdPlaceRobot, CmdPlaceWall, CmdMove, CmdLeft, CmdRight, CmdReport}

// Command is one of PlaceRobot, PlaceWall, Move, Left, Right or Report.
type Command interface {
	Name() CommandName
	isCommand()
}

// PlaceRobot puts the robot at Position facing Direction.
type PlaceRobot struct {
	Position  Position
	Direction Direction
}

// PlaceWall puts a wall at Position.
type PlaceWall struct {
	Position Position
}

// Move steps the robot forward one cell.
type Move struct{}

// Left turns the robot counterclockwise.
type Left struct{}

// Right turns the robot clockwise.
type Right struct{}

// Report asks for the robot's position and direction.
type Report struct{}

func (PlaceRobot) Name() CommandName { return CmdPlaceRobot }
func (PlaceWall) Name() CommandName  { return CmdPlaceWall }
func (Move) Name() CommandName       { return CmdMove }
func (Left) Name() CommandName       { return CmdLeft }
func (Right) Name() CommandName      { return CmdRight }
func (Report) Name() CommandName     { return CmdReport }

func (PlaceRobot) isCommand() {}
func (PlaceWall) isCommand()  {}
func (Move) isCommand()       {}
func (Left) isCommand()       {}
func (Right) isCommand()      {}
func (Report) isCommand()     {}
