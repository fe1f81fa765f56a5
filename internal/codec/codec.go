// Package codec converts commands to and from their textual form:
//
//	PLACE_ROBOT x,y,DIRECTION
//	PLACE_WALL x,y
//	MOVE | LEFT | RIGHT | REPORT
//
// Decoding ignores case and repeated whitespace.
package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/fentz26/toyrobot/internal/models"
)

// Decode failures. Callers match them with errors.Is.
var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMalformed      = errors.New("malformed command")
)

var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Z_][A-Z0-9_]*`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type commandLine struct {
	Name   string      `parser:"@Ident"`
	Params []*argument `parser:"( @@ ( ',' @@ )* )?"`
}

type argument struct {
	Int   *string `parser:"  @Int"`
	Ident *string `parser:"| @Ident"`
}

func (a *argument) String() string {
	switch {
	case a.Int != nil:
		return *a.Int
	case a.Ident != nil:
		return *a.Ident
	}
	return ""
}

var parser = participle.MustBuild[commandLine](
	participle.Lexer(commandLexer),
	participle.Elide("Whitespace"),
)

// Names returns the recognized command names.
func Names() []models.CommandName {
	return append([]models.CommandName(nil), models.CommandNames...)
}

// Known reports whether name (in any case) is a recognized command name.
func Known(name string) bool {
	_, ok := lookup(strings.ToUpper(name))
	return ok
}

func lookup(name string) (models.CommandName, bool) {
	for _, n := range models.CommandNames {
		if string(n) == name {
			return n, true
		}
	}
	return "", false
}

// Encode renders cmd in canonical form.
func Encode(cmd models.Command) string {
	switch c := cmd.(type) {
	case models.PlaceRobot:
		return fmt.Sprintf("%s %d,%d,%s", c.Name(), c.Position.X, c.Position.Y, c.Direction)
	case models.PlaceWall:
		return fmt.Sprintf("%s %d,%d", c.Name(), c.Position.X, c.Position.Y)
	case nil:
		return ""
	default:
		return string(c.Name())
	}
}

// Decode parses a textual command.
func Decode(text string) (models.Command, error) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(text), " "))
	if normalized == "" {
		return nil, ErrEmpty
	}

	head, _, _ := strings.Cut(normalized, " ")
	name, ok := lookup(head)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, head)
	}

	line, err := parser.ParseString("", normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return build(name, line.Params)
}

func build(name models.CommandName, params []*argument) (models.Command, error) {
	switch name {
	case models.CmdPlaceRobot:
		if err := arity(name, params, 3); err != nil {
			return nil, err
		}
		p, err := position(params[0], params[1])
		if err != nil {
			return nil, err
		}
		if params[2].Ident == nil {
			return nil, fmt.Errorf("%w: direction expected, got %q", ErrMalformed, params[2])
		}
		dir, err := models.ParseDirection(*params[2].Ident)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return models.PlaceRobot{Position: p, Direction: dir}, nil

	case models.CmdPlaceWall:
		if err := arity(name, params, 2); err != nil {
			return nil, err
		}
		p, err := position(params[0], params[1])
		if err != nil {
			return nil, err
		}
		return models.PlaceWall{Position: p}, nil

	case models.CmdMove, models.CmdLeft, models.CmdRight, models.CmdReport:
		if err := arity(name, params, 0); err != nil {
			return nil, err
		}
		switch name {
		case models.CmdMove:
			return models.Move{}, nil
		case models.CmdLeft:
			return models.Left{}, nil
		case models.CmdRight:
			return models.Right{}, nil
		default:
			return models.Report{}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func arity(name models.CommandName, params []*argument, want int) error {
	if len(params) != want {
		return fmt.Errorf("%w: %s takes %d parameters, got %d", ErrMalformed, name, want, len(params))
	}
	return nil
}

func position(x, y *argument) (models.Position, error) {
	px, err := coordinate(x)
	if err != nil {
		return models.Position{}, err
	}
	py, err := coordinate(y)
	if err != nil {
		return models.Position{}, err
	}
	return models.Position{X: px, Y: py}, nil
}

func coordinate(a *argument) (int, error) {
	if a.Int == nil {
		return 0, fmt.Errorf("%w: coordinate expected, got %q", ErrMalformed, a)
	}
	v, err := strconv.Atoi(*a.Int)
	if errors.Is(err, strconv.ErrRange) {
		// Still a number, just off every board.
		if strings.HasPrefix(*a.Int, "-") {
			return math.MinInt, nil
		}
		return math.MaxInt, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q: %v", ErrMalformed, *a.Int, err)
	}
	return v, nil
}
