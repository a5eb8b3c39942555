package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/game/mnk"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for _, c := range known_commands {
		if _, ok := e.known[c]; ok {
			cmds = append(cmds, c)
		}
	}
	return strings.Join(cmds, "\n")
}

func quit(e *Engine) string { e.quitting = true; return "" }

func clearBoard(e *Engine) string {
	m, n := e.g.BoardSize()
	e.g = e.New(m, n, e.g.InARow())
	e.history = e.history[:0]
	return ""
}

func showboard(e *Engine) string { return fmt.Sprintf("\n%v", e.g) }

func undo(e *Engine, args []string) (string, error) {
	if len(e.history) == 0 {
		return "", errors.New("cannot undo")
	}
	e.g = e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	return "", nil
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

// boardSize takes one to three arguments: m, n and k. n defaults to m. k is kept unless the new board is too small
// for it.
// maxBoardSize is the widest board a single letter vertex can address.
const maxBoardSize = 26

func boardSize(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"boardsize\"")
	}
	sizes := make([]int, 0, 3)
	for i, arg := range args {
		if i >= 3 {
			break
		}
		size, err := strconv.Atoi(arg)
		if err != nil {
			return "", errors.WithMessagef(err, "Unable to parse argument %d of boardsize", i+1)
		}
		if size < 1 || (i < 2 && size > maxBoardSize) {
			return "", errors.New("unacceptable size")
		}
		sizes = append(sizes, size)
	}

	m := sizes[0]
	n, k := m, e.g.InARow()
	if len(sizes) > 1 {
		n = sizes[1]
	}
	if len(sizes) > 2 {
		k = sizes[2]
	}
	if k > m && k > n {
		k = max(m, n)
	}
	e.g = e.New(m, n, k)
	e.history = e.history[:0]
	return "", nil
}

func play(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	p, err := parseColour(args[0])
	if err != nil {
		return "", err
	}
	move, err := parseVertex(args[1], e.g)
	if err != nil {
		return "", err
	}
	next, err := e.g.Apply(game.PlayerMove{Player: p, Single: move})
	if err != nil {
		return "", errors.WithMessage(err, "illegal move")
	}
	e.history = append(e.history, e.g)
	e.g = next
	return "", nil
}

func genmove(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"genmove\"")
	}
	if e.agent == nil {
		return "", errors.New("Unable to generate moves. No agent found")
	}
	p, err := parseColour(args[0])
	if err != nil {
		return "", err
	}
	if ended, _ := e.g.Ended(); ended {
		return "", errors.New("game has ended")
	}
	if p != e.g.ToMove() {
		return "", errors.Errorf("not %v's turn", p)
	}

	e.agent.Player = p
	next, _, err := e.agent.Search(e.ctx, e.g)
	if err != nil {
		return "", err
	}
	e.history = append(e.history, e.g)
	e.g = next
	return formatVertex(next.LastMove().Single, next), nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),

		"undo":          stdlib2(undo),
		"known_command": stdlib2(knownCommand),
		"boardsize":     stdlib2(boardSize),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
	}
}

func parseColour(a string) (game.Player, error) {
	switch a {
	case "b", "black", "x":
		return mnk.Cross, nil
	case "w", "white", "o":
		return mnk.Nought, nil
	}
	return game.Player(game.None), errors.Errorf("invalid color %q", a)
}

// parseVertex parses a vertex such as "b3": the letter is the column, the number is the row, counting from 1 at
// the top.
func parseVertex(a string, g *mnk.MNK) (game.Single, error) {
	if len(a) < 2 || a[0] < 'a' || a[0] > 'z' {
		return mnk.NoMove, errors.Errorf("invalid vertex %q", a)
	}
	row, err := strconv.Atoi(a[1:])
	if err != nil {
		return mnk.NoMove, errors.Errorf("invalid vertex %q", a)
	}
	col := int(a[0] - 'a')
	m, n := g.BoardSize()
	if row < 1 || row > m || col >= n {
		return mnk.NoMove, errors.Errorf("vertex %q is off the board", a)
	}
	return g.Ltoi(game.Coord{X: int16(row - 1), Y: int16(col)}), nil
}

func formatVertex(s game.Single, g *mnk.MNK) string {
	c := g.Itol(s)
	return fmt.Sprintf("%c%d", 'A'+rune(c.Y), c.X+1)
}
