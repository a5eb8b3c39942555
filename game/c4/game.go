package c4

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/treesearch/uct/game"
)

var (
	Red    = game.Player(game.Black)
	Yellow = game.Player(game.White)
)

// Game is a game of connect N. Stones are dropped into columns and fall to the lowest empty row.
//
// Games are immutable: Apply returns a new game.
type Game struct {
	b          *Board
	history    []game.PlayerMove
	nextToMove game.Player
}

// New creates a new game with a board of (rows,cols) and N to win (connect4 being 4 to win). Red moves first.
func New(rows, cols, N int) *Game {
	b := newBoard(rows, cols, N)
	history := make([]game.PlayerMove, 0, rows*cols)
	return &Game{
		b:          b,
		history:    history,
		nextToMove: Red,
	}
}

// Connect4 creates the classic 6 rows by 7 columns game.
func Connect4() *Game { return New(6, 7, 4) }

func (g *Game) BoardSize() (int, int) { return g.b.shape() }

func (g *Game) ToMove() game.Player { return g.nextToMove }

func (g *Game) LastMove() game.PlayerMove {
	if len(g.history) > 0 {
		return g.history[len(g.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Single: -1}
}

func (g *Game) MoveNumber() int { return len(g.history) }

func (g *Game) Check(m game.PlayerMove) bool { return g.check(m) == nil }

func (g *Game) check(m game.PlayerMove) error {
	if m.Player != g.nextToMove {
		return errors.Errorf("not %v's turn", m.Player)
	}
	if ended, _ := g.Ended(); ended {
		return errors.New("game has ended")
	}
	_, _, err := g.b.check(m)
	return err
}

// Apply returns the game after the move (a column) has been played.
func (g *Game) Apply(m game.PlayerMove) (*Game, error) {
	if err := g.check(m); err != nil {
		return nil, errors.WithMessagef(err, "unable to play %v", m)
	}
	retVal := g.Clone()
	if err := retVal.b.apply(m); err != nil {
		return nil, err
	}
	retVal.history = append(retVal.history, m)
	retVal.nextToMove = game.Opponent(m.Player)
	return retVal, nil
}

// LegalMoves returns the columns that aren't full, from left to right. A game that has ended has no legal moves.
func (g *Game) LegalMoves() []game.Single {
	if ended, _ := g.Ended(); ended {
		return nil
	}
	top := g.b.it[0]
	retVal := make([]game.Single, 0, len(top))
	for col, c := range top {
		if c == game.None {
			retVal = append(retVal, game.Single(col))
		}
	}
	return retVal
}

// Score returns 1 if the player has won, -1 if the player has lost and 0 otherwise.
func (g *Game) Score(p game.Player) float32 {
	winning := g.b.checkWin()
	if game.Player(winning) == p {
		return 1
	}
	if winning == game.None {
		return 0
	}
	return -1
}

func (g *Game) Eq(other *Game) bool {
	if other == nil || g.nextToMove != other.nextToMove || len(g.history) != len(other.history) {
		return false
	}
	if !g.b.data.Shape().Eq(other.b.data.Shape()) {
		return false
	}
	raw, otherRaw := g.b.raw(), other.b.raw()
	for i := range raw {
		if raw[i] != otherRaw[i] {
			return false
		}
	}
	for i := range g.history {
		if other.history[i] != g.history[i] {
			return false
		}
	}
	return true
}

func (g *Game) Clone() *Game {
	rows, cols := g.b.shape()
	history2 := make([]game.PlayerMove, len(g.history), rows*cols)
	copy(history2, g.history)
	return &Game{
		b:          g.b.clone(),
		history:    history2,
		nextToMove: g.nextToMove,
	}
}

// Ended checks if the game has ended. If it has, who is the winner? A full board without a winner is a draw.
func (g *Game) Ended() (bool, game.Player) {
	winner := g.b.checkWin()
	if winner != game.None {
		return true, game.Player(winner)
	}

	// ended due to full board
	for _, c := range g.b.raw() {
		if c == game.None {
			return false, game.Player(game.None)
		}
	}
	return true, game.Player(game.None)
}

func (g *Game) ActionSpace() int { _, cols := g.b.shape(); return cols }

// Board returns a copy of the board, in row major order. Row 0 is the top.
func (g *Game) Board() []game.Colour {
	retVal := make([]game.Colour, len(g.b.raw()))
	copy(retVal, g.b.raw())
	return retVal
}

func (g *Game) Format(s fmt.State, c rune) { g.b.Format(s, c) }
