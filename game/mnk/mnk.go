package mnk

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/treesearch/uct/game"
)

var (
	NoMove = game.Single(-1)

	Cross  = game.Player(game.Black)
	Nought = game.Player(game.White)
)

var _ game.CoordConverter = &MNK{}

// MNK is a representation of M,N,K games - a game is played on a MxN board. K in a row to win.
//
// MNK values are immutable: Apply returns a new game and leaves the receiver untouched.
type MNK struct {
	board   []game.Colour
	m, n, k int

	nextToMove game.Player
	history    []game.PlayerMove
}

// New creates a new MNK game. Cross moves first.
func New(m, n, k int) *MNK {
	return &MNK{
		board:      make([]game.Colour, m*n),
		history:    make([]game.PlayerMove, 0, m*n),
		m:          m,
		n:          n,
		k:          k,
		nextToMove: Cross,
	}
}

// TicTacToe creates a new MNK game for Tic Tac Toe
func TicTacToe() *MNK { return New(3, 3, 3) }

func (g *MNK) Format(s fmt.State, c rune) {
	for i, c := range g.board {
		if i%g.n == 0 {
			fmt.Fprint(s, "⎢ ")
		}
		fmt.Fprintf(s, "%s ", c)
		if (i+1)%g.n == 0 && i != 0 {
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (g *MNK) BoardSize() (int, int) { return g.m, g.n }

// Board returns a copy of the board, in row major order.
func (g *MNK) Board() []game.Colour {
	retVal := make([]game.Colour, len(g.board))
	copy(retVal, g.board)
	return retVal
}

// InARow is the number of stones in a row needed to win.
func (g *MNK) InARow() int { return g.k }

func (g *MNK) ActionSpace() int { return g.m * g.n }

func (g *MNK) ToMove() game.Player { return g.nextToMove }

func (g *MNK) LastMove() game.PlayerMove {
	if len(g.history) > 0 {
		return g.history[len(g.history)-1]
	}
	return game.PlayerMove{Player: game.Player(game.None), Single: NoMove}
}

func (g *MNK) MoveNumber() int { return len(g.history) }

// Ltoi converts a (row, col) coordinate to a Single.
func (g *MNK) Ltoi(c game.Coord) game.Single {
	if int(c.X) < 0 || int(c.X) >= g.m || int(c.Y) < 0 || int(c.Y) >= g.n {
		return NoMove
	}
	return game.Single(int(c.X)*g.n + int(c.Y))
}

// Itol converts a Single to a (row, col) coordinate.
func (g *MNK) Itol(s game.Single) game.Coord {
	return game.Coord{X: int16(int(s) / g.n), Y: int16(int(s) % g.n)}
}

// Check checks if the move is legal: it's the player's turn, the game hasn't ended and the cell is empty.
func (g *MNK) Check(m game.PlayerMove) bool { return g.check(m) == nil }

func (g *MNK) check(m game.PlayerMove) error {
	if m.Player != g.nextToMove {
		return errors.WithMessage(moveError(m), "not the player's turn")
	}
	if m.Single.IsNone() || int(m.Single) >= len(g.board) {
		return errors.WithMessage(moveError(m), "off the board")
	}
	if g.board[int(m.Single)] != game.None {
		return errors.WithMessage(moveError(m), "board location not empty")
	}
	if ended, _ := g.Ended(); ended {
		return errors.WithMessage(moveError(m), "game has ended")
	}
	return nil
}

// Apply returns the game after the move has been made.
func (g *MNK) Apply(m game.PlayerMove) (*MNK, error) {
	if err := g.check(m); err != nil {
		return nil, err
	}
	retVal := g.Clone()
	retVal.board[int(m.Single)] = game.Colour(m.Player)
	retVal.history = append(retVal.history, m)
	retVal.nextToMove = game.Opponent(m.Player)
	return retVal, nil
}

// LegalMoves returns the empty cells of the board, in row major order. A game that has ended has no legal moves.
func (g *MNK) LegalMoves() []game.Single {
	if ended, _ := g.Ended(); ended {
		return nil
	}
	retVal := make([]game.Single, 0, len(g.board))
	for i, c := range g.board {
		if c == game.None {
			retVal = append(retVal, game.Single(i))
		}
	}
	return retVal
}

// Ended checks if the game has ended. If it has, who is the winner? A draw has no winner.
func (g *MNK) Ended() (ended bool, winner game.Player) {
	if g.isWinner(Cross) {
		return true, Cross
	}
	if g.isWinner(Nought) {
		return true, Nought
	}
	for _, c := range g.board {
		if c == game.None {
			return false, game.Player(game.None)
		}
	}
	return true, game.Player(game.None)
}

// Score returns 1 if the player has won, -1 if the player has lost and 0 otherwise.
func (g *MNK) Score(p game.Player) float32 {
	ended, winner := g.Ended()
	switch {
	case !ended || winner == game.Player(game.None):
		return 0
	case winner == p:
		return 1
	}
	return -1
}

func (g *MNK) Eq(other *MNK) bool {
	if other == nil || g.m != other.m || g.n != other.n || g.k != other.k || g.nextToMove != other.nextToMove {
		return false
	}
	for i := range g.board {
		if g.board[i] != other.board[i] {
			return false
		}
	}
	return true
}

func (g *MNK) Clone() *MNK {
	retVal := &MNK{
		board:      make([]game.Colour, len(g.board)),
		history:    make([]game.PlayerMove, len(g.history), g.m*g.n),
		m:          g.m,
		n:          g.n,
		k:          g.k,
		nextToMove: g.nextToMove,
	}
	copy(retVal.board, g.board)
	copy(retVal.history, g.history)
	return retVal
}

// isWinner returns true if the player has k in a row horizontally, vertically or diagonally.
func (g *MNK) isWinner(p game.Player) bool {
	colour := game.Colour(p)
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			if g.board[i*g.n+j] != colour {
				continue
			}
			for _, d := range directions {
				count := 1
				for r, c := i+d[0], j+d[1]; r >= 0 && r < g.m && c >= 0 && c < g.n && g.board[r*g.n+c] == colour; r, c = r+d[0], c+d[1] {
					count++
				}
				if count >= g.k {
					return true
				}
			}
		}
	}
	return false
}
