package game

import (
	"fmt"
)

type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		}
	case 's': // used in board games
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		}
	}
}

// Player represents a player. It's also a colour.
//
// The search engine only ever compares players for equality, so any domain with
// more than the two colours below may define its own Player values.
type Player Colour

func (p Player) Format(s fmt.State, c rune) { Colour(p).Format(s, c) }

func (p Player) String() string { return fmt.Sprintf("%v", Colour(p)) }

// Opponent returns the other player of a two player game. None has no opponent.
func Opponent(p Player) Player {
	switch Colour(p) {
	case Black:
		return Player(White)
	case White:
		return Player(Black)
	}
	return Player(None)
}

// PlayerMove is a tuple indicating the player and the move to be made.
type PlayerMove struct {
	Player
	Single
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Single == other.Single
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%d", p.Player, p.Single) }

// Coord represents a (row, col) coordinate.
//
// The Coord uses a standard computer cartesian coordinates
//   - (0, 0) represents the top left
//   - (2, 2) represents the bottom right of a 3x3 board
type Coord struct {
	X, Y int16
}

func (c Coord) Eq(other Coord) bool { return c.X == other.X && c.Y == other.Y }

// Single represents a coordinate as a single number, utilized in a rowmajor fashion.
//   - 0 represents the top left
//   - n-1 represents the top right of a board with n columns
//   - n represents (1, 0)
//   - -1 represents "no move"
type Single int32

// IsNone returns true when the coordinate does not represent a move
func (c Single) IsNone() bool { return c < 0 }

// CoordConverter converts between the two coordinate representations of a board.
type CoordConverter interface {
	Ltoi(Coord) Single
	Itol(Single) Coord
}
