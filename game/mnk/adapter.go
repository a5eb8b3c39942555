package mnk

import (
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/mcts"
	"golang.org/x/exp/rand"
)

var _ mcts.Adapter[*MNK] = &Adapter{}

// Adapter exposes MNK games to the search. Simulations are uniformly random playouts.
//
// An Adapter is not safe for concurrent use: it owns the random source of its playouts.
type Adapter struct {
	r *rand.Rand
}

// NewAdapter creates an Adapter whose playouts are driven by the given seed.
func NewAdapter(seed uint64) *Adapter {
	return &Adapter{r: rand.New(rand.NewSource(seed))}
}

func (a *Adapter) Player(g *MNK) game.Player { return g.ToMove() }

func (a *Adapter) IsTerminal(g *MNK) bool {
	ended, _ := g.Ended()
	return ended
}

// Ended reports whether the game is over, and who won it.
func (a *Adapter) Ended(g *MNK) (bool, game.Player) { return g.Ended() }

// Successors returns the game after every legal move, in row major order of the moves.
func (a *Adapter) Successors(g *MNK) ([]*MNK, error) {
	moves := g.LegalMoves()
	retVal := make([]*MNK, 0, len(moves))
	for _, move := range moves {
		next, err := g.Apply(game.PlayerMove{Player: g.ToMove(), Single: move})
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, next)
	}
	return retVal, nil
}

// Simulate plays random moves until the game ends. A win for the given player is worth 1, a loss -1 and a draw 0.
func (a *Adapter) Simulate(g *MNK, perspective game.Player) (float32, error) {
	board := g
	for moves := board.LegalMoves(); len(moves) > 0; moves = board.LegalMoves() {
		move := moves[a.r.Intn(len(moves))] // random rollout policy
		var err error
		if board, err = board.Apply(game.PlayerMove{Player: board.ToMove(), Single: move}); err != nil {
			return 0, err
		}
	}
	return board.Score(perspective), nil
}
