package c4

import (
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/mcts"
	"golang.org/x/exp/rand"
)

var _ mcts.Adapter[*Game] = &Adapter{}

// Adapter exposes connect N games to the search, with uniformly random playouts.
type Adapter struct {
	r *rand.Rand
}

func NewAdapter(seed uint64) *Adapter {
	return &Adapter{r: rand.New(rand.NewSource(seed))}
}

func (a *Adapter) Player(g *Game) game.Player { return g.ToMove() }

func (a *Adapter) IsTerminal(g *Game) bool {
	ended, _ := g.Ended()
	return ended
}

func (a *Adapter) Ended(g *Game) (bool, game.Player) { return g.Ended() }

// Successors returns the game after a stone is dropped in each column that isn't full, from left to right.
func (a *Adapter) Successors(g *Game) ([]*Game, error) {
	moves := g.LegalMoves()
	retVal := make([]*Game, 0, len(moves))
	for _, move := range moves {
		next, err := g.Apply(game.PlayerMove{Player: g.ToMove(), Single: move})
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, next)
	}
	return retVal, nil
}

// Simulate drops stones in random columns until the game ends, and scores the outcome for the perspective.
func (a *Adapter) Simulate(g *Game, perspective game.Player) (float32, error) {
	for moves := g.LegalMoves(); len(moves) > 0; moves = g.LegalMoves() {
		move := moves[a.r.Intn(len(moves))]
		var err error
		if g, err = g.Apply(game.PlayerMove{Player: g.ToMove(), Single: move}); err != nil {
			return 0, err
		}
	}
	return g.Score(perspective), nil
}
