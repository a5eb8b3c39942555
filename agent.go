package uct

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/mcts"
	"golang.org/x/exp/rand"
)

// An Agent is a player that picks its moves by searching.
//
// Every move is a fresh search: no tree is kept from one move to the next.
type Agent[S any] struct {
	Player game.Player
	Conf   mcts.Config

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex

	name   string
	domain Domain[S]
	r      *rand.Rand
	opts   []mcts.Option

	searches   int
	iterations int
}

// NewAgent creates a named agent. The seed drives the tie-breaks of all its searches.
func NewAgent[S any](name string, domain Domain[S], conf mcts.Config, seed uint64, opts ...mcts.Option) *Agent[S] {
	return &Agent[S]{
		Conf:   conf,
		name:   name,
		domain: domain,
		r:      rand.New(rand.NewSource(seed)),
		opts:   opts,
	}
}

func (a *Agent[S]) Name() string { return a.name }

// Search searches the game state and returns the suggested next state, and how many iterations it took to find it.
func (a *Agent[S]) Search(ctx context.Context, state S) (next S, iterations int, err error) {
	opts := append([]mcts.Option{mcts.WithRand(a.r)}, a.opts...)
	var t *mcts.MCTS[S]
	if t, err = mcts.New(state, mcts.Adapter[S](a.domain), a.Conf, opts...); err != nil {
		return next, 0, errors.WithMessagef(err, "agent %v", a.name)
	}
	if next, iterations, err = t.Search(ctx, a.Conf.Budget, a.Conf.Timeout); err != nil {
		return next, iterations, errors.WithMessagef(err, "agent %v", a.name)
	}

	a.Lock()
	a.searches++
	a.iterations += iterations
	a.Unlock()
	return next, iterations, nil
}

// MeanIterations is the average number of iterations of the searches made so far.
func (a *Agent[S]) MeanIterations() float32 {
	a.Lock()
	defer a.Unlock()
	if a.searches == 0 {
		return 0
	}
	return float32(a.iterations) / float32(a.searches)
}

func (a *Agent[S]) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.Unlock()
}
