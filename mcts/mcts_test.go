package mcts

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/treesearch/uct/game"
	"golang.org/x/exp/rand"
)

// path is a state of an abstract alternating game: the sequence of branches taken from the start.
// Branches are named 'a', 'b', 'c'...
type path string

// pathGame is a game of fixed depth where every non-terminal state has the same number of successors.
// Black moves at even depths, White at odd depths.
type pathGame struct {
	depth     int
	branching int

	// optional overrides
	successors func(p path) ([]path, error)
	rollout    func(p path, perspective game.Player) (float32, error)

	terminalCalls map[path]int
}

func newPathGame(depth, branching int) *pathGame {
	return &pathGame{
		depth:         depth,
		branching:     branching,
		terminalCalls: make(map[path]int),
	}
}

var _ Adapter[path] = &pathGame{}

func (g *pathGame) Player(p path) game.Player {
	if len(p)%2 == 0 {
		return game.Player(game.Black)
	}
	return game.Player(game.White)
}

func (g *pathGame) IsTerminal(p path) bool {
	g.terminalCalls[p]++
	return len(p) >= g.depth
}

func (g *pathGame) Successors(p path) ([]path, error) {
	if g.successors != nil {
		return g.successors(p)
	}
	retVal := make([]path, 0, g.branching)
	for i := 0; i < g.branching; i++ {
		retVal = append(retVal, p+path(rune('a'+i)))
	}
	return retVal, nil
}

// Simulate defaults to a forced outcome: everything below branch 'a' wins for the root player, everything else
// loses.
func (g *pathGame) Simulate(p path, perspective game.Player) (float32, error) {
	if g.rollout != nil {
		return g.rollout(p, perspective)
	}
	switch {
	case p == "":
		return 0, nil
	case strings.HasPrefix(string(p), "a"):
		return 1, nil
	}
	return -1, nil
}

// randomRollouts returns a rollout that picks a reward in {-1, 0, 1} from a seeded source.
func randomRollouts(seed uint64) func(path, game.Player) (float32, error) {
	r := rand.New(rand.NewSource(seed))
	return func(path, game.Player) (float32, error) {
		return float32(r.Intn(3) - 1), nil
	}
}

var errBoom = errors.New("boom")
