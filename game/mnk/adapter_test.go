package mnk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/mcts"
)

func TestAdapterSuccessors(t *testing.T) {
	a := NewAdapter(1337)
	g := TicTacToe()

	succs, err := a.Successors(g)
	require.NoError(t, err)
	require.Len(t, succs, 9)
	for i, s := range succs {
		assert.Equal(t, game.Single(i), s.LastMove().Single)
		assert.Equal(t, Nought, a.Player(s))
		assert.False(t, a.IsTerminal(s))
	}
	assert.Equal(t, 0, g.MoveNumber(), "successors must not change the parent")
}

func TestAdapterSimulate(t *testing.T) {
	var X = game.Colour(Cross)
	var O = game.Colour(Nought)
	var Z = game.None

	a := NewAdapter(1337)
	g := TicTacToe()
	for i := 0; i < 100; i++ {
		r, err := a.Simulate(g, Cross)
		require.NoError(t, err)
		assert.Contains(t, []float32{-1, 0, 1}, r)
	}

	// a finished game simply scores
	won := TicTacToe()
	won.board = []game.Colour{
		X, X, X,
		O, O, Z,
		Z, Z, Z,
	}
	r, err := a.Simulate(won, Cross)
	require.NoError(t, err)
	assert.Equal(t, float32(1), r)
	r, err = a.Simulate(won, Nought)
	require.NoError(t, err)
	assert.Equal(t, float32(-1), r)
}

func TestAdapterSimulateReproducible(t *testing.T) {
	play := func() []float32 {
		a := NewAdapter(42)
		var retVal []float32
		for i := 0; i < 20; i++ {
			r, err := a.Simulate(TicTacToe(), Nought)
			if err != nil {
				t.Fatal(err)
			}
			retVal = append(retVal, r)
		}
		return retVal
	}
	assert.Equal(t, play(), play())
}

func TestSearchTakesWin(t *testing.T) {
	var X = game.Colour(Cross)
	var O = game.Colour(Nought)
	var Z = game.None

	g := TicTacToe()
	g.board = []game.Colour{
		X, X, Z,
		O, O, Z,
		Z, Z, Z,
	}
	g.history = append(g.history,
		game.PlayerMove{Player: Cross, Single: 0},
		game.PlayerMove{Player: Nought, Single: 3},
		game.PlayerMove{Player: Cross, Single: 1},
		game.PlayerMove{Player: Nought, Single: 4},
	)

	conf := mcts.DefaultConfig()
	tree, err := mcts.New[*MNK](g, NewAdapter(1337), conf, mcts.WithSeed(1337))
	require.NoError(t, err)

	best, iterations, err := tree.Search(context.Background(), 2000, conf.Timeout*10)
	require.NoError(t, err)
	assert.NotZero(t, iterations)
	assert.Equal(t, game.PlayerMove{Player: Cross, Single: 2}, best.LastMove(), "expected the winning move\n%v", best)
}
