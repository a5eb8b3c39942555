package mcts

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treesearch/uct/game"
)

const plentyOfTime = time.Minute

func TestNew(t *testing.T) {
	t.Run("terminal root", func(t *testing.T) {
		_, err := New[path]("", newPathGame(0, 2), DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTerminalRoot), "got %v", err)
	})

	t.Run("root without successors", func(t *testing.T) {
		g := newPathGame(3, 2)
		g.successors = func(path) ([]path, error) { return nil, nil }
		_, err := New[path]("", g, DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyExpansion), "got %v", err)
	})

	t.Run("failing successors", func(t *testing.T) {
		g := newPathGame(3, 2)
		g.successors = func(path) ([]path, error) { return nil, errBoom }
		_, err := New[path]("", g, DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAdapterContract), "got %v", err)
	})

	t.Run("no adapter", func(t *testing.T) {
		_, err := New[path]("", nil, DefaultConfig())
		assert.True(t, errors.Is(err, ErrAdapterContract), "got %v", err)
	})

	t.Run("invalid config", func(t *testing.T) {
		conf := DefaultConfig()
		conf.MinReward, conf.MaxReward = 1, -1
		_, err := New[path]("", newPathGame(3, 2), conf)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})

	t.Run("root is expanded", func(t *testing.T) {
		tree, err := New[path]("", newPathGame(3, 4), DefaultConfig())
		require.NoError(t, err)
		root := tree.Root()
		assert.True(t, root.IsRoot())
		assert.True(t, root.IsExpanded())
		assert.Zero(t, root.Visits())
		assert.Equal(t, game.Player(game.Black), root.Player())
		assert.Equal(t, 5, tree.Nodes())

		kids := tree.Children(root)
		require.Len(t, kids, 4)
		for i, kid := range kids {
			assert.Equal(t, path(rune('a'+i)), kid.State(), "children keep the order of generation")
			assert.Equal(t, game.Player(game.White), kid.Player())
			assert.Same(t, root, tree.Parent(kid))
		}
		assert.Nil(t, tree.Parent(root))
	})
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)
	assert.True(DefaultConfig().IsValid())

	broken := []func(c *Config){
		func(c *Config) { c.Exploration = -1 },
		func(c *Config) { c.Exploration = math32.Inf(1) },
		func(c *Config) { c.Budget = 0 },
		func(c *Config) { c.Timeout = 0 },
		func(c *Config) { c.MinReward = 2 },
		func(c *Config) { c.Expansion = MAXEXPANSIONPOLICY },
	}
	for i, breakIt := range broken {
		c := DefaultConfig()
		breakIt(&c)
		assert.False(c.IsValid(), "case %d: %+v", i, c)
	}
}

func TestExpansionPolicyText(t *testing.T) {
	var p ExpansionPolicy
	require.NoError(t, p.UnmarshalText([]byte("random")))
	assert.Equal(t, RandomChild, p)
	require.NoError(t, p.UnmarshalText([]byte("first")))
	assert.Equal(t, FirstChild, p)
	assert.Error(t, p.UnmarshalText([]byte("best")))

	text, err := RandomChild.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "random", string(text))
}

func TestSearchInvalidBudget(t *testing.T) {
	g := newPathGame(3, 2)
	tree, err := New[path]("", g, DefaultConfig())
	require.NoError(t, err)

	for _, tc := range []struct {
		iterations int
		budget     time.Duration
	}{
		{0, time.Second},
		{-1, time.Second},
		{10, 0},
		{10, -time.Second},
	} {
		_, n, err := tree.Search(context.Background(), tc.iterations, tc.budget)
		assert.True(t, errors.Is(err, ErrInvalidBudget), "%d iterations in %v: %v", tc.iterations, tc.budget, err)
		assert.Zero(t, n)
	}
	assert.Zero(t, tree.Root().Visits(), "no work may be done on an invalid budget")
}

func TestSearchSingleSuccessor(t *testing.T) {
	for _, iterations := range []int{1, 2, 10} {
		tree, err := New[path]("", newPathGame(4, 1), DefaultConfig(), WithSeed(1))
		require.NoError(t, err)

		best, n, err := tree.Search(context.Background(), iterations, plentyOfTime)
		require.NoError(t, err)
		assert.Equal(t, path("a"), best)
		assert.Equal(t, iterations, n)
		assert.GreaterOrEqual(t, tree.Root().Visits(), uint32(1))
	}
}

func TestSearchForcedWin(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		tree, err := New[path]("", newPathGame(2, 2), DefaultConfig(), WithSeed(seed))
		require.NoError(t, err)

		best, n, err := tree.Search(context.Background(), 50, plentyOfTime)
		require.NoError(t, err)
		require.Equal(t, 50, n)

		kids := tree.Children(tree.Root())
		win, loss := kids[0], kids[1]
		assert.GreaterOrEqual(t, loss.Visits(), uint32(1), "seed %d", seed)
		assert.Greater(t, win.Visits(), loss.Visits(), "seed %d", seed)
		assert.Equal(t, path("a"), best, "seed %d", seed)
	}
}

func TestSearchForcedWinForWhite(t *testing.T) {
	// the root player is White: rewards are from White's point of view, so the sign flip must still steer towards 'a'
	g := newPathGame(3, 2)
	tree, err := New[path]("b", g, DefaultConfig(), WithSeed(7))
	require.NoError(t, err)
	require.Equal(t, game.Player(game.White), tree.Root().Player())

	g.rollout = func(p path, perspective game.Player) (float32, error) {
		if perspective != game.Player(game.White) {
			return 0, errors.Errorf("expected the root player, got %v", perspective)
		}
		if len(p) > 1 && p[1] == 'a' {
			return 1, nil
		}
		return -1, nil
	}

	best, _, err := tree.Search(context.Background(), 60, plentyOfTime)
	require.NoError(t, err)
	assert.Equal(t, path("ba"), best)
}

func TestSearchTimeBudget(t *testing.T) {
	tree, err := New[path]("", newPathGame(20, 2), DefaultConfig(), WithSeed(3))
	require.NoError(t, err)

	start := time.Now()
	_, n, err := tree.Search(context.Background(), 1<<30, time.Millisecond)
	elapsed := time.Since(start)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, n, 1)
	assert.Less(t, n, 1<<30)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, uint32(n), tree.Root().Visits())
}

func TestSearchContext(t *testing.T) {
	tree, err := New[path]("", newPathGame(3, 2), DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, n, err := tree.Search(ctx, 10, plentyOfTime)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Zero(t, n)

	// cancelled between iterations: stops after the first
	g := newPathGame(5, 2)
	ctx, cancel = context.WithCancel(context.Background())
	g.rollout = func(path, game.Player) (float32, error) {
		cancel()
		return 0, nil
	}
	tree, err = New[path]("", g, DefaultConfig())
	require.NoError(t, err)
	_, n, err = tree.Search(ctx, 10, plentyOfTime)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestSearchInvariants checks the bookkeeping of the tree after a search with noisy rewards.
func TestSearchInvariants(t *testing.T) {
	const iterations = 500
	g := newPathGame(6, 3)
	g.rollout = randomRollouts(99)

	tree, err := New[path]("", g, DefaultConfig(), WithSeed(99))
	require.NoError(t, err)

	best, n, err := tree.Search(context.Background(), iterations, plentyOfTime)
	require.NoError(t, err)
	require.Equal(t, iterations, n)

	root := tree.Root()
	assert.Equal(t, uint32(iterations), root.Visits(), "the root is visited once per iteration")

	var found bool
	for _, kid := range tree.Children(root) {
		if kid.State() == best {
			found = true
		}
	}
	assert.True(t, found, "%q is not a child of the root", best)

	for i := range tree.nodes {
		n := &tree.nodes[i]
		visits := float32(n.Visits())
		assert.True(t, n.Reward() >= -visits && n.Reward() <= visits, "%v: reward out of bounds", n)

		if n.IsTerminal() {
			assert.False(t, n.IsExpanded(), "%v: terminal nodes are never expanded", n)
		}

		kids := tree.Children(n)
		if !n.IsExpanded() {
			assert.Empty(t, kids, "%v", n)
			continue
		}
		require.NotEmpty(t, kids, "%v", n)

		var sum uint32
		for _, kid := range kids {
			sum += kid.Visits()
		}
		if n.IsRoot() {
			assert.Equal(t, n.Visits(), sum, "%v", n)
		} else {
			// the first visit of a node is simulated from the node itself, the rest go to its children
			assert.Equal(t, n.Visits(), sum+1, "%v", n)
		}
	}

	for p, calls := range g.terminalCalls {
		assert.Equal(t, 1, calls, "terminality of %q must be computed once", p)
	}
}

func TestSearchReproducible(t *testing.T) {
	type summary struct {
		Best       path
		Iterations int
		Visits     map[path]uint32
		Rewards    map[path]float32
	}

	run := func() summary {
		g := newPathGame(5, 3)
		g.rollout = randomRollouts(2024)
		tree, err := New[path]("", g, DefaultConfig(), WithSeed(2024))
		require.NoError(t, err)
		best, n, err := tree.Search(context.Background(), 300, plentyOfTime)
		require.NoError(t, err)

		s := summary{
			Best:       best,
			Iterations: n,
			Visits:     make(map[path]uint32),
			Rewards:    make(map[path]float32),
		}
		for i := range tree.nodes {
			s.Visits[tree.nodes[i].State()] = tree.nodes[i].Visits()
			s.Rewards[tree.nodes[i].State()] = tree.nodes[i].Reward()
		}
		return s
	}

	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("searches with the same seed differ (-first +second):\n%s", diff)
	}
}

func TestSearchAccumulates(t *testing.T) {
	tree, err := New[path]("", newPathGame(4, 2), DefaultConfig(), WithSeed(5))
	require.NoError(t, err)

	_, n1, err := tree.Search(context.Background(), 20, plentyOfTime)
	require.NoError(t, err)
	_, n2, err := tree.Search(context.Background(), 30, plentyOfTime)
	require.NoError(t, err)
	assert.Equal(t, uint32(n1+n2), tree.Root().Visits())
}

func TestSelectExplorationFloor(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		tree, err := New[path]("", newPathGame(3, 3), DefaultConfig(), WithSeed(seed))
		require.NoError(t, err)

		// 'a' and 'c' have been visited a lot and won every time, 'b' never
		kids := tree.children[tree.root]
		for _, kid := range []naughty{kids[0], kids[2]} {
			n := tree.nodeFromNaughty(kid)
			n.visits, n.total = 10, 10
		}
		root := tree.Root()
		root.visits, root.total = 20, 20

		assert.Equal(t, kids[1], tree.bestChild(tree.root), "seed %d: unvisited children come first", seed)
	}
}

func TestSelectPerspective(t *testing.T) {
	tree, err := New[path]("", newPathGame(3, 2), DefaultConfig(), WithSeed(11))
	require.NoError(t, err)

	a := tree.children[tree.root][0]
	require.NoError(t, tree.expandNode(a))
	aa, ab := tree.children[a][0], tree.children[a][1]

	// from the root player's point of view 'aa' is great and 'ab' is terrible.
	// White chooses at 'a', so White should pick 'ab'.
	tree.nodeFromNaughty(aa).visits, tree.nodeFromNaughty(aa).total = 5, 5
	tree.nodeFromNaughty(ab).visits, tree.nodeFromNaughty(ab).total = 5, -5
	tree.nodeFromNaughty(a).visits = 11

	assert.Equal(t, ab, tree.bestChild(a))
}

func TestExpand(t *testing.T) {
	t.Run("first child", func(t *testing.T) {
		for seed := uint64(0); seed < 10; seed++ {
			tree, err := New[path]("", newPathGame(3, 5), DefaultConfig(), WithSeed(seed))
			require.NoError(t, err)
			a := tree.children[tree.root][0]
			child, err := tree.expand(a)
			require.NoError(t, err)
			assert.Equal(t, path("aa"), tree.nodeFromNaughty(child).State())
			assert.True(t, tree.nodeFromNaughty(a).IsExpanded())
		}
	})

	t.Run("random child", func(t *testing.T) {
		conf := DefaultConfig()
		conf.Expansion = RandomChild
		seen := make(map[path]bool)
		for seed := uint64(0); seed < 30; seed++ {
			tree, err := New[path]("", newPathGame(3, 5), conf, WithSeed(seed))
			require.NoError(t, err)
			child, err := tree.expand(tree.children[tree.root][0])
			require.NoError(t, err)
			seen[tree.nodeFromNaughty(child).State()] = true
		}
		assert.Greater(t, len(seen), 1)
	})

	t.Run("expanded at most once", func(t *testing.T) {
		tree, err := New[path]("", newPathGame(3, 2), DefaultConfig())
		require.NoError(t, err)
		nodes := tree.Nodes()
		require.NoError(t, tree.expandNode(tree.root))
		assert.Equal(t, nodes, tree.Nodes())
	})
}

func TestSearchEmptyExpansion(t *testing.T) {
	// 'a' is not terminal, but has no successors
	g := newPathGame(3, 1)
	g.successors = func(p path) ([]path, error) {
		if p == "a" {
			return nil, nil
		}
		return []path{p + "a"}, nil
	}

	var buf bytes.Buffer
	tree, err := New[path]("", g, DefaultConfig(), WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	best, n, err := tree.Search(context.Background(), 5, plentyOfTime)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, path("a"), best)

	a := tree.Children(tree.Root())[0]
	assert.True(t, a.IsTerminal(), "a node without successors degrades to a terminal node")
	assert.False(t, a.IsExpanded())
	assert.Equal(t, uint32(5), a.Visits())
	assert.Contains(t, buf.String(), "no successors")
}

func TestSearchAdapterFailures(t *testing.T) {
	cases := map[string]func(g *pathGame){
		"simulation error": func(g *pathGame) {
			g.rollout = func(path, game.Player) (float32, error) { return 0, errBoom }
		},
		"reward too large": func(g *pathGame) {
			g.rollout = func(path, game.Player) (float32, error) { return 2, nil }
		},
		"reward too small": func(g *pathGame) {
			g.rollout = func(path, game.Player) (float32, error) { return -1.5, nil }
		},
		"reward not a number": func(g *pathGame) {
			g.rollout = func(path, game.Player) (float32, error) { return math32.NaN(), nil }
		},
		"successors error": func(g *pathGame) {
			g.successors = func(p path) ([]path, error) {
				if p == "" {
					return []path{"a"}, nil
				}
				return nil, errBoom
			}
		},
	}

	for name, breakIt := range cases {
		t.Run(name, func(t *testing.T) {
			g := newPathGame(4, 2)
			breakIt(g)
			tree, err := New[path]("", g, DefaultConfig())
			require.NoError(t, err)

			_, _, err = tree.Search(context.Background(), 10, plentyOfTime)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAdapterContract), "got %v", err)
		})
	}
}

func TestToDot(t *testing.T) {
	tree, err := New[path]("", newPathGame(3, 2), DefaultConfig(), WithSeed(1))
	require.NoError(t, err)
	_, _, err = tree.Search(context.Background(), 10, plentyOfTime)
	require.NoError(t, err)

	dot := tree.ToDot(false)
	assert.Contains(t, dot, "digraph G")
	assert.Contains(t, dot, "n0")
	assert.Contains(t, dot, "n0->n1")
	assert.Contains(t, dot, "Visits")

	assert.GreaterOrEqual(t, len(tree.ToDot(true)), len(dot))
}
