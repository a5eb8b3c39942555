package mcts

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/treesearch/uct/game"
	"golang.org/x/exp/rand"
)

// Config is the structure to configure the MCTS tree
type Config struct {
	// Exploration is the constant C in the UCB formula. Higher values favour less visited children.
	Exploration float32 `yaml:"exploration"`

	// Budget and Timeout are the iteration and time budgets used by callers that don't pass their own to Search.
	Budget  int           `yaml:"budget"`
	Timeout time.Duration `yaml:"timeout"`

	// MinReward and MaxReward bound the rewards the adapter may return from a simulation.
	MinReward float32 `yaml:"min_reward"`
	MaxReward float32 `yaml:"max_reward"`

	Expansion ExpansionPolicy `yaml:"expansion"`
}

func DefaultConfig() Config {
	return Config{
		Exploration: DefaultExploration,
		Budget:      defaultBudget,
		Timeout:     900 * time.Millisecond,
		MinReward:   defaultMinReward,
		MaxReward:   defaultMaxReward,
		Expansion:   FirstChild,
	}
}

func (c Config) IsValid() bool {
	return c.Exploration >= 0 && !math32.IsInf(c.Exploration, 0) &&
		c.Budget > 0 && c.Timeout > 0 &&
		c.MinReward <= c.MaxReward &&
		c.Expansion >= FirstChild && c.Expansion < MAXEXPANSIONPOLICY
}

// Option configures the ambient dependencies of a tree.
type Option func(o *options)

type options struct {
	rand   *rand.Rand
	logger zerolog.Logger
}

// WithRand sets the source of randomness used to break ties. A seeded source makes searches reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithSeed is WithRand with a freshly seeded source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger of the tree. By default the global zerolog logger is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// MCTS is the search tree. The goal is to build MCTS without much pointer chasing: nodes live in a single arena
// and refer to each other by index.
//
// A MCTS is not safe for concurrent use.
type MCTS[S any] struct {
	Config
	adapter Adapter[S]
	rand    *rand.Rand
	logger  zerolog.Logger

	// memory related fields
	nodes    []Node[S]
	children [][]naughty
	root     naughty

	// scratch space for scoring and tie breaking
	scores []float32
	ties   []int

	lumberjack
}

// New creates a search tree rooted at the initial state and expands the root.
//
// The initial state must not be terminal and must have at least one successor.
func New[S any](initial S, adapter Adapter[S], conf Config, opts ...Option) (*MCTS[S], error) {
	if adapter == nil {
		return nil, errors.WithMessage(ErrAdapterContract, "no adapter")
	}
	if !conf.IsValid() {
		return nil, errors.Wrapf(ErrInvalidConfig, "%+v", conf)
	}

	o := options{logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	t := &MCTS[S]{
		Config:  conf,
		adapter: adapter,
		rand:    o.rand,
		logger:  o.logger,

		nodes:    make([]Node[S], 0, 1024),
		children: make([][]naughty, 0, 1024),
		root:     nilNode,

		lumberjack: makeLumberJack(),
	}
	t.root = t.alloc(initial, nilNode)
	if t.nodeFromNaughty(t.root).terminal {
		return nil, ErrTerminalRoot
	}
	if err := t.expandNode(t.root); err != nil {
		return nil, errors.WithMessage(err, "unable to expand root")
	}
	return t, nil
}

// alloc allocates a new node for the state into the master arena. This is the only place nodes are created.
func (t *MCTS[S]) alloc(state S, parent naughty) naughty {
	id := naughty(len(t.nodes))
	t.nodes = append(t.nodes, Node[S]{
		state:    state,
		player:   t.adapter.Player(state),
		terminal: t.adapter.IsTerminal(state),
		id:       id,
		parent:   parent,
	})
	t.children = append(t.children, nil)
	return id
}

// nodeFromNaughty gets the node given the pointer. The returned pointer is only valid until the next alloc.
func (t *MCTS[S]) nodeFromNaughty(ptr naughty) *Node[S] { return &t.nodes[int(ptr)] }

// Nodes returns the number of nodes in the tree.
func (t *MCTS[S]) Nodes() int { return len(t.nodes) }

// Root returns the root node. Nodes returned by the tree are only valid until the tree next grows.
func (t *MCTS[S]) Root() *Node[S] { return t.nodeFromNaughty(t.root) }

// Children returns the children of the node in the order they were generated.
func (t *MCTS[S]) Children(of *Node[S]) []*Node[S] {
	kids := t.children[of.id]
	retVal := make([]*Node[S], 0, len(kids))
	for _, kid := range kids {
		retVal = append(retVal, t.nodeFromNaughty(kid))
	}
	return retVal
}

// Parent returns the parent of the node, or nil for the root.
func (t *MCTS[S]) Parent(of *Node[S]) *Node[S] {
	if !of.parent.isValid() {
		return nil
	}
	return t.nodeFromNaughty(of.parent)
}

// rootPlayer is the player whose point of view all rewards are expressed in.
func (t *MCTS[S]) rootPlayer() game.Player { return t.nodes[t.root].player }
