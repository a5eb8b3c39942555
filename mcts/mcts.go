package mcts

import "github.com/treesearch/uct/game"

// Adapter describes a state space to the search. It is the only thing the search knows about the domain.
//
// S is opaque to the search: states are stored in the tree and handed back to the adapter, never inspected or mutated.
type Adapter[S any] interface {
	// Player returns the actor to move at the given state. It is used to tag nodes for the perspective correction
	// during selection, and nothing else.
	Player(state S) game.Player

	// IsTerminal returns true if no further transitions from the state are meaningful. It must be idempotent.
	IsTerminal(state S) bool

	// Successors returns every immediate successor of the state. Only terminal states may have no successors.
	Successors(state S) ([]S, error)

	// Simulate plays the state forwards until it reaches a terminal state and returns the reward of that
	// outcome for the given player (the player to move at the root of the search).
	Simulate(state S, perspective game.Player) (float32, error)
}

const (
	// DefaultExploration is the exploration constant C of the UCB formula.
	DefaultExploration float32 = 2

	defaultBudget    = 10000
	defaultMinReward = -1
	defaultMaxReward = 1
)

// ExpansionPolicy decides which of the freshly created children of an expanded node gets simulated.
type ExpansionPolicy int

const (
	// FirstChild simulates the first successor the adapter generated.
	FirstChild ExpansionPolicy = iota
	// RandomChild simulates a uniformly chosen successor.
	RandomChild
	MAXEXPANSIONPOLICY
)

func (p ExpansionPolicy) String() string {
	switch p {
	case FirstChild:
		return "first"
	case RandomChild:
		return "random"
	}
	return "UNKNOWN EXPANSION POLICY"
}

// MarshalText implements encoding.TextMarshaler so the policy can live in config files.
func (p ExpansionPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ExpansionPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "first":
		*p = FirstChild
	case "random":
		*p = RandomChild
	default:
		return invalidExpansion(string(text))
	}
	return nil
}
