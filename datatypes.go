package uct

import (
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/mcts"
)

// Config is the configuration of a match.
type Config struct {
	Name     string      `yaml:"name"`
	MCTSConf mcts.Config `yaml:"mcts"`

	// Games is the number of games a Match plays.
	Games int `yaml:"games"`

	// StatsFile is where the statistics are dumped as CSV after a match. Empty means no dump.
	StatsFile string `yaml:"stats_file"`
}

// DefaultConfig returns a configuration for a single game, with the default search configuration.
func DefaultConfig() Config {
	return Config{
		Name:     "UNKNOWN GAME",
		MCTSConf: mcts.DefaultConfig(),
		Games:    1,
	}
}

func (c Config) IsValid() bool { return c.Games > 0 && c.MCTSConf.IsValid() }

// Domain is a game that can be searched and refereed: on top of what the search needs, it also has to tell who
// won.
type Domain[S any] interface {
	mcts.Adapter[S]

	// Ended reports whether the game in the given state is over, and its winner. A draw has no winner.
	Ended(state S) (ended bool, winner game.Player)
}

// MetaState is the state of a game being played in an arena.
type MetaState[S any] interface {
	Name() string
	GameNumber() int
	State() S
}

// OutputEncoder encodes the entire meta state as whatever. It's called after every move of a game.
//
// An example OutputEncoder prints the board. Another example would be a logger.
type OutputEncoder[S any] interface {
	Encode(ms MetaState[S]) error
	Flush() error
}
