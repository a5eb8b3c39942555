package uct

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/treesearch/uct/game"
	"golang.org/x/exp/rand"
)

// Arena plays two agents against each other.
type Arena[S any] struct {
	r       *rand.Rand
	initial S
	game    S
	domain  Domain[S]
	A, B    *Agent[S]

	// state
	currentPlayer *Agent[S]
	logger        zerolog.Logger

	name       string
	gameNumber int // which game is this in
}

// NewArena makes an arena for the given domain. Every game starts from initial. The two agents play the players
// given; which agent gets which player is drawn at the start of each game.
func NewArena[S any](initial S, domain Domain[S], a, b *Agent[S], name string, seed uint64) *Arena[S] {
	if name == "" {
		name = "UNKNOWN GAME"
	}
	return &Arena[S]{
		r:       rand.New(rand.NewSource(seed)),
		initial: initial,
		game:    initial,
		domain:  domain,
		A:       a,
		B:       b,
		logger:  log.Logger.With().Str("game", name).Logger(),
		name:    name,
	}
}

// WithLogger replaces the logger of the arena.
func (a *Arena[S]) WithLogger(logger zerolog.Logger) *Arena[S] {
	a.logger = logger.With().Str("game", a.name).Logger()
	return a
}

// Play plays a game from the initial state, and returns the winner. If it is a draw, the returned player is None.
//
// The encoder, if any, is given every move. Flushing it is left to the caller.
func (a *Arena[S]) Play(ctx context.Context, enc OutputEncoder[S]) (winner game.Player, err error) {
	first := a.domain.Player(a.initial)
	if a.r.Intn(2) == 0 {
		a.A.Player = first
		a.B.Player = game.Opponent(first)
	} else {
		a.A.Player = game.Opponent(first)
		a.B.Player = first
	}

	a.game = a.initial
	logger := a.logger.With().Int("number", a.gameNumber).Logger()
	logger.Info().Str("A", a.A.Player.String()).Str("B", a.B.Player.String()).Msg("playing")

	start := time.Now()
	var ended bool
	var moves int
	for ended, winner = a.domain.Ended(a.game); !ended; ended, winner = a.domain.Ended(a.game) {
		if a.currentPlayer, err = a.agentFor(a.domain.Player(a.game)); err != nil {
			return game.Player(game.None), err
		}

		var iterations int
		if a.game, iterations, err = a.currentPlayer.Search(ctx, a.game); err != nil {
			return game.Player(game.None), errors.WithMessagef(err, "move %d", moves)
		}
		moves++
		logger.Debug().
			Str("agent", a.currentPlayer.Name()).
			Str("player", a.currentPlayer.Player.String()).
			Int("iterations", iterations).
			Msg("moved")

		if enc != nil {
			if err = enc.Encode(a); err != nil {
				return game.Player(game.None), errors.WithMessage(err, "unable to encode")
			}
		}
	}

	switch {
	case winner == game.Player(game.None):
		a.A.Draw++
		a.B.Draw++
	case winner == a.A.Player:
		a.A.Wins++
		a.B.Loss++
	case winner == a.B.Player:
		a.B.Wins++
		a.A.Loss++
	}
	logger.Info().
		Str("winner", winner.String()).
		Int("moves", moves).
		Dur("elapsed", time.Since(start)).
		Msg("game over")
	a.gameNumber++
	return winner, nil
}

func (a *Arena[S]) GameNumber() int { return a.gameNumber }
func (a *Arena[S]) Name() string    { return a.name }
func (a *Arena[S]) State() S        { return a.game }

func (a *Arena[S]) agentFor(p game.Player) (*Agent[S], error) {
	switch p {
	case a.A.Player:
		return a.A, nil
	case a.B.Player:
		return a.B, nil
	}
	return nil, errors.Errorf("no agent plays %v", p)
}
