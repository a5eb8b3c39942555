package uct

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/treesearch/uct/mcts"
)

// Match is the top level structure and the entry point of the API. It plays a number of games between two
// searching agents, and keeps the statistics.
type Match[S any] struct {
	// state
	*Arena[S]
	Statistics

	// config
	conf Config
}

// New creates a match of the given domain, starting every game from initial. The seed drives the colour draws and
// the tie-breaks of both agents. The options are passed to every search.
func New[S any](initial S, domain Domain[S], conf Config, seed uint64, opts ...mcts.Option) (*Match[S], error) {
	if domain == nil {
		return nil, errors.Wrap(mcts.ErrAdapterContract, "no domain")
	}
	if !conf.IsValid() {
		return nil, errors.Wrapf(mcts.ErrInvalidConfig, "%+v", conf)
	}
	a := NewAgent("A", domain, conf.MCTSConf, seed+1, opts...)
	b := NewAgent("B", domain, conf.MCTSConf, seed+2, opts...)
	return &Match[S]{
		Arena:      NewArena(initial, domain, a, b, conf.Name, seed),
		Statistics: makeStatistics(),
		conf:       conf,
	}, nil
}

// Run plays all the games of the match, recording the statistics after each game. The encoder, if any, is flushed
// once all games are played. The statistics are dumped to the configured file, if any, even when the match is cut
// short.
func (m *Match[S]) Run(ctx context.Context, enc OutputEncoder[S]) (err error) {
	m.A.resetStats()
	m.B.resetStats()
	defer func() {
		if enc != nil {
			if flushErr := enc.Flush(); flushErr != nil && err == nil {
				err = errors.WithMessage(flushErr, "unable to flush")
			}
		}
		if m.conf.StatsFile == "" {
			return
		}
		if dumpErr := m.Dump(m.conf.StatsFile); dumpErr != nil && err == nil {
			err = errors.WithMessage(dumpErr, "unable to dump statistics")
		}
	}()

	for i := 0; i < m.conf.Games; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if _, err = m.Play(ctx, enc); err != nil {
			return errors.WithMessagef(err, "game %d", i)
		}
		m.update(m.A.Name(), m.A.Wins, m.A.Loss, m.A.Draw)
		m.update(m.B.Name(), m.B.Wins, m.B.Loss, m.B.Draw)
	}
	log.Info().
		Str("game", m.Name()).
		Float32("A wins", m.A.Wins).Float32("A loss", m.A.Loss).Float32("A draw", m.A.Draw).
		Float32("B wins", m.B.Wins).Float32("B loss", m.B.Loss).Float32("B draw", m.B.Draw).
		Msg("match over")
	return nil
}
