package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/encoding/gif"
	"github.com/treesearch/uct/game/c4"
	"github.com/treesearch/uct/game/mnk"
)

var (
	games     int
	statsFile string
	show      bool
	gifFile   string
	gameName  string

	selfPlayCmd = &cobra.Command{
		Use:   "selfplay",
		Short: "Let the search play against itself",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("games") {
				conf.Games = games
			}
			if cmd.Flags().Changed("stats") {
				conf.StatsFile = statsFile
			}
			switch gameName {
			case "tictactoe":
				return selfPlay(cmd, conf, mnk.TicTacToe(), mnk.NewAdapter(seed))
			case "connect4":
				c := conf
				c.Name = "Connect 4"
				return selfPlay(cmd, c, c4.Connect4(), c4.NewAdapter(seed))
			}
			return errors.Errorf("unknown game %q, expected tictactoe or connect4", gameName)
		},
	}
)

func init() {
	selfPlayCmd.Flags().IntVarP(&games, "games", "n", 10, "Number of games to play")
	selfPlayCmd.Flags().StringVar(&statsFile, "stats", "", "Dump the statistics as CSV into this file")
	selfPlayCmd.Flags().BoolVar(&show, "show", false, "Print the board after every move")
	selfPlayCmd.Flags().StringVar(&gifFile, "gif", "", "Record the games as an animated GIF into this file")
	selfPlayCmd.Flags().StringVar(&gameName, "game", "tictactoe", "Game to play: tictactoe or connect4")
}

// selfPlay plays a match of the domain, printing or recording the games as the flags say.
func selfPlay[S gif.Game](cmd *cobra.Command, conf uct.Config, initial S, domain uct.Domain[S]) error {
	m, err := uct.New(initial, domain, conf, seed)
	if err != nil {
		return err
	}
	var encs encoders[S]
	if show {
		encs = append(encs, &boardPrinter[S]{w: cmd.OutOrStdout()})
	}
	var gifOut io.Closer
	if gifFile != "" {
		f, err := os.Create(gifFile)
		if err != nil {
			return errors.WithStack(err)
		}
		gifOut = f
		encs = append(encs, gif.NewEncoder[S](f, 600, 600))
	}
	err = m.Run(cmd.Context(), encs.encoder())
	if gifOut != nil {
		err = closeWith(gifOut, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "A: %v wins, %v losses, %v draws\n", m.A.Wins, m.A.Loss, m.A.Draw)
	fmt.Fprintf(cmd.OutOrStdout(), "B: %v wins, %v losses, %v draws\n", m.B.Wins, m.B.Loss, m.B.Draw)
	return nil
}

// closeWith closes c once the animation has been flushed. An earlier error wins over the one from Close.
func closeWith(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	return errors.WithStack(cerr)
}

// boardPrinter prints the board after every move.
type boardPrinter[S any] struct {
	w     io.Writer
	moves int
	game  int
}

func (p *boardPrinter[S]) Encode(ms uct.MetaState[S]) error {
	if ms.GameNumber() != p.game {
		p.game, p.moves = ms.GameNumber(), 0
	}
	p.moves++
	_, err := fmt.Fprintf(p.w, "%v game %d, move %d\n%v\n", ms.Name(), ms.GameNumber(), p.moves, ms.State())
	return err
}

func (p *boardPrinter[S]) Flush() error { return nil }

// encoders sends every move to all of its encoders.
type encoders[S any] []uct.OutputEncoder[S]

// encoder returns nil when there is nothing to encode to.
func (e encoders[S]) encoder() uct.OutputEncoder[S] {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e encoders[S]) Encode(ms uct.MetaState[S]) error {
	for _, enc := range e {
		if err := enc.Encode(ms); err != nil {
			return err
		}
	}
	return nil
}

func (e encoders[S]) Flush() error {
	for _, enc := range e {
		if err := enc.Flush(); err != nil {
			return err
		}
	}
	return nil
}
