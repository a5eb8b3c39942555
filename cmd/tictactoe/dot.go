package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/game/mnk"
	"github.com/treesearch/uct/mcts"
)

var (
	dotOut   string
	dotAll   bool
	dotMoves []int

	dotCmd = &cobra.Command{
		Use:   "dot",
		Short: "Search once and write the search tree as a Graphviz graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := replay(mnk.TicTacToe(), dotMoves)
			if err != nil {
				return err
			}
			t, err := mcts.New[*mnk.MNK](g, mnk.NewAdapter(seed), conf.MCTSConf, mcts.WithSeed(seed))
			if err != nil {
				return err
			}
			if _, _, err = t.Search(cmd.Context(), conf.MCTSConf.Budget, conf.MCTSConf.Timeout); err != nil {
				return err
			}

			dot := t.ToDot(dotAll)
			if dotOut == "" {
				_, err = cmd.OutOrStdout().Write([]byte(dot))
				return err
			}
			return errors.WithStack(os.WriteFile(dotOut, []byte(dot), 0644))
		},
	}
)

func init() {
	dotCmd.Flags().StringVarP(&dotOut, "out", "o", "", "Output file. Defaults to stdout")
	dotCmd.Flags().BoolVar(&dotAll, "all", false, "Include the nodes that were never visited")
	dotCmd.Flags().IntSliceVar(&dotMoves, "moves", nil, "Moves (row major cell numbers) played before the search")
}

// replay plays the moves in order, alternating players.
func replay(g *mnk.MNK, moves []int) (*mnk.MNK, error) {
	for i, m := range moves {
		next, err := g.Apply(game.PlayerMove{Player: g.ToMove(), Single: game.Single(m)})
		if err != nil {
			return nil, errors.WithMessagef(err, "move %d", i)
		}
		g = next
	}
	return g, nil
}
