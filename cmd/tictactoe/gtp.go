package main

import (
	"github.com/spf13/cobra"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/game/mnk"
	"github.com/treesearch/uct/internal/gtp"
)

const version = "0.1.0"

var gtpCmd = &cobra.Command{
	Use:   "gtp",
	Short: "Answer text protocol commands (boardsize, play, genmove...) on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		agent := uct.NewAgent[*mnk.MNK]("gtp", mnk.NewAdapter(seed), conf.MCTSConf, seed)
		e := gtp.New(mnk.TicTacToe(), agent, conf.Name, version, nil)
		return e.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}
