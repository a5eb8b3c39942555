package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/game"
	"github.com/treesearch/uct/game/mnk"
)

var (
	humanSide string

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play tic tac toe against the search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			human := mnk.Cross
			switch strings.ToUpper(humanSide) {
			case "X":
			case "O":
				human = mnk.Nought
			default:
				return errors.Errorf("unknown side %q, expected X or O", humanSide)
			}
			return play(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), conf, seed, human)
		},
	}
)

func init() {
	playCmd.Flags().StringVar(&humanSide, "as", "X", "Side of the human player: X or O. X moves first")
}

// play runs a game between a human reading from in and the search.
func play(ctx context.Context, in io.Reader, out io.Writer, conf uct.Config, seed uint64, human game.Player) error {
	domain := mnk.NewAdapter(seed)
	engine := uct.NewAgent[*mnk.MNK]("engine", domain, conf.MCTSConf, seed)
	engine.Player = game.Opponent(human)

	scanner := bufio.NewScanner(in)
	g := mnk.TicTacToe()
	for {
		printBoard(out, g)
		fmt.Fprintf(out, "Player %s's turn.\n", g.ToMove())

		if g.ToMove() == human {
			m, n := g.BoardSize()
			fmt.Fprintf(out, "Enter row and column (0-%d), format: row,col: ", min(m, n)-1)
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return errors.WithStack(scanner.Err())
			}
			move, msg := parseMove(scanner.Text(), g)
			if msg != "" {
				fmt.Fprintln(out, msg)
				continue
			}
			var err error
			if g, err = g.Apply(game.PlayerMove{Player: human, Single: move}); err != nil {
				return err
			}
		} else {
			next, iterations, err := engine.Search(ctx, g)
			if err != nil {
				return err
			}
			g = next
			fmt.Fprintln(out, "MCTS search completed, number of iterations:", iterations)
		}

		if ended, winner := g.Ended(); ended {
			printBoard(out, g)
			if winner == game.Player(game.None) {
				fmt.Fprintln(out, "It's a tie!")
			} else {
				fmt.Fprintf(out, "Player %s wins!\n", winner)
			}
			return nil
		}
	}
}

// parseMove parses a "row,col" line into a move on the board. When the line isn't a legal move, the returned
// message says why.
func parseMove(line string, g *mnk.MNK) (game.Single, string) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 2 {
		return mnk.NoMove, "Invalid input. Please enter in 'row,col' format."
	}
	row, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	col, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return mnk.NoMove, "Invalid input. Please enter in 'row,col' format."
	}

	m, n := g.BoardSize()
	if row < 0 || row >= m || col < 0 || col >= n {
		return mnk.NoMove, fmt.Sprintf("Row or column is out of range. Please enter values between 0 and %d.", min(m, n)-1)
	}
	move := g.Ltoi(game.Coord{X: int16(row), Y: int16(col)})
	if g.Board()[move] != game.None {
		return mnk.NoMove, "This position is already taken. Please choose another."
	}
	return move, ""
}

func printBoard(w io.Writer, g *mnk.MNK) {
	_, n := g.BoardSize()
	board := g.Board()
	for i := 0; i < len(board); i += n {
		cells := make([]string, n)
		for j, c := range board[i : i+n] {
			if c == game.None {
				cells[j] = " "
				continue
			}
			cells[j] = fmt.Sprintf("%s", c)
		}
		fmt.Fprintln(w, "  "+strings.Join(cells, "  |  "))
		fmt.Fprintln(w, strings.Repeat("-", 6*n-1))
	}
}
