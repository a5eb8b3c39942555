package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/treesearch/uct"
	"github.com/treesearch/uct/mcts"
	"gopkg.in/yaml.v3"
)

var (
	configPath  string
	iterations  int
	timeout     time.Duration
	seed        uint64
	expansion   string
	exploration float32
	verbose     bool

	conf uct.Config

	rootCmd = &cobra.Command{
		Use:   "tictactoe",
		Short: "Play m,n,k games against a Monte Carlo tree search",
		Long: `tictactoe plays tic tac toe (or any m,n,k game) with an UCT search
choosing the moves. Play against it, watch it play itself, or dump its search tree.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			setupLogging(verbose)
			if conf, err = loadConfig(cmd, configPath); err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			log.Debug().Interface("config", conf).Uint64("seed", seed).Msg("configuration loaded")
			return nil
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("tictactoe failed")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().IntVar(&iterations, "iterations", 0, "Maximum number of search iterations per move")
	rootCmd.PersistentFlags().DurationVar(&timeout, "time", 0, "Time budget per move (e.g. 500ms)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the search and the rollouts. Defaults to the clock")
	rootCmd.PersistentFlags().StringVar(&expansion, "expansion", "", "Child simulated after an expansion: first or random")
	rootCmd.PersistentFlags().Float32Var(&exploration, "exploration", 0, "Exploration constant of the UCB formula")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every move")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(selfPlayCmd)
	rootCmd.AddCommand(dotCmd)
	rootCmd.AddCommand(gtpCmd)
}

func setupLogging(verbose bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// loadConfig reads the configuration file, if any, on top of the defaults. Flags set on the command line win over
// the file.
func loadConfig(cmd *cobra.Command, path string) (uct.Config, error) {
	retVal := uct.DefaultConfig()
	retVal.Name = "Tic Tac Toe"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return retVal, errors.Wrapf(err, "unable to read %v", path)
		}
		if err = yaml.Unmarshal(data, &retVal); err != nil {
			return retVal, errors.Wrapf(err, "unable to parse %v", path)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		retVal.MCTSConf.Budget = iterations
	}
	if flags.Changed("time") {
		retVal.MCTSConf.Timeout = timeout
	}
	if flags.Changed("exploration") {
		retVal.MCTSConf.Exploration = exploration
	}
	if flags.Changed("expansion") {
		if err := retVal.MCTSConf.Expansion.UnmarshalText([]byte(expansion)); err != nil {
			return retVal, err
		}
	}
	if !retVal.IsValid() {
		return retVal, errors.Wrapf(mcts.ErrInvalidConfig, "%+v", retVal)
	}
	return retVal, nil
}
