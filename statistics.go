package uct

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics records the cumulative results of agents, one record per game.
type Statistics struct {
	Creation []string
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 64),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

func (s *Statistics) update(name string, wins, losses, draws float32) {
	if _, ok := s.Wins[name]; !ok {
		s.Creation = append(s.Creation, name)
	}

	s.Wins[name] = append(s.Wins[name], wins)
	s.Losses[name] = append(s.Losses[name], losses)
	s.Draws[name] = append(s.Draws[name], draws)
}

// WinRate is the latest win rate of the named agent.
func (s *Statistics) WinRate(name string) float32 {
	wins := s.Wins[name]
	if len(wins) == 0 {
		return 0
	}
	i := len(wins) - 1
	return winRate(wins[i], s.Losses[name][i], s.Draws[name][i])
}

// Dump writes the statistics as CSV: one row per record, with the wins, losses, draws and win rate of each agent.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return closeWith(f, s.write(f))
}

func (s *Statistics) write(f io.Writer) error {
	w := csv.NewWriter(f)
	header := []string{"game"}
	for _, agent := range s.Creation {
		header = append(header, agent+" wins", agent+" losses", agent+" draws", agent+" win rate")
	}
	if err := w.Write(header); err != nil {
		return errors.WithStack(err)
	}

	var rows int
	for _, agent := range s.Creation {
		if len(s.Wins[agent]) > rows {
			rows = len(s.Wins[agent])
		}
	}
	records := make([][]string, 0, rows)
	for j := 0; j < rows; j++ {
		record := []string{strconv.Itoa(j + 1)}
		for _, agent := range s.Creation {
			if j >= len(s.Wins[agent]) {
				record = append(record, "", "", "", "")
				continue
			}
			win, loss, draw := s.Wins[agent][j], s.Losses[agent][j], s.Draws[agent][j]
			record = append(record,
				formatFloat(win),
				formatFloat(loss),
				formatFloat(draw),
				strconv.FormatFloat(float64(winRate(win, loss, draw)), 'f', 3, 32),
			)
		}
		records = append(records, record)
	}
	// WriteAll flushes
	return errors.WithStack(w.WriteAll(records))
}

// closeWith closes c, keeping err if there was one. Otherwise the error from Close is returned.
func closeWith(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	return errors.WithStack(cerr)
}

func winRate(wins, losses, draws float32) float32 {
	total := wins + losses + draws
	if total == 0 {
		return 0
	}
	return wins / total
}

func formatFloat(f float32) string { return strconv.FormatFloat(float64(f), 'f', -1, 32) }
