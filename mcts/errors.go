package mcts

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAdapterContract is returned when the adapter fails or answers outside of its contract.
	ErrAdapterContract = errors.New("adapter contract violation")

	// ErrEmptyExpansion is returned when a non-terminal state has no successors.
	ErrEmptyExpansion = errors.New("non-terminal state has no successors")

	// ErrInvalidBudget is returned when a search is asked to run for no iterations or no time.
	ErrInvalidBudget = errors.New("invalid search budget")

	// ErrTerminalRoot is returned when a search is rooted at a terminal state.
	ErrTerminalRoot = errors.New("initial state is terminal")

	// ErrInvalidConfig is returned by New when the Config is not valid.
	ErrInvalidConfig = errors.New("invalid config")
)

type invalidExpansion string

func (err invalidExpansion) Error() string {
	return fmt.Sprintf("unknown expansion policy %q", string(err))
}

// rewardError describes a reward that falls outside of the configured range.
type rewardError struct {
	reward   float32
	min, max float32
}

func (err rewardError) Error() string {
	return fmt.Sprintf("reward %v is outside of [%v, %v]", err.reward, err.min, err.max)
}
