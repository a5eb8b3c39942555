package c4

import "github.com/pkg/errors"

var (
	errColumnFull       = errors.New("Selected column is full")
	errColumnOutOfRange = errors.New("Selected column is off the board")
)
