//go:build !debug

package mcts

type lumberjack struct{}

func makeLumberJack() lumberjack { return lumberjack{} }

func (l lumberjack) log(msg string, args ...interface{}) {}

// ResetLog is a no-op in release builds.
func (l lumberjack) ResetLog() {}

// Log returns an empty string in release builds. Build with -tags debug to trace the search.
func (l lumberjack) Log() string { return "" }
