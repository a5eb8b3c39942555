package mcts

import (
	"fmt"

	"github.com/treesearch/uct/game"
)

type Node[S any] struct {
	state  S
	player game.Player // the player to move at state

	visits uint32  // visits to this node - n in the literature
	total  float32 // accumulated rewards, always from the root player's point of view - t in the literature

	expanded bool
	terminal bool

	// naughty things
	id     naughty // index to the children allocation
	parent naughty
}

func (n *Node[S]) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Player: %v Visits: %v Reward: %v Expanded: %t Terminal: %t}", n.id, n.player, n.visits, n.total, n.expanded, n.terminal)
}

// ID returns the handle of the node in its tree.
func (n *Node[S]) ID() int { return int(n.id) }

// State returns the state the node wraps.
func (n *Node[S]) State() S { return n.state }

// Player returns the player to move at the node's state.
func (n *Node[S]) Player() game.Player { return n.player }

func (n *Node[S]) Visits() uint32 { return n.visits }

// Reward returns the accumulated reward, expressed from the perspective of the root's player.
func (n *Node[S]) Reward() float32 { return n.total }

// Mean returns the average reward of the node. An unvisited node has a mean of 0.
func (n *Node[S]) Mean() float32 {
	if n.visits == 0 {
		return 0
	}
	return n.total / float32(n.visits)
}

// IsNotVisited returns true if this node hasn't ever been visited
func (n *Node[S]) IsNotVisited() bool { return n.visits == 0 }

// IsExpanded returns true once the children of the node have been generated.
func (n *Node[S]) IsExpanded() bool { return n.expanded }

// IsTerminal returns true if the node's state ends the search space.
func (n *Node[S]) IsTerminal() bool { return n.terminal }

// IsRoot returns true if the node has no parent.
func (n *Node[S]) IsRoot() bool { return n.parent == nilNode }

// IsLeaf returns true if selection stops at this node.
func (n *Node[S]) IsLeaf() bool { return n.terminal || !n.expanded }

// update folds a reward into the node's statistics.
func (n *Node[S]) update(reward float32) {
	n.visits++
	n.total += reward
}
