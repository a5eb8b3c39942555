package mcts

import (
	"github.com/chewxy/math32"
)

// UCB is the upper confidence bound of a node.
//
// The formula is:
//
//	UCB = value/n + c * sqrt(ln(N)/n)
//
// where
//
//	value = accumulated reward of the node, from the point of view of the player choosing the node
//	n     = visits to the node
//	N     = visits to the node's parent
//	c     = exploration constant
//
// A node that has never been visited has an infinite bound, so every child is tried once before any child is
// tried twice.
func UCB(value float32, n, N uint32, c float32) float32 {
	if n == 0 {
		return math32.Inf(1)
	}
	visits := float32(n)
	return value/visits + c*math32.Sqrt(math32.Log(float32(N))/visits)
}

// argmaxRandom returns the index of the largest score. Ties are broken uniformly at random.
// scores must not be empty.
func (t *MCTS[S]) argmaxRandom(scores []float32) int {
	best := math32.Inf(-1)
	ties := t.ties[:0]
	for i, s := range scores {
		switch {
		case s > best:
			best = s
			ties = append(ties[:0], i)
		case s == best:
			ties = append(ties, i)
		}
	}
	t.ties = ties
	if len(ties) == 1 {
		return ties[0]
	}
	return ties[t.rand.Intn(len(ties))]
}

func isFinite(f float32) bool { return !math32.IsNaN(f) && !math32.IsInf(f, 0) }
