package mcts

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

/*
Here lies the MCTS search code, while node.go and tree.go handles the data structure stuff.

Every iteration of the search is a pipeline:
	SELECT, EXPAND (lazily), SIMULATE, BACKPROPAGATE.

A leaf is only expanded the second time it is selected. On its first visit it is simulated directly.
*/

// Search runs at most maxIterations iterations of the search, stopping early once timeBudget has elapsed or ctx is
// done. Both are only checked between iterations, so a slow simulation may overshoot the budget. At least one
// iteration is always performed.
//
// It returns the state of the most visited child of the root, and the number of iterations actually performed.
func (t *MCTS[S]) Search(ctx context.Context, maxIterations int, timeBudget time.Duration) (retVal S, iterations int, err error) {
	if maxIterations < 1 || timeBudget <= 0 {
		return retVal, 0, errors.Wrapf(ErrInvalidBudget, "%d iterations in %v", maxIterations, timeBudget)
	}
	if err = ctx.Err(); err != nil {
		return retVal, 0, err
	}

	start := time.Now()
	for iterations < maxIterations {
		if iterations > 0 && (time.Since(start) > timeBudget || ctx.Err() != nil) {
			break
		}
		if err = t.iterate(); err != nil {
			return retVal, iterations, errors.WithMessagef(err, "iteration %d", iterations)
		}
		iterations++
	}

	best := t.nodeFromNaughty(t.bestMove())
	t.logger.Debug().
		Int("iterations", iterations).
		Int("nodes", len(t.nodes)).
		Dur("elapsed", time.Since(start)).
		Int("best", best.ID()).
		Uint32("visits", best.visits).
		Msg("search done")
	return best.state, iterations, nil
}

// iterate runs one full SELECT, EXPAND, SIMULATE, BACKPROPAGATE pipeline.
func (t *MCTS[S]) iterate() error {
	leaf := t.selectLeaf()
	n := t.nodeFromNaughty(leaf)
	if !n.IsNotVisited() && !n.terminal {
		var err error
		if leaf, err = t.expand(leaf); err != nil {
			return err
		}
	}

	reward, err := t.simulate(leaf)
	if err != nil {
		return err
	}
	t.backpropagate(leaf, reward)
	return nil
}

// selectLeaf descends from the root, following the best child, until it finds a node that is either terminal or
// not yet expanded.
func (t *MCTS[S]) selectLeaf() naughty {
	current := t.root
	for n := t.nodeFromNaughty(current); !n.IsLeaf(); n = t.nodeFromNaughty(current) {
		current = t.bestChild(current)
	}
	t.log("SELECT %v", t.nodeFromNaughty(current))
	return current
}

// bestChild returns the child with the highest upper confidence bound.
//
// Rewards are accumulated from the root player's point of view. When the player choosing amongst the children is
// not the root player, the rewards are negated so that each player maximises their own outcome. This assumes
// that players strictly alternate.
func (t *MCTS[S]) bestChild(of naughty) naughty {
	n := t.nodeFromNaughty(of)
	var multiplier float32 = 1
	if n.player != t.rootPlayer() {
		multiplier = -1
	}

	kids := t.children[of]
	scores := t.scores[:0]
	for _, kid := range kids {
		child := t.nodeFromNaughty(kid)
		scores = append(scores, UCB(child.total*multiplier, child.visits, n.visits, t.Exploration))
	}
	t.scores = scores
	return kids[t.argmaxRandom(scores)]
}

// expand generates the children of a non-terminal node and returns the child to simulate.
//
// A node whose state has no successors is flagged as terminal and returned as is.
func (t *MCTS[S]) expand(of naughty) (naughty, error) {
	if err := t.expandNode(of); err != nil {
		if errors.Cause(err) != ErrEmptyExpansion {
			return nilNode, err
		}
		n := t.nodeFromNaughty(of)
		t.logger.Warn().Int("node", n.ID()).Uint32("visits", n.visits).Msg("no successors for a non-terminal state, treating it as terminal")
		n.terminal = true
		return of, nil
	}

	kids := t.children[of]
	switch t.Expansion {
	case RandomChild:
		return kids[t.rand.Intn(len(kids))], nil
	default:
		return kids[0], nil
	}
}

// expandNode allocates a child for every successor of the node's state, in the order the adapter generated them.
func (t *MCTS[S]) expandNode(of naughty) error {
	n := t.nodeFromNaughty(of)
	if n.terminal || n.expanded {
		return nil
	}

	states, err := t.adapter.Successors(n.state)
	if err != nil {
		return errors.Wrapf(ErrAdapterContract, "successors of node %d: %v", of, err)
	}
	if len(states) == 0 {
		return errors.Wrapf(ErrEmptyExpansion, "node %d", of)
	}

	kids := make([]naughty, 0, len(states))
	for _, s := range states {
		kids = append(kids, t.alloc(s, of)) // alloc may move the arena. n is stale from here on
	}
	t.children[of] = kids
	t.nodeFromNaughty(of).expanded = true
	t.log("EXPAND %v: %d children", t.nodeFromNaughty(of), len(kids))
	return nil
}

// simulate asks the adapter to play out the node's state and validates the reward it returns.
func (t *MCTS[S]) simulate(of naughty) (float32, error) {
	n := t.nodeFromNaughty(of)
	reward, err := t.adapter.Simulate(n.state, t.rootPlayer())
	if err != nil {
		return 0, errors.Wrapf(ErrAdapterContract, "simulation of node %d: %v", of, err)
	}
	if !isFinite(reward) || reward < t.MinReward || reward > t.MaxReward {
		return 0, errors.Wrapf(ErrAdapterContract, "simulation of node %d: %v", of, rewardError{reward, t.MinReward, t.MaxReward})
	}
	t.log("SIMULATE %v: %v", n, reward)
	return reward, nil
}

// backpropagate folds the reward into the node and every one of its ancestors.
func (t *MCTS[S]) backpropagate(from naughty, reward float32) {
	for n := from; n.isValid(); n = t.nodeFromNaughty(n).parent {
		t.nodeFromNaughty(n).update(reward)
	}
}

// bestMove returns the most visited child of the root. Ties are broken uniformly at random.
func (t *MCTS[S]) bestMove() naughty {
	kids := t.children[t.root]
	var most uint32
	ties := t.ties[:0]
	for i, kid := range kids {
		visits := t.nodeFromNaughty(kid).visits
		switch {
		case visits > most || len(ties) == 0:
			most = visits
			ties = append(ties[:0], i)
		case visits == most:
			ties = append(ties, i)
		}
	}
	t.ties = ties
	return kids[ties[t.rand.Intn(len(ties))]]
}
