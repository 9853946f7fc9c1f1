// Package search picks moves by exhaustive fixed-depth minimax over a
// gametree.
//
// Scores are never negated between plies. A node's score is already the
// desirability of its position to the opponent of the player who just
// moved, so at every level the child with the lowest score is preferred.
package search

import (
	"github.com/domino14/rookery/gametree"
)

// SentinelScore is the starting best score. Every real score is at most
// this, but a child must beat it strictly to be chosen.
const SentinelScore = 5000

// GetMove returns the node's own score and the index of its best child.
// Terminal nodes and depth < 1 return index 0 without expanding anything.
// Ties go to the lowest index.
func GetMove(node *gametree.Node, depth int) (int, int, error) {
	if node.Outcome().Terminal() || depth < 1 {
		return node.Score(), 0, nil
	}
	children, err := node.Children()
	if err != nil {
		return 0, 0, err
	}
	best, bestIdx := SentinelScore, 0
	for i, child := range children {
		score, _, err := GetMove(child, depth-1)
		if err != nil {
			return 0, 0, err
		}
		if score < best {
			best, bestIdx = score, i
		}
	}
	return node.Score(), bestIdx, nil
}

// GetMoveWithTrace behaves like GetMove and also returns the principal
// variation it followed, starting with the node itself.
func GetMoveWithTrace(node *gametree.Node, depth int) (Trace, int, error) {
	self := Trace{Scores: []int{node.Score()}, Moves: []string{node.MoveString()}}
	if node.Outcome().Terminal() || depth < 1 {
		return self, 0, nil
	}
	children, err := node.Children()
	if err != nil {
		return Trace{}, 0, err
	}
	best, bestIdx := Trace{Scores: []int{SentinelScore}}, 0
	for i, child := range children {
		t, _, err := GetMoveWithTrace(child, depth-1)
		if err != nil {
			return Trace{}, 0, err
		}
		if t.Scores[0] < best.Scores[0] {
			best, bestIdx = t, i
		}
	}
	return self.extend(best), bestIdx, nil
}
