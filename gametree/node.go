// Package gametree holds the lazily expanded game tree searched by the
// engine.
package gametree

import (
	"fmt"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/domino14/rookery/position"
)

// Scorer assigns the static score a node carries from construction.
type Scorer interface {
	Score(pos *position.Position) (int, error)
}

// A Node is a position together with the move that reached it. Its outcome
// and score are fixed when it is built; its children are built on first
// request and kept.
type Node struct {
	move     *chess.Move
	pos      *position.Position
	outcome  position.Outcome
	score    int
	scorer   Scorer
	children []*Node
	expanded bool
}

// NewRoot builds a node for pos itself, reached by no move.
func NewRoot(pos *position.Position, scorer Scorer) (*Node, error) {
	return newNode(nil, pos, scorer)
}

// NewChild builds the node reached by playing mv in parent. mv must be legal
// in parent.
func NewChild(parent *position.Position, mv *chess.Move, scorer Scorer) (*Node, error) {
	if !parent.IsLegal(mv) {
		return nil, &InvalidMoveError{Move: position.MoveString(mv), FEN: parent.Key()}
	}
	pos, err := parent.Apply(mv)
	if err != nil {
		return nil, &InvalidMoveError{Move: position.MoveString(mv), FEN: parent.Key()}
	}
	return newNode(mv, pos, scorer)
}

func newNode(mv *chess.Move, pos *position.Position, scorer Scorer) (*Node, error) {
	score, err := scorer.Score(pos)
	if err != nil {
		return nil, fmt.Errorf("scoring %s: %w", pos.Key(), err)
	}
	return &Node{
		move:    mv,
		pos:     pos,
		outcome: pos.Outcome(),
		score:   score,
		scorer:  scorer,
	}, nil
}

// Children returns one node per legal move, in the rules engine's order.
// They are built on the first call; later calls return the same nodes. If
// any child fails to build, the node stays unexpanded.
func (n *Node) Children() ([]*Node, error) {
	if n.expanded {
		return n.children, nil
	}
	moves := n.pos.LegalMoves()
	children := make([]*Node, 0, len(moves))
	for _, m := range moves {
		c, err := NewChild(n.pos, m, n.scorer)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	log.Debug().Str("node", n.MoveString()).Int("children", len(children)).Msg("expanded")
	n.children = children
	n.expanded = true
	return n.children, nil
}

// Child returns the i-th child, expanding the node if needed.
func (n *Node) Child(i int) (*Node, error) {
	children, err := n.Children()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(children) {
		return nil, fmt.Errorf("child %d out of range, node has %d", i, len(children))
	}
	return children[i], nil
}

// Copy returns an unexpanded node for the same position and move. Positions
// are immutable, so the copy shares nothing that either node can change.
func (n *Node) Copy() *Node {
	return &Node{
		move:    n.move,
		pos:     n.pos,
		outcome: n.outcome,
		score:   n.score,
		scorer:  n.scorer,
	}
}

func (n *Node) Move() *chess.Move {
	return n.move
}

// MoveString is the move in UCI notation, "0000" for a root.
func (n *Node) MoveString() string {
	return position.MoveString(n.move)
}

func (n *Node) Position() *position.Position {
	return n.pos
}

func (n *Node) Outcome() position.Outcome {
	return n.outcome
}

func (n *Node) Score() int {
	return n.score
}

func (n *Node) Expanded() bool {
	return n.expanded
}

func (n *Node) String() string {
	if n.move == nil {
		return fmt.Sprintf("(root) %s", n.pos.Key())
	}
	return fmt.Sprintf("(%s for %d) %s", n.move, n.score, n.pos.Key())
}
