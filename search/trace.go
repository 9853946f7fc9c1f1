package search

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Trace is the line a search followed: the score and move of the searched
// node, then those of each chosen descendant. When no child beat the
// sentinel the line ends with SentinelScore and has no matching move.
type Trace struct {
	Scores []int
	Moves  []string
}

func (t Trace) extend(child Trace) Trace {
	return Trace{
		Scores: append(append([]int{}, t.Scores...), child.Scores...),
		Moves:  append(append([]string{}, t.Moves...), child.Moves...),
	}
}

// String renders the trace as the shell's debug line:
// "[scores] [moves]".
func (t Trace) String() string {
	scores := lo.Map(t.Scores, func(s int, _ int) string { return fmt.Sprint(s) })
	return fmt.Sprintf("[%s] [%s]", strings.Join(scores, " "), strings.Join(t.Moves, " "))
}

// PV lists the trace move by move, one line each.
func (t Trace) PV() string {
	var sb strings.Builder
	for i, m := range t.Moves {
		fmt.Fprintf(&sb, "%d: %s (%d)\n", i, m, t.Scores[i])
	}
	return sb.String()
}
