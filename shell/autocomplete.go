package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/rookery/timing"
)

// ShellCompleter completes command names, help topics and the operations
// of the time command.
type ShellCompleter struct{}

func NewShellCompleter() *ShellCompleter {
	return &ShellCompleter{}
}

var argCompletions = map[string][]string{
	"help": {"time"},
	"time": timing.Operations(),
}

// Do implements the readline.AutoComplete interface.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !endsWithSpace):
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	case len(fields) == 1 || (len(fields) == 2 && !endsWithSpace):
		if !endsWithSpace {
			prefix = fields[1]
		}
		completions = argCompletions[fields[0]]
	default:
		return nil, 0
	}

	var out [][]rune
	for _, cand := range completions {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]+" "))
		}
	}
	return out, len(prefix)
}
