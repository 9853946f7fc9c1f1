// Package shell runs an interactive game between a person and the engine.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/rookery/bitboard"
	"github.com/domino14/rookery/cache"
	"github.com/domino14/rookery/config"
	"github.com/domino14/rookery/equity"
	"github.com/domino14/rookery/gametree"
	"github.com/domino14/rookery/position"
	"github.com/domino14/rookery/search"
	"github.com/domino14/rookery/timing"
)

const (
	colorPrompt = "Play as (\"0\" for white, \"1\" for black): "
	movePrompt  = "Select a move by number from the list or type its uci: "
)

// LineReader is the part of a readline instance the shell uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

type ShellController struct {
	l   LineReader
	out io.Writer

	cfg     *config.Config
	cache   *cache.ScoreCache
	scorer  *equity.Scorer
	solver  *search.Solver
	harness *timing.Harness
	depth   int

	root   *gametree.Node
	human  bitboard.Color
	record *GameRecord
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// NewReadline builds the terminal line reader used by the shell binary.
func NewReadline(cfg *config.Config) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "\033[31mrookery>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    NewShellCompleter(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
}

func NewShellController(cfg *config.Config, c *cache.ScoreCache, l LineReader, out io.Writer) *ShellController {
	scorer := equity.NewScorer(c)
	solver := search.NewSolver(search.WithParallelism(cfg.GetInt(config.ConfigParallelism)))
	return &ShellController{
		l:       l,
		out:     out,
		cfg:     cfg,
		cache:   c,
		scorer:  scorer,
		solver:  solver,
		harness: timing.NewHarness(scorer, solver, cfg.GetInt(config.ConfigTimingIterations)),
		depth:   cfg.GetInt(config.ConfigDepth),
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Root is the node for the current position.
func (sc *ShellController) Root() *gametree.Node {
	return sc.root
}

func (sc *ShellController) startPosition() (*position.Position, error) {
	fen := sc.cfg.GetString(config.ConfigStartFEN)
	if fen == "" {
		return position.New(), nil
	}
	return position.FromFEN(fen)
}

// Play runs one game to the end. It returns nil when the game finishes or
// the player quits, and an error only for failures the game cannot go on
// from, such as a score cache that stopped persisting.
func (sc *ShellController) Play(ctx context.Context) error {
	pos, err := sc.startPosition()
	if err != nil {
		return fmt.Errorf("loading start position: %w", err)
	}
	sc.root, err = gametree.NewRoot(pos, sc.scorer)
	if err != nil {
		return err
	}

	sc.l.SetPrompt(colorPrompt)
	answer, err := sc.l.Readline()
	if err != nil {
		return nil
	}
	sc.human = bitboard.Black
	if strings.TrimSpace(answer) == "0" {
		sc.human = bitboard.White
	}
	sc.showMessage("")
	sc.record = newGameRecord(pos.Key(), sc.human, sc.depth)
	log.Info().Str("human", sc.human.String()).Int("depth", sc.depth).Msg("game-started")

	err = sc.loop(ctx)
	if errors.Is(err, errQuit) {
		err = nil
	}
	sc.finish()
	return err
}

func (sc *ShellController) loop(ctx context.Context) error {
	for {
		pos := sc.root.Position()
		if len(pos.LegalMoves()) == 0 || pos.Outcome().Terminal() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return errQuit
		}
		sc.showMessage(pos.Draw())

		var idx int
		var err error
		if pos.Turn() == sc.human {
			idx, err = sc.humanTurn(ctx)
		} else {
			idx, err = sc.engineTurn()
		}
		if err != nil {
			return err
		}
		next, err := sc.root.Child(idx)
		if err != nil {
			return err
		}
		sc.root = next
	}
}

func (sc *ShellController) humanTurn(ctx context.Context) (int, error) {
	ucis := lo.Map(sc.root.Position().LegalMoves(), func(m *chess.Move, _ int) string {
		return m.String()
	})
	sc.showMoves(ucis)
	sc.l.SetPrompt(movePrompt)
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return 0, errQuit
			}
			continue
		} else if err != nil {
			return 0, errQuit
		}
		line = strings.TrimSpace(line)
		sc.showMessage("")

		handled, err := sc.command(ctx, line)
		if err != nil {
			return 0, err
		}
		if handled {
			continue
		}

		idx, err := parseMoveChoice(line, ucis)
		if err != nil {
			sc.showMessage(err.Error())
			sc.showMoves(ucis)
			continue
		}
		return idx, nil
	}
}

func (sc *ShellController) showMoves(ucis []string) {
	items := lo.Map(ucis, func(u string, i int) string {
		return fmt.Sprintf("%d. %s", i, u)
	})
	sc.showMessage("[" + strings.Join(items, ", ") + "]")
}

// parseMoveChoice turns what the player typed into an index into moves.
// A number must be a valid index; anything else must be one of the moves.
func parseMoveChoice(choice string, moves []string) (int, error) {
	if n, err := strconv.Atoi(choice); err == nil {
		if n < 0 || n >= len(moves) {
			return 0, &InvalidUserInputError{
				Input:  choice,
				Reason: fmt.Sprintf("is out of range. Move must be between 0 and %d to be valid.", len(moves)-1),
			}
		}
		return n, nil
	}
	if idx := lo.IndexOf(moves, choice); idx >= 0 {
		return idx, nil
	}
	return 0, &InvalidUserInputError{
		Input:  strconv.Quote(choice),
		Reason: "is not a legal move. Please enter another move from the following list.",
	}
}

func (sc *ShellController) engineTurn() (int, error) {
	tstart := time.Now()
	trace, idx, err := sc.solver.GetMoveWithTrace(sc.root, sc.depth)
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(tstart)
	sc.showMessage(fmt.Sprintf("Evaluation time: %.7fs", elapsed.Seconds()))
	sc.showMessage(fmt.Sprintf("(Debug: %s %d )", trace, idx))
	sc.showMessage("")

	chosen, err := sc.root.Child(idx)
	if err != nil {
		return 0, err
	}
	sc.record.addEngineTurn(len(sc.root.Position().History()), chosen.MoveString(), idx, elapsed, trace)
	log.Debug().
		Str("move", chosen.MoveString()).
		Int("index", idx).
		Float64("time-elapsed-sec", elapsed.Seconds()).
		Msg("engine-moved")
	return idx, nil
}

func (sc *ShellController) finish() {
	pos := sc.root.Position()
	sc.showMessage(pos.Draw())
	sc.showMessage("[" + strings.Join(pos.History(), ", ") + "]")
	if pos.Outcome().Terminal() {
		sc.showMessage(fmt.Sprintf("%s (%s)", pos.Outcome(), pos.Method()))
	}
	sc.record.finish(pos)

	path := sc.cfg.GetString(config.ConfigRecordPath)
	if path == "" {
		return
	}
	if err := sc.record.Write(path); err != nil {
		sc.showError(err)
		return
	}
	log.Info().Str("path", path).Msg("wrote-game-record")
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

var commandNames = []string{"help", "time", "stats", "exit", "bye"}

// command runs line if it is a shell command. handled is false when line
// should be read as a move choice instead.
func (sc *ShellController) command(ctx context.Context, line string) (handled bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || !lo.Contains(commandNames, fields[0]) {
		return false, nil
	}
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return true, nil
	}
	switch cmd.cmd {
	case "help":
		if len(cmd.args) == 0 {
			usage(sc.out)
		} else {
			usageTopic(sc.out, cmd.args[0])
		}
	case "time":
		sc.timeOperation(ctx, cmd)
	case "stats":
		sc.showMessage(sc.cache.Stats().String())
	case "exit", "bye":
		return true, errQuit
	}
	return true, nil
}

func (sc *ShellController) timeOperation(ctx context.Context, cmd *shellcmd) {
	if len(cmd.args) == 0 {
		usageTopic(sc.out, "time")
		return
	}
	op, err := timing.ParseOperation(cmd.args[0])
	if err != nil {
		sc.showError(err)
		return
	}
	depth := sc.depth
	if len(cmd.args) > 1 {
		depth, err = strconv.Atoi(cmd.args[1])
		if err != nil {
			sc.showError(err)
			return
		}
	}
	res, err := sc.harness.Run(ctx, sc.root, op, depth)
	if err != nil {
		sc.showError(err)
		return
	}
	sc.showMessage(res.String())
	if err := res.Histogram(sc.out); err != nil {
		sc.showError(err)
	}
}
