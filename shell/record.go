package shell

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/domino14/rookery/bitboard"
	"github.com/domino14/rookery/position"
	"github.com/domino14/rookery/search"
)

// GameRecord is the yaml summary written at the end of a game.
type GameRecord struct {
	StartFEN    string       `yaml:"start_fen"`
	Human       string       `yaml:"human"`
	Depth       int          `yaml:"depth"`
	Moves       []string     `yaml:"moves"`
	EngineTurns []EngineTurn `yaml:"engine_turns,omitempty"`
	FinalFEN    string       `yaml:"final_fen"`
	Result      string       `yaml:"result"`
	Method      string       `yaml:"method,omitempty"`
}

type EngineTurn struct {
	Ply     int      `yaml:"ply"`
	Move    string   `yaml:"move"`
	Index   int      `yaml:"index"`
	Seconds float64  `yaml:"seconds"`
	Scores  []int    `yaml:"scores"`
	Line    []string `yaml:"line"`
}

func newGameRecord(startFEN string, human bitboard.Color, depth int) *GameRecord {
	return &GameRecord{StartFEN: startFEN, Human: human.String(), Depth: depth}
}

func (r *GameRecord) addEngineTurn(ply int, mv string, idx int, elapsed time.Duration, trace search.Trace) {
	r.EngineTurns = append(r.EngineTurns, EngineTurn{
		Ply:     ply,
		Move:    mv,
		Index:   idx,
		Seconds: elapsed.Seconds(),
		Scores:  trace.Scores,
		Line:    trace.Moves,
	})
}

func (r *GameRecord) finish(pos *position.Position) {
	r.Moves = pos.History()
	r.FinalFEN = pos.Key()
	r.Result = pos.Outcome().String()
	if pos.Outcome().Terminal() {
		r.Method = pos.Method()
	}
}

func (r *GameRecord) Write(path string) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing game record: %w", err)
	}
	return nil
}
