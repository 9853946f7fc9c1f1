// Package position wraps the chess rules engine in an immutable position
// type carrying everything the scorer and the game tree need: legal moves,
// outcome, a canonical key and a bitboard snapshot.
package position

import (
	"github.com/notnil/chess"
	"github.com/samber/lo"

	"github.com/domino14/rookery/bitboard"
)

// NullMove is how the move that produced a root position is rendered.
const NullMove = "0000"

// Outcome is the terminal classification of a position.
type Outcome int8

const (
	NoOutcome Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	}
	return "*"
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool {
	return o != NoOutcome
}

// Winner returns the winning color; ok is false for draws and open games.
func (o Outcome) Winner() (c bitboard.Color, ok bool) {
	switch o {
	case WhiteWins:
		return bitboard.White, true
	case BlackWins:
		return bitboard.Black, true
	}
	return bitboard.White, false
}

// Position is a game state after zero or more moves. It owns a private
// clone of the rules engine's game, so the move history needed for
// repetition draws travels with it.
type Position struct {
	game    *chess.Game
	board   *bitboard.Board
	outcome Outcome
}

// New returns the standard starting position.
func New() *Position {
	return newPosition(chess.NewGame())
}

// FromFEN parses a position in Forsyth-Edwards notation.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return newPosition(chess.NewGame(opt)), nil
}

func newPosition(g *chess.Game) *Position {
	return &Position{
		game:    g,
		board:   snapshot(g.Position().Board()),
		outcome: outcomeOf(g.Outcome()),
	}
}

func outcomeOf(o chess.Outcome) Outcome {
	switch o {
	case chess.WhiteWon:
		return WhiteWins
	case chess.BlackWon:
		return BlackWins
	case chess.Draw:
		return Draw
	}
	return NoOutcome
}

var pieceTypes = map[chess.PieceType]bitboard.PieceType{
	chess.Pawn:   bitboard.Pawn,
	chess.Knight: bitboard.Knight,
	chess.Bishop: bitboard.Bishop,
	chess.Rook:   bitboard.Rook,
	chess.Queen:  bitboard.Queen,
	chess.King:   bitboard.King,
}

func colorOf(c chess.Color) bitboard.Color {
	if c == chess.Black {
		return bitboard.Black
	}
	return bitboard.White
}

func snapshot(b *chess.Board) *bitboard.Board {
	bb := &bitboard.Board{}
	for sq, p := range b.SquareMap() {
		bb.Put(bitboard.Square(sq), pieceTypes[p.Type()], colorOf(p.Color()))
	}
	return bb
}

// Apply returns the position reached by playing m. The receiver is left
// untouched.
func (p *Position) Apply(m *chess.Move) (*Position, error) {
	if m == nil {
		return nil, &IllegalMoveError{Move: NullMove, FEN: p.Key()}
	}
	g := p.game.Clone()
	if err := g.Move(m); err != nil {
		return nil, &IllegalMoveError{Move: m.String(), FEN: p.Key()}
	}
	return newPosition(g), nil
}

// ParseMove resolves a UCI string to one of the legal moves.
func (p *Position) ParseMove(uci string) (*chess.Move, error) {
	m, found := lo.Find(p.LegalMoves(), func(m *chess.Move) bool {
		return m.String() == uci
	})
	if !found {
		return nil, &IllegalMoveError{Move: uci, FEN: p.Key()}
	}
	return m, nil
}

// IsLegal reports whether m is one of the legal moves of the position.
func (p *Position) IsLegal(m *chess.Move) bool {
	if m == nil {
		return false
	}
	return lo.ContainsBy(p.LegalMoves(), func(lm *chess.Move) bool {
		return lm.S1() == m.S1() && lm.S2() == m.S2() && lm.Promo() == m.Promo()
	})
}

// LegalMoves are returned in the rules engine's enumeration order, which is
// stable for a given position.
func (p *Position) LegalMoves() []*chess.Move {
	return p.game.ValidMoves()
}

func (p *Position) Outcome() Outcome {
	return p.outcome
}

// Method names how the game ended (checkmate, stalemate, ...).
func (p *Position) Method() string {
	return p.game.Method().String()
}

// Key is the canonical, collision-free encoding of the position: the full
// FEN including side to move, castling rights, en passant square and
// move counters.
func (p *Position) Key() string {
	return p.game.Position().String()
}

// Turn is the side to move.
func (p *Position) Turn() bitboard.Color {
	return colorOf(p.game.Position().Turn())
}

// Board is the bitboard snapshot of the piece placement. Callers must not
// modify it.
func (p *Position) Board() *bitboard.Board {
	return p.board
}

// PieceAt is the piece type on sq, NoPieceType if empty.
func (p *Position) PieceAt(sq chess.Square) bitboard.PieceType {
	return pieceTypes[p.game.Position().Board().Piece(sq).Type()]
}

// Draw renders the board for display.
func (p *Position) Draw() string {
	return p.game.Position().Board().Draw()
}

// History lists every move played from the initial position, in UCI.
func (p *Position) History() []string {
	return lo.Map(p.game.Moves(), func(m *chess.Move, _ int) string {
		return m.String()
	})
}

// MoveString renders m in UCI notation, NullMove for nil.
func MoveString(m *chess.Move) string {
	if m == nil {
		return NullMove
	}
	return m.String()
}
