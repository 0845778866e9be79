// Package engine adapts third-party chess move generators to the action codec.
// Every backend exposes the same Position surface; the codec only ever sees
// actionspace.Move geometry.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gym-chess/actionspace"
)

var (
	// ErrUnknownBackend indicates a backend name that is not registered.
	ErrUnknownBackend = errors.New("unknown engine backend")

	// ErrInvalidFEN indicates a FEN string the backend refused.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move that is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Piece codes follow the usual 4-bit layout: type in the low three bits,
// bit 3 set for black.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

const pieceChars = ".PNBRQK..pnbrqk"

// Char returns the FEN letter of p, or '.' for an empty square.
func (p Piece) Char() byte {
	if int(p) >= len(pieceChars) {
		return '.'
	}
	return pieceChars[p]
}

// IsWhite reports whether p is a white piece.
func (p Piece) IsWhite() bool { return p != NoPiece && p&8 == 0 }

func makePiece(white bool, kind uint8) Piece {
	if kind == 0 {
		return NoPiece
	}
	if white {
		return Piece(kind)
	}
	return Piece(kind | 8)
}

// Squares is a board snapshot indexed [file][rank], matching actionspace.Coord.
type Squares [8][8]Piece

// At returns the piece on c.
func (s *Squares) At(c actionspace.Coord) Piece { return s[c.X][c.Y] }

// Move is a legal move of one backend: its codec geometry, UCI text and the
// backend's own move value.
type Move struct {
	Action actionspace.Move
	UCI    string
	native any
}

func (m Move) String() string { return m.UCI }

// Geometry returns the codec view of m. It is the extractor passed to
// actionspace.BuildIndex.
func Geometry(m Move) actionspace.Move { return m.Action }

// Position is the surface the environment needs from a chess engine.
type Position interface {
	// LegalMoves returns the legal moves of the side to move.
	LegalMoves() []Move
	// Apply plays a move obtained from LegalMoves.
	Apply(m Move) error
	InCheck() bool
	IsCheckmate() bool
	IsStalemate() bool
	WhiteToMove() bool
	FEN() string
	Squares() Squares
}

// Backend constructs a Position from a FEN string.
type Backend func(fen string) (Position, error)

var backends = map[string]Backend{
	"dragontooth": OpenDragontooth,
	"goose":       OpenGoose,
	"notnil":      OpenNotnil,
}

// DefaultBackend is the backend used when none is configured.
const DefaultBackend = "dragontooth"

// Backends returns the registered backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open builds a position on the named backend. An empty name selects
// DefaultBackend and an empty fen the initial position.
func Open(backend, fen string) (Position, error) {
	if backend == "" {
		backend = DefaultBackend
	}
	open, ok := backends[strings.ToLower(backend)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownBackend, backend, strings.Join(Backends(), ", "))
	}
	if strings.TrimSpace(fen) == "" {
		fen = StartFEN
	}
	p, err := open(fen)
	if err != nil {
		return nil, err
	}
	if err := checkKings(p.Squares()); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return p, nil
}

// checkKings rejects boards the move generators cannot play on.
func checkKings(sq Squares) error {
	white, black := 0, 0
	for x := range sq {
		for y := range sq[x] {
			switch sq[x][y] {
			case WhiteKing:
				white++
			case BlackKing:
				black++
			}
		}
	}
	if white != 1 || black != 1 {
		return fmt.Errorf("found %d white and %d black kings, want one each", white, black)
	}
	return nil
}

// FindMove looks up a legal move by its UCI text. Promotion letters are
// matched case-insensitively and a missing suffix matches a queen promotion.
func FindMove(p Position, uci string) (Move, error) {
	want, err := actionspace.ParseUCI(uci)
	if err != nil {
		return Move{}, err
	}
	for _, m := range p.LegalMoves() {
		if m.Action == want {
			return m, nil
		}
	}
	if want.Promotion == actionspace.NoPiece {
		want.Promotion = actionspace.Queen
		for _, m := range p.LegalMoves() {
			if m.Action == want {
				return m, nil
			}
		}
	}
	return Move{}, fmt.Errorf("%w: %s in %s", ErrIllegalMove, uci, p.FEN())
}

// Render draws the position with rank 8 at the top, followed by its FEN.
func Render(p Position) string {
	sq := p.Squares()
	var b strings.Builder
	for y := 7; y >= 0; y-- {
		b.WriteByte(byte('1' + y))
		b.WriteByte(' ')
		for x := 0; x < 8; x++ {
			b.WriteByte(sq[x][y].Char())
			if x < 7 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("  a b c d e f g h\n")
	b.WriteString(p.FEN())
	b.WriteByte('\n')
	return b.String()
}

// coordOf converts a rank-major square index (a1=0, b1=1, ..., h8=63).
func coordOf(sq int) actionspace.Coord {
	return actionspace.Coord{X: sq % 8, Y: sq / 8}
}

// promotionOf maps the shared piece-type numbering (knight=2 .. queen=5)
// used by dragontoothmg and goosemg.
func promotionOf(kind uint8) actionspace.Piece {
	switch kind {
	case 2:
		return actionspace.Knight
	case 3:
		return actionspace.Bishop
	case 4:
		return actionspace.Rook
	case 5:
		return actionspace.Queen
	}
	return actionspace.NoPiece
}

func newMove(from, to int, promo actionspace.Piece, native any) Move {
	g := actionspace.Move{From: coordOf(from), To: coordOf(to), Promotion: promo}
	return Move{Action: g, UCI: g.String(), native: native}
}
