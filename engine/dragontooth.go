package engine

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// Dragontooth wraps a dragontoothmg board.
type Dragontooth struct {
	board dragontoothmg.Board
}

// OpenDragontooth parses fen with dragontoothmg. The parser panics on
// malformed input and the move generator panics on a board without both
// kings; either panic is turned into ErrInvalidFEN.
func OpenDragontooth(fen string) (pos Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			pos, err = nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, r)
		}
	}()
	if len(strings.Fields(fen)) < 4 {
		return nil, fmt.Errorf("%w: %q: expected at least 4 fields", ErrInvalidFEN, fen)
	}
	board := dragontoothmg.ParseFen(fen)
	if bits.OnesCount64(board.White.Kings) != 1 || bits.OnesCount64(board.Black.Kings) != 1 {
		return nil, fmt.Errorf("%w: %q: each side needs exactly one king", ErrInvalidFEN, fen)
	}
	board.GenerateLegalMoves()
	return &Dragontooth{board: board}, nil
}

func (d *Dragontooth) LegalMoves() []Move {
	native := d.board.GenerateLegalMoves()
	moves := make([]Move, len(native))
	for i := range native {
		mv := native[i]
		moves[i] = newMove(int(mv.From()), int(mv.To()), promotionOf(uint8(mv.Promote())), mv)
	}
	return moves
}

func (d *Dragontooth) Apply(m Move) error {
	mv, ok := m.native.(dragontoothmg.Move)
	if !ok {
		return fmt.Errorf("%w: %s does not belong to dragontooth", ErrIllegalMove, m)
	}
	// Apply does not validate, so only moves from the current legal list are played.
	for _, legal := range d.board.GenerateLegalMoves() {
		if legal == mv {
			d.board.Apply(mv)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, d.board.ToFen())
}

func (d *Dragontooth) InCheck() bool { return d.board.OurKingInCheck() }

func (d *Dragontooth) IsCheckmate() bool {
	return d.board.OurKingInCheck() && len(d.board.GenerateLegalMoves()) == 0
}

func (d *Dragontooth) IsStalemate() bool {
	return !d.board.OurKingInCheck() && len(d.board.GenerateLegalMoves()) == 0
}

func (d *Dragontooth) WhiteToMove() bool { return d.board.Wtomove }

func (d *Dragontooth) FEN() string { return d.board.ToFen() }

func (d *Dragontooth) Squares() Squares {
	var s Squares
	for sq := uint8(0); sq < 64; sq++ {
		c := coordOf(int(sq))
		if kind, ok := pieceTypeAt(sq, &d.board.White); ok {
			s[c.X][c.Y] = makePiece(true, uint8(kind))
		} else if kind, ok := pieceTypeAt(sq, &d.board.Black); ok {
			s[c.X][c.Y] = makePiece(false, uint8(kind))
		}
	}
	return s
}

func pieceTypeAt(position uint8, bitboards *dragontoothmg.Bitboards) (pieceType dragontoothmg.Piece, occupied bool) {
	bit := uint64(1) << position
	switch {
	case bitboards.Pawns&bit != 0:
		return dragontoothmg.Pawn, true
	case bitboards.Knights&bit != 0:
		return dragontoothmg.Knight, true
	case bitboards.Bishops&bit != 0:
		return dragontoothmg.Bishop, true
	case bitboards.Rooks&bit != 0:
		return dragontoothmg.Rook, true
	case bitboards.Queens&bit != 0:
		return dragontoothmg.Queen, true
	case bitboards.Kings&bit != 0:
		return dragontoothmg.King, true
	}
	return dragontoothmg.Nothing, false
}
