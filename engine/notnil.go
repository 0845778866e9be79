package engine

import (
	"fmt"

	"github.com/notnil/chess"
)

// Notnil wraps a notnil/chess game.
type Notnil struct {
	game *chess.Game
}

// OpenNotnil parses fen with notnil/chess.
func OpenNotnil(fen string) (Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return &Notnil{game: chess.NewGame(opt)}, nil
}

func notnilPromotion(pt chess.PieceType) uint8 {
	switch pt {
	case chess.Knight:
		return 2
	case chess.Bishop:
		return 3
	case chess.Rook:
		return 4
	case chess.Queen:
		return 5
	}
	return 0
}

func notnilKind(pt chess.PieceType) uint8 {
	switch pt {
	case chess.Pawn:
		return 1
	case chess.King:
		return 6
	}
	return notnilPromotion(pt)
}

func (n *Notnil) LegalMoves() []Move {
	native := n.game.ValidMoves()
	moves := make([]Move, len(native))
	for i, mv := range native {
		moves[i] = newMove(int(mv.S1()), int(mv.S2()), promotionOf(notnilPromotion(mv.Promo())), mv)
	}
	return moves
}

func (n *Notnil) Apply(m Move) error {
	mv, ok := m.native.(*chess.Move)
	if !ok {
		return fmt.Errorf("%w: %s does not belong to notnil", ErrIllegalMove, m)
	}
	if err := n.game.Move(mv); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, m, err)
	}
	return nil
}

// InCheck reads the check tag of the last move. A position loaded from FEN
// has no last move, so only a mate is known to be check there.
func (n *Notnil) InCheck() bool {
	if n.IsCheckmate() {
		return true
	}
	moves := n.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

func (n *Notnil) IsCheckmate() bool { return n.game.Method() == chess.Checkmate }

func (n *Notnil) IsStalemate() bool { return n.game.Method() == chess.Stalemate }

func (n *Notnil) WhiteToMove() bool { return n.game.Position().Turn() == chess.White }

func (n *Notnil) FEN() string { return n.game.Position().String() }

func (n *Notnil) Squares() Squares {
	var s Squares
	board := n.game.Position().Board()
	for sq := 0; sq < 64; sq++ {
		p := board.Piece(chess.Square(sq))
		if p == chess.NoPiece {
			continue
		}
		c := coordOf(sq)
		s[c.X][c.Y] = makePiece(p.Color() == chess.White, notnilKind(p.Type()))
	}
	return s
}
