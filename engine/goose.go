package engine

import (
	"fmt"

	"github.com/Oliverans/GooseEngineMG/goosemg"
)

// Goose wraps a GooseEngineMG board.
type Goose struct {
	board *goosemg.Board
}

// OpenGoose parses fen with goosemg.
func OpenGoose(fen string) (Position, error) {
	b, err := goosemg.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFEN, fen, err)
	}
	return &Goose{board: b}, nil
}

func (g *Goose) LegalMoves() []Move {
	native := g.board.GenerateMoves()
	moves := make([]Move, len(native))
	for i, mv := range native {
		moves[i] = newMove(int(mv.From()), int(mv.To()), promotionOf(uint8(mv.PromotionPieceType())), mv)
	}
	return moves
}

func (g *Goose) Apply(m Move) error {
	mv, ok := m.native.(goosemg.Move)
	if !ok {
		return fmt.Errorf("%w: %s does not belong to goose", ErrIllegalMove, m)
	}
	if ok, _ := g.board.MakeMove(mv); !ok {
		return fmt.Errorf("%w: %s in %s", ErrIllegalMove, m, g.board.ToFEN())
	}
	return nil
}

func (g *Goose) InCheck() bool { return g.board.InCheck(g.board.SideToMove()) }

func (g *Goose) IsCheckmate() bool { return g.board.InCheckmate() }

func (g *Goose) IsStalemate() bool { return g.board.InStalemate() }

func (g *Goose) WhiteToMove() bool { return g.board.SideToMove() == goosemg.White }

func (g *Goose) FEN() string { return g.board.ToFEN() }

func (g *Goose) Squares() Squares {
	var s Squares
	for sq := 0; sq < 64; sq++ {
		p := g.board.PieceAt(goosemg.Square(sq))
		if p == goosemg.NoPiece {
			continue
		}
		c := coordOf(sq)
		s[c.X][c.Y] = makePiece(p.Color() == goosemg.White, uint8(p.Type()))
	}
	return s
}
