package actionspace

import (
	"fmt"
	"strings"
)

// Move is the geometry of a chess move as the codec sees it. Engines convert
// their own move values into it.
type Move struct {
	From      Coord
	To        Coord
	Promotion Piece
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Promotion != NoPiece }

// Delta returns the column and row deltas of the move.
func (m Move) Delta() (dx, dy int) { return m.To.X - m.From.X, m.To.Y - m.From.Y }

// String renders the move in UCI notation, e.g. "e2e4" or "b7a8n".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if ch := m.Promotion.Letter(); ch != 0 {
		s += string(ch)
	}
	return s
}

// ParseUCI parses "e2e4" / "e7e8q" style move text.
func ParseUCI(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("%w: %q is not a UCI move", ErrInvalidSquare, s)
	}
	from, err := SquareToCoords(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := SquareToCoords(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		p, ok := PieceFromLetter(s[4])
		if !ok {
			return Move{}, fmt.Errorf("%w: invalid promotion piece %q", ErrUnclassifiableMove, s[4])
		}
		m.Promotion = p
	}
	return m, nil
}
