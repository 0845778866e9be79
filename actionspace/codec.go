package actionspace

import "fmt"

// Classify assigns m to its band. The order is strict: underpromotion first,
// then knight leaps, then directional moves.
func Classify(m Move) (Category, error) {
	if !m.From.OnBoard() || !m.To.OnBoard() {
		return nil, &MoveError{Err: ErrInvalidCoordinate, Move: m}
	}
	dx, dy := m.Delta()
	if dx == 0 && dy == 0 {
		return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
	}

	if m.IsPromotion() && m.Promotion != Queen {
		if _, ok := underpromotionIndexOf(m.Promotion); !ok {
			return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
		}
		if abs(dx) > 1 || dy != forwardFrom(m.From) {
			return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
		}
		return Underpromotion{Piece: m.Promotion, FileDelta: dx}, nil
	}

	if (abs(dx) == 1 && abs(dy) == 2) || (abs(dx) == 2 && abs(dy) == 1) {
		leap, ok := knightIndexOf(dx, dy)
		if !ok {
			return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
		}
		return KnightLeap{Leap: leap}, nil
	}

	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
	}
	dir, ok := directionOf(sign(dx), sign(dy))
	if !ok {
		return nil, &MoveError{Err: ErrUnclassifiableMove, Move: m}
	}
	return Directional{Direction: dir, Steps: maxOf(abs(dx), abs(dy))}, nil
}

// Encode maps m to its ActionID.
func Encode(m Move) (ActionID, error) {
	c, err := Classify(m)
	if err != nil {
		return 0, err
	}
	return Compose(m.From, c), nil
}

// Compose packs an on-board origin and a category into an id.
func Compose(origin Coord, c Category) ActionID {
	return ActionID(origin.Index()*MoveTypes + c.MoveType())
}

// Split unpacks an id into its origin and move-type slot. The id must be
// below ActionSpaceLen.
func Split(id ActionID) (origin Coord, moveType int) {
	return CoordFromIndex(int(id) / MoveTypes), int(id) % MoveTypes
}

// Decoded is the geometry recovered from an ActionID. To may lie off the
// board for origins near an edge; such ids never match a real move.
type Decoded struct {
	ID        ActionID
	From      Coord
	To        Coord
	Promotion Piece
	Category  Category
}

// OnBoard reports whether the decoded target is a real square.
func (d Decoded) OnBoard() bool { return d.To.OnBoard() }

// Move returns the decoded geometry as a Move.
func (d Decoded) Move() Move {
	return Move{From: d.From, To: d.To, Promotion: d.Promotion}
}

// UCI renders the decoded move, failing with ErrOutOfBoardSquare when the
// target leaves the board.
func (d Decoded) UCI() (string, error) {
	if !d.OnBoard() {
		return "", fmt.Errorf("%w: action %d targets %v", ErrOutOfBoardSquare, d.ID, d.To)
	}
	return d.Move().String(), nil
}

// Decode inverts Encode. It never fails for ids below ActionSpaceLen.
func Decode(id ActionID) (Decoded, error) {
	if id >= ActionSpaceLen {
		return Decoded{}, fmt.Errorf("%w: %d", ErrActionOutOfRange, id)
	}
	from, moveType := Split(id)
	c := CategoryOf(moveType)
	dx, dy := c.Delta(from)
	d := Decoded{
		ID:       id,
		From:     from,
		To:       from.Add(dx, dy),
		Category: c,
	}
	if u, ok := c.(Underpromotion); ok {
		d.Promotion = u.Piece
	}
	return d, nil
}
