package actionspace

import "fmt"

// Band is one of the three move-type ranges inside the 73 per-square slots.
type Band uint8

const (
	BandDirectional Band = iota
	BandKnight
	BandUnderpromotion
)

func (b Band) String() string {
	switch b {
	case BandDirectional:
		return "directional"
	case BandKnight:
		return "knight"
	case BandUnderpromotion:
		return "underpromotion"
	}
	return "unknown"
}

// Category is the band-specific description of a move type. It is one of
// Directional, KnightLeap or Underpromotion.
type Category interface {
	Band() Band
	// MoveType returns the slot in [0, MoveTypes).
	MoveType() int
	// Delta returns the (dx, dy) this category moves a piece by when played
	// from origin.
	Delta(origin Coord) (dx, dy int)
	fmt.Stringer
	isCategory()
}

// Directional is a queen-like move: Steps squares along Direction.
// Queen promotions are directional moves.
type Directional struct {
	Direction Direction
	Steps     int
}

func (Directional) Band() Band { return BandDirectional }

func (d Directional) MoveType() int { return int(d.Direction)*maxSteps + d.Steps - 1 }

func (d Directional) Delta(Coord) (int, int) {
	dx, dy := DirectionVector(d.Direction)
	return dx * d.Steps, dy * d.Steps
}

func (d Directional) String() string { return fmt.Sprintf("%s x%d", d.Direction, d.Steps) }

func (Directional) isCategory() {}

// KnightLeap is an entry of the knight table.
type KnightLeap struct {
	Leap int
}

func (KnightLeap) Band() Band { return BandKnight }

func (k KnightLeap) MoveType() int { return knightBase + k.Leap }

func (k KnightLeap) Delta(Coord) (int, int) { return KnightVector(k.Leap) }

func (k KnightLeap) String() string {
	dx, dy := KnightVector(k.Leap)
	return fmt.Sprintf("knight (%+d,%+d)", dx, dy)
}

func (KnightLeap) isCategory() {}

// Underpromotion is a one-rank pawn advance that promotes to a rook, bishop
// or knight. FileDelta is -1, 0 or +1.
type Underpromotion struct {
	Piece     Piece
	FileDelta int
}

func (Underpromotion) Band() Band { return BandUnderpromotion }

func (u Underpromotion) MoveType() int {
	idx, _ := underpromotionIndexOf(u.Piece)
	return underpromotionBase + idx*3 + u.FileDelta + 1
}

// Delta moves one rank towards the promotion rank. A pawn on the second rank
// can only underpromote as black, so it moves down; every other origin moves up.
func (u Underpromotion) Delta(origin Coord) (int, int) {
	return u.FileDelta, forwardFrom(origin)
}

func (u Underpromotion) String() string {
	return fmt.Sprintf("=%s (%+d)", u.Piece, u.FileDelta)
}

func (Underpromotion) isCategory() {}

func forwardFrom(origin Coord) int {
	if origin.Y == 1 {
		return -1
	}
	return 1
}

// CategoryOf returns the category stored in slot moveType. It panics if
// moveType is outside [0, MoveTypes).
func CategoryOf(moveType int) Category {
	switch {
	case moveType < 0 || moveType >= MoveTypes:
		panic(fmt.Sprintf("actionspace: move type %d out of range", moveType))
	case moveType >= underpromotionBase:
		promo := moveType - underpromotionBase
		return Underpromotion{
			Piece:     underpromotionPieces[promo/3],
			FileDelta: underpromotionFileDeltas[promo%3],
		}
	case moveType >= knightBase:
		return KnightLeap{Leap: moveType - knightBase}
	default:
		return Directional{
			Direction: Direction(moveType / maxSteps),
			Steps:     moveType%maxSteps + 1,
		}
	}
}
