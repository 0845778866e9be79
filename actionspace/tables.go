package actionspace

// ActionID identifies one of the ActionSpaceLen encodable moves.
type ActionID uint16

// The action space for one side is discrete and has 4672 entries:
//   - 64 origin squares
//   - 56 directional moves: 8 directions, 1 to 7 steps
//   - 8 knight leaps
//   - 9 underpromotions: 3 pieces (rook, bishop, knight) x 3 file deltas
//
// Total: 64 * (56 + 8 + 9) = 4672. Most ids never correspond to a legal move.
const (
	ActionSpaceLen = 4672
	MoveTypes      = 73

	maxSteps           = 7
	directionalTypes   = 8 * maxSteps
	knightBase         = directionalTypes
	underpromotionBase = knightBase + 8
)

// Piece is a promotion target. NoPiece marks a move that does not promote.
type Piece uint8

const (
	NoPiece Piece = iota
	Knight
	Bishop
	Rook
	Queen
)

var pieceLetters = [...]byte{NoPiece: 0, Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}

func (p Piece) String() string {
	switch p {
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	}
	return "none"
}

// Letter returns the lowercase UCI suffix for p, or 0 for NoPiece.
func (p Piece) Letter() byte {
	if int(p) >= len(pieceLetters) {
		return 0
	}
	return pieceLetters[p]
}

// PieceFromLetter parses a UCI promotion suffix (either case).
func PieceFromLetter(ch byte) (Piece, bool) {
	switch ch | 0x20 {
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	}
	return NoPiece, false
}

// Direction indexes the direction table.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "?"
}

type delta struct{ dx, dy int }

// Unit vectors, clockwise from north.
var directionTable = [8]delta{
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	SouthEast: {1, -1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	NorthWest: {-1, 1},
}

// Knight leaps, clockwise from (1,2).
var knightTable = [8]delta{
	{1, 2},
	{2, 1},
	{2, -1},
	{1, -2},
	{-1, -2},
	{-2, -1},
	{-2, 1},
	{-1, 2},
}

// Underpromotion pieces. Queen promotions use the directional band.
var underpromotionPieces = [3]Piece{Rook, Bishop, Knight}

// Underpromotion file deltas; the slot is the file delta plus one.
var underpromotionFileDeltas = [3]int{-1, 0, 1}

// DirectionVector returns the unit (dx, dy) of d.
func DirectionVector(d Direction) (dx, dy int) {
	v := directionTable[d&7]
	return v.dx, v.dy
}

// KnightVector returns the (dx, dy) of knight leap i.
func KnightVector(i int) (dx, dy int) {
	v := knightTable[i&7]
	return v.dx, v.dy
}

func directionOf(sx, sy int) (Direction, bool) {
	for i, v := range directionTable {
		if v.dx == sx && v.dy == sy {
			return Direction(i), true
		}
	}
	return 0, false
}

func knightIndexOf(dx, dy int) (int, bool) {
	for i, v := range knightTable {
		if v.dx == dx && v.dy == dy {
			return i, true
		}
	}
	return 0, false
}

func underpromotionIndexOf(p Piece) (int, bool) {
	for i, q := range underpromotionPieces {
		if q == p {
			return i, true
		}
	}
	return 0, false
}
