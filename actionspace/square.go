package actionspace

import (
	"fmt"
	"strconv"
)

// Coord is a board cell as (file, rank) with both in [0,8). X=0 is the a-file,
// Y=0 is the first rank.
type Coord struct {
	X, Y int
}

// OnBoard reports whether both components lie in [0,8).
func (c Coord) OnBoard() bool {
	return c.X >= 0 && c.X < 8 && c.Y >= 0 && c.Y < 8
}

// Index returns the file-major origin index X*8+Y used by the action layout.
// It is not the rank-major square index engines use.
func (c Coord) Index() int { return c.X*8 + c.Y }

// Add returns c shifted by (dx, dy). The result may leave the board.
func (c Coord) Add(dx, dy int) Coord { return Coord{c.X + dx, c.Y + dy} }

func (c Coord) String() string {
	if s, err := CoordsToSquare(c); err == nil {
		return s
	}
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CoordFromIndex inverts Coord.Index.
func CoordFromIndex(i int) Coord { return Coord{X: i / 8, Y: i % 8} }

// SquareToCoords converts a label such as "e4" to its coordinates.
func SquareToCoords(label string) (Coord, error) {
	if len(label) != 2 {
		return Coord{}, fmt.Errorf("%w: %q must be a file letter and a rank digit", ErrInvalidSquare, label)
	}
	file := label[0]
	if file < 'a' || file > 'h' {
		return Coord{}, fmt.Errorf("%w: file %q must be a to h", ErrInvalidSquare, file)
	}
	rank, err := strconv.Atoi(label[1:])
	if err != nil {
		return Coord{}, fmt.Errorf("%w: unable to parse rank %q", ErrInvalidSquare, label[1:])
	}
	if rank < 1 || rank > 8 {
		return Coord{}, fmt.Errorf("%w: rank %d is illegal", ErrInvalidSquare, rank)
	}
	return Coord{X: int(file - 'a'), Y: rank - 1}, nil
}

// CoordsToSquare converts coordinates back to a label. Both components are
// range checked.
func CoordsToSquare(c Coord) (string, error) {
	if c.X < 0 || c.X > 7 {
		return "", fmt.Errorf("%w: file %d is illegal", ErrInvalidCoordinate, c.X)
	}
	if c.Y < 0 || c.Y > 7 {
		return "", fmt.Errorf("%w: rank %d is illegal", ErrInvalidCoordinate, c.Y)
	}
	return string([]byte{'a' + byte(c.X), '1' + byte(c.Y)}), nil
}

// MustSquare is SquareToCoords for labels known at compile time.
func MustSquare(label string) Coord {
	c, err := SquareToCoords(label)
	if err != nil {
		panic(err)
	}
	return c
}
