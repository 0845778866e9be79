package actionspace

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec and the index. Check them with errors.Is.
var (
	// ErrInvalidSquare indicates a malformed square label such as "i9" or "e".
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidCoordinate indicates a coordinate outside [0,8).
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnclassifiableMove indicates a move whose geometry fits none of the
	// directional, knight or underpromotion bands. Correct move generators
	// never produce one.
	ErrUnclassifiableMove = errors.New("unclassifiable move")

	// ErrIllegalActionID indicates an id that is not legal in the current index.
	ErrIllegalActionID = errors.New("illegal action id")

	// ErrOutOfBoardSquare indicates a decoded target that lies off the board.
	ErrOutOfBoardSquare = errors.New("decoded square is off the board")

	// ErrActionOutOfRange indicates an id >= ActionSpaceLen.
	ErrActionOutOfRange = errors.New("action id out of range")

	// ErrActionCollision indicates two distinct moves encoded to the same id.
	ErrActionCollision = errors.New("action id collision")
)

// MoveError attaches the offending move to a codec error.
type MoveError struct {
	Err  error
	Move Move
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s: %v", e.Move, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *MoveError) Unwrap() error { return e.Err }
