package actionspace

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Action pairs a legal id with the engine move it stands for.
type Action[M any] struct {
	ID   ActionID
	Move M
}

func (a Action[M]) String() string {
	return fmt.Sprintf("(id: %d) %v", a.ID, a.Move)
}

// Index maps the legal moves of one position to their ids. It is built once
// per ply and is read-only afterwards, so concurrent reads are safe.
type Index[M any] struct {
	moves map[ActionID]M
	ids   []ActionID
}

// BuildIndex encodes every move using geometry to extract its Move. Two moves
// sharing an id is reported as ErrActionCollision rather than overwritten.
func BuildIndex[M any](moves []M, geometry func(M) Move) (*Index[M], error) {
	idx := &Index[M]{moves: make(map[ActionID]M, len(moves))}
	seen := make(map[ActionID]Move, len(moves))
	for _, mv := range moves {
		g := geometry(mv)
		id, err := Encode(g)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %v and %v both encode to %d", ErrActionCollision, prev, g, id)
		}
		seen[id] = g
		idx.moves[id] = mv
	}
	idx.ids = maps.Keys(idx.moves)
	slices.Sort(idx.ids)
	return idx, nil
}

// Len returns the number of legal ids.
func (x *Index[M]) Len() int { return len(x.ids) }

// Legal reports whether id is present.
func (x *Index[M]) Legal(id ActionID) bool {
	_, ok := x.moves[id]
	return ok
}

// Resolve returns the move behind id.
func (x *Index[M]) Resolve(id ActionID) (M, error) {
	mv, ok := x.moves[id]
	if !ok {
		var zero M
		return zero, fmt.Errorf("%w: %d", ErrIllegalActionID, id)
	}
	return mv, nil
}

// Mask returns ActionSpaceLen flags; entry i is set iff ActionID(i) is legal.
func (x *Index[M]) Mask() []bool {
	mask := make([]bool, ActionSpaceLen)
	for _, id := range x.ids {
		mask[id] = true
	}
	return mask
}

// IDs returns the legal ids in ascending order.
func (x *Index[M]) IDs() []ActionID {
	return slices.Clone(x.ids)
}

// Actions returns the legal actions in ascending id order.
func (x *Index[M]) Actions() []Action[M] {
	out := make([]Action[M], len(x.ids))
	for i, id := range x.ids {
		out[i] = Action[M]{ID: id, Move: x.moves[id]}
	}
	return out
}
