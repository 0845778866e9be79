package engine

import (
	"fmt"

	"gym-chess/actionspace"
)

// Perft counts leaf nodes of the legal-move tree below fen on the named
// backend. Children are reopened from FEN since Position has no undo.
func Perft(backend, fen string, depth int) (uint64, error) {
	p, err := Open(backend, fen)
	if err != nil {
		return 0, err
	}
	return perft(backend, p, depth)
}

func perft(backend string, p Position, depth int) (uint64, error) {
	moves := p.LegalMoves()
	if depth <= 1 {
		if depth <= 0 {
			return 1, nil
		}
		return uint64(len(moves)), nil
	}
	fen := p.FEN()
	var nodes uint64
	for _, m := range moves {
		child, err := Open(backend, fen)
		if err != nil {
			return 0, err
		}
		mv, err := FindMove(child, m.UCI)
		if err != nil {
			return 0, err
		}
		if err := child.Apply(mv); err != nil {
			return 0, err
		}
		n, err := perft(backend, child, depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}

// PerftDivide returns the leaf count below each legal root move, keyed by the
// move's action id.
func PerftDivide(backend, fen string, depth int) (map[actionspace.ActionID]uint64, error) {
	if depth < 1 {
		return nil, fmt.Errorf("perft depth must be >= 1, got %d", depth)
	}
	root, err := Open(backend, fen)
	if err != nil {
		return nil, err
	}
	idx, err := actionspace.BuildIndex(root.LegalMoves(), Geometry)
	if err != nil {
		return nil, err
	}
	div := make(map[actionspace.ActionID]uint64, idx.Len())
	for _, a := range idx.Actions() {
		child, err := Open(backend, root.FEN())
		if err != nil {
			return nil, err
		}
		mv, err := FindMove(child, a.Move.UCI)
		if err != nil {
			return nil, err
		}
		if err := child.Apply(mv); err != nil {
			return nil, err
		}
		n, err := perft(backend, child, depth-1)
		if err != nil {
			return nil, err
		}
		div[a.ID] = n
	}
	return div, nil
}
