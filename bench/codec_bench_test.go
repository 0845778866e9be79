package bench

import (
	"testing"

	"gym-chess/actionspace"
	"gym-chess/engine"
)

const (
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos6     = "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
)

func BenchmarkEncode(b *testing.B) {
	moves := []actionspace.Move{
		{From: actionspace.MustSquare("e2"), To: actionspace.MustSquare("e4")},
		{From: actionspace.MustSquare("g1"), To: actionspace.MustSquare("f3")},
		{From: actionspace.MustSquare("b7"), To: actionspace.MustSquare("a8"), Promotion: actionspace.Knight},
		{From: actionspace.MustSquare("h1"), To: actionspace.MustSquare("a8")},
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := actionspace.Encode(moves[i%len(moves)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := actionspace.Decode(actionspace.ActionID(i % actionspace.ActionSpaceLen)); err != nil {
			b.Fatal(err)
		}
	}
}

func benchIndex(b *testing.B, backend, fen string) {
	pos, err := engine.Open(backend, fen)
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	moves := pos.LegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx, err := actionspace.BuildIndex(moves, engine.Geometry)
		if err != nil {
			b.Fatal(err)
		}
		_ = idx.Mask()
	}
}

func BenchmarkIndex_Initial(b *testing.B)  { benchIndex(b, engine.DefaultBackend, engine.StartFEN) }
func BenchmarkIndex_Kiwipete(b *testing.B) { benchIndex(b, engine.DefaultBackend, kiwipete) }
func BenchmarkIndex_Pos6(b *testing.B)     { benchIndex(b, engine.DefaultBackend, pos6) }

func benchLegalMoves(b *testing.B, backend, fen string) {
	pos, err := engine.Open(backend, fen)
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pos.LegalMoves()
	}
}

func BenchmarkLegalMoves_Kiwipete(b *testing.B) {
	for _, backend := range engine.Backends() {
		b.Run(backend, func(b *testing.B) { benchLegalMoves(b, backend, kiwipete) })
	}
}
