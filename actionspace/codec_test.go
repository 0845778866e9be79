package actionspace

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustMove(t *testing.T, uci string) Move {
	t.Helper()
	m, err := ParseUCI(uci)
	if err != nil {
		t.Fatalf("ParseUCI(%q): %v", uci, err)
	}
	return m
}

func TestActionSpaceLen(t *testing.T) {
	if ActionSpaceLen != 4672 {
		t.Fatalf("ActionSpaceLen = %d; want 4672", ActionSpaceLen)
	}
	if 64*MoveTypes != ActionSpaceLen {
		t.Fatalf("64*MoveTypes = %d; want %d", 64*MoveTypes, ActionSpaceLen)
	}
}

func TestEncodeKnownMoves(t *testing.T) {
	tests := []struct {
		name     string
		move     string
		want     ActionID
		category Category
	}{
		{"pawn double push", "e2e4", 33*73 + 1, Directional{Direction: North, Steps: 2}},
		{"knight g1f3", "g1f3", 48*73 + 63, KnightLeap{Leap: 7}},
		{"knight b1c3", "b1c3", 8*73 + 56, KnightLeap{Leap: 0}},
		{"underpromotion to knight", "b7a8n", 1092, Underpromotion{Piece: Knight, FileDelta: -1}},
		{"underpromotion to rook", "b7b8r", 14*73 + 65, Underpromotion{Piece: Rook, FileDelta: 0}},
		{"underpromotion to bishop", "b7c8b", 14*73 + 69, Underpromotion{Piece: Bishop, FileDelta: 1}},
		{"queen promotion", "b7b8q", 14*73 + 0, Directional{Direction: North, Steps: 1}},
		{"queen promotion capture", "b7a8q", 14*73 + 7*7, Directional{Direction: NorthWest, Steps: 1}},
		{"black underpromotion", "b2a1r", 9*73 + 64, Underpromotion{Piece: Rook, FileDelta: -1}},
		{"long diagonal", "h1a8", 56*73 + 55, Directional{Direction: NorthWest, Steps: 7}},
		{"rook slide", "d1h1", 24*73 + 2*7 + 3, Directional{Direction: East, Steps: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMove(t, tt.move)
			c, err := Classify(m)
			if err != nil {
				t.Fatalf("Classify(%s): %v", tt.move, err)
			}
			if diff := cmp.Diff(tt.category, c); diff != "" {
				t.Errorf("Classify(%s) mismatch (-want +got):\n%s", tt.move, diff)
			}
			id, err := Encode(m)
			if err != nil {
				t.Fatalf("Encode(%s): %v", tt.move, err)
			}
			if id != tt.want {
				t.Errorf("Encode(%s) = %d; want %d", tt.move, id, tt.want)
			}
		})
	}
}

func TestDoublePushRoundTrip(t *testing.T) {
	id, err := Encode(mustMove(t, "e2e4"))
	if err != nil {
		t.Fatal(err)
	}
	origin, moveType := Split(id)
	if origin != MustSquare("e2") {
		t.Fatalf("origin = %v; want e2", origin)
	}
	dir, ok := CategoryOf(moveType).(Directional)
	if !ok {
		t.Fatalf("move type %d is not directional", moveType)
	}
	if dir.Direction != North || dir.Steps != 2 {
		t.Errorf("category = %v; want N x2", dir)
	}
	if dx, dy := DirectionVector(dir.Direction); dx != 0 || dy != 1 {
		t.Errorf("north vector = (%d,%d); want (0,1)", dx, dy)
	}
	d, err := Decode(id)
	if err != nil {
		t.Fatal(err)
	}
	if uci, _ := d.UCI(); uci != "e2e4" {
		t.Errorf("Decode(%d) = %s; want e2e4", id, uci)
	}
}

func TestKnightRoundTrip(t *testing.T) {
	id, err := Encode(mustMove(t, "g1f3"))
	if err != nil {
		t.Fatal(err)
	}
	_, moveType := Split(id)
	leap, ok := CategoryOf(moveType).(KnightLeap)
	if !ok {
		t.Fatalf("move type %d is not a knight leap", moveType)
	}
	if dx, dy := KnightVector(leap.Leap); dx != -1 || dy != 2 {
		t.Errorf("knight vector = (%d,%d); want (-1,2)", dx, dy)
	}
	d, _ := Decode(id)
	if d.To != MustSquare("f3") {
		t.Errorf("decoded target = %v; want f3", d.To)
	}
}

func TestUnderpromotionRoundTrip(t *testing.T) {
	id := ActionID(MustSquare("b7").Index()*MoveTypes + 70)
	d, err := Decode(id)
	if err != nil {
		t.Fatal(err)
	}
	want := Decoded{
		ID:        id,
		From:      MustSquare("b7"),
		To:        MustSquare("a8"),
		Promotion: Knight,
		Category:  Underpromotion{Piece: Knight, FileDelta: -1},
	}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Decode(%d) mismatch (-want +got):\n%s", id, diff)
	}
}

func TestQueenPromotionIsDirectional(t *testing.T) {
	c, err := Classify(mustMove(t, "b7b8q"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Band() != BandDirectional {
		t.Fatalf("queen promotion band = %v; want directional", c.Band())
	}
	if c.MoveType() >= underpromotionBase {
		t.Errorf("queen promotion move type %d lies in the underpromotion band", c.MoveType())
	}
}

func TestBandsAreDisjoint(t *testing.T) {
	counts := map[Band]int{}
	for mt := 0; mt < MoveTypes; mt++ {
		c := CategoryOf(mt)
		if c.MoveType() != mt {
			t.Errorf("CategoryOf(%d).MoveType() = %d", mt, c.MoveType())
		}
		var want Band
		switch {
		case mt >= 64:
			want = BandUnderpromotion
		case mt >= 56:
			want = BandKnight
		default:
			want = BandDirectional
		}
		if c.Band() != want {
			t.Errorf("CategoryOf(%d).Band() = %v; want %v", mt, c.Band(), want)
		}
		counts[c.Band()]++
	}
	want := map[Band]int{BandDirectional: 56, BandKnight: 8, BandUnderpromotion: 9}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("band sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOriginBijection(t *testing.T) {
	for i := 0; i < ActionSpaceLen; i++ {
		id := ActionID(i)
		d, err := Decode(id)
		if err != nil {
			t.Fatalf("Decode(%d): %v", id, err)
		}
		if d.From != CoordFromIndex(i/MoveTypes) {
			t.Fatalf("Decode(%d).From = %v; want %v", id, d.From, CoordFromIndex(i/MoveTypes))
		}
		if d.From.Index() != i/MoveTypes {
			t.Fatalf("Decode(%d).From.Index() = %d; want %d", id, d.From.Index(), i/MoveTypes)
		}
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	onBoard := 0
	for i := 0; i < ActionSpaceLen; i++ {
		d, _ := Decode(ActionID(i))
		if !d.OnBoard() {
			if _, err := d.UCI(); !errors.Is(err, ErrOutOfBoardSquare) {
				t.Fatalf("Decode(%d).UCI() error = %v; want ErrOutOfBoardSquare", i, err)
			}
			continue
		}
		onBoard++
		id, err := Encode(d.Move())
		if err != nil {
			t.Fatalf("Encode(Decode(%d) = %v): %v", i, d.Move(), err)
		}
		if id != ActionID(i) {
			t.Fatalf("Encode(Decode(%d) = %v) = %d", i, d.Move(), id)
		}
	}
	// 1456 queen-like moves + 336 knight leaps + 462 underpromotions on an empty board.
	if onBoard != 2254 {
		t.Errorf("on-board ids = %d; want 2254", onBoard)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	if _, err := Decode(ActionSpaceLen); !errors.Is(err, ErrActionOutOfRange) {
		t.Errorf("Decode(ActionSpaceLen) error = %v; want ErrActionOutOfRange", err)
	}
	if d, err := Decode(ActionSpaceLen - 1); err != nil || d.From != MustSquare("h8") {
		t.Errorf("Decode(last) = %v, %v; want origin h8", d, err)
	}
}

func TestEncodeUnclassifiable(t *testing.T) {
	tests := []Move{
		{From: MustSquare("a1"), To: MustSquare("a1")},
		{From: MustSquare("a1"), To: MustSquare("b4")},
		{From: MustSquare("a1"), To: MustSquare("c4")},
		{From: MustSquare("b7"), To: MustSquare("b8"), Promotion: Piece(9)},
		{From: MustSquare("b7"), To: MustSquare("d8"), Promotion: Knight},
		{From: MustSquare("b7"), To: MustSquare("b6"), Promotion: Rook},
		{From: MustSquare("b2"), To: MustSquare("b3"), Promotion: Bishop},
	}
	for _, m := range tests {
		_, err := Encode(m)
		if !errors.Is(err, ErrUnclassifiableMove) {
			t.Errorf("Encode(%v) error = %v; want ErrUnclassifiableMove", m, err)
		}
		var me *MoveError
		if !errors.As(err, &me) || me.Move != m {
			t.Errorf("Encode(%v) error %v does not carry the move", m, err)
		}
	}
}

func TestEncodeOffBoard(t *testing.T) {
	m := Move{From: Coord{0, 0}, To: Coord{-1, 1}}
	if _, err := Encode(m); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Encode(%v) error = %v; want ErrInvalidCoordinate", m, err)
	}
}

func TestParseUCI(t *testing.T) {
	got := mustMove(t, "E7E8N")
	want := Move{From: MustSquare("e7"), To: MustSquare("e8"), Promotion: Knight}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseUCI mismatch (-want +got):\n%s", diff)
	}
	if got.String() != "e7e8n" {
		t.Errorf("String() = %q; want e7e8n", got.String())
	}
	for _, bad := range []string{"e2", "e2e4qq", "e7e8k", "z2e4"} {
		if _, err := ParseUCI(bad); err == nil {
			t.Errorf("ParseUCI(%q) succeeded; want error", bad)
		}
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(1092); got != "b7a8n" {
		t.Errorf("Describe(1092) = %q; want b7a8n", got)
	}
	// a1 moving south leaves the board.
	if got := Describe(ActionID(MustSquare("a1").Index()*MoveTypes + int(South)*maxSteps)); got != "-" {
		t.Errorf("Describe(a1 south) = %q; want -", got)
	}
	if got := len(Table()); got != ActionSpaceLen {
		t.Errorf("len(Table()) = %d; want %d", got, ActionSpaceLen)
	}
}
