package env

import (
	"errors"
	"testing"

	"gym-chess/actionspace"
	"gym-chess/engine"
)

func newEnv(t *testing.T, cfg Config) *Env {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v): %v", cfg, err)
	}
	return e
}

func stepUCI(t *testing.T, e *Env, uci string) StepResult {
	t.Helper()
	res, err := e.StepUCI(uci)
	if err != nil {
		t.Fatalf("StepUCI(%s): %v", uci, err)
	}
	return res
}

func TestNewEnvInitialState(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	mask := e.Mask()
	if len(mask) != actionspace.ActionSpaceLen {
		t.Fatalf("len(Mask()) = %d; want %d", len(mask), actionspace.ActionSpaceLen)
	}
	set := 0
	for _, b := range mask {
		if b {
			set++
		}
	}
	if set != 20 {
		t.Errorf("legal actions = %d; want 20", set)
	}
	obs := e.Observation()
	if obs.Ply != 0 || !obs.WhiteToMove {
		t.Errorf("observation = ply %d white %v; want ply 0 white true", obs.Ply, obs.WhiteToMove)
	}
	if got := obs.Board.At(actionspace.MustSquare("e1")); got != engine.WhiteKing {
		t.Errorf("e1 = %c; want K", got.Char())
	}
	if e.Done() {
		t.Error("fresh env reports done")
	}
}

func TestMaskMatchesActions(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	mask := e.Mask()
	for _, a := range e.Actions() {
		if !mask[a.ID] {
			t.Errorf("action %v missing from mask", a)
		}
		id, err := actionspace.Encode(a.Move.Action)
		if err != nil || id != a.ID {
			t.Errorf("Encode(%s) = %d, %v; want %d", a.Move, id, err, a.ID)
		}
	}
}

func TestStepIllegalID(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	before := e.FEN()
	// a1 rook cannot move in the initial position.
	id := actionspace.ActionID(actionspace.MustSquare("a1").Index() * actionspace.MoveTypes)
	if _, err := e.Step(id); !errors.Is(err, actionspace.ErrIllegalActionID) {
		t.Fatalf("Step(%d) error = %v; want ErrIllegalActionID", id, err)
	}
	if e.FEN() != before {
		t.Errorf("illegal step changed the position: %s", e.FEN())
	}
}

func TestFoolsMateEpisode(t *testing.T) {
	for _, backend := range engine.Backends() {
		t.Run(backend, func(t *testing.T) {
			e := newEnv(t, Config{Backend: backend})
			for _, uci := range []string{"f2f3", "e7e5", "g2g4"} {
				if res := stepUCI(t, e, uci); res.Terminated || res.Reward != 0 {
					t.Fatalf("%s: terminated=%v reward=%v", uci, res.Terminated, res.Reward)
				}
			}
			res := stepUCI(t, e, "d8h4")
			if !res.Terminated || res.Truncated {
				t.Fatalf("after mate: terminated=%v truncated=%v", res.Terminated, res.Truncated)
			}
			if res.Reward != 1 {
				t.Errorf("reward = %v; want 1", res.Reward)
			}
			if !res.Info.Checkmate || !res.Info.InCheck || res.Info.LastMove != "d8h4" {
				t.Errorf("info = %+v", res.Info)
			}
			if res.Observation.Ply != 4 || !res.Observation.WhiteToMove {
				t.Errorf("observation ply=%d white=%v", res.Observation.Ply, res.Observation.WhiteToMove)
			}
			if _, err := e.Step(0); !errors.Is(err, ErrEpisodeDone) {
				t.Errorf("Step after mate error = %v; want ErrEpisodeDone", err)
			}

			obs, err := e.Reset()
			if err != nil {
				t.Fatal(err)
			}
			if obs.Ply != 0 || e.Done() || len(e.LegalIDs()) != 20 {
				t.Errorf("reset did not restore the initial position")
			}
		})
	}
}

func TestStalemateEpisode(t *testing.T) {
	e := newEnv(t, Config{FEN: "7k/8/5QK1/8/8/8/8/8 w - - 0 1"})
	res := stepUCI(t, e, "f6f7")
	if !res.Terminated {
		t.Fatal("expected termination by stalemate")
	}
	if res.Reward != 0 {
		t.Errorf("reward = %v; want 0", res.Reward)
	}
	if !res.Info.Stalemate || res.Info.Checkmate {
		t.Errorf("info = %+v", res.Info)
	}
}

func TestTruncation(t *testing.T) {
	e := newEnv(t, Config{MaxSteps: 2})
	if res := stepUCI(t, e, "e2e4"); res.Truncated {
		t.Fatal("truncated after one step")
	}
	res := stepUCI(t, e, "e7e5")
	if !res.Truncated || res.Terminated {
		t.Fatalf("after two steps: truncated=%v terminated=%v", res.Truncated, res.Terminated)
	}
	if _, err := e.StepUCI("g1f3"); !errors.Is(err, ErrEpisodeDone) {
		t.Errorf("StepUCI after truncation error = %v; want ErrEpisodeDone", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Backend: "nope"}); !errors.Is(err, engine.ErrUnknownBackend) {
		t.Errorf("New(bad backend) error = %v", err)
	}
	if _, err := New(Config{MaxSteps: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(MaxSteps=-1) error = %v; want ErrInvalidConfig", err)
	}
	if _, err := New(Config{FEN: "4k3/8/8/8/8/8/8/8 w - - 0 1"}); !errors.Is(err, engine.ErrInvalidFEN) {
		t.Errorf("New(kingless FEN) error = %v; want ErrInvalidFEN", err)
	}
}

func TestStepUCIUnknownMove(t *testing.T) {
	e := newEnv(t, DefaultConfig())
	if _, err := e.StepUCI("e2e5"); !errors.Is(err, engine.ErrIllegalMove) {
		t.Errorf("StepUCI(e2e5) error = %v; want ErrIllegalMove", err)
	}
}
