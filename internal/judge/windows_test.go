package judge

import (
	"testing"

	"git.lost.host/meutraa/groove/internal/game"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGradeWindowBoundaries(t *testing.T) {
	type result struct {
		grade game.Grade
		ok    bool
	}
	tests := map[float64]result{
		0.000:  {game.Fantastic, true},
		0.023:  {game.Fantastic, true},
		0.0235: {game.Excellent, true},
		0.0445: {game.Excellent, true},
		0.0450: {game.Great, true},
		0.1035: {game.Great, true},
		0.1040: {game.Decent, true},
		0.1365: {game.Decent, true},
		0.1370: {game.WayOff, true},
		0.1815: {game.WayOff, true},
		0.1820: {game.Miss, false},
	}
	for abs, want := range tests {
		grade, ok := gradeForError(abs)
		if grade != want.grade || ok != want.ok {
			t.Log("error:", abs, "want:", want.grade, want.ok, "got:", grade, ok)
			t.Fail()
		}
	}
}

func TestGradingIsMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("a smaller error never grades worse", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			gradeA, okA := gradeForError(a)
			gradeB, okB := gradeForError(b)
			if okA && okB {
				return gradeA <= gradeB
			}
			// Once outside every window, staying outside is the only option.
			return okA || !okB
		},
		gen.Float64Range(0, 0.3),
		gen.Float64Range(0, 0.3),
	))
	properties.TestingRun(t)
}

func TestDecayWindows(t *testing.T) {
	if decayWindow(game.Hold) != holdWindowSeconds {
		t.Fail()
	}
	if decayWindow(game.Roll) != rollWindowSeconds {
		t.Fail()
	}
}
