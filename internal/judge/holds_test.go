package judge

import (
	"math"
	"testing"

	"git.lost.host/meutraa/groove/internal/game"
)

func holdNote(row, column, endRow int, t game.NoteType) *game.Note {
	return &game.Note{
		RowIndex: row, Column: column, Type: t, Denom: 1,
		Hold: &game.HoldData{EndRowIndex: endRow},
	}
}

func TestHoldHeldToCompletion(t *testing.T) {
	// Head on beat 1, tail on beat 5: held from 0.5s to 2.5s.
	note := holdNote(1, 0, 5, game.Hold)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	if e.activeHolds[0] == nil {
		t.Log("expected an engaged hold after the head judgment")
		t.FailNow()
	}

	step(e, 1.5, 1.0)
	step(e, 2.6, 1.1)

	if note.Hold.Result != game.Held {
		t.Log("hold result:", note.Hold.Result)
		t.Fail()
	}
	if e.holdsHeld != 1 {
		t.Log("holdsHeld:", e.holdsHeld)
		t.Fail()
	}
	want := initialLife + lifeFantastic + lifeHeld
	if math.Abs(e.life-want) > 1e-9 {
		t.Log("life:", e.life, "want:", want)
		t.Fail()
	}
	if e.activeHolds[0] != nil {
		t.Log("hold slot should clear at the tail")
		t.Fail()
	}
}

func TestHeldKeepsMissStreak(t *testing.T) {
	// Hold in column 0, plus a tap in column 1 that is never hit.
	hold := holdNote(1, 0, 5, game.Hold)
	missed := tap(2, 1)
	e, q := newTestEngine([]*game.Note{hold, missed})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)
	step(e, 1.5, 1.0)

	if missed.Result == nil || missed.Result.Grade != game.Miss {
		t.Log("tap result:", missed.Result)
		t.FailNow()
	}
	if e.missCombo != 1 {
		t.Log("missCombo:", e.missCombo)
		t.FailNow()
	}

	step(e, 2.6, 1.1)

	if hold.Hold.Result != game.Held {
		t.Log("hold result:", hold.Hold.Result)
		t.Fail()
	}
	if e.missCombo != 1 {
		t.Log("a completed hold must leave the miss streak alone:", e.missCombo)
		t.Fail()
	}
}

func TestHoldDroppedWhenReleasedTooLong(t *testing.T) {
	note := holdNote(1, 0, 5, game.Hold)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)
	release(e, q, 0, 0.6)
	step(e, 0.6, 0.1)

	// Life drains over the hold window once the lane is up.
	step(e, 1.0, 0.4)

	if note.Hold.Result != game.LetGo {
		t.Log("hold result:", note.Hold.Result)
		t.Fail()
	}
	if !note.Hold.LetGoStarted {
		t.Log("expected the let-go fade to start")
		t.Fail()
	}
	if e.combo != 0 || e.missCombo != 1 {
		t.Log("combo:", e.combo, "missCombo:", e.missCombo)
		t.Fail()
	}
	want := initialLife + lifeFantastic + lifeLetGo
	if math.Abs(e.life-want) > 1e-9 {
		t.Log("life:", e.life, "want:", want)
		t.Fail()
	}
}

func TestHoldRefillsWhileEngaged(t *testing.T) {
	note := holdNote(1, 0, 5, game.Hold)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	// Release briefly, then re-engage before the window empties.
	release(e, q, 0, 0.7)
	step(e, 0.7, 0.016)
	step(e, 0.8, 0.1)
	if note.Hold.Life >= maxHoldLife {
		t.Log("life should have drained while released:", note.Hold.Life)
		t.Fail()
	}

	press(e, q, 0, 0.85)
	step(e, 0.85, 0.05)
	if note.Hold.Life != maxHoldLife {
		t.Log("life should refill while pressed:", note.Hold.Life)
		t.Fail()
	}

	step(e, 2.6, 1.75)
	if note.Hold.Result != game.Held {
		t.Log("hold result:", note.Hold.Result)
		t.Fail()
	}
}

func TestRollDecaysWithoutSteps(t *testing.T) {
	note := holdNote(1, 0, 5, game.Roll)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	// Holding the lane down is not enough for a roll.
	step(e, 0.7, 0.2)
	step(e, 0.95, 0.25)

	if note.Hold.Result != game.LetGo {
		t.Log("roll result:", note.Hold.Result)
		t.Fail()
	}
	if e.rollsHeld != 0 {
		t.Log("rollsHeld:", e.rollsHeld)
		t.Fail()
	}
}

func TestRollSurvivesByRestepping(t *testing.T) {
	note := holdNote(1, 0, 5, game.Roll)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	// Re-step every quarter second until past the tail at 2.5s.
	for i := 1; ; i++ {
		tm := 0.5 + float64(i)*0.05
		if i%5 == 0 {
			release(e, q, 0, tm-0.01)
			press(e, q, 0, tm)
		}
		step(e, tm, 0.05)
		if tm > 2.52 {
			break
		}
	}

	if note.Hold.Result != game.Held {
		t.Log("roll result:", note.Hold.Result, "life:", note.Hold.Life)
		t.Fail()
	}
	if e.rollsHeld != 1 {
		t.Log("rollsHeld:", e.rollsHeld)
		t.Fail()
	}
}

func TestLetGoFadeIsMonotonic(t *testing.T) {
	note := holdNote(1, 0, 5, game.Hold)
	e, q := newTestEngine([]*game.Note{note})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)
	release(e, q, 0, 0.6)
	step(e, 0.6, 0.1)
	step(e, 1.0, 0.4)

	if note.Hold.Result != game.LetGo {
		t.Log("hold result:", note.Hold.Result)
		t.FailNow()
	}

	last := note.Hold.Life
	for _, tm := range []float64{1.1, 1.2, 1.3} {
		step(e, tm, 0.1)
		if note.Hold.Life > last {
			t.Log("fade went up at", tm, ":", note.Hold.Life, ">", last)
			t.Fail()
		}
		last = note.Hold.Life
	}
	if note.Hold.Result != game.LetGo {
		t.Log("fade must not change the terminal result")
		t.Fail()
	}
}
