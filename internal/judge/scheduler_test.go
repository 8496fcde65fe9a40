package judge

import (
	"testing"

	"git.lost.host/meutraa/groove/internal/game"
)

func countArrows(e *Engine) int {
	total := 0
	for _, col := range e.arrows {
		total += len(col)
	}
	return total
}

func TestArrowsSpawnWithinTravelTime(t *testing.T) {
	// Beat 4 is two seconds in; the default travel time is shorter.
	e, _ := newTestEngine([]*game.Note{tap(4, 0)})

	step(e, 0, 0.016)
	if countArrows(e) != 0 {
		t.Log("arrow spawned before entering the runway")
		t.Fail()
	}

	step(e, 0.5, 0.016)
	if countArrows(e) != 1 {
		t.Log("arrow missing inside the runway")
		t.Fail()
	}
}

func TestMissedArrowScrollsPastBeforeCulling(t *testing.T) {
	e, _ := newTestEngine([]*game.Note{tap(1, 0)})

	step(e, 0, 0.016)
	step(e, 0.69, 0.2)

	if e.notes[0].Result == nil || e.notes[0].Result.Grade != game.Miss {
		t.Log("result:", e.notes[0].Result)
		t.FailNow()
	}
	if countArrows(e) != 1 {
		t.Log("missed arrow culled too early")
		t.Fail()
	}

	step(e, 0.75, 0.06)
	if countArrows(e) != 0 {
		t.Log("missed arrow still visible past the cull distance")
		t.Fail()
	}
}

func TestJudgedArrowRemovedImmediately(t *testing.T) {
	e, q := newTestEngine([]*game.Note{tap(1, 0)})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	if countArrows(e) != 0 {
		t.Log("judged arrow should leave the field")
		t.Fail()
	}
}

func TestPendingMineIsNeverCulled(t *testing.T) {
	mine := &game.Note{RowIndex: 1, Column: 0, Type: game.Mine, Denom: 1}
	e, _ := newTestEngine([]*game.Note{mine})

	step(e, 0, 0.016)
	step(e, 0.55, 0.05)

	// Still inside the mine window: pending, on screen.
	if mine.Mine != game.MinePending || countArrows(e) != 1 {
		t.Log("mine:", mine.Mine, "arrows:", countArrows(e))
		t.Fail()
	}
}

func TestSnapshotViewsEngineState(t *testing.T) {
	e, q := newTestEngine([]*game.Note{tap(1, 0), tap(2, 1)})

	step(e, 0, 0.016)
	press(e, q, 0, 0.5)
	step(e, 0.5, 0.016)

	snap := e.Snapshot()
	if len(snap.Lanes) != 4 {
		t.Log("lanes:", len(snap.Lanes))
		t.Fail()
	}
	if snap.Combo != 1 || snap.Life != e.life {
		t.Log("combo:", snap.Combo, "life:", snap.Life)
		t.Fail()
	}
	if snap.LastJudgement == nil || snap.LastJudgement.Judgement.Grade != game.Fantastic {
		t.Log("last judgement:", snap.LastJudgement)
		t.Fail()
	}
	if len(snap.Lanes[1].Arrows) != 1 {
		t.Log("second lane arrows:", len(snap.Lanes[1].Arrows))
		t.Fail()
	}
	if snap.Lanes[0].TapExplosion == nil {
		t.Log("expected a tap explosion in the judged lane")
		t.Fail()
	}
}
