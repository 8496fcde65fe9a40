package judge

import (
	"git.lost.host/meutraa/groove/internal/game"
)

// updateActiveHolds runs the per-lane hold/roll life machine. A hold
// refills while its lane is pressed and drains while released; a roll
// drains no matter what and only a fresh step refills it. Crossing zero
// fires LetGo once; reaching the tail with life left fires Held once.
func (e *Engine) updateActiveHolds(currentTime, deltaTime float64) {
	for column := 0; column < e.lanes; column++ {
		active := e.activeHolds[column]
		if active == nil {
			continue
		}
		note := e.notes[active.NoteIndex]
		hold := note.Hold
		if hold == nil {
			e.activeHolds[column] = nil
			continue
		}

		if !active.LetGo && active.Life > 0 {
			e.advanceHeldMarker(note, hold)
		}

		pressed := e.laneState.IsDown(column)
		active.IsPressed = pressed

		if !active.LetGo {
			window := decayWindow(active.Type)
			if active.Type == game.Hold && pressed {
				active.Life = maxHoldLife
			} else {
				active.Life -= deltaTime / window
			}
			if active.Life < 0 {
				active.Life = 0
			} else if active.Life > maxHoldLife {
				active.Life = maxHoldLife
			}
		}

		hold.Life = active.Life
		hold.LetGoStarted = false
		hold.LetGoStartingLife = 0

		if !active.LetGo && active.Life <= 0 {
			active.LetGo = true
			e.handleHoldLetGo(column, active.NoteIndex)
			e.activeHolds[column] = nil
			continue
		}

		if currentTime >= active.EndTime {
			if !active.LetGo && active.Life > 0 {
				e.handleHoldSuccess(column, active.NoteIndex)
			}
			e.activeHolds[column] = nil
		}
	}
}

// advanceHeldMarker walks the hold's last-held row forward with the
// current beat. The marker never moves backwards and never leaves the
// hold's span.
func (e *Engine) advanceHeldMarker(note *game.Note, hold *game.HoldData) {
	currentRow, ok := e.timing.RowForBeat(e.currentBeat)
	if !ok {
		return
	}
	if currentRow < note.RowIndex {
		currentRow = note.RowIndex
	}
	if currentRow > hold.EndRowIndex {
		currentRow = hold.EndRowIndex
	}
	if currentRow <= hold.LastHeldRowIndex {
		return
	}
	hold.LastHeldRowIndex = currentRow
	beat, ok := e.timing.BeatForRow(currentRow)
	if !ok {
		beat = e.currentBeat
	}
	if beat < note.Beat {
		beat = note.Beat
	}
	if beat > hold.EndBeat {
		beat = hold.EndBeat
	}
	if beat > hold.LastHeldBeat {
		hold.LastHeldBeat = beat
	}
}

func (e *Engine) handleHoldLetGo(column, noteIndex int) {
	note := e.notes[noteIndex]
	if hold := note.Hold; hold != nil {
		if hold.Result == game.LetGo {
			return
		}
		hold.Result = game.LetGo
		if !hold.LetGoStarted {
			hold.LetGoStarted = true
			hold.LetGoStartedAt = e.currentTime
			hold.LetGoStartingLife = clampLife(hold.Life)
		}
	}

	if e.handsHolding > 0 {
		e.handsHolding--
	}

	e.holdJudgements[column] = &HoldJudgementEvent{Result: game.LetGo}

	e.applyLifeChange(lifeLetGo)
	if !e.isDead() {
		e.updateGradeTotals()
	}
	e.combo = 0
	e.missCombo++
	e.breakFullCombo()
	e.receptorGlow[column] = 0
}

func (e *Engine) handleHoldSuccess(column, noteIndex int) {
	note := e.notes[noteIndex]
	if hold := note.Hold; hold != nil {
		if hold.Result == game.Held {
			return
		}
		hold.Result = game.Held
		hold.Life = maxHoldLife
		hold.LetGoStarted = false
		hold.LetGoStartingLife = 0
		hold.LastHeldRowIndex = hold.EndRowIndex
		hold.LastHeldBeat = hold.EndBeat
	}

	if e.handsHolding > 0 {
		e.handsHolding--
	}

	updatedScoring := false
	switch note.Type {
	case game.Hold:
		e.holdsHeld++
		if !e.isDead() {
			e.holdsHeldForScore++
			updatedScoring = true
		}
	case game.Roll:
		e.rollsHeld++
		if !e.isDead() {
			e.rollsHeldForScore++
			updatedScoring = true
		}
	}
	e.applyLifeChange(lifeHeld)
	if updatedScoring {
		e.updateGradeTotals()
	}

	// Only row judgements touch the miss streak; a completed hold does
	// not clear it.
	e.tapExplosions[column] = &TapExplosion{Grade: game.Excellent}
	e.holdJudgements[column] = &HoldJudgementEvent{Result: game.Held}
}

// decayLetGoHoldLife fades the body of dropped holds from the life they
// had when let go. Purely cosmetic; it never re-triggers transitions.
func (e *Engine) decayLetGoHoldLife() {
	for _, note := range e.notes {
		hold := note.Hold
		if hold == nil || hold.Result == game.Held || !hold.LetGoStarted {
			continue
		}
		base := clampLife(hold.LetGoStartingLife)
		if base <= 0 {
			hold.Life = 0
			continue
		}
		elapsed := e.currentTime - hold.LetGoStartedAt
		if elapsed < 0 {
			elapsed = 0
		}
		life := base - elapsed/decayWindow(note.Type)
		if life < 0 {
			life = 0
		}
		hold.Life = life
	}
}

func clampLife(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxHoldLife {
		return maxHoldLife
	}
	return v
}
