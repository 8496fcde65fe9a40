package judge

import (
	"log"
	"math"

	"git.lost.host/meutraa/groove/internal/game"
)

// judgeATap judges the earliest unjudged arrow in the column against the
// corrected event time. Returns false when nothing was inside a window.
func (e *Engine) judgeATap(column int, eventTime float64) bool {
	arrowIndex := -1
	for i, arrow := range e.arrows[column] {
		note := e.notes[arrow.NoteIndex]
		if note.Type == game.Mine {
			if note.Mine == game.MinePending {
				arrowIndex = i
				break
			}
			continue
		}
		if note.Result == nil {
			arrowIndex = i
			break
		}
	}
	if arrowIndex < 0 {
		return false
	}

	arrow := e.arrows[column][arrowIndex]
	noteIndex := arrow.NoteIndex
	note := e.notes[noteIndex]
	timeError := eventTime - e.noteTimes[noteIndex]

	if note.Type == game.Mine {
		return e.handleMineHit(column, arrowIndex, noteIndex, timeError)
	}

	grade, ok := gradeForError(math.Abs(timeError))
	if !ok {
		return false
	}

	note.Result = &game.Judgement{
		TimeErrorMs: timeError * 1000,
		Grade:       grade,
		Row:         note.RowIndex,
		Column:      column,
	}
	log.Printf("judged row %d col %d error %.2fms grade %v",
		note.RowIndex, column, timeError*1000, grade)

	e.removeArrow(column, arrowIndex)
	e.receptorGlow[column] = receptorGlowDuration
	e.tapExplosions[column] = &TapExplosion{Grade: grade}

	if note.Hold != nil {
		endTime := e.holdEndTimes[noteIndex]
		if !math.IsNaN(endTime) {
			note.Hold.Life = maxHoldLife
			e.activeHolds[column] = &ActiveHold{
				NoteIndex: noteIndex,
				EndTime:   endTime,
				Type:      note.Type,
				IsPressed: true,
				Life:      maxHoldLife,
			}
		}
	}
	return true
}

// handleMineHit applies the contact penalty when the press or held lane
// is inside the mine window. Mines never consume a tap attempt against
// other notes.
func (e *Engine) handleMineHit(column, arrowIndex, noteIndex int, timeError float64) bool {
	if math.Abs(timeError) > mineWindow() {
		return false
	}
	note := e.notes[noteIndex]
	if note.Mine != game.MinePending {
		return false
	}

	note.Mine = game.MineHit
	e.minesHit++
	log.Printf("mine hit row %d col %d error %.2fms", note.RowIndex, column, timeError*1000)

	e.removeArrow(column, arrowIndex)
	e.applyLifeChange(lifeHitMine)
	updatedScoring := false
	if !e.isDead() {
		e.minesHitForScore++
		updatedScoring = true
	}
	e.combo = 0
	e.missCombo++
	e.breakFullCombo()
	e.receptorGlow[column] = 0
	e.mineExplosions[column] = &MineExplosion{}
	e.audio.PlaySFX("boom")

	if updatedScoring {
		e.updateGradeTotals()
	}
	return true
}

// tryHitMineWhileHeld lets a lane that stays held run into a mine, the
// same contact rule the press path uses.
func (e *Engine) tryHitMineWhileHeld(column int, currentTime float64) bool {
	for i, arrow := range e.arrows[column] {
		note := e.notes[arrow.NoteIndex]
		if note.Type != game.Mine || note.Mine != game.MinePending {
			continue
		}
		timeError := currentTime - e.noteTimes[arrow.NoteIndex]
		return e.handleMineHit(column, i, arrow.NoteIndex, timeError)
	}
	return false
}

// refreshRollLifeOnStep re-arms an engaged roll in the lane; a roll only
// survives by being stepped on repeatedly.
func (e *Engine) refreshRollLifeOnStep(column int) {
	active := e.activeHolds[column]
	if active == nil || active.Type != game.Roll || active.LetGo {
		return
	}
	note := e.notes[active.NoteIndex]
	if note.Hold == nil || note.Hold.Result == game.LetGo {
		return
	}
	active.Life = maxHoldLife
	note.Hold.Life = maxHoldLife
	note.Hold.LetGoStarted = false
	note.Hold.LetGoStartingLife = 0
}

func (e *Engine) removeArrow(column, index int) {
	e.arrows[column] = append(e.arrows[column][:index], e.arrows[column][index+1:]...)
}

func (e *Engine) breakFullCombo() {
	if e.hasFullCombo {
		e.fcBroken = true
	}
	e.hasFullCombo = false
	e.fullComboGrade = 0
}
