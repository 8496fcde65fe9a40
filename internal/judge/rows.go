package judge

import (
	"log"
	"math"

	"git.lost.host/meutraa/groove/internal/game"
)

// updateJudgedRows walks the row cursor forward over every row whose
// notes all have results, finalizing each exactly once.
func (e *Engine) updateJudgedRows() {
	for e.judgedRowCursor <= e.maxRowIndex {
		notes := e.rowNotes[e.judgedRowCursor]

		complete := true
		for _, note := range notes {
			if note.Type == game.Mine {
				if note.Mine == game.MinePending {
					complete = false
					break
				}
				continue
			}
			if note.Result == nil {
				complete = false
				break
			}
		}
		if !complete {
			return
		}

		judgements := make([]*game.Judgement, 0, len(notes))
		for _, note := range notes {
			if note.Type != game.Mine && note.Result != nil {
				judgements = append(judgements, note.Result)
			}
		}
		e.finalizeRow(e.judgedRowCursor, judgements)
		e.judgedRowCursor++
	}
}

// finalizeRow folds a completed row's judgements into one chord outcome:
// a Miss dominates, otherwise the hit with the largest absolute time
// error wins the row.
func (e *Engine) finalizeRow(rowIndex int, judgements []*game.Judgement) {
	if len(judgements) == 0 {
		return
	}

	var final *game.Judgement
	rowHasMiss := false
	rowHasHit := false
	for _, j := range judgements {
		if j.Grade == game.Miss {
			rowHasMiss = true
			if final == nil || final.Grade != game.Miss {
				final = j
			}
		}
		if j.Grade == game.Fantastic || j.Grade == game.Excellent || j.Grade == game.Great {
			rowHasHit = true
		}
	}
	if !rowHasMiss {
		for _, j := range judgements {
			if final == nil || math.Abs(j.TimeErrorMs) > math.Abs(final.TimeErrorMs) {
				final = j
			}
		}
	}

	grade := final.Grade
	e.judgementCounts[grade]++
	if !e.isDead() {
		e.scoringCounts[grade]++
		e.updateGradeTotals()
	}
	log.Printf("finalized row %d grade %v offset %.2fms", rowIndex, grade, final.TimeErrorMs)

	e.applyLifeChange(lifeDeltaFor(grade))

	e.lastJudgement = &JudgementEvent{Judgement: *final}

	if rowHasHit {
		e.missCombo = 0
	}
	if rowHasMiss {
		e.missCombo++
	}

	if rowHasMiss || grade == game.Decent || grade == game.WayOff {
		e.combo = 0
		e.breakFullCombo()
	} else {
		e.combo++
		if e.combo > e.maxCombo {
			e.maxCombo = e.combo
		}
		if e.combo%1000 == 0 {
			e.triggerMilestone(MilestoneThousand)
			e.triggerMilestone(MilestoneHundred)
		} else if e.combo%100 == 0 {
			e.triggerMilestone(MilestoneHundred)
		}

		if !e.fcBroken {
			if !e.hasFullCombo || grade > e.fullComboGrade {
				e.fullComboGrade = grade
			}
			e.hasFullCombo = true
		}
	}

	e.updateHandsStats(rowIndex)
}

// updateHandsStats counts a hand when a row's successful steps plus the
// lanes already occupied by holds reach three, and tracks how many
// lanes new holds occupy.
func (e *Engine) updateHandsStats(rowIndex int) {
	successfulSteps := 0
	holdsStarted := 0
	for _, note := range e.rowNotes[rowIndex] {
		if note.Type == game.Mine {
			continue
		}
		if note.Result != nil && note.Result.Grade != game.Miss {
			successfulSteps++
			if note.Hold != nil {
				holdsStarted++
			}
		}
	}
	if successfulSteps > 0 && successfulSteps+e.handsHolding >= 3 {
		e.handsAchieved++
	}
	e.handsHolding += holdsStarted
}

func lifeDeltaFor(grade game.Grade) float64 {
	switch grade {
	case game.Fantastic:
		return lifeFantastic
	case game.Excellent:
		return lifeExcellent
	case game.Great:
		return lifeGreat
	case game.Decent:
		return lifeDecent
	case game.WayOff:
		return lifeWayOff
	default:
		return lifeMiss
	}
}

func (e *Engine) triggerMilestone(kind MilestoneKind) {
	for i := range e.comboMilestones {
		if e.comboMilestones[i].Kind == kind {
			e.comboMilestones[i].Elapsed = 0
			return
		}
	}
	e.comboMilestones = append(e.comboMilestones, ComboMilestone{Kind: kind})
}
