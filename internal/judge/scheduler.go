package judge

import (
	"log"

	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/scroll"
)

// spawnLookaheadArrows pushes an arrow for every note entering the
// travel-time window. The cursor only ever moves forward.
func (e *Engine) spawnLookaheadArrows(musicTime float64) {
	lookaheadBeat := e.timing.BeatForTime(musicTime + e.travelTime)
	for e.spawnCursor < len(e.notes) && e.notes[e.spawnCursor].Beat < lookaheadBeat {
		note := e.notes[e.spawnCursor]
		e.arrows[note.Column] = append(e.arrows[note.Column], Arrow{
			Beat:      note.Beat,
			Column:    note.Column,
			NoteIndex: e.spawnCursor,
		})
		e.spawnCursor++
	}
}

// applyPassiveMissesAndMineAvoidance misses the first unjudged note per
// column once its window has fully passed, and resolves mines nobody
// touched as avoided.
func (e *Engine) applyPassiveMissesAndMineAvoidance(musicTime float64) {
	for column := range e.arrows {
		index := -1
		for i, arrow := range e.arrows[column] {
			note := e.notes[arrow.NoteIndex]
			if note.Type == game.Mine {
				if note.Mine == game.MinePending {
					index = i
					break
				}
				continue
			}
			if note.Result == nil {
				index = i
				break
			}
		}
		if index < 0 {
			continue
		}

		arrow := e.arrows[column][index]
		note := e.notes[arrow.NoteIndex]
		noteTime := e.noteTimes[arrow.NoteIndex]

		if note.Type == game.Mine {
			if musicTime-noteTime > mineWindow() {
				note.Mine = game.MineAvoided
				e.minesAvoided++
				log.Printf("mine avoided row %d col %d", note.RowIndex, column)
			}
			continue
		}

		if musicTime-noteTime > wayOffWindow() {
			if hold := note.Hold; hold != nil && hold.Result != game.Held {
				hold.Result = game.LetGo
				if !hold.LetGoStarted {
					hold.LetGoStarted = true
					hold.LetGoStartedAt = musicTime
					hold.LetGoStartingLife = clampLife(hold.Life)
				}
			}
			note.Result = &game.Judgement{
				TimeErrorMs: (musicTime - noteTime) * 1000,
				Grade:       game.Miss,
				Row:         note.RowIndex,
				Column:      column,
			}
			log.Printf("missed row %d col %d", note.RowIndex, column)
		}
	}
}

// cullScrolledOutArrows drops arrows whose notes are resolved, keeping
// missed ones on screen until they scroll a fixed distance past the
// receptors. Pending mines are never culled.
func (e *Engine) cullScrolledOutArrows(musicTime float64) {
	var dispBeat, beatMultiplier float64
	cmod := e.scrollSpeed.Mod == scroll.CMod
	if !cmod {
		dispBeat = e.timing.DisplayedBeat(e.currentBeat)
		beatMultiplier = e.scrollSpeed.BeatMultiplier(e.referenceBPM) *
			e.timing.SpeedMultiplier(e.currentBeat, musicTime)
	}

	for column := range e.arrows {
		kept := e.arrows[column][:0]
		for _, arrow := range e.arrows[column] {
			note := e.notes[arrow.NoteIndex]
			if note.Type == game.Mine {
				switch note.Mine {
				case game.MinePending:
					kept = append(kept, arrow)
					continue
				case game.MineHit:
					continue
				}
			} else {
				if note.Result == nil {
					kept = append(kept, arrow)
					continue
				}
				if note.Result.Grade != game.Miss {
					continue
				}
			}

			// Missed note or avoided mine: cull on position.
			var past float64
			if cmod {
				past = (musicTime - e.noteTimes[arrow.NoteIndex]) * e.pixelsPerSecond
			} else {
				past = (dispBeat - e.noteDisplayBeats[arrow.NoteIndex]) * scroll.ArrowSpacing * beatMultiplier
			}
			if past <= drawDistanceAfterReceptors {
				kept = append(kept, arrow)
			}
		}
		e.arrows[column] = kept
	}
}

// tickVisualEffects ages the renderer-facing timers.
func (e *Engine) tickVisualEffects(deltaTime float64) {
	for i := range e.receptorGlow {
		if e.receptorGlow[i] = e.receptorGlow[i] - deltaTime; e.receptorGlow[i] < 0 {
			e.receptorGlow[i] = 0
		}
	}
	for i := range e.receptorBop {
		if e.receptorBop[i] = e.receptorBop[i] - deltaTime; e.receptorBop[i] < 0 {
			e.receptorBop[i] = 0
		}
	}

	milestones := e.comboMilestones[:0]
	for _, m := range e.comboMilestones {
		m.Elapsed += deltaTime
		if m.Elapsed < milestoneSeconds {
			milestones = append(milestones, m)
		}
	}
	e.comboMilestones = milestones

	for i, explosion := range e.tapExplosions {
		if explosion == nil {
			continue
		}
		explosion.Elapsed += deltaTime
		if explosion.Elapsed >= receptorGlowDuration*2 {
			e.tapExplosions[i] = nil
		}
	}
	for i, explosion := range e.mineExplosions {
		if explosion == nil {
			continue
		}
		explosion.Elapsed += deltaTime
		if explosion.Elapsed >= mineExplosionSeconds {
			e.mineExplosions[i] = nil
		}
	}
	for i, hj := range e.holdJudgements {
		if hj == nil {
			continue
		}
		hj.Elapsed += deltaTime
		if hj.Elapsed >= holdJudgementSeconds {
			e.holdJudgements[i] = nil
		}
	}
	if e.lastJudgement != nil {
		e.lastJudgement.At += deltaTime
	}
}
