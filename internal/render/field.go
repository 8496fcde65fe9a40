package render

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/judge"
	"git.lost.host/meutraa/groove/internal/scroll"
	"git.lost.host/meutraa/groove/internal/theme"
)

const (
	pixelsPerRow  = 24.0
	columnSpacing = 4
	fieldLeft     = 6
)

// Field draws one engine snapshot per frame as a scrolling playfield
// with receptors near the bottom of the terminal.
type Field struct {
	renderer Renderer
	theme    theme.Theme
}

func NewField(r Renderer, t theme.Theme) *Field {
	return &Field{renderer: r, theme: t}
}

func (f *Field) columnX(column int) int {
	return fieldLeft + column*columnSpacing
}

// noteOffsetPixels is how far above the receptors a note sits right now.
func noteOffsetPixels(snap *judge.Snapshot, noteIndex int) float64 {
	if snap.ScrollSpeed.Mod == scroll.CMod {
		return (snap.NoteTimes[noteIndex] - snap.MusicTime) * snap.PixelsPerSecond
	}
	return (snap.NoteDisplayBeats[noteIndex] - snap.DisplayedBeat) *
		scroll.ArrowSpacing * snap.BeatMultiplier
}

func holdTailOffsetPixels(snap *judge.Snapshot, noteIndex int) float64 {
	if snap.ScrollSpeed.Mod == scroll.CMod {
		return (snap.HoldEndTimes[noteIndex] - snap.MusicTime) * snap.PixelsPerSecond
	}
	return (snap.HoldEndDisplayBeats[noteIndex] - snap.DisplayedBeat) *
		scroll.ArrowSpacing * snap.BeatMultiplier
}

func (f *Field) Draw(snap *judge.Snapshot) {
	_, height := f.renderer.Size()
	receptorRow := height - 4
	if receptorRow < 4 {
		receptorRow = 4
	}

	f.renderer.Clear()

	for column, lane := range snap.Lanes {
		x := f.columnX(column)
		f.renderer.Fill(receptorRow, x,
			f.theme.RenderReceptor(column, lane.Glow, lane.Bop))

		for _, arrow := range lane.Arrows {
			f.drawArrow(snap, arrow, receptorRow, x)
		}

		if lane.MineExplosion != nil {
			f.renderer.Fill(receptorRow, x, "✸")
		}
		if hj := lane.HoldJudgement; hj != nil {
			f.renderer.Fill(receptorRow+1, x-1, f.theme.HoldResultName(hj.Result))
		}
	}

	f.drawHUD(snap, receptorRow)
}

func (f *Field) drawArrow(snap *judge.Snapshot, arrow judge.Arrow, receptorRow, x int) {
	note := snap.Notes[arrow.NoteIndex]
	y := noteOffsetPixels(snap, arrow.NoteIndex)
	row := receptorRow - int(math.Round(y/pixelsPerRow))

	if note.Hold != nil && !math.IsNaN(snap.HoldEndTimes[arrow.NoteIndex]) {
		f.drawHoldBody(snap, arrow.NoteIndex, note, receptorRow, row, x)
	}

	if row < 1 || row > receptorRow+5 {
		return
	}
	if note.Type == game.Mine {
		f.renderer.Fill(row, x, f.theme.RenderMine(note.Column))
		return
	}
	f.renderer.Fill(row, x, f.theme.RenderNote(note.Column, note.Denom))
}

func (f *Field) drawHoldBody(snap *judge.Snapshot, noteIndex int, note *game.Note, receptorRow, headRow, x int) {
	tailY := holdTailOffsetPixels(snap, noteIndex)
	tailRow := receptorRow - int(math.Round(tailY/pixelsPerRow))

	// An engaged head pins the body to the receptors.
	top := tailRow
	bottom := headRow
	if bottom > receptorRow {
		bottom = receptorRow
	}
	if top < 1 {
		top = 1
	}
	for row := top; row < bottom; row++ {
		if row < 1 || row > receptorRow {
			continue
		}
		if note.Type == game.Roll {
			f.renderer.Fill(row, x, f.theme.RenderRollBody(note.Column, note.Hold.Life))
		} else {
			f.renderer.Fill(row, x, f.theme.RenderHoldBody(note.Column, note.Hold.Life))
		}
	}
}

// drawHUD puts the life meter above the field and the judgement
// readout in a side column just right of the last lane.
func (f *Field) drawHUD(snap *judge.Snapshot, receptorRow int) {
	hudX := f.columnX(len(snap.Lanes)) + columnSpacing

	f.renderer.Fill(1, fieldLeft, f.theme.LifeMeter(snap.Life, snap.IsFailing, 24))

	if combo := f.theme.ComboText(snap.Combo); combo != "" {
		f.renderer.Fill(receptorRow+2, fieldLeft+columnSpacing, combo)
	}
	if snap.MissCombo >= 4 {
		f.renderer.Fill(receptorRow+2, fieldLeft+columnSpacing,
			fmt.Sprintf("\033[1;31m%d\033[0m", snap.MissCombo))
	}

	if j := snap.LastJudgement; j != nil {
		f.renderer.Fill(receptorRow/2, hudX, f.theme.JudgementName(j.Judgement.Grade))
		if j.Judgement.Grade != game.Miss {
			f.renderer.Fill(receptorRow/2+1, hudX,
				fmt.Sprintf("%+.1fms", j.Judgement.TimeErrorMs))
		}
	}

	for _, m := range snap.Milestones {
		text := "100"
		if m.Kind == judge.MilestoneThousand {
			text = "1000!"
		}
		f.renderer.Fill(receptorRow/2-1, hudX, fmt.Sprintf("\033[1m%s\033[0m", text))
	}

	percent := 0.0
	if snap.PossiblePoints > 0 {
		p := float64(snap.EarnedPoints) / float64(snap.PossiblePoints)
		if p > 0 {
			percent = p
		}
	}
	f.renderer.FillColor(2, hudX, f.theme.TierColor(percent),
		fmt.Sprintf("%6.2f%%", percent*100))
}
