package render

import (
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/judge"
	"git.lost.host/meutraa/groove/internal/scroll"
	"git.lost.host/meutraa/groove/internal/theme"
)

type fillCall struct {
	row, column int
	message     string
}

// recordingRenderer captures Fill calls so layout can be checked
// without a terminal.
type recordingRenderer struct {
	width, height int
	fills         []fillCall
}

func (r *recordingRenderer) Init() error      { return nil }
func (r *recordingRenderer) Deinit() error    { return nil }
func (r *recordingRenderer) Size() (int, int) { return r.width, r.height }
func (r *recordingRenderer) Clear()           { r.fills = nil }

func (r *recordingRenderer) RenderLoop(time.Duration, func(time.Time, float64) bool) {}

func (r *recordingRenderer) Fill(row, column int, message string) {
	r.fills = append(r.fills, fillCall{row, column, message})
}

func (r *recordingRenderer) FillColor(row, column int, _ color.RGBA, message string) {
	r.fills = append(r.fills, fillCall{row, column, message})
}

func fillsAt(fills []fillCall, row, column int) []fillCall {
	var out []fillCall
	for _, c := range fills {
		if c.row == row && c.column == column {
			out = append(out, c)
		}
	}
	return out
}

func testSnapshot() judge.Snapshot {
	return judge.Snapshot{
		MusicTime: 0.5,
		Lanes: []judge.LaneView{
			{Arrows: []judge.Arrow{{NoteIndex: 0}}},
			{}, {}, {},
		},
		Notes: []*game.Note{
			{Column: 0, Type: game.Tap, Denom: 4},
		},
		NoteTimes:           []float64{1.0},
		NoteDisplayBeats:    []float64{2.0},
		HoldEndTimes:        []float64{math.NaN()},
		HoldEndDisplayBeats: []float64{math.NaN()},
		ScrollSpeed:         scroll.Setting{Mod: scroll.CMod, Value: 240},
		PixelsPerSecond:     240,
		BeatMultiplier:      1,
		Combo:               107,
		LastJudgement: &judge.JudgementEvent{
			Judgement: game.Judgement{Grade: game.Great, TimeErrorMs: 12.3},
		},
		Milestones:     []judge.ComboMilestone{{Kind: judge.MilestoneHundred}},
		EarnedPoints:   50,
		PossiblePoints: 100,
	}
}

func TestDrawScrollsNotesTowardReceptors(t *testing.T) {
	r := &recordingRenderer{width: 80, height: 30}
	f := NewField(r, &theme.DefaultTheme{})

	snap := testSnapshot()
	f.Draw(&snap)

	// 0.5s out at 240 px/s is 120 px, five rows above the receptors.
	receptorRow := 26
	noteRow := receptorRow - 5
	if got := fillsAt(r.fills, noteRow, f.columnX(0)); len(got) != 1 {
		t.Log("note cells at expected row", noteRow, got)
		t.Fail()
	}
	for column := range snap.Lanes {
		if got := fillsAt(r.fills, receptorRow, f.columnX(column)); len(got) != 1 {
			t.Log("receptor missing in column", column)
			t.Fail()
		}
	}
}

func TestDrawPlacesHUDBesideField(t *testing.T) {
	r := &recordingRenderer{width: 80, height: 30}
	f := NewField(r, &theme.DefaultTheme{})

	snap := testSnapshot()
	f.Draw(&snap)

	receptorRow := 26
	hudX := f.columnX(len(snap.Lanes)) + columnSpacing

	checks := map[string]fillCall{
		"judgement name": {receptorRow / 2, hudX, "Great"},
		"time error":     {receptorRow/2 + 1, hudX, "ms"},
		"milestone":      {receptorRow/2 - 1, hudX, "100"},
		"score percent":  {2, hudX, "50.00%"},
	}

	for name, want := range checks {
		cells := fillsAt(r.fills, want.row, want.column)
		found := false
		for _, c := range cells {
			if strings.Contains(c.message, want.message) {
				found = true
			}
		}
		if !found {
			t.Log(name, "not drawn at", want.row, want.column, cells)
			t.Fail()
		}
	}

	// The side column must clear the last lane.
	if hudX <= f.columnX(len(snap.Lanes)-1) {
		t.Log("hud column overlaps the playfield", hudX)
		t.Fail()
	}
}
