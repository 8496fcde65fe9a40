package judge

import (
	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/score"
	"git.lost.host/meutraa/groove/internal/scroll"
)

// LaneView is the per-column slice of a Snapshot.
type LaneView struct {
	Arrows        []Arrow
	ActiveHold    *ActiveHold
	Glow          float64
	Bop           float64
	TapExplosion  *TapExplosion
	MineExplosion *MineExplosion
	HoldJudgement *HoldJudgementEvent
}

// Snapshot is the engine state a renderer needs for one frame. It
// aliases the engine's note slice; callers must treat it as read only
// and not hold it across Update calls.
type Snapshot struct {
	MusicTime     float64
	Beat          float64
	DisplayedBeat float64
	InFreeze      bool
	InDelay       bool

	Lanes []LaneView
	Notes []*game.Note

	NoteTimes           []float64
	NoteDisplayBeats    []float64
	HoldEndTimes        []float64
	HoldEndDisplayBeats []float64

	ScrollSpeed     scroll.Setting
	PixelsPerSecond float64
	BeatMultiplier  float64
	TravelTime      float64

	Combo          int
	MissCombo      int
	LastJudgement  *JudgementEvent
	Milestones     []ComboMilestone
	FullComboGrade game.Grade
	HasFullCombo   bool

	Life      float64
	IsFailing bool

	JudgementCounts []int
	EarnedPoints    int
	PossiblePoints  int
}

// Snapshot assembles the current frame view. Cheap; slices are shared,
// not copied.
func (e *Engine) Snapshot() Snapshot {
	lanes := make([]LaneView, e.lanes)
	for i := 0; i < e.lanes; i++ {
		lanes[i] = LaneView{
			Arrows:        e.arrows[i],
			ActiveHold:    e.activeHolds[i],
			Glow:          e.receptorGlow[i],
			Bop:           e.receptorBop[i],
			TapExplosion:  e.tapExplosions[i],
			MineExplosion: e.mineExplosions[i],
			HoldJudgement: e.holdJudgements[i],
		}
	}

	return Snapshot{
		MusicTime:     e.currentTime,
		Beat:          e.currentBeat,
		DisplayedBeat: e.timing.DisplayedBeat(e.currentBeat),
		InFreeze:      e.inFreeze,
		InDelay:       e.inDelay,

		Lanes: lanes,
		Notes: e.notes,

		NoteTimes:           e.noteTimes,
		NoteDisplayBeats:    e.noteDisplayBeats,
		HoldEndTimes:        e.holdEndTimes,
		HoldEndDisplayBeats: e.holdEndDisplayBeats,

		ScrollSpeed:     e.scrollSpeed,
		PixelsPerSecond: e.pixelsPerSecond,
		BeatMultiplier: e.scrollSpeed.BeatMultiplier(e.referenceBPM) *
			e.timing.SpeedMultiplier(e.currentBeat, e.currentTime),
		TravelTime: e.travelTime,

		Combo:          e.combo,
		MissCombo:      e.missCombo,
		LastJudgement:  e.lastJudgement,
		Milestones:     e.comboMilestones,
		FullComboGrade: e.fullComboGrade,
		HasFullCombo:   e.hasFullCombo && !e.fcBroken,

		Life:      e.life,
		IsFailing: e.failing,

		JudgementCounts: e.judgementCounts,
		EarnedPoints:    e.earnedGradePoints,
		PossiblePoints:  e.possibleGradePoints,
	}
}

// Results is the end-of-song summary used by the evaluation screen and
// the history store.
type Results struct {
	JudgementCounts []int
	HoldsHeld       int
	HoldsTotal      int
	RollsHeld       int
	RollsTotal      int
	MinesHit        int
	MinesAvoided    int
	MinesTotal      int
	HandsAchieved   int
	MaxCombo        int
	EarnedPoints    int
	PossiblePoints  int
	Percent         float64
	Failed          bool
	FailTime        float64
	Completed       bool
	FullCombo       bool
	FullComboGrade  game.Grade
	ScrollSpeed     scroll.Setting
}

func (e *Engine) Results() Results {
	counts := make([]int, len(e.judgementCounts))
	copy(counts, e.judgementCounts)

	return Results{
		JudgementCounts: counts,
		HoldsHeld:       e.holdsHeld,
		HoldsTotal:      e.chart.HoldCount,
		RollsHeld:       e.rollsHeld,
		RollsTotal:      e.chart.RollCount,
		MinesHit:        e.minesHit,
		MinesAvoided:    e.minesAvoided,
		MinesTotal:      e.chart.MineCount,
		HandsAchieved:   e.handsAchieved,
		MaxCombo:        e.maxCombo,
		EarnedPoints:    e.earnedGradePoints,
		PossiblePoints:  e.possibleGradePoints,
		Percent:         score.Percent(e.earnedGradePoints, e.possibleGradePoints),
		Failed:          e.failing,
		FailTime:        e.failTime,
		Completed:       e.completedNaturally,
		FullCombo:       e.hasFullCombo && !e.fcBroken,
		FullComboGrade:  e.fullComboGrade,
		ScrollSpeed:     e.scrollSpeed,
	}
}
