package judge

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/groove/internal/audio"
	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/input"
	"git.lost.host/meutraa/groove/internal/score"
	"git.lost.host/meutraa/groove/internal/scroll"
	"git.lost.host/meutraa/groove/internal/timing"
)

const (
	minSecondsToStep  = 6.0
	minSecondsToMusic = 2.0
	mModHighCap       = 600.0

	receptorGlowDuration = 0.2
	receptorBopDuration  = 0.11
	mineExplosionSeconds = 0.6
	holdJudgementSeconds = 0.8
	milestoneSeconds     = 0.6

	// How far past the receptors a missed arrow keeps scrolling before
	// it is culled, in pixels.
	drawDistanceAfterReceptors = 130.0
)

// Action is the navigation request returned from Update.
type Action uint8

const (
	ActionNone Action = iota
	ActionEvaluation
	ActionSelectMusic
)

// Arrow is the ephemeral scheduling handle for a spawned note. Only the
// note's own result fields are authoritative.
type Arrow struct {
	Beat      float64
	Column    int
	NoteIndex int
}

// ActiveHold tracks an engaged hold or roll in one column.
type ActiveHold struct {
	NoteIndex int
	EndTime   float64
	Type      game.NoteType
	LetGo     bool
	IsPressed bool
	Life      float64
}

// JudgementEvent is the most recent row judgement, for the renderer.
type JudgementEvent struct {
	Judgement game.Judgement
	At        float64
}

// HoldJudgementEvent is a per-column held/let-go flash.
type HoldJudgementEvent struct {
	Result  game.HoldResult
	Elapsed float64
}

// TapExplosion is a symbolic request for the renderer; the engine never
// touches sprite data.
type TapExplosion struct {
	Grade   game.Grade
	Elapsed float64
}

type MineExplosion struct {
	Elapsed float64
}

type MilestoneKind uint8

const (
	MilestoneHundred MilestoneKind = iota
	MilestoneThousand
)

type ComboMilestone struct {
	Kind    MilestoneKind
	Elapsed float64
}

// Options configures an Engine. Zero values fall back to sane defaults.
type Options struct {
	ScrollSpeed  scroll.Setting
	DrawDistance float64 // pixels of runway above the receptors
	Audio        audio.Service
	Queue        *input.Queue
	ExitHoldTime float64 // seconds a mapped exit key must be held
}

// Engine is the frame-stepped judgment core: it owns the chart's note
// state, drains input edges, judges taps and mines, advances holds,
// schedules visible arrows and keeps the life meter and combo. One
// Update call per render tick; nothing here blocks.
type Engine struct {
	chart  *game.Chart
	timing *timing.Data
	notes  []*game.Note
	audio  audio.Service
	queue  *input.Queue
	lanes  int

	songStart   time.Time
	startDelay  float64
	currentTime float64
	currentBeat float64
	inFreeze    bool
	inDelay     bool

	noteTimes           []float64
	noteDisplayBeats    []float64
	holdEndTimes        []float64 // NaN for notes without a hold body
	holdEndDisplayBeats []float64
	rowNotes            map[int][]*game.Note
	musicEndTime        float64
	maxRowIndex         int

	spawnCursor     int
	judgedRowCursor int
	arrows          [][]Arrow

	combo          int
	maxCombo       int
	missCombo      int
	fullComboGrade game.Grade
	hasFullCombo   bool
	fcBroken       bool

	judgementCounts []int
	scoringCounts   []int
	lastJudgement   *JudgementEvent

	life        float64
	regenGrace  int
	failing     bool
	failTime    float64
	hasFailTime bool

	earnedGradePoints   int
	possibleGradePoints int
	completedNaturally  bool

	scrollSpeed        scroll.Setting
	referenceBPM       float64
	pixelsPerSecond    float64
	travelTime         float64
	drawDistanceBefore float64

	receptorGlow    []float64
	receptorBop     []float64
	tapExplosions   []*TapExplosion
	mineExplosions  []*MineExplosion
	holdJudgements  []*HoldJudgementEvent
	activeHolds     []*ActiveHold
	comboMilestones []ComboMilestone

	holdsHeld         int
	holdsHeldForScore int
	rollsHeld         int
	rollsHeldForScore int
	minesHit          int
	minesHitForScore  int
	minesAvoided      int
	handsAchieved     int
	handsHolding      int

	laneState *input.LaneState
	prevDown  []bool

	exitHoldStart  time.Time
	exitHoldAction Action
	exitHolding    bool
	exitHoldTime   float64

	logTimer float64
}

// New resolves the chart's rows against the timing table, drops notes
// without a valid mapping, precomputes the per-note caches and returns
// an engine ready for Start.
func New(chart *game.Chart, t *timing.Data, opts Options) *Engine {
	lanes := chart.Difficulty.NKeys
	if lanes <= 0 {
		lanes = 4
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Queue == nil {
		opts.Queue = input.NewQueue()
	}
	if opts.DrawDistance <= 0 {
		opts.DrawDistance = 1080
	}
	if opts.ExitHoldTime <= 0 {
		opts.ExitHoldTime = 1.0
	}
	if opts.ScrollSpeed.Value <= 0 {
		opts.ScrollSpeed = scroll.Default()
	}

	notes := make([]*game.Note, 0, len(chart.Notes))
	maxRow := 0
	for _, note := range chart.Notes {
		beat, ok := t.BeatForRow(note.RowIndex)
		if !ok {
			log.Printf("dropping note at row %d col %d: no beat mapping", note.RowIndex, note.Column)
			continue
		}
		note.Beat = beat
		if note.Hold != nil {
			endBeat, ok := t.BeatForRow(note.Hold.EndRowIndex)
			if !ok {
				log.Printf("dropping hold at row %d col %d: no tail mapping", note.RowIndex, note.Column)
				continue
			}
			note.Hold.EndBeat = endBeat
			note.Hold.Life = maxHoldLife
			note.Hold.LastHeldRowIndex = note.RowIndex
			note.Hold.LastHeldBeat = beat
		}
		if note.RowIndex > maxRow {
			maxRow = note.RowIndex
		}
		notes = append(notes, note)
	}

	rowNotes := make(map[int][]*game.Note)
	for _, note := range notes {
		rowNotes[note.RowIndex] = append(rowNotes[note.RowIndex], note)
	}

	noteTimes := make([]float64, len(notes))
	displayBeats := make([]float64, len(notes))
	holdEnds := make([]float64, len(notes))
	holdEndDisplay := make([]float64, len(notes))
	lastRelevant := 0.0
	for i, note := range notes {
		noteTimes[i] = t.TimeForBeat(note.Beat)
		displayBeats[i] = t.DisplayedBeat(note.Beat)
		holdEnds[i] = math.NaN()
		holdEndDisplay[i] = math.NaN()
		end := noteTimes[i]
		if note.Hold != nil {
			holdEnds[i] = t.TimeForBeat(note.Hold.EndBeat)
			holdEndDisplay[i] = t.DisplayedBeat(note.Hold.EndBeat)
			end = holdEnds[i]
		}
		if end > lastRelevant {
			lastRelevant = end
		}
	}

	e := &Engine{
		chart:  chart,
		timing: t,
		notes:  notes,
		audio:  opts.Audio,
		queue:  opts.Queue,
		lanes:  lanes,

		noteTimes:           noteTimes,
		noteDisplayBeats:    displayBeats,
		holdEndTimes:        holdEnds,
		holdEndDisplayBeats: holdEndDisplay,
		rowNotes:            rowNotes,
		musicEndTime:        lastRelevant + wayOffWindow() + 2.0,
		maxRowIndex:         maxRow,

		arrows:          make([][]Arrow, lanes),
		judgementCounts: make([]int, game.NumGrades),
		scoringCounts:   make([]int, game.NumGrades),

		life: initialLife,

		scrollSpeed:        opts.ScrollSpeed,
		drawDistanceBefore: opts.DrawDistance,

		receptorGlow:   make([]float64, lanes),
		receptorBop:    make([]float64, lanes),
		tapExplosions:  make([]*TapExplosion, lanes),
		mineExplosions: make([]*MineExplosion, lanes),
		holdJudgements: make([]*HoldJudgementEvent, lanes),
		activeHolds:    make([]*ActiveHold, lanes),

		laneState: input.NewLaneState(lanes),
		prevDown:  make([]bool, lanes),

		exitHoldTime: opts.ExitHoldTime,
	}

	e.possibleGradePoints = e.computePossiblePoints()
	e.resolveScroll(chart.DisplayBPM)
	return e
}

// computePossiblePoints counts one tap judgment per non-mine row (chords
// score once) plus the hold and roll bonuses.
func (e *Engine) computePossiblePoints() int {
	rows := map[int]struct{}{}
	holds := 0
	for _, note := range e.notes {
		if note.Type == game.Mine {
			continue
		}
		rows[note.RowIndex] = struct{}{}
		if note.Hold != nil {
			holds++
		}
	}
	return len(rows)*score.GradePoints(game.Fantastic) + holds*score.HoldScoreHeld
}

func (e *Engine) resolveScroll(displayBPM string) {
	firstBeat := 0.0
	if len(e.notes) > 0 {
		firstBeat = e.notes[0].Beat
	}
	initialBPM := e.timing.BPMForBeat(firstBeat)

	reference, ok := referenceBPMFromDisplayTag(displayBPM)
	if !ok {
		reference = e.timing.CappedMaxBPM(mModHighCap)
	}
	if math.IsNaN(reference) || math.IsInf(reference, 0) || reference <= 0 {
		reference = math.Max(initialBPM, 120)
	}
	e.referenceBPM = reference
	e.updateScrollSpeeds(initialBPM)
}

func (e *Engine) updateScrollSpeeds(bpm float64) {
	pps := e.scrollSpeed.PixelsPerSecond(bpm, e.referenceBPM)
	if math.IsNaN(pps) || math.IsInf(pps, 0) || pps <= 0 {
		pps = scroll.Default().PixelsPerSecond(bpm, e.referenceBPM)
	}
	e.pixelsPerSecond = pps

	travel := e.scrollSpeed.TravelTime(e.drawDistanceBefore, bpm, e.referenceBPM)
	if math.IsNaN(travel) || math.IsInf(travel, 0) || travel <= 0 {
		travel = e.drawDistanceBefore / pps
	}
	e.travelTime = travel
}

// referenceBPMFromDisplayTag reads #DISPLAYBPM for the MMod reference,
// accepting "180" or "90:180" and rejecting random ("*") or junk values.
func referenceBPMFromDisplayTag(tag string) (float64, bool) {
	s := strings.TrimSpace(tag)
	if s == "" || s == "*" {
		return 0, false
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Start stamps the preroll and kicks the music off. The preroll gives
// the player a runway before the first note while keeping the music cut
// aligned with music time zero.
func (e *Engine) Start(musicPath string, now time.Time) {
	firstSecond := 0.0
	if len(e.notes) > 0 {
		firstSecond = e.noteTimes[0]
	}
	delay := math.Max(minSecondsToStep-firstSecond, minSecondsToMusic)
	e.startDelay = delay
	e.songStart = now.Add(time.Duration(delay * float64(time.Second)))
	e.currentTime = -delay

	if musicPath != "" {
		e.audio.PlayMusic(musicPath, audio.Cut{StartSec: -delay, LengthSec: math.Inf(1)})
	}
}

// HoldExit begins a hold-to-exit gesture; Update returns the action once
// the gesture has been held long enough. ReleaseExit cancels it.
func (e *Engine) HoldExit(action Action, now time.Time) {
	e.exitHolding = true
	e.exitHoldStart = now
	e.exitHoldAction = action
}

func (e *Engine) ReleaseExit() {
	e.exitHolding = false
}

// Update advances the engine by one frame. All judging for the frame
// completes before it returns, so the renderer always sees a consistent
// snapshot.
func (e *Engine) Update(now time.Time, deltaTime float64) Action {
	if e.exitHolding && now.Sub(e.exitHoldStart).Seconds() >= e.exitHoldTime {
		e.exitHolding = false
		e.audio.StopMusic()
		return e.exitHoldAction
	}

	musicTime := now.Sub(e.songStart).Seconds()
	e.currentTime = musicTime
	info := e.timing.BeatInfoForTime(musicTime)
	e.currentBeat = info.Beat
	e.inFreeze = info.InFreeze
	e.inDelay = info.InDelay

	e.updateScrollSpeeds(e.timing.BPMForBeat(e.currentBeat))

	if musicTime >= e.musicEndTime {
		e.completedNaturally = true
		return ActionEvaluation
	}

	e.processInputEdges(musicTime, now)

	for lane := 0; lane < e.lanes; lane++ {
		down := e.laneState.IsDown(lane)
		if down && e.prevDown[lane] {
			e.tryHitMineWhileHeld(lane, musicTime)
		}
		e.prevDown[lane] = down
	}

	e.updateActiveHolds(musicTime, deltaTime)
	e.decayLetGoHoldLife()
	e.tickVisualEffects(deltaTime)
	e.spawnLookaheadArrows(musicTime)
	e.applyPassiveMissesAndMineAvoidance(musicTime)
	e.cullScrolledOutArrows(musicTime)
	e.updateJudgedRows()

	e.logTimer += deltaTime
	if e.logTimer >= 1.0 {
		active := 0
		for _, col := range e.arrows {
			active += len(col)
		}
		log.Printf("beat %.2f time %.2f combo %d misses %d arrows %d",
			e.currentBeat, musicTime, e.combo, e.missCombo, active)
		e.logTimer -= 1.0
	}

	return ActionNone
}

// processInputEdges drains the queue in arrival order. The judging time
// for each edge is the frame's music time pulled back by however long
// the edge sat in the queue, so frame pacing does not skew accuracy.
func (e *Engine) processInputEdges(musicTime float64, now time.Time) {
	for _, edge := range e.queue.Drain() {
		if edge.Lane < 0 || edge.Lane >= e.lanes {
			continue
		}
		wasDown, isDown := e.laneState.Apply(edge)

		if edge.Pressed && isDown && !wasDown {
			elapsed := now.Sub(edge.Timestamp).Seconds()
			if elapsed < 0 {
				elapsed = 0
			}
			eventTime := musicTime - elapsed
			hit := e.judgeATap(edge.Lane, eventTime)
			e.refreshRollLifeOnStep(edge.Lane)
			if !hit {
				e.receptorBop[edge.Lane] = receptorBopDuration
			}
		}
	}
}

func (e *Engine) updateGradeTotals() {
	e.earnedGradePoints = score.CalculateGradePoints(
		e.scoringCounts, e.holdsHeldForScore, e.rollsHeldForScore, e.minesHitForScore)
}
