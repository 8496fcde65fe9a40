package game

type NoteType uint8

const (
	Tap NoteType = iota
	Hold
	Roll
	Mine
)

type HoldResult uint8

const (
	HoldPending HoldResult = iota
	Held
	LetGo
)

type MineResult uint8

const (
	MinePending MineResult = iota
	MineHit
	MineAvoided
)

// HoldData tracks the body of a hold or roll note. Once Result is set it
// is terminal; only the cosmetic let-go fade touches Life afterwards.
type HoldData struct {
	EndRowIndex int
	EndBeat     float64
	Result      HoldResult
	Life        float64

	// Snapshot for the post-let-go fade shown by the renderer.
	LetGoStarted      bool
	LetGoStartedAt    float64
	LetGoStartingLife float64

	// Monotonic progress marker, never moves backwards.
	LastHeldRowIndex int
	LastHeldBeat     float64
}

type Note struct {
	Beat     float64
	Column   int
	Type     NoteType
	RowIndex int
	Denom    int // The beat length, as a denominator, 4 = 1/4 beat

	// Judged state, set at most once by the engine
	Result *Judgement
	Hold   *HoldData
	Mine   MineResult
}
