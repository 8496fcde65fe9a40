package game

// TimingTags carries the raw timing segments of a chart, already split
// out per difficulty. Beat/value pairs stay unconverted here; the timing
// package owns all beat to time mapping.
type TimingTags struct {
	Offset float64
	BPMs   []BeatValue
	Stops  []BeatValue
	Delays []BeatValue
	Warps  []BeatValue
	Speeds []SpeedSegment

	// Rows per measure of the note data, used for the row to beat table.
	MeasureRows []int
}

type BeatValue struct {
	Beat  float64
	Value float64
}

type SpeedUnit uint8

const (
	SpeedUnitBeats SpeedUnit = iota
	SpeedUnitSeconds
)

type SpeedSegment struct {
	Beat  float64
	Ratio float64
	Delay float64
	Unit  SpeedUnit
}

type Chart struct {
	Notes      []*Note
	NoteCount  int
	HoldCount  int
	RollCount  int
	MineCount  int
	Difficulty Difficulty
	Timing     TimingTags
	DisplayBPM string
	ShortHash  string
}
