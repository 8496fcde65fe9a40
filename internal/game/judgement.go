package game

type Grade uint8

const (
	Fantastic Grade = iota
	Excellent
	Great
	Decent
	WayOff
	Miss
	NumGrades
)

var gradeNames = [...]string{
	"Fantastic",
	"Excellent",
	"Great",
	"Decent",
	"Way Off",
	"Miss",
}

func (g Grade) String() string {
	if int(g) >= len(gradeNames) {
		return "Unknown"
	}
	return gradeNames[g]
}

// Judgement is produced once per non-mine note, and once per row as the
// aggregate chord outcome.
type Judgement struct {
	TimeErrorMs float64
	Grade       Grade
	Row         int
	Column      int
}
