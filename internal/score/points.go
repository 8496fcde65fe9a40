package score

import "git.lost.host/meutraa/groove/internal/game"

// Grade point values per judged row, plus the hold and mine adjustments.
const (
	pointsFantastic = 5
	pointsExcellent = 4
	pointsGreat     = 2
	pointsDecent    = 0
	pointsWayOff    = -6
	pointsMiss      = -12

	HoldScoreHeld = 5
	MineScoreHit  = -6
)

func GradePoints(grade game.Grade) int {
	switch grade {
	case game.Fantastic:
		return pointsFantastic
	case game.Excellent:
		return pointsExcellent
	case game.Great:
		return pointsGreat
	case game.Decent:
		return pointsDecent
	case game.WayOff:
		return pointsWayOff
	default:
		return pointsMiss
	}
}

// CalculateGradePoints totals earned points from per-grade row counts
// plus held holds and rolls, minus mine hits.
func CalculateGradePoints(counts []int, holdsHeld, rollsHeld, minesHit int) int {
	total := 0
	for grade, count := range counts {
		total += GradePoints(game.Grade(grade)) * count
	}
	total += (holdsHeld + rollsHeld) * HoldScoreHeld
	total += minesHit * MineScoreHit
	return total
}

// Percent is the earned fraction of the maximum possible points,
// clamped at zero. A chart with nothing to score reads as zero.
func Percent(earned, possible int) float64 {
	if possible <= 0 {
		return 0
	}
	p := float64(earned) / float64(possible)
	if p < 0 {
		return 0
	}
	return p
}
