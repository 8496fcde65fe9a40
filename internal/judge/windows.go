package judge

import "git.lost.host/meutraa/groove/internal/game"

// ITG timing windows in seconds. Every window gets the same additive
// padding; the outer windows strictly contain the inner ones.
const (
	timingWindowAdd = 0.0015

	baseFantasticWindow = 0.0215
	baseExcellentWindow = 0.0430
	baseGreatWindow     = 0.1020
	baseDecentWindow    = 0.1350
	baseWayOffWindow    = 0.1800
	baseMineWindow      = 0.0700
)

func fantasticWindow() float64 { return baseFantasticWindow + timingWindowAdd }
func wayOffWindow() float64    { return baseWayOffWindow + timingWindowAdd }
func mineWindow() float64      { return baseMineWindow + timingWindowAdd }

// gradeForError classifies an absolute timing error. The false return
// means the press was outside every window and judges nothing.
func gradeForError(abs float64) (game.Grade, bool) {
	switch {
	case abs <= baseFantasticWindow+timingWindowAdd:
		return game.Fantastic, true
	case abs <= baseExcellentWindow+timingWindowAdd:
		return game.Excellent, true
	case abs <= baseGreatWindow+timingWindowAdd:
		return game.Great, true
	case abs <= baseDecentWindow+timingWindowAdd:
		return game.Decent, true
	case abs <= baseWayOffWindow+timingWindowAdd:
		return game.WayOff, true
	}
	return game.Miss, false
}

// Hold life drains to zero across these spans while disengaged.
const (
	maxHoldLife       = 1.0
	holdWindowSeconds = 0.32
	rollWindowSeconds = 0.35
)

func decayWindow(t game.NoteType) float64 {
	if t == game.Roll {
		return rollWindowSeconds
	}
	return holdWindowSeconds
}
