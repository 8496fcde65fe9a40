package judge

// Life meter deltas per row grade and per hold/mine event. Regeneration
// is suppressed for a few judgments after any loss.
const (
	lifeFantastic = 0.008
	lifeExcellent = 0.008
	lifeGreat     = 0.004
	lifeDecent    = 0.0
	lifeWayOff    = -0.050
	lifeMiss      = -0.100
	lifeHitMine   = -0.050
	lifeHeld      = 0.008
	lifeLetGo     = -0.080

	regenGraceAfterMiss = 5

	initialLife = 0.5
)

func (e *Engine) applyLifeChange(delta float64) {
	if e.isDead() {
		e.life = 0
		e.failing = true
		return
	}

	if delta > 0 {
		if e.regenGrace > 0 {
			delta = 0
			e.regenGrace--
		}
	} else if delta < 0 {
		e.regenGrace = regenGraceAfterMiss
	}

	e.life += delta
	if e.life > 1 {
		e.life = 1
	}
	if e.life <= 0 {
		e.life = 0
		if !e.failing {
			e.failTime = e.currentTime
			e.hasFailTime = true
			e.failing = true
		}
	}
}

func (e *Engine) isDead() bool {
	return e.failing || e.life <= 0
}
