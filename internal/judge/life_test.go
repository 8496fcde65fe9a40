package judge

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestLifeClampsAtFull(t *testing.T) {
	e := &Engine{life: initialLife}
	e.applyLifeChange(0.7)
	if e.life != 1.0 {
		t.Log("life:", e.life)
		t.Fail()
	}
}

func TestRegenGraceAfterLoss(t *testing.T) {
	e := &Engine{life: initialLife}
	e.applyLifeChange(-0.05)
	if e.regenGrace != regenGraceAfterMiss {
		t.Log("grace:", e.regenGrace)
		t.Fail()
	}

	// The next five gains are swallowed.
	for i := 0; i < regenGraceAfterMiss; i++ {
		e.applyLifeChange(0.008)
	}
	if e.life != initialLife-0.05 {
		t.Log("life during grace:", e.life)
		t.Fail()
	}

	e.applyLifeChange(0.008)
	if e.life != initialLife-0.05+0.008 {
		t.Log("life after grace:", e.life)
		t.Fail()
	}
}

func TestFailureLatches(t *testing.T) {
	e := &Engine{life: initialLife, currentTime: 12.5}
	e.applyLifeChange(-0.6)

	if !e.failing || e.life != 0 {
		t.Log("failing:", e.failing, "life:", e.life)
		t.Fail()
	}
	if !e.hasFailTime || e.failTime != 12.5 {
		t.Log("failTime:", e.failTime, e.hasFailTime)
		t.Fail()
	}

	// Nothing revives a failed run.
	e.applyLifeChange(0.5)
	if !e.failing || e.life != 0 {
		t.Log("failing after gain:", e.failing, "life:", e.life)
		t.Fail()
	}
}

func TestLifeInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("life stays in [0,1] and failure is permanent", prop.ForAll(
		func(deltas []float64) bool {
			e := &Engine{life: initialLife}
			failed := false
			for _, delta := range deltas {
				e.applyLifeChange(delta)
				if e.life < 0 || e.life > 1 {
					return false
				}
				if failed && !e.failing {
					return false
				}
				if e.failing {
					failed = true
					if e.life != 0 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-0.3, 0.3)),
	))
	properties.TestingRun(t)
}
