package scroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ArrowSpacing is the on-screen distance covered by one beat of chart at
// a 1x beat multiplier.
const ArrowSpacing = 64.0

type Mod uint8

const (
	CMod Mod = iota
	XMod
	MMod
)

// Setting is a player scroll-speed preference: constant pixels per
// second (CMod), a multiple of the chart BPM (XMod), or a target BPM
// relative to the chart's fastest BPM (MMod).
type Setting struct {
	Mod   Mod
	Value float64
}

func Default() Setting {
	return Setting{Mod: CMod, Value: 600}
}

func (s Setting) String() string {
	letter := "C"
	switch s.Mod {
	case XMod:
		letter = "X"
	case MMod:
		letter = "M"
	}
	if s.Value == math.Trunc(s.Value) {
		return fmt.Sprintf("%s%d", letter, int(s.Value))
	}
	if s.Mod == XMod {
		return fmt.Sprintf("%s%.2f", letter, s.Value)
	}
	return fmt.Sprintf("%s%v", letter, s.Value)
}

func FromString(str string) (Setting, error) {
	trimmed := strings.TrimSpace(str)
	if trimmed == "" {
		return Setting{}, fmt.Errorf("scroll speed value is empty")
	}
	var mod Mod
	switch trimmed[0] {
	case 'C', 'c':
		mod = CMod
	case 'X', 'x':
		mod = XMod
	case 'M', 'm':
		mod = MMod
	default:
		return Setting{}, fmt.Errorf("scroll speed %q must start with C, X, or M", trimmed)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed[1:]), 64)
	if nil != err {
		return Setting{}, fmt.Errorf("scroll speed %q is not a valid number", trimmed)
	}
	if value <= 0 {
		return Setting{}, fmt.Errorf("scroll speed %q must be greater than zero", trimmed)
	}
	return Setting{Mod: mod, Value: value}, nil
}

// EffectiveBPM is the BPM the receptors appear to scroll at.
func (s Setting) EffectiveBPM(chartBPM, referenceBPM float64) float64 {
	switch s.Mod {
	case CMod:
		return s.Value
	case XMod:
		return chartBPM * s.Value
	default:
		if referenceBPM > 0 {
			return chartBPM * (s.Value / referenceBPM)
		}
		return chartBPM
	}
}

// BeatMultiplier is the displayed-beat distance multiplier for beat
// based scroll. CMod does not scroll by beats and returns 1.
func (s Setting) BeatMultiplier(referenceBPM float64) float64 {
	switch s.Mod {
	case XMod:
		return s.Value
	case MMod:
		if referenceBPM > 0 {
			return s.Value / referenceBPM
		}
		return 1
	default:
		return 1
	}
}

func (s Setting) PixelsPerSecond(chartBPM, referenceBPM float64) float64 {
	bpm := s.EffectiveBPM(chartBPM, referenceBPM)
	if math.IsNaN(bpm) || math.IsInf(bpm, 0) || bpm <= 0 {
		return 0
	}
	return (bpm / 60.0) * ArrowSpacing
}

// TravelTime is how long a note is on screen before reaching the
// receptors, given the draw distance in pixels.
func (s Setting) TravelTime(drawDistance, chartBPM, referenceBPM float64) float64 {
	speed := s.PixelsPerSecond(chartBPM, referenceBPM)
	if speed <= 0 {
		return 0
	}
	return drawDistance / speed
}
