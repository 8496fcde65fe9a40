package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	tests := map[string]Setting{
		"C600":  {Mod: CMod, Value: 600},
		"c450":  {Mod: CMod, Value: 450},
		"X2.5":  {Mod: XMod, Value: 2.5},
		"x1":    {Mod: XMod, Value: 1},
		"M550":  {Mod: MMod, Value: 550},
		" M300": {Mod: MMod, Value: 300},
	}
	for in, want := range tests {
		got, err := FromString(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "600", "C", "Cfast", "X-2", "M0"} {
		_, err := FromString(in)
		assert.Error(t, err, in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []Setting{
		{Mod: CMod, Value: 600},
		{Mod: XMod, Value: 2.5},
		{Mod: MMod, Value: 550},
	} {
		got, err := FromString(s.String())
		require.NoError(t, err, s.String())
		assert.Equal(t, s, got)
	}
}

func TestEffectiveBPM(t *testing.T) {
	assert.InDelta(t, 600, Setting{Mod: CMod, Value: 600}.EffectiveBPM(174, 200), 1e-9)
	assert.InDelta(t, 348, Setting{Mod: XMod, Value: 2}.EffectiveBPM(174, 200), 1e-9)
	// MMod scales so the fastest part of the chart reads at the target.
	assert.InDelta(t, 435, Setting{Mod: MMod, Value: 500}.EffectiveBPM(174, 200), 1e-9)
}

func TestPixelsPerSecond(t *testing.T) {
	// One beat of arrows per second at 60 effective BPM.
	assert.InDelta(t, ArrowSpacing, Setting{Mod: CMod, Value: 60}.PixelsPerSecond(174, 0), 1e-9)
	assert.Zero(t, Setting{Mod: XMod, Value: 2}.PixelsPerSecond(0, 0))
}

func TestTravelTime(t *testing.T) {
	s := Setting{Mod: CMod, Value: 600}
	pps := s.PixelsPerSecond(174, 0)
	assert.InDelta(t, 1080/pps, s.TravelTime(1080, 174, 0), 1e-9)
	assert.Zero(t, Setting{Mod: XMod, Value: 1}.TravelTime(1080, 0, 0))
}

func TestBeatMultiplier(t *testing.T) {
	assert.InDelta(t, 1, Setting{Mod: CMod, Value: 600}.BeatMultiplier(200), 1e-9)
	assert.InDelta(t, 2.5, Setting{Mod: XMod, Value: 2.5}.BeatMultiplier(200), 1e-9)
	assert.InDelta(t, 2.75, Setting{Mod: MMod, Value: 550}.BeatMultiplier(200), 1e-9)
}
