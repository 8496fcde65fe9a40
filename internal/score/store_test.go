package score

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadBest(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, s.Init())
	defer s.Deinit()

	sum := "abc123"
	s.Save(sum, Record{Percent: 0.5, MaxCombo: 120, ScrollSpeed: "C600"})
	s.Save(sum, Record{Percent: 0.9, MaxCombo: 300, ScrollSpeed: "C600"})
	s.Save("other", Record{Percent: 1.0})

	histories := s.Load(sum)
	require.Len(t, histories, 2)
	assert.Equal(t, sum, histories[0].Sum)

	best, ok := s.Best(sum)
	require.True(t, ok)
	assert.InDelta(t, 0.9, best.Percent, 1e-9)
	assert.Equal(t, 300, best.MaxCombo)

	_, ok = s.Best("missing")
	assert.False(t, ok)
}
