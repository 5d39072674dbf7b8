package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Meiroudii/tertris-clone/tetris"
)

func TestThemeIndexByName(t *testing.T) {
	assert.Equal(t, 0, themeIndexByName(themes[0].Name))
	assert.Equal(t, len(themes)-1, themeIndexByName(themes[len(themes)-1].Name))
	assert.Equal(t, -1, themeIndexByName("Vaporwave"))
}

func TestThemeNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, theme := range themes {
		assert.False(t, seen[theme.Name], "duplicate theme %q", theme.Name)
		seen[theme.Name] = true
	}
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, 1, clampScale(0))
	assert.Equal(t, 2, clampScale(2))
	assert.Equal(t, 3, clampScale(9))
}

func TestClampVolumePercent(t *testing.T) {
	assert.Equal(t, 0, clampVolumePercent(-10))
	assert.Equal(t, 70, clampVolumePercent(70))
	assert.Equal(t, 100, clampVolumePercent(250))
}

func TestSizeWarning(t *testing.T) {
	m := Model{config: defaultConfig()}
	assert.Empty(t, sizeWarning(m), "unknown size should not warn")

	m.width = 200
	m.height = 60
	assert.Empty(t, sizeWarning(m))

	m.width = 30
	m.height = 10
	assert.NotEmpty(t, sizeWarning(m))
}

func TestSoundEventForLock(t *testing.T) {
	event, ok := soundEventForLock(tetris.LockResult{Locked: true, Cleared: 1})
	assert.True(t, ok)
	assert.Equal(t, SoundLine1, event)

	event, ok = soundEventForLock(tetris.LockResult{Locked: true, Cleared: 4})
	assert.True(t, ok)
	assert.Equal(t, SoundLine4, event)

	event, ok = soundEventForLock(tetris.LockResult{Locked: true, TSpin: true, Cleared: 1})
	assert.True(t, ok)
	assert.Equal(t, SoundTSpin, event)

	_, ok = soundEventForLock(tetris.LockResult{Locked: true})
	assert.False(t, ok)
}

func TestVolumeFromPercent(t *testing.T) {
	assert.InDelta(t, 0.7, volumeFromPercent(70), 1e-9)
	assert.Equal(t, 0.0, volumeFromPercent(-5))
	assert.Equal(t, 1.0, volumeFromPercent(140))
}
