package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTonesBufferLength(t *testing.T) {
	tones := []tone{
		{freq: 440, duration: 100 * time.Millisecond, volume: 0.3},
		{freq: 660, duration: 50 * time.Millisecond, volume: 0.3},
	}
	buffer := renderTones(tones, audioSampleRate, 1)

	wantSamples := samplesFor(100*time.Millisecond, audioSampleRate) +
		samplesFor(toneGap, audioSampleRate) +
		samplesFor(50*time.Millisecond, audioSampleRate)
	assert.Len(t, buffer, wantSamples*bytesPerSample)
}

func TestRenderTonesRestStaysSilent(t *testing.T) {
	buffer := renderTones([]tone{{freq: rest, duration: 20 * time.Millisecond, volume: 1}}, audioSampleRate, 1)
	for _, b := range buffer {
		require.Zero(t, b)
	}
}

func TestRenderTonesZeroVolumeIsSilent(t *testing.T) {
	buffer := renderTones([]tone{{freq: 440, duration: 20 * time.Millisecond, volume: 0.5}}, audioSampleRate, 0)
	for _, b := range buffer {
		require.Zero(t, b)
	}
}

func TestRenderTonesProducesSignal(t *testing.T) {
	buffer := renderTones([]tone{{freq: 440, duration: 20 * time.Millisecond, volume: 0.5}}, audioSampleRate, 1)
	nonZero := false
	for _, b := range buffer {
		if b != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}

func TestTonesForEventCoversAllEvents(t *testing.T) {
	events := []SoundEvent{
		SoundLock, SoundLine1, SoundLine2, SoundLine3, SoundLine4,
		SoundTSpin, SoundRotate, SoundMove, SoundDrop,
		SoundMenuMove, SoundMenuSelect, SoundGameOver,
	}
	for _, event := range events {
		assert.NotEmpty(t, tonesForEvent(event), "event %d", event)
	}
}

func TestThemeLoopRendersOnce(t *testing.T) {
	first := themeLoop()
	second := themeLoop()
	require.NotEmpty(t, first)
	assert.Equal(t, &first[0], &second[0])
}

func TestSoundEngineNilContextStaysDisabled(t *testing.T) {
	engine := NewSoundEngine(nil, true)
	engine.SetEnabled(true)
	// Must not panic without an audio device.
	engine.Play(SoundLine4)
	engine.PlayCombo(4, 2)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, clampVolume(-1))
	assert.Equal(t, 0.5, clampVolume(0.5))
	assert.Equal(t, 1.0, clampVolume(2))
}
