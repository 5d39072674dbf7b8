package main

import (
	"bytes"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

type SoundEvent int

const (
	SoundLock SoundEvent = iota
	SoundLine1
	SoundLine2
	SoundLine3
	SoundLine4
	SoundTSpin
	SoundRotate
	SoundMove
	SoundDrop
	SoundMenuMove
	SoundMenuSelect
	SoundGameOver
)

// SoundEngine renders short square-wave blips on demand. The repo ships no
// audio assets; everything audible is synthesized.
type SoundEngine struct {
	mu      sync.RWMutex
	enabled bool
	volume  float64
	ctx     *oto.Context
}

func NewSoundEngine(ctx *oto.Context, enabled bool) *SoundEngine {
	return &SoundEngine{
		enabled: enabled && ctx != nil,
		volume:  0.7,
		ctx:     ctx,
	}
}

func (s *SoundEngine) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled && s.ctx != nil
	s.mu.Unlock()
}

func (s *SoundEngine) SetVolume(volume float64) {
	s.mu.Lock()
	s.volume = clampVolume(volume)
	s.mu.Unlock()
}

func (s *SoundEngine) Play(event SoundEvent) {
	s.play(tonesForEvent(event))
}

// PlayCombo pitches the combo blip up with the streak so long chains are
// audible without looking at the side panel.
func (s *SoundEngine) PlayCombo(combo, backToBack int) {
	if combo <= 1 {
		return
	}
	step := combo
	if step > 8 {
		step = 8
	}
	freq := 440 * (1 + float64(step)*0.12)
	tones := []tone{{freq: freq, duration: 60 * time.Millisecond, volume: 0.25}}
	if backToBack > 1 {
		tones = append(tones, tone{freq: freq * 1.5, duration: 80 * time.Millisecond, volume: 0.25})
	}
	s.play(tones)
}

func (s *SoundEngine) play(tones []tone) {
	s.mu.RLock()
	ctx := s.ctx
	enabled := s.enabled
	volume := s.volume
	s.mu.RUnlock()
	if !enabled || ctx == nil || len(tones) == 0 {
		return
	}
	go func() {
		buffer := renderTones(tones, audioSampleRate, volume)
		player := ctx.NewPlayer(bytes.NewReader(buffer))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(5 * time.Millisecond)
		}
		_ = player.Close()
	}()
}

type tone struct {
	freq     float64
	duration time.Duration
	volume   float64
}

func tonesForEvent(event SoundEvent) []tone {
	switch event {
	case SoundLock:
		return []tone{{freq: 220, duration: 70 * time.Millisecond, volume: 0.3}}
	case SoundLine1:
		return []tone{{freq: 440, duration: 90 * time.Millisecond, volume: 0.3}}
	case SoundLine2:
		return []tone{
			{freq: 440, duration: 70 * time.Millisecond, volume: 0.3},
			{freq: 660, duration: 90 * time.Millisecond, volume: 0.3},
		}
	case SoundLine3:
		return []tone{
			{freq: 440, duration: 70 * time.Millisecond, volume: 0.3},
			{freq: 660, duration: 70 * time.Millisecond, volume: 0.3},
			{freq: 880, duration: 90 * time.Millisecond, volume: 0.3},
		}
	case SoundLine4:
		return []tone{
			{freq: 660, duration: 80 * time.Millisecond, volume: 0.3},
			{freq: 880, duration: 80 * time.Millisecond, volume: 0.3},
			{freq: 990, duration: 120 * time.Millisecond, volume: 0.3},
		}
	case SoundTSpin:
		return []tone{
			{freq: 520, duration: 60 * time.Millisecond, volume: 0.3},
			{freq: 780, duration: 60 * time.Millisecond, volume: 0.3},
			{freq: 1040, duration: 100 * time.Millisecond, volume: 0.3},
		}
	case SoundRotate:
		return []tone{{freq: 520, duration: 40 * time.Millisecond, volume: 0.25}}
	case SoundMove:
		return []tone{{freq: 380, duration: 25 * time.Millisecond, volume: 0.18}}
	case SoundDrop:
		return []tone{{freq: 240, duration: 55 * time.Millisecond, volume: 0.22}}
	case SoundMenuMove:
		return []tone{{freq: 260, duration: 24 * time.Millisecond, volume: 0.16}}
	case SoundMenuSelect:
		return []tone{{freq: 520, duration: 70 * time.Millisecond, volume: 0.2}}
	case SoundGameOver:
		return []tone{
			{freq: 330, duration: 110 * time.Millisecond, volume: 0.28},
			{freq: 247, duration: 110 * time.Millisecond, volume: 0.28},
			{freq: 165, duration: 180 * time.Millisecond, volume: 0.28},
		}
	default:
		return nil
	}
}

const toneGap = 10 * time.Millisecond

// renderTones lays a tone sequence into a 16-bit stereo PCM buffer with a
// short gap between notes.
func renderTones(tones []tone, sampleRate int, masterVolume float64) []byte {
	gapSamples := samplesFor(toneGap, sampleRate)
	total := 0
	for i, t := range tones {
		total += samplesFor(t.duration, sampleRate)
		if i < len(tones)-1 {
			total += gapSamples
		}
	}
	buffer := make([]byte, total*bytesPerSample)
	offset := 0
	for i, t := range tones {
		volume := clampVolume(t.volume) * clampVolume(masterVolume)
		writeSquareWave(buffer, offset, t, sampleRate, volume)
		offset += samplesFor(t.duration, sampleRate) * bytesPerSample
		if i < len(tones)-1 {
			offset += gapSamples * bytesPerSample
		}
	}
	return buffer
}

// writeSquareWave renders one chiptune-style note with a linear decay and a
// few samples of attack so starts and stops do not click.
func writeSquareWave(buffer []byte, start int, t tone, sampleRate int, volume float64) {
	const maxInt16 = 1<<15 - 1
	if t.freq <= 0 {
		return // rest, leave silence
	}
	samples := samplesFor(t.duration, sampleRate)
	attack := sampleRate / 250 // 4ms
	period := float64(sampleRate) / t.freq
	for i := 0; i < samples; i++ {
		level := 1.0
		if attack > 0 && i < attack {
			level = float64(i) / float64(attack)
		}
		level *= 1 - float64(i)/float64(samples) // decay to silence
		phase := float64(i) / period
		wave := 1.0
		if phase-float64(int(phase)) >= 0.5 {
			wave = -1.0
		}
		value := int16(wave * volume * level * maxInt16)
		buffer[start+i*4] = byte(value)
		buffer[start+i*4+1] = byte(value >> 8)
		buffer[start+i*4+2] = byte(value)
		buffer[start+i*4+3] = byte(value >> 8)
	}
}

func samplesFor(d time.Duration, sampleRate int) int {
	return int(float64(sampleRate) * d.Seconds())
}
