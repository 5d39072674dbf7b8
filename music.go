package main

import (
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// MusicPlayer loops a synthesized rendition of Korobeiniki during play. The
// loop buffer is rendered once and replayed through an infinite reader that
// applies the current volume on the way out.
type MusicPlayer struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	volume  float64
	playing bool
}

func NewMusicPlayer(ctx *oto.Context, volume float64) *MusicPlayer {
	if ctx == nil {
		return nil
	}
	return &MusicPlayer{
		ctx:    ctx,
		volume: clampVolume(volume),
	}
}

func (m *MusicPlayer) SetVolume(volume float64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.volume = clampVolume(volume)
	m.mu.Unlock()
}

func (m *MusicPlayer) Start() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playing {
		return
	}
	loop := &loopReader{
		buffer:    themeLoop(),
		getVolume: m.volumeValue,
	}
	player := m.ctx.NewPlayer(loop)
	player.Play()
	m.player = player
	m.playing = true
}

func (m *MusicPlayer) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player != nil {
		_ = m.player.Close()
		m.player = nil
	}
	m.playing = false
}

func (m *MusicPlayer) volumeValue() float64 {
	m.mu.Lock()
	volume := m.volume
	m.mu.Unlock()
	return volume
}

// loopReader cycles a PCM buffer forever, scaling samples by the current
// volume so adjustments take effect mid-phrase.
type loopReader struct {
	buffer []byte
	pos    int
	// getVolume is read per chunk, not per sample; music volume changes are
	// rare and a chunk of latency is inaudible.
	getVolume func() float64
}

func (l *loopReader) Read(p []byte) (int, error) {
	if len(l.buffer) == 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		chunk := copy(p[n:], l.buffer[l.pos:])
		l.pos = (l.pos + chunk) % len(l.buffer)
		n += chunk
	}
	volume := clampVolume(l.getVolume())
	if volume < 0.999 {
		for i := 0; i+1 < n; i += 2 {
			sample := int16(binary.LittleEndian.Uint16(p[i:]))
			binary.LittleEndian.PutUint16(p[i:], uint16(int16(float64(sample)*volume)))
		}
	}
	return n, nil
}

type note struct {
	freq  float64
	beats float64
}

// Pitch constants for the theme, A4 tuning at 440Hz.
const (
	noteA4 = 440.00
	noteB4 = 493.88
	noteC5 = 523.25
	noteD5 = 587.33
	noteE5 = 659.25
	noteF5 = 698.46
	noteG5 = 783.99
	noteA5 = 880.00
	rest   = 0
)

// Korobeiniki lead line, two phrases, in A minor.
var themeNotes = []note{
	{noteE5, 1}, {noteB4, 0.5}, {noteC5, 0.5}, {noteD5, 1}, {noteC5, 0.5}, {noteB4, 0.5},
	{noteA4, 1}, {noteA4, 0.5}, {noteC5, 0.5}, {noteE5, 1}, {noteD5, 0.5}, {noteC5, 0.5},
	{noteB4, 1.5}, {noteC5, 0.5}, {noteD5, 1}, {noteE5, 1},
	{noteC5, 1}, {noteA4, 1}, {noteA4, 1.5}, {rest, 0.5},
	{noteD5, 1.5}, {noteF5, 0.5}, {noteA5, 1}, {noteG5, 0.5}, {noteF5, 0.5},
	{noteE5, 1.5}, {noteC5, 0.5}, {noteE5, 1}, {noteD5, 0.5}, {noteC5, 0.5},
	{noteB4, 1}, {noteB4, 0.5}, {noteC5, 0.5}, {noteD5, 1}, {noteE5, 1},
	{noteC5, 1}, {noteA4, 1}, {noteA4, 1.5}, {rest, 0.5},
}

const themeBPM = 140

var (
	themeOnce   sync.Once
	themeBuffer []byte
)

func themeLoop() []byte {
	themeOnce.Do(func() {
		bpm := float64(themeBPM)
		beat := time.Duration(float64(time.Minute) / bpm)
		tones := make([]tone, 0, len(themeNotes))
		for _, n := range themeNotes {
			tones = append(tones, tone{
				freq: n.freq,
				// Hold slightly short of the full beat so repeated notes
				// articulate.
				duration: time.Duration(n.beats * 0.92 * float64(beat)),
				volume:   0.16,
			})
		}
		themeBuffer = renderTones(tones, audioSampleRate, 1)
	})
	return themeBuffer
}
