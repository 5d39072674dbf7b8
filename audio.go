package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	audioSampleRate = 44100
	audioChannels   = 2
	bytesPerSample  = audioChannels * 2 // 16-bit stereo
)

var (
	audioOnce sync.Once
	audioCtx  *oto.Context
	audioErr  error
)

// initAudioContext opens the shared oto context. oto allows only one per
// process, so both the sound engine and the music player reuse it.
func initAudioContext() (*oto.Context, error) {
	audioOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   audioSampleRate,
			ChannelCount: audioChannels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			audioErr = err
			return
		}
		<-ready
		audioCtx = ctx
	})
	return audioCtx, audioErr
}

func clampVolume(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
