package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meiroudii/tertris-clone/tetris"
)

func testModel() Model {
	config := defaultConfig()
	config.Sound = false
	config.Music = false
	config.Animations = false
	return Model{
		screen: screenGame,
		config: config,
		game:   tetris.NewGame(),
		sound:  NewSoundEngine(nil, false),
	}
}

// runCmds executes a command tree and collects every message it produces.
// tea.Tick commands block until their timer fires, so elapsed wall time
// reflects the scheduled delays.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmds(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findTick(msgs []tea.Msg) (tickMsg, bool) {
	for _, msg := range msgs {
		if tick, ok := msg.(tickMsg); ok {
			return tick, true
		}
	}
	return tickMsg{}, false
}

func TestHardDropSchedulesTickAfterSpawnDelay(t *testing.T) {
	m := testModel()
	m.game.Level = 30 // fall interval at its floor, where the pause matters most
	interval := m.game.FallInterval()

	start := time.Now()
	cmd := m.updateGame(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)

	msgs := runCmds(cmd)
	tick, ok := findTick(msgs)
	require.True(t, ok, "hard drop must schedule the next gravity tick")
	assert.Equal(t, m.tickGen, tick.gen, "the scheduled tick must be the live generation")
	assert.GreaterOrEqual(t, time.Since(start), interval+tetris.SpawnDelay,
		"gravity must not resume before the spawn delay")
}

func TestHardDropRetiresInFlightTick(t *testing.T) {
	m := testModel()
	staleGen := m.tickGen
	require.NotNil(t, m.updateGame(tea.KeyMsg{Type: tea.KeySpace}))
	assert.Greater(t, m.tickGen, staleGen)

	// The tick that was in flight when the piece dropped must not step the
	// fresh piece.
	y := m.game.Y
	updated, cmd := m.Update(tickMsg{gen: staleGen})
	next := updated.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, y, next.game.Y)
}

func TestCurrentGenerationTickStepsGravity(t *testing.T) {
	m := testModel()
	require.NotNil(t, m.scheduleTick(time.Millisecond))

	y := m.game.Y
	updated, cmd := m.Update(tickMsg{gen: m.tickGen})
	require.NotNil(t, cmd, "a live tick must re-arm the gravity loop")
	assert.Equal(t, y+1, updated.(Model).game.Y)
}

func TestPausedGameKeepsTickingAtLiveGeneration(t *testing.T) {
	m := testModel()
	m.game.Level = 30
	m.game.Paused = true

	updated, cmd := m.Update(tickMsg{gen: m.tickGen})
	next := updated.(Model)
	require.NotNil(t, cmd, "the gravity loop must survive a pause")

	y := next.game.Y
	tick, ok := findTick(runCmds(cmd))
	require.True(t, ok)
	assert.Equal(t, next.tickGen, tick.gen)
	assert.Equal(t, y, next.game.Y, "paused ticks must not move the piece")
}
