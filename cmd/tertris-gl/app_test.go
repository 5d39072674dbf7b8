package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Meiroudii/tertris-clone/tetris"
)

func TestHardDropDefersNextGravityStep(t *testing.T) {
	a := NewApp()
	start := time.Now()

	a.hardDrop()

	// The next gravity step waits out the spawn delay on top of the fall
	// interval, instead of firing off the pre-drop timer.
	assert.False(t, a.lastDrop.Before(start.Add(tetris.SpawnDelay)),
		"gravity reference must sit a spawn delay in the future")
	assert.True(t, time.Since(a.lastDrop) < a.game.FallInterval())
}

func TestHardDropWithClearStartsFlash(t *testing.T) {
	a := NewApp()
	a.game.Current = tetris.PieceI
	a.game.Rotation = 0
	a.game.X = 3
	for x := 0; x < tetris.BoardWidth; x++ {
		if x < 3 || x > 6 {
			a.game.Board[tetris.BoardHeight-1][x] = tetris.PieceL + 1
		}
	}

	a.hardDrop()

	require.Equal(t, flashTicks, a.flashLeft)
	assert.Equal(t, []int{tetris.BoardHeight - 1}, a.flashRows)
	assert.NotNil(t, a.game.PendingRows())
}

func TestRestartClearsDropState(t *testing.T) {
	a := NewApp()
	a.hardDrop()
	a.gameOver = true

	a.restart()

	assert.False(t, a.gameOver)
	assert.Zero(t, a.flashLeft)
	assert.Nil(t, a.flashRows)
	assert.False(t, a.lastDrop.After(time.Now()), "restart must not inherit the drop deferral")
}
