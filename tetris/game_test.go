package tetris

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testGame(seed int64) (*Game, *fakeClock) {
	clock := newFakeClock()
	return newGame(rand.NewSource(seed), clock.Now), clock
}

// fillRow fills a board row except for the listed columns.
func fillRow(g *Game, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < BoardWidth; x++ {
		if !skip[x] {
			g.Board[y][x] = PieceL + 1
		}
	}
}

func TestNewGameInitialState(t *testing.T) {
	g, _ := testGame(1)

	assert.Len(t, g.Board, BoardHeight)
	for _, row := range g.Board {
		assert.Len(t, row, BoardWidth)
		for _, cell := range row {
			assert.Zero(t, cell)
		}
	}
	assert.Len(t, g.Queue, QueueSize)
	assert.GreaterOrEqual(t, g.Current, 0)
	assert.Less(t, g.Current, PieceCount)
	assert.False(t, g.Over)
	assert.False(t, g.HasHold)
	assert.True(t, g.CanHold)
	assert.Equal(t, 0, g.Level)
	assert.Equal(t, 3, g.X)
	assert.Equal(t, 0, g.Y)
}

func TestMoveStopsAtWalls(t *testing.T) {
	g, _ := testGame(2)

	moves := 0
	for g.Move(-1) {
		moves++
		require.Less(t, moves, BoardWidth, "piece moved past the left wall")
	}
	assert.False(t, g.Move(-1))
	for _, p := range Blocks(g.Current, g.Rotation) {
		assert.GreaterOrEqual(t, g.X+p.X, 0)
	}

	for g.Move(1) {
		moves++
		require.Less(t, moves, 3*BoardWidth, "piece moved past the right wall")
	}
	for _, p := range Blocks(g.Current, g.Rotation) {
		assert.Less(t, g.X+p.X, BoardWidth)
	}
}

func TestRotateWallKick(t *testing.T) {
	g, _ := testGame(3)
	g.Current = PieceI
	g.Rotation = 1 // vertical, occupying column X+2
	g.X = BoardWidth - 3
	g.Y = 4

	// Plain rotation would poke through the right wall; the (-1,0) kick fits.
	require.True(t, g.Rotate(1))
	assert.Equal(t, 2, g.Rotation)
	assert.Equal(t, BoardWidth-4, g.X)
}

func TestRotateRevertsWhenBlocked(t *testing.T) {
	g, _ := testGame(4)
	g.Current = PieceI
	g.Rotation = 0
	g.X = 3
	g.Y = BoardHeight - 2
	// Box the piece in so no kick offset can host a vertical I.
	for y := BoardHeight - 6; y < BoardHeight; y++ {
		fillRow(g, y, 3, 4, 5, 6)
	}

	assert.False(t, g.Rotate(1))
	assert.Equal(t, 0, g.Rotation)
	assert.Equal(t, 3, g.X)
}

func TestSoftDropScoresOnePoint(t *testing.T) {
	g, _ := testGame(5)

	require.True(t, g.SoftDrop())
	assert.Equal(t, 1, g.Score)
	assert.Equal(t, 1, g.Y)
}

func TestHardDropScoresTwoPerRow(t *testing.T) {
	g, _ := testGame(6)

	result := g.HardDrop()
	require.True(t, result.Locked)
	assert.Positive(t, result.Drop)
	assert.Equal(t, hardDropScore*result.Drop, g.Score)

	locked := 0
	for _, row := range g.Board {
		for _, cell := range row {
			if cell != 0 {
				locked++
			}
		}
	}
	assert.Equal(t, 4, locked)
}

func TestSingleLineClearIsTwoPhase(t *testing.T) {
	g, _ := testGame(7)
	g.Current = PieceI
	g.Rotation = 0
	g.X = 3
	fillRow(g, BoardHeight-1, 3, 4, 5, 6)

	result := g.HardDrop()
	require.True(t, result.Locked)
	require.Equal(t, 1, result.Cleared)
	assert.Equal(t, []int{BoardHeight - 1}, result.ClearedRows)
	assert.Equal(t, 100, result.ScoreDelta)
	assert.Equal(t, 1, result.Combo)
	assert.Equal(t, 1, g.Lines)

	// The full row stays on the board until the clear resolves, and the game
	// does not advance meanwhile.
	assert.Equal(t, []int{BoardHeight - 1}, g.PendingRows())
	assert.NotZero(t, g.Board[BoardHeight-1][0])
	before := g.Board[BoardHeight-1][0]
	g.Step()
	assert.Equal(t, before, g.Board[BoardHeight-1][0])
	assert.False(t, g.Move(1))

	g.ResolveLineClear()
	assert.Nil(t, g.PendingRows())
	for x := 0; x < BoardWidth; x++ {
		assert.Zero(t, g.Board[BoardHeight-1][x])
	}
	assert.Equal(t, 0, g.Y, "next piece spawned")
}

func TestTetrisClearScoringAndBackToBack(t *testing.T) {
	g, _ := testGame(8)
	g.Current = PieceI
	g.Rotation = 1 // vertical in column X+2
	g.X = BoardWidth - 3
	for y := BoardHeight - 4; y < BoardHeight; y++ {
		fillRow(g, y, BoardWidth-1)
	}

	result := g.HardDrop()
	require.Equal(t, 4, result.Cleared)
	assert.Equal(t, 800, result.ScoreDelta)
	assert.Equal(t, 1, result.BackToBack)
	assert.Equal(t, 4, g.Lines)
}

func TestLevelUpEveryTenLines(t *testing.T) {
	g, _ := testGame(9)
	g.Lines = 9
	g.Current = PieceI
	g.Rotation = 0
	g.X = 3
	fillRow(g, BoardHeight-1, 3, 4, 5, 6)

	result := g.HardDrop()
	require.Equal(t, 1, result.Cleared)
	assert.Equal(t, 10, g.Lines)
	assert.Equal(t, 1, g.Level)
	// Scored at the pre-clear level.
	assert.Equal(t, 100, result.ScoreDelta)
}

func TestFallIntervalCurve(t *testing.T) {
	g, _ := testGame(10)

	assert.Equal(t, 800*time.Millisecond, g.FallInterval())
	g.Level = 1
	assert.Equal(t, 680*time.Millisecond, g.FallInterval())
	g.Level = 30
	assert.Equal(t, minFallInterval, g.FallInterval())
}

func TestLockDelayHoldsBeforeExpiry(t *testing.T) {
	g, clock := testGame(11)
	g.Current = PieceO
	g.X = 3
	g.Y = BoardHeight - 2 // resting on the floor

	result := g.Step() // grounds the piece, starts the timer
	assert.False(t, result.Locked)

	clock.Advance(LockDelay - time.Millisecond)
	result = g.Step()
	assert.False(t, result.Locked)

	clock.Advance(2 * time.Millisecond)
	result = g.Step()
	assert.True(t, result.Locked)
}

func TestMovementResetsLockTimer(t *testing.T) {
	g, clock := testGame(12)
	g.Current = PieceO
	g.X = 3
	g.Y = BoardHeight - 2

	g.Step() // grounded
	clock.Advance(LockDelay - 100*time.Millisecond)
	require.True(t, g.Move(1))

	clock.Advance(LockDelay - 100*time.Millisecond)
	result := g.Step()
	assert.False(t, result.Locked, "move should have restarted the lock timer")

	clock.Advance(200 * time.Millisecond)
	result = g.Step()
	assert.True(t, result.Locked)
}

func TestLockTimerResetsAreBounded(t *testing.T) {
	g, clock := testGame(13)
	g.Current = PieceO
	g.X = 0
	g.Y = BoardHeight - 2

	g.Step() // grounded
	dir := 1
	for i := 0; i < maxLockResets; i++ {
		clock.Advance(LockDelay / 2)
		require.True(t, g.Move(dir))
		dir = -dir
	}
	// Resets exhausted: the timer no longer restarts, so the piece locks one
	// lock delay after the final reset.
	start := clock.Now()
	require.True(t, g.Move(dir))
	clock.Advance(LockDelay - clock.Now().Sub(start) + time.Millisecond)
	result := g.Step()
	assert.True(t, result.Locked)
}

func TestHoldSwapsOncePerPiece(t *testing.T) {
	g, _ := testGame(14)
	first := g.Current
	next := g.Queue[0]

	require.True(t, g.Hold())
	assert.True(t, g.HasHold)
	assert.Equal(t, first, g.HoldKind)
	assert.Equal(t, next, g.Current)
	assert.False(t, g.CanHold)
	assert.False(t, g.Hold(), "second hold before locking must be refused")

	g.HardDrop()
	if len(g.PendingRows()) > 0 {
		g.ResolveLineClear()
	}
	require.True(t, g.CanHold)
	current := g.Current
	require.True(t, g.Hold())
	assert.Equal(t, current, g.HoldKind)
	assert.Equal(t, first, g.Current, "swap returns the originally held piece")
}

func TestGhostMatchesRestingRow(t *testing.T) {
	g, _ := testGame(15)
	fillRow(g, BoardHeight-1)

	ghost := g.GhostY()
	assert.GreaterOrEqual(t, ghost, g.Y)
	assert.True(t, g.collides(g.X, ghost+1, g.Rotation))
	assert.False(t, g.collides(g.X, ghost, g.Rotation))
}

func TestQueueStaysFilled(t *testing.T) {
	g, _ := testGame(16)

	for i := 0; i < 12; i++ {
		if g.Over {
			break
		}
		g.HardDrop()
		g.ResolveLineClear()
		assert.Len(t, g.Queue, QueueSize)
	}
}

func TestSpawnCollisionTopsOut(t *testing.T) {
	g, _ := testGame(17)
	for y := 0; y < 4; y++ {
		fillRow(g, y, 0, BoardWidth-1)
	}

	g.spawn()
	assert.True(t, g.Over)

	// Everything is frozen after top-out.
	assert.False(t, g.Move(1))
	assert.False(t, g.Rotate(1))
	assert.False(t, g.SoftDrop())
	assert.False(t, g.HardDrop().Locked)
}

func TestPauseFreezesGame(t *testing.T) {
	g, _ := testGame(18)
	g.Paused = true

	y := g.Y
	g.Step()
	assert.Equal(t, y, g.Y)
	assert.False(t, g.Move(1))
	assert.False(t, g.Rotate(1))
	assert.False(t, g.Hold())
}

func TestTSpinDetection(t *testing.T) {
	g, _ := testGame(19)
	g.Current = PieceT
	g.Rotation = 2 // flat side up, nose pointing down
	g.X = 4
	g.Y = BoardHeight - 3
	// Fill three diagonals around the pivot at (5, 18).
	g.Board[BoardHeight-3][4] = PieceL + 1
	g.Board[BoardHeight-1][4] = PieceL + 1
	g.Board[BoardHeight-1][6] = PieceL + 1
	g.lastRotated = true

	result := g.lock()
	assert.True(t, result.TSpin)
}

func TestNoTSpinWithoutRotation(t *testing.T) {
	g, _ := testGame(20)
	g.Current = PieceT
	g.Rotation = 2
	g.X = 4
	g.Y = BoardHeight - 3
	g.Board[BoardHeight-3][4] = PieceL + 1
	g.Board[BoardHeight-1][4] = PieceL + 1
	g.Board[BoardHeight-1][6] = PieceL + 1
	g.lastRotated = false

	result := g.lock()
	assert.False(t, result.TSpin)
}

func TestComboCountsConsecutiveClears(t *testing.T) {
	g, _ := testGame(21)

	clearOnce := func() LockResult {
		g.Current = PieceI
		g.Rotation = 0
		g.X = 3
		g.Y = 0
		fillRow(g, BoardHeight-1, 3, 4, 5, 6)
		result := g.HardDrop()
		g.ResolveLineClear()
		return result
	}

	first := clearOnce()
	assert.Equal(t, 1, first.Combo)
	second := clearOnce()
	assert.Equal(t, 2, second.Combo)

	// A lock with no clear breaks the combo.
	g.Current = PieceO
	g.X = 0
	g.Y = 0
	third := g.HardDrop()
	require.True(t, third.Locked)
	assert.Zero(t, third.Combo)
	assert.Zero(t, g.Combo)
}
