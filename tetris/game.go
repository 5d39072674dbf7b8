package tetris

import (
	"math"
	"math/rand"
	"time"
)

const (
	BoardWidth  = 10
	BoardHeight = 20

	// QueueSize is the number of upcoming pieces kept visible.
	QueueSize = 5

	// LockDelay is how long a grounded piece may still be adjusted before a
	// gravity step locks it. Moves and rotations while grounded restart the
	// timer, up to maxLockResets times per piece.
	LockDelay     = 500 * time.Millisecond
	maxLockResets = 15

	// SpawnDelay is the pause frontends should leave after a hard drop before
	// resuming gravity ticks.
	SpawnDelay = 200 * time.Millisecond

	baseFallInterval = 800 * time.Millisecond
	minFallInterval  = 80 * time.Millisecond
	levelSpeedup     = 0.85
)

// kickOffsets are tried in order when a rotation collides in place.
var kickOffsets = []Point{{0, 0}, {-1, 0}, {1, 0}, {-2, 0}, {2, 0}, {0, -1}}

var lineScores = [...]int{0, 100, 300, 500, 800}

const (
	softDropScore = 1
	hardDropScore = 2 // per row
)

// LockResult reports what happened when a piece locked into the board.
type LockResult struct {
	Locked      bool
	Cleared     int
	ClearedRows []int
	ScoreDelta  int // points from the line clear itself, excluding drop points
	Drop        int // rows travelled by a hard drop
	TSpin       bool
	Combo       int
	BackToBack  int
}

// Game holds the full state of one round. Cells store kind+1 so zero means
// empty. Methods are not safe for concurrent use; the frontends drive the
// game from a single update loop.
type Game struct {
	Board    [][]int
	X        int
	Y        int
	Rotation int
	Current  int
	Queue    []int

	HoldKind int
	HasHold  bool
	CanHold  bool

	Score      int
	Lines      int
	Level      int
	Combo      int
	BackToBack int

	Over   bool
	Paused bool

	bag         *bag
	now         func() time.Time
	grounded    bool
	lockSince   time.Time
	lockResets  int
	lastRotated bool
	pendingRows []int
}

// NewGame starts a round with a time-seeded bag.
func NewGame() *Game {
	return newGame(rand.NewSource(time.Now().UnixNano()), time.Now)
}

func newGame(src rand.Source, now func() time.Time) *Game {
	board := make([][]int, BoardHeight)
	for i := range board {
		board[i] = make([]int, BoardWidth)
	}
	g := &Game{
		Board:    board,
		HoldKind: -1,
		bag:      newBag(rand.New(src)),
		now:      now,
	}
	g.Current = g.bag.Next()
	for len(g.Queue) < QueueSize {
		g.Queue = append(g.Queue, g.bag.Next())
	}
	g.spawn()
	return g
}

// FallInterval returns the gravity period for the current level.
func (g *Game) FallInterval() time.Duration {
	interval := time.Duration(float64(baseFallInterval) * math.Pow(levelSpeedup, float64(g.Level)))
	if interval < minFallInterval {
		return minFallInterval
	}
	return interval
}

// Step advances gravity by one tick. A grounded piece locks once the lock
// delay has elapsed. While cleared rows await ResolveLineClear the game does
// not advance.
func (g *Game) Step() LockResult {
	if g.Over || g.Paused || len(g.pendingRows) > 0 {
		return LockResult{}
	}
	if !g.collides(g.X, g.Y+1, g.Rotation) {
		g.Y++
		g.grounded = false
		g.lastRotated = false
		return LockResult{}
	}
	now := g.now()
	if !g.grounded {
		g.grounded = true
		g.lockSince = now
		return LockResult{}
	}
	if now.Sub(g.lockSince) < LockDelay {
		return LockResult{}
	}
	return g.lock()
}

// Move shifts the active piece horizontally. Returns whether it moved.
func (g *Game) Move(dx int) bool {
	if g.Over || g.Paused || len(g.pendingRows) > 0 {
		return false
	}
	if g.collides(g.X+dx, g.Y, g.Rotation) {
		return false
	}
	g.X += dx
	g.lastRotated = false
	if g.grounded {
		g.resetLockTimer()
	}
	return true
}

// Rotate turns the active piece a quarter turn (dir +1 clockwise, -1
// counter-clockwise), trying wall kicks in order. Returns whether it turned.
func (g *Game) Rotate(dir int) bool {
	if g.Over || g.Paused || len(g.pendingRows) > 0 {
		return false
	}
	newRot := (g.Rotation + dir + 4) % 4
	for _, kick := range kickOffsets {
		if g.collides(g.X+kick.X, g.Y+kick.Y, newRot) {
			continue
		}
		g.X += kick.X
		g.Y += kick.Y
		g.Rotation = newRot
		g.lastRotated = true
		if g.grounded {
			g.resetLockTimer()
		}
		return true
	}
	return false
}

// SoftDrop moves the piece down one row for a point. Returns whether it moved.
func (g *Game) SoftDrop() bool {
	if g.Over || g.Paused || len(g.pendingRows) > 0 {
		return false
	}
	if g.collides(g.X, g.Y+1, g.Rotation) {
		return false
	}
	g.Y++
	g.Score += softDropScore
	g.grounded = false
	g.lastRotated = false
	return true
}

// HardDrop sends the piece to the bottom and locks it immediately.
func (g *Game) HardDrop() LockResult {
	if g.Over || g.Paused || len(g.pendingRows) > 0 {
		return LockResult{}
	}
	drop := 0
	for !g.collides(g.X, g.Y+1, g.Rotation) {
		g.Y++
		drop++
	}
	if drop > 0 {
		g.Score += hardDropScore * drop
		g.lastRotated = false
	}
	result := g.lock()
	result.Drop = drop
	return result
}

// Hold stashes the active piece, swapping with the held one if present.
// Allowed once per piece. Returns whether the swap happened.
func (g *Game) Hold() bool {
	if g.Over || g.Paused || !g.CanHold || len(g.pendingRows) > 0 {
		return false
	}
	if !g.HasHold {
		g.HoldKind = g.Current
		g.HasHold = true
		g.Current = g.popQueue()
	} else {
		g.Current, g.HoldKind = g.HoldKind, g.Current
	}
	g.spawn()
	g.CanHold = false
	return true
}

// GhostY returns the row the active piece would rest on if dropped now.
func (g *Game) GhostY() int {
	y := g.Y
	for !g.collides(g.X, y+1, g.Rotation) {
		y++
	}
	return y
}

// PendingRows returns the full rows awaiting ResolveLineClear, bottom-most
// last. Nil when no clear is in flight.
func (g *Game) PendingRows() []int {
	return g.pendingRows
}

// ResolveLineClear collapses the rows detected at lock time and spawns the
// next piece. Frontends call it after their clear animation, or right away.
func (g *Game) ResolveLineClear() {
	if len(g.pendingRows) == 0 {
		return
	}
	g.collapse(g.pendingRows)
	g.pendingRows = nil
	if !g.Over {
		g.spawnNext()
	}
}

func (g *Game) lock() LockResult {
	for _, p := range Blocks(g.Current, g.Rotation) {
		bx := g.X + p.X
		by := g.Y + p.Y
		if by >= 0 && by < BoardHeight && bx >= 0 && bx < BoardWidth {
			g.Board[by][bx] = g.Current + 1
		}
	}
	tspin := g.Current == PieceT && g.lastRotated && g.occupiedCorners() >= 3
	rows := g.fullRows()
	result := LockResult{
		Locked:      true,
		Cleared:     len(rows),
		ClearedRows: rows,
		TSpin:       tspin,
	}
	if len(rows) > 0 {
		delta := lineScores[len(rows)] * (g.Level + 1)
		g.Score += delta
		g.Lines += len(rows)
		g.Level = g.Lines / 10
		g.Combo++
		if len(rows) == len(lineScores)-1 || tspin {
			g.BackToBack++
		} else {
			g.BackToBack = 0
		}
		result.ScoreDelta = delta
		g.pendingRows = rows
	} else {
		g.Combo = 0
		g.spawnNext()
	}
	result.Combo = g.Combo
	result.BackToBack = g.BackToBack
	return result
}

func (g *Game) spawnNext() {
	g.Current = g.popQueue()
	g.spawn()
}

func (g *Game) popQueue() int {
	kind := g.Queue[0]
	copy(g.Queue, g.Queue[1:])
	g.Queue[len(g.Queue)-1] = g.bag.Next()
	return kind
}

func (g *Game) spawn() {
	g.X = 3
	g.Y = 0
	g.Rotation = 0
	g.CanHold = true
	g.grounded = false
	g.lockResets = maxLockResets
	g.lastRotated = false
	if g.collides(g.X, g.Y, g.Rotation) {
		g.Over = true
	}
}

func (g *Game) resetLockTimer() {
	if g.lockResets > 0 {
		g.lockSince = g.now()
		g.lockResets--
	}
}

func (g *Game) collides(x, y, rotation int) bool {
	for _, p := range Blocks(g.Current, rotation) {
		bx := x + p.X
		by := y + p.Y
		if bx < 0 || bx >= BoardWidth || by < 0 || by >= BoardHeight {
			return true
		}
		if g.Board[by][bx] != 0 {
			return true
		}
	}
	return false
}

func (g *Game) fullRows() []int {
	var rows []int
	for y := 0; y < BoardHeight; y++ {
		full := true
		for x := 0; x < BoardWidth; x++ {
			if g.Board[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, y)
		}
	}
	return rows
}

func (g *Game) collapse(rows []int) {
	for _, row := range rows {
		for pull := row; pull > 0; pull-- {
			copy(g.Board[pull], g.Board[pull-1])
		}
		for x := 0; x < BoardWidth; x++ {
			g.Board[0][x] = 0
		}
	}
}

// occupiedCorners counts filled or out-of-bounds diagonals around the T
// piece's pivot. Three or more after a rotation means the lock was a T-spin.
func (g *Game) occupiedCorners() int {
	cx := g.X + 1
	cy := g.Y + 1
	count := 0
	for _, d := range [4]Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		x := cx + d.X
		y := cy + d.Y
		if x < 0 || x >= BoardWidth || y < 0 || y >= BoardHeight {
			count++
			continue
		}
		if g.Board[y][x] != 0 {
			count++
		}
	}
	return count
}
