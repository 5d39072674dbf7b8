package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/Meiroudii/tertris-clone/tetris"
)

const (
	cellSize     = 24
	boardMargin  = 16
	panelWidth   = 180
	screenWidth  = boardMargin*3 + tetris.BoardWidth*cellSize + panelWidth
	screenHeight = boardMargin*2 + tetris.BoardHeight*cellSize
)

// Held-key auto repeat: a longer delay before the first repeat, then a short
// interval, measured in ticks at 60 TPS.
const (
	repeatDelay    = 10
	repeatInterval = 3
)

const flashTicks = 9

var pieceColors = [tetris.PieceCount]color.RGBA{
	{0, 240, 240, 255},   // I
	{240, 240, 0, 255},   // O
	{160, 0, 240, 255},   // T
	{0, 240, 0, 255},     // S
	{240, 0, 0, 255},     // Z
	{0, 0, 240, 255},     // J
	{240, 160, 0, 255},   // L
}

var (
	backgroundColor = color.RGBA{16, 16, 24, 255}
	gridColor       = color.RGBA{36, 36, 48, 255}
	ghostColor      = color.RGBA{90, 90, 110, 255}
	flashColor      = color.RGBA{240, 240, 240, 255}
	textColor       = color.White
	dimTextColor    = color.RGBA{150, 150, 160, 255}
)

// App drives one tetris.Game inside an ebiten window.
type App struct {
	game     *tetris.Game
	txtFont  font.Face
	lastDrop time.Time

	heldTicks map[ebiten.Key]int
	flashRows []int
	flashLeft int
	paused    bool
	gameOver  bool
}

func NewApp() *App {
	ebiten.SetTPS(60)
	return &App{
		game:      tetris.NewGame(),
		txtFont:   basicfont.Face7x13,
		lastDrop:  time.Now(),
		heldTicks: make(map[ebiten.Key]int),
	}
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if a.gameOver {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			a.restart()
		}
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
		a.game.Paused = a.paused
		a.lastDrop = time.Now()
	}
	if a.paused {
		return nil
	}
	if a.flashLeft > 0 {
		a.flashLeft--
		if a.flashLeft == 0 {
			a.flashRows = nil
			a.game.ResolveLineClear()
			if a.game.Over {
				a.gameOver = true
			}
			a.lastDrop = time.Now()
		}
		return nil
	}

	a.readInput()
	if a.gameOver {
		return nil
	}

	if time.Since(a.lastDrop) >= a.game.FallInterval() {
		a.lastDrop = time.Now()
		result := a.game.Step()
		a.applyLock(result)
	}
	return nil
}

func (a *App) readInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) || inpututil.IsKeyJustPressed(ebiten.KeyX) {
		a.game.Rotate(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		a.game.Rotate(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.game.Hold()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.hardDrop()
		return
	}
	if a.repeats(ebiten.KeyLeft) {
		a.game.Move(-1)
	}
	if a.repeats(ebiten.KeyRight) {
		a.game.Move(1)
	}
	if a.repeats(ebiten.KeyDown) {
		a.game.SoftDrop()
	}
}

// repeats reports whether a held key should fire this tick.
func (a *App) repeats(key ebiten.Key) bool {
	if !ebiten.IsKeyPressed(key) {
		a.heldTicks[key] = 0
		return false
	}
	ticks := a.heldTicks[key]
	a.heldTicks[key] = ticks + 1
	if ticks == 0 {
		return true
	}
	if ticks < repeatDelay {
		return false
	}
	return (ticks-repeatDelay)%repeatInterval == 0
}

// hardDrop locks the piece and pushes the next gravity step past the spawn
// delay, so the fresh piece is not stepped the instant it appears.
func (a *App) hardDrop() {
	result := a.game.HardDrop()
	a.lastDrop = time.Now().Add(tetris.SpawnDelay)
	a.applyLock(result)
}

func (a *App) applyLock(result tetris.LockResult) {
	if a.game.Over {
		a.gameOver = true
		return
	}
	if result.Cleared > 0 {
		a.flashRows = append([]int{}, result.ClearedRows...)
		a.flashLeft = flashTicks
	}
}

func (a *App) restart() {
	a.game = tetris.NewGame()
	a.gameOver = false
	a.paused = false
	a.flashRows = nil
	a.flashLeft = 0
	a.lastDrop = time.Now()
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	a.drawBoard(screen)
	a.drawPanel(screen)
}

func (a *App) drawBoard(screen *ebiten.Image) {
	originX := float32(boardMargin)
	originY := float32(boardMargin)

	flash := make(map[int]bool, len(a.flashRows))
	if a.flashLeft > 0 {
		for _, row := range a.flashRows {
			flash[row] = true
		}
	}

	for y := 0; y < tetris.BoardHeight; y++ {
		for x := 0; x < tetris.BoardWidth; x++ {
			px := originX + float32(x*cellSize)
			py := originY + float32(y*cellSize)
			switch {
			case flash[y]:
				fillCell(screen, px, py, flashColor)
			case a.game.Board[y][x] != 0:
				fillCell(screen, px, py, pieceColors[a.game.Board[y][x]-1])
			default:
				vector.StrokeRect(screen, px, py, cellSize, cellSize, 1, gridColor, false)
			}
		}
	}

	if !a.gameOver && a.flashLeft == 0 {
		ghostY := a.game.GhostY()
		for _, block := range tetris.Blocks(a.game.Current, a.game.Rotation) {
			if ghostY > a.game.Y {
				px := originX + float32((a.game.X+block.X)*cellSize)
				py := originY + float32((ghostY+block.Y)*cellSize)
				vector.StrokeRect(screen, px+1, py+1, cellSize-2, cellSize-2, 1, ghostColor, false)
			}
			px := originX + float32((a.game.X+block.X)*cellSize)
			py := originY + float32((a.game.Y+block.Y)*cellSize)
			fillCell(screen, px, py, pieceColors[a.game.Current])
		}
	}

	borderX := originX - 2
	borderY := originY - 2
	vector.StrokeRect(screen, borderX, borderY,
		float32(tetris.BoardWidth*cellSize)+4, float32(tetris.BoardHeight*cellSize)+4,
		2, textColor, false)
}

func (a *App) drawPanel(screen *ebiten.Image) {
	x := boardMargin*2 + tetris.BoardWidth*cellSize
	y := boardMargin + 12

	text.Draw(screen, "SCORE", a.txtFont, x, y, dimTextColor)
	text.Draw(screen, fmt.Sprintf("%d", a.game.Score), a.txtFont, x, y+16, textColor)
	text.Draw(screen, fmt.Sprintf("LINES %d", a.game.Lines), a.txtFont, x, y+40, textColor)
	text.Draw(screen, fmt.Sprintf("LEVEL %d", a.game.Level), a.txtFont, x, y+56, textColor)

	text.Draw(screen, "NEXT", a.txtFont, x, y+88, dimTextColor)
	for i, kind := range a.game.Queue {
		a.drawMiniPiece(screen, x, y+100+i*40, kind)
	}

	holdY := y + 100 + len(a.game.Queue)*40 + 24
	text.Draw(screen, "HOLD", a.txtFont, x, holdY, dimTextColor)
	if a.game.HasHold {
		a.drawMiniPiece(screen, x, holdY+12, a.game.HoldKind)
	} else {
		text.Draw(screen, "-", a.txtFont, x, holdY+24, dimTextColor)
	}

	statusY := screenHeight - boardMargin - 24
	switch {
	case a.gameOver:
		text.Draw(screen, "GAME OVER", a.txtFont, x, statusY, textColor)
		text.Draw(screen, "space to restart", a.txtFont, x, statusY+16, dimTextColor)
	case a.paused:
		text.Draw(screen, "PAUSED", a.txtFont, x, statusY, textColor)
	default:
		text.Draw(screen, "p pause  esc quit", a.txtFont, x, statusY, dimTextColor)
	}
}

func (a *App) drawMiniPiece(screen *ebiten.Image, x, y, kind int) {
	const mini = 10
	for _, block := range tetris.Blocks(kind, 0) {
		px := float32(x + block.X*mini)
		py := float32(y + block.Y*mini)
		vector.DrawFilledRect(screen, px+1, py+1, mini-2, mini-2, pieceColors[kind], false)
	}
}

func fillCell(screen *ebiten.Image, x, y float32, fill color.RGBA) {
	vector.DrawFilledRect(screen, x+1, y+1, cellSize-2, cellSize-2, fill, false)
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
