package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Meiroudii/tertris-clone/tetris"
)

type Theme struct {
	Name   string
	Border lipgloss.Color
	Text   lipgloss.Color
	Accent lipgloss.Color
	Dim    lipgloss.Color
	Pieces [tetris.PieceCount]lipgloss.Color
}

var themes = []Theme{
	{
		Name:   "Classic",
		Border: lipgloss.Color("250"),
		Text:   lipgloss.Color("252"),
		Accent: lipgloss.Color("213"),
		Dim:    lipgloss.Color("240"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"51",  // I cyan
			"226", // O yellow
			"135", // T purple
			"46",  // S green
			"196", // Z red
			"27",  // J blue
			"208", // L orange
		},
	},
	{
		Name:   "Neon",
		Border: lipgloss.Color("201"),
		Text:   lipgloss.Color("255"),
		Accent: lipgloss.Color("51"),
		Dim:    lipgloss.Color("238"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"87", "229", "171", "118", "204", "75", "215",
		},
	},
	{
		Name:   "Ocean",
		Border: lipgloss.Color("31"),
		Text:   lipgloss.Color("152"),
		Accent: lipgloss.Color("45"),
		Dim:    lipgloss.Color("238"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"45", "117", "68", "79", "23", "33", "74",
		},
	},
	{
		Name:   "Sunset",
		Border: lipgloss.Color("173"),
		Text:   lipgloss.Color("223"),
		Accent: lipgloss.Color("209"),
		Dim:    lipgloss.Color("240"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"215", "220", "168", "179", "160", "131", "202",
		},
	},
	{
		Name:   "Forest",
		Border: lipgloss.Color("65"),
		Text:   lipgloss.Color("151"),
		Accent: lipgloss.Color("114"),
		Dim:    lipgloss.Color("238"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"84", "184", "96", "40", "124", "24", "136",
		},
	},
	{
		Name:   "Mono",
		Border: lipgloss.Color("245"),
		Text:   lipgloss.Color("250"),
		Accent: lipgloss.Color("255"),
		Dim:    lipgloss.Color("238"),
		Pieces: [tetris.PieceCount]lipgloss.Color{
			"255", "250", "245", "240", "255", "250", "245",
		},
	},
}

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

const scoresPageSize = 5

func clampScale(scale int) int {
	if scale < 1 {
		return 1
	}
	if scale > 3 {
		return 3
	}
	return scale
}

func clampVolumePercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func (m Model) theme() Theme {
	return themes[m.themeIndex]
}

var logoLines = []string{
	"████████ ██████ ██████  ████████ ██████  ██  ██████",
	"   ██    ██     ██  ██     ██    ██  ██  ██  ██    ",
	"   ██    ████   ██████     ██    ██████  ██  ██████",
	"   ██    ██     ██ ██      ██    ██ ██   ██      ██",
	"   ██    ██████ ██  ██     ██    ██  ██  ██  ██████",
}

func viewMenu(m Model) string {
	theme := m.theme()
	titleStyle := lipgloss.NewStyle().Foreground(theme.Accent)
	itemStyle := lipgloss.NewStyle().Foreground(theme.Text)
	selectedStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	for _, line := range logoLines {
		b.WriteString(titleStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for i, item := range menuItems {
		if i == m.menuIndex {
			b.WriteString(selectedStyle.Render("> " + item))
		} else {
			b.WriteString(itemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("↑/↓ move · enter select · q quit"))
	return m.center(b.String())
}

func viewGame(m Model) string {
	theme := m.theme()
	if msg := sizeWarning(m); msg != "" {
		return m.center(lipgloss.NewStyle().Foreground(theme.Accent).Render(msg))
	}
	board := renderBoard(m, theme)
	panel := renderSidePanel(m, theme)
	view := lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", panel)
	if m.startCount > 0 {
		label := "READY"
		if m.startCount == 1 {
			label = "GO!"
		}
		overlay := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(label)
		view = lipgloss.JoinVertical(lipgloss.Center, view, overlay)
	}
	return m.center(view)
}

// renderBoard draws the playfield with the locked cells, the active piece,
// its ghost and any flashing clear rows.
func renderBoard(m Model, theme Theme) string {
	game := m.game
	scale := clampScale(m.config.Scale)
	cell := cellWidth(scale)
	flash := make(map[int]bool, len(m.flashRows))
	if m.flashActive() {
		for _, row := range m.flashRows {
			flash[row] = true
		}
	}

	active := make(map[tetris.Point]int)
	ghost := make(map[tetris.Point]bool)
	if !game.Over {
		for _, block := range tetris.Blocks(game.Current, game.Rotation) {
			active[tetris.Point{X: game.X + block.X, Y: game.Y + block.Y}] = game.Current
		}
		if m.config.Shadow {
			ghostY := game.GhostY()
			if ghostY > game.Y {
				for _, block := range tetris.Blocks(game.Current, game.Rotation) {
					point := tetris.Point{X: game.X + block.X, Y: ghostY + block.Y}
					if _, taken := active[point]; !taken {
						ghost[point] = true
					}
				}
			}
		}
	}

	emptyStyle := lipgloss.NewStyle().Foreground(theme.Dim)
	flashStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true)

	var b strings.Builder
	for y := 0; y < tetris.BoardHeight; y++ {
		var row strings.Builder
		for x := 0; x < tetris.BoardWidth; x++ {
			point := tetris.Point{X: x, Y: y}
			switch {
			case flash[y]:
				row.WriteString(flashStyle.Render(strings.Repeat("█", cell)))
			case game.Board[y][x] != 0:
				kind := game.Board[y][x] - 1
				row.WriteString(pieceStyle(theme, kind).Render(strings.Repeat("█", cell)))
			default:
				if kind, ok := active[point]; ok {
					row.WriteString(pieceStyle(theme, kind).Render(strings.Repeat("█", cell)))
				} else if ghost[point] {
					row.WriteString(pieceStyle(theme, game.Current).Render(strings.Repeat("░", cell)))
				} else {
					row.WriteString(emptyStyle.Render(strings.Repeat("·", cell)))
				}
			}
		}
		line := row.String()
		for i := 0; i < scale; i++ {
			b.WriteString(line)
			if y < tetris.BoardHeight-1 || i < scale-1 {
				b.WriteString("\n")
			}
		}
	}

	boardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	return boardStyle.Render(b.String())
}

func renderSidePanel(m Model, theme Theme) string {
	game := m.game
	labelStyle := lipgloss.NewStyle().Foreground(theme.Dim)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(labelStyle.Render("SCORE"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", game.Score)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("LINES") + "  " + labelStyle.Render("LEVEL"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render(fmt.Sprintf("%-6d %d", game.Lines, game.Level)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("NEXT"))
	b.WriteString("\n")
	for _, kind := range game.Queue {
		b.WriteString(renderMiniPiece(theme, kind))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("HOLD"))
	b.WriteString("\n")
	if game.HasHold {
		b.WriteString(renderMiniPiece(theme, game.HoldKind))
	} else {
		b.WriteString(labelStyle.Render(" -"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if game.Combo > 1 {
		b.WriteString(accentStyle.Render(fmt.Sprintf("COMBO x%d", game.Combo)))
		b.WriteString("\n")
	}
	if game.BackToBack > 1 {
		b.WriteString(accentStyle.Render(fmt.Sprintf("B2B x%d", game.BackToBack)))
		b.WriteString("\n")
	}
	if m.lastEvent != "" && time.Now().Before(m.lastEventUntil) {
		b.WriteString(accentStyle.Render(fmt.Sprintf("%s +%d", m.lastEvent, m.lastDelta)))
		b.WriteString("\n")
	}
	if game.Paused {
		b.WriteString("\n")
		b.WriteString(accentStyle.Render("PAUSED"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("←/→ move · ↑ rotate · z ccw"))
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("↓ soft · space hard · c hold"))
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("p pause · q menu"))
	return b.String()
}

// renderMiniPiece draws a piece preview in its spawn rotation on a 4x2 grid.
func renderMiniPiece(theme Theme, kind int) string {
	filled := make(map[tetris.Point]bool)
	for _, block := range tetris.Blocks(kind, 0) {
		filled[block] = true
	}
	style := pieceStyle(theme, kind)
	var b strings.Builder
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if filled[tetris.Point{X: x, Y: y}] {
				b.WriteString(style.Render("██"))
			} else {
				b.WriteString("  ")
			}
		}
		if y == 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func pieceStyle(theme Theme, kind int) lipgloss.Style {
	if kind < 0 || kind >= tetris.PieceCount {
		kind = 0
	}
	return lipgloss.NewStyle().Foreground(theme.Pieces[kind])
}

func viewThemes(m Model) string {
	theme := m.theme()
	itemStyle := lipgloss.NewStyle().Foreground(theme.Text)
	selectedStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	b.WriteString(selectedStyle.Render("THEMES"))
	b.WriteString("\n\n")
	for i, candidate := range themes {
		swatch := renderSwatch(candidate)
		if i == m.themeIndex {
			b.WriteString(selectedStyle.Render("> "+candidate.Name) + "  " + swatch)
		} else {
			b.WriteString(itemStyle.Render("  "+candidate.Name) + "  " + swatch)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("↑/↓ preview · enter apply · esc back"))
	return m.center(b.String())
}

func renderSwatch(theme Theme) string {
	var b strings.Builder
	for kind := 0; kind < tetris.PieceCount; kind++ {
		b.WriteString(pieceStyle(theme, kind).Render("██"))
	}
	return b.String()
}

func viewScores(m Model) string {
	theme := m.theme()
	titleStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(theme.Text)
	dimStyle := lipgloss.NewStyle().Foreground(theme.Dim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n\n")
	if m.syncLoading {
		b.WriteString(dimStyle.Render("Syncing" + strings.Repeat(".", m.syncDots)))
		b.WriteString("\n\n")
	} else if m.syncWarning != "" {
		b.WriteString(dimStyle.Render(m.syncWarning))
		b.WriteString("\n\n")
	}
	if len(m.scores) == 0 {
		b.WriteString(dimStyle.Render("No scores yet. Go stack some lines."))
		b.WriteString("\n")
	} else {
		end := m.scoresOffset + scoresPageSize
		if end > len(m.scores) {
			end = len(m.scores)
		}
		for i := m.scoresOffset; i < end; i++ {
			entry := m.scores[i]
			b.WriteString(rowStyle.Render(fmt.Sprintf(
				"%2d. %-12s %7d  L%-2d %s",
				i+1, entry.Name, entry.Score, entry.Level, entry.When,
			)))
			b.WriteString("\n")
		}
		if len(m.scores) > scoresPageSize {
			b.WriteString(dimStyle.Render(fmt.Sprintf("\n%d-%d of %d", m.scoresOffset+1, end, len(m.scores))))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("↑/↓ scroll · esc back"))
	return m.center(b.String())
}

func viewConfig(m Model) string {
	theme := m.theme()
	itemStyle := lipgloss.NewStyle().Foreground(theme.Text)
	selectedStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Accent)

	values := []string{
		onOff(m.config.Sound),
		onOff(m.config.Music),
		fmt.Sprintf("%d%%", m.config.Volume),
		onOff(m.config.Shadow),
		onOff(m.config.Animations),
		fmt.Sprintf("%dx", clampScale(m.config.Scale)),
		onOff(m.config.Sync),
	}

	var b strings.Builder
	b.WriteString(selectedStyle.Render("CONFIG"))
	b.WriteString("\n\n")
	for i, item := range configItems {
		line := fmt.Sprintf("%-22s %s", item, valueStyle.Render(values[i]))
		if i == m.configIndex {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString(itemStyle.Render("  ") + line)
		}
		b.WriteString("\n")
	}
	if m.config.Sync && !m.sync.Enabled() {
		b.WriteString("\n")
		b.WriteString(helpStyle(theme).Render("Set TERTRIS_SCORE_API_URL to enable sync."))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("↑/↓ move · enter toggle · ←/→ adjust · esc back"))
	return m.center(b.String())
}

func viewNameEntry(m Model) string {
	theme := m.theme()
	titleStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(theme.Text)

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render(fmt.Sprintf("Score %d · Lines %d · Level %d", m.game.Score, m.game.Lines, m.game.Level)))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render("Enter your name:"))
	b.WriteString("\n")
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(16)
	b.WriteString(inputStyle.Render(m.nameInput + "_"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle(theme).Render("enter save · esc skip"))
	return m.center(b.String())
}

func onOff(value bool) string {
	if value {
		return "On"
	}
	return "Off"
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Dim)
}

func cellWidth(scale int) int {
	return 2 * clampScale(scale)
}

// sizeWarning reports when the terminal cannot fit the board at the current
// scale. Empty string means it fits (or the size is not known yet).
func sizeWarning(m Model) string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	scale := clampScale(m.config.Scale)
	needWidth := tetris.BoardWidth*cellWidth(scale) + 4 + 32 // board border + side panel
	needHeight := tetris.BoardHeight*scale + 2
	if m.width < needWidth || m.height < needHeight {
		return fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d.\nResize or press ctrl+- to shrink the board.",
			needWidth, needHeight, m.width, m.height)
	}
	return ""
}

func (m Model) center(view string) string {
	if m.width <= 0 || m.height <= 0 {
		return view
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
}
