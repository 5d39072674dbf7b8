package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Meiroudii/tertris-clone/tetris"
)

type Screen int

const (
	screenMenu Screen = iota
	screenGame
	screenThemes
	screenScores
	screenConfig
	screenNameEntry
)

type tickMsg struct {
	gen int
}
type soundMsg struct{}
type animTickMsg struct{}
type countdownTickMsg struct{}
type syncTickMsg struct{}

type scoresLoadedMsg struct {
	scores []ScoreEntry
	err    error
}

type scoreUploadedMsg struct {
	err error
}

const (
	lineClearFlashDuration = 140 * time.Millisecond
	bigClearFlashDuration  = 160 * time.Millisecond
	topOutFlashDuration    = 240 * time.Millisecond
	eventLabelDuration     = 900 * time.Millisecond
	bigEventLabelDuration  = 1400 * time.Millisecond
)

type Model struct {
	screen       Screen
	width        int
	height       int
	menuIndex    int
	configIndex  int
	themeIndex   int
	scoresOffset int
	config       Config
	scores       []ScoreEntry
	game         *tetris.Game
	nameInput    string

	sound       *SoundEngine
	music       *MusicPlayer
	sync        *ScoreSync
	syncWarning string
	syncLoading bool
	syncDots    int

	startCount int

	// tickGen invalidates in-flight gravity ticks: only the most recently
	// scheduled tick may step the game, so rescheduling (hard drop, countdown)
	// supersedes whatever tick was already in the pipeline.
	tickGen int

	flashRows     []int
	flashUntil    time.Time
	flashIsTopOut bool

	lastEvent      string
	lastDelta      int
	lastEventUntil time.Time
}

func NewModel() Model {
	config, err := loadConfig()
	if err != nil {
		debugf("config load error: %v", err)
	}
	index := themeIndexByName(config.Theme)
	if index < 0 {
		index = 0
		config.Theme = themes[index].Name
	}
	sync := NewScoreSyncFromEnv(config.Sync)
	scores, err := loadScores()
	if err != nil {
		debugf("scores load error: %v", err)
	}
	ctx, err := initAudioContext()
	if err != nil {
		debugf("audio context init error: %v", err)
	}
	sound := NewSoundEngine(ctx, config.Sound)
	sound.SetVolume(volumeFromPercent(config.Volume))
	return Model{
		screen:     screenMenu,
		config:     config,
		scores:     scores,
		themeIndex: index,
		game:       tetris.NewGame(),
		sound:      sound,
		sync:       sync,
		music:      NewMusicPlayer(ctx, volumeFromPercent(config.Volume)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		return m.updateTick()
	case animTickMsg:
		return m.updateAnimTick()
	case countdownTickMsg:
		return m.updateCountdown()
	case soundMsg:
		return m, nil
	case syncTickMsg:
		if m.syncLoading {
			m.syncDots = (m.syncDots + 1) % 4
			return m, syncTickCmd()
		}
		return m, nil
	case scoresLoadedMsg:
		if msg.err != nil {
			debugf("scores fetch error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
			m.syncLoading = false
			return m, nil
		}
		m.syncWarning = ""
		m.scores = mergeScores(m.scores, msg.scores)
		m.syncLoading = false
		return m, nil
	case scoreUploadedMsg:
		if msg.err != nil {
			debugf("score upload error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
		} else {
			m.syncWarning = ""
		}
		m.syncLoading = false
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+=", "ctrl++":
			m.adjustScale(1)
			return m, nil
		case "ctrl+-", "ctrl+_":
			m.adjustScale(-1)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.screen {
		case screenMenu:
			cmd = m.updateMenu(msg)
		case screenGame:
			cmd = m.updateGame(msg)
		case screenThemes:
			cmd = m.updateThemes(msg)
		case screenScores:
			cmd = m.updateScores(msg)
		case screenConfig:
			cmd = m.updateConfig(msg)
		case screenNameEntry:
			cmd = m.updateNameEntry(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return viewMenu(m)
	case screenGame:
		return viewGame(m)
	case screenThemes:
		return viewThemes(m)
	case screenScores:
		return viewScores(m)
	case screenConfig:
		return viewConfig(m)
	case screenNameEntry:
		return viewNameEntry(m)
	default:
		return ""
	}
}

func (m Model) updateTick() (tea.Model, tea.Cmd) {
	if m.screen != screenGame || m.game.Paused || m.game.Over {
		if m.screen == screenGame {
			cmd := m.scheduleTick(m.game.FallInterval())
			return m, cmd
		}
		return m, nil
	}
	if m.startCount > 0 {
		return m, nil
	}
	m.expireLabels()
	if m.flashActive() {
		// Gravity resumes once the clear animation resolves.
		cmd := m.scheduleTick(m.game.FallInterval())
		return m, cmd
	}
	result := m.game.Step()
	if m.game.Over {
		cmd := m.startTopOut()
		return m, cmd
	}
	interval := m.game.FallInterval()
	if result.Locked {
		interval += tetris.SpawnDelay
	}
	cmds := []tea.Cmd{m.scheduleTick(interval)}
	if result.Locked {
		cmds = append(cmds, m.handleLock(result)...)
		if m.config.Sound && result.Cleared == 0 && !result.TSpin {
			cmds = append(cmds, playSound(m.sound, SoundLock))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateAnimTick() (tea.Model, tea.Cmd) {
	if m.screen != screenGame || m.flashUntil.IsZero() {
		return m, nil
	}
	if time.Now().Before(m.flashUntil) {
		return m, animTickCmd()
	}
	topOut := m.flashIsTopOut
	m.clearFlash()
	if topOut {
		m.nameInput = ""
		cmd := m.setScreen(screenNameEntry)
		return m, cmd
	}
	m.game.ResolveLineClear()
	if m.game.Over {
		cmd := m.startTopOut()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateCountdown() (tea.Model, tea.Cmd) {
	if m.screen != screenGame || m.game.Paused || m.game.Over {
		return m, nil
	}
	if m.startCount <= 0 {
		cmd := m.scheduleTick(m.game.FallInterval())
		return m, cmd
	}
	m.startCount--
	if m.startCount > 0 {
		return m, countdownTickCmd()
	}
	cmd := m.scheduleTick(m.game.FallInterval())
	if m.config.Sound {
		cmd = tea.Batch(playSound(m.sound, SoundMenuSelect), cmd)
	}
	return m, cmd
}

// handleLock turns a lock result into animation, score label and sound
// commands.
func (m *Model) handleLock(result tetris.LockResult) []tea.Cmd {
	var cmds []tea.Cmd
	if result.Cleared > 0 {
		if m.config.Animations {
			duration := lineClearFlashDuration
			if result.TSpin || result.Cleared >= 4 {
				duration = bigClearFlashDuration
			}
			m.flashRows = append([]int{}, result.ClearedRows...)
			m.flashUntil = time.Now().Add(duration)
			m.flashIsTopOut = false
			cmds = append(cmds, animTickCmd())
		} else {
			m.game.ResolveLineClear()
			if m.game.Over {
				cmds = append(cmds, m.startTopOut())
				return cmds
			}
		}
	}
	if result.ScoreDelta > 0 {
		m.lastDelta = result.ScoreDelta
		if result.TSpin {
			m.lastEvent = "T-SPIN"
		} else {
			m.lastEvent = "LINE CLEAR"
		}
		duration := eventLabelDuration
		if result.TSpin || result.Cleared >= 4 {
			duration = bigEventLabelDuration
		}
		m.lastEventUntil = time.Now().Add(duration)
	}
	if m.config.Sound {
		if event, ok := soundEventForLock(result); ok {
			cmds = append(cmds, playSound(m.sound, event))
		}
		if result.Combo > 1 {
			cmds = append(cmds, playComboSound(m.sound, result.Combo, result.BackToBack))
		}
	}
	return cmds
}

func (m *Model) startTopOut() tea.Cmd {
	m.flashRows = make([]int, tetris.BoardHeight)
	for i := range m.flashRows {
		m.flashRows[i] = i
	}
	m.flashUntil = time.Now().Add(topOutFlashDuration)
	m.flashIsTopOut = true
	cmds := []tea.Cmd{animTickCmd()}
	if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundGameOver))
	}
	return tea.Batch(cmds...)
}

func (m *Model) flashActive() bool {
	return !m.flashUntil.IsZero() && time.Now().Before(m.flashUntil)
}

func (m *Model) clearFlash() {
	m.flashRows = nil
	m.flashUntil = time.Time{}
	m.flashIsTopOut = false
}

func (m *Model) expireLabels() {
	if !m.lastEventUntil.IsZero() && time.Now().After(m.lastEventUntil) {
		m.lastEvent = ""
		m.lastDelta = 0
		m.lastEventUntil = time.Time{}
	}
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
			cmd = m.menuMoveSound()
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
			cmd = m.menuMoveSound()
		}
	case "enter":
		if m.config.Sound {
			cmd = playSound(m.sound, SoundMenuSelect)
		}
		switch m.menuIndex {
		case 0:
			m.game = tetris.NewGame()
			m.clearFlash()
			m.lastEvent = ""
			m.lastDelta = 0
			m.startCount = 2
			return tea.Batch(cmd, m.setScreen(screenGame), countdownTickCmd())
		case 1:
			return tea.Batch(cmd, m.setScreen(screenThemes))
		case 2:
			m.scoresOffset = 0
			if m.sync.Enabled() {
				m.syncLoading = true
				m.syncDots = 0
				return tea.Batch(cmd, m.setScreen(screenScores), m.sync.FetchScoresCmd(), syncTickCmd())
			}
			return tea.Batch(cmd, m.setScreen(screenScores))
		case 3:
			return tea.Batch(cmd, m.setScreen(screenConfig))
		case 4:
			return tea.Quit
		}
	case "q", "esc":
		return tea.Quit
	}
	return cmd
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	if m.startCount > 0 || m.flashActive() {
		switch msg.String() {
		case "q", "esc":
			return m.setScreen(screenMenu)
		}
		return nil
	}
	switch msg.String() {
	case "left", "h":
		if m.game.Move(-1) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case "right", "l":
		if m.game.Move(1) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case "down", "j":
		m.game.SoftDrop()
	case " ":
		result := m.game.HardDrop()
		if m.game.Over {
			return m.startTopOut()
		}
		if !result.Locked {
			return nil
		}
		cmds := m.handleLock(result)
		if m.config.Sound && result.Cleared == 0 && !result.TSpin {
			cmds = append(cmds, playSound(m.sound, SoundDrop))
		}
		// Leave the spawn delay before gravity touches the fresh piece.
		cmds = append(cmds, m.scheduleTick(m.game.FallInterval()+tetris.SpawnDelay))
		return tea.Batch(cmds...)
	case "up", "x":
		if m.game.Rotate(1) && m.config.Sound {
			return playSound(m.sound, SoundRotate)
		}
	case "z":
		if m.game.Rotate(-1) && m.config.Sound {
			return playSound(m.sound, SoundRotate)
		}
	case "c":
		m.game.Hold()
	case "p":
		m.game.Paused = !m.game.Paused
		return m.syncMusicForScreen()
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) updateThemes(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.themeIndex > 0 {
			m.themeIndex--
			return m.menuMoveSound()
		}
	case "down", "j":
		if m.themeIndex < len(themes)-1 {
			m.themeIndex++
			return m.menuMoveSound()
		}
	case "enter":
		m.config.Theme = themes[m.themeIndex].Name
		if err := saveConfig(m.config); err != nil {
			debugf("config save error: %v", err)
		}
		cmd := m.setScreen(screenMenu)
		if m.config.Sound {
			return tea.Batch(cmd, playSound(m.sound, SoundMenuSelect))
		}
		return cmd
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) updateScores(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		cmd := m.setScreen(screenMenu)
		if m.config.Sound {
			return tea.Batch(cmd, playSound(m.sound, SoundMenuSelect))
		}
		return cmd
	case "up", "k":
		if m.scoresOffset > 0 {
			m.scoresOffset--
		}
	case "down", "j":
		max := len(m.scores) - scoresPageSize
		if max < 0 {
			max = 0
		}
		if m.scoresOffset < max {
			m.scoresOffset++
		}
	}
	return nil
}

func (m *Model) updateConfig(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.configIndex > 0 {
			m.configIndex--
			return m.menuMoveSound()
		}
	case "down", "j":
		if m.configIndex < len(configItems)-1 {
			m.configIndex++
			return m.menuMoveSound()
		}
	case "enter":
		var extra tea.Cmd
		switch m.configIndex {
		case configItemSound:
			m.config.Sound = !m.config.Sound
			m.sound.SetEnabled(m.config.Sound)
		case configItemMusic:
			m.config.Music = !m.config.Music
			extra = m.syncMusicForScreen()
		case configItemVolume:
			m.adjustVolume(5)
		case configItemShadow:
			m.config.Shadow = !m.config.Shadow
		case configItemAnimations:
			m.config.Animations = !m.config.Animations
			if !m.config.Animations && !m.flashIsTopOut {
				m.clearFlash()
				m.game.ResolveLineClear()
			}
		case configItemScale:
			m.adjustScale(1)
		case configItemSync:
			m.config.Sync = !m.config.Sync
			m.sync.SetEnabled(m.config.Sync)
		}
		if err := saveConfig(m.config); err != nil {
			debugf("config save error: %v", err)
		}
		if m.config.Sound {
			return tea.Batch(extra, playSound(m.sound, SoundMenuSelect))
		}
		return extra
	case "left", "h":
		return m.nudgeConfig(-1)
	case "right", "l":
		return m.nudgeConfig(1)
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) nudgeConfig(dir int) tea.Cmd {
	switch m.configIndex {
	case configItemVolume:
		m.adjustVolume(5 * dir)
	case configItemScale:
		m.adjustScale(dir)
	default:
		return nil
	}
	return m.menuMoveSound()
}

func (m *Model) updateNameEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput)
		if name == "" {
			name = "AAA"
		}
		entry := newScoreEntry(name, m.game.Score, m.game.Lines, m.game.Level)
		m.scores = insertScore(m.scores, entry)
		if err := saveScores(m.scores); err != nil {
			debugf("scores save error: %v", err)
		}
		m.scoresOffset = 0
		cmd := m.setScreen(screenScores)
		if !m.sync.Enabled() {
			return cmd
		}
		m.syncLoading = true
		m.syncDots = 0
		return tea.Batch(
			m.sync.UploadScoreCmd(entry),
			m.sync.FetchScoresCmd(),
			syncTickCmd(),
			cmd,
		)
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.nameInput) > 0 {
			m.nameInput = m.nameInput[:len(m.nameInput)-1]
		}
	case tea.KeyRunes:
		if len(m.nameInput) < 12 {
			m.nameInput += string(msg.Runes)
		}
	case tea.KeyEsc:
		return m.setScreen(screenMenu)
	}
	return nil
}

var menuItems = []string{
	"Start Game",
	"Themes",
	"Scores",
	"Config",
	"Quit",
}

const (
	configItemSound = iota
	configItemMusic
	configItemVolume
	configItemShadow
	configItemAnimations
	configItemScale
	configItemSync
)

var configItems = []string{
	"Sound Effects",
	"Music",
	"Volume",
	"Shadow",
	"Line Clear Animation",
	"Game Scale",
	"Score Sync",
}

func (m *Model) setScreen(screen Screen) tea.Cmd {
	m.screen = screen
	return m.syncMusicForScreen()
}

func (m *Model) syncMusicForScreen() tea.Cmd {
	if m.music == nil {
		return nil
	}
	if m.config.Music && m.screen == screenGame && !m.game.Paused {
		m.music.Start()
	} else {
		m.music.Stop()
	}
	return nil
}

func (m *Model) menuMoveSound() tea.Cmd {
	if !m.config.Sound {
		return nil
	}
	return playSound(m.sound, SoundMenuMove)
}

func (m *Model) adjustScale(delta int) {
	newScale := clampScale(m.config.Scale + delta)
	if newScale != m.config.Scale {
		m.config.Scale = newScale
		if err := saveConfig(m.config); err != nil {
			debugf("config save error: %v", err)
		}
	}
}

func (m *Model) adjustVolume(delta int) {
	newVolume := clampVolumePercent(m.config.Volume + delta)
	if newVolume == m.config.Volume {
		return
	}
	m.config.Volume = newVolume
	m.sound.SetVolume(volumeFromPercent(newVolume))
	m.music.SetVolume(volumeFromPercent(newVolume))
	if err := saveConfig(m.config); err != nil {
		debugf("config save error: %v", err)
	}
}

func volumeFromPercent(value int) float64 {
	return float64(clampVolumePercent(value)) / 100
}

// scheduleTick arms the next gravity tick and retires any earlier one.
func (m *Model) scheduleTick(interval time.Duration) tea.Cmd {
	m.tickGen++
	gen := m.tickGen
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func animTickCmd() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg { return animTickMsg{} })
}

func countdownTickCmd() tea.Cmd {
	return tea.Tick(380*time.Millisecond, func(time.Time) tea.Msg { return countdownTickMsg{} })
}

func syncTickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return syncTickMsg{} })
}

func playSound(engine *SoundEngine, event SoundEvent) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.Play(event)
		}
		return soundMsg{}
	}
}

func playComboSound(engine *SoundEngine, combo, backToBack int) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.PlayCombo(combo, backToBack)
		}
		return soundMsg{}
	}
}

func soundEventForLock(result tetris.LockResult) (SoundEvent, bool) {
	if result.TSpin {
		return SoundTSpin, true
	}
	switch result.Cleared {
	case 0:
		// Plain locks sound different for gravity and hard drops; the caller
		// picks.
		return SoundLock, false
	case 1:
		return SoundLine1, true
	case 2:
		return SoundLine2, true
	case 3:
		return SoundLine3, true
	default:
		return SoundLine4, true
	}
}
