package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ScoreSync pushes finished games to a scored server and pulls the shared
// table back. All network work runs inside tea.Cmds so the update loop never
// blocks.
type ScoreSync struct {
	enabled bool
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewScoreSyncFromEnv(enabled bool) *ScoreSync {
	baseURL := strings.TrimSpace(os.Getenv("TERTRIS_SCORE_API_URL"))
	if baseURL == "" {
		return nil
	}
	return &ScoreSync{
		enabled: enabled,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(os.Getenv("TERTRIS_SCORE_API_KEY")),
		client: &http.Client{
			Timeout: 4 * time.Second,
		},
	}
}

func (s *ScoreSync) Enabled() bool {
	return s != nil && s.enabled
}

func (s *ScoreSync) SetEnabled(enabled bool) {
	if s != nil {
		s.enabled = enabled
	}
}

func (s *ScoreSync) FetchScoresCmd() tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return scoresLoadedMsg{}
		}
		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/scores?limit=%d", s.baseURL, maxScores), nil)
		if err != nil {
			return scoresLoadedMsg{err: err}
		}
		s.authorize(req)
		resp, err := s.client.Do(req)
		if err != nil {
			return scoresLoadedMsg{err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return scoresLoadedMsg{err: statusError(resp.StatusCode)}
		}
		var scores []ScoreEntry
		if err := json.NewDecoder(resp.Body).Decode(&scores); err != nil {
			return scoresLoadedMsg{err: err}
		}
		return scoresLoadedMsg{scores: scores}
	}
}

func (s *ScoreSync) UploadScoreCmd(entry ScoreEntry) tea.Cmd {
	return func() tea.Msg {
		if !s.Enabled() {
			return scoreUploadedMsg{}
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		req, err := http.NewRequest(http.MethodPost, s.baseURL+"/scores", bytes.NewReader(payload))
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		s.authorize(req)
		resp, err := s.client.Do(req)
		if err != nil {
			return scoreUploadedMsg{err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return scoreUploadedMsg{err: statusError(resp.StatusCode)}
		}
		return scoreUploadedMsg{}
	}
}

func (s *ScoreSync) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
}

type statusError int

func (s statusError) Error() string {
	return "unexpected status: " + http.StatusText(int(s))
}
