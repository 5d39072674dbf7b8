package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

const maxScores = 10

type Config struct {
	Theme      string `json:"theme"`
	Sound      bool   `json:"sound"`
	Music      bool   `json:"music"`
	Volume     int    `json:"volume"`
	Shadow     bool   `json:"shadow"`
	Animations bool   `json:"animations"`
	Scale      int    `json:"scale"`
	Sync       bool   `json:"sync"`
}

func defaultConfig() Config {
	return Config{
		Theme:      themes[0].Name,
		Sound:      true,
		Music:      true,
		Volume:     70,
		Shadow:     true,
		Animations: true,
		Scale:      1,
		Sync:       false,
	}
}

type ScoreEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Lines int    `json:"lines"`
	Level int    `json:"level"`
	When  string `json:"when"`
}

func newScoreEntry(name string, score, lines, level int) ScoreEntry {
	return ScoreEntry{
		ID:    uuid.NewString(),
		Name:  name,
		Score: score,
		Lines: lines,
		Level: level,
		When:  time.Now().Format("2006-01-02 15:04"),
	}
}

func loadConfig() (Config, error) {
	config := defaultConfig()
	path, err := configPath()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config, nil
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return defaultConfig(), err
	}
	if themeIndexByName(config.Theme) < 0 {
		config.Theme = themes[0].Name
	}
	config.Scale = clampScale(config.Scale)
	if config.Volume < 0 || config.Volume > 100 {
		config.Volume = 70
	}
	return config, nil
}

func saveConfig(config Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadScores() ([]ScoreEntry, error) {
	path, err := scoresPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return []ScoreEntry{}, nil
	}
	var scores []ScoreEntry
	if err := json.Unmarshal(data, &scores); err != nil {
		return []ScoreEntry{}, err
	}
	return scores, nil
}

func saveScores(scores []ScoreEntry) error {
	path, err := scoresPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func insertScore(scores []ScoreEntry, entry ScoreEntry) []ScoreEntry {
	return sortAndCap(append(scores, entry))
}

// mergeScores combines local and remote tables, de-duplicating by entry ID.
func mergeScores(local, remote []ScoreEntry) []ScoreEntry {
	merged := make([]ScoreEntry, 0, len(local)+len(remote))
	seen := make(map[string]struct{})
	for _, entry := range append(local, remote...) {
		if entry.ID != "" {
			if _, ok := seen[entry.ID]; ok {
				continue
			}
			seen[entry.ID] = struct{}{}
		}
		merged = append(merged, entry)
	}
	return sortAndCap(merged)
}

func sortAndCap(scores []ScoreEntry) []ScoreEntry {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score == scores[j].Score {
			return scores[i].When > scores[j].When
		}
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxScores {
		return scores[:maxScores]
	}
	return scores
}

func configPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func scoresPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scores.json"), nil
}

func dataDir() (string, error) {
	if dir := os.Getenv("TERTRIS_DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return dir, nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "tertris")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
