package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertScoreSortsByScore(t *testing.T) {
	scores := []ScoreEntry{
		{ID: "a", Name: "Ada", Score: 300, When: "2026-08-01 10:00"},
		{ID: "b", Name: "Bo", Score: 900, When: "2026-08-01 11:00"},
	}
	scores = insertScore(scores, ScoreEntry{ID: "c", Name: "Cy", Score: 600, When: "2026-08-01 12:00"})

	require.Len(t, scores, 3)
	assert.Equal(t, "b", scores[0].ID)
	assert.Equal(t, "c", scores[1].ID)
	assert.Equal(t, "a", scores[2].ID)
}

func TestInsertScoreCapsTable(t *testing.T) {
	var scores []ScoreEntry
	for i := 0; i < maxScores+5; i++ {
		scores = insertScore(scores, newScoreEntry("P", i*100, i, 0))
	}
	require.Len(t, scores, maxScores)
	assert.Equal(t, (maxScores+4)*100, scores[0].Score)
}

func TestSortTiesBreakOnNewest(t *testing.T) {
	scores := sortAndCap([]ScoreEntry{
		{ID: "old", Score: 500, When: "2026-08-01 10:00"},
		{ID: "new", Score: 500, When: "2026-08-02 10:00"},
	})
	assert.Equal(t, "new", scores[0].ID)
}

func TestMergeScoresDedupesByID(t *testing.T) {
	local := []ScoreEntry{
		{ID: "a", Name: "Ada", Score: 900},
		{ID: "b", Name: "Bo", Score: 400},
	}
	remote := []ScoreEntry{
		{ID: "a", Name: "Ada", Score: 900},
		{ID: "c", Name: "Cy", Score: 700},
	}
	merged := mergeScores(local, remote)

	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "c", merged[1].ID)
	assert.Equal(t, "b", merged[2].ID)
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	config := defaultConfig()
	config.Theme = themes[1].Name
	config.Volume = 40
	config.Scale = 2
	config.Sync = true
	require.NoError(t, saveConfig(config))

	loaded, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	config, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), config)
}

func TestLoadConfigRejectsUnknownTheme(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	config := defaultConfig()
	config.Theme = "Vaporwave"
	require.NoError(t, saveConfig(config))

	loaded, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, themes[0].Name, loaded.Theme)
}

func TestLoadConfigClampsScale(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	config := defaultConfig()
	config.Scale = 9
	require.NoError(t, saveConfig(config))

	loaded, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Scale)

	config.Scale = -2
	require.NoError(t, saveConfig(config))
	loaded, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Scale)
}

func TestScoresRoundTrip(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	scores := []ScoreEntry{newScoreEntry("Ada", 1200, 14, 1)}
	require.NoError(t, saveScores(scores))

	loaded, err := loadScores()
	require.NoError(t, err)
	assert.Equal(t, scores, loaded)
}

func TestLoadScoresMissingFileYieldsEmpty(t *testing.T) {
	t.Setenv("TERTRIS_DATA_DIR", t.TempDir())

	scores, err := loadScores()
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestNewScoreEntryFillsIdentity(t *testing.T) {
	entry := newScoreEntry("Ada", 800, 9, 0)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Ada", entry.Name)
	assert.NotEmpty(t, entry.When)
}
