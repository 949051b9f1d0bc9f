package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "console", c.LogFormat)
	assert.Equal(t, 0.7, c.DateThreshold)
	assert.Equal(t, 50, c.PieMaxCategories)
	assert.Equal(t, 10, c.DefaultTopN)
	assert.True(t, c.AutoClean)
	assert.True(t, c.OutlierDetection)
	assert.Equal(t, 1.5, c.OutlierIQRFactor)
	assert.Equal(t, "medium", c.AnomalySensitivity)
	assert.Equal(t, filepath.Join(home, ".nlviz", "workspaces"), c.WorkspacesDir)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pie_max_categories: 12\ntimezone: Asia/Tokyo\n"), 0o644))
	t.Setenv("NLVIZ_DEFAULT_TOP_N", "7")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.PieMaxCategories)
	assert.Equal(t, 7, c.DefaultTopN)
	assert.Equal(t, "Asia/Tokyo", c.Timezone)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	c.AnomalySensitivity = "high"
	c.Delimiter = ";"
	require.NoError(t, Save(c, path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "high", back.AnomalySensitivity)
	r, err := back.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, ';', r)
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, "auto": 0, "tab": '\t', ",": ',', "pipe": '|'}
	for in, want := range cases {
		got, err := ParseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDelimiter(";;")
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	c := &Global{}
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	c.Timezone = "Not/AZone"
	_, err = c.Location()
	assert.Error(t, err)
}
