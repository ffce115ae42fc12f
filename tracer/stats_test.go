package tracer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func sampleStats() *RenderStats {
	s := newRenderStats(4, 3)
	s.SamplesPerPixel = 2
	s.MaxDepth = 5
	s.Workers = 2
	s.RowTimes = []time.Duration{2 * time.Millisecond, 7 * time.Millisecond, time.Millisecond}
	for i := 0; i < 300; i++ {
		s.addRay()
	}
	s.Wall = 3 * time.Second
	return s
}

func TestRenderStats(t *testing.T) {
	assert := assert.New(t)
	s := sampleStats()

	assert.Equal(uint64(300), s.Rays())
	assert.InDelta(100, s.RaysPerSecond(), 1e-9)
	row, d := s.SlowestRow()
	assert.Equal(1, row)
	assert.Equal(7*time.Millisecond, d)

	var nilStats *RenderStats
	assert.NotPanics(func() { nilStats.addRay() })

	assert.Equal(0.0, newRenderStats(1, 1).RaysPerSecond())
}

func TestLuminance(t *testing.T) {
	assert := assert.New(t)

	mean, std := Luminance(nil)
	assert.Equal(0.0, mean)
	assert.Equal(0.0, std)

	im := NewImage(2, 1)
	im.Set(0, 0, C(1, 1, 1))
	mean, std = Luminance(im)
	assert.InDelta(0.5, mean, 1e-12)
	// Sample standard deviation of {1, 0}
	assert.InDelta(0.7071067811865476, std, 1e-12)
}

func TestRenderStatsTable(t *testing.T) {
	table := sampleStats().Table()
	for _, want := range []string{"Statistic", "Rays", "300", "4x3", "Slowest row", "1 (7ms)", "Render time"} {
		assert.Contains(t, table, want)
	}
}

func TestRenderStatsJSON(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, sampleStats().SaveJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got StatsJSON
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(4, got.Width)
	assert.Equal(uint64(300), got.Rays)
	assert.Equal(3.0, got.WallSeconds)
	assert.Equal([]float64{2, 7, 1}, got.RowMillis)
}

func TestPlotRowTimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.png")
	require.NoError(t, sampleStats().PlotRowTimes(path, 4*vg.Inch, 2*vg.Inch))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
