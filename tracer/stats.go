package tracer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderStats records what a render did.
type RenderStats struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Workers         int
	// Time spent on each row, indexed by the row's viewport y
	RowTimes []time.Duration
	Wall     time.Duration

	LuminanceMean   float64
	LuminanceStdDev float64

	rays atomic.Uint64
}

func newRenderStats(width, height int) *RenderStats {
	return &RenderStats{
		Width:    width,
		Height:   height,
		RowTimes: make([]time.Duration, height),
	}
}

func (s *RenderStats) addRay() {
	if s == nil {
		return
	}
	s.rays.Add(1)
}

// Rays returns how many rays were traced against the scene, shadow rays
// excluded.
func (s *RenderStats) Rays() uint64 {
	return s.rays.Load()
}

func (s *RenderStats) finish(im *Image, wall time.Duration) {
	s.Wall = wall
	s.LuminanceMean, s.LuminanceStdDev = Luminance(im)
}

// Luminance returns the mean and standard deviation of the Rec. 709
// luminance of every pixel.
func Luminance(im *Image) (mean, stddev float64) {
	if im == nil || len(im.Pix) == 0 {
		return 0, 0
	}
	l := make([]float64, len(im.Pix))
	for i, c := range im.Pix {
		l[i] = 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
	}
	return stat.MeanStdDev(l, nil)
}

// RaysPerSecond is the camera ray throughput over wall time.
func (s *RenderStats) RaysPerSecond() float64 {
	if s.Wall <= 0 {
		return 0
	}
	return float64(s.Rays()) / s.Wall.Seconds()
}

// SlowestRow returns the viewport row that took longest.
func (s *RenderStats) SlowestRow() (row int, d time.Duration) {
	for i, t := range s.RowTimes {
		if t > d {
			row, d = i, t
		}
	}
	return row, d
}

// Table renders the statistics as a text table.
func (s *RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})
	row, slowest := s.SlowestRow()
	table.Append([]string{"Image", fmt.Sprintf("%dx%d", s.Width, s.Height)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d", s.SamplesPerPixel)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Workers", fmt.Sprintf("%d", s.Workers)})
	table.Append([]string{"Rays", fmt.Sprintf("%d", s.Rays())})
	table.Append([]string{"Rays/s", fmt.Sprintf("%.0f", s.RaysPerSecond())})
	table.Append([]string{"Slowest row", fmt.Sprintf("%d (%s)", row, slowest)})
	table.Append([]string{"Luminance", fmt.Sprintf("%.4f ± %.4f", s.LuminanceMean, s.LuminanceStdDev)})
	table.SetFooter([]string{"Render time", s.Wall.String()})
	table.Render()
	return buf.String()
}

type rowTimes []time.Duration

func (r rowTimes) Len() int {
	return len(r)
}

func (r rowTimes) Value(i int) float64 {
	return float64(r[i]) / float64(time.Millisecond)
}

// PlotRowTimes saves a bar chart of per-row render time.
func (s *RenderStats) PlotRowTimes(path string, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = "Row render time"
	p.X.Label.Text = "Row"
	p.Y.Label.Text = "Time (ms)"

	bars, err := plotter.NewBarChart(rowTimes(s.RowTimes), vg.Points(1))
	if err != nil {
		return fmt.Errorf("building row time chart: %w", err)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving row time chart: %w", err)
	}
	return nil
}

// StatsJSON is the on-disk form of RenderStats.
type StatsJSON struct {
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	SamplesPerPixel int       `json:"samplesPerPixel"`
	MaxDepth        int       `json:"maxDepth"`
	Workers         int       `json:"workers"`
	Rays            uint64    `json:"rays"`
	WallSeconds     float64   `json:"wallSeconds"`
	RowMillis       []float64 `json:"rowMillis"`
	LuminanceMean   float64   `json:"luminanceMean"`
	LuminanceStdDev float64   `json:"luminanceStdDev"`
}

func (s *RenderStats) ToJSON() StatsJSON {
	rows := make([]float64, len(s.RowTimes))
	for i := range s.RowTimes {
		rows[i] = rowTimes(s.RowTimes).Value(i)
	}
	return StatsJSON{
		Width:           s.Width,
		Height:          s.Height,
		SamplesPerPixel: s.SamplesPerPixel,
		MaxDepth:        s.MaxDepth,
		Workers:         s.Workers,
		Rays:            s.Rays(),
		WallSeconds:     s.Wall.Seconds(),
		RowMillis:       rows,
		LuminanceMean:   s.LuminanceMean,
		LuminanceStdDev: s.LuminanceStdDev,
	}
}

// SaveJSON writes the statistics to filename.
func (s *RenderStats) SaveJSON(filename string) error {
	data, err := json.MarshalIndent(s.ToJSON(), "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling render stats: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// Table renders the hierarchy shape as a text table.
func (s BVHStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Nodes", "Leaves", "Primitives", "Max depth"})
	table.Append([]string{
		fmt.Sprintf("%d", s.Nodes),
		fmt.Sprintf("%d", s.Leaves),
		fmt.Sprintf("%d", s.Primitives),
		fmt.Sprintf("%d", s.MaxDepth),
	})
	table.Render()
	return buf.String()
}
