package finance

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleFit() BetaResult {
	return BetaResult{
		Beta:      0.7,
		Intercept: 1.2,
		Years:     []int{2001, 2002, 2003, 2004},
		Market:    []float64{-12.1, 4.5, 9.8, 21.3},
		Index:     []float64{-6.9, 5.1, 6.4, 17.0},
	}
}

func TestMakeBetaChart(t *testing.T) {
	img, err := MakeBetaChart("Austin", sampleFit())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestMakeBetaChart_TooFewPoints(t *testing.T) {
	fit := sampleFit()
	fit.Market = fit.Market[:1]
	fit.Index = fit.Index[:1]

	_, err := MakeBetaChart("Austin", fit)
	assert.Error(t, err)
}

func TestChartWriter_PlotBeta(t *testing.T) {
	w := ChartWriter{Dir: filepath.Join(t.TempDir(), "plots")}
	require.NoError(t, w.PlotBeta("Boston", sampleFit()))

	path := w.BetaChartPath("Boston")
	assert.Equal(t, "Boston_beta.png", filepath.Base(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
}

func TestMakeReturnsChart(t *testing.T) {
	rows := []ResultRow{
		{Name: "Austin", OneYear: 0.04, FiveYear: 0.06, TenYear: 0.07, LongTerm: 0.05, LongTermYears: 30},
		{Name: "Boston", OneYear: -0.01, FiveYear: 0.03, TenYear: 0.05, LongTerm: 0.045, LongTermYears: 23},
	}

	img, err := MakeReturnsChart(rows)
	require.NoError(t, err)
	assert.NotEmpty(t, img)

	_, err = MakeReturnsChart(nil)
	assert.Error(t, err)
}

func TestChartLabels_MarkReducedHorizon(t *testing.T) {
	rows := []ResultRow{
		{Name: "Austin", LongTermYears: 30},
		{Name: "Boise", LongTermYears: 23},
	}

	assert.Equal(t, []string{"Austin", "Boise (23y)"}, chartLabels(rows))
	assert.NotContains(t, returnsLegend, "30yr")
}
