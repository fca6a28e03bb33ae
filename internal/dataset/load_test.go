package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPriceSeries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Austin.csv", "date,Austin\n2000-01-01,100.5\n2000-02-01,101\n2000-03-01, 102.25\n")

	s, err := LoadPriceSeries(path)
	require.NoError(t, err)
	assert.Equal(t, "Austin", s.Name)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, time.Date(2000, time.February, 1, 0, 0, 0, 0, time.UTC), s.Points[1].Date)
	assert.Equal(t, 102.25, s.Points[2].Value)
}

func TestLoadPriceSeries_HeaderVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bom", "\ufeffDate,Price\n2000-01-01,1\n2000-02-01,2\n"},
		{"date second", "Value,DATE\n1,2000-01-01\n2,2000-02-01\n"},
		{"unnamed columns", "when,level\n01/01/2000,1\n02/01/2000,2\n"},
		{"month dates", "date,x\n2000-01,1\n2000-02,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "series.csv", tt.content)

			s, err := LoadPriceSeries(path)
			require.NoError(t, err)
			require.Equal(t, 2, s.Len())
			assert.Equal(t, 1.0, s.Points[0].Value)
			assert.Equal(t, time.January, s.Points[0].Date.Month())
			assert.Equal(t, 2.0, s.Points[1].Value)
		})
	}
}

func TestLoadPriceSeries_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantRow int
		wantMsg string
	}{
		{"empty", "", 0, "empty file"},
		{"single column", "date\n2000-01-01\n", 0, "expected date and price columns"},
		{"bad number", "date,x\n2000-01-01,1\n2000-02-01,abc\n", 3, `invalid number "abc"`},
		{"bad date", "date,x\n2000-13-45,1\n", 2, "invalid date"},
		{"out of order", "date,x\n2000-02-01,1\n2000-01-01,2\n", 3, "not after"},
		{"duplicate date", "date,x\n2000-01-01,1\n2000-01-01,2\n", 3, "not after"},
		{"missing value", "date,x\n2000-01-01\n", 2, "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.csv", tt.content)

			_, err := LoadPriceSeries(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.Contains(t, err.Error(), tt.wantMsg)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, path, pe.File)
			assert.Equal(t, tt.wantRow, pe.Row)
		})
	}
}

func TestLoadPriceSeries_MissingFile(t *testing.T) {
	_, err := LoadPriceSeries(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, ErrMalformedInput))
}

func TestDiscoverSeries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Boston.csv", "date,x\n")
	writeFile(t, dir, "Austin.CSV", "date,x\n")
	writeFile(t, dir, ".hidden.csv", "date,x\n")
	writeFile(t, dir, "notes.txt", "ignore")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	paths, err := DiscoverSeries(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "Austin", SeriesName(paths[0]))
	assert.Equal(t, "Boston", SeriesName(paths[1]))
}

func TestLoadSeriesDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "date,x\n2000-01-01,1\n")
	writeFile(t, dir, "a.csv", "date,x\n2000-01-01,2\n")

	series, err := LoadSeriesDir(dir)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "a", series[0].Name)
	assert.Equal(t, "b", series[1].Name)

	_, err = LoadSeriesDir(t.TempDir())
	assert.ErrorContains(t, err, "no series files")
}

func TestLoadRiskFree(t *testing.T) {
	content := strings.Join([]string{
		"DATE,DTB3",
		"2000-01-03,5.27",
		"2000-01-04,.",
		"2000-01-05,5.30",
		"2001-07-02,3.60",
	}, "\n") + "\n"
	path := writeFile(t, t.TempDir(), "tbill.csv", content)

	obs, err := LoadRiskFree(path)
	require.NoError(t, err)
	require.Len(t, obs, 3)
	assert.Equal(t, 5.27, obs[0].Value)
	assert.Equal(t, 5.30, obs[1].Value)
	assert.Equal(t, 2001, obs[2].Date.Year())
}

func TestLoadRiskFree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"missing column", "DATE,RATE\n2000-01-03,5\n", "missing column DTB3"},
		{"all missing", "DATE,DTB3\n2000-01-03,.\n", "no valid rate observations"},
		{"bad rate", "DATE,DTB3\n2000-01-03,n/a\n", `invalid number "n/a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "tbill.csv", tt.content)
			_, err := LoadRiskFree(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadMarketReturns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sp500.csv", "Year,Return\n2001,-11.85\n2002,-21.97\n2003,28.36\n")

	m, err := LoadMarketReturns(path)
	require.NoError(t, err)
	assert.Len(t, m, 3)
	assert.Equal(t, -21.97, m[2002])
}

func TestLoadMarketReturns_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"duplicate year", "Year,Return\n2001,1\n2001,2\n", "duplicate year 2001"},
		{"bad year", "Year,Return\ntwenty,1\n", `invalid year "twenty"`},
		{"missing column", "Year,Pct\n2001,1\n", "missing column Return"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "sp500.csv", tt.content)
			_, err := LoadMarketReturns(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
