package finance

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// MakeBetaChart renders the market vs. index annual returns of a beta fit as a PNG
// scatter plot with the fitted line drawn over the observed market range.
func MakeBetaChart(name string, fit BetaResult) ([]byte, error) {
	if len(fit.Market) < 2 || len(fit.Market) != len(fit.Index) {
		return nil, errors.New("not enough data points")
	}

	xMin, xMax := fit.Market[0], fit.Market[0]
	for _, x := range fit.Market[1:] {
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
	}

	points := chart.ContinuousSeries{
		Name: "years",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColor:    drawing.ColorBlue,
		},
		XValues: fit.Market,
		YValues: fit.Index,
	}
	line := chart.ContinuousSeries{
		Name: fmt.Sprintf("beta %.2f", fit.Beta),
		Style: chart.Style{
			StrokeWidth: 1.5,
			StrokeColor: drawing.ColorRed,
		},
		XValues: []float64{xMin, xMax},
		YValues: []float64{fit.Intercept + fit.Beta*xMin, fit.Intercept + fit.Beta*xMax},
	}

	graph := chart.Chart{
		Title:  name,
		Width:  800,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: "Market Returns"},
		YAxis:  chart.YAxis{Name: "Asset Returns"},
		Series: []chart.Series{points, line},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// ChartWriter is a PlotSink that writes <name>_beta.png files into Dir.
type ChartWriter struct {
	Dir string
}

// BetaChartPath returns the file a beta chart for the named series is written to.
func (w ChartWriter) BetaChartPath(name string) string {
	return filepath.Join(w.Dir, name+"_beta.png")
}

func (w ChartWriter) PlotBeta(name string, fit BetaResult) error {
	img, err := MakeBetaChart(name, fit)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	return os.WriteFile(w.BetaChartPath(name), img, 0o644)
}
