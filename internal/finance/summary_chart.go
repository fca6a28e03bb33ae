package finance

import (
	"errors"
	"fmt"

	"github.com/vicanso/go-charts/v2"
)

// returnsLegend names the bars of each group. The last bar is the 30-year return, or the
// 23-year one for series marked "(23y)" on the x axis.
var returnsLegend = []string{"1yr", "5yr", "10yr", "long"}

// MakeReturnsChart renders the trailing returns of every row as a grouped bar chart,
// one group per series and one bar per horizon.
func MakeReturnsChart(rows []ResultRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to chart")
	}

	names := chartLabels(rows)
	values := make([][]float64, 4)
	for i := range values {
		values[i] = make([]float64, len(rows))
	}
	for i, r := range rows {
		values[0][i] = r.OneYear * 100
		values[1][i] = r.FiveYear * 100
		values[2][i] = r.TenYear * 100
		values[3][i] = r.LongTerm * 100
	}

	width := 200 + 120*len(rows)
	if width < 800 {
		width = 800
	}

	p, err := charts.BarRender(
		values,
		charts.TitleTextOptionFunc("Trailing Annualized Returns (%)"),
		charts.XAxisDataOptionFunc(names),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: returnsLegend,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(width),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

// chartLabels returns the x axis label of each row, noting a reduced long horizon.
func chartLabels(rows []ResultRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
		if r.LongTermYears != 0 && r.LongTermYears != longHorizon {
			out[i] += fmt.Sprintf(" (%dy)", r.LongTermYears)
		}
	}
	return out
}
