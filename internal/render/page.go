package render

import (
	"fmt"
	"io"
	"strings"

	"mmr-history/internal/chart"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const PageTitle = "Match History Analysis"

// WritePage renders the score and rank line charts and the division bar
// chart as a single HTML page.
func WritePage(w io.Writer, c chart.Charts) error {
	page := components.NewPage()
	page.PageTitle = PageTitle
	page.AddCharts(
		lineChart(c.Score),
		lineChart(c.Rank),
		barChart(c.Division),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func globalOpts(c chart.Chart) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "900px",
			Height: "450px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: subtitle(c),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	}
}

func subtitle(c chart.Chart) string {
	switch c.Status {
	case chart.StatusLoading:
		return "loading"
	case chart.StatusUnavailable:
		return strings.Join(c.Errors, "; ")
	default:
		return ""
	}
}

func lineChart(c chart.Chart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(c)...)
	line.SetXAxis(c.Labels)

	for _, s := range c.Series {
		data := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Label, data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)
	}
	return line
}

func barChart(c chart.Chart) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(c)...)
	bar.SetXAxis(c.Labels)

	for _, s := range c.Series {
		data := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Label, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}
	return bar
}
