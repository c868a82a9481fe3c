// Package report renders the results of an experiment for people:
// charts of learning curves and the greedy policy of a brain
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Series is a named sequence of per-episode values
type Series struct {
	Name   string
	Values []float64
}

// Chart renders one line chart per series to an HTML page at path
func Chart(path, title string, series ...Series) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, s := range series {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: s.Name}),
			charts.WithInitializationOpts(opts.Initialization{
				Theme: "shine",
			}),
			charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
		)

		episodes := make([]string, len(s.Values))
		items := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			episodes[i] = fmt.Sprintf("%d", i)
			items[i] = opts.LineData{Value: v}
		}

		line.SetXAxis(episodes).AddSeries(s.Name, items)
		page.AddCharts(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart: could not create file: %v", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("chart: could not render: %v", err)
	}
	return nil
}
