package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bustrack-visualizer/trajectory"
)

// WritePassengerChart renders an HTML line chart of the passenger label of
// every point in t, oldest first.
func WritePassengerChart(w io.Writer, vehicleID string, t trajectory.Trajectory) error {
	x := make([]string, len(t))
	y := make([]opts.LineData, len(t))
	for i, p := range t {
		x[i] = strconv.Itoa(i + 1)
		n, err := strconv.Atoi(p.Label)
		if err != nil {
			return fmt.Errorf("point %d label %q: %w", i, p.Label, err)
		}
		y[i] = opts.LineData{Value: n}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Passengers " + vehicleID, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Passengers", Subtitle: fmt.Sprintf("vehicle=%s samples=%d", vehicleID, len(t))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sample", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Passengers", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(x).AddSeries(vehicleID, y, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return line.Render(w)
}
