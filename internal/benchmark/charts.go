package benchmark

import (
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderErrorPlot writes a PNG bar chart of the maximum reprojection error of
// each sweep combination.
func RenderErrorPlot(w io.Writer, results []SweepResult) error {
	if len(results) == 0 {
		return fmt.Errorf("no sweep results to plot")
	}

	values := make(plotter.Values, len(results))
	labels := make([]string, len(results))
	for i, r := range results {
		values[i] = r.MaxErrorPx
		labels[i] = r.Label()
	}

	p := plot.New()
	p.Title.Text = "Reprojection Error by Orientation and Fit"
	p.X.Label.Text = "Combination"
	p.Y.Label.Text = "Max error (px)"

	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1

	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render error plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write error plot: %w", err)
	}
	return nil
}

// latencyHistogram buckets samples into n equal-width bins between the
// fastest and slowest sample.
func latencyHistogram(samples []time.Duration, n int) ([]string, []int) {
	if len(samples) == 0 || n < 1 {
		return nil, nil
	}
	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	width := (hi - lo) / time.Duration(n)
	if width <= 0 {
		return []string{lo.String()}, []int{len(samples)}
	}

	counts := make([]int, n)
	for _, s := range samples {
		i := int((s - lo) / width)
		if i >= n {
			i = n - 1
		}
		counts[i]++
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = (lo + time.Duration(i)*width).Round(time.Microsecond / 10).String()
	}
	return labels, counts
}

// WriteLatencyChart renders an HTML page with the latency distribution and
// the per-combination reprojection error.
func WriteLatencyChart(w io.Writer, r *Report) error {
	labels, counts := latencyHistogram(r.Latency.Samples, 20)
	latData := make([]opts.BarData, len(counts))
	for i, c := range counts {
		latData[i] = opts.BarData{Value: c}
	}

	lat := charts.NewBar()
	lat.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Overlay Benchmark", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Frame Mapping Latency",
			Subtitle: fmt.Sprintf("run=%s mean=%v p95=%v", r.RunID, r.Latency.Mean, r.Latency.P95),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Latency", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frames"}),
	)
	lat.SetXAxis(labels).AddSeries("frames", latData)

	errLabels := make([]string, len(r.Sweep))
	errData := make([]opts.BarData, len(r.Sweep))
	for i, s := range r.Sweep {
		errLabels[i] = s.Label()
		errData[i] = opts.BarData{Value: s.MaxErrorPx}
	}

	errs := charts.NewBar()
	errs.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Reprojection Error", Subtitle: r.Timestamp.Format(time.RFC3339)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Max error (px)"}),
	)
	errs.SetXAxis(errLabels).AddSeries("max_error_px", errData)

	page := components.NewPage()
	page.AddCharts(lat, errs)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render latency chart: %w", err)
	}
	return nil
}
