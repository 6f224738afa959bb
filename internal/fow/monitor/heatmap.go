package monitor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/fogofwar/internal/fow"
)

// echartsAssetsHost serves the ECharts script referenced by rendered pages.
const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

var degreePalette = []string{"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"}

// RenderDegreeHeatmap writes an HTML heatmap of a team grid's visibility
// degree. Cells that were never seen are left out.
func RenderDegreeHeatmap(w io.Writer, snap fow.GridSnapshot) error {
	xs := make([]string, snap.Width)
	for i := range xs {
		xs[i] = strconv.Itoa(i)
	}
	ys := make([]string, snap.Height)
	for i := range ys {
		ys[i] = strconv.Itoa(i)
	}

	data := make([]opts.HeatMapData, 0, len(snap.Degree))
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			flags, degree := snap.At(x, y)
			if flags&fow.FlagWasVisible == 0 {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, degree}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Visibility degree", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Team %d visibility", snap.Team), Subtitle: fmt.Sprintf("%dx%d cells, %d seen", snap.Width, snap.Height, len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "cell x", SplitArea: &opts.SplitArea{Show: opts.Bool(false)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "cell y", Data: ys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(fow.ReportedMaxDegree),
			InRange:    &opts.VisualMapInRange{Color: degreePalette},
		}),
	)
	hm.SetXAxis(xs).AddSeries("degree", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	return nil
}
