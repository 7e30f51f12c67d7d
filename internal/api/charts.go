package api

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Debug chart endpoints rendered with go-echarts. These are inspection
// views (no auth) for eyeballing a decoded model without a frontend: a
// top-down scatter of the point cloud, a reprojection error histogram, and
// the derived camera centres.

const maxChartPoints = 8000

// chartPoints renders a top-down (X/Z) scatter of the sparse cloud,
// coloured by reprojection error.
func (s *Server) chartPoints(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("id")

	maxPoints := maxChartPoints
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	pts, err := s.db.Points(modelID, 0)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load points: %v", err))
		return
	}
	if len(pts) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no points for model")
		return
	}

	// Downsample by stride to stay within maxPoints
	stride := 1
	if len(pts) > maxPoints {
		stride = int(math.Ceil(float64(len(pts)) / float64(maxPoints)))
	}

	data := make([]opts.ScatterData, 0, len(pts)/stride+1)
	maxAbs := 0.0
	maxErr := 0.0
	for i := 0; i < len(pts); i += stride {
		p := pts[i]
		x, z := p.XYZ[0], p.XYZ[2]
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(x), math.Abs(z)))
		maxErr = math.Max(maxErr, p.ReprojError)
		data = append(data, opts.ScatterData{Value: []interface{}{x, z, p.ReprojError}})
	}

	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxErr == 0 {
		maxErr = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sparse Cloud (Top-Down)", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sparse Point Cloud", Subtitle: fmt.Sprintf("model=%s points=%d stride=%d", modelID, len(data), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Z", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxErr),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("points", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	s.renderChart(w, scatter)
}

// chartErrors renders a histogram of per-point reprojection errors.
func (s *Server) chartErrors(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("id")

	pts, err := s.db.Points(modelID, 0)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load points: %v", err))
		return
	}
	if len(pts) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no points for model")
		return
	}

	maxErr := 0.0
	for _, p := range pts {
		maxErr = math.Max(maxErr, p.ReprojError)
	}
	if maxErr == 0 {
		maxErr = 1
	}

	const bins = 40
	counts := make([]int, bins)
	labels := make([]string, bins)
	width := maxErr / bins
	for _, p := range pts {
		bin := int(p.ReprojError / width)
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}
	barData := make([]opts.BarData, bins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.2f", float64(i)*width)
		barData[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Reprojection Error", Theme: "dark", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Reprojection Error Histogram", Subtitle: fmt.Sprintf("model=%s points=%d", modelID, len(pts))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "error (px)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "points"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("points", barData)

	s.renderChart(w, bar)
}

// chartCameras renders the derived world-space camera centres, top-down.
func (s *Server) chartCameras(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("id")

	imgs, err := s.db.Images(modelID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load images: %v", err))
		return
	}
	if len(imgs) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no images for model")
		return
	}

	data := make([]opts.ScatterData, 0, len(imgs))
	maxAbs := 0.0
	for _, im := range imgs {
		x, z := im.Position[0], im.Position[2]
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(x), math.Abs(z)))
		data = append(data, opts.ScatterData{Value: []interface{}{x, z}, Name: im.Name})
	}
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Camera Centres", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Derived Camera Centres", Subtitle: fmt.Sprintf("model=%s images=%d", modelID, len(imgs))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Z", NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("cameras", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	s.renderChart(w, scatter)
}

type renderable interface {
	Render(w io.Writer) error
}

func (s *Server) renderChart(w http.ResponseWriter, chart renderable) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
