// Command plot-model renders a top-down PNG of a sparse model: the point
// cloud plus the derived camera centres. Useful for a quick visual sanity
// check of a reconstruction without starting the server.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/sparse.report/internal/fetch"
)

var (
	source = flag.String("model", "", "model directory or base URL (required)")
	output = flag.String("o", "model.png", "output PNG path")
)

func main() {
	flag.Parse()
	if *source == "" {
		log.Fatal("-model is required")
	}

	loader := &fetch.Loader{Fetcher: fetch.NewFetcher(*source)}
	model, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	p := plot.New()
	p.Title.Text = "Sparse Model (Top-Down)"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Z"

	cloud := make(plotter.XYs, 0, len(model.Points))
	for _, pt := range model.Points {
		cloud = append(cloud, plotter.XY{X: pt.XYZ[0], Y: pt.XYZ[2]})
	}
	cloudScatter, err := plotter.NewScatter(cloud)
	if err != nil {
		log.Fatalf("failed to build point scatter: %v", err)
	}
	cloudScatter.Radius = vg.Points(0.5)
	cloudScatter.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(cloudScatter)
	p.Legend.Add("points", cloudScatter)

	centres := make(plotter.XYs, 0, len(model.Poses))
	for _, pose := range model.Poses {
		centres = append(centres, plotter.XY{X: pose.Position[0], Y: pose.Position[2]})
	}
	camScatter, err := plotter.NewScatter(centres)
	if err != nil {
		log.Fatalf("failed to build camera scatter: %v", err)
	}
	camScatter.Radius = vg.Points(3)
	camScatter.Color = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	p.Add(camScatter)
	p.Legend.Add("cameras", camScatter)

	if err := p.Save(10*vg.Inch, 10*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("✓ Created: %s (%d points, %d cameras)", *output, len(cloud), len(centres))
}
