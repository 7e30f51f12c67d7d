package fetch

import (
	"context"
	"sync"

	"github.com/banshee-data/sparse.report/internal/colmap"
	"github.com/banshee-data/sparse.report/internal/monitoring"
)

// Loader fetches the three files of a sparse model and decodes them into a
// colmap.Model. The load is all-or-nothing: a failed fetch or decode of any
// file fails the whole load, and the first failure cancels the others.
type Loader struct {
	Fetcher Fetcher

	// OnProgress, if set, receives the aggregate fetch fraction in [0,1]:
	// bytes loaded summed across all three files over their summed totals.
	// Files whose total is still unknown contribute loaded bytes only once
	// their total arrives.
	OnProgress func(frac float64)
}

// modelFiles lists the three files of a sparse model in their conventional
// naming. Fetch order is not significant; all three must succeed.
var modelFiles = [3]string{colmap.FileCameras, colmap.FileImages, colmap.FilePoints3D}

// progressSum aggregates per-file byte progress by summation.
type progressSum struct {
	mu     sync.Mutex
	loaded [len(modelFiles)]int64
	total  [len(modelFiles)]int64
	report func(frac float64)
}

func (p *progressSum) update(idx int, loaded, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded[idx] = loaded
	p.total[idx] = total

	var sumLoaded, sumTotal int64
	for i := range p.total {
		if p.total[i] > 0 {
			sumLoaded += p.loaded[i]
			sumTotal += p.total[i]
		}
	}
	if sumTotal > 0 && p.report != nil {
		p.report(float64(sumLoaded) / float64(sumTotal))
	}
}

// Load fetches all three files concurrently, then runs the three decoders
// concurrently over the fetched buffers, and assembles the model with its
// derived poses.
func (l *Loader) Load(ctx context.Context) (*colmap.Model, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := &progressSum{report: l.OnProgress}

	var (
		wg   sync.WaitGroup
		bufs [len(modelFiles)][]byte
		errs [len(modelFiles)]error
	)
	for i, name := range modelFiles {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			bufs[i], errs[i] = l.Fetcher.Fetch(ctx, name, func(loaded, total int64) {
				prog.update(i, loaded, total)
			})
			if errs[i] != nil {
				cancel()
			}
		}(i, name)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// All three buffers are in hand; the decoders are pure and independent,
	// so run them in parallel too.
	model := &colmap.Model{}
	var decodeErrs [len(modelFiles)]error
	wg.Add(3)
	go func() {
		defer wg.Done()
		model.Cameras, decodeErrs[0] = colmap.DecodeCameras(bufs[0])
	}()
	go func() {
		defer wg.Done()
		model.Images, decodeErrs[1] = colmap.DecodeImages(bufs[1])
	}()
	go func() {
		defer wg.Done()
		model.Points, decodeErrs[2] = colmap.DecodePoints3D(bufs[2])
	}()
	wg.Wait()
	for _, err := range decodeErrs {
		if err != nil {
			return nil, err
		}
	}

	model.Poses = colmap.Poses(model.Images)
	monitoring.Logf("loaded sparse model: %d cameras, %d images, %d points",
		len(model.Cameras), len(model.Images), len(model.Points))
	return model, nil
}
