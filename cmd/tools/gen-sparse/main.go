// Command gen-sparse generates a synthetic sparse model directory
// (cameras.bin, images.bin, points3D.bin) for testing the loader and API
// without a real reconstruction run.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/banshee-data/sparse.report/internal/colmap"
)

var (
	output    = flag.String("o", "sparse-model", "output directory")
	numImages = flag.Int("images", 20, "number of posed images")
	numPoints = flag.Int("points", 5000, "number of sparse points")
	seed      = flag.Int64("seed", 1, "RNG seed")
)

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) i32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) cstr(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

func main() {
	flag.Parse()
	if *numImages < 2 {
		log.Fatal("at least 2 images are required so every point has a two-view track")
	}
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*output, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// One shared PINHOLE camera.
	cams := &writer{}
	cams.u64(1)
	cams.i32(1)
	cams.i32(1) // PINHOLE
	cams.i64(1920)
	cams.i64(1080)
	for _, p := range []float64{1000, 1000, 960, 540} {
		cams.f64(p)
	}

	// Points in a box around the origin, each observed by two images.
	type obs struct {
		imageID int32
		idx     int32
	}
	tracks := make(map[uint64][]obs)
	imageKeypoints := make([][]uint64, *numImages)
	for p := 0; p < *numPoints; p++ {
		id := uint64(p + 1)
		a := rng.Intn(*numImages)
		b := (a + 1 + rng.Intn(*numImages-1)) % *numImages
		for _, imgIdx := range []int{a, b} {
			tracks[id] = append(tracks[id], obs{
				imageID: int32(imgIdx + 1),
				idx:     int32(len(imageKeypoints[imgIdx])),
			})
			imageKeypoints[imgIdx] = append(imageKeypoints[imgIdx], id)
		}
	}

	// Images on a ring around the cloud, world-to-camera rotation about Y.
	imgs := &writer{}
	imgs.u64(uint64(*numImages))
	for i := 0; i < *numImages; i++ {
		angle := 2 * math.Pi * float64(i) / float64(*numImages)
		imgs.i32(int32(i + 1))
		imgs.f64(math.Cos(angle / 2)) // qw
		imgs.f64(0)
		imgs.f64(math.Sin(angle / 2)) // qy
		imgs.f64(0)
		imgs.f64(0)
		imgs.f64(0)
		imgs.f64(8) // camera sits 8 units out after rotation
		imgs.i32(1)
		imgs.cstr(fmt.Sprintf("frame_%04d.jpg", i+1))
		imgs.u64(uint64(len(imageKeypoints[i])))
		for _, pid := range imageKeypoints[i] {
			imgs.f64(rng.Float64() * 1920)
			imgs.f64(rng.Float64() * 1080)
			imgs.i64(int64(pid))
		}
	}

	pts := &writer{}
	pts.u64(uint64(*numPoints))
	for p := 0; p < *numPoints; p++ {
		id := uint64(p + 1)
		pts.u64(id)
		for a := 0; a < 3; a++ {
			pts.f64(rng.Float64()*4 - 2)
		}
		pts.u8(uint8(rng.Intn(256)))
		pts.u8(uint8(rng.Intn(256)))
		pts.u8(uint8(rng.Intn(256)))
		pts.f64(rng.Float64() * 2)
		track := tracks[id]
		pts.u64(uint64(len(track)))
		for _, o := range track {
			pts.i32(o.imageID)
			pts.i32(o.idx)
		}
	}

	files := map[string][]byte{
		colmap.FileCameras:  cams.buf,
		colmap.FileImages:   imgs.buf,
		colmap.FilePoints3D: pts.buf,
	}
	for name, data := range files {
		path := filepath.Join(*output, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		log.Printf("%s: %d bytes", path, len(data))
	}
	log.Printf("✓ Created: %s (%d images, %d points)", *output, *numImages, *numPoints)
}
