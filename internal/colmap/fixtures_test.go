package colmap

import (
	"encoding/binary"
	"math"
)

// binWriter builds little-endian binary fixtures for decoder tests. The
// file encoders below take the declared record count separately from the
// record list so tests can produce deliberately inconsistent files.
type binWriter struct {
	buf []byte
}

func (w *binWriter) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *binWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *binWriter) i64(v int64) {
	w.u64(uint64(v))
}

func (w *binWriter) i32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *binWriter) f64(v float64) {
	w.u64(math.Float64bits(v))
}

func (w *binWriter) cstr(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

type cameraFixture struct {
	id      int32
	modelID int32
	width   int64
	height  int64
	params  []float64
}

func encodeCamerasFile(declared uint64, cams []cameraFixture) []byte {
	w := &binWriter{}
	w.u64(declared)
	for _, c := range cams {
		w.i32(c.id)
		w.i32(c.modelID)
		w.i64(c.width)
		w.i64(c.height)
		for _, p := range c.params {
			w.f64(p)
		}
	}
	return w.buf
}

func encodeImagesFile(declared uint64, images []Image) []byte {
	w := &binWriter{}
	w.u64(declared)
	for _, img := range images {
		w.i32(img.ID)
		for _, q := range img.QVec {
			w.f64(q)
		}
		for _, t := range img.TVec {
			w.f64(t)
		}
		w.i32(img.CameraID)
		w.cstr(img.Name)
		w.u64(uint64(len(img.XYs)))
		for i, xy := range img.XYs {
			w.f64(xy.X)
			w.f64(xy.Y)
			w.i64(img.Point3DIDs[i])
		}
	}
	return w.buf
}

func encodePointsFile(declared uint64, points []Point3D) []byte {
	w := &binWriter{}
	w.u64(declared)
	for _, pt := range points {
		w.u64(pt.ID)
		for _, v := range pt.XYZ {
			w.f64(v)
		}
		for _, v := range pt.RGB {
			w.u8(v)
		}
		w.f64(pt.Error)
		w.u64(uint64(len(pt.ImageIDs)))
		for i, imageID := range pt.ImageIDs {
			w.i32(imageID)
			w.i32(pt.Point2DIdxs[i])
		}
	}
	return w.buf
}
