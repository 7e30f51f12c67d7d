// Package colmap decodes the binary sparse reconstruction output of COLMAP:
// cameras.bin, images.bin and points3D.bin.
//
// The three decoders are pure (buffer in, map out), independent of one
// another and safe to run concurrently over independent buffers. Byte
// layouts are documented next to each decoder; all multi-byte fields are
// little-endian.
package colmap

import "math"

// Model is a fully decoded sparse reconstruction: the three id-keyed record
// maps plus the derived world-space camera poses.
type Model struct {
	Cameras map[int32]Camera
	Images  map[int32]Image
	Points  map[uint64]Point3D
	Poses   []Pose
}

// Summary holds aggregate statistics over a decoded model, as persisted and
// served by the API layer.
type Summary struct {
	NumCameras    int
	NumImages     int
	NumPoints     int
	MeanReprojErr float64
	TotalTrackObs int
	BoundsMin     [3]float64
	BoundsMax     [3]float64
}

// Summarise computes aggregate statistics over a model. Bounds are zero for
// an empty point cloud.
func (m *Model) Summarise() Summary {
	s := Summary{
		NumCameras: len(m.Cameras),
		NumImages:  len(m.Images),
		NumPoints:  len(m.Points),
	}
	if len(m.Points) == 0 {
		return s
	}

	for a := 0; a < 3; a++ {
		s.BoundsMin[a] = math.Inf(1)
		s.BoundsMax[a] = math.Inf(-1)
	}
	var errSum float64
	for _, pt := range m.Points {
		errSum += pt.Error
		s.TotalTrackObs += len(pt.ImageIDs)
		for a := 0; a < 3; a++ {
			s.BoundsMin[a] = math.Min(s.BoundsMin[a], pt.XYZ[a])
			s.BoundsMax[a] = math.Max(s.BoundsMax[a], pt.XYZ[a])
		}
	}
	s.MeanReprojErr = errSum / float64(len(m.Points))
	return s
}
