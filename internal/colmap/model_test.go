package colmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarise(t *testing.T) {
	m := &Model{
		Cameras: map[int32]Camera{1: {ID: 1}},
		Images:  map[int32]Image{1: {ID: 1}, 2: {ID: 2}},
		Points: map[uint64]Point3D{
			1: {ID: 1, XYZ: [3]float64{-1, 0, 5}, Error: 0.5, ImageIDs: []int32{1, 2}, Point2DIdxs: []int32{0, 1}},
			2: {ID: 2, XYZ: [3]float64{3, 2, -4}, Error: 1.5, ImageIDs: []int32{1}, Point2DIdxs: []int32{9}},
		},
	}

	s := m.Summarise()

	assert.Equal(t, 1, s.NumCameras)
	assert.Equal(t, 2, s.NumImages)
	assert.Equal(t, 2, s.NumPoints)
	assert.Equal(t, 3, s.TotalTrackObs)
	assert.InDelta(t, 1.0, s.MeanReprojErr, 1e-12)
	assert.Equal(t, [3]float64{-1, 0, -4}, s.BoundsMin)
	assert.Equal(t, [3]float64{3, 2, 5}, s.BoundsMax)
}

func TestSummariseEmpty(t *testing.T) {
	m := &Model{}
	s := m.Summarise()

	assert.Zero(t, s.NumPoints)
	assert.Zero(t, s.MeanReprojErr)
	assert.Equal(t, [3]float64{}, s.BoundsMin)
}
