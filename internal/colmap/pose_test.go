package colmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraPoseIdentity(t *testing.T) {
	img := Image{
		ID:   1,
		QVec: [4]float64{1, 0, 0, 0},
		TVec: [3]float64{0, 0, 0},
	}

	pose := CameraPose(img)

	assert.Equal(t, [3]float64{0, 0, 0}, pose.Position)
	identity := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i := range identity {
		assert.InDelta(t, identity[i], pose.Rotation[i], 1e-12, "rotation element %d", i)
	}
}

func TestCameraPoseTranslationOnly(t *testing.T) {
	// With an identity rotation the camera centre is just -t.
	img := Image{
		ID:   2,
		QVec: [4]float64{1, 0, 0, 0},
		TVec: [3]float64{1.5, -2, 0.25},
	}

	pose := CameraPose(img)

	assert.InDelta(t, -1.5, pose.Position[0], 1e-12)
	assert.InDelta(t, 2.0, pose.Position[1], 1e-12)
	assert.InDelta(t, -0.25, pose.Position[2], 1e-12)
}

func TestCameraPoseQuarterTurn(t *testing.T) {
	// 90° about +Z, world→camera. The camera-to-world rotation must be the
	// transpose, and the centre -Rᵀ·t.
	s := math.Sqrt(2) / 2
	img := Image{
		ID:   3,
		QVec: [4]float64{s, 0, 0, s},
		TVec: [3]float64{1, 0, 0},
	}

	pose := CameraPose(img)

	wantRot := [9]float64{
		0, 1, 0,
		-1, 0, 0,
		0, 0, 1,
	}
	for i := range wantRot {
		assert.InDelta(t, wantRot[i], pose.Rotation[i], 1e-12, "rotation element %d", i)
	}
	assert.InDelta(t, 0, pose.Position[0], 1e-12)
	assert.InDelta(t, 1, pose.Position[1], 1e-12)
	assert.InDelta(t, 0, pose.Position[2], 1e-12)
}

func TestPosesSortedByImageID(t *testing.T) {
	images := map[int32]Image{
		7: {ID: 7, Name: "c.jpg", QVec: [4]float64{1, 0, 0, 0}},
		2: {ID: 2, Name: "a.jpg", QVec: [4]float64{1, 0, 0, 0}},
		5: {ID: 5, Name: "b.jpg", QVec: [4]float64{1, 0, 0, 0}},
	}

	poses := Poses(images)

	require.Len(t, poses, 3)
	assert.Equal(t, int32(2), poses[0].ImageID)
	assert.Equal(t, int32(5), poses[1].ImageID)
	assert.Equal(t, int32(7), poses[2].ImageID)
	assert.Equal(t, "a.jpg", poses[0].Name)
}
