package colmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrustumPinhole(t *testing.T) {
	cam := Camera{
		ID:     1,
		Model:  "PINHOLE",
		Width:  1920,
		Height: 1080,
		Params: []float64{1000, 1000, 960, 540},
	}

	mesh, err := Frustum(cam, 2.0)
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 5)
	require.Len(t, mesh.Edges, 8)

	assert.Equal(t, [3]float64{0, 0, 0}, mesh.Vertices[0], "apex at optical centre")

	// Top-left corner: (0-960)/1000*2, (0-540)/1000*2, 2.
	assert.InDelta(t, -1.92, mesh.Vertices[1][0], 1e-12)
	assert.InDelta(t, -1.08, mesh.Vertices[1][1], 1e-12)
	assert.InDelta(t, 2.0, mesh.Vertices[1][2], 1e-12)

	// Bottom-right corner mirrors it through the principal point.
	assert.InDelta(t, 1.92, mesh.Vertices[3][0], 1e-12)
	assert.InDelta(t, 1.08, mesh.Vertices[3][1], 1e-12)
}

func TestFrustumSimplePinholeSharedFocal(t *testing.T) {
	cam := Camera{
		ID:     2,
		Model:  "SIMPLE_PINHOLE",
		Width:  640,
		Height: 480,
		Params: []float64{500, 320, 240},
	}

	mesh, err := Frustum(cam, 1.0)
	require.NoError(t, err)

	// f serves both axes: corners at ±(320/500), ±(240/500).
	assert.InDelta(t, -0.64, mesh.Vertices[1][0], 1e-12)
	assert.InDelta(t, -0.48, mesh.Vertices[1][1], 1e-12)
}

func TestFrustumShortParams(t *testing.T) {
	// A hand-built camera with fewer params than its model requires must
	// error rather than index past the slice.
	cam := Camera{
		ID:     4,
		Model:  "PINHOLE",
		Width:  1920,
		Height: 1080,
		Params: []float64{1000, 1000},
	}

	_, err := Frustum(cam, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestFrustumUnsupportedModel(t *testing.T) {
	cam := Camera{
		ID:     3,
		Model:  "OPENCV_FISHEYE",
		Width:  1000,
		Height: 1000,
		Params: []float64{400, 400, 500, 500, 0.1, 0.1, 0.1, 0.1},
	}

	_, err := Frustum(cam, 1.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}
