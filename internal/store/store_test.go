package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sparse.report/internal/colmap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sparse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testModel() *colmap.Model {
	images := map[int32]colmap.Image{
		1: {
			ID: 1, CameraID: 1, Name: "frame_0001.jpg",
			QVec: [4]float64{1, 0, 0, 0}, TVec: [3]float64{0.5, 0, -2},
			XYs:        []colmap.XY{{X: 10, Y: 20}, {X: 30, Y: 40}},
			Point3DIDs: []int64{7, colmap.NoPoint3D},
		},
		2: {
			ID: 2, CameraID: 1, Name: "frame_0002.jpg",
			QVec: [4]float64{1, 0, 0, 0}, TVec: [3]float64{0, 0, 0},
			XYs:        []colmap.XY{},
			Point3DIDs: []int64{},
		},
	}
	m := &colmap.Model{
		Cameras: map[int32]colmap.Camera{
			1: {ID: 1, Model: "PINHOLE", Width: 1920, Height: 1080, Params: []float64{1000, 1000, 960, 540}},
		},
		Images: images,
		Points: map[uint64]colmap.Point3D{
			7: {ID: 7, XYZ: [3]float64{1, 2, 3}, RGB: [3]uint8{255, 0, 0}, Error: 0.4,
				ImageIDs: []int32{1}, Point2DIdxs: []int32{0}},
			8: {ID: 8, XYZ: [3]float64{-1, -2, -3}, RGB: [3]uint8{0, 255, 0}, Error: 0.8,
				ImageIDs: []int32{}, Point2DIdxs: []int32{}},
		},
	}
	m.Poses = colmap.Poses(m.Images)
	return m
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(1))
}

func TestImportAndQueryModel(t *testing.T) {
	db := openTestDB(t)

	modelID, err := db.ImportModel(testModel(), "/data/run-42")
	require.NoError(t, err)
	require.NotEmpty(t, modelID)

	models, err := db.ListModels()
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "/data/run-42", models[0].Source)
	assert.Equal(t, 1, models[0].NumCameras)
	assert.Equal(t, 2, models[0].NumImages)
	assert.Equal(t, 2, models[0].NumPoints)
	assert.InDelta(t, 0.6, models[0].MeanReprojError, 1e-12)
	assert.Equal(t, [3]float64{-1, -2, -3}, models[0].BoundsMin)
	assert.Equal(t, [3]float64{1, 2, 3}, models[0].BoundsMax)

	got, err := db.GetModel(modelID)
	require.NoError(t, err)
	assert.Equal(t, models[0].ModelID, got.ModelID)

	cams, err := db.Cameras(modelID)
	require.NoError(t, err)
	require.Len(t, cams, 1)
	assert.Equal(t, "PINHOLE", cams[0].Model)
	assert.Equal(t, []float64{1000, 1000, 960, 540}, cams[0].Params)

	imgs, err := db.Images(modelID)
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, int32(1), imgs[0].ImageID)
	assert.Equal(t, "frame_0001.jpg", imgs[0].Name)
	assert.Equal(t, 2, imgs[0].NumPoints2D)
	// Identity rotation: camera centre is -tvec.
	assert.InDelta(t, -0.5, imgs[0].Position[0], 1e-12)
	assert.InDelta(t, 2.0, imgs[0].Position[2], 1e-12)

	pts, err := db.Points(modelID, 0)
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, uint64(7), pts[0].Point3DID)
	assert.Equal(t, 1, pts[0].TrackLength)
	assert.Equal(t, 0, pts[1].TrackLength)

	limited, err := db.Points(modelID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteModelCascades(t *testing.T) {
	db := openTestDB(t)

	modelID, err := db.ImportModel(testModel(), "run")
	require.NoError(t, err)

	require.NoError(t, db.DeleteModel(modelID))

	_, err = db.GetModel(modelID)
	assert.True(t, errors.Is(err, sql.ErrNoRows), "expected ErrNoRows, got %v", err)

	cams, err := db.Cameras(modelID)
	require.NoError(t, err)
	assert.Empty(t, cams)

	pts, err := db.Points(modelID, 0)
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestDeleteMissingModel(t *testing.T) {
	db := openTestDB(t)
	err := db.DeleteModel("no-such-model")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestImportEmptyModel(t *testing.T) {
	db := openTestDB(t)

	m := &colmap.Model{
		Cameras: map[int32]colmap.Camera{},
		Images:  map[int32]colmap.Image{},
		Points:  map[uint64]colmap.Point3D{},
	}
	modelID, err := db.ImportModel(m, "empty")
	require.NoError(t, err)

	got, err := db.GetModel(modelID)
	require.NoError(t, err)
	assert.Zero(t, got.NumPoints)
}
