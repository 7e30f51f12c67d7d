package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/sparse.report/internal/colmap"
)

// ModelRecord is the persisted summary of one imported sparse model.
type ModelRecord struct {
	ModelID           string     `json:"model_id"`
	Source            string     `json:"source"`
	NumCameras        int        `json:"num_cameras"`
	NumImages         int        `json:"num_images"`
	NumPoints         int        `json:"num_points"`
	MeanReprojError   float64    `json:"mean_reproj_error"`
	TrackObservations int        `json:"track_observations"`
	BoundsMin         [3]float64 `json:"bounds_min"`
	BoundsMax         [3]float64 `json:"bounds_max"`

	// ImportedAt is unix nanoseconds.
	ImportedAt int64 `json:"imported_at"`
}

// CameraRecord is one persisted camera row.
type CameraRecord struct {
	CameraID int32     `json:"camera_id"`
	Model    string    `json:"model"`
	Width    int64     `json:"width"`
	Height   int64     `json:"height"`
	Params   []float64 `json:"params"`
}

// ImageRecord is one persisted image row, stored transform plus the derived
// world-space camera centre.
type ImageRecord struct {
	ImageID     int32      `json:"image_id"`
	CameraID    int32      `json:"camera_id"`
	Name        string     `json:"name"`
	QVec        [4]float64 `json:"qvec"`
	TVec        [3]float64 `json:"tvec"`
	Position    [3]float64 `json:"position"`
	NumPoints2D int        `json:"num_points2d"`
}

// PointRecord is one persisted sparse point row. Tracks are summarised to
// their length; full per-observation rows are not stored.
type PointRecord struct {
	Point3DID   uint64     `json:"point3d_id"`
	XYZ         [3]float64 `json:"xyz"`
	RGB         [3]uint8   `json:"rgb"`
	ReprojError float64    `json:"reproj_error"`
	TrackLength int        `json:"track_length"`
}

// ImportModel persists a decoded model in a single transaction and returns
// the generated model id. A failed import leaves no partial rows behind.
func (db *DB) ImportModel(model *colmap.Model, source string) (string, error) {
	modelID := uuid.New().String()
	summary := model.Summarise()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sparse_models (
			model_id, source, num_cameras, num_images, num_points,
			mean_reproj_error, track_observations,
			bounds_min_x, bounds_min_y, bounds_min_z,
			bounds_max_x, bounds_max_y, bounds_max_z, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		modelID, source, summary.NumCameras, summary.NumImages, summary.NumPoints,
		summary.MeanReprojErr, summary.TotalTrackObs,
		summary.BoundsMin[0], summary.BoundsMin[1], summary.BoundsMin[2],
		summary.BoundsMax[0], summary.BoundsMax[1], summary.BoundsMax[2],
		time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert model summary: %w", err)
	}

	camStmt, err := tx.Prepare(`
		INSERT INTO sparse_cameras (model_id, camera_id, model, width, height, params_json)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare camera insert: %w", err)
	}
	defer camStmt.Close()
	for _, cam := range sortedCameras(model.Cameras) {
		params, err := json.Marshal(cam.Params)
		if err != nil {
			return "", fmt.Errorf("marshal params for camera %d: %w", cam.ID, err)
		}
		if _, err := camStmt.Exec(modelID, cam.ID, cam.Model, cam.Width, cam.Height, string(params)); err != nil {
			return "", fmt.Errorf("insert camera %d: %w", cam.ID, err)
		}
	}

	imgStmt, err := tx.Prepare(`
		INSERT INTO sparse_images (
			model_id, image_id, camera_id, name,
			qw, qx, qy, qz, tx, ty, tz,
			pos_x, pos_y, pos_z, num_points2d
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare image insert: %w", err)
	}
	defer imgStmt.Close()
	for _, pose := range model.Poses {
		img := model.Images[pose.ImageID]
		_, err := imgStmt.Exec(modelID, img.ID, img.CameraID, img.Name,
			img.QVec[0], img.QVec[1], img.QVec[2], img.QVec[3],
			img.TVec[0], img.TVec[1], img.TVec[2],
			pose.Position[0], pose.Position[1], pose.Position[2],
			len(img.XYs))
		if err != nil {
			return "", fmt.Errorf("insert image %d: %w", img.ID, err)
		}
	}

	ptStmt, err := tx.Prepare(`
		INSERT INTO sparse_points (
			model_id, point3d_id, x, y, z, r, g, b, reproj_error, track_length
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare point insert: %w", err)
	}
	defer ptStmt.Close()
	for _, pt := range model.Points {
		_, err := ptStmt.Exec(modelID, pt.ID,
			pt.XYZ[0], pt.XYZ[1], pt.XYZ[2],
			pt.RGB[0], pt.RGB[1], pt.RGB[2],
			pt.Error, len(pt.ImageIDs))
		if err != nil {
			return "", fmt.Errorf("insert point %d: %w", pt.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return modelID, nil
}

func sortedCameras(cameras map[int32]colmap.Camera) []colmap.Camera {
	out := make([]colmap.Camera, 0, len(cameras))
	for _, cam := range cameras {
		out = append(out, cam)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

const modelColumns = `
	model_id, source, num_cameras, num_images, num_points,
	mean_reproj_error, track_observations,
	bounds_min_x, bounds_min_y, bounds_min_z,
	bounds_max_x, bounds_max_y, bounds_max_z,
	imported_at`

func scanModel(row interface{ Scan(...any) error }) (ModelRecord, error) {
	var m ModelRecord
	err := row.Scan(&m.ModelID, &m.Source, &m.NumCameras, &m.NumImages, &m.NumPoints,
		&m.MeanReprojError, &m.TrackObservations,
		&m.BoundsMin[0], &m.BoundsMin[1], &m.BoundsMin[2],
		&m.BoundsMax[0], &m.BoundsMax[1], &m.BoundsMax[2],
		&m.ImportedAt)
	return m, err
}

// ListModels returns all imported models, most recent first.
func (db *DB) ListModels() ([]ModelRecord, error) {
	rows, err := db.Query(`SELECT` + modelColumns + ` FROM sparse_models ORDER BY imported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var models []ModelRecord
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// GetModel returns one model summary. sql.ErrNoRows is passed through so
// callers can map it to a 404.
func (db *DB) GetModel(modelID string) (ModelRecord, error) {
	row := db.QueryRow(`SELECT`+modelColumns+` FROM sparse_models WHERE model_id = ?`, modelID)
	m, err := scanModel(row)
	if err != nil {
		return ModelRecord{}, fmt.Errorf("get model %s: %w", modelID, err)
	}
	return m, nil
}

// Cameras returns the cameras of a model in id order.
func (db *DB) Cameras(modelID string) ([]CameraRecord, error) {
	rows, err := db.Query(`
		SELECT camera_id, model, width, height, params_json
		FROM sparse_cameras WHERE model_id = ? ORDER BY camera_id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("list cameras: %w", err)
	}
	defer rows.Close()

	var cams []CameraRecord
	for rows.Next() {
		var c CameraRecord
		var paramsJSON string
		if err := rows.Scan(&c.CameraID, &c.Model, &c.Width, &c.Height, &paramsJSON); err != nil {
			return nil, fmt.Errorf("scan camera row: %w", err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &c.Params); err != nil {
			return nil, fmt.Errorf("unmarshal params for camera %d: %w", c.CameraID, err)
		}
		cams = append(cams, c)
	}
	return cams, rows.Err()
}

// Images returns the images of a model in id order, including the derived
// world-space camera centres computed at import time.
func (db *DB) Images(modelID string) ([]ImageRecord, error) {
	rows, err := db.Query(`
		SELECT image_id, camera_id, name, qw, qx, qy, qz, tx, ty, tz,
		       pos_x, pos_y, pos_z, num_points2d
		FROM sparse_images WHERE model_id = ? ORDER BY image_id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var imgs []ImageRecord
	for rows.Next() {
		var im ImageRecord
		err := rows.Scan(&im.ImageID, &im.CameraID, &im.Name,
			&im.QVec[0], &im.QVec[1], &im.QVec[2], &im.QVec[3],
			&im.TVec[0], &im.TVec[1], &im.TVec[2],
			&im.Position[0], &im.Position[1], &im.Position[2],
			&im.NumPoints2D)
		if err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		imgs = append(imgs, im)
	}
	return imgs, rows.Err()
}

// Points returns up to limit points of a model in id order. limit <= 0
// returns all points.
func (db *DB) Points(modelID string, limit int) ([]PointRecord, error) {
	q := `
		SELECT point3d_id, x, y, z, r, g, b, reproj_error, track_length
		FROM sparse_points WHERE model_id = ? ORDER BY point3d_id`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(q+` LIMIT ?`, modelID, limit)
	} else {
		rows, err = db.Query(q, modelID)
	}
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	defer rows.Close()

	var pts []PointRecord
	for rows.Next() {
		var p PointRecord
		err := rows.Scan(&p.Point3DID,
			&p.XYZ[0], &p.XYZ[1], &p.XYZ[2],
			&p.RGB[0], &p.RGB[1], &p.RGB[2],
			&p.ReprojError, &p.TrackLength)
		if err != nil {
			return nil, fmt.Errorf("scan point row: %w", err)
		}
		pts = append(pts, p)
	}
	return pts, rows.Err()
}

// DeleteModel removes a model and, via cascading foreign keys, all of its
// camera, image and point rows.
func (db *DB) DeleteModel(modelID string) error {
	res, err := db.Exec(`DELETE FROM sparse_models WHERE model_id = ?`, modelID)
	if err != nil {
		return fmt.Errorf("delete model %s: %w", modelID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
