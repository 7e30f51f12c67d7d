package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/sparse.report/internal/colmap"
	"github.com/banshee-data/sparse.report/internal/fetch"
	"github.com/banshee-data/sparse.report/internal/store"
)

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.db.ListModels()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list models: %v", err))
		return
	}
	if models == nil {
		models = []store.ModelRecord{}
	}
	s.writeJSON(w, models)
}

type importRequest struct {
	// Source is a local model directory or an HTTP base URL containing
	// cameras.bin, images.bin and points3D.bin.
	Source string `json:"source"`
}

type importResponse struct {
	ModelID string `json:"model_id"`
}

func (s *Server) importModel(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing 'source'")
		return
	}

	loader := &fetch.Loader{Fetcher: s.newFetcher(req.Source)}
	model, err := loader.Load(r.Context())
	if err != nil {
		// Decode and fetch failures are the caller's problem, not ours:
		// the source was unreadable or not a valid sparse model.
		s.writeJSONError(w, http.StatusUnprocessableEntity, fmt.Sprintf("failed to load model: %v", err))
		return
	}

	modelID, err := s.db.ImportModel(model, req.Source)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store model: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(importResponse{ModelID: modelID})
}

func (s *Server) getModel(w http.ResponseWriter, r *http.Request) {
	model, err := s.db.GetModel(r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, "model not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get model: %v", err))
		return
	}
	s.writeJSON(w, model)
}

func (s *Server) deleteModel(w http.ResponseWriter, r *http.Request) {
	err := s.db.DeleteModel(r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		s.writeJSONError(w, http.StatusNotFound, "model not found")
		return
	}
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete model: %v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCameras(w http.ResponseWriter, r *http.Request) {
	cams, err := s.db.Cameras(r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list cameras: %v", err))
		return
	}
	if cams == nil {
		cams = []store.CameraRecord{}
	}
	s.writeJSON(w, cams)
}

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	imgs, err := s.db.Images(r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list images: %v", err))
		return
	}
	if imgs == nil {
		imgs = []store.ImageRecord{}
	}
	s.writeJSON(w, imgs)
}

func (s *Server) listPoints(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	pts, err := s.db.Points(r.PathValue("id"), limit)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list points: %v", err))
		return
	}
	if pts == nil {
		pts = []store.PointRecord{}
	}
	s.writeJSON(w, pts)
}

// cameraFrustum builds wireframe frustum geometry for one stored camera.
// Only pinhole-family models are supported; anything else is a 422.
func (s *Server) cameraFrustum(w http.ResponseWriter, r *http.Request) {
	cameraID, err := strconv.ParseInt(r.URL.Query().Get("camera_id"), 10, 32)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid 'camera_id' parameter")
		return
	}

	depth := 1.0
	if d := r.URL.Query().Get("depth"); d != "" {
		depth, err = strconv.ParseFloat(d, 64)
		if err != nil || depth <= 0 {
			s.writeJSONError(w, http.StatusBadRequest, "invalid 'depth' parameter")
			return
		}
	}

	cams, err := s.db.Cameras(r.PathValue("id"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list cameras: %v", err))
		return
	}

	for _, cam := range cams {
		if cam.CameraID != int32(cameraID) {
			continue
		}
		mesh, err := colmap.Frustum(colmap.Camera{
			ID:     cam.CameraID,
			Model:  cam.Model,
			Width:  cam.Width,
			Height: cam.Height,
			Params: cam.Params,
		}, depth)
		if errors.Is(err, colmap.ErrUnsupportedModel) {
			s.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, mesh)
		return
	}

	s.writeJSONError(w, http.StatusNotFound, "camera not found")
}
