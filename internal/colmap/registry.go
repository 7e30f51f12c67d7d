package colmap

import "fmt"

// CameraModel describes one entry of the static COLMAP camera model table:
// a numeric model identifier, its canonical name, and the number of
// intrinsic parameters records of that model carry in cameras.bin.
//
// The parameter count is what makes camera records variable-length: the
// decoder must look the model up mid-record to know how many trailing
// float64 fields to read.
type CameraModel struct {
	ID        int32
	Name      string
	NumParams int
}

// cameraModels is the full model table of the COLMAP binary format. It is
// initialised once and never mutated; both lookup maps below are derived
// from it at package init.
var cameraModels = []CameraModel{
	{ID: 0, Name: "SIMPLE_PINHOLE", NumParams: 3},
	{ID: 1, Name: "PINHOLE", NumParams: 4},
	{ID: 2, Name: "SIMPLE_RADIAL", NumParams: 4},
	{ID: 3, Name: "RADIAL", NumParams: 5},
	{ID: 4, Name: "OPENCV", NumParams: 8},
	{ID: 5, Name: "OPENCV_FISHEYE", NumParams: 8},
	{ID: 6, Name: "FULL_OPENCV", NumParams: 12},
	{ID: 7, Name: "FOV", NumParams: 5},
	{ID: 8, Name: "SIMPLE_RADIAL_FISHEYE", NumParams: 4},
	{ID: 9, Name: "RADIAL_FISHEYE", NumParams: 5},
	{ID: 10, Name: "THIN_PRISM_FISHEYE", NumParams: 12},
}

var (
	modelsByID   = make(map[int32]CameraModel, len(cameraModels))
	modelsByName = make(map[string]CameraModel, len(cameraModels))
)

func init() {
	for _, m := range cameraModels {
		modelsByID[m.ID] = m
		modelsByName[m.Name] = m
	}
}

// ModelByID returns the camera model for a numeric model id. Unknown ids
// are an error, never a default: a wrong id means the param count that
// follows in the byte stream cannot be determined.
func ModelByID(id int32) (CameraModel, error) {
	m, ok := modelsByID[id]
	if !ok {
		return CameraModel{}, fmt.Errorf("%w: id %d", ErrUnknownCameraModel, id)
	}
	return m, nil
}

// ModelByName returns the camera model for a canonical model name.
func ModelByName(name string) (CameraModel, error) {
	m, ok := modelsByName[name]
	if !ok {
		return CameraModel{}, fmt.Errorf("%w: %q", ErrUnknownCameraModel, name)
	}
	return m, nil
}

// Models returns a copy of the full model table, in id order.
func Models() []CameraModel {
	out := make([]CameraModel, len(cameraModels))
	copy(out, cameraModels)
	return out
}
