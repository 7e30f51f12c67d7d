package colmap

import "fmt"

// FileCameras is the conventional name of the camera intrinsics file in a
// sparse model directory.
const FileCameras = "cameras.bin"

/*
cameras.bin layout (all fields little-endian):

	┌─ uint64  num_cameras
	└─ repeated num_cameras times:
	    int32   camera_id
	    int32   model_id        → param count via model table lookup
	    int64   width
	    int64   height
	    float64 × num_params    intrinsic parameters

The 24-byte record header is fixed; the trailing parameter block is not.
Its length depends on a model-table lookup performed mid-record, which is
why this file cannot be parsed with fixed-offset struct overlays.
*/

// Camera is one decoded camera record: the sensor geometry and intrinsic
// parameters shared by every image captured with it.
type Camera struct {
	ID     int32
	Model  string
	Width  int64
	Height int64
	Params []float64
}

// DecodeCameras decodes a cameras.bin buffer into a map keyed by camera id.
// Decoding is single-pass and aborts on the first error; no partial map is
// ever returned. The declared record count must match the number of decoded
// entries (duplicate ids therefore surface as ErrRecordCountMismatch).
func DecodeCameras(data []byte) (map[int32]Camera, error) {
	c := newCursor(FileCameras, data)

	// Every record carries at least its 24-byte fixed header.
	numCameras, err := c.count(24)
	if err != nil {
		return nil, err
	}

	cameras := make(map[int32]Camera, numCameras)
	for i := uint64(0); i < numCameras; i++ {
		cam := Camera{}
		if cam.ID, err = c.int32(); err != nil {
			return nil, err
		}
		modelID, err := c.int32()
		if err != nil {
			return nil, err
		}
		if cam.Width, err = c.int64(); err != nil {
			return nil, err
		}
		if cam.Height, err = c.int64(); err != nil {
			return nil, err
		}

		// The model lookup happens mid-record: the id just read determines
		// how many parameter fields follow.
		model, err := ModelByID(modelID)
		if err != nil {
			return nil, decodeErr(FileCameras, c.off, err)
		}
		cam.Model = model.Name

		cam.Params = make([]float64, model.NumParams)
		for p := 0; p < model.NumParams; p++ {
			if cam.Params[p], err = c.float64(); err != nil {
				return nil, err
			}
		}

		cameras[cam.ID] = cam
	}

	if uint64(len(cameras)) != numCameras {
		return nil, decodeErr(FileCameras, c.off,
			fmt.Errorf("%w: header declares %d cameras, decoded %d",
				ErrRecordCountMismatch, numCameras, len(cameras)))
	}

	return cameras, nil
}
