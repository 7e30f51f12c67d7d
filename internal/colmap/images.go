package colmap

// FileImages is the conventional name of the posed image file in a sparse
// model directory.
const FileImages = "images.bin"

/*
images.bin layout (all fields little-endian):

	┌─ uint64  num_images
	└─ repeated num_images times:
	    int32       image_id
	    float64 × 4 qvec (w, x, y, z)
	    float64 × 3 tvec
	    int32       camera_id
	    byte…0x00   name (NUL-terminated, no length prefix)
	    uint64      num_points2D
	    └─ repeated num_points2D times:
	        float64 x
	        float64 y
	        int64   point3D_id   (-1 = keypoint has no 3D point)

Two data-dependent lengths per record: the name runs to a sentinel byte and
the keypoint block to a preceding count. (qvec, tvec) express the
world-to-camera transform; see CameraPose for the inversion to world space.
*/

// NoPoint3D is the sentinel point3D_id marking a 2D keypoint with no
// corresponding 3D point. It is a valid, expected value, not an error.
const NoPoint3D int64 = -1

// XY is a 2D keypoint position in pixel coordinates.
type XY struct {
	X float64
	Y float64
}

// Image is one decoded image record: the world-to-camera pose, the source
// camera, and the 2D keypoints with their 3D correspondences.
type Image struct {
	ID       int32
	CameraID int32
	Name     string

	// QVec is the world-to-camera rotation quaternion in (w,x,y,z) order;
	// TVec the matching translation. Decoders store them as found and do
	// not validate normalisation.
	QVec [4]float64
	TVec [3]float64

	// XYs and Point3DIDs are parallel: Point3DIDs[i] is the 3D point seen
	// at keypoint XYs[i], or NoPoint3D.
	XYs        []XY
	Point3DIDs []int64
}

// DecodeImages decodes an images.bin buffer into a map keyed by image id.
// Any error aborts the whole decode; no partial map is returned.
func DecodeImages(data []byte) (map[int32]Image, error) {
	c := newCursor(FileImages, data)

	// Minimum record: id + qvec + tvec + camera id + empty name + count.
	numImages, err := c.count(4 + 4*8 + 3*8 + 4 + 1 + 8)
	if err != nil {
		return nil, err
	}

	images := make(map[int32]Image, numImages)
	for i := uint64(0); i < numImages; i++ {
		img := Image{}
		if img.ID, err = c.int32(); err != nil {
			return nil, err
		}
		for q := 0; q < 4; q++ {
			if img.QVec[q], err = c.float64(); err != nil {
				return nil, err
			}
		}
		for t := 0; t < 3; t++ {
			if img.TVec[t], err = c.float64(); err != nil {
				return nil, err
			}
		}
		if img.CameraID, err = c.int32(); err != nil {
			return nil, err
		}
		if img.Name, err = c.cstring(); err != nil {
			return nil, err
		}

		numPoints2D, err := c.count(8 + 8 + 8) // x, y, point3D_id
		if err != nil {
			return nil, err
		}
		img.XYs = make([]XY, 0, numPoints2D)
		img.Point3DIDs = make([]int64, 0, numPoints2D)
		for p := uint64(0); p < numPoints2D; p++ {
			var xy XY
			if xy.X, err = c.float64(); err != nil {
				return nil, err
			}
			if xy.Y, err = c.float64(); err != nil {
				return nil, err
			}
			pid, err := c.int64()
			if err != nil {
				return nil, err
			}
			img.XYs = append(img.XYs, xy)
			img.Point3DIDs = append(img.Point3DIDs, pid)
		}

		images[img.ID] = img
	}

	return images, nil
}
