package colmap

// FilePoints3D is the conventional name of the sparse point cloud file in a
// sparse model directory.
const FilePoints3D = "points3D.bin"

/*
points3D.bin layout (all fields little-endian):

	┌─ uint64  num_points
	└─ repeated num_points times:
	    uint64      point3D_id
	    float64 × 3 xyz
	    uint8 × 3   rgb
	    float64     reprojection error
	    uint64      track_length
	    └─ repeated track_length times:
	        int32 image_id
	        int32 point2D_idx

A track records every (image, keypoint index) pair in which the point was
observed. Zero-length tracks are valid.
*/

// Point3D is one decoded sparse point: position, colour, reprojection error
// and the visibility track.
type Point3D struct {
	ID    uint64
	XYZ   [3]float64
	RGB   [3]uint8
	Error float64

	// ImageIDs and Point2DIdxs are parallel: the point was observed as
	// keypoint Point2DIdxs[i] of image ImageIDs[i].
	ImageIDs    []int32
	Point2DIdxs []int32
}

// DecodePoints3D decodes a points3D.bin buffer into a map keyed by point id.
// Any error aborts the whole decode; no partial map is returned.
func DecodePoints3D(data []byte) (map[uint64]Point3D, error) {
	c := newCursor(FilePoints3D, data)

	// Minimum record: id + xyz + rgb + error + track length.
	numPoints, err := c.count(8 + 3*8 + 3 + 8 + 8)
	if err != nil {
		return nil, err
	}

	points := make(map[uint64]Point3D, numPoints)
	for i := uint64(0); i < numPoints; i++ {
		pt := Point3D{}
		if pt.ID, err = c.uint64(); err != nil {
			return nil, err
		}
		for a := 0; a < 3; a++ {
			if pt.XYZ[a], err = c.float64(); err != nil {
				return nil, err
			}
		}
		for a := 0; a < 3; a++ {
			if pt.RGB[a], err = c.uint8(); err != nil {
				return nil, err
			}
		}
		if pt.Error, err = c.float64(); err != nil {
			return nil, err
		}

		trackLen, err := c.count(4 + 4) // image_id, point2D_idx
		if err != nil {
			return nil, err
		}
		pt.ImageIDs = make([]int32, 0, trackLen)
		pt.Point2DIdxs = make([]int32, 0, trackLen)
		for t := uint64(0); t < trackLen; t++ {
			imageID, err := c.int32()
			if err != nil {
				return nil, err
			}
			idx, err := c.int32()
			if err != nil {
				return nil, err
			}
			pt.ImageIDs = append(pt.ImageIDs, imageID)
			pt.Point2DIdxs = append(pt.Point2DIdxs, idx)
		}

		points[pt.ID] = pt
	}

	return points, nil
}
