package colmap

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Pose is a camera's world-space position and orientation, derived from the
// world-to-camera transform stored on an image record.
type Pose struct {
	ImageID  int32
	CameraID int32
	Name     string

	// Position is the camera centre in world coordinates.
	Position [3]float64

	// Rotation is the camera-to-world rotation matrix, row-major.
	Rotation [9]float64
}

// rotationFromQuaternion expands a (w,x,y,z) quaternion into a 3x3 rotation
// matrix. For image records this matrix maps world to camera coordinates.
// Input quaternions are used as stored; normalising malformed ones is the
// producer's problem, not ours.
func rotationFromQuaternion(q [4]float64) *mat.Dense {
	w, x, y, z := q[0], q[1], q[2], q[3]
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// CameraPose inverts an image's stored world-to-camera transform. Since the
// rotation is orthonormal its inverse is the transpose, so the world-space
// orientation is Rᵀ and the camera centre is -Rᵀ·t.
func CameraPose(img Image) Pose {
	r := rotationFromQuaternion(img.QVec)

	var rt mat.Dense
	rt.CloneFrom(r.T())

	t := mat.NewVecDense(3, []float64{img.TVec[0], img.TVec[1], img.TVec[2]})
	var centre mat.VecDense
	centre.MulVec(&rt, t)
	centre.ScaleVec(-1, &centre)

	pose := Pose{
		ImageID:  img.ID,
		CameraID: img.CameraID,
		Name:     img.Name,
		Position: [3]float64{centre.AtVec(0), centre.AtVec(1), centre.AtVec(2)},
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			pose.Rotation[row*3+col] = rt.At(row, col)
		}
	}
	return pose
}

// Poses derives world-space poses for every image, sorted by image id. Map
// iteration order is not stable, and API consumers want a deterministic
// listing.
func Poses(images map[int32]Image) []Pose {
	ids := make([]int32, 0, len(images))
	for id := range images {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	poses := make([]Pose, 0, len(ids))
	for _, id := range ids {
		poses = append(poses, CameraPose(images[id]))
	}
	return poses
}
