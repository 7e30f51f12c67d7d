package colmap

import "fmt"

// FrustumMesh is wireframe geometry for a camera's viewing frustum in
// camera coordinates: the apex at the optical centre plus the four corners
// of the image plane pushed out to a fixed depth. Edges index into
// Vertices.
type FrustumMesh struct {
	Vertices [][3]float64
	Edges    [][2]int
}

// pinholeIntrinsics extracts (fx, fy, cx, cy) from a camera's parameter
// vector. Only the pinhole family is supported: distortion terms of the
// radial/opencv models are ignored, which is accurate enough for a
// wireframe, but fisheye and prism models have no usable pinhole core.
func pinholeIntrinsics(cam Camera) (fx, fy, cx, cy float64, err error) {
	// Decoded cameras always carry the registry's param count, but a
	// hand-built Camera may not.
	need := func(n int) error {
		if len(cam.Params) < n {
			return fmt.Errorf("%w: %s with %d of %d params",
				ErrUnsupportedModel, cam.Model, len(cam.Params), n)
		}
		return nil
	}

	switch cam.Model {
	case "SIMPLE_PINHOLE", "SIMPLE_RADIAL", "RADIAL":
		// f, cx, cy [, k…]
		if err := need(3); err != nil {
			return 0, 0, 0, 0, err
		}
		return cam.Params[0], cam.Params[0], cam.Params[1], cam.Params[2], nil
	case "PINHOLE", "OPENCV":
		// fx, fy, cx, cy [, k…]
		if err := need(4); err != nil {
			return 0, 0, 0, 0, err
		}
		return cam.Params[0], cam.Params[1], cam.Params[2], cam.Params[3], nil
	default:
		return 0, 0, 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedModel, cam.Model)
	}
}

// Frustum builds a camera-space frustum wireframe for a decoded camera at
// the given depth. Cameras outside the pinhole family yield an error
// wrapping ErrUnsupportedModel.
func Frustum(cam Camera, depth float64) (FrustumMesh, error) {
	fx, fy, cx, cy, err := pinholeIntrinsics(cam)
	if err != nil {
		return FrustumMesh{}, err
	}

	// Back-project the four image corners to the plane z = depth.
	w, h := float64(cam.Width), float64(cam.Height)
	corner := func(px, py float64) [3]float64 {
		return [3]float64{
			(px - cx) / fx * depth,
			(py - cy) / fy * depth,
			depth,
		}
	}

	return FrustumMesh{
		Vertices: [][3]float64{
			{0, 0, 0},
			corner(0, 0),
			corner(w, 0),
			corner(w, h),
			corner(0, h),
		},
		Edges: [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4},
			{1, 2}, {2, 3}, {3, 4}, {4, 1},
		},
	}, nil
}
