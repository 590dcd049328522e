package pointcloud

import (
	"github.com/pkg/errors"
)

// PointCloud is an ordered, immutable sequence of points with organized-cloud metadata
// (section 3). Once constructed, a PointCloud is never mutated in place; registration
// consumes it by reference and produces a new Transform, per section 3's Lifetime rule
// and section 9's "shared-ownership clouds" design note.
type PointCloud struct {
	Points []Point
	Width  int
	Height int

	// IsDense is false when Points may contain non-finite entries that must be
	// filtered at use sites rather than relied upon to have been removed already.
	IsDense bool
}

// New returns an organized PointCloud, validating the width*height invariant of section 3.
func New(points []Point, width, height int) (PointCloud, error) {
	if width*height != len(points) {
		return PointCloud{}, errors.Errorf(
			"pointcloud: width*height (%d*%d=%d) does not match point count %d",
			width, height, width*height, len(points))
	}
	dense := true
	for _, p := range points {
		if !p.IsFinite() {
			dense = false
			break
		}
	}
	return PointCloud{Points: points, Width: width, Height: height, IsDense: dense}, nil
}

// NewUnorganized returns a 1xN PointCloud from an unordered slice of points, the common
// case for synthetic test clouds and for clouds that carry no raster structure.
func NewUnorganized(points []Point) PointCloud {
	pc, err := New(points, len(points), 1)
	if err != nil {
		// len(points)*1 == len(points) always holds, so New cannot fail here.
		panic(err)
	}
	return pc
}

// Size returns the number of points in the cloud.
func (pc PointCloud) Size() int {
	return len(pc.Points)
}

// FiniteIndices returns the indices of points that satisfy the finiteness invariant.
// Non-finite points are excluded from computation rather than aborting it (section 7,
// Non-finite-input).
func (pc PointCloud) FiniteIndices() []int {
	if pc.IsDense {
		indices := make([]int, len(pc.Points))
		for i := range pc.Points {
			indices[i] = i
		}
		return indices
	}
	indices := make([]int, 0, len(pc.Points))
	for i, p := range pc.Points {
		if p.IsFinite() {
			indices = append(indices, i)
		}
	}
	return indices
}
