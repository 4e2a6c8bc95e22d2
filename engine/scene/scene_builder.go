package scene

import "github.com/go-gl/mathgl/mgl32"

// CubeFieldOption is a functional option for configuring a CubeField.
// Use the With* functions to create options.
type CubeFieldOption func(f *cubeField)

// WithPositions replaces the default cube positions.
//
// Parameters:
//   - positions: one world position per cube
//
// Returns:
//   - CubeFieldOption: option function to apply
func WithPositions(positions ...mgl32.Vec3) CubeFieldOption {
	return func(f *cubeField) {
		f.positions = positions
	}
}

// WithAxis sets the rotation axis. It is normalized at construction; a zero axis keeps the default.
//
// Parameters:
//   - axis: the rotation axis
//
// Returns:
//   - CubeFieldOption: option function to apply
func WithAxis(axis mgl32.Vec3) CubeFieldOption {
	return func(f *cubeField) {
		if axis.Len() > 0 {
			f.axis = axis
		}
	}
}

// WithDegreesPerIndex sets the angular speed step between consecutive cubes.
//
// Parameters:
//   - degrees: degrees per second added per cube index
//
// Returns:
//   - CubeFieldOption: option function to apply
func WithDegreesPerIndex(degrees float32) CubeFieldOption {
	return func(f *cubeField) {
		f.degreesPerIndex = degrees
	}
}

// WithWorkers sets the number of goroutines computing model matrices.
// Defaults to runtime.NumCPU()-1. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - CubeFieldOption: option function to apply
func WithWorkers(n int) CubeFieldOption {
	return func(f *cubeField) {
		f.workers = max(n, 1)
	}
}
