package common

import (
	"cmp"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Clamp saturates v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space,
// where depth maps to [0, 1] rather than OpenGL's [-1, 1]. mgl32.Perspective targets the
// OpenGL convention, so the depth row is rebuilt here.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// PutMat4 writes a column-major matrix into buf as 16 little-endian float32 values.
//
// Parameters:
//   - buf: destination slice (must be at least 64 bytes)
//   - m: the matrix to encode
func PutMat4(buf []byte, m mgl32.Mat4) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(m[i]))
	}
}

// PutVec3 writes a vector into buf as 3 little-endian float32 values.
//
// Parameters:
//   - buf: destination slice (must be at least 12 bytes)
//   - v: the vector to encode
func PutVec3(buf []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

// Float32sToBytes encodes a float32 slice as little-endian bytes for GPU buffer uploads.
//
// Parameters:
//   - data: source values
//
// Returns:
//   - []byte: a newly allocated byte slice, or nil if data is empty
func Float32sToBytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	buf := make([]byte, len(data)*4)
	for i, f := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Uint32sToBytes encodes a uint32 slice as little-endian bytes for GPU index buffers.
//
// Parameters:
//   - data: source values
//
// Returns:
//   - []byte: a newly allocated byte slice, or nil if data is empty
func Uint32sToBytes(data []uint32) []byte {
	if len(data) == 0 {
		return nil
	}
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
