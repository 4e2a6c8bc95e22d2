package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (144 bytes, WGSL uniform aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Size: 144 bytes.
type GPUCameraUniform struct {
	View       [16]float32 // offset   0: view matrix (mat4x4<f32>)
	Projection [16]float32 // offset  64: projection matrix (mat4x4<f32>)
	Position   [3]float32  // offset 128: world-space eye position (vec3<f32>)
	_pad       float32     // offset 140: padding to 144 bytes
}

// NewGPUCameraUniform snapshots a camera for upload.
//
// Parameters:
//   - c: the camera to read
//   - aspect: viewport aspect ratio used for the projection
//   - near, far: clipping plane distances
//
// Returns:
//   - GPUCameraUniform: the uniform data
func NewGPUCameraUniform(c Camera, aspect, near, far float32) GPUCameraUniform {
	return GPUCameraUniform{
		View:       c.ViewMatrix(),
		Projection: c.ProjectionMatrix(aspect, near, far),
		Position:   c.Position(),
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutMat4(buf[0:], mgl32.Mat4(g.View))
	common.PutMat4(buf[64:], mgl32.Mat4(g.Projection))
	common.PutVec3(buf[128:], mgl32.Vec3(g.Position))
	return buf
}
