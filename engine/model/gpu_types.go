package model

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUModelUniformSource is the canonical WGSL definition of the per-object ModelUniform struct.
// Matches GPUModelUniform layout exactly (64 bytes).
//
//go:embed assets/model_uniform.wgsl
var GPUModelUniformSource string

// GPUModelUniform is the GPU-aligned per-object model matrix.
type GPUModelUniform struct {
	Model [16]float32 // offset 0: column-major model-to-world transform (64 bytes)
}

// NewGPUModelUniform wraps a model matrix for upload.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - GPUModelUniform: the uniform value
func NewGPUModelUniform(m mgl32.Mat4) GPUModelUniform {
	return GPUModelUniform{Model: m}
}

// Size returns the size of the GPUModelUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (g *GPUModelUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform into a 64-byte little-endian buffer.
//
// Returns:
//   - []byte: buffer ready for GPU upload
func (g *GPUModelUniform) Marshal() []byte {
	buf := make([]byte, 64)
	common.PutMat4(buf, g.Model)
	return buf
}
