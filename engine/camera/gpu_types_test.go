package camera

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUCameraUniformLayout(t *testing.T) {
	cam := NewCamera(WithPosition(1, 2, 3))
	u := NewGPUCameraUniform(cam, 4.0/3.0, 0.1, 100)

	require.Equal(t, 144, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 144)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(4.0/3.0, 0.1, 100)
	for i := range 16 {
		assert.Equal(t, view[i], readFloat(buf, i*4), "view[%d]", i)
		assert.Equal(t, proj[i], readFloat(buf, 64+i*4), "projection[%d]", i)
	}
	assert.Equal(t, float32(1), readFloat(buf, 128))
	assert.Equal(t, float32(2), readFloat(buf, 132))
	assert.Equal(t, float32(3), readFloat(buf, 136))
	assert.Equal(t, float32(0), readFloat(buf, 140))
}

func TestGPUCameraUniformSourceEmbedded(t *testing.T) {
	assert.True(t, strings.Contains(GPUCameraUniformSource, "struct CameraUniform"))
	assert.True(t, strings.Contains(GPUCameraUniformSource, "projection: mat4x4<f32>"))
}
