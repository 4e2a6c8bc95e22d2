package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float32
		want      float32
	}{
		{"inside", 10, 1, 45, 10},
		{"below", -3, 1, 45, 1},
		{"above", 100, 1, 45, 45},
		{"on lower bound", 1, 1, 45, 1},
		{"on upper bound", 45, 1, 45, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestPerspectiveMapsNearAndFarToZeroOne(t *testing.T) {
	near, far := float32(0.1), float32(100)
	p := Perspective(mgl32.DegToRad(45), 800.0/600.0, near, far)

	project := func(z float32) float32 {
		clip := p.Mul4x1(mgl32.Vec4{0, 0, -z, 1})
		return clip.Z() / clip.W()
	}

	assert.InDelta(t, 0.0, project(near), 1e-5)
	assert.InDelta(t, 1.0, project(far), 1e-4)
	assert.Equal(t, float32(-1), p.At(3, 2))
}

func TestPerspectiveMatchesGLOnXY(t *testing.T) {
	fov := mgl32.DegToRad(60)
	zo := Perspective(fov, 1.5, 0.1, 50)
	gl := mgl32.Perspective(fov, 1.5, 0.1, 50)

	assert.InDelta(t, gl[0], zo[0], 1e-6)
	assert.InDelta(t, gl[5], zo[5], 1e-6)
}

func TestPutMat4(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	buf := make([]byte, 64)
	PutMat4(buf, m)

	for i := range 16 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, m[i], got, "element %d", i)
	}
}

func TestPutVec3(t *testing.T) {
	buf := make([]byte, 12)
	PutVec3(buf, mgl32.Vec3{0.5, -1, 3})

	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
}

func TestSliceEncoders(t *testing.T) {
	assert.Nil(t, Float32sToBytes(nil))
	assert.Nil(t, Uint32sToBytes(nil))

	fb := Float32sToBytes([]float32{1, 2})
	require.Len(t, fb, 8)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(fb[4:])))

	ib := Uint32sToBytes([]uint32{7, 0xdeadbeef})
	require.Len(t, ib, 8)
	assert.Equal(t, uint32(0xdeadbeef), binary.LittleEndian.Uint32(ib[4:]))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, float32(32), Coalesce(float32(0), 32.0))
}
