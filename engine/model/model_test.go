package model

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinGeometry(t *testing.T) {
	tests := []struct {
		geom     *Geometry
		vertices uint32
		draws    uint32
		stride   uint64
	}{
		{Triangle(), 3, 3, 24},
		{Quad(), 4, 6, 32},
		{Cube(), 36, 36, 20},
	}

	for _, tt := range tests {
		t.Run(tt.geom.Label, func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.geom.VertexCount())
			assert.Equal(t, tt.draws, tt.geom.DrawCount())
			assert.Equal(t, tt.stride, tt.geom.Format.Stride())
			assert.Len(t, tt.geom.VertexBytes(), int(tt.vertices)*int(tt.stride))

			// built-ins must pass the same validation user geometry does
			_, err := NewGeometry(tt.geom.Label, tt.geom.Format, tt.geom.Vertices, tt.geom.Indices)
			require.NoError(t, err)
		})
	}
}

func TestCubeIsCentered(t *testing.T) {
	c := Cube()
	n := c.Format.Floats()
	for i := 0; i < len(c.Vertices); i += n {
		for axis := range 3 {
			assert.InDelta(t, 0.5, math.Abs(float64(c.Vertices[i+axis])), 1e-9)
		}
		u, v := c.Vertices[i+3], c.Vertices[i+4]
		assert.True(t, (u == 0 || u == 1) && (v == 0 || v == 1))
	}
}

func TestIndexBytes(t *testing.T) {
	assert.Nil(t, Cube().IndexBytes())

	b := Quad().IndexBytes()
	require.Len(t, b, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(b[8:]))
}

func TestNewGeometryErrors(t *testing.T) {
	_, err := NewGeometry("bad", FormatPositionColor, []float32{1, 2, 3}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number")

	_, err = NewGeometry("bad", FormatPositionColor, nil, nil)
	require.Error(t, err)

	_, err = NewGeometry("bad", FormatPositionColor, make([]float32, 12), []uint32{0, 1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = NewGeometry("bad", VertexFormat(42), make([]float32, 12), nil)
	require.Error(t, err)
	assert.Equal(t, "unknown", VertexFormat(42).String())
}

func TestGPUModelUniform(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	u := NewGPUModelUniform(m)

	assert.Equal(t, 64, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 64)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[56:])))
	assert.True(t, strings.Contains(GPUModelUniformSource, "struct ModelUniform"))
}
