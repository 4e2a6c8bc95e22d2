// Package model holds the tutorial geometry: a colored triangle, a textured quad and a textured cube.
package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-learn/common"
)

// VertexFormat names the interleaved attribute layout of a Geometry.
type VertexFormat int

const (
	// FormatPositionColor is position (vec3) followed by RGB color (vec3).
	FormatPositionColor VertexFormat = iota
	// FormatPositionColorUV is position (vec3), RGB color (vec3) and texture coordinate (vec2).
	FormatPositionColorUV
	// FormatPositionUV is position (vec3) followed by texture coordinate (vec2).
	FormatPositionUV
)

// Floats returns the number of float32 components per vertex.
func (f VertexFormat) Floats() int {
	switch f {
	case FormatPositionColor:
		return 6
	case FormatPositionColorUV:
		return 8
	case FormatPositionUV:
		return 5
	default:
		return 0
	}
}

// Stride returns the byte size of one vertex.
func (f VertexFormat) Stride() uint64 {
	return uint64(f.Floats()) * 4
}

func (f VertexFormat) String() string {
	switch f {
	case FormatPositionColor:
		return "position+color"
	case FormatPositionColorUV:
		return "position+color+uv"
	case FormatPositionUV:
		return "position+uv"
	default:
		return "unknown"
	}
}

// Geometry is interleaved vertex data with optional indices, ready for upload as a mesh.
type Geometry struct {
	Label    string
	Format   VertexFormat
	Vertices []float32
	Indices  []uint32
}

// NewGeometry validates that vertices hold a whole number of vertices for format and that every
// index addresses an existing vertex.
//
// Parameters:
//   - label: debug label used for GPU buffers
//   - format: the vertex layout
//   - vertices: interleaved vertex components
//   - indices: triangle indices, or nil for non-indexed drawing
//
// Returns:
//   - *Geometry: the geometry
//   - error: error if the data is inconsistent with the format
func NewGeometry(label string, format VertexFormat, vertices []float32, indices []uint32) (*Geometry, error) {
	n := format.Floats()
	if n == 0 {
		return nil, fmt.Errorf("geometry %s: unknown vertex format %d", label, format)
	}
	if len(vertices) == 0 || len(vertices)%n != 0 {
		return nil, fmt.Errorf("geometry %s: %d floats is not a whole number of %s vertices", label, len(vertices), format)
	}
	count := uint32(len(vertices) / n)
	for i, idx := range indices {
		if idx >= count {
			return nil, fmt.Errorf("geometry %s: index %d at %d out of range for %d vertices", label, idx, i, count)
		}
	}
	return &Geometry{Label: label, Format: format, Vertices: vertices, Indices: indices}, nil
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() uint32 {
	if n := g.Format.Floats(); n > 0 {
		return uint32(len(g.Vertices) / n)
	}
	return 0
}

// DrawCount returns how many vertices a draw call consumes: the index count when indexed.
func (g *Geometry) DrawCount() uint32 {
	if len(g.Indices) > 0 {
		return uint32(len(g.Indices))
	}
	return g.VertexCount()
}

// VertexBytes returns the vertex data as little-endian bytes.
func (g *Geometry) VertexBytes() []byte {
	return common.Float32sToBytes(g.Vertices)
}

// IndexBytes returns the index data as little-endian bytes, or nil when not indexed.
func (g *Geometry) IndexBytes() []byte {
	return common.Uint32sToBytes(g.Indices)
}

// Triangle returns the colored triangle: red top, green bottom-left, blue bottom-right.
func Triangle() *Geometry {
	return &Geometry{
		Label:  "triangle",
		Format: FormatPositionColor,
		Vertices: []float32{
			0.0, 0.5, 0.0, 1.0, 0.0, 0.0,
			-0.5, -0.5, 0.0, 0.0, 1.0, 0.0,
			0.5, -0.5, 0.0, 0.0, 0.0, 1.0,
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Quad returns the textured, vertex-colored quad as two indexed triangles.
func Quad() *Geometry {
	return &Geometry{
		Label:  "quad",
		Format: FormatPositionColorUV,
		Vertices: []float32{
			0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0, // top right
			0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0, // bottom right
			-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0, // bottom left
			-0.5, 0.5, 0.0, 1.0, 1.0, 1.0, 0.0, 1.0, // top left
		},
		Indices: []uint32{0, 1, 3, 1, 2, 3},
	}
}

// Cube returns a unit cube centered on the origin as 36 non-indexed vertices with texture coordinates.
func Cube() *Geometry {
	return &Geometry{
		Label:  "cube",
		Format: FormatPositionUV,
		Vertices: []float32{
			-0.5, -0.5, -0.5, 0.0, 0.0,
			0.5, -0.5, -0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 0.0,

			-0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 1.0,
			-0.5, 0.5, 0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,

			-0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, -0.5, 1.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, 0.5, 1.0, 0.0,

			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, 0.5, 0.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,

			-0.5, -0.5, -0.5, 0.0, 1.0,
			0.5, -0.5, -0.5, 1.0, 1.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			0.5, -0.5, 0.5, 1.0, 0.0,
			-0.5, -0.5, 0.5, 0.0, 0.0,
			-0.5, -0.5, -0.5, 0.0, 1.0,

			-0.5, 0.5, -0.5, 0.0, 1.0,
			0.5, 0.5, -0.5, 1.0, 1.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			0.5, 0.5, 0.5, 1.0, 0.0,
			-0.5, 0.5, 0.5, 0.0, 0.0,
			-0.5, 0.5, -0.5, 0.0, 1.0,
		},
	}
}
