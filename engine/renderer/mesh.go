package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-learn/engine/model"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Mesh is geometry uploaded to GPU vertex and index buffers.
type Mesh struct {
	label        string
	format       model.VertexFormat
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCount  uint32
	indexCount   uint32
}

// Label returns the debug label of the mesh.
func (m *Mesh) Label() string {
	return m.label
}

// Format returns the vertex layout of the mesh.
func (m *Mesh) Format() model.VertexFormat {
	return m.format
}

// Indexed reports whether the mesh is drawn with an index buffer.
func (m *Mesh) Indexed() bool {
	return m.indexCount > 0
}

// DrawCount returns the number of vertices one draw consumes.
func (m *Mesh) DrawCount() uint32 {
	if m.Indexed() {
		return m.indexCount
	}
	return m.vertexCount
}

// Release frees the GPU buffers.
func (m *Mesh) Release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

// checkMeshLayout verifies that g can feed the single vertex buffer slot of p.
func checkMeshLayout(p pipeline.Pipeline, g *model.Geometry) error {
	if g == nil {
		return fmt.Errorf("pipeline %s: geometry is nil", p.Key())
	}
	layouts := p.VertexLayouts()
	if len(layouts) != 1 {
		return fmt.Errorf("pipeline %s declares %d vertex buffers; meshes provide exactly 1", p.Key(), len(layouts))
	}
	if stride := g.Format.Stride(); layouts[0].ArrayStride != stride {
		return fmt.Errorf("pipeline %s expects a %d-byte vertex stride; geometry %s is %s (%d bytes)",
			p.Key(), layouts[0].ArrayStride, g.Label, g.Format, stride)
	}
	return nil
}

// orderBindGroups places the providers by group index and checks that every group the pipeline
// declares is supplied exactly once and is initialized.
func orderBindGroups(p pipeline.Pipeline, providers []bind_group_provider.BindGroupProvider) ([]bind_group_provider.BindGroupProvider, error) {
	n := len(p.BindGroupLayouts())
	ordered := make([]bind_group_provider.BindGroupProvider, n)
	for _, bg := range providers {
		g := bg.Group()
		if g < 0 || g >= n {
			return nil, fmt.Errorf("pipeline %s has no bind group %d (%s)", p.Key(), g, bg.Label())
		}
		if ordered[g] != nil {
			return nil, fmt.Errorf("pipeline %s: bind group %d supplied twice (%s, %s)", p.Key(), g, ordered[g].Label(), bg.Label())
		}
		ordered[g] = bg
	}
	for g, bg := range ordered {
		if bg == nil {
			return nil, fmt.Errorf("pipeline %s: bind group %d not supplied", p.Key(), g)
		}
		if bg.BindGroup() == nil {
			return nil, fmt.Errorf("pipeline %s: bind group %d (%s) is not initialized", p.Key(), g, bg.Label())
		}
	}
	return ordered, nil
}
