package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key string

	vertexShader, fragmentShader shader.Shader

	// bindGroups is the union of both stages' declarations, indexed by group
	bindGroups []wgpu.BindGroupLayoutDescriptor

	// renderPipeline is set by the renderer once the GPU object exists
	renderPipeline *wgpu.RenderPipeline

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline is a linked vertex + fragment shader pair (a "program") plus the fixed-function state
// needed to create a render pipeline. It is also the source of uniform blocks sized for its
// declared uniform buffers.
type Pipeline interface {
	// Key returns the unique key for this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Shader retrieves the shader for a stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the stage's shader, or nil for an unknown stage
	Shader(shaderType shader.ShaderType) shader.Shader

	// VertexLayouts returns the vertex buffer layouts declared by the vertex shader.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex buffer slot
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayouts returns the merged layout of every bind group, indexed by group number.
	// Entries used by both stages are visible to both.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: descriptors for groups 0..n-1
	BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor

	// FindBinding locates a resource by WGSL variable name in either stage.
	//
	// Parameters:
	//   - name: the variable name
	//
	// Returns:
	//   - shader.Binding: the declaration
	//   - bool: true if found
	FindBinding(name string) (shader.Binding, bool)

	// NewUniformBlock creates a CPU block laid out like the struct bound to a uniform variable.
	//
	// Parameters:
	//   - name: the WGSL variable name of a var<uniform> binding
	//
	// Returns:
	//   - *UniformBlock: the zero-filled block
	//   - shader.Binding: where the block must be bound
	//   - error: error if the variable does not exist or its struct cannot be packed
	NewUniformBlock(name string) (*UniformBlock, shader.Binding, error)

	// DepthTestEnabled returns whether depth testing is enabled.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writes are enabled.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether color blending is enabled.
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// RenderPipeline returns the GPU pipeline, or nil before the renderer has registered it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline validates the shader pair and merges their bind group declarations.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - opts: functional options; WithVertexShader and WithFragmentShader are required
//
// Returns:
//   - Pipeline: the pipeline description
//   - error: error if a stage is missing or mismatched, or the stages disagree on a binding
func NewPipeline(key string, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		key:               key,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	switch {
	case p.vertexShader == nil:
		return nil, fmt.Errorf("pipeline %s: vertex shader is required", key)
	case p.fragmentShader == nil:
		return nil, fmt.Errorf("pipeline %s: fragment shader is required", key)
	case p.vertexShader.ShaderType() != shader.ShaderTypeVertex:
		return nil, fmt.Errorf("pipeline %s: %s is a %s shader, not vertex", key, p.vertexShader.Key(), p.vertexShader.ShaderType())
	case p.fragmentShader.ShaderType() != shader.ShaderTypeFragment:
		return nil, fmt.Errorf("pipeline %s: %s is a %s shader, not fragment", key, p.fragmentShader.Key(), p.fragmentShader.ShaderType())
	}

	groups, err := mergeBindGroups(p.vertexShader.BindGroupLayouts(), p.fragmentShader.BindGroupLayouts())
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	p.bindGroups = groups
	return p, nil
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexShader.VertexLayouts()
}

func (p *pipeline) BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	return p.bindGroups
}

func (p *pipeline) FindBinding(name string) (shader.Binding, bool) {
	if b, ok := p.vertexShader.BindingByName(name); ok {
		return b, true
	}
	return p.fragmentShader.BindingByName(name)
}

func (p *pipeline) NewUniformBlock(name string) (*UniformBlock, shader.Binding, error) {
	b, ok := p.FindBinding(name)
	if !ok {
		return nil, shader.Binding{}, fmt.Errorf("pipeline %s: %w %q", p.key, ErrUnknownUniform, name)
	}

	layout, ok := p.vertexShader.Struct(b.Type)
	if !ok {
		layout, ok = p.fragmentShader.Struct(b.Type)
	}
	if !ok {
		return nil, shader.Binding{}, fmt.Errorf("pipeline %s: binding %s has type %s, which is not a packable struct", p.key, name, b.Type)
	}

	block, err := NewUniformBlockFromStruct(layout)
	if err != nil {
		return nil, shader.Binding{}, fmt.Errorf("pipeline %s: %w", p.key, err)
	}
	return block, b, nil
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

// mergeBindGroups unions the per-stage layouts. A binding declared by both stages must describe
// the same resource; its visibility becomes the union of the stages. Groups must be numbered
// contiguously from 0 because the pipeline layout is positional.
func mergeBindGroups(stages ...map[int]wgpu.BindGroupLayoutDescriptor) ([]wgpu.BindGroupLayoutDescriptor, error) {
	merged := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, stage := range stages {
		for group, desc := range stage {
			if merged[group] == nil {
				merged[group] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				existing, ok := merged[group][e.Binding]
				if !ok {
					merged[group][e.Binding] = e
					continue
				}
				if !sameResource(existing, e) {
					return nil, fmt.Errorf("group %d binding %d is declared with different resource types", group, e.Binding)
				}
				existing.Visibility |= e.Visibility
				existing.Buffer.MinBindingSize = max(existing.Buffer.MinBindingSize, e.Buffer.MinBindingSize)
				merged[group][e.Binding] = existing
			}
		}
	}

	out := make([]wgpu.BindGroupLayoutDescriptor, len(merged))
	for group := range len(merged) {
		entries, ok := merged[group]
		if !ok {
			return nil, errors.New(gapMessage(merged))
		}
		list := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
		for _, e := range entries {
			list = append(list, e)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Binding < list[j].Binding })
		out[group] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out, nil
}

func sameResource(a, b wgpu.BindGroupLayoutEntry) bool {
	return a.Buffer.Type == b.Buffer.Type &&
		a.Sampler.Type == b.Sampler.Type &&
		a.Texture.SampleType == b.Texture.SampleType &&
		a.Texture.ViewDimension == b.Texture.ViewDimension
}

func gapMessage(merged map[int]map[uint32]wgpu.BindGroupLayoutEntry) string {
	groups := make([]int, 0, len(merged))
	for g := range merged {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return fmt.Sprintf("bind groups %v are not contiguous from 0", groups)
}
