package bind_group_provider

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type bindGroupProvider struct {
	label string
	group int

	// CPU-side inputs, keyed by binding index
	uniforms map[int]*pipeline.UniformBlock
	textures map[int]*common.TextureStagingData
	samplers map[int]common.SamplerStagingData

	// GPU objects created by the renderer
	bindGroup    *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	gpuTextures  map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	gpuSamplers  map[int]*wgpu.Sampler
}

// BindGroupProvider owns the resources bound at one bind group index: uniform blocks backed by
// GPU buffers, textures and samplers. The caller stages the CPU inputs with builder options and the
// renderer creates the GPU objects from the pipeline's layout for that group.
type BindGroupProvider interface {
	// Release frees every GPU object the provider holds. CPU inputs are kept so the group can be
	// initialized again.
	Release()

	// Label returns the debug label used for GPU objects.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Group returns the bind group index this provider is bound at.
	//
	// Returns:
	//   - int: the group index
	Group() int

	// BindGroup returns the GPU bind group, or nil before initialization.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores the GPU bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// Uniform returns the uniform block staged at a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *pipeline.UniformBlock: the block, or nil
	Uniform(binding int) *pipeline.UniformBlock

	// Texture returns the pixel data staged at a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *common.TextureStagingData: the pixels, or nil
	Texture(binding int) *common.TextureStagingData

	// SamplerConfig returns the sampler settings staged at a binding.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - common.SamplerStagingData: the settings
	//   - bool: true if the binding has settings
	SamplerConfig(binding int) (common.SamplerStagingData, bool)

	// Buffer returns the GPU buffer backing a uniform binding.
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the GPU buffer backing a uniform binding.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// TextureView returns the view created for a texture binding.
	TextureView(binding int) *wgpu.TextureView

	// SetTexture stores the GPU texture and its view for a texture binding.
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// Sampler returns the GPU sampler for a sampler binding.
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores the GPU sampler for a sampler binding.
	SetSampler(binding int, s *wgpu.Sampler)

	// PendingWrites collects the uniform blocks that changed since the last call and already have
	// a GPU buffer, in binding order, and marks them clean.
	//
	// Returns:
	//   - []BufferWrite: the uploads to perform
	PendingWrites() []BufferWrite
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a provider for one bind group index.
//
// Parameters:
//   - label: the debug label for GPU objects
//   - group: the bind group index
//   - options: functional options staging uniforms, textures and samplers
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, group int, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		group:        group,
		uniforms:     make(map[int]*pipeline.UniformBlock),
		textures:     make(map[int]*common.TextureStagingData),
		samplers:     make(map[int]common.SamplerStagingData),
		buffers:      make(map[int]*wgpu.Buffer),
		gpuTextures:  make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		gpuSamplers:  make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) Uniform(binding int) *pipeline.UniformBlock {
	return p.uniforms[binding]
}

func (p *bindGroupProvider) Texture(binding int) *common.TextureStagingData {
	return p.textures[binding]
}

func (p *bindGroupProvider) SamplerConfig(binding int) (common.SamplerStagingData, bool) {
	s, ok := p.samplers[binding]
	return s, ok
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	p.gpuTextures[binding] = tex
	p.textureViews[binding] = view
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.gpuSamplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.gpuSamplers[binding] = s
}

func (p *bindGroupProvider) PendingWrites() []BufferWrite {
	bindings := make([]int, 0, len(p.uniforms))
	for b := range p.uniforms {
		bindings = append(bindings, b)
	}
	slices.Sort(bindings)

	var writes []BufferWrite
	for _, b := range bindings {
		block := p.uniforms[b]
		if !block.Dirty() || p.buffers[b] == nil {
			continue
		}
		writes = append(writes, BufferWrite{
			Provider: p,
			Binding:  b,
			Offset:   0,
			Data:     block.Bytes(),
		})
		block.ClearDirty()
	}
	return writes
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.gpuTextures {
		if tex != nil {
			tex.Release()
		}
		delete(p.gpuTextures, i)
	}
	for i, s := range p.gpuSamplers {
		if s != nil {
			s.Release()
		}
		delete(p.gpuSamplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	// a re-created buffer starts empty
	for _, block := range p.uniforms {
		block.MarkDirty()
	}
}
