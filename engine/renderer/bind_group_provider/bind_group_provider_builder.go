package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
)

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniform stages a uniform block for a buffer binding. The renderer sizes the GPU buffer from
// the block and uploads it on every flush while it is dirty.
//
// Parameters:
//   - binding: the binding index within the group
//   - block: the CPU uniform block
//
// Returns:
//   - BindGroupProviderOption: a function that stages the uniform block
func WithUniform(binding int, block *pipeline.UniformBlock) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.uniforms[binding] = block
	}
}

// WithTexture stages RGBA pixel data for a texture binding.
//
// Parameters:
//   - binding: the binding index within the group
//   - data: the pixels to upload
//
// Returns:
//   - BindGroupProviderOption: a function that stages the texture
func WithTexture(binding int, data *common.TextureStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.textures[binding] = data
	}
}

// WithSampler stages sampler settings for a sampler binding. Zero fields use linear filtering
// with repeat addressing.
//
// Parameters:
//   - binding: the binding index within the group
//   - cfg: the sampler settings
//
// Returns:
//   - BindGroupProviderOption: a function that stages the sampler
func WithSampler(binding int, cfg common.SamplerStagingData) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.samplers[binding] = cfg
	}
}
