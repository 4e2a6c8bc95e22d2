package material

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
)

// material is the implementation of the Material interface.
type material struct {
	name              string
	diffuseTexture    *common.TextureStagingData
	sampler           common.SamplerStagingData
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material is a diffuse texture together with the sampler that reads it. It turns the pair into a
// bind group provider laid out for a specific pipeline.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseTexture retrieves the staged diffuse pixels, or nil if none are set.
	//
	// Returns:
	//   - *common.TextureStagingData: the diffuse texture, or nil
	DiffuseTexture() *common.TextureStagingData

	// Sampler retrieves the sampler configuration used with the diffuse texture.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler configuration
	Sampler() common.SamplerStagingData

	// PipelineKey retrieves the key of the pipeline the material was last bound for.
	//
	// Returns:
	//   - string: the pipeline key, or "" before Bind
	PipelineKey() string

	// BindGroupProvider retrieves the provider built by the last Bind.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, or nil before Bind
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Bind locates the named texture and sampler bindings in p and builds a provider for their
	// group. Both bindings must share a group. A previous provider is released.
	//
	// Parameters:
	//   - p: the pipeline whose layout the provider must match
	//   - textureName: the WGSL variable name of the texture binding
	//   - samplerName: the WGSL variable name of the sampler binding
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, ready for Renderer.InitBindGroup
	//   - error: error if the material has no texture or the bindings are missing or mismatched
	Bind(p pipeline.Pipeline, textureName, samplerName string) (bind_group_provider.BindGroupProvider, error)

	// Release frees the GPU resources of the current provider.
	Release()
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		name: "material",
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseTexture() *common.TextureStagingData {
	return m.diffuseTexture
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) Bind(p pipeline.Pipeline, textureName, samplerName string) (bind_group_provider.BindGroupProvider, error) {
	if m.diffuseTexture == nil {
		return nil, fmt.Errorf("material %s has no diffuse texture", m.name)
	}

	tex, ok := p.FindBinding(textureName)
	if !ok {
		return nil, fmt.Errorf("material %s: pipeline %s has no binding %s", m.name, p.Key(), textureName)
	}
	if !strings.HasPrefix(tex.Type, "texture_") {
		return nil, fmt.Errorf("material %s: binding %s is %s, not a texture", m.name, textureName, tex.Type)
	}
	samp, ok := p.FindBinding(samplerName)
	if !ok {
		return nil, fmt.Errorf("material %s: pipeline %s has no binding %s", m.name, p.Key(), samplerName)
	}
	if samp.Type != "sampler" {
		return nil, fmt.Errorf("material %s: binding %s is %s, not a sampler", m.name, samplerName, samp.Type)
	}
	if tex.Group != samp.Group {
		return nil, fmt.Errorf("material %s: %s is in group %d but %s is in group %d", m.name, textureName, tex.Group, samplerName, samp.Group)
	}

	m.Release()
	m.bindGroupProvider = bind_group_provider.NewBindGroupProvider(m.name, tex.Group,
		bind_group_provider.WithTexture(tex.Binding, m.diffuseTexture),
		bind_group_provider.WithSampler(samp.Binding, m.sampler),
	)
	m.pipelineKey = p.Key()
	return m.bindGroupProvider, nil
}

func (m *material) Release() {
	if m.bindGroupProvider != nil {
		m.bindGroupProvider.Release()
	}
}
