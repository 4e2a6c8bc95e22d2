package material

import (
	"github.com/Carmen-Shannon/oxy-learn/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material, also used as the GPU resource label
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithDiffuseTexture is an option builder that sets the diffuse texture pixels.
//
// Parameters:
//   - tex: RGBA staging data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithSampler is an option builder that sets the sampler configuration. Zero fields keep linear
// filtering with repeat addressing.
//
// Parameters:
//   - cfg: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(cfg common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = cfg
	}
}
