package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const texturedSource = `// @oxy:include camera

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var diffuse: texture_2d<f32>;
@group(1) @binding(1) var diffuseSampler: sampler;
@group(2) @binding(0) var loose: sampler;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.projection * camera.view * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(diffuse, diffuseSampler, in.uv);
}
`

func newTexturedPipeline(t *testing.T) pipeline.Pipeline {
	t.Helper()
	vs, err := shader.NewShader("textured_vs", shader.ShaderTypeVertex, texturedSource)
	require.NoError(t, err)
	fs, err := shader.NewShader("textured_fs", shader.ShaderTypeFragment, texturedSource)
	require.NoError(t, err)
	p, err := pipeline.NewPipeline("textured", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))
	require.NoError(t, err)
	return p
}

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, "material", m.Name())
	assert.Nil(t, m.DiffuseTexture())
	assert.Equal(t, common.SamplerStagingData{}, m.Sampler())
	assert.Empty(t, m.PipelineKey())
	assert.Nil(t, m.BindGroupProvider())
}

func TestMaterialBind(t *testing.T) {
	tex := common.Checkerboard(4, 2, [4]uint8{255, 255, 255, 255}, [4]uint8{0, 0, 0, 255})
	cfg := common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest}
	m := NewMaterial(WithName("wall"), WithDiffuseTexture(tex), WithSampler(cfg))

	provider, err := m.Bind(newTexturedPipeline(t), "diffuse", "diffuseSampler")
	require.NoError(t, err)

	assert.Equal(t, "wall", provider.Label())
	assert.Equal(t, 1, provider.Group())
	assert.Same(t, tex, provider.Texture(0))
	got, ok := provider.SamplerConfig(1)
	require.True(t, ok)
	assert.Equal(t, wgpu.FilterModeNearest, got.MagFilter)

	assert.Equal(t, "textured", m.PipelineKey())
	assert.Same(t, provider, m.BindGroupProvider())
}

func TestMaterialBindErrors(t *testing.T) {
	p := newTexturedPipeline(t)
	tex := common.Checkerboard(2, 1, [4]uint8{}, [4]uint8{})

	cases := []struct {
		name     string
		material Material
		texture  string
		sampler  string
		want     string
	}{
		{"no texture", NewMaterial(), "diffuse", "diffuseSampler", "has no diffuse texture"},
		{"missing texture", NewMaterial(WithDiffuseTexture(tex)), "albedo", "diffuseSampler", "has no binding albedo"},
		{"not a texture", NewMaterial(WithDiffuseTexture(tex)), "camera", "diffuseSampler", "not a texture"},
		{"missing sampler", NewMaterial(WithDiffuseTexture(tex)), "diffuse", "nearest", "has no binding nearest"},
		{"not a sampler", NewMaterial(WithDiffuseTexture(tex)), "diffuse", "diffuse", "not a sampler"},
		{"split groups", NewMaterial(WithDiffuseTexture(tex)), "diffuse", "loose", "group 1 but loose is in group 2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.material.Bind(p, tc.texture, tc.sampler)
			assert.ErrorContains(t, err, tc.want)
			assert.Nil(t, tc.material.BindGroupProvider())
		})
	}
}
