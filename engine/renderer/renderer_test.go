package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-learn/engine/model"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const texturedVertexSource = `// @oxy:include model
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> object: ModelUniform;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = object.model * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}
`

const texturedFragmentSource = `struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(1) @binding(0) var diffuse: texture_2d<f32>;
@group(1) @binding(1) var diffuseSampler: sampler;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(diffuse, diffuseSampler, in.uv);
}
`

func newTexturedPipeline(t *testing.T) pipeline.Pipeline {
	t.Helper()
	vs, err := shader.NewShader("textured_vs", shader.ShaderTypeVertex, texturedVertexSource)
	require.NoError(t, err)
	fs, err := shader.NewShader("textured_fs", shader.ShaderTypeFragment, texturedFragmentSource)
	require.NoError(t, err)
	p, err := pipeline.NewPipeline("textured", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))
	require.NoError(t, err)
	return p
}

func TestParsePresentMode(t *testing.T) {
	tests := []struct {
		in   string
		want PresentMode
	}{
		{"fifo", PresentModeVSync},
		{"VSync", PresentModeVSync},
		{" immediate ", PresentModeUncapped},
		{"uncapped", PresentModeUncapped},
		{"MAILBOX", PresentModeMailbox},
	}
	for _, tc := range tests {
		got, err := ParsePresentMode(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParsePresentMode("triple")
	assert.ErrorContains(t, err, `unknown present mode "triple"`)
}

func TestPresentModeMapping(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, PresentModeVSync.wgpu())
	assert.Equal(t, wgpu.PresentModeImmediate, PresentModeUncapped.wgpu())
	assert.Equal(t, wgpu.PresentModeMailbox, PresentModeMailbox.wgpu())
	assert.Equal(t, wgpu.PresentModeFifo, PresentMode(9).wgpu())
}

func TestRendererOptions(t *testing.T) {
	r := newRenderer(BackendTypeWGPU)
	assert.Equal(t, PresentModeVSync, r.presentMode)
	assert.Equal(t, MSAA4x, r.sampleCount)
	assert.False(t, r.forceFallbackAdapter)
	assert.Empty(t, r.pending)

	p := newTexturedPipeline(t)
	clear := wgpu.Color{R: 0.2, G: 0.3, B: 0.3, A: 1}
	r = newRenderer(BackendTypeWGPU,
		WithPresentMode(PresentModeMailbox),
		WithMSAA(MSAAOff),
		WithClearColor(clear),
		WithForceSoftwareRenderer(true),
		WithPipeline(p),
	)
	assert.Equal(t, PresentModeMailbox, r.presentMode)
	assert.Equal(t, MSAAOff, r.sampleCount)
	assert.Equal(t, clear, r.clearColor)
	assert.True(t, r.forceFallbackAdapter)
	require.Len(t, r.pending, 1)
	assert.Same(t, p, r.pending[0])

	r = newRenderer(BackendTypeWGPU, WithMSAA(0))
	assert.Equal(t, MSAAOff, r.sampleCount, "zero samples means off")
}

func TestCheckMeshLayout(t *testing.T) {
	p := newTexturedPipeline(t)

	assert.NoError(t, checkMeshLayout(p, model.Cube()))

	err := checkMeshLayout(p, model.Triangle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects a 20-byte vertex stride")
	assert.Contains(t, err.Error(), "(24 bytes)")

	assert.ErrorContains(t, checkMeshLayout(p, nil), "geometry is nil")
}

func TestOrderBindGroups(t *testing.T) {
	p := newTexturedPipeline(t)

	object := bind_group_provider.NewBindGroupProvider("object", 0)
	texture := bind_group_provider.NewBindGroupProvider("texture", 1)

	_, err := orderBindGroups(p, []bind_group_provider.BindGroupProvider{texture})
	assert.ErrorContains(t, err, "bind group 0 not supplied")

	_, err = orderBindGroups(p, []bind_group_provider.BindGroupProvider{object, texture, object})
	assert.ErrorContains(t, err, "supplied twice")

	_, err = orderBindGroups(p, []bind_group_provider.BindGroupProvider{bind_group_provider.NewBindGroupProvider("extra", 2)})
	assert.ErrorContains(t, err, "has no bind group 2")

	_, err = orderBindGroups(p, []bind_group_provider.BindGroupProvider{texture, object})
	assert.ErrorContains(t, err, "is not initialized")

	// placeholders; never released in this test
	object.SetBindGroup(&wgpu.BindGroup{})
	texture.SetBindGroup(&wgpu.BindGroup{})

	ordered, err := orderBindGroups(p, []bind_group_provider.BindGroupProvider{texture, object})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Same(t, object, ordered[0])
	assert.Same(t, texture, ordered[1])
}

func TestMeshDrawCount(t *testing.T) {
	m := &Mesh{label: "quad", format: model.FormatPositionColorUV, vertexCount: 4, indexCount: 6}
	assert.True(t, m.Indexed())
	assert.Equal(t, uint32(6), m.DrawCount())
	assert.Equal(t, "quad", m.Label())
	assert.Equal(t, model.FormatPositionColorUV, m.Format())

	m = &Mesh{vertexCount: 36}
	assert.False(t, m.Indexed())
	assert.Equal(t, uint32(36), m.DrawCount())
	assert.NotPanics(t, m.Release)
}
