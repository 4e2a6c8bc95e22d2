package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cubeVertexSource = `// @oxy:include camera
// @oxy:include model

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(2) @binding(0) var<uniform> object: ModelUniform;
// @group(3) @binding(0) var<uniform> unused: ModelUniform;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.projection * camera.view * object.model * vec4<f32>(in.position, 1.0);
    out.uv = in.uv;
    return out;
}
`

const textureFragmentSource = `struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@group(1) @binding(0) var diffuse: texture_2d<f32>;
@group(1) @binding(1) var diffuseSampler: sampler;

/* block comments /* nest */ and are ignored */
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(diffuse, diffuseSampler, in.uv);
}
`

func TestNewShaderVertex(t *testing.T) {
	s, err := NewShader("cube_vs", ShaderTypeVertex, cubeVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "cube_vs", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, []string{IncludeCamera, IncludeModel}, s.Includes())
	assert.Contains(t, s.Source(), "struct CameraUniform")
	assert.Contains(t, s.Source(), "struct ModelUniform")
	assert.NotContains(t, s.Source(), "@oxy:include")

	require.NotNil(t, s.Module())
	assert.Equal(t, "cube_vs", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
}

func TestVertexLayoutReflection(t *testing.T) {
	s, err := NewShader("cube_vs", ShaderTypeVertex, cubeVertexSource)
	require.NoError(t, err)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	l := layouts[0]
	assert.Equal(t, uint64(20), l.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, l.StepMode)
	require.Len(t, l.Attributes, 2)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, l.Attributes[0])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, l.Attributes[1])
}

func TestBindGroupReflectionUniforms(t *testing.T) {
	s, err := NewShader("cube_vs", ShaderTypeVertex, cubeVertexSource)
	require.NoError(t, err)

	groups := s.BindGroupLayouts()
	require.Len(t, groups, 2, "commented-out bindings are not reflected")

	cam := groups[0].Entries
	require.Len(t, cam, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam[0].Buffer.Type)
	assert.Equal(t, uint64(144), cam[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam[0].Visibility)

	obj := groups[2].Entries
	require.Len(t, obj, 1)
	assert.Equal(t, uint64(64), obj[0].Buffer.MinBindingSize)

	b, ok := s.Binding(2, 0)
	require.True(t, ok)
	assert.Equal(t, Binding{Group: 2, Binding: 0, Name: "object", Type: "ModelUniform"}, b)

	b, ok = s.BindingByName("camera")
	require.True(t, ok)
	assert.Equal(t, 0, b.Group)
	assert.Equal(t, "CameraUniform", b.Type)

	_, ok = s.Binding(3, 0)
	assert.False(t, ok)
	_, ok = s.BindingByName("unused")
	assert.False(t, ok)
}

func TestBindGroupReflectionTextures(t *testing.T) {
	s, err := NewShader("texture_fs", ShaderTypeFragment, textureFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())

	entries := s.BindGroupLayouts()[1].Entries
	require.Len(t, entries, 2)

	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)

	assert.Equal(t, uint32(1), entries[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
}

func TestStructReflection(t *testing.T) {
	src := `// @oxy:include transform
struct Mixed {
    a: vec3<f32>,
    b: f32,
    c: vec4<f32>,
    d: vec3<f32>,
};
struct Nested {
    m: Mixed,
    s: f32,
};
@vertex
fn main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`
	s, err := NewShader("layout", ShaderTypeVertex, src)
	require.NoError(t, err)

	tr, ok := s.Struct("TransformUniform")
	require.True(t, ok)
	assert.Equal(t, uint64(192), tr.Size)
	for i, name := range []string{"model", "view", "projection"} {
		f, ok := tr.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, uint64(i*64), f.Offset, name)
	}

	m, ok := s.Struct("Mixed")
	require.True(t, ok)
	offsets := make([]uint64, 0, len(m.Fields))
	for _, f := range m.Fields {
		offsets = append(offsets, f.Offset)
	}
	assert.Equal(t, []uint64{0, 12, 16, 32}, offsets)
	assert.Equal(t, uint64(48), m.Size)
	assert.Equal(t, uint64(16), m.Align)

	n, ok := s.Struct("Nested")
	require.True(t, ok)
	f, ok := n.Field("s")
	require.True(t, ok)
	assert.Equal(t, uint64(48), f.Offset)
	assert.Equal(t, uint64(64), n.Size)

	_, ok = s.Struct("Missing")
	assert.False(t, ok)
	_, ok = m.Field("missing")
	assert.False(t, ok)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []ShaderBuilderOption
		want   string
	}{
		{"empty source", "", nil, "source is empty"},
		{"unknown include", "@vertex fn main() {}\n// @oxy:include light\n", nil, `line 2: unknown include "light"`},
		{"include without name", "// @oxy:include\n@vertex fn main() {}", nil, "line 1"},
		{"include with two names", "// @oxy:include camera model\n@vertex fn main() {}", nil, "exactly one name"},
		{"no entry point", "fn helper() {}", nil, "no @vertex entry point"},
		{"missing override", "@vertex fn main() {}", []ShaderBuilderOption{WithEntryPoint("vs_main")}, `entry point "vs_main" not found`},
		{
			"unsupported attribute",
			"struct In { @location(0) m: mat4x4<f32>, };\n@vertex fn main(in: In) {}",
			nil,
			`unsupported attribute type "mat4x4<f32>"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShader("bad", ShaderTypeVertex, tt.source, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "shader bad")
		})
	}
}

func TestWithEntryPoint(t *testing.T) {
	src := "@vertex fn first() {}\n@vertex fn second() {}\n"
	s, err := NewShader("multi", ShaderTypeVertex, src)
	require.NoError(t, err)
	assert.Equal(t, "first", s.EntryPoint())

	s, err = NewShader("multi", ShaderTypeVertex, src, WithEntryPoint("second"))
	require.NoError(t, err)
	assert.Equal(t, "second", s.EntryPoint())
}

func TestWithInclude(t *testing.T) {
	src := "// @oxy:include tint\n@fragment fn fs_main() -> @location(0) vec4<f32> { return tint; }\n"
	s, err := NewShader("tint", ShaderTypeFragment, src, WithInclude("tint", "const tint = vec4<f32>(1.0);\n"))
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "const tint = vec4<f32>(1.0);\n@fragment")
	assert.Equal(t, []string{"tint"}, s.Includes())
}

func TestLoadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "texture.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(textureFragmentSource), 0o644))

	s, err := LoadShader("texture_fs", ShaderTypeFragment, path)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())
}

func TestLoadShaderReadFailure(t *testing.T) {
	s, err := LoadShader("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "missing.wgsl"))
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestShaderTypeStrings(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "unknown", ShaderType(9).String())
	assert.Equal(t, wgpu.ShaderStageNone, ShaderType(9).Stage())
}

func TestTypeLayout(t *testing.T) {
	size, align, ok := TypeLayout("vec3<f32>")
	require.True(t, ok)
	assert.Equal(t, uint64(12), size)
	assert.Equal(t, uint64(16), align)

	size, align, ok = TypeLayout("mat4x4f")
	require.True(t, ok)
	assert.Equal(t, uint64(64), size)
	assert.Equal(t, uint64(16), align)

	_, _, ok = TypeLayout("bool")
	assert.False(t, ok)
}
