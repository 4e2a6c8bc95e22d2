package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlock(t *testing.T, label string) *pipeline.UniformBlock {
	t.Helper()
	b, err := pipeline.NewUniformBlock(label, pipeline.UniformField{Name: "model", Kind: pipeline.UniformMat4})
	require.NoError(t, err)
	return b
}

func TestNewBindGroupProvider(t *testing.T) {
	block := newBlock(t, "object")
	pixels := common.Checkerboard(4, 2, [4]uint8{255, 255, 255, 255}, [4]uint8{0, 0, 0, 255})
	cfg := common.SamplerStagingData{MagFilter: wgpu.FilterModeNearest}

	p := NewBindGroupProvider("cube 3", 2,
		WithUniform(0, block),
		WithTexture(1, pixels),
		WithSampler(2, cfg),
	)

	assert.Equal(t, "cube 3", p.Label())
	assert.Equal(t, 2, p.Group())
	assert.Same(t, block, p.Uniform(0))
	assert.Nil(t, p.Uniform(1))
	assert.Same(t, pixels, p.Texture(1))

	got, ok := p.SamplerConfig(2)
	require.True(t, ok)
	assert.Equal(t, wgpu.FilterModeNearest, got.MagFilter)
	_, ok = p.SamplerConfig(0)
	assert.False(t, ok)

	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
}

func TestPendingWrites(t *testing.T) {
	a := newBlock(t, "a")
	b := newBlock(t, "b")
	p := NewBindGroupProvider("pair", 0, WithUniform(3, b), WithUniform(1, a))

	assert.Empty(t, p.PendingWrites(), "blocks without GPU buffers are not uploaded")
	assert.True(t, a.Dirty())

	// placeholders; never released in this test
	p.SetBuffer(1, &wgpu.Buffer{})
	p.SetBuffer(3, &wgpu.Buffer{})

	writes := p.PendingWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, 1, writes[0].Binding)
	assert.Equal(t, 3, writes[1].Binding)
	assert.Equal(t, uint64(0), writes[0].Offset)
	assert.Len(t, writes[0].Data, 64)
	assert.Same(t, p, writes[0].Provider)
	assert.False(t, a.Dirty())
	assert.False(t, b.Dirty())

	assert.Empty(t, p.PendingWrites())

	require.NoError(t, b.SetMat4("model", mgl32.Ident4()))
	writes = p.PendingWrites()
	require.Len(t, writes, 1)
	assert.Equal(t, 3, writes[0].Binding)
}

func TestReleaseWithoutGPUObjects(t *testing.T) {
	block := newBlock(t, "a")
	p := NewBindGroupProvider("empty", 0, WithUniform(0, block))
	block.ClearDirty()

	assert.NotPanics(t, p.Release)
	assert.True(t, block.Dirty(), "released buffers force a full upload next time")
	assert.Same(t, block, p.Uniform(0))
}
