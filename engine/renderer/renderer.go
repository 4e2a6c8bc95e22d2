package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-learn/engine/model"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-learn/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           wgpu.Color
	pending              []pipeline.Pipeline
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the WebGPU device and surface, a cache of registered pipelines, and the
// per-frame command encoding. A frame is BeginFrame, any number of DrawCall, EndFrame, Present.
type Renderer interface {
	// Resize reconfigures the surface and depth target. A zero size leaves the surface
	// unavailable until the next non-zero resize.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	//
	// Returns:
	//   - error: error if the GPU targets cannot be created
	Resize(width, height int) error

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor changes the color the frame is cleared to.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// Pipeline retrieves the registered Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the keys of every registered Pipeline.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a copy of the pipeline cache
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by key.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if shader compilation or pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// CreateMesh uploads geometry after checking that its vertex layout matches what the
	// pipeline's vertex shader consumes.
	//
	// Parameters:
	//   - p: the pipeline the mesh will be drawn with
	//   - g: the geometry to upload
	//
	// Returns:
	//   - *Mesh: the uploaded mesh
	//   - error: error if the layouts differ or buffer creation fails
	CreateMesh(p pipeline.Pipeline, g *model.Geometry) (*Mesh, error)

	// InitBindGroup creates the buffers, textures, samplers and bind group for a provider from
	// the layout p declares at the provider's group index, then uploads its uniform blocks.
	// The pipeline must already be registered.
	//
	// Parameters:
	//   - p: the pipeline whose layout the group follows
	//   - provider: the staged resources
	//
	// Returns:
	//   - error: error if a declared binding has no staged resource or GPU creation fails
	InitBindGroup(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider) error

	// FlushUniforms uploads every dirty uniform block of the providers.
	//
	// Parameters:
	//   - providers: the bind groups to flush
	FlushUniforms(providers ...bind_group_provider.BindGroupProvider)

	// BeginFrame acquires the next surface texture and begins the render pass.
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable while minimized, or an acquisition error
	BeginFrame() error

	// DrawCall records one draw of mesh with the pipeline registered under pipelineKey.
	// Exactly one provider must be supplied for every bind group the pipeline declares.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - mesh: the mesh to draw
	//   - bindGroups: the bind groups, in any order
	//
	// Returns:
	//   - error: error if the pipeline is unknown, bind groups are missing, or no frame is open
	DrawCall(pipelineKey string, mesh *Mesh, bindGroups ...bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the recorded commands.
	//
	// Returns:
	//   - error: error if command encoding fails
	EndFrame() error

	// Present presents the acquired surface texture.
	Present()

	// Release frees every GPU object owned by the renderer. Meshes and bind group providers are
	// released by their owners.
	Release()
}

var _ Renderer = &renderer{}

// newRenderer applies options over the defaults without touching the GPU.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		sampleCount:   MSAA4x,
		clearColor:    wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// NewRenderer creates a new Renderer on the window's surface and configures it to the window size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if no adapter or device is available, or a pre-registered pipeline fails
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	desc := win.SurfaceDescriptor()
	if desc == nil {
		return nil, errors.New("window has no surface")
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(desc, r.forceFallbackAdapter, r.sampleCount)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer backend: %w", err)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.SetClearColor(r.clearColor)
	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}

	if err := r.RegisterPipelines(r.pending...); err != nil {
		r.Release()
		return nil, err
	}
	r.pending = nil

	log.Printf("[Renderer] Initialized %dx%d, MSAA %dx", win.Width(), win.Height(), r.sampleCount)
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color wgpu.Color) {
	r.backend.SetClearColor(color)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.Key()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %s: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) CreateMesh(p pipeline.Pipeline, g *model.Geometry) (*Mesh, error) {
	if err := checkMeshLayout(p, g); err != nil {
		return nil, err
	}
	mesh := &Mesh{
		label:       g.Label,
		format:      g.Format,
		vertexCount: g.VertexCount(),
		indexCount:  uint32(len(g.Indices)),
	}
	if err := r.backend.InitMesh(mesh, g); err != nil {
		mesh.Release()
		return nil, fmt.Errorf("failed to upload mesh %s: %w", g.Label, err)
	}
	return mesh, nil
}

func (r *renderer) InitBindGroup(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider) error {
	if err := r.backend.InitBindGroup(p, provider); err != nil {
		return fmt.Errorf("failed to create bind group %s: %w", provider.Label(), err)
	}
	return nil
}

func (r *renderer) FlushUniforms(providers ...bind_group_provider.BindGroupProvider) {
	var writes []bind_group_provider.BufferWrite
	for _, p := range providers {
		writes = append(writes, p.PendingWrites()...)
	}
	if len(writes) > 0 {
		r.backend.WriteBuffers(writes)
	}
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, mesh *Mesh, bindGroups ...bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	if mesh == nil {
		return fmt.Errorf("render pipeline %q: mesh is nil", pipelineKey)
	}

	ordered, err := orderBindGroups(p, bindGroups)
	if err != nil {
		return err
	}
	return r.backend.DrawCall(p, mesh, ordered)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil {
		return
	}
	r.backend.Release()
	r.backend = nil
	for _, p := range r.pipelineCache {
		p.SetRenderPipeline(nil)
	}
	r.pipelineCache = make(map[string]pipeline.Pipeline)
}
