package scene

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDegreesPerIndex is the angular speed step between consecutive cubes, in degrees per second.
const DefaultDegreesPerIndex float32 = 20.0

// DefaultPositions are the world positions of the ten tutorial cubes.
var DefaultPositions = []mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}

// DefaultAxis is the shared rotation axis before normalization.
var DefaultAxis = mgl32.Vec3{1.0, 0.3, 0.5}

type cubeField struct {
	positions       []mgl32.Vec3
	axis            mgl32.Vec3
	degreesPerIndex float32

	workers int
	pool    worker.DynamicWorkerPool

	blocks    []*pipeline.UniformBlock
	providers []bind_group_provider.BindGroupProvider
}

// CubeField is a set of cubes spinning about a shared axis, cube i at i times the base angular speed.
// Each cube owns a uniform block holding its model matrix, plus view and projection when the
// block declares them.
type CubeField interface {
	// Positions returns the cube world positions.
	//
	// Returns:
	//   - []mgl32.Vec3: one position per cube
	Positions() []mgl32.Vec3

	// Axis returns the normalized rotation axis.
	//
	// Returns:
	//   - mgl32.Vec3: the unit axis
	Axis() mgl32.Vec3

	// ModelMatrices computes translate(position_i) * rotate(elapsed * radians(step * i), axis)
	// for every cube. The work is split across the field's worker pool and the call returns once
	// every matrix is written.
	//
	// Parameters:
	//   - elapsedSeconds: seconds since the program started
	//
	// Returns:
	//   - []mgl32.Mat4: one model matrix per cube, in position order
	ModelMatrices(elapsedSeconds float32) []mgl32.Mat4

	// Init creates one bind group per cube for the uniform variable uniformName of p.
	// The pipeline must be registered with r.
	//
	// Parameters:
	//   - r: the renderer
	//   - p: the pipeline the cubes are drawn with
	//   - uniformName: the WGSL name of the per-cube uniform, whose struct has a "model" mat4
	//
	// Returns:
	//   - error: error if the uniform is missing, has no model member, or GPU creation fails
	Init(r renderer.Renderer, p pipeline.Pipeline, uniformName string) error

	// Draw writes every cube's matrices, flushes the blocks and records one draw per cube.
	//
	// Parameters:
	//   - r: the renderer with an open frame
	//   - pipelineKey: the registered pipeline key used at Init
	//   - mesh: the cube mesh
	//   - elapsedSeconds: seconds since the program started
	//   - view: the view matrix, written when the block declares "view"
	//   - projection: the projection matrix, written when the block declares "projection"
	//   - shared: bind groups common to every cube (camera, texture)
	//
	// Returns:
	//   - error: error if the field is not initialized or a draw fails
	Draw(r renderer.Renderer, pipelineKey string, mesh *renderer.Mesh, elapsedSeconds float32, view, projection mgl32.Mat4, shared ...bind_group_provider.BindGroupProvider) error

	// Release frees the per-cube bind groups.
	Release()
}

var _ CubeField = &cubeField{}

// NewCubeField creates the ten tutorial cubes unless WithPositions says otherwise.
//
// Parameters:
//   - options: functional options to configure the field
//
// Returns:
//   - CubeField: the field
func NewCubeField(options ...CubeFieldOption) CubeField {
	f := &cubeField{
		positions:       DefaultPositions,
		axis:            DefaultAxis,
		degreesPerIndex: DefaultDegreesPerIndex,
		workers:         max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(f)
	}
	f.axis = f.axis.Normalize()

	// queue size of 256 leaves headroom for one task per worker
	f.pool = worker.NewDynamicWorkerPool(f.workers, 256, 1*time.Second)
	return f
}

func (f *cubeField) Positions() []mgl32.Vec3 {
	return f.positions
}

func (f *cubeField) Axis() mgl32.Vec3 {
	return f.axis
}

func (f *cubeField) ModelMatrices(elapsedSeconds float32) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(f.positions))
	if len(out) == 0 {
		return out
	}

	chunk := (len(out) + f.workers - 1) / f.workers

	// pool.Wait only waits for the queue to drain, not for running tasks, so a WaitGroup is the barrier
	var wg sync.WaitGroup
	for id, start := 0, 0; start < len(out); id, start = id+1, start+chunk {
		end := min(start+chunk, len(out))
		wg.Add(1)
		f.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					out[i] = f.modelMatrix(i, elapsedSeconds)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

func (f *cubeField) modelMatrix(i int, elapsedSeconds float32) mgl32.Mat4 {
	p := f.positions[i]
	angle := elapsedSeconds * mgl32.DegToRad(f.degreesPerIndex*float32(i))
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.HomogRotate3D(angle, f.axis))
}

func (f *cubeField) Init(r renderer.Renderer, p pipeline.Pipeline, uniformName string) error {
	f.Release()

	for i := range f.positions {
		block, binding, err := p.NewUniformBlock(uniformName)
		if err != nil {
			f.Release()
			return err
		}
		if !block.Has("model") {
			f.Release()
			return fmt.Errorf("uniform %s has no model member", uniformName)
		}

		provider := bind_group_provider.NewBindGroupProvider(
			fmt.Sprintf("cube %d", i),
			binding.Group,
			bind_group_provider.WithUniform(binding.Binding, block),
		)
		if err := r.InitBindGroup(p, provider); err != nil {
			f.Release()
			return err
		}

		f.blocks = append(f.blocks, block)
		f.providers = append(f.providers, provider)
	}
	return nil
}

func (f *cubeField) Draw(r renderer.Renderer, pipelineKey string, mesh *renderer.Mesh, elapsedSeconds float32, view, projection mgl32.Mat4, shared ...bind_group_provider.BindGroupProvider) error {
	if len(f.providers) != len(f.positions) {
		return errors.New("cube field is not initialized")
	}

	for i, m := range f.ModelMatrices(elapsedSeconds) {
		if err := writeMatrices(f.blocks[i], m, view, projection); err != nil {
			return err
		}
	}
	r.FlushUniforms(f.providers...)

	for _, provider := range f.providers {
		// full slice expression so shared is never appended into
		groups := append(shared[:len(shared):len(shared)], provider)
		if err := r.DrawCall(pipelineKey, mesh, groups...); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrices fills model and whichever of view and projection the block declares.
func writeMatrices(block *pipeline.UniformBlock, model, view, projection mgl32.Mat4) error {
	if err := block.SetMat4("model", model); err != nil {
		return err
	}
	if block.Has("view") {
		if err := block.SetMat4("view", view); err != nil {
			return err
		}
	}
	if block.Has("projection") {
		if err := block.SetMat4("projection", projection); err != nil {
			return err
		}
	}
	return nil
}

func (f *cubeField) Release() {
	for _, p := range f.providers {
		p.Release()
	}
	f.providers = nil
	f.blocks = nil
}
