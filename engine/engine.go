package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-learn/engine/profiler"
	"github.com/Carmen-Shannon/oxy-learn/engine/window"
)

// engine implements the Engine interface.
type engine struct {
	window window.Window
	clock  *profiler.Clock

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	sleep            func(time.Duration)

	quitOnce sync.Once
}

// Engine drives the frame loop on the calling goroutine. Each window message iteration measures
// the frame delta, fires the tick callback (input, camera) and then the render callback. State
// touched by the callbacks, including the camera, is owned by this loop and needs no locking.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Clock returns the frame clock.
	//
	// Returns:
	//   - *profiler.Clock: the clock ticked once per frame
	Clock() *profiler.Clock

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called first in each frame.
	// Use this for input processing and camera updates.
	//
	// Parameters:
	//   - callback: function receiving the frame delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after the tick callback in each frame.
	// Use this for uniform updates and draw calls.
	//
	// Parameters:
	//   - callback: function receiving the frame delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run runs the frame loop until the window closes or Quit is called, then closes the window.
	//
	// Returns:
	//   - error: error if the engine has no window
	Run() error

	// Quit closes the window, which ends Run after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, callbacks)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
		sleep:    time.Sleep,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.clock == nil {
		e.clock = profiler.NewClock()
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Clock() *profiler.Clock {
	return e.clock
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if e.window == nil {
		return errors.New("engine has no window")
	}

	log.Printf("[Engine] Running %q", e.window.Title())
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	e.Quit()
	log.Printf("[Engine] Stopped after %d frames", e.clock.Frames())
	return nil
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] Failed to close window: %v", err)
		}
	})
}

// frame runs one loop iteration: tick, render, profiling, then the optional frame cap.
func (e *engine) frame() {
	start := time.Now()
	dt := e.clock.Tick()

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}
