package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-learn/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of message loop iterations.
type fakeWindow struct {
	iterations int
	closes     int
	closed     bool
	onUpdate   func()
}

func (w *fakeWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) {
}

func (w *fakeWindow) SetScrollCallback(callback func(delta float32)) {
}

func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
}

func (w *fakeWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
}

func (w *fakeWindow) SetMouseMoveCallback(callback func(x, y float64)) {
}

func (w *fakeWindow) SetCursorCaptured(captured bool) {
}

func (w *fakeWindow) CursorCaptured() bool {
	return false
}

func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *fakeWindow) Time() float64 {
	return 0
}

func (w *fakeWindow) IsRunning() bool {
	return !w.closed && w.iterations > 0
}

func (w *fakeWindow) Title() string {
	return "fake"
}

func (w *fakeWindow) Width() int {
	return 800
}

func (w *fakeWindow) Height() int {
	return 600
}

func (w *fakeWindow) AspectRatio() float32 {
	return 800.0 / 600.0
}

func (w *fakeWindow) Close() error {
	w.closes++
	if w.closed {
		return errors.New("window is not initialized")
	}
	w.closed = true
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		w.iterations--
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

// steppedTime advances by step on every call.
func steppedTime(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestRunOrdersCallbacks(t *testing.T) {
	w := &fakeWindow{iterations: 3}
	clock := profiler.NewClock(profiler.WithTimeSource(steppedTime(16 * time.Millisecond)))

	var calls []string
	var deltas []float32
	e := NewEngine(
		WithWindow(w),
		WithClock(clock),
		WithTickCallback(func(dt float32) {
			calls = append(calls, "tick")
			deltas = append(deltas, dt)
		}),
		WithRenderCallback(func(dt float32) { calls = append(calls, "render") }),
	)

	require.NoError(t, e.Run())
	assert.Equal(t, []string{"tick", "render", "tick", "render", "tick", "render"}, calls)
	require.Len(t, deltas, 3)
	for _, dt := range deltas {
		assert.InDelta(t, 0.016, dt, 1e-6)
	}
	assert.Equal(t, uint64(3), e.Clock().Frames())
	assert.Equal(t, 1, w.closes, "the window is closed once when the loop ends")
	assert.Nil(t, w.onUpdate)
}

func TestQuitFromCallback(t *testing.T) {
	w := &fakeWindow{iterations: 100}
	frames := 0
	var e Engine
	e = NewEngine(WithWindow(w), WithTickCallback(func(float32) {
		frames++
		if frames == 2 {
			e.Quit()
		}
	}))

	require.NoError(t, e.Run())
	assert.Equal(t, 2, frames)
	assert.Equal(t, 1, w.closes)

	e.Quit()
	assert.Equal(t, 1, w.closes)
}

func TestRunWithoutWindow(t *testing.T) {
	e := NewEngine()
	assert.EqualError(t, e.Run(), "engine has no window")
	assert.Nil(t, e.Window())
	assert.NotPanics(t, e.Quit)
}

func TestRenderFrameLimit(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(50)).(*engine)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)

	var slept time.Duration
	e.sleep = func(d time.Duration) { slept += d }
	e.frame()
	assert.Greater(t, slept, time.Duration(0))
	assert.LessOrEqual(t, slept, 20*time.Millisecond)

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

func TestProfilerToggle(t *testing.T) {
	var lines int
	p := profiler.NewProfiler(
		profiler.WithInterval(time.Nanosecond),
		profiler.WithProfilerTimeSource(steppedTime(time.Second)),
		profiler.WithLogf(func(string, ...any) { lines++ }),
	)
	e := NewEngine(WithProfiler(p)).(*engine)

	e.frame()
	assert.Zero(t, lines, "profiling is off by default")

	e.EnableProfiler()
	e.frame()
	assert.Equal(t, 1, lines)

	e.DisableProfiler()
	e.frame()
	assert.Equal(t, 1, lines)

	e = NewEngine(WithProfiling(true), WithProfiler(p)).(*engine)
	e.frame()
	assert.Equal(t, 2, lines)
}

func TestSetCallbacks(t *testing.T) {
	e := NewEngine().(*engine)
	ticked, rendered := false, false
	e.SetTickCallback(func(float32) { ticked = true })
	e.SetRenderCallback(func(float32) { rendered = true })
	e.frame()
	assert.True(t, ticked)
	assert.True(t, rendered)
}
