package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInputSource struct {
	keyDown   func(uint32)
	keyUp     func(uint32)
	mouseMove func(x, y float64)
	scroll    func(float32)
}

func (f *fakeInputSource) SetKeyDownCallback(cb func(keyCode uint32)) {
	f.keyDown = cb
}

func (f *fakeInputSource) SetKeyUpCallback(cb func(keyCode uint32)) {
	f.keyUp = cb
}

func (f *fakeInputSource) SetMouseMoveCallback(cb func(x, y float64)) {
	f.mouseMove = cb
}

func (f *fakeInputSource) SetScrollCallback(cb func(delta float32)) {
	f.scroll = cb
}

func TestFlyControllerHeldKeysMoveCamera(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)

	fc.KeyDown(common.KeyW)
	fc.Update(1.0)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -2.5}, cam.Position(), 1e-6)

	fc.KeyDown(common.KeyD)
	fc.Update(0.5)
	assertVec3InDelta(t, mgl32.Vec3{1.25, 0, -3.75}, cam.Position(), 1e-6)

	fc.KeyUp(common.KeyW)
	fc.KeyUp(common.KeyD)
	fc.Update(1.0)
	assertVec3InDelta(t, mgl32.Vec3{1.25, 0, -3.75}, cam.Position(), 1e-6)
}

func TestFlyControllerOpposingKeysCancel(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)

	fc.KeyDown(common.KeyA)
	fc.KeyDown(common.KeyD)
	fc.Update(1.0)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 0}, cam.Position(), 1e-6)
}

func TestFlyControllerIgnoresUnboundKeys(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)

	fc.KeyDown(common.KeySpace)
	fc.Update(1.0)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Position())
}

func TestFlyControllerExtraBindingSharesDirection(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam, WithKeyBinding(common.KeyUp, Forward))

	// two keys bound to the same direction move once
	fc.KeyDown(common.KeyW)
	fc.KeyDown(common.KeyUp)
	fc.Update(1.0)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -2.5}, cam.Position(), 1e-6)
}

func TestFlyControllerMouseMove(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)

	// first event only seeds the tracker
	fc.MouseMove(400, 300)
	assert.Equal(t, DefaultYaw, cam.Yaw())
	assert.Equal(t, DefaultPitch, cam.Pitch())

	// moving right and up on screen (y decreases) yaws right and pitches up
	fc.MouseMove(500, 250)
	assert.InDelta(t, -80.0, cam.Yaw(), eps)
	assert.InDelta(t, 5.0, cam.Pitch(), eps)

	fc.ResetMouse()
	fc.MouseMove(0, 0)
	assert.InDelta(t, -80.0, cam.Yaw(), eps)
}

func TestFlyControllerPitchConstraint(t *testing.T) {
	constrained := NewCamera()
	fc := NewFlyController(constrained)
	fc.MouseMove(0, 10000)
	fc.MouseMove(0, 0)
	assert.Equal(t, MaxPitch, constrained.Pitch())

	free := NewCamera()
	fc = NewFlyController(free, WithConstrainPitch(false))
	fc.MouseMove(0, 10000)
	fc.MouseMove(0, 0)
	assert.InDelta(t, 1000.0, free.Pitch(), 1e-3)
}

func TestFlyControllerScroll(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)

	fc.Scroll(3)
	assert.Equal(t, float32(42), cam.Zoom())
	fc.Scroll(-10)
	assert.Equal(t, MaxZoom, cam.Zoom())
}

func TestFlyControllerBind(t *testing.T) {
	cam := NewCamera()
	fc := NewFlyController(cam)
	src := &fakeInputSource{}
	fc.Bind(src)

	require.NotNil(t, src.keyDown)
	require.NotNil(t, src.keyUp)
	require.NotNil(t, src.mouseMove)
	require.NotNil(t, src.scroll)

	src.keyDown(common.KeyS)
	fc.Update(2)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 5}, cam.Position(), 1e-6)
	src.keyUp(common.KeyS)

	src.scroll(44)
	assert.Equal(t, MinZoom, cam.Zoom())

	assert.Same(t, cam, fc.Camera())
}
