package camera

import (
	"github.com/Carmen-Shannon/oxy-learn/common"
)

// InputSource is anything that can deliver keyboard, pointer and scroll events.
// The GLFW window in engine/window satisfies it.
type InputSource interface {
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	SetMouseMoveCallback(callback func(x, y float64))
	SetScrollCallback(callback func(delta float32))
}

// FlyController translates raw host input into Camera operations. It owns no camera state
// of its own beyond held keys and the last pointer position; the camera is passed in
// explicitly at construction.
type FlyController interface {
	// Camera returns the camera driven by this controller.
	//
	// Returns:
	//   - Camera: the controlled camera
	Camera() Camera

	// Bind registers the controller's handlers on an input source.
	//
	// Parameters:
	//   - src: the event source to listen on
	Bind(src InputSource)

	// KeyDown marks a key as held.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyDown(keyCode uint32)

	// KeyUp marks a key as released.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	KeyUp(keyCode uint32)

	// MouseMove feeds an absolute pointer position in screen space (y grows downward).
	// The first position after construction or ResetMouse only seeds the tracker.
	//
	// Parameters:
	//   - x, y: pointer position in screen coordinates
	MouseMove(x, y float64)

	// ResetMouse forgets the last pointer position so the next MouseMove does not jump.
	ResetMouse()

	// Scroll feeds a vertical scroll-wheel delta to the camera zoom.
	//
	// Parameters:
	//   - delta: vertical scroll offset
	Scroll(delta float32)

	// Update applies movement for every held direction over the elapsed frame time.
	//
	// Parameters:
	//   - deltaSeconds: time since the previous frame in seconds
	Update(deltaSeconds float32)
}

type flyControllerImpl struct {
	camera Camera

	bindings map[uint32]MoveDirection
	held     map[uint32]bool

	constrainPitch bool

	firstMouse bool
	lastX      float64
	lastY      float64
}

var _ FlyController = &flyControllerImpl{}

// directionOrder fixes the order movement is applied within one Update.
var directionOrder = [...]MoveDirection{Forward, Backward, Left, Right}

// NewFlyController creates a controller for cam with WASD bindings and pitch constraint enabled.
//
// Parameters:
//   - cam: the camera to drive
//   - options: functional options to configure the controller
//
// Returns:
//   - FlyController: the newly created controller
func NewFlyController(cam Camera, options ...FlyControllerOption) FlyController {
	fc := &flyControllerImpl{
		camera: cam,
		bindings: map[uint32]MoveDirection{
			common.KeyW: Forward,
			common.KeyS: Backward,
			common.KeyA: Left,
			common.KeyD: Right,
		},
		held:           make(map[uint32]bool),
		constrainPitch: true,
		firstMouse:     true,
	}
	for _, option := range options {
		option(fc)
	}
	return fc
}

func (fc *flyControllerImpl) Camera() Camera {
	return fc.camera
}

func (fc *flyControllerImpl) Bind(src InputSource) {
	src.SetKeyDownCallback(fc.KeyDown)
	src.SetKeyUpCallback(fc.KeyUp)
	src.SetMouseMoveCallback(fc.MouseMove)
	src.SetScrollCallback(fc.Scroll)
}

func (fc *flyControllerImpl) KeyDown(keyCode uint32) {
	if _, ok := fc.bindings[keyCode]; ok {
		fc.held[keyCode] = true
	}
}

func (fc *flyControllerImpl) KeyUp(keyCode uint32) {
	delete(fc.held, keyCode)
}

func (fc *flyControllerImpl) MouseMove(x, y float64) {
	if fc.firstMouse {
		fc.lastX = x
		fc.lastY = y
		fc.firstMouse = false
		return
	}

	xOffset := x - fc.lastX
	yOffset := fc.lastY - y // screen y grows downward
	fc.lastX = x
	fc.lastY = y

	fc.camera.ApplyLookDelta(float32(xOffset), float32(yOffset), fc.constrainPitch)
}

func (fc *flyControllerImpl) ResetMouse() {
	fc.firstMouse = true
}

func (fc *flyControllerImpl) Scroll(delta float32) {
	fc.camera.ApplyZoomDelta(delta)
}

func (fc *flyControllerImpl) Update(deltaSeconds float32) {
	var active [len(directionOrder)]bool
	for key := range fc.held {
		if dir := fc.bindings[key]; dir >= 0 && int(dir) < len(active) {
			active[dir] = true
		}
	}
	for _, dir := range directionOrder {
		if active[dir] {
			fc.camera.ApplyMovement(dir, deltaSeconds)
		}
	}
}

// FlyControllerOption is a functional option for configuring a FlyController.
type FlyControllerOption func(*flyControllerImpl)

// WithKeyBinding maps an additional key code to a movement direction.
//
// Parameters:
//   - keyCode: the virtual key code
//   - dir: the direction the key moves the camera
//
// Returns:
//   - FlyControllerOption: functional option to add the binding
func WithKeyBinding(keyCode uint32, dir MoveDirection) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.bindings[keyCode] = dir
	}
}

// WithConstrainPitch sets whether mouse look clamps pitch to [-MaxPitch, MaxPitch].
//
// Parameters:
//   - constrain: true to clamp pitch (default)
//
// Returns:
//   - FlyControllerOption: functional option to set the pitch constraint
func WithConstrainPitch(constrain bool) FlyControllerOption {
	return func(fc *flyControllerImpl) {
		fc.constrainPitch = constrain
	}
}
