package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Default camera values.
const (
	DefaultYaw              float32 = -90.0
	DefaultPitch            float32 = 0.0
	DefaultMoveSpeed        float32 = 2.5
	DefaultMouseSensitivity float32 = 0.1
	DefaultZoom             float32 = 45.0

	// MaxPitch bounds |pitch| when the constraint is requested. At ±90° the front vector
	// becomes parallel to world up and the right vector degenerates.
	MaxPitch float32 = 89.0

	MinZoom float32 = 1.0
	MaxZoom float32 = 45.0
)

type cameraImpl struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3
	worldUp  mgl32.Vec3

	// Euler angles in degrees
	yaw   float32
	pitch float32

	moveSpeed        float32
	mouseSensitivity float32
	zoom             float32
}

// Camera is a Euler-angle fly camera. It converts discrete movement impulses, look deltas
// and scroll impulses into a position and an orthonormal front/right/up basis, and produces
// the view transform for the current state.
//
// The basis is always a function of (yaw, pitch, world up): every operation that changes
// yaw or pitch recomputes front, right and up before returning.
//
// A Camera is not safe for concurrent use. It is owned by the frame loop that drives it;
// callers sharing one across goroutines must serialize every call.
type Camera interface {
	// Position returns the world-space eye location.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// SetPosition moves the eye to p without touching the orientation.
	//
	// Parameters:
	//   - p: the new world-space position
	SetPosition(p mgl32.Vec3)

	// Front returns the unit forward look direction.
	//
	// Returns:
	//   - mgl32.Vec3: the derived front vector
	Front() mgl32.Vec3

	// Up returns the unit camera-local up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the derived up vector
	Up() mgl32.Vec3

	// Right returns the unit camera-local right vector.
	//
	// Returns:
	//   - mgl32.Vec3: the derived right vector
	Right() mgl32.Vec3

	// WorldUp returns the fixed reference up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the world up vector
	WorldUp() mgl32.Vec3

	// Yaw returns the rotation about world up in degrees.
	//
	// Returns:
	//   - float32: yaw in degrees
	Yaw() float32

	// Pitch returns the rotation about the right axis in degrees.
	//
	// Returns:
	//   - float32: pitch in degrees
	Pitch() float32

	// MoveSpeed returns the linear movement speed in units per second.
	//
	// Returns:
	//   - float32: movement speed
	MoveSpeed() float32

	// MouseSensitivity returns the look sensitivity in degrees per input unit.
	//
	// Returns:
	//   - float32: mouse sensitivity
	MouseSensitivity() float32

	// Zoom returns the field-of-view proxy in degrees, always within [MinZoom, MaxZoom].
	//
	// Returns:
	//   - float32: zoom in degrees
	Zoom() float32

	// ViewMatrix returns the look-at transform built from the position, the target
	// position+front and the derived up vector. It has no side effects.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns a WebGPU perspective projection whose vertical field of view
	// is the current zoom.
	//
	// Parameters:
	//   - aspect: viewport aspect ratio (width / height)
	//   - near: near clipping plane distance
	//   - far: far clipping plane distance
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	ProjectionMatrix(aspect, near, far float32) mgl32.Mat4

	// ApplyMovement displaces the position along front (Forward/Backward) or right (Right/Left)
	// by MoveSpeed * elapsedSeconds. The orientation is not changed. Zero or negative elapsed
	// time yields zero or reversed displacement.
	//
	// Parameters:
	//   - direction: the movement direction
	//   - elapsedSeconds: frame delta time in seconds
	ApplyMovement(direction MoveDirection, elapsedSeconds float32)

	// ApplyLookDelta scales both offsets by MouseSensitivity and adds them to yaw and pitch.
	// When constrainPitch is true pitch is clamped to [-MaxPitch, MaxPitch] before the basis
	// is re-derived. The basis is re-derived unconditionally. A positive yOffset looks up.
	//
	// Parameters:
	//   - xOffset: horizontal look delta in input units
	//   - yOffset: vertical look delta in input units, positive = up
	//   - constrainPitch: whether to clamp pitch
	ApplyLookDelta(xOffset, yOffset float32, constrainPitch bool)

	// ApplyZoomDelta subtracts scrollOffset from zoom and then clamps it to [MinZoom, MaxZoom].
	//
	// Parameters:
	//   - scrollOffset: vertical scroll delta
	ApplyZoomDelta(scrollOffset float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a fly camera. Without options the camera sits at the origin, uses +Y as
// world up, and looks down -Z (yaw -90°, pitch 0°). The basis is derived before returning.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		position:         mgl32.Vec3{0, 0, 0},
		worldUp:          mgl32.Vec3{0, 1, 0},
		yaw:              DefaultYaw,
		pitch:            DefaultPitch,
		moveSpeed:        DefaultMoveSpeed,
		mouseSensitivity: DefaultMouseSensitivity,
		zoom:             DefaultZoom,
	}
	for _, option := range options {
		option(c)
	}
	c.updateVectors()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.position = p
}

func (c *cameraImpl) Front() mgl32.Vec3 {
	return c.front
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.up
}

func (c *cameraImpl) Right() mgl32.Vec3 {
	return c.right
}

func (c *cameraImpl) WorldUp() mgl32.Vec3 {
	return c.worldUp
}

func (c *cameraImpl) Yaw() float32 {
	return c.yaw
}

func (c *cameraImpl) Pitch() float32 {
	return c.pitch
}

func (c *cameraImpl) MoveSpeed() float32 {
	return c.moveSpeed
}

func (c *cameraImpl) MouseSensitivity() float32 {
	return c.mouseSensitivity
}

func (c *cameraImpl) Zoom() float32 {
	return c.zoom
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

func (c *cameraImpl) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return common.Perspective(mgl32.DegToRad(c.zoom), aspect, near, far)
}

func (c *cameraImpl) ApplyMovement(direction MoveDirection, elapsedSeconds float32) {
	velocity := c.moveSpeed * elapsedSeconds
	switch direction {
	case Forward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case Backward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case Left:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case Right:
		c.position = c.position.Add(c.right.Mul(velocity))
	}
}

func (c *cameraImpl) ApplyLookDelta(xOffset, yOffset float32, constrainPitch bool) {
	c.yaw += xOffset * c.mouseSensitivity
	c.pitch += yOffset * c.mouseSensitivity

	// clamp before re-deriving so the flipped basis is never produced
	if constrainPitch {
		c.pitch = common.Clamp(c.pitch, -MaxPitch, MaxPitch)
	}

	c.updateVectors()
}

func (c *cameraImpl) ApplyZoomDelta(scrollOffset float32) {
	c.zoom = common.Clamp(c.zoom-scrollOffset, MinZoom, MaxZoom)
}

// updateVectors re-derives front, right and up from yaw, pitch and world up.
// Front comes first, then right = front x worldUp, then up = right x front, which keeps the
// triple right-handed and orthonormal for every pitch short of ±90°.
func (c *cameraImpl) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.front = front.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
