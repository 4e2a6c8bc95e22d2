package camera

import (
	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option applied by NewCamera before the basis is derived.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial world-space eye location.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithWorldUp sets the fixed reference up vector. The vector is normalized; a zero vector
// is ignored and the default +Y is kept.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the world up vector
func WithWorldUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		up := mgl32.Vec3{x, y, z}
		if up.Len() == 0 {
			return
		}
		c.worldUp = up.Normalize()
	}
}

// WithYaw sets the initial yaw in degrees.
//
// Parameters:
//   - yaw: rotation about world up in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the yaw
func WithYaw(yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yaw = yaw
	}
}

// WithPitch sets the initial pitch in degrees.
//
// Parameters:
//   - pitch: rotation about the right axis in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the pitch
func WithPitch(pitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pitch = pitch
	}
}

// WithMoveSpeed sets the movement speed in units per second. Non-positive values keep the default.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - CameraBuilderOption: a function that sets the movement speed
func WithMoveSpeed(speed float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if speed > 0 {
			c.moveSpeed = speed
		}
	}
}

// WithMouseSensitivity sets the look sensitivity in degrees per input unit. Non-positive values keep the default.
//
// Parameters:
//   - sensitivity: degrees per input unit
//
// Returns:
//   - CameraBuilderOption: a function that sets the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if sensitivity > 0 {
			c.mouseSensitivity = sensitivity
		}
	}
}

// WithZoom sets the initial zoom in degrees, clamped to [MinZoom, MaxZoom].
//
// Parameters:
//   - zoom: field-of-view proxy in degrees
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = common.Clamp(zoom, MinZoom, MaxZoom)
	}
}
