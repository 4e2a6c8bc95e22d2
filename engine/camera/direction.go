package camera

// MoveDirection is a discrete movement impulse, decoupled from any windowing system's key codes.
type MoveDirection int

const (
	Forward MoveDirection = iota
	Backward
	Left
	Right
)

func (d MoveDirection) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}
