package snake

// Key is a keyboard event understood by the simulation.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// ParseKey maps browser key names ("ArrowUp", " ") and terminal key names ("up", "space")
// to a Key.
func ParseKey(name string) Key {
	switch name {
	case " ", "space", "Space", "Spacebar":
		return KeySpace
	case "ArrowUp", "up", "Up":
		return KeyUp
	case "ArrowDown", "down", "Down":
		return KeyDown
	case "ArrowLeft", "left", "Left":
		return KeyLeft
	case "ArrowRight", "right", "Right":
		return KeyRight
	}
	return KeyUnknown
}

// Direction returns the direction an arrow key asks for.
func (k Key) Direction() (Direction, bool) {
	switch k {
	case KeyUp:
		return Up, true
	case KeyDown:
		return Down, true
	case KeyLeft:
		return Left, true
	case KeyRight:
		return Right, true
	}
	return Direction{}, false
}

func (k Key) String() string {
	switch k {
	case KeySpace:
		return "space"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}
	return "unknown"
}
