// Package snake implements the grid simulation played on the loading screen.
//
// The simulation is a plain value owned by a single goroutine: it has no timers and no locks.
// Callers drive it with Start, Turn (or HandleKey) and Tick, and read it back with Snapshot.
package snake

// Grid dimensions and fixed positions.
const (
	GridSize   = 15
	FoodReward = 10
)

var (
	StartCell   = Point{X: 7, Y: 7}
	InitialFood = Point{X: 5, Y: 5}
)

// Point is a grid cell. The origin is the top-left corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p moved by d.
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// InBounds reports whether p lies inside the grid.
func InBounds(p Point) bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Direction is a unit step on the grid.
type Direction struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}

	InitialDirection = Down
)

// IsUnit reports whether d is one of Up, Down, Left or Right.
func (d Direction) IsUnit() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// Reverses reports whether d points exactly opposite to cur.
func (d Direction) Reverses(cur Direction) bool {
	return d.X == -cur.X && d.Y == -cur.Y
}
