package snake

// Cell classifies one grid cell for rendering. Food may lie under a segment, so a cell can be
// both CellSnake and CellFood.
type Cell uint8

const (
	CellEmpty Cell = 0
	CellSnake Cell = 1 << 0
	CellFood  Cell = 1 << 1
)

// Has reports whether c carries every flag of other.
func (c Cell) Has(other Cell) bool {
	return c&other == other
}

// String returns the CSS classes of the cell: "", "snake", "food" or "snake food".
func (c Cell) String() string {
	switch c {
	case CellSnake:
		return "snake"
	case CellFood:
		return "food"
	case CellSnake | CellFood:
		return "snake food"
	}
	return ""
}

// Frame is a read-only copy of the simulation state.
type Frame struct {
	Snake     []Point   `json:"snake"`
	Food      Point     `json:"food"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	Running   bool      `json:"running"`
}

// Head returns the first segment.
func (f Frame) Head() Point {
	return f.Snake[0]
}

// At classifies the cell at (x, y).
func (f Frame) At(x, y int) Cell {
	p := Point{X: x, Y: y}
	cell := CellEmpty
	for _, segment := range f.Snake {
		if segment == p {
			cell |= CellSnake
			break
		}
	}
	if f.Food == p {
		cell |= CellFood
	}
	return cell
}

// Cells returns the GridSize*GridSize classification in row-major order, index y*GridSize+x.
func (f Frame) Cells() []Cell {
	cells := make([]Cell, GridSize*GridSize)
	if InBounds(f.Food) {
		cells[f.Food.Y*GridSize+f.Food.X] |= CellFood
	}
	for _, segment := range f.Snake {
		if InBounds(segment) {
			cells[segment.Y*GridSize+segment.X] |= CellSnake
		}
	}
	return cells
}
