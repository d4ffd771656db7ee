package snake

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand returns the queued values in order and then zeros.
type seqRand struct {
	vals []int
}

func (r *seqRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v % n
}

func running(t *testing.T, rng Rand) *Simulation {
	t.Helper()
	s := New(rng)
	require.True(t, s.HandleKey(KeySpace))
	return s
}

func TestInitialState(t *testing.T) {
	f := New(&seqRand{}).Snapshot()

	assert.Equal(t, []Point{{X: 7, Y: 7}}, f.Snake)
	assert.Equal(t, Point{X: 5, Y: 5}, f.Food)
	assert.Equal(t, Direction{X: 0, Y: 1}, f.Direction)
	assert.Equal(t, 0, f.Score)
	assert.False(t, f.Running)
}

func TestTick(t *testing.T) {
	t.Run("Idle simulation does not move", func(t *testing.T) {
		s := New(&seqRand{})
		assert.Equal(t, Idle, s.Tick())
		assert.Equal(t, []Point{StartCell}, s.Snapshot().Snake)
	})

	t.Run("One tick with no input moves the head down", func(t *testing.T) {
		s := running(t, &seqRand{})

		assert.Equal(t, Moved, s.Tick())

		f := s.Snapshot()
		assert.Equal(t, []Point{{X: 7, Y: 8}}, f.Snake)
		assert.Len(t, f.Snake, 1)
		assert.Equal(t, 0, f.Score)
	})

	t.Run("Twenty ticks to the right hit the wall and reset", func(t *testing.T) {
		s := running(t, &seqRand{})
		require.True(t, s.Turn(Right))

		outcomes := map[Outcome]int{}
		for i := 0; i < 20; i++ {
			outcomes[s.Tick()]++
		}

		assert.Equal(t, 7, outcomes[Moved])
		assert.Equal(t, 1, outcomes[Collided])
		assert.Equal(t, 12, outcomes[Idle])

		f := s.Snapshot()
		assert.Equal(t, []Point{{X: 7, Y: 7}}, f.Snake)
		assert.False(t, f.Running)
	})

	t.Run("Every wall resets the snake", func(t *testing.T) {
		for _, d := range []Direction{Up, Down, Left, Right} {
			s := running(t, &seqRand{})
			s.direction = d
			s.snake = []Point{{X: 7, Y: 7}}
			s.food = Point{X: -1, Y: -1}

			var last Outcome
			steps := 0
			for last != Collided {
				before := s.Snapshot().Head()
				last = s.Tick()
				steps++
				if last == Moved {
					assert.Equal(t, before.Add(d), s.Snapshot().Head())
				}
				require.Less(t, steps, GridSize+1)
			}

			assert.Equal(t, 8, steps, "direction %v", d)
			assert.Equal(t, []Point{StartCell}, s.Snapshot().Snake)
			assert.False(t, s.Running())
		}
	})

	t.Run("Eating grows the snake by one and adds ten points", func(t *testing.T) {
		s := running(t, &seqRand{vals: []int{3, 4}})
		s.food = Point{X: 7, Y: 8}

		assert.Equal(t, Ate, s.Tick())
		f := s.Snapshot()
		assert.Equal(t, []Point{{X: 7, Y: 8}, {X: 7, Y: 7}}, f.Snake)
		assert.Equal(t, 10, f.Score)
		assert.Equal(t, Point{X: 3, Y: 4}, f.Food)

		assert.Equal(t, Moved, s.Tick())
		f = s.Snapshot()
		assert.Equal(t, []Point{{X: 7, Y: 9}, {X: 7, Y: 8}}, f.Snake)
		assert.Equal(t, 10, f.Score)
	})

	t.Run("Moving into the tail counts as a collision", func(t *testing.T) {
		s := running(t, &seqRand{})
		// head (5,5) -> (6,5) -> (6,6) -> tail (5,6); moving down lands on the tail.
		s.snake = []Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 6}}
		s.direction = Down
		s.food = Point{X: 0, Y: 0}

		assert.Equal(t, Collided, s.Tick())
		assert.Equal(t, []Point{StartCell}, s.Snapshot().Snake)
		assert.False(t, s.Running())
	})

	t.Run("Score survives a reset", func(t *testing.T) {
		s := running(t, &seqRand{vals: []int{0, 0}})
		s.food = Point{X: 7, Y: 8}
		require.Equal(t, Ate, s.Tick())

		for s.Running() {
			s.Tick()
		}

		f := s.Snapshot()
		assert.Equal(t, 10, f.Score)
		assert.Equal(t, []Point{StartCell}, f.Snake)
	})
}

func TestTurn(t *testing.T) {
	t.Run("Reversal and non-unit directions are rejected", func(t *testing.T) {
		s := running(t, &seqRand{})

		assert.False(t, s.Turn(Up))
		assert.False(t, s.Turn(Direction{X: 1, Y: 1}))
		assert.Equal(t, Down, s.Snapshot().Direction)
	})

	t.Run("Current direction replaces a buffered turn", func(t *testing.T) {
		s := running(t, &seqRand{})
		require.True(t, s.HandleKey(KeyLeft))
		require.True(t, s.HandleKey(KeyDown))

		s.Tick()
		assert.Equal(t, Down, s.Snapshot().Direction)
		assert.Equal(t, Point{X: 7, Y: 8}, s.Snapshot().Head())
	})

	t.Run("Turns are ignored while idle", func(t *testing.T) {
		s := New(&seqRand{})
		assert.False(t, s.Turn(Left))
		assert.False(t, s.HandleKey(KeyLeft))
	})

	t.Run("Turn takes effect on the next tick", func(t *testing.T) {
		s := running(t, &seqRand{})
		require.True(t, s.Turn(Left))
		assert.Equal(t, Down, s.Snapshot().Direction)

		s.Tick()
		assert.Equal(t, Left, s.Snapshot().Direction)
		assert.Equal(t, Point{X: 6, Y: 7}, s.Snapshot().Head())
	})

	t.Run("Latest accepted turn wins", func(t *testing.T) {
		s := running(t, &seqRand{})
		require.True(t, s.HandleKey(KeyLeft))
		require.True(t, s.HandleKey(KeyRight))
		// Up is a reversal of the current direction, not of the pending one.
		assert.False(t, s.HandleKey(KeyUp))

		s.Tick()
		assert.Equal(t, Point{X: 8, Y: 7}, s.Snapshot().Head())
	})
}

func TestHandleKey(t *testing.T) {
	s := New(&seqRand{})

	assert.False(t, s.HandleKey(KeyUnknown))
	assert.True(t, s.HandleKey(KeySpace))
	assert.True(t, s.Running())
	assert.False(t, s.HandleKey(KeySpace))
}

func TestFoodRelocationStaysInBounds(t *testing.T) {
	s := running(t, rand.New(rand.NewSource(42)))

	for i := 0; i < 500; i++ {
		p := s.randomCell()
		assert.True(t, InBounds(p), "food %v out of bounds", p)
	}
}

func TestParseKey(t *testing.T) {
	cases := map[string]Key{
		" ":         KeySpace,
		"space":     KeySpace,
		"ArrowUp":   KeyUp,
		"down":      KeyDown,
		"ArrowLeft": KeyLeft,
		"right":     KeyRight,
		"Enter":     KeyUnknown,
		"":          KeyUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ParseKey(name), "key %q", name)
	}
}

func TestFrameCells(t *testing.T) {
	f := Frame{
		Snake: []Point{{X: 1, Y: 0}, {X: 0, Y: 0}},
		Food:  Point{X: 2, Y: 3},
	}

	cells := f.Cells()
	require.Len(t, cells, GridSize*GridSize)
	assert.Equal(t, CellSnake, cells[0])
	assert.Equal(t, CellSnake, cells[1])
	assert.Equal(t, CellFood, cells[3*GridSize+2])
	assert.Equal(t, CellEmpty, cells[GridSize*GridSize-1])

	assert.Equal(t, CellSnake, f.At(1, 0))
	assert.Equal(t, CellFood, f.At(2, 3))
	assert.Equal(t, CellEmpty, f.At(4, 4))

	t.Run("Food under a segment keeps both flags", func(t *testing.T) {
		f.Food = Point{X: 0, Y: 0}
		cell := f.At(0, 0)
		assert.True(t, cell.Has(CellSnake))
		assert.True(t, cell.Has(CellFood))
		assert.Equal(t, cell, f.Cells()[0])
		assert.Equal(t, "snake food", cell.String())
	})

	t.Run("Food relocated onto the body is still reported", func(t *testing.T) {
		// Eat at (7,8) while moving down; the relocated food lands on the new head.
		s := running(t, &seqRand{vals: []int{7, 8}})
		s.food = Point{X: 7, Y: 8}

		require.Equal(t, Ate, s.Tick())
		frame := s.Snapshot()
		require.Equal(t, Point{X: 7, Y: 8}, frame.Head())
		require.Equal(t, Point{X: 7, Y: 8}, frame.Food)
		assert.Equal(t, CellSnake|CellFood, frame.At(7, 8))
		assert.Equal(t, "snake food", frame.Cells()[8*GridSize+7].String())
	})
}
