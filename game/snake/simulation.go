package snake

import (
	"math/rand"
	"time"
)

// Rand is the random source used to relocate food. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Outcome describes what a tick did.
type Outcome int

const (
	// Idle means the simulation was not running and nothing moved.
	Idle Outcome = iota
	Moved
	Ate
	// Collided means the head hit a wall or the body and the simulation reset.
	Collided
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Ate:
		return "ate"
	case Collided:
		return "collided"
	}
	return "idle"
}

// Simulation is the state of one snake game.
type Simulation struct {
	snake      []Point // head first
	food       Point
	direction  Direction
	pending    Direction
	hasPending bool
	score      int
	running    bool
	rng        Rand
}

// New returns an idle simulation in the initial state.
// A nil rng is replaced by a time-seeded source.
func New(rng Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulation{
		snake:     []Point{StartCell},
		food:      InitialFood,
		direction: InitialDirection,
		rng:       rng,
	}
}

// Running reports whether the simulation is ticking.
func (s *Simulation) Running() bool {
	return s.running
}

// Start moves an idle simulation to running. It reports whether the state changed.
func (s *Simulation) Start() bool {
	if s.running {
		return false
	}
	s.running = true
	return true
}

// Turn buffers a direction change for the next tick.
// It is accepted only while running and never as the reverse of the current direction.
// A later accepted turn replaces an earlier one that has not been consumed yet, so pressing
// the current direction again cancels a buffered turn.
func (s *Simulation) Turn(d Direction) bool {
	if !s.running || !d.IsUnit() || d.Reverses(s.direction) {
		return false
	}
	s.pending = d
	s.hasPending = true
	return true
}

// HandleKey applies one key-down event: space starts an idle game, arrows turn a running one.
// It reports whether the event was accepted.
func (s *Simulation) HandleKey(k Key) bool {
	if !s.running {
		if k == KeySpace {
			return s.Start()
		}
		return false
	}

	d, ok := k.Direction()
	if !ok {
		return false
	}
	return s.Turn(d)
}

// Tick advances the simulation by one step.
func (s *Simulation) Tick() Outcome {
	if !s.running {
		return Idle
	}

	if s.hasPending {
		s.direction = s.pending
		s.hasPending = false
	}

	head := s.snake[0].Add(s.direction)
	if !InBounds(head) {
		s.reset()
		return Collided
	}

	// The tail is still part of the body here, so moving into it counts as a collision.
	if s.occupies(head) {
		s.reset()
		return Collided
	}

	s.snake = append([]Point{head}, s.snake...)
	if head == s.food {
		s.score += FoodReward
		s.food = s.randomCell()
		return Ate
	}

	s.snake = s.snake[:len(s.snake)-1]
	return Moved
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Frame {
	body := make([]Point, len(s.snake))
	copy(body, s.snake)
	return Frame{
		Snake:     body,
		Food:      s.food,
		Direction: s.direction,
		Score:     s.score,
		Running:   s.running,
	}
}

// reset puts the snake back on the start cell and stops the game.
// Score, food and direction survive a reset.
func (s *Simulation) reset() {
	s.snake = []Point{StartCell}
	s.running = false
	s.hasPending = false
}

func (s *Simulation) occupies(p Point) bool {
	for _, segment := range s.snake {
		if segment == p {
			return true
		}
	}
	return false
}

func (s *Simulation) randomCell() Point {
	return Point{X: s.rng.Intn(GridSize), Y: s.rng.Intn(GridSize)}
}
