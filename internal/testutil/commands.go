package testutil

import (
	"fmt"
	"math/rand"

	"github.com/roach88/fleetlot/internal/command"
)

// CommandStream generates reproducible random command lines.
//
// Keys are drawn from [0, MaxKey]. Truck IDs increase from 1 so every
// add_truck introduces a new truck.
type CommandStream struct {
	rng    *rand.Rand
	MaxKey int
	nextID int
}

// NewCommandStream creates a stream seeded with seed.
func NewCommandStream(seed int64, maxKey int) *CommandStream {
	return &CommandStream{
		rng:    rand.New(rand.NewSource(seed)),
		MaxKey: maxKey,
		nextID: 1,
	}
}

// Next returns the next command line.
//
// The mix favours add_truck and ready so lots fill up and loads find
// ready trucks; lot churn stays rare.
func (s *CommandStream) Next() string {
	key := s.rng.Intn(s.MaxKey + 1)

	switch p := s.rng.Intn(100); {
	case p < 10:
		return fmt.Sprintf("%s %d %d", command.NameCreateLot, key, 1+s.rng.Intn(4))
	case p < 13:
		return fmt.Sprintf("%s %d", command.NameDeleteLot, key)
	case p < 50:
		id := s.nextID
		s.nextID++
		return fmt.Sprintf("%s %d %d", command.NameAddTruck, id, key)
	case p < 75:
		return fmt.Sprintf("%s %d", command.NameReady, key)
	case p < 92:
		return fmt.Sprintf("%s %d %d", command.NameLoad, key, 1+s.rng.Intn(2*s.MaxKey+1))
	default:
		return fmt.Sprintf("%s %d", command.NameCount, key-1)
	}
}

// Lines returns the next n command lines.
func (s *CommandStream) Lines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = s.Next()
	}
	return lines
}
