// Package topology defines the data model of a manycore mesh: cores, their
// routers and channels, the border endpoints that attach traffic from outside
// the mesh, and the task graph that is mapped onto it.
package topology

import (
	"fmt"
	"strings"
)

// Direction defines the side of a core a channel leaves from.
type Direction int

// The order of the constants is the canonical output order.
const (
	North Direction = iota
	South
	East
	West
)

// NumDirections is the number of channel directions a core can have.
const NumDirections = 4

// AllDirections lists the directions in canonical order.
var AllDirections = [NumDirections]Direction{North, South, East, West}

// Name returns the name of the direction.
func (d Direction) Name() string {
	switch d {
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		panic("invalid direction")
	}
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}

	return d.Name()
}

// Valid tells if d is one of the four mesh directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Opposite returns the direction that faces d.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		panic("invalid direction")
	}
}

// Delta returns how a core id changes when moving one hop in direction d on a
// mesh with the given number of columns.
func (d Direction) Delta(columns int) int {
	switch d {
	case North:
		return -columns
	case South:
		return columns
	case East:
		return 1
	case West:
		return -1
	default:
		panic("invalid direction")
	}
}

// ParseDirection converts a direction name into a Direction. Matching is case
// insensitive.
func ParseDirection(s string) (Direction, error) {
	for _, d := range AllDirections {
		if strings.EqualFold(s, d.Name()) {
			return d, nil
		}
	}

	return 0, RoutingErrorf("invalid direction string %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, RoutingErrorf("invalid direction %d", int(d))
	}

	return []byte(d.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// DirectionSet is a set of directions.
type DirectionSet uint8

// NewDirectionSet creates a set holding the given directions.
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s = s.Add(d)
	}

	return s
}

// Add returns a set that also contains d.
func (s DirectionSet) Add(d Direction) DirectionSet {
	return s | 1<<uint(d)
}

// Has tells if d is in the set.
func (s DirectionSet) Has(d Direction) bool {
	return s&(1<<uint(d)) != 0
}

// Len returns the number of directions in the set.
func (s DirectionSet) Len() int {
	n := 0
	for _, d := range AllDirections {
		if s.Has(d) {
			n++
		}
	}

	return n
}

// Directions lists the members of the set in canonical order.
func (s DirectionSet) Directions() []Direction {
	dirs := make([]Direction, 0, NumDirections)
	for _, d := range AllDirections {
		if s.Has(d) {
			dirs = append(dirs, d)
		}
	}

	return dirs
}

func (s DirectionSet) String() string {
	names := make([]string, 0, NumDirections)
	for _, d := range s.Directions() {
		names = append(names, d.Name())
	}

	return "{" + strings.Join(names, ", ") + "}"
}
