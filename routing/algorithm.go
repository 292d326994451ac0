// Package routing computes the channels that task graph communications
// traverse on a validated mesh and accumulates the resulting load.
package routing

import (
	"strings"

	"github.com/sarchlab/manycore/topology"
)

// Algorithm is a routing policy.
type Algorithm int

const (
	// Observed replays the load recorded on the channels and sources.
	Observed Algorithm = iota
	// RowFirst resolves the row offset before the column offset.
	RowFirst
	// ColumnFirst resolves the column offset before the row offset.
	ColumnFirst
)

// SupportedAlgorithms lists every algorithm the engine can run.
var SupportedAlgorithms = []Algorithm{Observed, RowFirst, ColumnFirst}

func (a Algorithm) String() string {
	switch a {
	case Observed:
		return "Observed"
	case RowFirst:
		return "RowFirst"
	case ColumnFirst:
		return "ColumnFirst"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the algorithm by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an algorithm name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// ParseAlgorithm converts an algorithm name, ignoring case.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range SupportedAlgorithms {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}

	return 0, topology.RoutingErrorf("unsupported routing algorithm %q", s)
}

// SupportedAlgorithmNames returns the names of SupportedAlgorithms.
func SupportedAlgorithmNames() []string {
	names := make([]string, len(SupportedAlgorithms))
	for i, a := range SupportedAlgorithms {
		names[i] = a.String()
	}

	return names
}
