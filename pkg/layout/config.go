package layout

import (
	"math"

	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
)

// Default layout parameters.
const (
	DefaultIterations      = 300
	DefaultSeed            = 42
	DefaultRepulsion       = 1.0
	DefaultAttraction      = 1.0
	DefaultIdealEdgeLength = 120.0
)

// Config holds the force-directed layout parameters.
type Config struct {
	// Iterations is the cooling budget. Zero keeps the seeded positions.
	Iterations int `json:"iterations" bson:"iterations"`

	// Seed drives the initial placement. Equal seeds give equal layouts.
	Seed uint64 `json:"seed" bson:"seed"`

	// Repulsion scales the pairwise force Repulsion·k³/d².
	Repulsion float64 `json:"repulsion" bson:"repulsion"`

	// Attraction scales the spring force Attraction·d along each edge.
	Attraction float64 `json:"attraction" bson:"attraction"`

	// IdealEdgeLength is k, the natural spacing between adjacent nodes.
	// It is also the gap between packed components.
	IdealEdgeLength float64 `json:"ideal_edge_length" bson:"ideal_edge_length"`
}

// DefaultConfig returns the standard layout parameters.
func DefaultConfig() Config {
	return Config{
		Iterations:      DefaultIterations,
		Seed:            DefaultSeed,
		Repulsion:       DefaultRepulsion,
		Attraction:      DefaultAttraction,
		IdealEdgeLength: DefaultIdealEdgeLength,
	}
}

// Validate reports parameters that Compute would have to replace.
func (c Config) Validate() error {
	if c.Iterations < 0 {
		return tserrors.New(tserrors.ErrCodeInvalidConfig, "iterations must be non-negative, got %d", c.Iterations)
	}
	if !positive(c.Repulsion) {
		return tserrors.New(tserrors.ErrCodeInvalidConfig, "repulsion must be positive, got %v", c.Repulsion)
	}
	if !positive(c.Attraction) {
		return tserrors.New(tserrors.ErrCodeInvalidConfig, "attraction must be positive, got %v", c.Attraction)
	}
	if !positive(c.IdealEdgeLength) {
		return tserrors.New(tserrors.ErrCodeInvalidConfig, "ideal edge length must be positive, got %v", c.IdealEdgeLength)
	}
	return nil
}

// normalized replaces out-of-range values with defaults.
func (c Config) normalized() Config {
	c.Iterations = max(c.Iterations, 0)
	if !positive(c.Repulsion) {
		c.Repulsion = DefaultRepulsion
	}
	if !positive(c.Attraction) {
		c.Attraction = DefaultAttraction
	}
	if !positive(c.IdealEdgeLength) {
		c.IdealEdgeLength = DefaultIdealEdgeLength
	}
	return c
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 1) }
