package elo

import "math"

// Default tunables, matching the conventional chess values.
const (
	DefaultKFactor    = 32
	DefaultFloor      = 100
	DefaultBaseRating = 1200
)

// Engine computes rating updates for two-player matches using the standard
// logistic ELO formula. It is a pure value type with no I/O; the same inputs
// always produce the same outputs.
type Engine struct {
	// K controls the magnitude of the rating change per match.
	K int
	// Floor is the minimum rating a player can ever hold.
	Floor int
}

// NewEngine creates an Engine with the given K-factor and floor.
func NewEngine(k, floor int) Engine {
	return Engine{K: k, Floor: floor}
}

// ApplyMatch returns the new ratings for both players after a match between
// them. Ratings move by K * (actual - expected), rounded half away from zero
// to the nearest integer, and never drop below the floor.
//
// Because both deltas are rounded independently, the two changes are not
// guaranteed to sum to exactly zero. That is a property of integer ratings,
// not a bug; do not compensate for it per player.
func (e Engine) ApplyMatch(rating1, rating2 int, player1Won bool) (int, int) {
	expected1 := 1.0 / (1.0 + math.Pow(10, float64(rating2-rating1)/400.0))

	actual1 := 0.0
	if player1Won {
		actual1 = 1.0
	}

	delta1 := float64(e.K) * (actual1 - expected1)

	newRating1 := int(math.Round(float64(rating1) + delta1))
	newRating2 := int(math.Round(float64(rating2) - delta1))

	if newRating1 < e.Floor {
		newRating1 = e.Floor
	}
	if newRating2 < e.Floor {
		newRating2 = e.Floor
	}
	return newRating1, newRating2
}
