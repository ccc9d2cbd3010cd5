package models

import (
	"time"

	"github.com/google/uuid"
)

// MinGeneration and MaxGeneration bound the declared inbreeding generation.
const (
	MinGeneration = 1
	MaxGeneration = 6
)

// consanguinity maps a declared generation to its fixed percentage.
var consanguinity = map[int]float64{
	1: 25,
	2: 37.5,
	3: 50,
	4: 62.5,
	5: 75,
	6: 87.5,
}

// ConsanguinityPercentage returns the fixed percentage for a generation.
// The second return value is false for generations outside 1–6.
func ConsanguinityPercentage(generation int) (float64, bool) {
	pct, ok := consanguinity[generation]
	return pct, ok
}

// Cross is a recorded inbreeding pairing between two individuals.
type Cross struct {
	CrossID       uuid.UUID // UUIDv7
	TenantID      uuid.UUID
	Type          string // Free text, e.g. "full-sibling"
	Individual1ID uuid.UUID
	Individual2ID uuid.UUID
	Generation    int
	Percentage    float64 // Always derived from Generation
	Notes         string
	PhotoRef      string
	CreatedAt     time.Time
}
