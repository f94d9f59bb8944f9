// Package location resolves free-text place names against a world-cities
// table, producing exact matches, near-match suggestions, or a not-found
// result. The dialog engine only depends on the Resolver interface.
package location

import (
	"context"

	"github.com/dataground/geochat/server/internal/dialog/model"
)

// Kind selects which namespace a lookup searches.
type Kind string

const (
	KindCity    Kind = "city"
	KindCountry Kind = "country"
)

// Result is the outcome of one lookup.
//
// Exactly one of three shapes applies: Found && ExactMatch (canonical city or
// country fields set), Found && !ExactMatch (Suggested* and Message set), or
// !Found (Message set).
type Result struct {
	Found      bool
	ExactMatch bool

	City        string
	Country     string
	Coordinates *model.Coordinates

	// Cities holds up to five major cities for a country-level match.
	Cities []model.CityRef

	SuggestedCity    string
	SuggestedCountry string
	SimilarityScore  float64

	Message string
}

// Resolver maps message text to a location.
type Resolver interface {
	Resolve(ctx context.Context, text string, kind Kind) (Result, error)
}
