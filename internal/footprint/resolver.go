// Package footprint computes carbon footprints: resolving the cheapest
// currently viable supply for a single ingredient, and aggregating those
// per-ingredient results into recipe totals.
package footprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verdant/models"
)

// ErrNoActiveSupply is returned when a seasonal ingredient has no supply
// option active on a date, preservation included. It signals a curation gap
// in the catalog and is surfaced, never defaulted to a zero footprint.
var ErrNoActiveSupply = errors.New("footprint: no active supply")

// NoActiveSupplyError wraps ErrNoActiveSupply with the ingredient and date.
type NoActiveSupplyError struct {
	Ingredient string
	AsOf       time.Time
}

func (e *NoActiveSupplyError) Error() string {
	return fmt.Sprintf("footprint: ingredient %q has no active supply on %s",
		e.Ingredient, e.AsOf.Format("2006-01-02"))
}

func (e *NoActiveSupplyError) Unwrap() error { return ErrNoActiveSupply }

// SupplySource provides the supply options recorded for an ingredient,
// ordered by identifier.
type SupplySource interface {
	SupplyOptionsFor(ctx context.Context, ingredientID uint) ([]models.SupplyOption, error)
}

// Source tags where a resolved footprint came from.
type Source string

const (
	// SourceBase means the ingredient's flat base footprint was used.
	SourceBase Source = "base"
	// SourceSupply means an in-season supply option was selected.
	SourceSupply Source = "supply"
	// SourcePreserved means the selected option was out of season and the
	// preservation penalty applies.
	SourcePreserved Source = "preserved"
)

// Breakdown explains a resolved footprint for diagnostics.
type Breakdown struct {
	Value  float64
	Source Source

	// Option identifies the winning supply option; zero for base lookups.
	Option uint
	// PreservedDays is how many days past its season the winning option
	// was stretched; zero unless Source is SourcePreserved.
	PreservedDays int
}

// Resolver selects the minimum-footprint supply for seasonal ingredients.
type Resolver struct {
	supplies SupplySource
}

// NewResolver builds a Resolver reading supply options from the given source.
func NewResolver(supplies SupplySource) *Resolver {
	return &Resolver{supplies: supplies}
}

// Footprint returns the ingredient's footprint per primary unit as of the
// given date.
func (r *Resolver) Footprint(ctx context.Context, ingredient *models.Ingredient, asOf time.Time) (float64, error) {
	breakdown, err := r.Breakdown(ctx, ingredient, asOf)
	if err != nil {
		return 0, err
	}
	return breakdown.Value, nil
}

// Breakdown resolves the footprint and reports which supply won and why.
//
// A basic ingredient resolves to its base footprint; any supply options that
// slipped in for one are ignored. A seasonal ingredient resolves to the
// minimum effective footprint over its active supply options, where an option
// that is only active thanks to the preservation extension is penalized by
// its days past season times the ingredient's preservation footprint. Ties
// resolve to the option with the lowest identifier.
func (r *Resolver) Breakdown(ctx context.Context, ingredient *models.Ingredient, asOf time.Time) (Breakdown, error) {
	if !ingredient.Type.Seasonal() {
		return Breakdown{Value: ingredient.BaseFootprint, Source: SourceBase}, nil
	}

	options, err := r.supplies.SupplyOptionsFor(ctx, ingredient.ID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("load supply options for %q: %w", ingredient.Name, err)
	}

	best := Breakdown{}
	found := false
	for i := range options {
		option := &options[i]
		window := option.Window()
		if !window.Active(asOf, ingredient.Preservability) {
			continue
		}

		candidate := Breakdown{
			Value:  option.Footprint,
			Source: SourceSupply,
			Option: option.ID,
		}
		if days := window.DaysApart(asOf); days > 0 {
			candidate.Source = SourcePreserved
			candidate.PreservedDays = days
			candidate.Value += float64(days) * ingredient.PreservationFootprint
		}

		if !found || candidate.Value < best.Value {
			best = candidate
			found = true
		}
	}

	if !found {
		return Breakdown{}, &NoActiveSupplyError{Ingredient: ingredient.Name, AsOf: asOf}
	}
	return best, nil
}
