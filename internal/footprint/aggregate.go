package footprint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verdant/internal/units"
	"verdant/models"
)

// ErrInvalidPortions is returned for per-portion math on a recipe with zero
// or negative portions. Portion counts are validated up front, not guarded
// over.
var ErrInvalidPortions = errors.New("footprint: recipe portions must be positive")

// ErrNotAggregated is returned when a derived view is requested for a recipe
// that has never been aggregated.
var ErrNotAggregated = errors.New("footprint: recipe has no aggregated footprint")

// Aggregate is the derived state of a recipe: total footprint, veganism
// class, and whether every constituent ingredient has been accepted by
// curators.
type Aggregate struct {
	Footprint float64
	Veganism  models.Veganism
	Accepted  bool
}

// Aggregator folds per-ingredient footprints into recipe aggregates.
type Aggregator struct {
	resolver *Resolver
}

// NewAggregator builds an Aggregator on top of a Resolver.
func NewAggregator(resolver *Resolver) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// Aggregate computes the recipe's derived state as of the given date. The
// recipe's Uses must be loaded with their Ingredient (including its
// UsableUnits) and Unit. An empty ingredient list yields a zero footprint and
// a vegan, accepted recipe.
func (a *Aggregator) Aggregate(ctx context.Context, recipe *models.Recipe, asOf time.Time) (Aggregate, error) {
	result := Aggregate{Veganism: models.Vegan, Accepted: true}

	for i := range recipe.Uses {
		use := &recipe.Uses[i]
		if use.Ingredient == nil || use.Unit == nil {
			return Aggregate{}, fmt.Errorf("recipe %q: ingredient row %d not loaded", recipe.Name, use.ID)
		}

		factor, err := units.ConversionFactor(use.Ingredient, use.Unit)
		if err != nil {
			return Aggregate{}, fmt.Errorf("recipe %q: %w", recipe.Name, err)
		}

		value, err := a.resolver.Footprint(ctx, use.Ingredient, asOf)
		if err != nil {
			return Aggregate{}, fmt.Errorf("recipe %q: %w", recipe.Name, err)
		}

		result.Footprint += use.Amount * factor * value
		result.Veganism = result.Veganism.Worst(use.Ingredient.Veganism)
		result.Accepted = result.Accepted && use.Ingredient.Accepted
	}

	return result, nil
}

// PerPortion divides a recipe footprint by its portion count.
func PerPortion(total float64, portions int) (float64, error) {
	if portions <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPortions, portions)
	}
	return total / float64(portions), nil
}

// ScaledRecipe is a read-only projection of a recipe rescaled to a target
// portion count. Producing one never touches the stored recipe.
type ScaledRecipe struct {
	Recipe    *models.Recipe
	Portions  int
	Footprint float64
	Amounts   []ScaledAmount
}

// ScaledAmount is one ingredient row's amount after rescaling.
type ScaledAmount struct {
	Use    *models.UsesIngredient
	Amount float64
}

// ScaledView rescales a recipe's footprint and ingredient amounts to a target
// portion count. A recipe that has never been aggregated fails with
// ErrNotAggregated rather than presenting a zero footprint.
func ScaledView(recipe *models.Recipe, targetPortions int) (ScaledRecipe, error) {
	if recipe.Portions <= 0 {
		return ScaledRecipe{}, fmt.Errorf("%w: %d", ErrInvalidPortions, recipe.Portions)
	}
	if targetPortions <= 0 {
		return ScaledRecipe{}, fmt.Errorf("%w: %d", ErrInvalidPortions, targetPortions)
	}
	if recipe.Footprint == nil {
		return ScaledRecipe{}, fmt.Errorf("%w: %q", ErrNotAggregated, recipe.Name)
	}

	scale := float64(targetPortions) / float64(recipe.Portions)

	view := ScaledRecipe{
		Recipe:   recipe,
		Portions: targetPortions,
		Amounts:  make([]ScaledAmount, 0, len(recipe.Uses)),
	}
	view.Footprint = *recipe.Footprint * scale
	for i := range recipe.Uses {
		use := &recipe.Uses[i]
		view.Amounts = append(view.Amounts, ScaledAmount{Use: use, Amount: use.Amount * scale})
	}
	return view, nil
}
