package footprint

import (
	"context"
	"errors"
	"testing"
	"time"

	"verdant/models"
)

func basicIngredient(id uint, name string, veganism models.Veganism, base float64, accepted bool) *models.Ingredient {
	kilogram := &models.Unit{Name: "kilogram"}
	kilogram.ID = 1
	ingredient := &models.Ingredient{
		Name:          name,
		Type:          models.Basic,
		Veganism:      veganism,
		BaseFootprint: base,
		Accepted:      accepted,
		UsableUnits: []models.UsableUnit{
			{IngredientID: id, UnitID: 1, Unit: kilogram, IsPrimaryUnit: true, ConversionFactor: 1},
		},
	}
	ingredient.ID = id
	return ingredient
}

func use(recipe *models.Recipe, ingredient *models.Ingredient, amount float64) {
	unit := ingredient.UsableUnits[0].Unit
	recipe.Uses = append(recipe.Uses, models.UsesIngredient{
		RecipeID:     recipe.ID,
		IngredientID: ingredient.ID,
		Ingredient:   ingredient,
		UnitID:       unit.ID,
		Unit:         unit,
		Amount:       amount,
	})
}

func newAggregator() *Aggregator {
	return NewAggregator(NewResolver(staticSupplies{}))
}

func TestAggregateEmptyRecipe(t *testing.T) {
	t.Parallel()

	recipe := &models.Recipe{Name: "water soup", Portions: 2}
	got, err := newAggregator().Aggregate(context.Background(), recipe, date(time.June, 15))
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if got.Footprint != 0 || got.Veganism != models.Vegan || !got.Accepted {
		t.Fatalf("Aggregate = %+v, want zero footprint, vegan, accepted", got)
	}
}

func TestAggregateWorkedExample(t *testing.T) {
	t.Parallel()

	cheese := basicIngredient(1, "cheese", models.Vegetarian, 0.5, true)
	beef := basicIngredient(2, "beef", models.NonVegetarian, 2, true)

	recipe := &models.Recipe{Name: "gratin", Portions: 4}
	recipe.ID = 1
	use(recipe, cheese, 10)

	aggregator := newAggregator()
	asOf := date(time.June, 15)

	got, err := aggregator.Aggregate(context.Background(), recipe, asOf)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if got.Footprint != 5 {
		t.Fatalf("footprint = %v, want 5", got.Footprint)
	}
	if got.Veganism != models.Vegetarian {
		t.Fatalf("veganism = %v, want vegetarian", got.Veganism)
	}

	use(recipe, beef, 10)
	got, err = aggregator.Aggregate(context.Background(), recipe, asOf)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if got.Footprint != 25 {
		t.Fatalf("footprint = %v, want 25", got.Footprint)
	}
	if got.Veganism != models.NonVegetarian {
		t.Fatalf("veganism = %v, want non-vegetarian", got.Veganism)
	}
	if !got.Accepted {
		t.Fatalf("recipe of accepted ingredients must be accepted")
	}
}

func TestAggregateUnacceptedIngredient(t *testing.T) {
	t.Parallel()

	pending := basicIngredient(3, "dragonfruit", models.Vegan, 1.5, false)
	recipe := &models.Recipe{Name: "fruit salad", Portions: 2}
	use(recipe, pending, 1)

	got, err := newAggregator().Aggregate(context.Background(), recipe, date(time.June, 15))
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if got.Accepted {
		t.Fatalf("recipe using an unaccepted ingredient must not be accepted")
	}
}

func TestAggregateIdempotent(t *testing.T) {
	t.Parallel()

	recipe := &models.Recipe{Name: "gratin", Portions: 4}
	use(recipe, basicIngredient(1, "cheese", models.Vegetarian, 0.5, true), 10)
	use(recipe, basicIngredient(2, "beef", models.NonVegetarian, 2, true), 10)

	aggregator := newAggregator()
	asOf := date(time.June, 15)

	first, err := aggregator.Aggregate(context.Background(), recipe, asOf)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	second, err := aggregator.Aggregate(context.Background(), recipe, asOf)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if first != second {
		t.Fatalf("repeated aggregation differs: %+v vs %+v", first, second)
	}
}

func TestAggregateUnusableUnit(t *testing.T) {
	t.Parallel()

	cheese := basicIngredient(1, "cheese", models.Vegetarian, 0.5, true)
	piece := &models.Unit{Name: "piece"}
	piece.ID = 99

	recipe := &models.Recipe{Name: "gratin", Portions: 4}
	recipe.Uses = append(recipe.Uses, models.UsesIngredient{
		IngredientID: cheese.ID,
		Ingredient:   cheese,
		UnitID:       piece.ID,
		Unit:         piece,
		Amount:       1,
	})

	if _, err := newAggregator().Aggregate(context.Background(), recipe, date(time.June, 15)); err == nil {
		t.Fatalf("Aggregate must fail for an unusable unit")
	}
}

func TestPerPortion(t *testing.T) {
	t.Parallel()

	got, err := PerPortion(25, 4)
	if err != nil {
		t.Fatalf("PerPortion returned error: %v", err)
	}
	if got != 6.25 {
		t.Fatalf("PerPortion = %v, want 6.25", got)
	}

	if _, err := PerPortion(25, 0); !errors.Is(err, ErrInvalidPortions) {
		t.Fatalf("PerPortion(25, 0) returned %v, want ErrInvalidPortions", err)
	}
	if _, err := PerPortion(25, -2); !errors.Is(err, ErrInvalidPortions) {
		t.Fatalf("PerPortion(25, -2) returned %v, want ErrInvalidPortions", err)
	}
}

func TestScaledViewIsPure(t *testing.T) {
	t.Parallel()

	total := 25.0
	recipe := &models.Recipe{Name: "gratin", Portions: 4, Footprint: &total}
	use(recipe, basicIngredient(1, "cheese", models.Vegetarian, 0.5, true), 10)

	view, err := ScaledView(recipe, 2)
	if err != nil {
		t.Fatalf("ScaledView returned error: %v", err)
	}
	if view.Footprint != 12.5 {
		t.Fatalf("scaled footprint = %v, want 12.5", view.Footprint)
	}
	if view.Amounts[0].Amount != 5 {
		t.Fatalf("scaled amount = %v, want 5", view.Amounts[0].Amount)
	}

	// The projection must leave the stored recipe untouched.
	if *recipe.Footprint != 25 {
		t.Fatalf("stored footprint mutated to %v", *recipe.Footprint)
	}
	if recipe.Uses[0].Amount != 10 {
		t.Fatalf("stored amount mutated to %v", recipe.Uses[0].Amount)
	}
	if recipe.Portions != 4 {
		t.Fatalf("stored portions mutated to %d", recipe.Portions)
	}

	if _, err := ScaledView(recipe, 0); !errors.Is(err, ErrInvalidPortions) {
		t.Fatalf("ScaledView(recipe, 0) returned %v, want ErrInvalidPortions", err)
	}
}

func TestScaledViewRequiresAggregatedFootprint(t *testing.T) {
	t.Parallel()

	recipe := &models.Recipe{Name: "gratin", Portions: 4}
	use(recipe, basicIngredient(1, "cheese", models.Vegetarian, 0.5, true), 10)

	if _, err := ScaledView(recipe, 2); !errors.Is(err, ErrNotAggregated) {
		t.Fatalf("ScaledView on unaggregated recipe returned %v, want ErrNotAggregated", err)
	}
}
