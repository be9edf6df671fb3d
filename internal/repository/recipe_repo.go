package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"verdant/internal/footprint"
	"verdant/internal/units"
	"verdant/models"
)

// RecipeRepository is the storage collaborator for recipes and their
// ingredient rows. It satisfies cascade.RecipeStore.
type RecipeRepository interface {
	// FindByID loads a recipe deep enough to aggregate.
	FindByID(ctx context.Context, id uint) (*models.Recipe, error)
	// Using returns every recipe referencing the ingredient, loaded deep
	// enough to aggregate.
	Using(ctx context.Context, ingredientID uint) ([]models.Recipe, error)
	// MarkStale flags recipes for the next batch run.
	MarkStale(ctx context.Context, recipeIDs []uint) error
	// SaveAggregate persists a recomputed aggregate and clears staleness.
	SaveAggregate(ctx context.Context, recipeID uint, aggregate footprint.Aggregate) error
	// SaveUse validates and persists one recipe ingredient row.
	SaveUse(ctx context.Context, use *models.UsesIngredient) error
	// ForEach walks all recipes in identifier order, chunkSize at a time.
	ForEach(ctx context.Context, chunkSize int, fn func(recipes []models.Recipe) error) error
}

type recipeRepo struct{ db *gorm.DB }

// NewRecipeRepository wraps a GORM handle in a RecipeRepository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db: db}
}

func (r *recipeRepo) aggregationScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Uses.Ingredient.UsableUnits").
		Preload("Uses.Unit")
}

func (r *recipeRepo) FindByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.aggregationScope(ctx).First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) Using(ctx context.Context, ingredientID uint) ([]models.Recipe, error) {
	referencing := r.db.Model(&models.UsesIngredient{}).
		Select("recipe_id").
		Where("ingredient_id = ?", ingredientID)

	var recipes []models.Recipe
	err := r.aggregationScope(ctx).
		Where("id IN (?)", referencing).
		Order("id asc").
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) MarkStale(ctx context.Context, recipeIDs []uint) error {
	if len(recipeIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id IN ?", recipeIDs).
		Update("stale", true).Error
}

func (r *recipeRepo) SaveAggregate(ctx context.Context, recipeID uint, aggregate footprint.Aggregate) error {
	return r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Updates(map[string]any{
			"footprint": aggregate.Footprint,
			"veganism":  aggregate.Veganism,
			"accepted":  aggregate.Accepted,
			"stale":     false,
		}).Error
}

// SaveUse rejects rows whose unit cannot measure the ingredient, so invalid
// pairs never reach aggregation.
func (r *recipeRepo) SaveUse(ctx context.Context, use *models.UsesIngredient) error {
	ingredient := use.Ingredient
	if ingredient == nil || ingredient.ID != use.IngredientID {
		var loaded models.Ingredient
		if err := r.db.WithContext(ctx).Preload("UsableUnits").First(&loaded, use.IngredientID).Error; err != nil {
			return fmt.Errorf("load ingredient %d: %w", use.IngredientID, err)
		}
		ingredient = &loaded
	}

	unit := use.Unit
	if unit == nil || unit.ID != use.UnitID {
		var loaded models.Unit
		if err := r.db.WithContext(ctx).First(&loaded, use.UnitID).Error; err != nil {
			return fmt.Errorf("load unit %d: %w", use.UnitID, err)
		}
		unit = &loaded
	}

	if err := units.ValidateUse(ingredient, unit); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(use).Error
}

func (r *recipeRepo) ForEach(ctx context.Context, chunkSize int, fn func(recipes []models.Recipe) error) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	lastID := uint(0)
	for {
		var recipes []models.Recipe
		err := r.aggregationScope(ctx).
			Where("id > ?", lastID).
			Order("id asc").
			Limit(chunkSize).
			Find(&recipes).Error
		if err != nil {
			return err
		}
		if len(recipes) == 0 {
			return nil
		}
		if err := fn(recipes); err != nil {
			return err
		}
		lastID = recipes[len(recipes)-1].ID
	}
}
