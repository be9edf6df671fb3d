// Package repository implements the storage collaborators the engine works
// through. The engine packages depend on narrow interfaces; GORM supplies
// the concrete implementations here.
package repository

import (
	"context"

	"gorm.io/gorm"

	"verdant/models"
)

// IngredientRepository is the read side of the ingredient catalog.
type IngredientRepository interface {
	// FindByID loads an ingredient with its usable units.
	FindByID(ctx context.Context, id uint) (*models.Ingredient, error)
	// FindByName loads an ingredient by exact name.
	FindByName(ctx context.Context, name string) (*models.Ingredient, error)
	// SupplyOptionsFor returns the ingredient's supply options ordered by
	// identifier; the resolver's tie-break relies on that order.
	SupplyOptionsFor(ctx context.Context, ingredientID uint) ([]models.SupplyOption, error)
	// Units returns every unit with its parent loaded.
	Units(ctx context.Context) ([]models.Unit, error)
}

type ingredientRepo struct{ db *gorm.DB }

// NewIngredientRepository wraps a GORM handle in an IngredientRepository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepo{db: db}
}

func (r *ingredientRepo) FindByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Preload("UsableUnits.Unit").
		Preload("Synonyms").
		First(&ingredient, id).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) FindByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Preload("UsableUnits.Unit").
		Where("name = ?", name).
		First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepo) SupplyOptionsFor(ctx context.Context, ingredientID uint) ([]models.SupplyOption, error) {
	var options []models.SupplyOption
	err := r.db.WithContext(ctx).
		Preload("Origin").
		Preload("TransportMethod").
		Where("ingredient_id = ?", ingredientID).
		Order("id asc").
		Find(&options).Error
	return options, err
}

func (r *ingredientRepo) Units(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := r.db.WithContext(ctx).
		Preload("ParentUnit").
		Order("id asc").
		Find(&units).Error
	return units, err
}
