package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrUnusableUnit is returned when a recipe row references a unit its
// ingredient cannot be measured in.
var ErrUnusableUnit = errors.New("models: unit not usable for ingredient")

// Course places a recipe on the menu. Display only.
type Course int

const (
	Entry Course = iota
	Bread
	Breakfast
	Dessert
	Drink
	MainCourse
	Salad
	SideDish
	Soup
	MarinadesAndSauces
)

type Recipe struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Course      Course `gorm:"not null" json:"course"`
	Description string `gorm:"type:text" json:"description"`

	Portions    int `gorm:"not null" json:"portions"`
	ActiveTime  int `json:"active_time"`
	PassiveTime int `json:"passive_time"`

	Instructions string `gorm:"type:text" json:"instructions"`

	Uses []UsesIngredient `gorm:"foreignKey:RecipeID" json:"uses,omitempty"`

	// Derived fields, written only by the aggregator. Footprint is nil
	// until the recipe has been aggregated at least once.
	Footprint *float64 `json:"footprint,omitempty"`
	Veganism  Veganism `gorm:"not null;default:0" json:"veganism"`
	Accepted  bool     `gorm:"not null;default:false" json:"accepted"`

	// Stale marks the recipe as pending recomputation by the batch job
	// after a deferred cascade.
	Stale bool `gorm:"not null;default:false" json:"stale"`
}

// UsesIngredient ties an amount of an ingredient, measured in one of its
// usable units, into a recipe. Group is a free-text label used to section the
// ingredient list when displayed; it has no computational role.
type UsesIngredient struct {
	gorm.Model
	RecipeID     uint        `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint        `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`

	UnitID uint  `gorm:"not null" json:"unit_id"`
	Unit   *Unit `gorm:"foreignKey:UnitID" json:"unit,omitempty"`

	Group  string  `json:"group"`
	Amount float64 `gorm:"not null;default:0" json:"amount"`
}

// BeforeSave rejects rows whose unit does not resolve to one of the
// ingredient's usable units, directly or through the unit's parent.
func (u *UsesIngredient) BeforeSave(tx *gorm.DB) error {
	unit := u.Unit
	if unit == nil || unit.ID != u.UnitID {
		unit = &Unit{}
		if err := tx.First(unit, u.UnitID).Error; err != nil {
			return err
		}
	}
	target := unit.ID
	if !unit.Base() {
		target = *unit.ParentUnitID
	}

	var usable int64
	err := tx.Model(&UsableUnit{}).
		Where("ingredient_id = ? AND unit_id = ?", u.IngredientID, target).
		Count(&usable).Error
	if err != nil {
		return err
	}
	if usable == 0 {
		return ErrUnusableUnit
	}
	return nil
}
