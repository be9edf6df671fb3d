package models

import (
	"gorm.io/gorm"
)

// Veganism classifies how animal-product-free an ingredient is. Lower values
// are more restrictive: a recipe's class is the worst class among its
// ingredients.
type Veganism int

const (
	Vegan Veganism = iota
	Vegetarian
	NonVegetarian
)

func (v Veganism) String() string {
	switch v {
	case Vegan:
		return "vegan"
	case Vegetarian:
		return "vegetarian"
	case NonVegetarian:
		return "non-vegetarian"
	}
	return "unknown"
}

// Worst returns the less restrictive of the two classes. It is the combine
// operator for recipe classification: any non-vegetarian ingredient makes the
// whole recipe non-vegetarian.
func (v Veganism) Worst(other Veganism) Veganism {
	if other > v {
		return other
	}
	return v
}

// IngredientType determines how an ingredient's footprint resolves. Basic
// ingredients carry a flat base footprint; seasonal ones resolve through
// their supply options.
type IngredientType int

const (
	Basic IngredientType = iota
	Seasonal
	SeasonalSea
)

// Seasonal reports whether supply options are meaningful for this type.
func (t IngredientType) Seasonal() bool {
	return t == Seasonal || t == SeasonalSea
}

func (t IngredientType) String() string {
	switch t {
	case Basic:
		return "basic"
	case Seasonal:
		return "seasonal"
	case SeasonalSea:
		return "seasonal-sea"
	}
	return "unknown"
}

// Category groups ingredients for browsing. It plays no computational role.
type Category int

const (
	Vegetables Category = iota
	Fruit
	Tubers
	NutsAndSeeds
	CerealProducts
	Herbs
	Spices
	OilsAndVinegars
	Meat
	Fish
	DairyProducts
	Drinks
)

type Ingredient struct {
	gorm.Model
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	PluralName string         `json:"plural_name"`
	Category   Category       `gorm:"not null" json:"category"`
	Veganism   Veganism       `gorm:"not null;default:0" json:"veganism"`
	Type       IngredientType `gorm:"not null;default:0" json:"type"`

	Description     string `gorm:"type:text" json:"description"`
	ConservationTip string `gorm:"type:text" json:"conservation_tip"`

	// BaseFootprint is the kg CO2-equivalent per primary unit before any
	// production or transport surcharge.
	BaseFootprint float64 `gorm:"not null" json:"base_footprint"`

	// Preservability is the number of days an out-of-season supply may be
	// stretched; PreservationFootprint is the per-day penalty for doing so.
	// Both are meaningful for seasonal ingredients only.
	Preservability        int     `json:"preservability"`
	PreservationFootprint float64 `json:"preservation_footprint"`

	// Accepted marks curator approval for public display.
	Accepted bool `gorm:"not null;default:false" json:"accepted"`

	Synonyms      []Synonym      `gorm:"foreignKey:IngredientID" json:"synonyms,omitempty"`
	UsableUnits   []UsableUnit   `gorm:"foreignKey:IngredientID" json:"usable_units,omitempty"`
	SupplyOptions []SupplyOption `gorm:"foreignKey:IngredientID" json:"supply_options,omitempty"`
}

// BeforeSave keeps preservation fields zeroed for non-seasonal ingredients.
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	if !i.Type.Seasonal() {
		i.Preservability = 0
		i.PreservationFootprint = 0
	}
	return nil
}

// Synonym holds an alternative name an ingredient can be found under.
type Synonym struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	PluralName   string `json:"plural_name"`
	IngredientID uint   `gorm:"not null" json:"ingredient_id"`
}
