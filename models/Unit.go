package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDerivedParent is returned when a unit tries to derive from a unit that
// is itself derived. The unit graph has depth two at most: base units and
// their direct derivatives.
var ErrDerivedParent = errors.New("models: parent unit must be a base unit")

// ErrDerivedUsableUnit is returned when a derived unit is associated with an
// ingredient directly. Only base units carry UsableUnit rows; derived units
// resolve through their parent.
var ErrDerivedUsableUnit = errors.New("models: usable unit must reference a base unit")

// Unit is a measurement unit. A unit may derive from a parent unit with a
// ratio: 1 of this unit equals Ratio parent units ("minute" derives from
// "hour" with ratio 1/60).
type Unit struct {
	gorm.Model
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	ShortName string `json:"short_name"`

	ParentUnitID *uint    `json:"parent_unit_id,omitempty"`
	ParentUnit   *Unit    `gorm:"foreignKey:ParentUnitID" json:"parent_unit,omitempty"`
	Ratio        *float64 `json:"ratio,omitempty"`
}

// Base reports whether this unit is a base unit (no parent).
func (u *Unit) Base() bool {
	return u.ParentUnitID == nil
}

// Short returns the display abbreviation, falling back to the full name.
func (u *Unit) Short() string {
	if u.ShortName != "" {
		return u.ShortName
	}
	return u.Name
}

// BeforeSave rejects derivation chains deeper than one level.
func (u *Unit) BeforeSave(tx *gorm.DB) error {
	if u.ParentUnitID == nil {
		return nil
	}
	parent := u.ParentUnit
	if parent == nil || parent.ID != *u.ParentUnitID {
		parent = &Unit{}
		if err := tx.First(parent, *u.ParentUnitID).Error; err != nil {
			return err
		}
	}
	if !parent.Base() {
		return ErrDerivedParent
	}
	return nil
}

// UsableUnit associates a base unit with an ingredient. ConversionFactor
// converts into the ingredient's primary unit: x of this unit equals
// x*ConversionFactor primary units. Exactly one UsableUnit per ingredient is
// marked primary (with factor 1 by convention).
type UsableUnit struct {
	gorm.Model
	IngredientID uint  `gorm:"not null;index" json:"ingredient_id"`
	UnitID       uint  `gorm:"not null" json:"unit_id"`
	Unit         *Unit `gorm:"foreignKey:UnitID" json:"unit,omitempty"`

	IsPrimaryUnit    bool    `gorm:"not null;default:false" json:"is_primary_unit"`
	ConversionFactor float64 `gorm:"not null" json:"conversion_factor"`
}

// BeforeSave rejects associations to derived units.
func (cu *UsableUnit) BeforeSave(tx *gorm.DB) error {
	unit := cu.Unit
	if unit == nil || unit.ID != cu.UnitID {
		unit = &Unit{}
		if err := tx.First(unit, cu.UnitID).Error; err != nil {
			return err
		}
	}
	if !unit.Base() {
		return ErrDerivedUsableUnit
	}
	return nil
}
