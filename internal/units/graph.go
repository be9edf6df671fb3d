// Package units resolves which measurement units an ingredient can be
// expressed in, and the multiplicative factor from any usable unit to the
// ingredient's primary unit. Units form a two-level graph: base units are
// associated with ingredients directly, derived units resolve through their
// parent with a ratio.
package units

import (
	"errors"
	"fmt"

	"verdant/models"
)

// ErrUnitNotUsable is returned when a unit cannot measure an ingredient.
var ErrUnitNotUsable = errors.New("units: unit not usable for ingredient")

// ErrMissingPrimaryUnit is returned when an ingredient has no usable unit
// marked primary. This is a data-integrity gap and is surfaced, never
// defaulted.
var ErrMissingPrimaryUnit = errors.New("units: ingredient has no primary unit")

// UnitNotUsableError wraps ErrUnitNotUsable with the offending pair.
type UnitNotUsableError struct {
	Ingredient string
	Unit       string
}

func (e *UnitNotUsableError) Error() string {
	return fmt.Sprintf("units: unit %q not usable for ingredient %q", e.Unit, e.Ingredient)
}

func (e *UnitNotUsableError) Unwrap() error { return ErrUnitNotUsable }

// MissingPrimaryUnitError wraps ErrMissingPrimaryUnit with the ingredient.
type MissingPrimaryUnitError struct {
	Ingredient string
}

func (e *MissingPrimaryUnitError) Error() string {
	return fmt.Sprintf("units: ingredient %q has no primary unit", e.Ingredient)
}

func (e *MissingPrimaryUnitError) Unwrap() error { return ErrMissingPrimaryUnit }

// UsableUnits returns every unit the ingredient can be measured in: the base
// units it is associated with, plus any unit in all that derives from one of
// them. The ingredient's UsableUnits must be loaded with their Unit.
func UsableUnits(ingredient *models.Ingredient, all []models.Unit) []models.Unit {
	base := make(map[uint]bool, len(ingredient.UsableUnits))
	units := make([]models.Unit, 0, len(ingredient.UsableUnits))
	for _, cu := range ingredient.UsableUnits {
		if cu.Unit == nil {
			continue
		}
		base[cu.UnitID] = true
		units = append(units, *cu.Unit)
	}
	for _, u := range all {
		if u.ParentUnitID != nil && base[*u.ParentUnitID] {
			units = append(units, u)
		}
	}
	return units
}

// ConversionFactor returns the factor converting one unit into the
// ingredient's primary unit. For a base usable unit this is the association's
// own factor; for a derived unit it is the parent's factor times the unit's
// ratio. Any other unit fails with ErrUnitNotUsable.
func ConversionFactor(ingredient *models.Ingredient, unit *models.Unit) (float64, error) {
	target := unit.ID
	ratio := 1.0
	if !unit.Base() {
		target = *unit.ParentUnitID
		if unit.Ratio != nil {
			ratio = *unit.Ratio
		}
	}
	for _, cu := range ingredient.UsableUnits {
		if cu.UnitID == target {
			return cu.ConversionFactor * ratio, nil
		}
	}
	return 0, &UnitNotUsableError{Ingredient: ingredient.Name, Unit: unit.Name}
}

// PrimaryUnit returns the single usable unit marked primary.
func PrimaryUnit(ingredient *models.Ingredient) (*models.UsableUnit, error) {
	for i := range ingredient.UsableUnits {
		if ingredient.UsableUnits[i].IsPrimaryUnit {
			return &ingredient.UsableUnits[i], nil
		}
	}
	return nil, &MissingPrimaryUnitError{Ingredient: ingredient.Name}
}

// ValidateUse checks that a unit can measure an ingredient before a recipe
// row referencing the pair is saved.
func ValidateUse(ingredient *models.Ingredient, unit *models.Unit) error {
	_, err := ConversionFactor(ingredient, unit)
	return err
}
