package models

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"verdant/internal/season"
)

// ErrBasicIngredientSupply is returned when a supply option is attached to a
// basic ingredient. Supply options only make sense for seasonal ingredients;
// anything else is a programming error upstream.
var ErrBasicIngredientSupply = errors.New("models: supply option requires a seasonal ingredient")

// OriginKind distinguishes the two sourcing routes an ingredient can take.
type OriginKind int

const (
	CountryOrigin OriginKind = iota
	SeaOrigin
)

func (k OriginKind) String() string {
	if k == SeaOrigin {
		return "sea"
	}
	return "country"
}

// Origin is a place an ingredient can be sourced from, a set distance away
// from the reference market.
type Origin struct {
	gorm.Model
	Kind     OriginKind `gorm:"not null;default:0" json:"kind"`
	Name     string     `gorm:"uniqueIndex;not null" json:"name"`
	Distance float64    `gorm:"not null" json:"distance"`
}

// TransportMethod carries a mean carbon emission per km travelled.
type TransportMethod struct {
	gorm.Model
	Name          string  `gorm:"uniqueIndex;not null" json:"name"`
	EmissionPerKm float64 `gorm:"not null" json:"emission_per_km"`
}

// SupplyOption is one concrete way a seasonal ingredient can be sourced
// during a calendar window. Its footprint is computed when the row is saved,
// not on every read.
type SupplyOption struct {
	gorm.Model
	IngredientID uint        `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`

	OriginID uint    `gorm:"not null" json:"origin_id"`
	Origin   *Origin `gorm:"foreignKey:OriginID" json:"origin,omitempty"`

	TransportMethodID uint             `gorm:"not null" json:"transport_method_id"`
	TransportMethod   *TransportMethod `gorm:"foreignKey:TransportMethodID" json:"transport_method,omitempty"`

	ProductionType           string  `json:"production_type"`
	ExtraProductionFootprint float64 `json:"extra_production_footprint"`

	// Endangered flags sea routes drawing on threatened stock. Display
	// only, no effect on resolution.
	Endangered bool `gorm:"not null;default:false" json:"endangered"`

	// DateFrom and DateUntil are normalized onto the reference year on
	// save; only month and day are meaningful.
	DateFrom  time.Time `gorm:"not null" json:"date_from"`
	DateUntil time.Time `gorm:"not null" json:"date_until"`

	// Footprint is the cached per-primary-unit cost of sourcing through
	// this option, recomputed on every save.
	Footprint float64 `json:"footprint"`
}

// Window returns the availability window of this option.
func (s *SupplyOption) Window() season.Window {
	return season.NewWindow(s.DateFrom, s.DateUntil)
}

// Active reports whether the option can supply on the given date, stretched
// by extensionDays of preservation.
func (s *SupplyOption) Active(date time.Time, extensionDays int) bool {
	return s.Window().Active(date, extensionDays)
}

// BeforeSave normalizes the window onto the reference year and recomputes the
// cached footprint from its inputs. Options on basic ingredients are
// rejected.
func (s *SupplyOption) BeforeSave(tx *gorm.DB) error {
	ingredient := s.Ingredient
	if ingredient == nil || ingredient.ID != s.IngredientID {
		ingredient = &Ingredient{}
		if err := tx.First(ingredient, s.IngredientID).Error; err != nil {
			return err
		}
	}
	if !ingredient.Type.Seasonal() {
		return ErrBasicIngredientSupply
	}

	origin := s.Origin
	if origin == nil || origin.ID != s.OriginID {
		origin = &Origin{}
		if err := tx.First(origin, s.OriginID).Error; err != nil {
			return err
		}
	}
	transport := s.TransportMethod
	if transport == nil || transport.ID != s.TransportMethodID {
		transport = &TransportMethod{}
		if err := tx.First(transport, s.TransportMethodID).Error; err != nil {
			return err
		}
	}

	s.DateFrom = season.Normalize(s.DateFrom)
	s.DateUntil = season.Normalize(s.DateUntil)
	s.Footprint = ingredient.BaseFootprint + s.ExtraProductionFootprint + origin.Distance*transport.EmissionPerKm
	return nil
}
