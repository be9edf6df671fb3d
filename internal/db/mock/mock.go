package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	internaldb "verdant/internal/db"
	applog "verdant/internal/log"
	"verdant/models"
)

// New returns an in-memory sqlite database seeded with a small seasonal
// catalog: units, transport methods, origins, a handful of ingredients with
// supply options, and one recipe.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	// Each call gets its own shared-cache database so independent tests
	// never seed into one another.
	dsn := fmt.Sprintf("file:verdant-mock-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := internaldb.AutoMigrate(db); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func window(fromMonth time.Month, fromDay int, untilMonth time.Month, untilDay int) (time.Time, time.Time) {
	from := time.Date(2000, fromMonth, fromDay, 0, 0, 0, 0, time.UTC)
	until := time.Date(2000, untilMonth, untilDay, 0, 0, 0, 0, time.UTC)
	return from, until
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	kilogram := models.Unit{Name: "kilogram", ShortName: "kg"}
	liter := models.Unit{Name: "liter", ShortName: "l"}
	piece := models.Unit{Name: "piece", ShortName: "pc"}
	for _, unit := range []*models.Unit{&kilogram, &liter, &piece} {
		if err := db.WithContext(ctx).Create(unit).Error; err != nil {
			return err
		}
	}
	ratio := 0.001
	gram := models.Unit{Name: "gram", ShortName: "g", ParentUnitID: &kilogram.ID, Ratio: &ratio}
	if err := db.WithContext(ctx).Create(&gram).Error; err != nil {
		return err
	}

	truck := models.TransportMethod{Name: "truck", EmissionPerKm: 0.00025}
	boat := models.TransportMethod{Name: "boat", EmissionPerKm: 0.00004}
	plane := models.TransportMethod{Name: "plane", EmissionPerKm: 0.0015}
	for _, method := range []*models.TransportMethod{&truck, &boat, &plane} {
		if err := db.WithContext(ctx).Create(method).Error; err != nil {
			return err
		}
	}

	local := models.Origin{Kind: models.CountryOrigin, Name: "Belgium", Distance: 50}
	spain := models.Origin{Kind: models.CountryOrigin, Name: "Spain", Distance: 1600}
	newZealand := models.Origin{Kind: models.CountryOrigin, Name: "New Zealand", Distance: 18700}
	northSea := models.Origin{Kind: models.SeaOrigin, Name: "North Sea", Distance: 250}
	for _, origin := range []*models.Origin{&local, &spain, &newZealand, &northSea} {
		if err := db.WithContext(ctx).Create(origin).Error; err != nil {
			return err
		}
	}

	salt := models.Ingredient{
		Name:          "salt",
		Category:      models.Spices,
		Veganism:      models.Vegan,
		Type:          models.Basic,
		BaseFootprint: 0.3,
		Accepted:      true,
	}
	cheese := models.Ingredient{
		Name:          "cheese",
		Category:      models.DairyProducts,
		Veganism:      models.Vegetarian,
		Type:          models.Basic,
		BaseFootprint: 8.5,
		Accepted:      true,
	}
	tomato := models.Ingredient{
		Name:                  "tomato",
		PluralName:            "tomatoes",
		Category:              models.Vegetables,
		Veganism:              models.Vegan,
		Type:                  models.Seasonal,
		BaseFootprint:         0.8,
		Preservability:        21,
		PreservationFootprint: 0.02,
		Accepted:              true,
	}
	mussel := models.Ingredient{
		Name:          "mussel",
		Category:      models.Fish,
		Veganism:      models.NonVegetarian,
		Type:          models.SeasonalSea,
		BaseFootprint: 1.1,
		Accepted:      true,
	}
	for _, ingredient := range []*models.Ingredient{&salt, &cheese, &tomato, &mussel} {
		if err := db.WithContext(ctx).Create(ingredient).Error; err != nil {
			return err
		}
	}

	if err := db.WithContext(ctx).Create(&models.Synonym{Name: "love apple", IngredientID: tomato.ID}).Error; err != nil {
		return err
	}

	usableUnits := []models.UsableUnit{
		{IngredientID: salt.ID, UnitID: kilogram.ID, IsPrimaryUnit: true, ConversionFactor: 1},
		{IngredientID: cheese.ID, UnitID: kilogram.ID, IsPrimaryUnit: true, ConversionFactor: 1},
		{IngredientID: tomato.ID, UnitID: kilogram.ID, IsPrimaryUnit: true, ConversionFactor: 1},
		{IngredientID: tomato.ID, UnitID: piece.ID, ConversionFactor: 0.12},
		{IngredientID: mussel.ID, UnitID: kilogram.ID, IsPrimaryUnit: true, ConversionFactor: 1},
	}
	for _, usable := range usableUnits {
		usableCopy := usable
		if err := db.WithContext(ctx).Create(&usableCopy).Error; err != nil {
			return err
		}
	}

	tomatoLocalFrom, tomatoLocalUntil := window(time.June, 1, time.October, 15)
	tomatoSpainFrom, tomatoSpainUntil := window(time.February, 15, time.November, 30)
	musselFrom, musselUntil := window(time.September, 1, time.April, 15)

	supplyOptions := []models.SupplyOption{
		{
			IngredientID:      tomato.ID,
			OriginID:          local.ID,
			TransportMethodID: truck.ID,
			DateFrom:          tomatoLocalFrom,
			DateUntil:         tomatoLocalUntil,
		},
		{
			IngredientID:             tomato.ID,
			OriginID:                 spain.ID,
			TransportMethodID:        truck.ID,
			ProductionType:           "greenhouse",
			ExtraProductionFootprint: 0.25,
			DateFrom:                 tomatoSpainFrom,
			DateUntil:                tomatoSpainUntil,
		},
		{
			IngredientID:      mussel.ID,
			OriginID:          northSea.ID,
			TransportMethodID: boat.ID,
			DateFrom:          musselFrom,
			DateUntil:         musselUntil,
		},
	}
	for _, option := range supplyOptions {
		optionCopy := option
		if err := db.WithContext(ctx).Create(&optionCopy).Error; err != nil {
			return err
		}
	}

	salad := models.Recipe{
		Name:         "tomato salad",
		Course:       models.Salad,
		Portions:     4,
		ActiveTime:   15,
		PassiveTime:  0,
		Instructions: "Slice, season, serve.",
	}
	if err := db.WithContext(ctx).Create(&salad).Error; err != nil {
		return err
	}

	uses := []models.UsesIngredient{
		{RecipeID: salad.ID, IngredientID: tomato.ID, UnitID: kilogram.ID, Amount: 0.6, Group: "salad"},
		{RecipeID: salad.ID, IngredientID: cheese.ID, UnitID: gram.ID, Amount: 150, Group: "salad"},
		{RecipeID: salad.ID, IngredientID: salt.ID, UnitID: gram.ID, Amount: 5, Group: "dressing"},
	}
	for _, use := range uses {
		useCopy := use
		if err := db.WithContext(ctx).Create(&useCopy).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
