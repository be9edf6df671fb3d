package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"verdant/internal/cascade"
	"verdant/internal/footprint"
	"verdant/internal/repository"
)

// NewCascadeCommand creates a manual trigger for the ingredient-changed
// cascade, useful after correcting supply data by hand.
func NewCascadeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cascade <ingredient-id>",
		Short: "Recompute the recipes that use an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse ingredient id: %w", err)
			}

			database, err := openDatabase(ctx, rootOpts)
			if err != nil {
				return err
			}

			ingredients := repository.NewIngredientRepository(database)
			recipes := repository.NewRecipeRepository(database)
			aggregator := footprint.NewAggregator(footprint.NewResolver(ingredients))

			scheduler := cascade.NewScheduler(recipes, aggregator,
				cascade.WithThreshold(rootOpts.Config.Engine.CascadeThreshold),
				cascade.WithChunkSize(rootOpts.Config.Engine.BatchChunkSize),
			)
			return scheduler.OnIngredientChanged(ctx, uint(id))
		},
	}
}
