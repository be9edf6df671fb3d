package cli

import (
	"github.com/spf13/cobra"

	"verdant/internal/cascade"
	"verdant/internal/footprint"
	"verdant/internal/repository"
)

// NewRecomputeCommand creates the batch entry point. A cron-style runner
// invokes it periodically; it recomputes every recipe unconditionally.
func NewRecomputeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute every recipe's footprint, veganism and acceptance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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
			return scheduler.RecomputeAll(ctx)
		},
	}
}
