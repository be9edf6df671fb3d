package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"verdant/internal/footprint"
	"verdant/internal/repository"
	"verdant/models"
)

// NewFootprintCommand creates the resolver diagnostic: it prints which supply
// option an ingredient currently resolves through and at what cost.
func NewFootprintCommand(rootOpts *RootOptions) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "footprint <ingredient>",
		Short: "Resolve an ingredient's current footprint",
		Long: `Resolve an ingredient's footprint per primary unit as of a date
(today by default). The ingredient may be given by id or by name.

Example:
  verdant footprint tomato
  verdant footprint 14 --date 2026-01-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			asOf := time.Now()
			if asOfFlag != "" {
				parsed, err := time.Parse("2006-01-02", asOfFlag)
				if err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
				asOf = parsed
			}

			database, err := openDatabase(ctx, rootOpts)
			if err != nil {
				return err
			}
			ingredients := repository.NewIngredientRepository(database)

			var ingredient *models.Ingredient
			if id, convErr := strconv.ParseUint(args[0], 10, 64); convErr == nil {
				ingredient, err = ingredients.FindByID(ctx, uint(id))
			} else {
				ingredient, err = ingredients.FindByName(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("find ingredient %q: %w", args[0], err)
			}

			resolver := footprint.NewResolver(ingredients)
			breakdown, err := resolver.Breakdown(ctx, ingredient, asOf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ingredient: %s (%s, %s)\n", ingredient.Name, ingredient.Type, ingredient.Veganism)
			fmt.Fprintf(out, "as of:      %s\n", asOf.Format("2006-01-02"))
			fmt.Fprintf(out, "footprint:  %g kg CO2e per primary unit\n", breakdown.Value)
			switch breakdown.Source {
			case footprint.SourceBase:
				fmt.Fprintln(out, "source:     base footprint (non-seasonal)")
			case footprint.SourceSupply:
				fmt.Fprintf(out, "source:     supply option %d, in season\n", breakdown.Option)
			case footprint.SourcePreserved:
				fmt.Fprintf(out, "source:     supply option %d, preserved %d days past season\n",
					breakdown.Option, breakdown.PreservedDays)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "date", "", "reference date (YYYY-MM-DD, default today)")

	return cmd
}
