// Package cascade propagates ingredient changes to the recipes that use
// them. Small fan-outs are recomputed synchronously; widely used ingredients
// defer to the periodic batch job so one edit to salt cannot stall a request.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"verdant/internal/footprint"
	applog "verdant/internal/log"
	"verdant/models"
)

// DefaultThreshold is the dependent-recipe count at which a cascade defers to
// the batch job instead of recomputing synchronously.
const DefaultThreshold = 100

// DefaultChunkSize is how many recipes the batch job loads per round trip.
const DefaultChunkSize = 200

// RecipeStore is the storage collaborator the scheduler recomputes through.
// Recipes are returned with their ingredient rows loaded deep enough to
// aggregate (Uses, each with Ingredient incl. UsableUnits, and Unit).
type RecipeStore interface {
	// FindByID loads one recipe.
	FindByID(ctx context.Context, id uint) (*models.Recipe, error)
	// Using returns every recipe referencing the ingredient.
	Using(ctx context.Context, ingredientID uint) ([]models.Recipe, error)
	// MarkStale flags recipes as pending batch recomputation.
	MarkStale(ctx context.Context, recipeIDs []uint) error
	// SaveAggregate persists a recomputed aggregate and clears staleness.
	SaveAggregate(ctx context.Context, recipeID uint, aggregate footprint.Aggregate) error
	// ForEach walks all recipes in chunks of at most chunkSize.
	ForEach(ctx context.Context, chunkSize int, fn func(recipes []models.Recipe) error) error
}

// BatchTrigger is notified when a cascade was deferred, so an external job
// runner can schedule the batch sooner than its regular cadence. Triggers
// must tolerate being fired more than once for the same change.
type BatchTrigger interface {
	Deferred(ctx context.Context, ingredientID uint, dependents int) error
}

// LogTrigger is the default BatchTrigger: it only records that work was
// deferred, relying on the regular batch cadence.
type LogTrigger struct{}

// Deferred implements BatchTrigger.
func (LogTrigger) Deferred(ctx context.Context, ingredientID uint, dependents int) error {
	applog.Info(ctx, "cascade deferred to batch job",
		"ingredient_id", ingredientID,
		"dependents", dependents,
	)
	return nil
}

// Scheduler decides between synchronous and deferred recomputation.
type Scheduler struct {
	store      RecipeStore
	aggregator *footprint.Aggregator
	trigger    BatchTrigger
	threshold  int
	chunkSize  int
	now        func() time.Time

	// locks serializes concurrent recomputations of the same recipe.
	locks sync.Map
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithThreshold overrides the synchronous fan-out limit.
func WithThreshold(threshold int) Option {
	return func(s *Scheduler) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithChunkSize overrides the batch chunk size.
func WithChunkSize(size int) Option {
	return func(s *Scheduler) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithTrigger installs a custom deferred-batch trigger.
func WithTrigger(trigger BatchTrigger) Option {
	return func(s *Scheduler) {
		if trigger != nil {
			s.trigger = trigger
		}
	}
}

// WithClock overrides the reference-date source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler builds a Scheduler over the given store and aggregator.
func NewScheduler(store RecipeStore, aggregator *footprint.Aggregator, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:      store,
		aggregator: aggregator,
		trigger:    LogTrigger{},
		threshold:  DefaultThreshold,
		chunkSize:  DefaultChunkSize,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnIngredientChanged reacts to a footprint-affecting edit of an ingredient.
// Below the threshold every dependent recipe is recomputed before returning;
// at or above it the dependents are marked stale and the batch trigger fires.
// One recipe failing does not stop the others; the errors are joined.
func (s *Scheduler) OnIngredientChanged(ctx context.Context, ingredientID uint) error {
	recipes, err := s.store.Using(ctx, ingredientID)
	if err != nil {
		return fmt.Errorf("cascade: load dependents of ingredient %d: %w", ingredientID, err)
	}
	if len(recipes) == 0 {
		return nil
	}

	if len(recipes) >= s.threshold {
		ids := make([]uint, len(recipes))
		for i := range recipes {
			ids[i] = recipes[i].ID
		}
		if err := s.store.MarkStale(ctx, ids); err != nil {
			return fmt.Errorf("cascade: mark stale: %w", err)
		}
		return s.trigger.Deferred(ctx, ingredientID, len(recipes))
	}

	asOf := s.now()
	var errs []error
	for i := range recipes {
		if err := s.recompute(ctx, &recipes[i], asOf); err != nil {
			applog.Error(ctx, "cascade recomputation failed",
				"recipe_id", recipes[i].ID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecomputeAll is the periodic batch entry point. It recomputes every recipe
// unconditionally; recomputing an already-consistent recipe is a no-op in
// effect, so overlapping with synchronous cascades only wastes work. A
// recipe that fails is logged and skipped; the run keeps going.
func (s *Scheduler) RecomputeAll(ctx context.Context) error {
	runID := uuid.NewString()
	asOf := s.now()
	recomputed, failed := 0, 0

	applog.Info(ctx, "batch recompute started", "run_id", runID)

	err := s.store.ForEach(ctx, s.chunkSize, func(recipes []models.Recipe) error {
		for i := range recipes {
			if err := s.recompute(ctx, &recipes[i], asOf); err != nil {
				failed++
				applog.Error(ctx, "batch recomputation failed",
					"run_id", runID,
					"recipe_id", recipes[i].ID,
					"error", err,
				)
				continue
			}
			recomputed++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cascade: batch run %s: %w", runID, err)
	}

	applog.Info(ctx, "batch recompute finished",
		"run_id", runID,
		"recomputed", recomputed,
		"failed", failed,
	)
	if failed > 0 {
		return fmt.Errorf("cascade: batch run %s: %d recipes failed", runID, failed)
	}
	return nil
}

// recompute aggregates one recipe and persists the result, holding the
// recipe's lock so two concurrent recomputations cannot interleave. The
// recipe is reloaded under the lock; the caller's copy may predate a write
// made by whoever held the lock first.
func (s *Scheduler) recompute(ctx context.Context, recipe *models.Recipe, asOf time.Time) error {
	lock := s.lockFor(recipe.ID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.store.FindByID(ctx, recipe.ID)
	if err != nil {
		return err
	}
	aggregate, err := s.aggregator.Aggregate(ctx, current, asOf)
	if err != nil {
		return err
	}
	return s.store.SaveAggregate(ctx, current.ID, aggregate)
}

func (s *Scheduler) lockFor(recipeID uint) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(recipeID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
