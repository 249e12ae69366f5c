package tips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/generation"
	"golang.org/x/sync/singleflight"
)

// Common errors returned by the Cache
var (
	ErrSpeciesUnknown       = errors.New("species not in catalog")
	ErrGeneratorUnavailable = errors.New("tip generator not configured")
)

// Cache memoizes generated tips per species.
//
// Keys are catalog.NormalizeKey(species), so "Basil" and "basil " share one
// entry. An entry is written at most once and never expires. Failed or empty
// generations leave the key unset so a later Ensure retries.
type Cache struct {
	catalog   *catalog.Catalog
	generator generation.TipGenerator
	entries   *cache.Cache
	flights   singleflight.Group
	logger    *slog.Logger
	metrics   *Metrics
}

// NewCache creates a tip cache. generator may be nil, in which case Ensure
// always fails with ErrGeneratorUnavailable. metrics may be nil.
func NewCache(c *catalog.Catalog, generator generation.TipGenerator, logger *slog.Logger, metrics *Metrics) *Cache {
	return &Cache{
		catalog:   c,
		generator: generator,
		entries:   cache.New(cache.NoExpiration, 0),
		logger:    logger.With("component", "tip_cache"),
		metrics:   metrics,
	}
}

// Tips returns the generated tips for species, or an empty list when none
// have been generated yet. It never blocks on generation.
func (c *Cache) Tips(species string) []string {
	tips, ok := c.lookup(catalog.NormalizeKey(species))
	if !ok {
		return []string{}
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}

// Has reports whether generated tips are cached for species.
func (c *Cache) Has(species string) bool {
	_, ok := c.lookup(catalog.NormalizeKey(species))
	return ok
}

// Len returns the number of cached species.
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}

// Available reports whether a remote generator is configured.
func (c *Cache) Available() bool {
	return c.generator != nil
}

func (c *Cache) lookup(key string) ([]string, bool) {
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	tips, ok := v.([]string)
	return tips, ok
}

// Ensure generates and stores tips for species unless they are already cached.
//
// Concurrent calls for the same normalized key share a single remote call.
// The returned error is informational: the cache is left unchanged on failure
// and callers are expected to fall back to Static.
func (c *Cache) Ensure(ctx context.Context, species string) error {
	key := catalog.NormalizeKey(species)
	entry, ok := c.catalog.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSpeciesUnknown, species)
	}

	if _, ok := c.lookup(key); ok {
		c.metrics.hit()
		return nil
	}
	c.metrics.miss()

	if c.generator == nil {
		return ErrGeneratorUnavailable
	}

	_, err, shared := c.flights.Do(key, func() (any, error) {
		// Another flight may have finished between the check above and now.
		if _, ok := c.lookup(key); ok {
			return nil, nil
		}
		return nil, c.generate(ctx, key, entry)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "tip generation failed",
			"species", key,
			"shared", shared,
			"error", err)
	}
	return err
}

func (c *Cache) generate(ctx context.Context, key string, entry catalog.Species) error {
	prompt, err := generation.BuildPrompt(entry)
	if err != nil {
		c.metrics.failed("prompt")
		return err
	}

	start := time.Now()
	text, err := c.generator.GenerateTips(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.failed(failureReason(err))
		return fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	tips := generation.ParseTips(text)
	if len(tips) == 0 {
		c.metrics.failed("empty")
		return generation.ErrEmptyResponse
	}

	c.entries.Set(key, tips, cache.NoExpiration)
	c.metrics.generated(elapsed.Seconds(), c.entries.ItemCount())
	c.logger.InfoContext(ctx, "tips generated",
		"species", key,
		"tip_count", len(tips),
		"duration", elapsed)
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, generation.ErrContentBlocked):
		return "blocked"
	case errors.Is(err, generation.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, generation.ErrTransientFailure):
		return "transient"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
