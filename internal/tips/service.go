package tips

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/task"
)

// Source identifies where a displayed tip list came from.
type Source string

// Tip sources
const (
	SourceGenerated   Source = "generated"
	SourceStatic      Source = "static"
	SourceUnavailable Source = "unavailable"
)

// Display is what a client renders for a species.
type Display struct {
	Species string   `json:"species"`
	Source  Source   `json:"source"`
	Tips    []string `json:"tips"`
	// Pending is true while a background generation for the species is queued or running.
	Pending bool `json:"pending"`
}

// Scheduler runs tasks in the background.
type Scheduler interface {
	Submit(t task.Task) error
}

// Service chooses between generated and static tips and schedules
// generation in the background. It never waits for the remote generator.
type Service struct {
	catalog   *catalog.Catalog
	cache     *Cache
	checker   DeviceChecker
	scheduler Scheduler
	logger    *slog.Logger
	metrics   *Metrics

	// pending holds normalized keys with a generation task queued or running.
	pending sync.Map
}

// NewService wires a Service. metrics may be nil.
func NewService(
	c *catalog.Catalog,
	cache *Cache,
	checker DeviceChecker,
	scheduler Scheduler,
	logger *slog.Logger,
	metrics *Metrics,
) *Service {
	return &Service{
		catalog:   c,
		cache:     cache,
		checker:   checker,
		scheduler: scheduler,
		logger:    logger.With("component", "tip_service"),
		metrics:   metrics,
	}
}

// ForDisplay returns the tips to show for species on a device.
//
// Unknown species yield SourceUnavailable with no tips. Incompatible devices
// always get the static fallback. Otherwise cached generated tips are
// returned, or generation is scheduled and the static fallback is returned
// with Pending set.
func (s *Service) ForDisplay(ctx context.Context, species, deviceModel string) Display {
	entry, ok := s.catalog.Lookup(species)
	if !ok {
		s.metrics.served(SourceUnavailable)
		return Display{Species: species, Source: SourceUnavailable, Tips: []string{}}
	}

	if !s.checker.Compatible(deviceModel) {
		return s.static(entry, false)
	}

	if generated := s.cache.Tips(entry.Name); len(generated) > 0 {
		s.metrics.served(SourceGenerated)
		return Display{Species: entry.Name, Source: SourceGenerated, Tips: generated}
	}

	if !s.cache.Available() {
		return s.static(entry, false)
	}

	return s.static(entry, s.schedule(ctx, entry))
}

func (s *Service) static(entry catalog.Species, pending bool) Display {
	s.metrics.served(SourceStatic)
	return Display{Species: entry.Name, Source: SourceStatic, Tips: Static(entry), Pending: pending}
}

// schedule queues one generation task per species and reports whether a
// generation is now pending.
func (s *Service) schedule(ctx context.Context, entry catalog.Species) bool {
	key := entry.Key()
	if _, loaded := s.pending.LoadOrStore(key, struct{}{}); loaded {
		return true
	}

	t := task.NewTipGenerationTask(entry.Name, ensureFunc(func(ctx context.Context, species string) error {
		defer s.pending.Delete(key)
		return s.cache.Ensure(ctx, species)
	}))

	if err := s.scheduler.Submit(t); err != nil {
		s.pending.Delete(key)
		s.logger.WarnContext(ctx, "failed to schedule tip generation",
			"species", key,
			"error", err)
		return false
	}

	s.logger.DebugContext(ctx, "tip generation scheduled",
		"species", key,
		"task_id", t.ID())
	return true
}

// IsPending reports whether generation for species is queued or running.
func (s *Service) IsPending(species string) bool {
	_, ok := s.pending.Load(catalog.NormalizeKey(species))
	return ok
}

type ensureFunc func(ctx context.Context, species string) error

func (f ensureFunc) Ensure(ctx context.Context, species string) error {
	return f(ctx, species)
}
