// Package lifecycle derives the germination status of a plant from its
// timestamps, its species metadata and an explicit user confirmation.
//
// The state machine has exactly two states, Planted and Germinated. The only
// transition is Planted -> Germinated, triggered by Confirm. Time passing never
// flips a plant on its own: an overdue plant stays Planted until confirmed.
package lifecycle

import (
	"math"
	"time"

	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/catalog"
)

const day = 24 * time.Hour

// Status is the derived, never-stored view of a plant's lifecycle.
type Status struct {
	Stage domain.Stage `json:"stage"`

	// AgeDays is the number of whole days since the plant was created.
	AgeDays int `json:"age_days"`

	// MetadataAvailable is false when the plant's species is not in the catalog.
	// All species-dependent fields below are zero in that case.
	MetadataAvailable bool `json:"metadata_available"`

	// MaxGerminationDays is the catalog threshold used for the derivation.
	MaxGerminationDays int `json:"max_germination_days,omitempty"`

	// DaysRemaining is never negative.
	DaysRemaining int `json:"days_remaining"`

	// Overdue is advisory only and is always false once germinated.
	Overdue bool `json:"overdue"`

	// ExpectedGerminationDate is CreatedAt + MaxGerminationDays.
	ExpectedGerminationDate time.Time `json:"expected_germination_date,omitzero"`

	// GerminatedAt is set only in the Germinated stage.
	GerminatedAt time.Time `json:"germinated_at,omitzero"`
}

// Confirm records the user's germination confirmation on p.
//
// The germination timestamp becomes at, raised to CreatedAt if at would precede
// it. Confirm reports whether the plant changed. A second confirmation is a
// no-op and leaves the original timestamp untouched.
func Confirm(p *domain.Plant, at time.Time) bool {
	if p == nil || p.Germinated {
		return false
	}

	at = at.UTC()
	if at.Before(p.CreatedAt) {
		at = p.CreatedAt
	}

	p.Germinated = true
	p.GerminatedAt = at
	return true
}

// AgeDays returns the number of whole days between created and now.
// A creation time in the future yields zero.
func AgeDays(created, now time.Time) int {
	elapsed := now.Sub(created)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed.Hours() / 24))
}

// Derive computes the status of p at time now.
//
// species is the catalog entry matched by the plant's species key, or nil when
// the key is unmatched. An unmatched species is not an error: the result simply
// reports MetadataAvailable=false with zeroed species-dependent signals.
func Derive(p domain.Plant, species *catalog.Species, now time.Time) Status {
	status := Status{
		Stage:   p.Stage(),
		AgeDays: AgeDays(p.CreatedAt, now),
	}

	if p.Germinated {
		status.GerminatedAt = p.GerminatedAt
	}

	if species == nil || species.MaxGerminationDays <= 0 {
		return status
	}

	maxDays := species.MaxGerminationDays
	status.MetadataAvailable = true
	status.MaxGerminationDays = maxDays
	status.ExpectedGerminationDate = p.CreatedAt.Add(time.Duration(maxDays) * day)

	if status.Stage == domain.StagePlanted {
		status.DaysRemaining = max(0, maxDays-status.AgeDays)
		status.Overdue = status.AgeDays >= maxDays
	}

	return status
}

// DeriveFromCatalog looks up the plant's species in c and derives its status.
func DeriveFromCatalog(p domain.Plant, c *catalog.Catalog, now time.Time) Status {
	if c == nil {
		return Derive(p, nil, now)
	}
	species, ok := c.Lookup(p.Species)
	if !ok {
		return Derive(p, nil, now)
	}
	return Derive(p, &species, now)
}
