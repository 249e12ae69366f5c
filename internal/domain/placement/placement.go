// Package placement assigns non-overlapping positions to plant icons inside a
// bounded garden region. Placement is a pure computation: it never fails and
// never mutates the records it is given.
package placement

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Default tuning values
const (
	DefaultMaxAttempts = 500
	MinScale           = 0.5
	scaleStep          = 0.05
	scaleFreeCount     = 4
)

// Common errors
var (
	ErrInvalidShape  = errors.New("invalid region shape")
	ErrInvalidBounds = errors.New("region max must exceed min on both axes")
)

// Shape selects the geometry of a placement region.
type Shape string

// Supported region shapes
const (
	ShapeRect    Shape = "rect"
	ShapeEllipse Shape = "ellipse"
)

// Point is a position in region coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Region is the bounded area plants are laid out in. For ellipses, Min and Max
// describe the bounding box of the ellipse.
type Region struct {
	Shape Shape `json:"shape"`
	Min   Point `json:"min"`
	Max   Point `json:"max"`
}

// NewRegion validates and builds a region.
func NewRegion(shape Shape, minX, minY, maxX, maxY float64) (Region, error) {
	r := Region{Shape: shape, Min: Point{X: minX, Y: minY}, Max: Point{X: maxX, Y: maxY}}
	if err := r.Validate(); err != nil {
		return Region{}, err
	}
	return r, nil
}

// Validate checks the region shape and bounds.
func (r Region) Validate() error {
	if r.Shape != ShapeRect && r.Shape != ShapeEllipse {
		return fmt.Errorf("%w: %q", ErrInvalidShape, r.Shape)
	}
	if !(r.Max.X > r.Min.X) || !(r.Max.Y > r.Min.Y) {
		return ErrInvalidBounds
	}
	return nil
}

// IsZero reports whether the region is unset.
func (r Region) IsZero() bool {
	return r == Region{}
}

// Width of the region's bounding box.
func (r Region) Width() float64 { return r.Max.X - r.Min.X }

// Height of the region's bounding box.
func (r Region) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the geometric center, which is also the placement fallback.
func (r Region) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside the region, boundary included.
func (r Region) Contains(p Point) bool {
	if p.X < r.Min.X || p.X > r.Max.X || p.Y < r.Min.Y || p.Y > r.Max.Y {
		return false
	}
	if r.Shape != ShapeEllipse {
		return true
	}
	c := r.Center()
	a, b := r.Width()/2, r.Height()/2
	dx, dy := (p.X-c.X)/a, (p.Y-c.Y)/b
	// small tolerance for points sampled exactly on the rim
	return dx*dx+dy*dy <= 1+1e-9
}

// ScaledSize shrinks the base item size as the number of placed items grows.
// The result never increases with count and never drops below MinScale*base.
func ScaledSize(base float64, count int) float64 {
	extra := count - scaleFreeCount
	if extra < 0 {
		extra = 0
	}
	scale := 1 - scaleStep*float64(extra)
	if scale < MinScale {
		scale = MinScale
	}
	return base * scale
}

// Engine performs rejection-sampled placement. It is safe for concurrent use.
type Engine struct {
	maxAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an Engine. A nil source seeds a PCG generator from the clock;
// pass a fixed source for reproducible layouts.
func NewEngine(maxAttempts int, src rand.Source) *Engine {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Engine{
		maxAttempts: maxAttempts,
		rng:         rand.New(src),
	}
}

// MaxAttempts returns the number of candidates drawn before falling back.
func (e *Engine) MaxAttempts() int {
	return e.maxAttempts
}

// Place returns a position inside region whose spacing from every occupied
// center is at least itemSize+minGap. After MaxAttempts rejected candidates it
// returns region.Center(); overlap is accepted in that case.
func (e *Engine) Place(region Region, occupied []Point, itemSize, minGap float64) Point {
	p, _ := e.TryPlace(region, occupied, itemSize, minGap)
	return p
}

// TryPlace is Place but also reports whether a non-overlapping candidate was found.
func (e *Engine) TryPlace(region Region, occupied []Point, itemSize, minGap float64) (Point, bool) {
	if region.Validate() != nil {
		return region.Center(), false
	}

	spacing := itemSize + minGap
	if spacing < 0 {
		spacing = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		candidate := e.sample(region, itemSize/2)
		if fits(region.Shape, candidate, occupied, spacing) {
			return candidate, true
		}
	}

	return region.Center(), false
}

// sample draws a uniform candidate from the region shrunk by inset so the whole
// item stays inside. Axes too small for the inset collapse onto the center line.
func (e *Engine) sample(region Region, inset float64) Point {
	c := region.Center()
	halfW := math.Max(region.Width()/2-inset, 0)
	halfH := math.Max(region.Height()/2-inset, 0)

	if region.Shape == ShapeEllipse {
		theta := e.rng.Float64() * 2 * math.Pi
		r := math.Sqrt(e.rng.Float64())
		return Point{
			X: c.X + halfW*r*math.Cos(theta),
			Y: c.Y + halfH*r*math.Sin(theta),
		}
	}

	return Point{
		X: c.X + (e.rng.Float64()*2-1)*halfW,
		Y: c.Y + (e.rng.Float64()*2-1)*halfH,
	}
}

func fits(shape Shape, candidate Point, occupied []Point, spacing float64) bool {
	for _, o := range occupied {
		if shape == ShapeEllipse {
			if candidate.Distance(o) < spacing {
				return false
			}
			continue
		}
		if math.Abs(candidate.X-o.X) < spacing && math.Abs(candidate.Y-o.Y) < spacing {
			return false
		}
	}
	return true
}
