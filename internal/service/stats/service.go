package stats

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/inout-manager/realtime-go/internal/domain/stats"
)

// AnimationWindow is how long a changed counter interpolates from its
// old value to the new one. Display-only; the stored value is
// authoritative the moment Update returns.
const AnimationWindow = 500 * time.Millisecond

// Aggregator holds the latest dashboard counters. Each update replaces
// the previous snapshot wholesale; no history is retained.
type Aggregator struct {
	mu        sync.RWMutex
	clock     clock.Clock
	previous  stats.Dashboard
	current   stats.Dashboard
	updatedAt time.Time
}

func NewAggregator(clk clock.Clock) *Aggregator {
	if clk == nil {
		clk = clock.New()
	}
	return &Aggregator{clock: clk}
}

// Update replaces the current snapshot. The prior snapshot is kept
// only as the interpolation origin for the display window.
func (a *Aggregator) Update(d stats.Dashboard) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.previous = a.current
	a.current = d
	a.updatedAt = a.clock.Now()
}

// Current returns the authoritative snapshot
func (a *Aggregator) Current() stats.Dashboard {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Percentages returns the derived shares for the authoritative snapshot
func (a *Aggregator) Percentages() stats.Percentages {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current.DerivePercentages()
}

// Display returns the interpolated counters for rendering. Within
// AnimationWindow of the last update each field moves linearly from
// its previous value to the current one; afterwards Display equals
// Current.
func (a *Aggregator) Display() stats.Dashboard {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.updatedAt.IsZero() {
		return a.current
	}

	elapsed := a.clock.Now().Sub(a.updatedAt)
	if elapsed >= AnimationWindow {
		return a.current
	}

	progress := float64(elapsed) / float64(AnimationWindow)
	return stats.Dashboard{
		Present:      interpolate(a.previous.Present, a.current.Present, progress),
		Absent:       interpolate(a.previous.Absent, a.current.Absent, progress),
		OnBreak:      interpolate(a.previous.OnBreak, a.current.OnBreak, progress),
		LateArrivals: interpolate(a.previous.LateArrivals, a.current.LateArrivals, progress),
	}
}

func interpolate(from, to int, progress float64) int {
	return from + int(math.Round(float64(to-from)*progress))
}
