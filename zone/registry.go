package zone

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
)

// Registry tracks which zones the character currently overlaps. Triggers call
// Enter and Leave from the host's contact callbacks; the simulation tick reads
// a Snapshot. Surfaces keep their entry order so the oldest overlapping zone
// stays the preferred attach target.
type Registry struct {
	mu       sync.Mutex
	surfaces *orderedmap.OrderedMap[string, Surface]
	crouch   int
}

// NewRegistry returns an empty zone registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: orderedmap.NewOrderedMap[string, Surface]()}
}

// EnterSurface records overlap with a climb surface. Re-entering an already
// active surface refreshes its descriptor but keeps its order.
func (r *Registry) EnterSurface(s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces.Set(s.ID, s)
}

// LeaveSurface revokes a climb surface.
func (r *Registry) LeaveSurface(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces.Delete(id)
}

// EnterCrouch records overlap with a crouch zone. Overlaps nest.
func (r *Registry) EnterCrouch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.crouch++
}

// LeaveCrouch revokes one crouch zone overlap.
func (r *Registry) LeaveCrouch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.crouch > 0 {
		r.crouch--
	}
}

// Snapshot returns the current zone membership for one simulation tick.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{Crouch: r.crouch > 0}
	for el := r.surfaces.Front(); el != nil; el = el.Next() {
		snap.Surfaces = append(snap.Surfaces, el.Value)
		if snap.Ladder == nil && !el.Value.FreeClimb {
			ladder := el.Value
			snap.Ladder = &ladder
		}
	}
	return snap
}
