// Package prefab holds the catalog of placeable prefabs and their clearance
// requirements.
package prefab

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/propscatter/internal/scatter"
)

// DefaultClearance is the clearance height of scene prefabs that do not set
// one.
const DefaultClearance = 1

var (
	ErrEmptyID          = errors.New("prefab id is empty")
	ErrDuplicatePrefab  = errors.New("duplicate prefab id")
	ErrInvalidClearance = errors.New("invalid clearance height")
	ErrUnknownPrefab    = errors.New("unknown prefab")
)

// Prefab is a placeable asset reference.
type Prefab struct {
	ID string `yaml:"id"`
	// Clearance is the free height the prefab needs above its base.
	// Nil means the prefab can go anywhere.
	Clearance *float32 `yaml:"clearance,omitempty"`
}

// WithClearance returns a prefab with the given clearance height.
func WithClearance(id string, height float32) Prefab {
	return Prefab{ID: id, Clearance: &height}
}

// Catalog is an ordered set of prefabs. It is read-only after construction
// and safe for concurrent use.
type Catalog struct {
	prefabs []Prefab
	index   map[string]int
}

// NewCatalog validates the prefabs and builds a catalog that keeps their order.
func NewCatalog(prefabs ...Prefab) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(prefabs))}
	for _, p := range prefabs {
		if p.ID == "" {
			return nil, ErrEmptyID
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePrefab, p.ID)
		}
		if p.Clearance != nil {
			h := float64(*p.Clearance)
			if h <= 0 || gomath.IsNaN(h) || gomath.IsInf(h, 0) {
				return nil, fmt.Errorf("%w: %q has %v", ErrInvalidClearance, p.ID, h)
			}
		}
		c.index[p.ID] = len(c.prefabs)
		c.prefabs = append(c.prefabs, p)
	}
	return c, nil
}

// Len returns the number of prefabs.
func (c *Catalog) Len() int {
	return len(c.prefabs)
}

// IDs returns every prefab id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.prefabs))
	for i, p := range c.prefabs {
		ids[i] = p.ID
	}
	return ids
}

// Get returns the prefab with the given id.
func (c *Catalog) Get(id string) (Prefab, bool) {
	i, ok := c.index[id]
	if !ok {
		return Prefab{}, false
	}
	return c.prefabs[i], true
}

// Clearance implements scatter.ClearanceLookup.
func (c *Catalog) Clearance(id string) (scatter.Clearance, bool) {
	p, ok := c.Get(id)
	if !ok || p.Clearance == nil {
		return scatter.Clearance{}, false
	}
	return scatter.Clearance{Height: *p.Clearance}, true
}

// Pool returns the ids to sample from. An empty selection means the whole
// catalog; otherwise every selected id must exist and the selection order
// is kept.
func (c *Catalog) Pool(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return c.IDs(), nil
	}
	pool := make([]string, 0, len(selected))
	for _, id := range selected {
		if _, ok := c.index[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPrefab, id)
		}
		pool = append(pool, id)
	}
	return pool, nil
}
