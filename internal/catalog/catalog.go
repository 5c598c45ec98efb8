// Package catalog holds the building templates settlements are built from.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidTemplate marks a template rejected at load time
	ErrInvalidTemplate = errors.New("invalid building template")

	// ErrNoTemplate is returned when no template exists for an archetype
	ErrNoTemplate = errors.New("no template for archetype")
)

// Catalog is an immutable set of templates grouped by archetype
type Catalog struct {
	templates   []*Template
	byArchetype map[Archetype][]*Template
	byName      map[string]*Template
}

// New validates every definition and builds a catalog. Any invalid template
// rejects the whole catalog.
func New(defs []TemplateDef) (*Catalog, error) {
	c := &Catalog{
		byArchetype: make(map[Archetype][]*Template),
		byName:      make(map[string]*Template),
	}

	for _, def := range defs {
		t, err := NewTemplate(def)
		if err != nil {
			return nil, err
		}
		if _, exists := c.byName[t.Name]; exists {
			return nil, fmt.Errorf("%w: %q: duplicate template name", ErrInvalidTemplate, t.Name)
		}
		c.templates = append(c.templates, t)
		c.byName[t.Name] = t
		c.byArchetype[t.Archetype] = append(c.byArchetype[t.Archetype], t)
	}

	return c, nil
}

// Resolve picks one template of the archetype uniformly at random
func (c *Catalog) Resolve(a Archetype, rng *rand.Rand) (*Template, error) {
	candidates := c.byArchetype[a]
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, a)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Has reports whether at least one template exists for the archetype
func (c *Catalog) Has(a Archetype) bool {
	return len(c.byArchetype[a]) > 0
}

// Templates returns the templates of an archetype in catalog order
func (c *Catalog) Templates(a Archetype) []*Template {
	return append([]*Template(nil), c.byArchetype[a]...)
}

// All returns every template in catalog order
func (c *Catalog) All() []*Template {
	return append([]*Template(nil), c.templates...)
}

// Lookup returns a template by name
func (c *Catalog) Lookup(name string) (*Template, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// Len returns the number of templates
func (c *Catalog) Len() int {
	return len(c.templates)
}
