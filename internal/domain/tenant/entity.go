package tenant

import (
	"github.com/google/uuid"
)

type Tenant struct {
	id     uuid.UUID
	slug   string
	name   string
	active bool
}

func ReconstructTenant(id uuid.UUID, slug, name string, active bool) *Tenant {
	return &Tenant{id: id, slug: slug, name: name, active: active}
}

func (t *Tenant) ID() uuid.UUID { return t.id }
func (t *Tenant) Slug() string  { return t.slug }
func (t *Tenant) Name() string  { return t.name }
func (t *Tenant) Active() bool  { return t.active }
