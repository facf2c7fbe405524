package queries

import (
	"context"
	"strings"

	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type TenantQueries interface {
	// Resolve accepts a tenant id or slug. Inactive tenants are reported as not found.
	Resolve(ctx context.Context, key string) (*TenantView, error)
	Settings(ctx context.Context, tenantID uuid.UUID) (*SettingsView, error)
}

type tenantQueriesImpl struct {
	uow      shared.UnitOfWork
	defaults tenant.Defaults
}

func NewTenantQueries(uow shared.UnitOfWork, defaults tenant.Defaults) TenantQueries {
	return &tenantQueriesImpl{uow: uow, defaults: defaults}
}

func (q *tenantQueriesImpl) Resolve(ctx context.Context, key string) (*TenantView, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errs.Validationf("tenant key is required")
	}

	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) (*TenantView, error) {
		var (
			t   *tenant.Tenant
			err error
		)
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			t, err = tx.Tenants().FindByID(ctx, id)
		} else {
			t, err = tx.Tenants().FindBySlug(ctx, strings.ToLower(key))
		}
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "tenant")
		}
		if !t.Active() {
			return nil, errs.NotFoundf("tenant %s is inactive", key)
		}
		return &TenantView{ID: t.ID(), Slug: t.Slug(), Name: t.Name(), Active: t.Active()}, nil
	})
}

func (q *tenantQueriesImpl) Settings(ctx context.Context, tenantID uuid.UUID) (*SettingsView, error) {
	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) (*SettingsView, error) {
		stored, err := tx.Tenants().Settings(ctx, tenantID)
		if err != nil {
			return nil, shared.MapRepoErr(err)
		}
		return &SettingsView{Settings: q.defaults.Resolve(stored), Stored: stored != nil}, nil
	})
}
