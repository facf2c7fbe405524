package repository

import (
	"context"

	"booking-core/internal/domain/catalog"
	"booking-core/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Branch(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Branch, error) {
	var (
		name     string
		timezone string
	)
	err := r.db.QueryRow(ctx, `
		SELECT name, timezone FROM branches WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&name, &timezone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find branch", err)
	}
	b, err := catalog.ReconstructBranch(id, tenantID, name, timezone)
	if err != nil {
		return nil, infra.WrapRepoErr("branch has an unknown timezone", err, infra.KindDBFailure)
	}
	return b, nil
}

func (r *CatalogRepository) Service(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Service, error) {
	var (
		name     string
		duration int32
		rawPrice string
		active   bool
	)
	err := r.db.QueryRow(ctx, `
		SELECT name, duration_minutes, price::text, is_active FROM services WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&name, &duration, &rawPrice, &active)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find service", err)
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("service price is not a decimal", err, infra.KindDBFailure)
	}
	return catalog.ReconstructService(id, tenantID, name, int(duration), price, active), nil
}

func (r *CatalogRepository) Employee(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Employee, error) {
	var (
		branchID   uuid.UUID
		name       string
		active     bool
		serviceIDs []string
	)
	err := r.db.QueryRow(ctx, `
		SELECT e.branch_id, e.name, e.is_active,
		       COALESCE(array_agg(es.service_id::text) FILTER (WHERE es.service_id IS NOT NULL), '{}')
		FROM employees e
		LEFT JOIN employee_services es ON es.tenant_id = e.tenant_id AND es.employee_id = e.id
		WHERE e.tenant_id = $1 AND e.id = $2
		GROUP BY e.id
	`, tenantID, id).Scan(&branchID, &name, &active, &serviceIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find employee", err)
	}
	ids := make([]uuid.UUID, 0, len(serviceIDs))
	for _, raw := range serviceIDs {
		sid, err := uuid.Parse(raw)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid employee service id", err, infra.KindDBFailure)
		}
		ids = append(ids, sid)
	}
	return catalog.ReconstructEmployee(id, tenantID, branchID, name, active, ids), nil
}

func (r *CatalogRepository) Client(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Client, error) {
	var name, email, phone string
	err := r.db.QueryRow(ctx, `
		SELECT name, email, phone FROM clients WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(&name, &email, &phone)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find client", err)
	}
	return catalog.ReconstructClient(id, tenantID, name, email, phone), nil
}
