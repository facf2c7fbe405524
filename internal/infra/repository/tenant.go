package repository

import (
	"context"

	"booking-core/internal/domain/tenant"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type TenantRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewTenantRepository(db DBTX, clock clock.Clock) *TenantRepository {
	return &TenantRepository{db: db, clock: clock}
}

func (r *TenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.findOne(ctx, `SELECT id, slug, name, is_active FROM tenants WHERE id = $1`, id)
}

func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return r.findOne(ctx, `SELECT id, slug, name, is_active FROM tenants WHERE slug = $1`, slug)
}

func (r *TenantRepository) findOne(ctx context.Context, query string, arg any) (*tenant.Tenant, error) {
	var (
		id     uuid.UUID
		slug   string
		name   string
		active bool
	)
	if err := r.db.QueryRow(ctx, query, arg).Scan(&id, &slug, &name, &active); err != nil {
		return nil, infra.WrapRepoErr("failed to find tenant", err)
	}
	return tenant.ReconstructTenant(id, slug, name, active), nil
}

func (r *TenantRepository) Settings(ctx context.Context, tenantID uuid.UUID) (*tenant.Settings, error) {
	var row converter.SettingsRow
	err := r.db.QueryRow(ctx, `
		SELECT slot_step_minutes, min_lead_time_minutes, reminder_offsets_minutes, reminder_channels, default_status
		FROM tenant_settings
		WHERE tenant_id = $1
	`, tenantID).Scan(&row.SlotStepMinutes, &row.MinLeadTimeMinutes, &row.ReminderOffsets, &row.ReminderChannels, &row.DefaultStatus)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load tenant settings", err)
	}
	return converter.SettingsToDomain(row), nil
}

func (r *TenantRepository) UpsertSettings(ctx context.Context, tenantID uuid.UUID, s tenant.Settings) error {
	row := converter.SettingsToRow(s)
	err := settingsUpsert.Exec(ctx, r.db,
		[]any{tenantID},
		[]any{row.SlotStepMinutes, row.MinLeadTimeMinutes, row.ReminderOffsets, row.ReminderChannels, row.DefaultStatus, r.clock.Now()},
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert tenant settings", err)
	}
	return nil
}
