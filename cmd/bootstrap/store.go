package bootstrap

import (
	"log/slog"

	"booking-core/cmd/bootstrap/components"
	"booking-core/internal/infra/memstore"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

// StoreModule wires the unit of work for the configured driver.
func StoreModule(cfg config.Config) fx.Option {
	if cfg.Store.Driver == config.StoreDriverMemory {
		return fx.Module("store/memory",
			fx.Provide(
				fx.Annotate(
					NewMemoryStore,
					fx.As(new(shared.UnitOfWork)),
				),
			),
		)
	}
	return fx.Module("store/postgres",
		DBModule,
		components.PersistenceModule,
	)
}

// NewMemoryStore returns a process-local store seeded with the demo tenant.
func NewMemoryStore(cfg config.Config, logger *slog.Logger) (*memstore.Store, error) {
	store := memstore.New(cfg.Reservation.LockTimeout)
	ids, err := memstore.SeedDemo(store)
	if err != nil {
		return nil, err
	}
	logger.Info("インメモリストアにデモテナントを投入しました",
		"tenant", memstore.DemoTenantSlug,
		"employee_id", ids.EmployeeID.String(),
		"service_id", ids.ServiceID.String(),
		"client_id", ids.ClientID.String(),
		"branch_id", ids.BranchID.String(),
	)
	return store, nil
}
