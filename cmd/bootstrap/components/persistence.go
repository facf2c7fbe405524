package components

import (
	"booking-core/internal/infra/uow"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

// PersistenceModule expects a *pgxpool.Pool from the db module.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)
