// Package mock holds gomock doubles of the usecase interfaces consumed by handlers.
package mock

//go:generate mockgen -source=../../internal/usecase/commands/reservation.go -destination=commands/reservation.go -package=commandsmock
//go:generate mockgen -source=../../internal/usecase/commands/schedule.go -destination=commands/schedule.go -package=commandsmock
//go:generate mockgen -source=../../internal/usecase/queries/slots.go -destination=queries/slots.go -package=queriesmock
//go:generate mockgen -source=../../internal/usecase/queries/appointments.go -destination=queries/appointments.go -package=queriesmock
//go:generate mockgen -source=../../internal/usecase/queries/tenants.go -destination=queries/tenants.go -package=queriesmock
//go:generate mockgen -source=../../internal/usecase/commands/settings.go -destination=commands/settings.go -package=commandsmock
//go:generate mockgen -source=../../internal/usecase/commands/reminders.go -destination=commands/reminders.go -package=commandsmock
//go:generate mockgen -source=../../internal/usecase/queries/reminders.go -destination=queries/reminders.go -package=queriesmock
