package repository

import (
	"context"
	"fmt"
	"strings"

	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
)

// Upsert writes one row identified by its natural key, replacing the non-key columns
// when the key already exists. Applying the same row twice leaves one row.
type Upsert struct {
	Table   string
	Keys    []string
	Columns []string
}

func (u Upsert) SQL() string {
	all := make([]string, 0, len(u.Keys)+len(u.Columns))
	all = append(all, u.Keys...)
	all = append(all, u.Columns...)

	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		u.Table, strings.Join(all, ", "), strings.Join(placeholders, ", "), strings.Join(u.Keys, ", "))
	if len(u.Columns) == 0 {
		b.WriteString("DO NOTHING")
		return b.String()
	}
	sets := make([]string, len(u.Columns))
	for i, c := range u.Columns {
		sets[i] = c + " = EXCLUDED." + c
	}
	b.WriteString("DO UPDATE SET " + strings.Join(sets, ", "))
	return b.String()
}

// Exec runs the upsert with values ordered as Keys followed by Columns.
func (u Upsert) Exec(ctx context.Context, db DBTX, keys []any, values []any) error {
	if len(keys) != len(u.Keys) || len(values) != len(u.Columns) {
		err := errs.Newf("upsert %s: expected %d keys and %d values, got %d and %d",
			u.Table, len(u.Keys), len(u.Columns), len(keys), len(values))
		return infra.WrapRepoErr("invalid upsert arguments", err, infra.KindDBFailure)
	}
	args := make([]any, 0, len(keys)+len(values))
	args = append(args, keys...)
	args = append(args, values...)
	_, err := db.Exec(ctx, u.SQL(), args...)
	return err
}

var (
	weeklyUpsert = Upsert{
		Table:   "weekly_schedules",
		Keys:    []string{"tenant_id", "employee_id", "weekday"},
		Columns: []string{"is_work_day", "start_minute", "end_minute", "updated_at"},
	}
	exceptionUpsert = Upsert{
		Table:   "schedule_exceptions",
		Keys:    []string{"tenant_id", "employee_id", "exception_date"},
		Columns: []string{"exception_type", "ranges", "reason", "updated_at"},
	}
	settingsUpsert = Upsert{
		Table:   "tenant_settings",
		Keys:    []string{"tenant_id"},
		Columns: []string{"slot_step_minutes", "min_lead_time_minutes", "reminder_offsets_minutes", "reminder_channels", "default_status", "updated_at"},
	}
)
