//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const TenantSlug = "acme"

// DBLike is satisfied by a pool, a connection or a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Reference rows seeded into every test database.
var (
	TenantID      = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a01")
	BranchID      = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a02")
	ServiceID     = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a03")
	LongServiceID = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a04")
	EmployeeID    = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a05")
	ClientID      = uuid.MustParse("0b9f6a3e-7c1d-4e52-9a40-5f3c2d1e0a06")
)

// CreateTestEmployee adds an employee of the seeded branch offering the seeded services,
// working Monday to Saturday 08:00-19:00.
func CreateTestEmployee(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, "INSERT INTO employees (id, tenant_id, branch_id, name) VALUES ($1, $2, $3, $4)",
		id, TenantID, BranchID, name)
	require.NoError(t, err)
	require.NoError(t, seedEmployee(ctx, db, id))
	return id
}

// CreateTestTenant adds an empty active tenant.
func CreateTestTenant(t *testing.T, db DBLike, slug string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO tenants (id, slug, name) VALUES ($1, $2, $3)", id, slug, slug)
	require.NoError(t, err)
	return id
}

func seedEmployee(ctx context.Context, db DBLike, employeeID uuid.UUID) error {
	for _, svc := range []uuid.UUID{ServiceID, LongServiceID} {
		if _, err := db.Exec(ctx,
			"INSERT INTO employee_services (tenant_id, employee_id, service_id) VALUES ($1, $2, $3)",
			TenantID, employeeID, svc); err != nil {
			return err
		}
	}
	for day := 0; day < 7; day++ {
		work := day != 0
		start, end := 0, 0
		if work {
			start, end = 8*60, 19*60
		}
		if _, err := db.Exec(ctx,
			`INSERT INTO weekly_schedules (tenant_id, employee_id, weekday, is_work_day, start_minute, end_minute)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			TenantID, employeeID, day, work, start, end); err != nil {
			return err
		}
	}
	return nil
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	stmts := []struct {
		sql  string
		args []any
	}{
		{"INSERT INTO tenants (id, slug, name) VALUES ($1, $2, 'Acme Salon')", []any{TenantID, TenantSlug}},
		{"INSERT INTO branches (id, tenant_id, name, timezone) VALUES ($1, $2, 'Main', 'UTC')", []any{BranchID, TenantID}},
		{"INSERT INTO services (id, tenant_id, name, duration_minutes, price) VALUES ($1, $2, 'Cut', 30, 25.00)", []any{ServiceID, TenantID}},
		{"INSERT INTO services (id, tenant_id, name, duration_minutes, price) VALUES ($1, $2, 'Color', 90, 80.00)", []any{LongServiceID, TenantID}},
		{"INSERT INTO employees (id, tenant_id, branch_id, name) VALUES ($1, $2, $3, 'Alex')", []any{EmployeeID, TenantID, BranchID}},
		{"INSERT INTO clients (id, tenant_id, name, email, phone) VALUES ($1, $2, 'Sam', 'sam@example.com', '+15550100')", []any{ClientID, TenantID}},
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			return fmt.Errorf("seed %q: %w", s.sql, err)
		}
	}
	return seedEmployee(ctx, pool, EmployeeID)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil || len(tables) == 0 {
			truncateSQL.Store("")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
