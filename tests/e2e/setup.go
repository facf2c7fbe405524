//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-core/cmd/bootstrap"
	"booking-core/cmd/bootstrap/components"
	"booking-core/internal/infra/cache"
	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/config"
	"booking-core/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	testUser     = "test"
	testPassword = "testpass"

	redisDatabases = 16
)

// containers are shared by every suite of the test process
var (
	postgresOnce sync.Once
	postgresInfo ContainerInfo
	postgresErr  error

	redisOnce sync.Once
	redisInfo ContainerInfo
	redisErr  error
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

func (c ContainerInfo) Addr() string {
	return c.Host + ":" + c.Port.Port()
}

// Environment is everything a suite needs to drive the API end to end.
type Environment struct {
	Router *gin.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Config config.Config
}

// ------------------------------------------------------------
// テストプロセス毎の環境構築
// ------------------------------------------------------------
func setupEnvironment(t *testing.T) Environment {
	gin.SetMode(gin.TestMode)

	pg := startOnce(t, &postgresOnce, &postgresInfo, &postgresErr, postgresRequest(), "5432/tcp")
	rd := startOnce(t, &redisOnce, &redisInfo, &redisErr, redisRequest(), "6379/tcp")

	dbName := "testdb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	cfg := config.NewTestConfig()
	cfg.DB = createDatabase(t, pg, dbName)
	cfg.Redis = config.RedisConfig{Addr: rd.Addr(), DB: redisDBFor(dbName), SlotTTL: time.Minute}

	pool := connectAndMigrate(t, cfg.DB)

	rdb, err := cache.NewRedisClient(cfg.Redis)
	require.NoError(t, err, "Redis接続に失敗")
	t.Cleanup(func() { _ = rdb.Close() })

	router := buildApp(t, pool, cfg)

	slog.Info("E2E環境の準備が完了しました", "postgres", pg.Addr(), "redis", rd.Addr(), "database", dbName)
	return Environment{Router: router, DB: pool, Redis: rdb, Config: cfg}
}

// processes share the Redis container; spreading them over logical databases keeps their caches apart
func redisDBFor(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % redisDatabases)
}

// ------------------------------------------------------------
// コンテナ
// ------------------------------------------------------------
func startOnce(t *testing.T, once *sync.Once, info *ContainerInfo, startErr *error, req testcontainers.ContainerRequest, port string) ContainerInfo {
	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			*startErr = err
			return
		}
		*info, *startErr = hostPort(ctx, c, port)
	})
	require.NoError(t, *startErr, "%s コンテナの起動に失敗", req.Image)
	return *info
}

func postgresRequest() testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		Image:        "postgres:17",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       "postgres",
		},
		Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
		// 耐久性は不要
		Cmd: []string{
			"postgres",
			"-c", "fsync=off",
			"-c", "full_page_writes=off",
			"-c", "synchronous_commit=off",
			"-c", "max_connections=200",
			"-c", "log_statement=none",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
				testUser, testPassword, host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
		Labels: map[string]string{"purpose": "e2e-tests"},
	}
}

func redisRequest() testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		Cmd:          []string{"redis-server", "--save", "", "--appendonly", "no"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		Labels:       map[string]string{"purpose": "e2e-tests"},
	}
}

func hostPort(ctx context.Context, c testcontainers.Container, port string) (ContainerInfo, error) {
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mapped}, nil
}

// ------------------------------------------------------------
// データベース
// ------------------------------------------------------------
func createDatabase(t *testing.T, pg ContainerInfo, dbName string) config.DBConfig {
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", testUser, testPassword, pg.Addr())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "管理者接続に失敗")
	defer adminPool.Close()

	// 並列プロセスが同時に CREATE DATABASE すると template1 の競合で失敗することがある
	var createErr error
	for attempt := range 5 {
		if attempt > 0 {
			time.Sleep(min(time.Duration(attempt)*500*time.Millisecond, 3*time.Second))
			slog.Warn("データベース作成を再試行中", "attempt", attempt+1, "error", createErr)
		}
		if _, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName); createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", dbName, "error", err)
			return
		}
		defer p.Close()
		if _, err := p.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", dbName, "error", err)
		}
	})

	return config.DBConfig{
		Host:     pg.Host,
		Port:     pg.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
}

func connectAndMigrate(t *testing.T, dbCfg config.DBConfig) *pgxpool.Pool {
	pool, cleanup, err := db.Connect(dbCfg)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(cleanup)

	require.NoError(t, db.Migrate(pool), "マイグレーションに失敗")
	require.NoError(t, dbtest.SeedReferenceData(pool), "参照データの投入に失敗")
	return pool
}

// ------------------------------------------------------------
// アプリケーション
// ------------------------------------------------------------

// buildApp wires the production modules around the test pool. The reminder worker stays off;
// suites that need it drive the dispatcher directly.
func buildApp(t *testing.T, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	var router *gin.Engine

	app := fx.New(
		fx.Module("testdb", fx.Provide(func() *pgxpool.Pool { return pool })),
		bootstrap.ConfigModule(cfg),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		components.PersistenceModule,
		bootstrap.CacheModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err)
		}
	})

	require.NotNil(t, router, "Routerのセットアップに失敗")
	return router
}

// ------------------------------------------------------------
// 共通スイート
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	env := setupEnvironment(s.T())
	s.Router, s.DB, s.Redis, s.Config = env.Router, env.DB, env.Redis, env.Config
}

func (s *SharedSuite) SetupTest() {
	s.reset()
}

func (s *SharedSuite) SetupSubTest() {
	s.reset()
}

// reset truncates and reseeds the database, then drops cached slot lists that would outlive it.
func (s *SharedSuite) reset() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(s.T(), s.Redis.FlushDB(ctx).Err(), "Failed to flush redis")
}
