//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Gunvolt24/techshop/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Stop — остановка контейнера и связанных с ним клиентов.
type Stop func(context.Context) error

var tcLog = log.New(os.Stdout, "[tc] ", log.LstdFlags)

func shortID(c tc.Container) string {
	id := c.GetContainerID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// lifecycle — строка в лог на каждом этапе жизни контейнера.
func lifecycle(name string) tc.ContainerLifecycleHooks {
	stage := func(what string) []tc.ContainerHook {
		return []tc.ContainerHook{func(_ context.Context, c tc.Container) error {
			tcLog.Printf("%s %s id=%s", name, what, shortID(c))
			return nil
		}}
	}
	return tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{func(_ context.Context, req tc.ContainerRequest) error {
			tcLog.Printf("%s creating image=%s", name, req.Image)
			return nil
		}},
		PostStarts:     stage("started"),
		PostReadies:    stage("ready"),
		PreTerminates:  stage("terminating"),
		PostTerminates: stage("terminated"),
	}
}

// PGEnv — Postgres в контейнере со схемой profile_kv и пулом соединений.
type PGEnv struct {
	Container *tcpostgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — postgres:16-alpine; пул открывается тем же NewPool, что и в сервисе.
func StartPostgresTC(ctx context.Context) (*PGEnv, Stop, error) {
	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tc.WithLifecycleHooks(lifecycle("postgres")),
		tcpostgres.WithDatabase("techshop"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("app"),
		tc.WithWaitStrategy(wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	pool, err := postgres.NewPool(ctx, dsn, 5)
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, err
	}

	stop := func(context.Context) error {
		pool.Close()
		return tc.TerminateContainer(pg)
	}
	return &PGEnv{Container: pg, Pool: pool, DSN: dsn}, stop, nil
}

// RedisEnv — Redis в контейнере.
type RedisEnv struct {
	Container tc.Container
	Addr      string
}

// StartRedisTC — redis:7-alpine через GenericContainer (модуля redis в зависимостях нет).
func StartRedisTC(ctx context.Context) (*RedisEnv, Stop, error) {
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:          "redis:7-alpine",
			ExposedPorts:   []string{"6379/tcp"},
			LifecycleHooks: []tc.ContainerLifecycleHooks{lifecycle("redis")},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("run redis: %w", err)
	}

	addr, err := c.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		_ = tc.TerminateContainer(c)
		return nil, nil, fmt.Errorf("redis endpoint: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(c) }
	return &RedisEnv{Container: c, Addr: addr}, stop, nil
}

// KafkaEnv — Redpanda (Kafka API) в контейнере.
type KafkaEnv struct {
	Container *redpanda.Container
	Brokers   []string
	BaseTopic string
}

// StartKafkaTC — один брокер Redpanda; BaseTopic — префикс топиков тестов.
func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, Stop, error) {
	rp, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v23.3.8",
		tc.WithLifecycleHooks(lifecycle("redpanda")),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	stop := func(context.Context) error { return tc.TerminateContainer(rp) }
	return &KafkaEnv{Container: rp, Brokers: []string{seed}, BaseTopic: baseTopic}, stop, nil
}
