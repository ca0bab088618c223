package storage

import (
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Neio/wordmaster/internal/platform/cache"
	"github.com/Neio/wordmaster/internal/platform/database"
)

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("wordmaster"),
		postgres.WithUsername("wm"),
		postgres.WithPassword("wm"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting postgres: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	pool, err := database.Connect(ctx, url, database.PoolSize{Max: 2, Min: 1})
	if err != nil {
		t.Fatalf("database.Connect() error = %v", err)
	}

	s, err := NewPostgresStore(ctx, pool)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)

	// The table bootstrap is idempotent.
	if _, err := NewPostgresStore(ctx, pool); err != nil {
		t.Fatalf("NewPostgresStore(second) error = %v", err)
	}
}

func TestRedisStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := t.Context()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting redis: %v", err)
	}

	endpoint, err := ctr.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Endpoint() error = %v", err)
	}
	client, err := cache.Connect(ctx, "redis://"+endpoint)
	if err != nil {
		t.Fatalf("cache.Connect() error = %v", err)
	}

	s := NewRedisStore(client, "test:")
	defer s.Close()

	exerciseStore(t, s)

	if v, err := client.Get(ctx, "test:wordmaster-theme").Result(); err != nil || v != "dark" {
		t.Errorf("raw key = %q, %v; want prefixed key holding dark", v, err)
	}
}
