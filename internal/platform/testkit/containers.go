//go:build integration_pg || integration_ch

package testkit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Database is the schema both containers create
const Database = "eventscope"

// Postgres starts a throwaway postgres and returns its DSN
func Postgres(t *testing.T) string {
	t.Helper()
	host, port := start(t, tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       Database,
		},
		// postgres logs ready once for the init server and once for the real one
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(2 * time.Minute),
	}, "5432/tcp")
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/%s?sslmode=disable", host, port, Database)
}

// ClickHouse starts a throwaway clickhouse and returns its native protocol DSN
func ClickHouse(t *testing.T) string {
	t.Helper()
	host, port := start(t, tc.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.8-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		Env: map[string]string{
			"CLICKHOUSE_USER":                      "default",
			"CLICKHOUSE_PASSWORD":                  "secret",
			"CLICKHOUSE_DB":                        Database,
			"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("9000/tcp"),
			wait.ForHTTP("/ping").WithPort("8123/tcp"),
		).WithDeadline(2 * time.Minute),
	}, "9000/tcp")
	return fmt.Sprintf("clickhouse://default:secret@%s:%s/%s", host, port, Database)
}

func start(t *testing.T, req tc.ContainerRequest, exposed string) (host, port string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err, "start %s", req.Image)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err = c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, exposed)
	require.NoError(t, err)
	return host, mapped.Port()
}
