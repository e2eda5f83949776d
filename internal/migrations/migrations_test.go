package migrations

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/tasks?sslmode=disable", DatabaseURL("postgres://u:p@db:5432/tasks?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/tasks", DatabaseURL("postgresql://u@db/tasks"))
	assert.Equal(t, "pgx5://db/tasks", DatabaseURL("pgx5://db/tasks"))
}

func TestSourceHasUpAndDownForEveryVersion(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)

	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up migration", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(body)))

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d has no down migration", version)
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			assert.ErrorIs(t, err, os.ErrNotExist)
			break
		}
		version = next
	}
}

func TestSchemaCoversGormTables(t *testing.T) {
	body, err := files.ReadFile("sql/000001_create_task_engine.up.sql")
	require.NoError(t, err)

	for _, table := range []string{
		"task_definitions", "task_instances", "task_origins", "generation_keys",
		"recurring_task_templates", "entity_links", "tickets", "liturgical_days",
	} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
