package repository_test

import (
	"context"
	"testing"

	"parishtasks/internal/model"
	"parishtasks/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRepository_ListActiveTemplates(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTemplateRepository(gormDB)
	scope := "2026-01-04"

	mock.ExpectQuery(`SELECT \* FROM "recurring_task_templates" WHERE active = .* AND origin_type = .* AND \(origin_id IS NULL OR origin_id = .*\) ORDER BY list_key, sort_order, step_key`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "origin_type", "list_mode", "step_key", "title", "priority_base", "active"}).
			AddRow(uuid.New().String(), "sunday", "sequential", "bulletin", "Bulletin", 70, true))

	// Act
	templates, err := repo.ListActiveTemplates(context.Background(), model.OriginSunday, &scope)

	// Assert
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "bulletin", templates[0].StepKey)
	assert.Equal(t, 70, templates[0].PriorityBase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_ListTemplates_AllTypes(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTemplateRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "recurring_task_templates" ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	templates, err := repo.ListTemplates(context.Background(), nil, nil)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, templates)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepository_SaveLink(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewLinkRepository(gormDB)
	link := model.NewEntityLink(model.EntityOrigin, "vestry:2026-03-15", model.EntityOrigin, "manual:finance",
		model.LinkRoleAssigned, model.LinkMetadata{Label: "Finance"})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "entity_links" .* ON CONFLICT \("id"\) DO UPDATE SET "metadata"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.SaveLink(context.Background(), &link)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepository_ListLinks(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewLinkRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "entity_links" WHERE from_type = .* AND role = .* ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_type", "from_id", "to_type", "to_id", "role", "metadata"}).
			AddRow(uuid.New().String(), "origin", "vestry:2026-03-15", "origin", "manual:finance", "assigned", `{"label":"Finance"}`))

	// Act
	links, err := repo.ListLinks(context.Background(), model.EntityOrigin, model.LinkRoleAssigned)

	// Assert
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "manual:finance", links[0].ToID)
	assert.Equal(t, "Finance", links[0].Metadata.Data().Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepository_ListOpenTickets(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCalendarRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tickets" WHERE status NOT IN .* ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow("T-42", "Boiler", "open"))

	// Act
	tickets, err := repo.ListOpenTickets(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "T-42", tickets[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepository_ListUpcomingOccurrences(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewCalendarRepository(gormDB)

	mock.ExpectQuery(`SELECT "date" FROM "liturgical_days" ORDER BY date`).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).AddRow("2026-01-04").AddRow("2026-01-11"))

	// Act
	sundays, err := repo.ListUpcomingOccurrences(context.Background(), model.OriginSunday)
	vestry, vestryErr := repo.ListUpcomingOccurrences(context.Background(), model.OriginVestry)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-04", "2026-01-11"}, sundays)
	assert.NoError(t, vestryErr)
	assert.Nil(t, vestry)
	assert.NoError(t, mock.ExpectationsWereMet())
}
