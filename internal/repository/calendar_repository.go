package repository

import (
	"context"

	"gorm.io/gorm"

	"parishtasks/internal/model"
)

var closedTicketStatuses = []string{"closed", "resolved", "done", "cancelled"}

// CalendarRepository reads the origin facts owned by other parts of the
// parish office: tickets and the liturgical calendar.
type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ListOpenTickets returns tickets that still need work, oldest first.
func (r *CalendarRepository) ListOpenTickets(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	result := r.db.WithContext(ctx).
		Where("status NOT IN ?", closedTicketStatuses).
		Order("created_at").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tickets, nil
}

// ListUpcomingOccurrences returns the calendar dates backing originType.
// Only Sundays come from the calendar; other types are computed.
func (r *CalendarRepository) ListUpcomingOccurrences(ctx context.Context, originType model.OriginType) ([]string, error) {
	if originType != model.OriginSunday {
		return nil, nil
	}
	var dates []string
	result := r.db.WithContext(ctx).Model(&model.LiturgicalDay{}).Order("date").Pluck("date", &dates)
	if result.Error != nil {
		return nil, result.Error
	}
	return dates, nil
}
