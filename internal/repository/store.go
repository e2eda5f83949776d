package repository

import "gorm.io/gorm"

// Store bundles the repositories into the persistence layer used by the
// task service.
type Store struct {
	*TaskRepository
	*TemplateRepository
	*LinkRepository
	*CalendarRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		TaskRepository:     NewTaskRepository(db),
		TemplateRepository: NewTemplateRepository(db),
		LinkRepository:     NewLinkRepository(db),
		CalendarRepository: NewCalendarRepository(db),
	}
}
