package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parishtasks/internal/model"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// SaveLink upserts a link. Link ids derive from their endpoints, so saving
// the same edge again only refreshes its metadata.
func (r *LinkRepository) SaveLink(ctx context.Context, link *model.EntityLink) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"metadata"}),
		}).
		Create(link).Error
}

// ListLinks returns links leaving entities of fromType, optionally
// narrowed to one role.
func (r *LinkRepository) ListLinks(ctx context.Context, fromType, role string) ([]model.EntityLink, error) {
	q := r.db.WithContext(ctx).Where("from_type = ?", fromType)
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var links []model.EntityLink
	result := q.Order("created_at").Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}
	return links, nil
}
