package repository

import (
	"context"

	"gorm.io/gorm"

	"parishtasks/internal/model"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ListActiveTemplates returns the active templates of originType. With a
// non-nil originID only unscoped templates and those scoped to it match.
func (r *TemplateRepository) ListActiveTemplates(ctx context.Context, originType model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	return r.list(r.db.WithContext(ctx).Where("active = ?", true), &originType, originID)
}

// ListTemplates returns templates including inactive ones. A nil
// originType returns every type.
func (r *TemplateRepository) ListTemplates(ctx context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	return r.list(r.db.WithContext(ctx), originType, originID)
}

func (r *TemplateRepository) list(q *gorm.DB, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	if originType != nil {
		q = q.Where("origin_type = ?", *originType)
	}
	if originID != nil {
		q = q.Where("(origin_id IS NULL OR origin_id = ?)", *originID)
	}

	var templates []model.RecurringTaskTemplate
	result := q.Order("list_key, sort_order, step_key").Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}
	return templates, nil
}

// SaveTemplate inserts or replaces a template.
func (r *TemplateRepository) SaveTemplate(ctx context.Context, t *model.RecurringTaskTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}
