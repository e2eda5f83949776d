package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parishtasks/internal/model"
	"parishtasks/internal/seeder"
)

// Store is the persistence boundary of the task engine. Lookups return
// (nil, nil) when nothing matches.
type Store interface {
	seeder.Source
	seeder.Sink

	GetInstance(ctx context.Context, id uuid.UUID) (*model.TaskInstance, error)
	ListInstances(ctx context.Context, filter model.InstanceFilter) ([]model.TaskInstance, error)
	UpdateInstance(ctx context.Context, inst *model.TaskInstance) error
	// DeleteInstance removes the instance and, when it was the last one
	// referencing it, its definition.
	DeleteInstance(ctx context.Context, id uuid.UUID) (bool, error)
	ArchiveInstances(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error)

	DeleteOrigin(ctx context.Context, originType model.OriginType, originID string) (int, error)
	ReassignOrigin(ctx context.Context, fromType model.OriginType, fromID string, toType model.OriginType, toID string) (int, error)

	ListTemplates(ctx context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error)
	SaveTemplate(ctx context.Context, t *model.RecurringTaskTemplate) error

	SaveLink(ctx context.Context, link *model.EntityLink) error
	ListLinks(ctx context.Context, fromType, role string) ([]model.EntityLink, error)
}
