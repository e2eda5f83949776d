package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parishtasks/internal/model"
)

// instanceColumns are the columns an update may change. The generation
// key, the definition and the creation time are fixed for life.
var instanceColumns = []string{
	"state", "due_at", "sla_target_at", "priority_override", "rank", "sort_order",
	"blocked", "archived_at", "archive_after_due", "keep_until",
	"list_key", "list_title", "list_mode", "completed_at", "updated_at",
}

// errKeyInUse rolls back a creation whose instance key is already taken
// by a row that predates the key registry.
var errKeyInUse = errors.New("generation key in use")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Definition").Preload("Origin")
}

// CreateInstance reserves the generation key and inserts the definition,
// instance and origin in one transaction. A key that is already reserved
// leaves the database untouched and reports false.
func (r *TaskRepository) CreateInstance(ctx context.Context, def *model.TaskDefinition, inst *model.TaskInstance, origin *model.TaskOrigin) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := model.GenerationKey{Key: inst.GenerationKey, CreatedAt: inst.CreatedAt}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&key)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Create(def).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(inst).Error; err != nil {
			if isUniqueViolation(err) {
				return errKeyInUse
			}
			return err
		}
		if err := tx.Create(origin).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if errors.Is(err, errKeyInUse) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return created, nil
}

// FindInstance looks an instance up by generation key. It returns nil when
// the key is unknown.
func (r *TaskRepository) FindInstance(ctx context.Context, generationKey string) (*model.TaskInstance, error) {
	var inst model.TaskInstance
	result := r.db.WithContext(ctx).First(&inst, "generation_key = ?", generationKey)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &inst, nil
}

// GetInstance loads an instance with its definition and origin. It
// returns nil when the id is unknown.
func (r *TaskRepository) GetInstance(ctx context.Context, id uuid.UUID) (*model.TaskInstance, error) {
	var inst model.TaskInstance
	result := r.withRelations(ctx).First(&inst, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &inst, nil
}

// ListInstances returns instances with their definitions and origins in
// creation order.
func (r *TaskRepository) ListInstances(ctx context.Context, filter model.InstanceFilter) ([]model.TaskInstance, error) {
	q := r.withRelations(ctx).Model(&model.TaskInstance{})
	if !filter.IncludeArchived {
		q = q.Where("task_instances.archived_at IS NULL")
	}
	if filter.OriginType != nil || filter.OriginID != nil {
		q = q.Joins("JOIN task_origins ON task_origins.instance_id = task_instances.id")
		if filter.OriginType != nil {
			q = q.Where("task_origins.origin_type = ?", *filter.OriginType)
		}
		if filter.OriginID != nil {
			q = q.Where("task_origins.origin_id = ?", *filter.OriginID)
		}
	}

	var instances []model.TaskInstance
	result := q.Order("task_instances.created_at, task_instances.id").Find(&instances)
	if result.Error != nil {
		return nil, result.Error
	}
	return instances, nil
}

// UpdateInstance writes the mutable columns of inst.
func (r *TaskRepository) UpdateInstance(ctx context.Context, inst *model.TaskInstance) error {
	result := r.db.WithContext(ctx).Model(inst).Select(instanceColumns).Updates(inst)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInstanceNotFound
	}
	return nil
}

// DeleteInstance removes an instance, its origin and its generation key,
// so the slot can be seeded again. The definition goes too once nothing
// references it.
func (r *TaskRepository) DeleteInstance(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instances []model.TaskInstance
		if err := tx.Select("id", "definition_id", "generation_key").Where("id = ?", id).Find(&instances).Error; err != nil {
			return err
		}
		if len(instances) == 0 {
			return nil
		}
		if err := deleteInstances(tx, instances); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// DeleteOrigin removes every instance of one origin.
func (r *TaskRepository) DeleteOrigin(ctx context.Context, originType model.OriginType, originID string) (int, error) {
	return r.deleteWhere(ctx, "task_origins.origin_type = ? AND task_origins.origin_id = ?", originType, originID)
}

// DeleteLegacyPlaceholders removes instances created before templates
// existed.
func (r *TaskRepository) DeleteLegacyPlaceholders(ctx context.Context) (int, error) {
	return r.deleteWhere(ctx, "task_origins.origin_event = ?", model.LegacyPlaceholderEvent)
}

func (r *TaskRepository) deleteWhere(ctx context.Context, query string, args ...any) (int, error) {
	count := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instances []model.TaskInstance
		err := tx.Model(&model.TaskInstance{}).
			Select("task_instances.id", "task_instances.definition_id", "task_instances.generation_key").
			Joins("JOIN task_origins ON task_origins.instance_id = task_instances.id").
			Where(query, args...).
			Find(&instances).Error
		if err != nil {
			return err
		}
		if len(instances) == 0 {
			return nil
		}
		if err := deleteInstances(tx, instances); err != nil {
			return err
		}
		count = len(instances)
		return nil
	})
	return count, err
}

// deleteInstances removes instances with their origins and keys, then any
// definition left without instances.
func deleteInstances(tx *gorm.DB, instances []model.TaskInstance) error {
	ids := make([]uuid.UUID, 0, len(instances))
	keys := make([]string, 0, len(instances))
	defIDs := make([]uuid.UUID, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
		keys = append(keys, inst.GenerationKey)
		defIDs = append(defIDs, inst.DefinitionID)
	}

	if err := tx.Where("instance_id IN ?", ids).Delete(&model.TaskOrigin{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.TaskInstance{}).Error; err != nil {
		return err
	}
	if err := tx.Where("key IN ?", keys).Delete(&model.GenerationKey{}).Error; err != nil {
		return err
	}
	return tx.
		Where("id IN ?", defIDs).
		Where("NOT EXISTS (SELECT 1 FROM task_instances WHERE task_instances.definition_id = task_definitions.id)").
		Delete(&model.TaskDefinition{}).Error
}

// ReassignOrigin points the unfinished instances of one origin at another.
func (r *TaskRepository) ReassignOrigin(ctx context.Context, fromType model.OriginType, fromID string, toType model.OriginType, toID string) (int, error) {
	db := r.db.WithContext(ctx)
	open := db.Model(&model.TaskInstance{}).Select("id").Where("state <> ?", model.StateDone)
	result := db.Model(&model.TaskOrigin{}).
		Where("origin_type = ? AND origin_id = ?", fromType, fromID).
		Where("instance_id IN (?)", open).
		Updates(map[string]any{"origin_type": toType, "origin_id": toID})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// ArchiveInstances stamps archived_at on the given instances that are not
// archived yet.
func (r *TaskRepository) ArchiveInstances(ctx context.Context, ids []uuid.UUID, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&model.TaskInstance{}).
		Where("id IN ? AND archived_at IS NULL", ids).
		Update("archived_at", at)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
