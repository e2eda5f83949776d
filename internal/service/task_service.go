// Package service is the task engine's entry point: it validates input,
// scores instances, and wires the seeder, the rollup selector and the
// archival sweeper to a Store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"parishtasks/internal/archive"
	"parishtasks/internal/dateutil"
	"parishtasks/internal/genkey"
	"parishtasks/internal/model"
	"parishtasks/internal/priority"
	"parishtasks/internal/rollup"
	"parishtasks/internal/seeder"
)

// Features are the engine capabilities resolved once at startup.
type Features struct {
	Seeding         seeder.Settings
	ArchiveOnRead   bool
	CollapseSundays bool
}

// OriginRef names one origin occurrence.
type OriginRef struct {
	Type model.OriginType
	ID   string
}

type TaskService struct {
	store    Store
	seeder   *seeder.Seeder
	clock    dateutil.Clock
	features Features
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTaskService(store Store, clock dateutil.Clock, features Features, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = dateutil.SystemClock{}
	}
	return &TaskService{
		store:    store,
		seeder:   seeder.New(store, store, clock, features.Seeding, logger),
		clock:    clock,
		features: features,
		validate: validator.New(),
		logger:   logger,
	}
}

// Score annotates inst with its effective priority and tier.
func Score(inst model.TaskInstance, now time.Time) model.InstanceView {
	v := model.NewInstanceView(inst)
	score, tier := priority.Score(float64(v.PriorityBase), v.PriorityOverride, v.DueAt, v.SLATargetAt, now)
	v.PriorityEffective = score
	v.PriorityTier = string(tier)
	return v
}

// CreateInstance stores a definition, instance and origin together. It
// returns false, without error, when the generation key already exists.
func (s *TaskService) CreateInstance(ctx context.Context, def model.TaskDefinition, inst model.TaskInstance, origin model.TaskOrigin) (uuid.UUID, bool, error) {
	now := s.clock.Now()

	def.Title = strings.TrimSpace(def.Title)
	if def.Title == "" {
		return uuid.Nil, false, invalid("title is required")
	}
	if def.PriorityBase < priority.MinScore || def.PriorityBase > priority.MaxScore {
		return uuid.Nil, false, invalid("priority_base must be between 0 and 100")
	}
	if !origin.OriginType.IsValid() {
		return uuid.Nil, false, invalid("unknown origin type %q", origin.OriginType)
	}
	if inst.State != "" && !inst.State.IsValid() {
		return uuid.Nil, false, invalid("unknown state %q", inst.State)
	}
	if inst.ListMode != "" && inst.ListMode != model.ListSequential && inst.ListMode != model.ListParallel {
		return uuid.Nil, false, invalid("unknown list mode %q", inst.ListMode)
	}

	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	if origin.ID == uuid.Nil {
		origin.ID = uuid.New()
	}
	origin.OriginID = strings.TrimSpace(origin.OriginID)
	if origin.OriginID == "" {
		if origin.OriginType != model.OriginManual {
			return uuid.Nil, false, invalid("origin_id is required for %s origins", origin.OriginType)
		}
		origin.OriginID = inst.ID.String()
	}
	if origin.OriginEvent == "" {
		origin.OriginEvent = inst.ID.String()
	}
	if def.Status == "" {
		def.Status = model.DefinitionActive
	}
	if inst.State == "" {
		inst.State = model.StateOpen
	}
	if inst.ListMode == "" {
		inst.ListMode = model.ListParallel
	}
	if inst.ArchiveAfterDue == nil {
		archiveAfterDue := true
		inst.ArchiveAfterDue = &archiveAfterDue
	}
	if inst.State == model.StateDone && inst.CompletedAt == nil {
		inst.CompletedAt = &now
	}
	def.CreatedAt, def.UpdatedAt = now, now
	inst.CreatedAt, inst.UpdatedAt = now, now
	origin.CreatedAt = now
	inst.DefinitionID = def.ID
	origin.InstanceID = inst.ID
	inst.GenerationKey = genkey.Build(origin.OriginType, origin.OriginID, inst.ListKey, origin.OriginEvent)

	created, err := s.store.CreateInstance(ctx, &def, &inst, &origin)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("create instance: %w", err)
	}
	if !created {
		s.logger.Debug("instance already exists", "generation_key", inst.GenerationKey)
		return uuid.Nil, false, nil
	}
	return inst.ID, true, nil
}

// ListInstances returns scored instances in global order.
func (s *TaskService) ListInstances(ctx context.Context, filter model.InstanceFilter) ([]model.InstanceView, error) {
	if s.features.ArchiveOnRead {
		if _, err := s.SweepArchive(ctx); err != nil {
			return nil, err
		}
	}
	instances, err := s.store.ListInstances(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	now := s.clock.Now()
	views := make([]model.InstanceView, 0, len(instances))
	for _, inst := range instances {
		views = append(views, Score(inst, now))
	}
	rollup.SortGlobal(views)
	return views, nil
}

// Rollup returns one summary per origin with open work.
func (s *TaskService) Rollup(ctx context.Context, filter model.InstanceFilter) ([]model.OriginSummary, error) {
	views, err := s.ListInstances(ctx, filter)
	if err != nil {
		return nil, err
	}
	summaries := rollup.Select(views, s.clock.Now(), rollup.WithSundayCollapse(s.features.CollapseSundays))

	labels, err := s.labelOverrides(ctx)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Label = labelFor(summaries[i].OriginType, summaries[i].OriginID, labels)
	}
	return summaries, nil
}

// GetInstance returns one scored instance.
func (s *TaskService) GetInstance(ctx context.Context, id uuid.UUID) (*model.InstanceView, error) {
	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	v := Score(*inst, s.clock.Now())
	return &v, nil
}

// UpdateInstance applies patch and returns the rescored instance.
func (s *TaskService) UpdateInstance(ctx context.Context, id uuid.UUID, patch model.InstancePatch) (*model.InstanceView, error) {
	inst, err := s.store.GetInstance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get instance: %w", err)
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	if err := applyPatch(inst, patch, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.store.UpdateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("update instance: %w", err)
	}
	return s.GetInstance(ctx, id)
}

func applyPatch(inst *model.TaskInstance, p model.InstancePatch, now time.Time) error {
	if p.State != nil {
		if !p.State.IsValid() {
			return invalid("unknown state %q", *p.State)
		}
		setState(inst, *p.State, now)
	}
	if p.Completed != nil {
		switch {
		case *p.Completed:
			setState(inst, model.StateDone, now)
		case inst.State == model.StateDone:
			setState(inst, model.StateOpen, now)
		}
	}
	switch {
	case p.ClearOverride:
		inst.PriorityOverride = nil
	case p.PriorityOverride != nil:
		v := *p.PriorityOverride
		inst.PriorityOverride = &v
	}
	switch {
	case p.ClearDueAt:
		inst.DueAt = nil
	case p.DueAt != nil:
		v := *p.DueAt
		inst.DueAt = &v
	}
	if p.SLATargetAt != nil {
		v := *p.SLATargetAt
		inst.SLATargetAt = &v
	}
	switch {
	case p.ClearRank:
		inst.Rank = nil
	case p.Rank != nil:
		v := *p.Rank
		inst.Rank = &v
	}
	if p.Blocked != nil {
		inst.Blocked = *p.Blocked
	}
	if p.ArchiveAfterDue != nil {
		v := *p.ArchiveAfterDue
		inst.ArchiveAfterDue = &v
	}
	switch {
	case p.ClearKeepUntil:
		inst.KeepUntil = nil
	case p.KeepUntil != nil:
		v := *p.KeepUntil
		inst.KeepUntil = &v
	}
	if p.Archived != nil {
		switch {
		case !*p.Archived:
			inst.ArchivedAt = nil
		case inst.ArchivedAt == nil:
			archivedAt := now
			inst.ArchivedAt = &archivedAt
		}
	}
	return nil
}

func setState(inst *model.TaskInstance, state model.State, now time.Time) {
	inst.State = state
	if state == model.StateDone {
		if inst.CompletedAt == nil {
			completedAt := now
			inst.CompletedAt = &completedAt
		}
		return
	}
	inst.CompletedAt = nil
}

// DeleteInstance removes an instance; orphaned definitions go with it.
func (s *TaskService) DeleteInstance(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.DeleteInstance(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete instance: %w", err)
	}
	return deleted, nil
}

// SeedTemplates generates missing instances for originType, or for every
// enabled origin type when nil.
func (s *TaskService) SeedTemplates(ctx context.Context, originType *model.OriginType) (seeder.Result, error) {
	if originType != nil && !originType.IsValid() {
		return seeder.Result{}, invalid("unknown origin type %q", *originType)
	}
	res, err := s.seeder.Seed(ctx, originType)
	if err != nil {
		return res, fmt.Errorf("seed templates: %w", err)
	}
	return res, nil
}

// SweepArchive archives every past-due instance that opted in.
func (s *TaskService) SweepArchive(ctx context.Context) (int, error) {
	instances, err := s.store.ListInstances(ctx, model.InstanceFilter{})
	if err != nil {
		return 0, fmt.Errorf("list instances for archival: %w", err)
	}
	now := s.clock.Now()
	ids := archive.Sweep(instances, now)
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.store.ArchiveInstances(ctx, ids, now)
	if err != nil {
		return 0, fmt.Errorf("archive instances: %w", err)
	}
	if n > 0 {
		s.logger.Info("archived past-due tasks", "count", n)
	}
	return n, nil
}
