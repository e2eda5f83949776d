package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/model"
)

var originNames = map[model.OriginType]string{
	model.OriginSunday:     "Sunday Planner",
	model.OriginVestry:     "Vestry",
	model.OriginOperations: "Operations",
	model.OriginTicket:     "Ticket",
	model.OriginManual:     "Manual",
}

// DefaultLabel renders the display label of an origin. Date ids are shown
// as calendar dates.
func DefaultLabel(originType model.OriginType, originID string) string {
	name, ok := originNames[originType]
	if !ok {
		name = string(originType)
	}
	switch {
	case originID == "":
		return name
	case dateutil.IsDayKey(originID):
		d, _ := dateutil.ParseDay(originID)
		return name + " · " + d.Format("Jan 2, 2006")
	case originType == model.OriginManual:
		if _, err := uuid.Parse(originID); err == nil {
			return name
		}
	}
	return name + " · " + originID
}

func labelFor(originType model.OriginType, originID string, overrides map[string]string) string {
	if label, ok := overrides[model.OriginKey(originType, originID)]; ok {
		return label
	}
	return DefaultLabel(originType, originID)
}

// labelOverrides maps origin keys to the label given when work was
// assigned into them.
func (s *TaskService) labelOverrides(ctx context.Context) (map[string]string, error) {
	links, err := s.store.ListLinks(ctx, model.EntityOrigin, model.LinkRoleAssigned)
	if err != nil {
		return nil, fmt.Errorf("list origin links: %w", err)
	}
	labels := make(map[string]string, len(links))
	for _, l := range links {
		if label := l.Metadata.Data().Label; label != "" {
			labels[l.ToID] = label
		}
	}
	return labels, nil
}

// OriginInfo counts the instances of one origin.
type OriginInfo struct {
	Key        string
	OriginType model.OriginType
	OriginID   string
	Label      string
	Total      int
	Open       int
}

// ListOrigins lists every origin that has instances matching filter,
// including origins whose work is all done.
func (s *TaskService) ListOrigins(ctx context.Context, filter model.InstanceFilter) ([]OriginInfo, error) {
	instances, err := s.store.ListInstances(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	labels, err := s.labelOverrides(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*OriginInfo)
	for i := range instances {
		o := instances[i].Origin
		if o == nil {
			continue
		}
		key := o.Key()
		info, ok := byKey[key]
		if !ok {
			info = &OriginInfo{
				Key:        key,
				OriginType: o.OriginType,
				OriginID:   o.OriginID,
				Label:      labelFor(o.OriginType, o.OriginID, labels),
			}
			byKey[key] = info
		}
		info.Total++
		if instances[i].DisplayState() != model.StateDone {
			info.Open++
		}
	}

	out := make([]OriginInfo, 0, len(byKey))
	for _, info := range byKey {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// AssignOrigin moves the open work of one origin into another and records
// the assignment as a link. label, when set, becomes the display label of
// the target. It returns the number of moved instances.
func (s *TaskService) AssignOrigin(ctx context.Context, from, to OriginRef, label string) (int, error) {
	if err := validateRef(from); err != nil {
		return 0, err
	}
	if err := validateRef(to); err != nil {
		return 0, err
	}
	fromKey := model.OriginKey(from.Type, from.ID)
	toKey := model.OriginKey(to.Type, to.ID)
	if fromKey == toKey {
		return 0, invalid("cannot assign %s to itself", fromKey)
	}

	link := model.NewEntityLink(model.EntityOrigin, fromKey, model.EntityOrigin, toKey,
		model.LinkRoleAssigned, model.LinkMetadata{Label: strings.TrimSpace(label)})
	link.CreatedAt = s.clock.Now()
	if err := s.store.SaveLink(ctx, &link); err != nil {
		return 0, fmt.Errorf("save origin link: %w", err)
	}

	moved, err := s.store.ReassignOrigin(ctx, from.Type, from.ID, to.Type, to.ID)
	if err != nil {
		return 0, fmt.Errorf("reassign origin: %w", err)
	}
	s.logger.Info("assigned origin", "from", fromKey, "to", toKey, "moved", moved)
	return moved, nil
}

// DeleteOrigin removes every instance of an origin.
func (s *TaskService) DeleteOrigin(ctx context.Context, ref OriginRef) (int, error) {
	if err := validateRef(ref); err != nil {
		return 0, err
	}
	n, err := s.store.DeleteOrigin(ctx, ref.Type, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("delete origin: %w", err)
	}
	s.logger.Info("deleted origin", "origin", model.OriginKey(ref.Type, ref.ID), "instances", n)
	return n, nil
}

func validateRef(ref OriginRef) error {
	if !ref.Type.IsValid() {
		return invalid("unknown origin type %q", ref.Type)
	}
	if strings.TrimSpace(ref.ID) == "" {
		return invalid("origin_id is required")
	}
	return nil
}

// ListTemplates returns templates, active or not, optionally narrowed to
// one origin type and scope.
func (s *TaskService) ListTemplates(ctx context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	if originType != nil && !originType.IsValid() {
		return nil, invalid("unknown origin type %q", *originType)
	}
	templates, err := s.store.ListTemplates(ctx, originType, originID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// SaveTemplate validates and upserts a template.
func (s *TaskService) SaveTemplate(ctx context.Context, t *model.RecurringTaskTemplate) error {
	t.Title = strings.TrimSpace(t.Title)
	t.StepKey = strings.TrimSpace(t.StepKey)
	if t.ListMode == "" {
		t.ListMode = model.ListSequential
	}
	if t.OriginID != nil && strings.TrimSpace(*t.OriginID) == "" {
		t.OriginID = nil
	}
	if err := s.validate.Struct(t); err != nil {
		return validationError(err)
	}
	if !t.OriginType.Seeded() {
		return invalid("templates cannot target %q origins", t.OriginType)
	}
	if strings.Contains(t.StepKey, ":") || strings.Contains(t.ListKey, ":") {
		return invalid("step_key and list_key must not contain ':'")
	}

	now := s.clock.Now()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if err := s.store.SaveTemplate(ctx, t); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
