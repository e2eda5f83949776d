// Package memstore is an in-process task store. It backs tests and the
// memory driver; every method is safe for concurrent use.
package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parishtasks/internal/genkey"
	"parishtasks/internal/model"
)

// ErrInstanceNotFound is returned when updating a missing instance.
var ErrInstanceNotFound = errors.New("task instance not found")

type Store struct {
	mu          sync.RWMutex
	keys        *genkey.Set
	definitions map[uuid.UUID]model.TaskDefinition
	instances   map[uuid.UUID]model.TaskInstance
	origins     map[uuid.UUID]model.TaskOrigin // by instance id
	templates   map[uuid.UUID]model.RecurringTaskTemplate
	tickets     map[string]model.Ticket
	days        map[string]model.LiturgicalDay
	links       map[uuid.UUID]model.EntityLink
}

func New() *Store {
	return &Store{
		keys:        genkey.NewSet(),
		definitions: make(map[uuid.UUID]model.TaskDefinition),
		instances:   make(map[uuid.UUID]model.TaskInstance),
		origins:     make(map[uuid.UUID]model.TaskOrigin),
		templates:   make(map[uuid.UUID]model.RecurringTaskTemplate),
		tickets:     make(map[string]model.Ticket),
		days:        make(map[string]model.LiturgicalDay),
		links:       make(map[uuid.UUID]model.EntityLink),
	}
}

// PutTicket adds or replaces a ticket.
func (s *Store) PutTicket(t model.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID] = t
}

// PutLiturgicalDay adds or replaces a calendar day.
func (s *Store) PutLiturgicalDay(d model.LiturgicalDay) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[d.Date] = d
}

func (s *Store) ListOpenTickets(_ context.Context) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Ticket
	for _, t := range s.tickets {
		if t.IsOpen() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListUpcomingOccurrences(_ context.Context, originType model.OriginType) ([]string, error) {
	if originType != model.OriginSunday {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.days))
	for date := range s.days {
		out = append(out, date)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ListActiveTemplates(_ context.Context, originType model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	return s.listTemplates(&originType, originID, false), nil
}

// ListTemplates returns templates of originType (all types when nil),
// including inactive ones.
func (s *Store) ListTemplates(_ context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error) {
	return s.listTemplates(originType, originID, true), nil
}

func (s *Store) listTemplates(originType *model.OriginType, originID *string, includeInactive bool) []model.RecurringTaskTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.RecurringTaskTemplate
	for _, t := range s.templates {
		if !includeInactive && !t.Active {
			continue
		}
		if originType != nil && t.OriginType != *originType {
			continue
		}
		if originID != nil && t.OriginID != nil && *t.OriginID != *originID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ListKey != out[j].ListKey {
			return out[i].ListKey < out[j].ListKey
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].StepKey < out[j].StepKey
	})
	return out
}

func (s *Store) SaveTemplate(_ context.Context, t *model.RecurringTaskTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if existing, ok := s.templates[t.ID]; ok {
		t.CreatedAt = existing.CreatedAt
	} else if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	s.templates[t.ID] = *t
	return nil
}

func (s *Store) FindInstance(_ context.Context, generationKey string) (*model.TaskInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inst := range s.instances {
		if inst.GenerationKey == generationKey {
			out := s.hydrate(inst)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateInstance(_ context.Context, def *model.TaskDefinition, inst *model.TaskInstance, origin *model.TaskOrigin) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, err := s.keys.Reserve(context.Background(), inst.GenerationKey)
	if err != nil || !ok {
		return false, err
	}
	stored := *inst
	stored.DefinitionID = def.ID
	stored.Definition = model.TaskDefinition{}
	stored.Origin = nil
	o := *origin
	o.InstanceID = inst.ID

	s.definitions[def.ID] = *def
	s.instances[inst.ID] = stored
	s.origins[inst.ID] = o
	return true, nil
}

func (s *Store) GetInstance(_ context.Context, id uuid.UUID) (*model.TaskInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[id]
	if !ok {
		return nil, nil
	}
	out := s.hydrate(inst)
	return &out, nil
}

func (s *Store) ListInstances(_ context.Context, filter model.InstanceFilter) ([]model.TaskInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.TaskInstance
	for id, inst := range s.instances {
		if inst.ArchivedAt != nil && !filter.IncludeArchived {
			continue
		}
		o := s.origins[id]
		if filter.OriginType != nil && o.OriginType != *filter.OriginType {
			continue
		}
		if filter.OriginID != nil && o.OriginID != *filter.OriginID {
			continue
		}
		out = append(out, s.hydrate(inst))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) UpdateInstance(_ context.Context, inst *model.TaskInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.instances[inst.ID]
	if !ok {
		return ErrInstanceNotFound
	}
	stored := *inst
	stored.DefinitionID = existing.DefinitionID
	stored.GenerationKey = existing.GenerationKey
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	stored.Definition = model.TaskDefinition{}
	stored.Origin = nil
	s.instances[inst.ID] = stored
	return nil
}

func (s *Store) DeleteInstance(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id), nil
}

// deleteLocked removes an instance, its origin and its key, then drops the
// definition when nothing else references it.
func (s *Store) deleteLocked(id uuid.UUID) bool {
	inst, ok := s.instances[id]
	if !ok {
		return false
	}
	delete(s.instances, id)
	delete(s.origins, id)
	s.keys.Release(inst.GenerationKey)

	for _, other := range s.instances {
		if other.DefinitionID == inst.DefinitionID {
			return true
		}
	}
	delete(s.definitions, inst.DefinitionID)
	return true
}

func (s *Store) DeleteLegacyPlaceholders(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, o := range s.origins {
		if o.OriginEvent == model.LegacyPlaceholderEvent {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		s.deleteLocked(id)
	}
	return len(ids), nil
}

func (s *Store) DeleteOrigin(_ context.Context, originType model.OriginType, originID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uuid.UUID
	for id, o := range s.origins {
		if o.OriginType == originType && o.OriginID == originID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		s.deleteLocked(id)
	}
	return len(ids), nil
}

func (s *Store) ReassignOrigin(_ context.Context, fromType model.OriginType, fromID string, toType model.OriginType, toID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, o := range s.origins {
		if o.OriginType != fromType || o.OriginID != fromID {
			continue
		}
		if s.instances[id].State == model.StateDone {
			continue
		}
		o.OriginType = toType
		o.OriginID = toID
		s.origins[id] = o
		n++
	}
	return n, nil
}

func (s *Store) ArchiveInstances(_ context.Context, ids []uuid.UUID, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		inst, ok := s.instances[id]
		if !ok || inst.ArchivedAt != nil {
			continue
		}
		archivedAt := at
		inst.ArchivedAt = &archivedAt
		s.instances[id] = inst
		n++
	}
	return n, nil
}

func (s *Store) SaveLink(_ context.Context, link *model.EntityLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.links[link.ID]; ok {
		link.CreatedAt = existing.CreatedAt
	} else if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	s.links[link.ID] = *link
	return nil
}

func (s *Store) ListLinks(_ context.Context, fromType, role string) ([]model.EntityLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.EntityLink
	for _, l := range s.links {
		if l.FromType == fromType && (role == "" || l.Role == role) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) hydrate(inst model.TaskInstance) model.TaskInstance {
	inst.Definition = s.definitions[inst.DefinitionID]
	if o, ok := s.origins[inst.ID]; ok {
		inst.Origin = &o
	}
	return inst
}
