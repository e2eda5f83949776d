// Package seeder turns recurring templates into task instances for the
// current cycle of each origin. Seeding is idempotent: every instance is
// identified by its generation key and existing keys are skipped.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/genkey"
	"parishtasks/internal/model"
)

// TicketDefaultStepKey is the step generated for tickets when no ticket
// template exists.
const TicketDefaultStepKey = "resolve"

// Source supplies templates and origin facts.
type Source interface {
	ListOpenTickets(ctx context.Context) ([]model.Ticket, error)
	// ListActiveTemplates returns active templates of originType. A nil
	// originID returns every scope, otherwise only templates scoped to
	// originID or unscoped.
	ListActiveTemplates(ctx context.Context, originType model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error)
	ListUpcomingOccurrences(ctx context.Context, originType model.OriginType) ([]string, error)
	FindInstance(ctx context.Context, generationKey string) (*model.TaskInstance, error)
}

// Sink persists generated instances.
type Sink interface {
	// CreateInstance reserves inst.GenerationKey and stores the three rows
	// in one transaction. It returns false when the key was taken.
	CreateInstance(ctx context.Context, def *model.TaskDefinition, inst *model.TaskInstance, origin *model.TaskOrigin) (bool, error)
	DeleteLegacyPlaceholders(ctx context.Context) (int, error)
}

// Settings are the seeding capabilities resolved at startup.
type Settings struct {
	Origins           []model.OriginType
	SundayHorizonDays int
	ComputeSundays    bool
	VestryMonthsAhead int
	TicketSLADays     int
	TicketDefaultStep bool
	LegacyCleanup     bool
}

// Enabled reports whether originType may be seeded.
func (s Settings) Enabled(originType model.OriginType) bool {
	if !originType.Seeded() {
		return false
	}
	for _, t := range s.Origins {
		if t == originType {
			return true
		}
	}
	return false
}

// Planned is one instance that should exist, with its definition and origin.
type Planned struct {
	Definition model.TaskDefinition
	Instance   model.TaskInstance
	Origin     model.TaskOrigin
}

// Result counts what a seeding run did.
type Result struct {
	Created int
	Skipped int
	Removed int
}

type Seeder struct {
	src      Source
	sink     Sink
	clock    dateutil.Clock
	settings Settings
	logger   *slog.Logger
}

func New(src Source, sink Sink, clock dateutil.Clock, settings Settings, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{src: src, sink: sink, clock: clock, settings: settings, logger: logger}
}

// Matches reports whether tmpl applies to occ.
func Matches(tmpl *model.RecurringTaskTemplate, occ *Occurrence) bool {
	if !tmpl.Active || tmpl.OriginType != occ.OriginType {
		return false
	}
	if tmpl.OriginID == nil || *tmpl.OriginID == "" {
		return true
	}
	scope := *tmpl.OriginID
	return scope == occ.OriginID || (occ.Scope != "" && scope == occ.Scope)
}

// DueFor computes the due date of tmpl in occ: the reference date moved by
// the template offset, or the occurrence's default.
func DueFor(tmpl *model.RecurringTaskTemplate, occ *Occurrence) *time.Time {
	if tmpl.DueOffsetDays != nil {
		due := dateutil.AddDays(occ.Reference, *tmpl.DueOffsetDays)
		return &due
	}
	if occ.DefaultDue == nil {
		return nil
	}
	due := *occ.DefaultDue
	return &due
}

// Plan lists the instances templates call for across occurrences. It does
// not consult the registry; duplicates are filtered when applied.
func Plan(templates []model.RecurringTaskTemplate, occurrences []Occurrence, now time.Time) []Planned {
	var out []Planned
	seen := make(map[string]bool)
	for oi := range occurrences {
		occ := &occurrences[oi]
		for ti := range templates {
			tmpl := &templates[ti]
			if !Matches(tmpl, occ) {
				continue
			}
			p := plan(tmpl, occ, now)
			if seen[p.Instance.GenerationKey] {
				continue
			}
			seen[p.Instance.GenerationKey] = true
			out = append(out, p)
		}
	}
	return out
}

func plan(tmpl *model.RecurringTaskTemplate, occ *Occurrence, now time.Time) Planned {
	title := strings.ReplaceAll(tmpl.Title, "{title}", occ.Title)
	mode := tmpl.ListMode
	if mode == "" {
		mode = model.ListSequential
	}
	archiveAfterDue := tmpl.ArchiveAfterDue

	def := model.TaskDefinition{
		ID:           uuid.New(),
		Title:        title,
		Description:  tmpl.Description,
		Status:       model.DefinitionActive,
		PriorityBase: tmpl.PriorityBase,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inst := model.TaskInstance{
		ID:              uuid.New(),
		DefinitionID:    def.ID,
		GenerationKey:   genkey.Build(occ.OriginType, occ.OriginID, tmpl.ListKey, tmpl.StepKey),
		State:           model.StateOpen,
		DueAt:           DueFor(tmpl, occ),
		SLATargetAt:     occ.SLATarget,
		SortOrder:       sortOrderFor(tmpl, mode),
		ArchiveAfterDue: &archiveAfterDue,
		ListKey:         tmpl.ListKey,
		ListTitle:       tmpl.ListTitle,
		ListMode:        mode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	origin := model.TaskOrigin{
		ID:          uuid.New(),
		InstanceID:  inst.ID,
		OriginType:  occ.OriginType,
		OriginID:    occ.OriginID,
		OriginEvent: tmpl.StepKey,
		CreatedAt:   now,
	}
	return Planned{Definition: def, Instance: inst, Origin: origin}
}

// sortOrderFor carries the step order into sequential lists only; a
// parallel list ranks its members by priority.
func sortOrderFor(tmpl *model.RecurringTaskTemplate, mode model.ListMode) *int {
	if mode != model.ListSequential {
		return nil
	}
	order := tmpl.SortOrder
	return &order
}

// TicketDefaultTemplate is used for tickets when no ticket templates exist.
func TicketDefaultTemplate() model.RecurringTaskTemplate {
	return model.RecurringTaskTemplate{
		OriginType:      model.OriginTicket,
		ListMode:        model.ListParallel,
		StepKey:         TicketDefaultStepKey,
		Title:           "{title}",
		PriorityBase:    model.DefaultPriorityBase,
		ArchiveAfterDue: true,
		Active:          true,
	}
}

// Seed generates the missing instances for one origin type, or for every
// enabled type when originType is nil. Re-running it is always safe.
func (s *Seeder) Seed(ctx context.Context, originType *model.OriginType) (Result, error) {
	var res Result
	now := s.clock.Now()

	if s.settings.LegacyCleanup {
		removed, err := s.sink.DeleteLegacyPlaceholders(ctx)
		if err != nil {
			return res, fmt.Errorf("delete legacy placeholders: %w", err)
		}
		res.Removed = removed
		if removed > 0 {
			s.logger.Info("removed legacy placeholder tasks", "count", removed)
		}
	}

	types := s.settings.Origins
	if originType != nil {
		types = []model.OriginType{*originType}
	}

	for _, t := range types {
		if !s.settings.Enabled(t) {
			s.logger.Debug("origin type not seeded", "origin_type", t)
			continue
		}
		r, err := s.seedType(ctx, t, now)
		res.Created += r.Created
		res.Skipped += r.Skipped
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Seeder) seedType(ctx context.Context, originType model.OriginType, now time.Time) (Result, error) {
	var res Result

	occs, err := s.occurrences(ctx, originType, now)
	if err != nil {
		return res, err
	}
	if len(occs) == 0 {
		return res, nil
	}

	templates, err := s.src.ListActiveTemplates(ctx, originType, nil)
	if err != nil {
		return res, fmt.Errorf("list %s templates: %w", originType, err)
	}
	if len(templates) == 0 && originType == model.OriginTicket && s.settings.TicketDefaultStep {
		templates = []model.RecurringTaskTemplate{TicketDefaultTemplate()}
	}

	for _, p := range Plan(templates, occs, now) {
		existing, err := s.src.FindInstance(ctx, p.Instance.GenerationKey)
		if err != nil {
			return res, fmt.Errorf("find instance %s: %w", p.Instance.GenerationKey, err)
		}
		if existing != nil {
			res.Skipped++
			continue
		}
		created, err := s.sink.CreateInstance(ctx, &p.Definition, &p.Instance, &p.Origin)
		if err != nil {
			return res, fmt.Errorf("create instance %s: %w", p.Instance.GenerationKey, err)
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}

	s.logger.Info("seeded templates",
		"origin_type", originType,
		"occurrences", len(occs),
		"created", res.Created,
		"skipped", res.Skipped)
	return res, nil
}
