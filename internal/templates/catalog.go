// Package templates loads recurring task templates from YAML catalogs.
package templates

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"parishtasks/internal/model"
)

//go:embed default.yaml
var defaultCatalog []byte

var templateNamespace = uuid.MustParse("2b8d4f60-8c1e-4d7a-b3f2-5e9a0c6d1f47")

// Catalog is a YAML document of checklists.
type Catalog struct {
	Lists []List `yaml:"lists"`
}

// List is one checklist; each step becomes a template.
type List struct {
	OriginType      string `yaml:"origin_type"`
	Scope           string `yaml:"scope"`
	Key             string `yaml:"key"`
	Title           string `yaml:"title"`
	Mode            string `yaml:"mode"`
	ArchiveAfterDue *bool  `yaml:"archive_after_due"`
	Inactive        bool   `yaml:"inactive"`
	Steps           []Step `yaml:"steps"`
}

type Step struct {
	Key             string `yaml:"key"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	DueOffsetDays   *int   `yaml:"due_offset_days"`
	PriorityBase    *int   `yaml:"priority_base"`
	ArchiveAfterDue *bool  `yaml:"archive_after_due"`
}

// Parse decodes a catalog and flattens it into templates.
func Parse(data []byte) ([]model.RecurringTaskTemplate, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return c.Templates()
}

// Load reads a catalog file.
func Load(path string) ([]model.RecurringTaskTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() ([]model.RecurringTaskTemplate, error) {
	return Parse(defaultCatalog)
}

// TemplateID derives a stable id from a template's identity, so loading
// the same catalog twice addresses the same rows.
func TemplateID(originType model.OriginType, scope, listKey, stepKey string) uuid.UUID {
	name := strings.Join([]string{string(originType), scope, listKey, stepKey}, "\x1f")
	return uuid.NewSHA1(templateNamespace, []byte(name))
}

// Templates flattens the catalog. Steps are ordered as written.
func (c *Catalog) Templates() ([]model.RecurringTaskTemplate, error) {
	var out []model.RecurringTaskTemplate
	for li, l := range c.Lists {
		originType, ok := model.ParseOriginType(l.OriginType)
		if !ok || !originType.Seeded() {
			return nil, fmt.Errorf("list %d: origin type %q cannot be seeded", li, l.OriginType)
		}
		mode := model.ListMode(strings.ToLower(l.Mode))
		switch mode {
		case "":
			mode = model.ListSequential
		case model.ListSequential, model.ListParallel:
		default:
			return nil, fmt.Errorf("list %q: unknown mode %q", l.Key, l.Mode)
		}
		var scope *string
		if s := strings.TrimSpace(l.Scope); s != "" {
			scope = &s
		}

		for si, s := range l.Steps {
			if s.Key == "" || s.Title == "" {
				return nil, fmt.Errorf("list %q step %d: key and title are required", l.Key, si+1)
			}
			base := model.DefaultPriorityBase
			if s.PriorityBase != nil {
				base = *s.PriorityBase
			}
			archiveAfterDue := true
			if l.ArchiveAfterDue != nil {
				archiveAfterDue = *l.ArchiveAfterDue
			}
			if s.ArchiveAfterDue != nil {
				archiveAfterDue = *s.ArchiveAfterDue
			}
			out = append(out, model.RecurringTaskTemplate{
				ID:              TemplateID(originType, l.Scope, l.Key, s.Key),
				OriginType:      originType,
				OriginID:        scope,
				ListKey:         l.Key,
				ListTitle:       l.Title,
				ListMode:        mode,
				StepKey:         s.Key,
				Title:           s.Title,
				Description:     s.Description,
				SortOrder:       si + 1,
				DueOffsetDays:   s.DueOffsetDays,
				PriorityBase:    base,
				ArchiveAfterDue: archiveAfterDue,
				Active:          !l.Inactive,
			})
		}
	}
	return out, nil
}

// Store is what Install needs to persist templates.
type Store interface {
	ListTemplates(ctx context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error)
	SaveTemplate(ctx context.Context, t *model.RecurringTaskTemplate) error
}

// Install saves the templates that do not exist yet and returns how many
// were added.
func Install(ctx context.Context, store Store, templates []model.RecurringTaskTemplate) (int, error) {
	existing, err := store.ListTemplates(ctx, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}

	added := 0
	for i := range templates {
		t := templates[i]
		if known[t.ID] {
			continue
		}
		if err := store.SaveTemplate(ctx, &t); err != nil {
			return added, fmt.Errorf("save template %s/%s: %w", t.ListKey, t.StepKey, err)
		}
		added++
	}
	return added, nil
}
