package seeder_test

import (
	"context"
	"fmt"
	"testing"

	"parishtasks/internal/memstore"
	"parishtasks/internal/model"
	"parishtasks/internal/seeder"

	"pgregory.net/rapid"
)

// Seeding any template set twice leaves exactly one instance per
// generation key.
func TestPropertySeedTwiceEqualsSeedOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		store := memstore.New()
		store.PutLiturgicalDay(model.LiturgicalDay{Date: "2026-01-04"})
		store.PutLiturgicalDay(model.LiturgicalDay{Date: "2026-01-11"})
		store.PutTicket(model.Ticket{ID: "T-1", Title: "Leak", Status: "open", CreatedAt: at("2026-01-01")})

		types := []model.OriginType{model.OriginSunday, model.OriginVestry, model.OriginOperations, model.OriginTicket}
		n := rapid.IntRange(0, 8).Draw(rt, "templates")
		for i := 0; i < n; i++ {
			originType := rapid.SampledFrom(types).Draw(rt, fmt.Sprintf("type_%d", i))
			// Step keys collide on purpose to exercise the dedup path.
			stepKey := fmt.Sprintf("step-%d", rapid.IntRange(0, 3).Draw(rt, fmt.Sprintf("step_%d", i)))
			listKey := rapid.SampledFrom([]string{"", "prep"}).Draw(rt, fmt.Sprintf("list_%d", i))
			tmpl := template(originType, stepKey, func(t *model.RecurringTaskTemplate) { t.ListKey = listKey })
			if err := store.SaveTemplate(ctx, tmpl); err != nil {
				rt.Fatalf("save template: %v", err)
			}
		}

		s := newSeeder(store, at("2026-01-02"), settings(types...))
		if _, err := s.Seed(ctx, nil); err != nil {
			rt.Fatalf("first seed: %v", err)
		}
		once, _ := store.ListInstances(ctx, model.InstanceFilter{IncludeArchived: true})

		second, err := s.Seed(ctx, nil)
		if err != nil {
			rt.Fatalf("second seed: %v", err)
		}
		twice, _ := store.ListInstances(ctx, model.InstanceFilter{IncludeArchived: true})

		if second.Created != 0 {
			rt.Fatalf("second run created %d instances", second.Created)
		}
		if len(once) != len(twice) {
			rt.Fatalf("instance count changed from %d to %d", len(once), len(twice))
		}
		keys := make(map[string]bool)
		for _, inst := range twice {
			if keys[inst.GenerationKey] {
				rt.Fatalf("duplicate generation key %s", inst.GenerationKey)
			}
			keys[inst.GenerationKey] = true
		}
	})
}

func TestPlanDeduplicatesWithinOneRun(t *testing.T) {
	occ := seeder.Occurrence{OriginType: model.OriginSunday, OriginID: "2026-01-04", Reference: at("2026-01-04")}
	a := *template(model.OriginSunday, "bulletin", nil)
	b := *template(model.OriginSunday, "bulletin", func(t *model.RecurringTaskTemplate) { t.Title = "copy" })

	planned := seeder.Plan([]model.RecurringTaskTemplate{a, b}, []seeder.Occurrence{occ}, at("2026-01-02"))

	if len(planned) != 1 {
		t.Fatalf("planned %d instances, want 1", len(planned))
	}
}
