package model_test

import (
	"testing"

	"parishtasks/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDisplayState(t *testing.T) {
	tests := []struct {
		name    string
		state   model.State
		blocked bool
		want    model.State
	}{
		{"open", model.StateOpen, false, model.StateOpen},
		{"empty state reads as open", "", false, model.StateOpen},
		{"blocked flag surfaces", model.StateInProgress, true, model.StateBlocked},
		{"done overrides blocked", model.StateDone, true, model.StateDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := model.TaskInstance{State: tt.state, Blocked: tt.blocked}
			assert.Equal(t, tt.want, inst.DisplayState())
		})
	}
}

func TestEffectiveListKey(t *testing.T) {
	assert.Equal(t, model.DefaultListKey, (&model.TaskInstance{}).EffectiveListKey())
	assert.Equal(t, "prep", (&model.TaskInstance{ListKey: "prep"}).EffectiveListKey())
}

func TestParseOriginType(t *testing.T) {
	got, ok := model.ParseOriginType(" Sunday ")
	assert.True(t, ok)
	assert.Equal(t, model.OriginSunday, got)

	_, ok = model.ParseOriginType("wedding")
	assert.False(t, ok)

	assert.True(t, model.OriginVestry.Seeded())
	assert.False(t, model.OriginManual.Seeded())
}

func TestLinkIDIsDerivedFromKeyFields(t *testing.T) {
	a := model.NewEntityLink(model.EntityOrigin, "sunday:2026-01-04", model.EntityOrigin, "vestry:2026-01-18", model.LinkRoleAssigned, model.LinkMetadata{Label: "x"})
	b := model.NewEntityLink(model.EntityOrigin, "sunday:2026-01-04", model.EntityOrigin, "vestry:2026-01-18", model.LinkRoleAssigned, model.LinkMetadata{Label: "y"})
	c := model.NewEntityLink(model.EntityOrigin, "sunday:2026-01-04", model.EntityOrigin, "vestry:2026-01-18", model.LinkRoleRelated, model.LinkMetadata{})

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "x", a.Metadata.Data().Label)
}
