package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Link roles.
const (
	LinkRoleAssigned = "assigned"
	LinkRoleRelated  = "related"
)

// Entity types used on link endpoints.
const (
	EntityOrigin   = "origin"
	EntityInstance = "task_instance"
	EntityTicket   = "ticket"
)

// LinkMetadata is the typed payload stored alongside a link.
type LinkMetadata struct {
	Label string `json:"label,omitempty"`
	Note  string `json:"note,omitempty"`
}

// EntityLink is a typed edge between two domain objects.
type EntityLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FromType  string    `gorm:"not null;index:idx_entity_links_from,priority:1"`
	FromID    string    `gorm:"not null;index:idx_entity_links_from,priority:2"`
	ToType    string    `gorm:"not null"`
	ToID      string    `gorm:"not null"`
	Role      string
	Metadata  datatypes.JSONType[LinkMetadata] `gorm:"type:jsonb"`
	CreatedAt time.Time
}

var linkNamespace = uuid.MustParse("6f1c2b9e-3f5d-4c1a-9a57-0d7b8e2c4a11")

// LinkID derives the id of a link from its key fields, so saving the same
// edge twice is a no-op.
func LinkID(fromType, fromID, toType, toID, role string) uuid.UUID {
	name := strings.Join([]string{fromType, fromID, toType, toID, role}, "\x1f")
	return uuid.NewSHA1(linkNamespace, []byte(name))
}

// NewEntityLink builds a link with its derived id.
func NewEntityLink(fromType, fromID, toType, toID, role string, meta LinkMetadata) EntityLink {
	return EntityLink{
		ID:       LinkID(fromType, fromID, toType, toID, role),
		FromType: fromType,
		FromID:   fromID,
		ToType:   toType,
		ToID:     toID,
		Role:     role,
		Metadata: datatypes.NewJSONType(meta),
	}
}
