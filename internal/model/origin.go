package model

import "strings"

// OriginType is the closed set of reasons a task instance can exist.
type OriginType string

const (
	OriginTicket     OriginType = "ticket"
	OriginSunday     OriginType = "sunday"
	OriginVestry     OriginType = "vestry"
	OriginOperations OriginType = "operations"
	OriginManual     OriginType = "manual"
)

// OriginTypes lists every origin type in seeding order.
func OriginTypes() []OriginType {
	return []OriginType{OriginTicket, OriginSunday, OriginVestry, OriginOperations, OriginManual}
}

// IsValid reports whether t is a known origin type.
func (t OriginType) IsValid() bool {
	switch t {
	case OriginTicket, OriginSunday, OriginVestry, OriginOperations, OriginManual:
		return true
	default:
		return false
	}
}

// Seeded reports whether templates can generate instances for t.
func (t OriginType) Seeded() bool {
	switch t {
	case OriginTicket, OriginSunday, OriginVestry, OriginOperations:
		return true
	case OriginManual:
		return false
	default:
		return false
	}
}

func (t OriginType) String() string { return string(t) }

// ParseOriginType normalizes s and checks it against the known types.
func ParseOriginType(s string) (OriginType, bool) {
	t := OriginType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// OriginKey identifies one origin occurrence, e.g. "sunday:2026-01-04".
func OriginKey(originType OriginType, originID string) string {
	return string(originType) + ":" + originID
}

// LegacyPlaceholderEvent marks origins of instances created before the
// template engine existed; seeding replaces them.
const LegacyPlaceholderEvent = "legacy_placeholder"
