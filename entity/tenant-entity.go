package entity

import "strings"

// EntityType classifies a sub-unit of a tenant.
type EntityType string

const (
	EntitySubsidiary EntityType = "subsidiary"
	EntityDivision   EntityType = "division"
	EntityBranch     EntityType = "branch"
	EntityOther      EntityType = "other"
)

// ParseEntityType maps free text onto the fixed enum. Anything outside the
// enum coerces to EntityOther — the wizard never rejects a type answer.
func ParseEntityType(raw string) EntityType {
	switch EntityType(strings.ToLower(strings.TrimSpace(raw))) {
	case EntitySubsidiary:
		return EntitySubsidiary
	case EntityDivision:
		return EntityDivision
	case EntityBranch:
		return EntityBranch
	default:
		return EntityOther
	}
}

// EntityDraft is built incrementally across the three entity wizard steps
// and submitted atomically. One draft is alive at a time.
type EntityDraft struct {
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description" bson:"description"`
	Type        EntityType `json:"entity_type" bson:"entity_type"`
}
