package domain

import (
	"time"
	"unicode/utf8"
)

// MaxNotesLength is the longest note, in characters, a mapping group may carry.
const MaxNotesLength = 1000

// MappingType describes the kind of migration decision a group records.
type MappingType string

// Available mapping types.
const (
	MappingTypeReplacement   MappingType = "replacement"
	MappingTypeConsolidation MappingType = "consolidation"
	MappingTypeSplit         MappingType = "split"
	MappingTypeDependency    MappingType = "dependency"
	MappingTypeDeprecation   MappingType = "deprecation"
	MappingTypeRemoval       MappingType = "removal"
	MappingTypeAddition      MappingType = "addition"
)

// AllMappingTypes returns every mapping type.
func AllMappingTypes() []MappingType {
	return []MappingType{
		MappingTypeReplacement,
		MappingTypeConsolidation,
		MappingTypeSplit,
		MappingTypeDependency,
		MappingTypeDeprecation,
		MappingTypeRemoval,
		MappingTypeAddition,
	}
}

// IsValid returns true if the mapping type is recognised.
func (t MappingType) IsValid() bool {
	for _, v := range AllMappingTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t MappingType) String() string {
	return string(t)
}

// ParseMappingType validates and converts a raw value into a MappingType.
func ParseMappingType(s string) (MappingType, error) {
	t := MappingType(s)
	if !t.IsValid() {
		return "", NewValidationError("unknown mapping type %q", s)
	}
	return t, nil
}

// MappingDirection constrains the categories of a group's sources and targets.
type MappingDirection string

// Available mapping directions.
const (
	DirectionOldToNew MappingDirection = "old_to_new"
	DirectionNewToOld MappingDirection = "new_to_old"
	DirectionOldToOld MappingDirection = "old_to_old"
	DirectionNewToNew MappingDirection = "new_to_new"
	DirectionAnyToAny MappingDirection = "any_to_any"
)

// AllMappingDirections returns every mapping direction.
func AllMappingDirections() []MappingDirection {
	return []MappingDirection{
		DirectionOldToNew,
		DirectionNewToOld,
		DirectionOldToOld,
		DirectionNewToNew,
		DirectionAnyToAny,
	}
}

// IsValid returns true if the direction is recognised.
func (d MappingDirection) IsValid() bool {
	switch d {
	case DirectionOldToNew, DirectionNewToOld, DirectionOldToOld, DirectionNewToNew, DirectionAnyToAny:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d MappingDirection) String() string {
	return string(d)
}

// ParseMappingDirection validates and converts a raw value into a MappingDirection.
func ParseMappingDirection(s string) (MappingDirection, error) {
	d := MappingDirection(s)
	if !d.IsValid() {
		return "", NewValidationError("unknown mapping direction %q", s)
	}
	return d, nil
}

// Categories returns the category every source and every target must have.
// The boolean is false for any_to_any, which waives the check.
func (d MappingDirection) Categories() (source, target Category, constrained bool) {
	switch d {
	case DirectionOldToNew:
		return CategoryOld, CategoryNew, true
	case DirectionNewToOld:
		return CategoryNew, CategoryOld, true
	case DirectionOldToOld:
		return CategoryOld, CategoryOld, true
	case DirectionNewToNew:
		return CategoryNew, CategoryNew, true
	default:
		return "", "", false
	}
}

// DirectionFor derives the narrowest direction covering a source and target category.
func DirectionFor(source, target Category) MappingDirection {
	for _, d := range AllMappingDirections() {
		s, t, ok := d.Categories()
		if ok && s == source && t == target {
			return d
		}
	}
	return DirectionAnyToAny
}

// MappingGroup records a many-to-many migration decision between resources.
type MappingGroup struct {
	// ID is assigned on creation.
	ID string `json:"id"`

	// SourceIDs lists the source resources in order. Never empty.
	SourceIDs []string `json:"sourceResources"`

	// TargetIDs lists the target resources in order. Empty means the
	// sources are earmarked but not yet matched.
	TargetIDs []string `json:"targetResources"`

	// Type is the kind of migration decision.
	Type MappingType `json:"mappingType"`

	// Direction constrains source and target categories.
	Direction MappingDirection `json:"mappingDirection"`

	// Status is the migration lifecycle stage.
	Status MigrationStatus `json:"migrationStatus"`

	// Notes is free text up to MaxNotesLength characters.
	Notes string `json:"notes,omitempty"`

	// Confidence is set only for groups confirmed from a suggestion.
	Confidence *int `json:"confidence,omitempty"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the optimistic concurrency token. Every mutation advances it.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity returns the identity used to break sort ties.
func (g MappingGroup) Identity() string {
	return g.ID
}

// SortKey returns an order-preserving string key for the given field.
func (g MappingGroup) SortKey(field SortField) (string, error) {
	switch field {
	case SortByID, "":
		return g.ID, nil
	case SortByCreated:
		return timeKey(g.CreatedAt), nil
	case SortByUpdated:
		return timeKey(g.UpdatedAt), nil
	case SortByStatus:
		return string(g.Status), nil
	case SortByType:
		return string(g.Type), nil
	case SortByConfidence:
		if g.Confidence == nil {
			return "000", nil
		}
		return padScore(*g.Confidence), nil
	default:
		return "", NewValidationError("cannot sort mappings by %q", field)
	}
}

// ResourceIDs returns every source and target id.
func (g *MappingGroup) ResourceIDs() []string {
	ids := make([]string, 0, len(g.SourceIDs)+len(g.TargetIDs))
	ids = append(ids, g.SourceIDs...)
	return append(ids, g.TargetIDs...)
}

// HasPair reports whether the group maps source to target.
func (g *MappingGroup) HasPair(source, target string) bool {
	return contains(g.SourceIDs, source) && contains(g.TargetIDs, target)
}

// Clone returns a deep copy of the group.
func (g MappingGroup) Clone() MappingGroup {
	c := g
	c.SourceIDs = append([]string(nil), g.SourceIDs...)
	c.TargetIDs = append([]string(nil), g.TargetIDs...)
	if g.Confidence != nil {
		v := *g.Confidence
		c.Confidence = &v
	}
	return c
}

// MappingPatch holds the optional fields of an update.
// Nil fields are left unchanged.
type MappingPatch struct {
	Notes     *string
	Type      *MappingType
	Direction *MappingDirection
}

// IsEmpty returns true if the patch changes nothing.
func (p MappingPatch) IsEmpty() bool {
	return p.Notes == nil && p.Type == nil && p.Direction == nil
}

// ValidateNotes checks the notes length limit.
func ValidateNotes(notes string) error {
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		return NewValidationError("notes are %d characters long, limit is %d", n, MaxNotesLength)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
