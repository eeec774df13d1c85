package domain

// MigrationStatus is the lifecycle stage of a mapping group.
type MigrationStatus string

// Available migration statuses.
const (
	StatusNotStarted MigrationStatus = "not_started"
	StatusInProgress MigrationStatus = "in_progress"
	StatusMigrated   MigrationStatus = "migrated"
	StatusVerified   MigrationStatus = "verified"
	StatusExcluded   MigrationStatus = "excluded"
	StatusDeprecated MigrationStatus = "deprecated"
	StatusRollback   MigrationStatus = "rollback"
)

// transitions lists the legal moves out of each status.
// excluded and deprecated are terminal.
var transitions = map[MigrationStatus][]MigrationStatus{
	StatusNotStarted: {StatusInProgress, StatusExcluded, StatusDeprecated},
	StatusInProgress: {StatusMigrated, StatusExcluded, StatusDeprecated},
	StatusMigrated:   {StatusVerified, StatusRollback, StatusExcluded, StatusDeprecated},
	StatusVerified:   {StatusRollback},
	StatusRollback:   {StatusNotStarted},
}

// AllMigrationStatuses returns every status in lifecycle order.
func AllMigrationStatuses() []MigrationStatus {
	return []MigrationStatus{
		StatusNotStarted,
		StatusInProgress,
		StatusMigrated,
		StatusVerified,
		StatusExcluded,
		StatusDeprecated,
		StatusRollback,
	}
}

// IsValid returns true if the status is recognised.
func (s MigrationStatus) IsValid() bool {
	for _, v := range AllMigrationStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (s MigrationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible.
func (s MigrationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Next returns the statuses reachable from s in one step.
func (s MigrationStatus) Next() []MigrationStatus {
	return append([]MigrationStatus(nil), transitions[s]...)
}

// CanTransition reports whether moving from s to to is legal.
func (s MigrationStatus) CanTransition(to MigrationStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseMigrationStatus validates and converts a raw value into a MigrationStatus.
func ParseMigrationStatus(s string) (MigrationStatus, error) {
	st := MigrationStatus(s)
	if !st.IsValid() {
		return "", NewValidationError("unknown migration status %q", s)
	}
	return st, nil
}

// ValidateTransition returns a *TransitionError if moving from -> to is illegal.
func ValidateTransition(from, to MigrationStatus) error {
	if !to.IsValid() {
		return NewValidationError("unknown migration status %q", to)
	}
	if !from.CanTransition(to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
