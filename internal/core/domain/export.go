package domain

import "time"

// Export is a read-only full snapshot for offline archival.
type Export struct {
	Resources  []Resource       `json:"resources"`
	Mappings   []MappingGroup   `json:"mappings"`
	Snapshot   CategorySnapshot `json:"categories"`
	ExportedAt time.Time        `json:"exportedAt"`
}

// SyncReport summarises an inventory sync.
type SyncReport struct {
	Collector string `json:"collector"`
	Added     int    `json:"added"`
	Updated   int    `json:"updated"`
	Total     int    `json:"total"`
}
