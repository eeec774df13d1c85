// Package driven lists what the migration engine needs from the outside
// world. Services hold these interfaces; adapters under internal/adapters
// and collectors under internal/connectors implement them.
//
// A ResourceStore and a MappingStore are always present. The ResourceStore
// pages by id with an opaque cursor, and the MappingStore rejects writes
// whose expected updated_at no longer matches. The ConfigStore holds
// engine settings.
//
// A Collector is optional. Without one, inventory sync reports that no
// collector is configured and the store keeps whatever it already holds.
//
// This package imports only domain.
package driven
