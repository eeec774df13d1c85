package listing

import (
	"encoding/base64"
	"encoding/json"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// cursorVersion is the current cursor schema version.
const cursorVersion = 1

// Cursor is the decoded position of a paginated listing.
type Cursor struct {
	// Version is the schema version for future migrations.
	Version int `json:"v"`

	// Field and Order pin the cursor to the sort it was issued for.
	Field domain.SortField `json:"f"`
	Order domain.SortOrder `json:"o"`

	// Key and ID are the sort key and identity of the last item returned.
	Key string `json:"k"`
	ID  string `json:"i"`
}

// Encode serializes the cursor to a URL-safe base64-encoded JSON string.
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor deserializes a cursor and checks it belongs to the given sort.
// An empty string decodes to nil, meaning "start from the beginning".
func DecodeCursor(s string, sort domain.Sort) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.NewValidationError("malformed cursor")
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, domain.NewValidationError("malformed cursor")
	}
	if c.Version != cursorVersion {
		return nil, domain.NewValidationError("unsupported cursor version %d", c.Version)
	}
	if c.Field != normField(sort.Field) || c.Order != normOrder(sort.Order) {
		return nil, domain.NewValidationError("cursor was issued for a different sort")
	}
	return &c, nil
}

func normField(f domain.SortField) domain.SortField {
	if f == "" {
		return domain.SortByID
	}
	return f
}

func normOrder(o domain.SortOrder) domain.SortOrder {
	if o == "" {
		return domain.SortAsc
	}
	return o
}
