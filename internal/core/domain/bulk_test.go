package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkLimits_Check(t *testing.T) {
	limits := BulkLimits{WarnAbove: 25, MaxItems: 50}

	tests := []struct {
		name      string
		size      int
		confirmed bool
		want      error
	}{
		{"empty", 0, true, ErrInvalidInput},
		{"small", 3, false, nil},
		{"at warn threshold", 25, false, nil},
		{"above warn unconfirmed", 26, false, ErrConfirmationRequired},
		{"above warn confirmed", 26, true, nil},
		{"at max confirmed", 50, true, nil},
		{"above max even when confirmed", 51, true, ErrLimitExceeded},
		{"above max unconfirmed reports the cap", 51, false, ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := limits.Check(tt.size, tt.confirmed)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBulkResult_Summary(t *testing.T) {
	r := &BulkResult[string]{
		Succeeded: []string{"a", "c"},
		Failed:    []BulkFailure{{ID: "missing", Error: NewNotFoundError("resource", "missing")}},
	}

	assert.Equal(t, 3, r.Total())
	assert.Equal(t, "2 succeeded, 1 failed", r.String())
	assert.Equal(t, KindNotFound, r.Failed[0].Kind())
	assert.Contains(t, r.Failed[0].Message(), "missing")
}

func TestBulkFailure_UnclassifiedError(t *testing.T) {
	f := BulkFailure{ID: "x", Error: errors.New("boom")}
	assert.Equal(t, KindInternal, f.Kind())
	assert.Empty(t, BulkFailure{}.Message())
}

func TestBulkFailure_MarshalJSON(t *testing.T) {
	f := BulkFailure{ID: "i-9", Error: NewNotFoundError("resource", "i-9")}

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"i-9","kind":"not_found","error":"not_found: resource not found (id: i-9)"}`, string(data))
}

func TestMappingRequest_Key(t *testing.T) {
	assert.Equal(t, "a->b", MappingRequest{SourceIDs: []string{"a"}, TargetIDs: []string{"b", "c"}}.Key())
	assert.Equal(t, "a", MappingRequest{SourceIDs: []string{"a"}}.Key())
	assert.Empty(t, MappingRequest{}.Key())
}
