package google

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/shiftmap/internal/connectors"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

var (
	ErrNoProject   = errors.New("gcp: no project configured")
	ErrCredentials = errors.New("gcp: credentials rejected")
	ErrPermission  = errors.New("gcp: permission denied")
	ErrQuota       = errors.New("gcp: quota exceeded")
)

// Reasons the Compute API reports on a 403 that is really a quota response.
var quotaReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"quotaExceeded":         true,
}

// apiError classifies a Compute API failure for project. Missing projects
// and instances become domain.ErrNotFound.
func apiError(project string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("gcp %s: %w", project, err)
	}

	var kind error
	switch {
	case gerr.Code == http.StatusNotFound:
		return domain.ErrNotFound
	case gerr.Code == http.StatusUnauthorized:
		kind = ErrCredentials
	case isQuota(gerr):
		kind = ErrQuota
	case gerr.Code == http.StatusForbidden:
		kind = ErrPermission
	default:
		return fmt.Errorf("gcp %s: %w", project, err)
	}
	return fmt.Errorf("gcp %s: %w: %w", project, kind, err)
}

// throttled reports whether err is a quota response and how long the API
// asked callers to wait. Zero means no hint was given.
func throttled(err error, now time.Time) (time.Duration, bool) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || !isQuota(gerr) {
		return 0, false
	}
	return connectors.RetryAfter(gerr.Header.Get("Retry-After"), now), true
}

func isQuota(gerr *googleapi.Error) bool {
	if gerr.Code == http.StatusTooManyRequests {
		return true
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return false
}
