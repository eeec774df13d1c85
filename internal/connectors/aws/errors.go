package aws

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// ErrNoRegion indicates neither configured regions nor an SDK default region exist.
var ErrNoRegion = errors.New("aws: no region configured")

// Error codes returned by EC2.
const (
	codeInstanceNotFound  = "InvalidInstanceID.NotFound"
	codeInstanceMalformed = "InvalidInstanceID.Malformed"
	codeVolumeNotFound    = "InvalidVolume.NotFound"
	codeVolumeMalformed   = "InvalidVolumeID.Malformed"
	codeThrottled         = "RequestLimitExceeded"
	codeThrottling        = "Throttling"
)

// IsNotFound returns true if the error indicates an unknown instance or volume.
func IsNotFound(err error) bool {
	switch errorCode(err) {
	case codeInstanceNotFound, codeInstanceMalformed, codeVolumeNotFound, codeVolumeMalformed:
		return true
	default:
		return false
	}
}

// IsThrottled returns true if the error indicates API rate limiting.
func IsThrottled(err error) bool {
	code := errorCode(err)
	return code == codeThrottled || code == codeThrottling
}

// WrapError maps EC2 API errors onto domain errors where one applies.
func WrapError(region string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("aws %s: %w", region, err)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
