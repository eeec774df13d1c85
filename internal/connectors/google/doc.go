// Package google provides a collector that discovers Compute Engine
// instances in a Google Cloud project.
//
// This package contains:
//   - Token source construction from a service account key file or
//     Application Default Credentials
//   - Classification of Compute API failures, including 403 responses
//     that carry a quota reason
//   - The Compute collector, throttled by a shared rate limiter that
//     honours Retry-After
//
// # Usage
//
//	c, err := google.New(ctx, project, credentialsFile)
//
// # OAuth2 Scopes
//
// The collector only needs https://www.googleapis.com/auth/compute.readonly.
package google
