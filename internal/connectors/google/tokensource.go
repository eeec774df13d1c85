package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/compute/v1"
)

// NewTokenSource creates an oauth2.TokenSource for read-only Compute access.
// A non-empty credentialsFile is read as a service account key; otherwise
// Application Default Credentials are used.
func NewTokenSource(ctx context.Context, credentialsFile string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		ts, err := googleoauth.DefaultTokenSource(ctx, compute.ComputeReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}
		return ts, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	creds, err := googleoauth.CredentialsFromJSON(ctx, data, compute.ComputeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}
	return creds.TokenSource, nil
}
