// Package googleauth builds authenticated HTTP clients for the Google APIs
// from service-account credentials.
package googleauth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
)

// NewHTTPClient returns an HTTP client authorized for the given scopes.
//
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS (a path to a
// service-account JSON file) or GOOGLE_CREDENTIALS (the JSON itself).
func NewHTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	const op = "NewHTTPClient"

	var creds []byte
	var err error
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return config.Client(ctx), nil
}
