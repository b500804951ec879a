package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// FirebaseCredentials selects how the service account is supplied.
// Base64 wins over File; both empty means application default credentials.
type FirebaseCredentials struct {
	Base64    string
	File      string
	ProjectID string
}

// ErrFirebaseNotConfigured is returned when neither credentials nor a project id are set
var ErrFirebaseNotConfigured = errors.New("firebase credentials not configured")

// NewFirebaseApp initializes the single Firebase app shared by Firestore and FCM
func NewFirebaseApp(ctx context.Context, creds FirebaseCredentials) (*firebase.App, error) {
	var opts []option.ClientOption

	switch {
	case creds.Base64 != "":
		// Useful for cloud deployments where uploading a file is awkward
		credentialsJSON, err := base64.StdEncoding.DecodeString(creds.Base64)
		if err != nil {
			return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	case creds.File != "":
		opts = append(opts, option.WithCredentialsFile(creds.File))
	case creds.ProjectID == "":
		return nil, ErrFirebaseNotConfigured
	}

	var cfg *firebase.Config
	if creds.ProjectID != "" {
		cfg = &firebase.Config{ProjectID: creds.ProjectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	return app, nil
}
