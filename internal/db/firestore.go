package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mbilawisdom/Beer-Me-Up/internal/config"
)

// Clients bundles the Firebase Admin SDK handles the rest of the application
// needs: Firestore for the per-user check-in documents and Auth for verifying
// ID tokens coming from the mobile client.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// InitFirebase initializes the Firebase Admin SDK and returns the Firestore
// and Auth clients. Credentials are resolved in order: an explicit service
// account file path, a base64-encoded service account JSON blob, and finally
// Application Default Credentials (the usual setup on GCP runtimes).
func InitFirebase(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Clients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		logger.Info("Initializing Firebase with credentials file",
			zap.String("path", appConfig.GoogleApplicationCredentials))
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			// The SDK may still succeed through ADC set up independently,
			// so this is a warning rather than a hard failure.
			logger.Warn("Credentials file does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)

	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		logger.Info("Initializing Firebase with base64-encoded service account JSON")
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)

	default:
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	var firebaseAppConfig *firebase.Config
	if appConfig.FirebaseProjectID != "" {
		firebaseAppConfig = &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close() // Best effort; init is considered failed.
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized",
		zap.String("projectID", appConfig.FirebaseProjectID))
	return &Clients{Firestore: fsClient, Auth: authClient}, nil
}

// Close releases the underlying Firestore connection. The Auth client holds
// no connection that needs closing.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
