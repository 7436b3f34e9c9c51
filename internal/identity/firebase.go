package identity

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mhmasum1/digital-life-lessons-server/internal/common"
	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// tokenVerifier is the part of *auth.Client the verifier uses.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens with the Admin SDK.
type FirebaseVerifier struct {
	client tokenVerifier
	logger *zap.Logger
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from the service account key file.
func NewFirebaseVerifier(cfg *config.Config, logger *zap.Logger) (*FirebaseVerifier, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return newFirebaseVerifier(authClient, logger), nil
}

func newFirebaseVerifier(client tokenVerifier, logger *zap.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, logger: logger.Named("firebase")}
}

// Verify checks a Firebase ID token. Tokens without an email claim are rejected.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Principal, error) {
	if idToken == "" {
		return nil, ErrInvalidToken
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		v.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := token.Claims["email"].(string)
	email = common.NormalizeEmail(email)
	if email == "" {
		v.logger.Warn("Firebase ID token has no email claim", zap.String("uid", token.UID))
		return nil, ErrInvalidToken
	}

	v.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return &Principal{Email: email, Subject: token.UID}, nil
}
