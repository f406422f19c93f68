package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// AuthMethod records how a Drive client authenticates.
type AuthMethod string

// Authentication methods, in order of preference.
const (
	AuthServiceAccount AuthMethod = "service_account"
	AuthAPIKey         AuthMethod = "api_key"
)

// ErrNoCredentials indicates neither a service account nor an API key was given.
var ErrNoCredentials = errors.New("google: no credentials configured")

// Credentials holds the supported ways to authenticate.
type Credentials struct {
	// ServiceAccountJSON is a path to a key file or the key JSON itself.
	ServiceAccountJSON string

	// APIKey grants read access to publicly shared files.
	APIKey string
}

// Methods returns every configured method in order of preference.
func (c Credentials) Methods() []AuthMethod {
	var methods []AuthMethod
	if strings.TrimSpace(c.ServiceAccountJSON) != "" {
		methods = append(methods, AuthServiceAccount)
	}
	if c.APIKey != "" {
		methods = append(methods, AuthAPIKey)
	}
	return methods
}

// NewDriveService creates a read-only Drive client authenticated with
// method. Extra options are appended, which lets tests point the client
// elsewhere.
func NewDriveService(ctx context.Context, creds Credentials, method AuthMethod, extra ...option.ClientOption) (*drive.Service, error) {
	var opts []option.ClientOption

	switch method {
	case AuthServiceAccount:
		data, err := serviceAccountKey(creds.ServiceAccountJSON)
		if err != nil {
			return nil, err
		}
		gcreds, err := google.CredentialsFromJSON(ctx, data, drive.DriveReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("parse service account key: %w", err)
		}
		opts = append(opts, option.WithCredentials(gcreds))
	case AuthAPIKey:
		if creds.APIKey == "" {
			return nil, ErrNoCredentials
		}
		opts = append(opts, option.WithAPIKey(creds.APIKey))
	default:
		return nil, ErrNoCredentials
	}

	svc, err := drive.NewService(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}

// serviceAccountKey accepts inline JSON or a path to a key file.
func serviceAccountKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "{") {
		return []byte(value), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	return data, nil
}
