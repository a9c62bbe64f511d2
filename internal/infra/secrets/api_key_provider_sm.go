// internal/infra/secrets/api_key_provider_sm.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

var (
	ErrNotConfigured = errors.New("api_key_provider: not configured")
	ErrEmptySecretID = errors.New("api_key_provider: secretID is empty")
	ErrNotFound      = errors.New("api_key_provider: secret not found")
)

// APIKeyProviderSM reads API keys (SendGrid, external insight services) from
// Secret Manager so they stay out of the deployment environment.
type APIKeyProviderSM struct {
	Client    *secretmanager.Client
	ProjectID string
}

func NewAPIKeyProviderSM(ctx context.Context, projectID string) (*APIKeyProviderSM, error) {
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		pid = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	if pid == "" {
		pid = strings.TrimSpace(os.Getenv("GCP_PROJECT"))
	}
	if pid == "" {
		return nil, fmt.Errorf("%w: projectID is empty", ErrNotConfigured)
	}

	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	return &APIKeyProviderSM{Client: c, ProjectID: pid}, nil
}

// Get returns the latest version of the named secret, trimmed.
func (p *APIKeyProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.Client == nil {
		return "", ErrNotConfigured
	}

	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", ErrEmptySecretID
	}

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.ProjectID, sid)

	res, err := p.Client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if res == nil || res.Payload == nil {
		return "", ErrNotFound
	}

	s := strings.TrimSpace(string(res.Payload.Data))
	if s == "" {
		return "", ErrNotFound
	}
	return s, nil
}

func (p *APIKeyProviderSM) Close() error {
	if p == nil || p.Client == nil {
		return nil
	}
	return p.Client.Close()
}
