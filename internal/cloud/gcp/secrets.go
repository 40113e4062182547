package gcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretRefScheme prefixes config values that name a Secret Manager secret
// instead of carrying the credential inline.
const SecretRefScheme = "secret://"

// SecretManagerClient wraps the GCP Secret Manager client.
type SecretManagerClient struct {
	client    *secretmanager.Client
	projectID string
}

// SecretFetcher defines the interface for fetching secrets.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
	Close() error
}

// NewSecretManagerClient creates a new Secret Manager client.
func NewSecretManagerClient(ctx context.Context, opts ...option.ClientOption) (*SecretManagerClient, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	projectID, err := getProjectID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get project ID: %w", err)
	}

	return &SecretManagerClient{
		client:    client,
		projectID: projectID,
	}, nil
}

// IsSecretRef reports whether a config value names a secret rather than
// carrying the credential itself.
func IsSecretRef(value string) bool {
	return strings.HasPrefix(value, SecretRefScheme)
}

// ResolveTokenRef turns a config value into a usable credential. Plain values
// pass through; secret:// references are fetched from Secret Manager.
func ResolveTokenRef(ctx context.Context, fetcher SecretFetcher, value string) (string, error) {
	if !IsSecretRef(value) {
		return value, nil
	}
	if fetcher == nil {
		return "", fmt.Errorf("config value %q references a secret but no secret fetcher is configured", value)
	}

	name := strings.TrimPrefix(value, SecretRefScheme)
	if name == "" {
		return "", fmt.Errorf("empty secret reference")
	}

	token, err := fetcher.FetchSecret(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret reference %q: %w", name, err)
	}
	return strings.TrimSpace(token), nil
}

// getProjectID retrieves the GCP project ID from environment variable or
// metadata server.
func getProjectID(ctx context.Context) (string, error) {
	if projectID := os.Getenv("GOOGLE_CLOUD_PROJECT"); projectID != "" {
		return projectID, nil
	}
	if projectID := os.Getenv("GCP_PROJECT"); projectID != "" {
		return projectID, nil
	}
	if projectID := os.Getenv("GCLOUD_PROJECT"); projectID != "" {
		return projectID, nil
	}

	// Fall back to metadata server (works on GCP VMs, Cloud Run, etc.)
	return getProjectIDFromMetadata(ctx)
}

// getProjectIDFromMetadata fetches the project ID from the GCP metadata server.
func getProjectIDFromMetadata(ctx context.Context) (string, error) {
	const metadataURL = "http://metadata.google.internal/computeMetadata/v1/project/project-id"

	req, err := http.NewRequestWithContext(ctx, "GET", metadataURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata request: %w", err)
	}

	// Required header for GCP metadata server
	req.Header.Set("Metadata-Flavor", "Google")

	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch project ID from metadata server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata response: %w", err)
	}

	projectID := strings.TrimSpace(string(body))
	if projectID == "" {
		return "", fmt.Errorf("empty project ID from metadata server")
	}

	return projectID, nil
}

// FetchSecret retrieves a secret from GCP Secret Manager.
// secretPath can be in one of the following formats:
//   - projects/PROJECT_ID/secrets/SECRET_NAME/versions/VERSION
//   - projects/PROJECT_ID/secrets/SECRET_NAME (defaults to latest)
//   - SECRET_NAME (requires projectID from environment)
func (c *SecretManagerClient) FetchSecret(ctx context.Context, secretPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	name := c.normalizeSecretPath(secretPath)

	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	}

	result, err := c.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return string(result.Payload.Data), nil
}

// normalizeSecretPath ensures the secret path is in the correct format.
// If the path is just a secret name, it constructs the full path with the
// "latest" version.
func (c *SecretManagerClient) normalizeSecretPath(secretPath string) string {
	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/versions/") {
		return secretPath
	}

	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/secrets/") {
		return secretPath + "/versions/latest"
	}

	secretName := path.Base(secretPath)
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, secretName)
}

// Close closes the Secret Manager client.
func (c *SecretManagerClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
