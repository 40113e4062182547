package gcp

import (
	"context"
	"errors"
	"testing"
)

type fakeFetcher struct {
	secrets map[string]string
	err     error
}

func (f *fakeFetcher) FetchSecret(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.secrets[path]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func (f *fakeFetcher) Close() error { return nil }

func TestResolveTokenRef(t *testing.T) {
	fetcher := &fakeFetcher{secrets: map[string]string{
		"todoist-token": "tok_abc123\n",
	}}

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"plain value passes through", "tok_inline", "tok_inline", false},
		{"secret ref resolves and trims", "secret://todoist-token", "tok_abc123", false},
		{"unknown secret errors", "secret://missing", "", true},
		{"empty ref errors", "secret://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTokenRef(context.Background(), fetcher, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveTokenRef() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTokenRefWithoutFetcher(t *testing.T) {
	// Plain values never need a fetcher.
	got, err := ResolveTokenRef(context.Background(), nil, "tok_inline")
	if err != nil || got != "tok_inline" {
		t.Errorf("plain value: got %q, err %v", got, err)
	}

	// References do.
	if _, err := ResolveTokenRef(context.Background(), nil, "secret://x"); err == nil {
		t.Error("expected error resolving a reference with no fetcher")
	}
}

func TestIsSecretRef(t *testing.T) {
	if !IsSecretRef("secret://name") {
		t.Error("IsSecretRef(secret://name) = false")
	}
	if IsSecretRef("tok_plain") {
		t.Error("IsSecretRef(tok_plain) = true")
	}
}

func TestNormalizeSecretPath(t *testing.T) {
	c := &SecretManagerClient{projectID: "proj-1"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"full path with version",
			"projects/proj-1/secrets/tok/versions/3",
			"projects/proj-1/secrets/tok/versions/3",
		},
		{
			"full path without version",
			"projects/proj-1/secrets/tok",
			"projects/proj-1/secrets/tok/versions/latest",
		},
		{
			"bare name",
			"tok",
			"projects/proj-1/secrets/tok/versions/latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.normalizeSecretPath(tt.input); got != tt.want {
				t.Errorf("normalizeSecretPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
