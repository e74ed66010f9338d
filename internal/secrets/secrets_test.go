package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// fakeSecretsManager captures the requested secret ID and serves a canned
// response
type fakeSecretsManager struct {
	value  *string
	err    error
	gotID  string
	called bool
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.called = true
	f.gotID = aws.ToString(params.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestGetSecret(t *testing.T) {
	client := &fakeSecretsManager{value: aws.String("https://jira.example.com")}
	provider := NewManagerProvider(client)

	value, err := provider.GetSecret(context.Background(), "JIRA_URL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if value != "https://jira.example.com" {
		t.Errorf("Expected secret value, got %q", value)
	}
	if client.gotID != "JIRA_URL" {
		t.Errorf("Expected lookup by JIRA_URL, got %q", client.gotID)
	}
}

func TestGetSecretFailures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeSecretsManager
	}{
		{
			name:   "lookup error",
			client: &fakeSecretsManager{err: errors.New("not authorized")},
		},
		{
			name:   "no string value",
			client: &fakeSecretsManager{value: nil},
		},
		{
			name:   "empty string value",
			client: &fakeSecretsManager{value: aws.String("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewManagerProvider(tt.client)
			if _, err := provider.GetSecret(context.Background(), "JIRA_URL"); err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.client.called {
				t.Error("Expected the client to be called")
			}
		})
	}
}
