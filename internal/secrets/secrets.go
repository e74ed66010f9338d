package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"
)

// Provider resolves named secrets to their string values
type Provider interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// API is the subset of the Secrets Manager client the provider uses
type API interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ManagerProvider resolves secrets through AWS Secrets Manager
type ManagerProvider struct {
	client API
}

// NewManagerProvider creates a Secrets Manager backed provider
func NewManagerProvider(client API) *ManagerProvider {
	return &ManagerProvider{client: client}
}

// GetSecret looks up a secret by name or ARN and returns its string value
func (p *ManagerProvider) GetSecret(ctx context.Context, name string) (string, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"secret_name": name,
			"error":       err.Error(),
		}).Error("Error retrieving secret")
		return "", fmt.Errorf("retrieving secret %s: %w", name, err)
	}

	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("secret %s has no string value", name)
	}

	return *out.SecretString, nil
}
