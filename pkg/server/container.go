package server

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"crm-assistant-api/internal/config"
	"crm-assistant-api/internal/handlers"
	"crm-assistant-api/internal/jira"
	"crm-assistant-api/internal/repositories"
	"crm-assistant-api/internal/repositories/dynamo"
	"crm-assistant-api/internal/secrets"
)

// Container holds all application dependencies. Everything is constructed
// once and injected; there are no ambient singletons.
type Container struct {
	Config    *config.Config
	Router    *handlers.Router
	Customers repositories.CustomerRepository
	Secrets   secrets.Provider
	Tracker   *jira.Client
}

// NewContainer creates a new dependency injection container. A secret that
// cannot be resolved fails construction: without tracker credentials no
// tracker call can succeed, so the failure is surfaced at startup rather
// than swallowed per-request.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	customerRepo := dynamo.NewCustomerRepository(
		dynamodb.NewFromConfig(awsCfg),
		cfg.Tables.CustomerTable,
		cfg.Tables.InteractionTable,
	)

	secretProvider := secrets.NewManagerProvider(secretsmanager.NewFromConfig(awsCfg))

	tracker, err := jira.NewClient(ctx, secretProvider, cfg.Jira)
	if err != nil {
		return nil, fmt.Errorf("building tracker client: %w", err)
	}

	return &Container{
		Config:    cfg,
		Router:    handlers.NewRouter(customerRepo, tracker),
		Customers: customerRepo,
		Secrets:   secretProvider,
		Tracker:   tracker,
	}, nil
}

// Close cleans up all resources. The container holds no connections that
// need closing today; the method is kept so entrypoints can defer it.
func (c *Container) Close() error {
	return nil
}
