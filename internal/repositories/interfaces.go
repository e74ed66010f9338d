package repositories

import (
	"context"

	"crm-assistant-api/internal/models"
)

// CustomerRepository provides read access to the customer and interaction
// store. Implementations never swallow backend failures; every error is
// logged and returned to the caller.
type CustomerRepository interface {
	// GetRecentInteractions returns at most count interactions for the
	// customer, newest first, projected to date and notes only.
	GetRecentInteractions(ctx context.Context, customerID string, count int) ([]models.Interaction, error)

	// GetFields fetches only the named attributes of the customer record.
	// Returns a nil map when no record exists for customerID.
	GetFields(ctx context.Context, customerID string, fields ...string) (map[string]interface{}, error)

	// GetOverview returns the customer's overview value, or an empty map
	// when the customer has no record (a record missing the overview
	// attribute is not distinguished from a missing record).
	GetOverview(ctx context.Context, customerID string) (interface{}, error)

	// GetPreferences returns the customer's meeting preferences as stored,
	// including a nil map when no record exists.
	GetPreferences(ctx context.Context, customerID string) (map[string]interface{}, error)
}
