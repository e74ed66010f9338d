package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"crm-assistant-api/internal/models"
	"crm-assistant-api/internal/repositories"
)

// partitionKey is the attribute identifying a customer in both tables
const partitionKey = "customer_id"

// errNoProjection guards against unprojected reads; every operation in this
// repository fetches a named subset of attributes
var errNoProjection = errors.New("at least one projected field is required")

// API is the subset of the DynamoDB client the repository uses
type API interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// CustomerRepository reads customer and interaction records from DynamoDB
type CustomerRepository struct {
	client           API
	customerTable    string
	interactionTable string
}

// NewCustomerRepository creates a DynamoDB-backed customer repository
func NewCustomerRepository(client API, customerTable, interactionTable string) *CustomerRepository {
	return &CustomerRepository{
		client:           client,
		customerTable:    customerTable,
		interactionTable: interactionTable,
	}
}

// GetRecentInteractions queries the interaction table for the customer's most
// recent interactions, newest first, projected to date and notes only
func (r *CustomerRepository) GetRecentInteractions(ctx context.Context, customerID string, count int) ([]models.Interaction, error) {
	keyCond := expression.Key(partitionKey).Equal(expression.Value(customerID))
	// "date" is a reserved word in DynamoDB; the expression builder
	// substitutes a placeholder name for it
	proj := expression.NamesList(expression.Name("date"), expression.Name("notes"))

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithProjection(proj).
		Build()
	if err != nil {
		return nil, repositories.NewRepositoryError("query", r.interactionTable, customerID, err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.interactionTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(count)),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"table":       r.interactionTable,
			"error":       err.Error(),
		}).Error("Error getting recent customer interactions")
		return nil, repositories.NewRepositoryError("query", r.interactionTable, customerID, err)
	}

	interactions := make([]models.Interaction, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &interactions); err != nil {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"table":       r.interactionTable,
			"error":       err.Error(),
		}).Error("Error unmarshalling customer interactions")
		return nil, repositories.NewRepositoryError("unmarshal", r.interactionTable, customerID, err)
	}

	return interactions, nil
}

// GetFields fetches only the named attributes of the customer record.
// Returns a nil map when no record exists for customerID.
func (r *CustomerRepository) GetFields(ctx context.Context, customerID string, fields ...string) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, repositories.NewRepositoryError("get", r.customerTable, customerID, errNoProjection)
	}

	names := make([]expression.NameBuilder, 0, len(fields))
	for _, f := range fields {
		names = append(names, expression.Name(f))
	}

	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(names[0], names[1:]...)).
		Build()
	if err != nil {
		return nil, repositories.NewRepositoryError("get", r.customerTable, customerID, err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.customerTable),
		Key: map[string]types.AttributeValue{
			partitionKey: &types.AttributeValueMemberS{Value: customerID},
		},
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"table":       r.customerTable,
			"error":       err.Error(),
		}).Error("Error getting customer details")
		return nil, repositories.NewRepositoryError("get", r.customerTable, customerID, err)
	}

	if out.Item == nil {
		return nil, nil
	}

	record := make(map[string]interface{}, len(out.Item))
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"table":       r.customerTable,
			"error":       err.Error(),
		}).Error("Error unmarshalling customer details")
		return nil, repositories.NewRepositoryError("unmarshal", r.customerTable, customerID, err)
	}

	return record, nil
}

// GetOverview returns the customer's overview value, or an empty map when no
// record exists. A record whose projection came back empty is treated the
// same as a missing record.
func (r *CustomerRepository) GetOverview(ctx context.Context, customerID string) (interface{}, error) {
	record, err := r.GetFields(ctx, customerID, "overview")
	if err != nil {
		return nil, err
	}
	if len(record) == 0 {
		return map[string]interface{}{}, nil
	}
	return record["overview"], nil
}

// GetPreferences returns the customer's meeting preferences exactly as the
// store yields them: a nil map when no record exists
func (r *CustomerRepository) GetPreferences(ctx context.Context, customerID string) (map[string]interface{}, error) {
	return r.GetFields(ctx, customerID, "meetingType", "timeofDay", "dayOfWeek")
}
