package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"crm-assistant-api/internal/models"
	"crm-assistant-api/internal/repositories"
	"crm-assistant-api/pkg/lambda"
)

// API paths dispatched by the router. Matching is exact.
const (
	PathListRecentInteractions = "/listRecentInteractions"
	PathGetPreferences         = "/getPreferences"
	PathCompanyOverview        = "/companyOverview"
	PathGetOpenJiraIssues      = "/getOpenJiraIssues"
	PathUpdateJiraIssue        = "/updateJiraIssue"
)

// IssueTracker is the tracker surface the router dispatches to. Both
// operations apply the swallow-to-empty error policy internally and can
// never fail the request.
type IssueTracker interface {
	ListOpenIssues(ctx context.Context, projectID string) []models.Issue
	UpdateIssue(ctx context.Context, issueKey string, timelineInWeeks int) *models.IssueUpdate
}

// Router parses inbound requests, dispatches to exactly one downstream
// operation and wraps the result in the response envelope. Customer store
// failures propagate out of Handle; tracker failures are pre-swallowed by
// the client and surface as empty payloads with status 200.
type Router struct {
	customers repositories.CustomerRepository
	tracker   IssueTracker
	validate  *validator.Validate
}

// NewRouter creates a request router over the given backends
func NewRouter(customers repositories.CustomerRepository, tracker IssueTracker) *Router {
	return &Router{
		customers: customers,
		tracker:   tracker,
		validate:  validator.New(),
	}
}

// requestBody carries the optional JSON body fields
type requestBody struct {
	TimelineInWeeks *int `json:"timelineInWeeks"`
}

// listInteractionsParams are the parameters of the interaction listing branch
type listInteractionsParams struct {
	CustomerID string `validate:"required"`
	Count      int    `validate:"gt=0"`
}

// updateIssueParams are the parameters of the issue update branch
type updateIssueParams struct {
	IssueKey        string `validate:"required"`
	TimelineInWeeks *int   `validate:"required"`
}

// Handle dispatches one request. Matched paths always return status 200,
// unmatched paths return 404 with a descriptive message. The returned error
// is non-nil only for fatal failures (store errors, malformed input), which
// the caller surfaces as an unhandled invocation failure.
func (r *Router) Handle(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	customerID := req.QueryParams["customerId"]
	count := req.QueryParams["count"]
	projectID := req.QueryParams["projectId"]
	issueKey := req.QueryParams["issueKey"]

	var body requestBody
	if len(req.Body) > 0 {
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return nil, fmt.Errorf("decoding request body: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"path":        req.Path,
		"customer_id": customerID,
		"count":       count,
		"project_id":  projectID,
		"issue_key":   issueKey,
	}).Info("Request received")

	statusCode := http.StatusOK
	var result interface{}
	var err error

	switch req.Path {
	case PathListRecentInteractions:
		result, err = r.listRecentInteractions(ctx, customerID, count)
	case PathGetPreferences:
		result, err = r.customers.GetPreferences(ctx, customerID)
	case PathCompanyOverview:
		result, err = r.customers.GetOverview(ctx, customerID)
	case PathGetOpenJiraIssues:
		result = r.tracker.ListOpenIssues(ctx, projectID)
	case PathUpdateJiraIssue:
		result, err = r.updateJiraIssue(ctx, issueKey, body.TimelineInWeeks)
	default:
		statusCode = http.StatusNotFound
		result = fmt.Sprintf("Unrecognized api path: %s", req.Path)
	}
	if err != nil {
		return nil, err
	}

	return r.respond(statusCode, result)
}

// listRecentInteractions parses and validates the count parameter on the one
// branch that needs it, then queries the interaction store
func (r *Router) listRecentInteractions(ctx context.Context, customerID, count string) (interface{}, error) {
	parsedCount, err := strconv.Atoi(count)
	if err != nil {
		return nil, fmt.Errorf("parsing count %q: %w", count, err)
	}

	params := listInteractionsParams{CustomerID: customerID, Count: parsedCount}
	if err := r.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validating interaction listing params: %w", err)
	}

	return r.customers.GetRecentInteractions(ctx, customerID, parsedCount)
}

// updateJiraIssue validates the update parameters and applies the due-date
// change. A swallowed tracker failure surfaces as an empty object.
func (r *Router) updateJiraIssue(ctx context.Context, issueKey string, timelineInWeeks *int) (interface{}, error) {
	params := updateIssueParams{IssueKey: issueKey, TimelineInWeeks: timelineInWeeks}
	if err := r.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("validating issue update params: %w", err)
	}

	update := r.tracker.UpdateIssue(ctx, issueKey, *timelineInWeeks)
	if update == nil {
		return map[string]interface{}{}, nil
	}
	return update, nil
}

// respond wraps an operation result in the response envelope and logs it
func (r *Router) respond(statusCode int, result interface{}) (*lambda.Response, error) {
	body, err := json.Marshal(map[string]interface{}{"message": result})
	if err != nil {
		return nil, fmt.Errorf("encoding response envelope: %w", err)
	}

	resp := &lambda.Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}

	logrus.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"body":        string(resp.Body),
	}).Info("Request completed")

	return resp, nil
}
