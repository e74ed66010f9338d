package handlers

import (
	"context"
	"errors"
	"testing"

	"crm-assistant-api/internal/models"
	"crm-assistant-api/internal/repositories"
	"crm-assistant-api/pkg/lambda"
)

// fakeCustomerRepo serves canned store responses
type fakeCustomerRepo struct {
	interactions []models.Interaction
	fields       map[string]interface{}
	overview     interface{}
	err          error

	gotCustomerID string
	gotCount      int
}

func (f *fakeCustomerRepo) GetRecentInteractions(_ context.Context, customerID string, count int) ([]models.Interaction, error) {
	f.gotCustomerID = customerID
	f.gotCount = count
	return f.interactions, f.err
}

func (f *fakeCustomerRepo) GetFields(_ context.Context, customerID string, fields ...string) (map[string]interface{}, error) {
	return f.fields, f.err
}

func (f *fakeCustomerRepo) GetOverview(_ context.Context, customerID string) (interface{}, error) {
	f.gotCustomerID = customerID
	return f.overview, f.err
}

func (f *fakeCustomerRepo) GetPreferences(_ context.Context, customerID string) (map[string]interface{}, error) {
	f.gotCustomerID = customerID
	return f.fields, f.err
}

// fakeTracker serves canned tracker responses; like the real client it
// cannot fail
type fakeTracker struct {
	issues []models.Issue
	update *models.IssueUpdate

	gotProjectID string
	gotIssueKey  string
	gotTimeline  int
}

func (f *fakeTracker) ListOpenIssues(_ context.Context, projectID string) []models.Issue {
	f.gotProjectID = projectID
	if f.issues == nil {
		return []models.Issue{}
	}
	return f.issues
}

func (f *fakeTracker) UpdateIssue(_ context.Context, issueKey string, timelineInWeeks int) *models.IssueUpdate {
	f.gotIssueKey = issueKey
	f.gotTimeline = timelineInWeeks
	return f.update
}

func newTestRouter(repo *fakeCustomerRepo, tracker *fakeTracker) *Router {
	if repo == nil {
		repo = &fakeCustomerRepo{}
	}
	if tracker == nil {
		tracker = &fakeTracker{}
	}
	return NewRouter(repo, tracker)
}

func request(path string, query map[string]string, body string) *lambda.Request {
	return &lambda.Request{
		Method:      "GET",
		Path:        path,
		QueryParams: query,
		Body:        []byte(body),
	}
}

func TestHandleListRecentInteractions(t *testing.T) {
	repo := &fakeCustomerRepo{
		interactions: []models.Interaction{
			{Date: "2026-08-20", Notes: "Quarterly review call"},
			{Date: "2026-08-12", Notes: "Asked about pricing tiers"},
		},
	}
	router := newTestRouter(repo, nil)

	resp, err := router.Handle(context.Background(), request(PathListRecentInteractions, map[string]string{
		"customerId": "C1",
		"count":      "2",
	}, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if repo.gotCustomerID != "C1" || repo.gotCount != 2 {
		t.Errorf("Expected repo called with C1/2, got %s/%d", repo.gotCustomerID, repo.gotCount)
	}

	want := `{"message":[{"date":"2026-08-20","notes":"Quarterly review call"},{"date":"2026-08-12","notes":"Asked about pricing tiers"}]}`
	if string(resp.Body) != want {
		t.Errorf("Expected body %s, got %s", want, resp.Body)
	}
}

func TestHandleListRecentInteractionsInvalidCount(t *testing.T) {
	tests := []struct {
		name  string
		count string
	}{
		{name: "missing", count: ""},
		{name: "not a number", count: "many"},
		{name: "zero", count: "0"},
		{name: "negative", count: "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(nil, nil)
			_, err := router.Handle(context.Background(), request(PathListRecentInteractions, map[string]string{
				"customerId": "C1",
				"count":      tt.count,
			}, ""))
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestHandleStoreFailurePropagates(t *testing.T) {
	repo := &fakeCustomerRepo{
		err: repositories.NewRepositoryError("query", "INTERACTION_TABLE", "C1", errors.New("throttled")),
	}
	router := newTestRouter(repo, nil)

	paths := []string{PathListRecentInteractions, PathGetPreferences, PathCompanyOverview}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			_, err := router.Handle(context.Background(), request(path, map[string]string{
				"customerId": "C1",
				"count":      "5",
			}, ""))
			if err == nil {
				t.Fatal("Expected store error to propagate")
			}
			if !repositories.IsBackend(err) {
				t.Errorf("Expected backend error, got %v", err)
			}
		})
	}
}

func TestHandleGetPreferences(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{
			name: "existing record",
			fields: map[string]interface{}{
				"meetingType": "virtual",
			},
			want: `{"message":{"meetingType":"virtual"}}`,
		},
		{
			// a missing record stays null, unlike the overview branch
			name:   "no record",
			fields: nil,
			want:   `{"message":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeCustomerRepo{fields: tt.fields}, nil)
			resp, err := router.Handle(context.Background(), request(PathGetPreferences, map[string]string{
				"customerId": "C1",
			}, ""))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if resp.StatusCode != 200 {
				t.Errorf("Expected status 200, got %d", resp.StatusCode)
			}
			if string(resp.Body) != tt.want {
				t.Errorf("Expected body %s, got %s", tt.want, resp.Body)
			}
		})
	}
}

func TestHandleCompanyOverview(t *testing.T) {
	tests := []struct {
		name     string
		overview interface{}
		want     string
	}{
		{
			name:     "existing record",
			overview: "Acme ships anvils worldwide.",
			want:     `{"message":"Acme ships anvils worldwide."}`,
		},
		{
			name:     "no record",
			overview: map[string]interface{}{},
			want:     `{"message":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeCustomerRepo{overview: tt.overview}, nil)
			resp, err := router.Handle(context.Background(), request(PathCompanyOverview, map[string]string{
				"customerId": "C1",
			}, ""))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(resp.Body) != tt.want {
				t.Errorf("Expected body %s, got %s", tt.want, resp.Body)
			}
		})
	}
}

func TestHandleGetOpenJiraIssues(t *testing.T) {
	tracker := &fakeTracker{
		issues: []models.Issue{
			{
				IssueKey: "CRM-1",
				Summary:  "Prepare renewal proposal",
				Status:   "To Do",
				Project:  "CRM Assistant",
				DueDate:  "2026-09-04",
				Assignee: "None",
			},
		},
	}
	router := newTestRouter(nil, tracker)

	resp, err := router.Handle(context.Background(), request(PathGetOpenJiraIssues, map[string]string{
		"projectId": "CRM",
	}, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tracker.gotProjectID != "CRM" {
		t.Errorf("Expected tracker called with CRM, got %q", tracker.gotProjectID)
	}

	want := `{"message":[{"issueKey":"CRM-1","summary":"Prepare renewal proposal","status":"To Do","project":"CRM Assistant","duedate":"2026-09-04","assignee":"None"}]}`
	if string(resp.Body) != want {
		t.Errorf("Expected body %s, got %s", want, resp.Body)
	}
}

func TestHandleGetOpenJiraIssuesTrackerDown(t *testing.T) {
	// a swallowed tracker failure still yields status 200 and an empty list
	router := newTestRouter(nil, &fakeTracker{})

	resp, err := router.Handle(context.Background(), request(PathGetOpenJiraIssues, map[string]string{
		"projectId": "P1",
	}, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":[]}` {
		t.Errorf("Expected empty list envelope, got %s", resp.Body)
	}
}

func TestHandleUpdateJiraIssue(t *testing.T) {
	tracker := &fakeTracker{
		update: &models.IssueUpdate{IssueKey: "CRM-7", NewTimeline: 3},
	}
	router := newTestRouter(nil, tracker)

	resp, err := router.Handle(context.Background(), request(PathUpdateJiraIssue, map[string]string{
		"issueKey": "CRM-7",
	}, `{"timelineInWeeks": 3}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tracker.gotIssueKey != "CRM-7" || tracker.gotTimeline != 3 {
		t.Errorf("Expected tracker called with CRM-7/3, got %s/%d", tracker.gotIssueKey, tracker.gotTimeline)
	}

	want := `{"message":{"issueKey":"CRM-7","newTimeline":3}}`
	if string(resp.Body) != want {
		t.Errorf("Expected body %s, got %s", want, resp.Body)
	}
}

func TestHandleUpdateJiraIssueTrackerFailure(t *testing.T) {
	router := newTestRouter(nil, &fakeTracker{update: nil})

	resp, err := router.Handle(context.Background(), request(PathUpdateJiraIssue, map[string]string{
		"issueKey": "CRM-7",
	}, `{"timelineInWeeks": 3}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":{}}` {
		t.Errorf("Expected empty object envelope, got %s", resp.Body)
	}
}

func TestHandleUpdateJiraIssueBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query map[string]string
		body  string
	}{
		{
			name:  "missing timelineInWeeks",
			query: map[string]string{"issueKey": "CRM-7"},
			body:  `{}`,
		},
		{
			name:  "empty body",
			query: map[string]string{"issueKey": "CRM-7"},
			body:  "",
		},
		{
			name:  "malformed body",
			query: map[string]string{"issueKey": "CRM-7"},
			body:  `{"timelineInWeeks":`,
		},
		{
			name:  "missing issueKey",
			query: map[string]string{},
			body:  `{"timelineInWeeks": 3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(nil, nil)
			_, err := router.Handle(context.Background(), request(PathUpdateJiraIssue, tt.query, tt.body))
			if err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestHandleUnrecognizedPath(t *testing.T) {
	router := newTestRouter(nil, nil)

	resp, err := router.Handle(context.Background(), request("/unknown", nil, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"message":"Unrecognized api path: /unknown"}` {
		t.Errorf("Unexpected body %s", resp.Body)
	}
}

func TestHandleContentType(t *testing.T) {
	router := newTestRouter(nil, nil)

	resp, err := router.Handle(context.Background(), request("/unknown", nil, ""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected application/json, got %q", resp.Headers["Content-Type"])
	}
}
