package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"crm-assistant-api/internal/config"
	"crm-assistant-api/internal/models"
	"crm-assistant-api/internal/secrets"
)

// Client calls the Jira REST API with credentials resolved once at
// construction. The tracker is a best-effort integration: the exported
// methods never return an error, so an unreachable or misconfigured tracker
// can never fail the overall request. Callers that need the failure mode use
// the empty result (nil IssueUpdate, empty issue slice) instead.
type Client struct {
	baseURL    string
	authHeader string
	http       *http.Client
	now        func() time.Time
}

// search wire format, trimmed to the fields the API surfaces
type searchResponse struct {
	Issues []searchIssue `json:"issues"`
}

type searchIssue struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary  string     `json:"summary"`
	Status   namedField `json:"status"`
	Project  namedField `json:"project"`
	DueDate  string     `json:"duedate"`
	Assignee *assignee  `json:"assignee"`
}

type namedField struct {
	Name string `json:"name"`
}

type assignee struct {
	DisplayName string `json:"displayName"`
}

// NewClient resolves the tracker base URL, API key reference and username
// through the secret provider and builds the Basic auth header reused by all
// calls. Any secret that cannot be resolved is fatal: without credentials no
// tracker call can succeed.
func NewClient(ctx context.Context, provider secrets.Provider, cfg config.JiraConfig) (*Client, error) {
	baseURL, err := provider.GetSecret(ctx, cfg.URLSecretName)
	if err != nil {
		return nil, fmt.Errorf("resolving tracker URL: %w", err)
	}

	apiKeyARN, err := provider.GetSecret(ctx, cfg.APIKeyARNSecret)
	if err != nil {
		return nil, fmt.Errorf("resolving API key reference: %w", err)
	}

	username, err := provider.GetSecret(ctx, cfg.UsernameSecretName)
	if err != nil {
		return nil, fmt.Errorf("resolving tracker username: %w", err)
	}

	apiKey, err := provider.GetSecret(ctx, apiKeyARN)
	if err != nil {
		return nil, fmt.Errorf("resolving API key: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + apiKey))

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + credentials,
		http:       &http.Client{Timeout: cfg.HTTPTimeout},
		now:        time.Now,
	}, nil
}

// ListOpenIssues returns the open Task issues for the project ordered by due
// date. Any transport error, unexpected status or malformed response is
// logged and swallowed into an empty slice.
func (c *Client) ListOpenIssues(ctx context.Context, projectID string) []models.Issue {
	issues, err := c.searchOpenIssues(ctx, projectID)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": projectID,
			"error":      err.Error(),
		}).Info("Failed to get issues")
		return []models.Issue{}
	}
	return issues
}

// UpdateIssue moves the issue's due date to now plus the given number of
// calendar weeks. Returns the applied update on success and nil on any
// downstream failure, which is logged and swallowed.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, timelineInWeeks int) *models.IssueUpdate {
	if err := c.updateDueDate(ctx, issueKey, timelineInWeeks); err != nil {
		logrus.WithFields(logrus.Fields{
			"issue_key": issueKey,
			"error":     err.Error(),
		}).Info("Failed to update task")
		return nil
	}
	return &models.IssueUpdate{IssueKey: issueKey, NewTimeline: timelineInWeeks}
}

// searchOpenIssues issues the JQL search and flattens the response.
// The boolean grouping of the query is reproduced exactly as the upstream
// system sends it; the OR clause is not scoped to the project filter.
func (c *Client) searchOpenIssues(ctx context.Context, projectID string) ([]models.Issue, error) {
	jql := fmt.Sprintf("project=%s AND issuetype=Task AND status='In Progress' OR status='To Do' order by duedate", projectID)
	query := url.Values{"jql": []string{jql}}

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	issues := make([]models.Issue, 0, len(parsed.Issues))
	for _, item := range parsed.Issues {
		assigneeName := models.UnassignedName
		if item.Fields.Assignee != nil {
			assigneeName = item.Fields.Assignee.DisplayName
		}
		issues = append(issues, models.Issue{
			IssueKey: item.Key,
			Summary:  item.Fields.Summary,
			Status:   item.Fields.Status.Name,
			Project:  item.Fields.Project.Name,
			DueDate:  item.Fields.DueDate,
			Assignee: assigneeName,
		})
	}

	return issues, nil
}

// updateDueDate computes the new due date from the invocation's current time,
// not the issue's prior due date
func (c *Client) updateDueDate(ctx context.Context, issueKey string, timelineInWeeks int) error {
	dueDate := c.now().Add(time.Duration(timelineInWeeks) * 7 * 24 * time.Hour).Format("2006-01-02")

	payload, err := json.Marshal(map[string]interface{}{
		"fields": map[string]string{"duedate": dueDate},
	})
	if err != nil {
		return fmt.Errorf("encoding update payload: %w", err)
	}

	_, err = c.do(ctx, http.MethodPut, c.baseURL+"/issue/"+url.PathEscape(issueKey), payload)
	return err
}

// do performs one authenticated request and returns the response body.
// No retries: a failed tracker call is swallowed immediately by the caller.
func (c *Client) do(ctx context.Context, method, requestURL string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
