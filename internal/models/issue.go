package models

// UnassignedName is the assignee value reported when a Jira issue has no
// assignee set.
const UnassignedName = "None"

// Issue is a Jira issue flattened into the shape the API returns
type Issue struct {
	IssueKey string `json:"issueKey"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Project  string `json:"project"`
	DueDate  string `json:"duedate"`
	Assignee string `json:"assignee"`
}

// IssueUpdate is the result of a successful due-date update
type IssueUpdate struct {
	IssueKey    string `json:"issueKey"`
	NewTimeline int    `json:"newTimeline"`
}
