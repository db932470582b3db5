package testcase

import (
	"encoding/json"
	"time"
)

// CaseVersion is an append-only snapshot of a test case's state before a
// mutation. Version equals the case's CurrentVersion at snapshot time, so the
// per-case sequence is strictly increasing and gap-free while this engine is
// the only writer.
type CaseVersion struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CaseID    uint      `json:"case_id" gorm:"not null;index:idx_case_versions_case_id"`
	Version   uint      `json:"version" gorm:"not null;index:idx_case_versions_version"`
	ProjectID uint      `json:"project_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"not null"`
	StateID   uint      `json:"state_id"`
	Automated bool      `json:"automated"`
	Estimate  *int      `json:"estimate,omitempty"`
	Tags      JSON      `json:"tags" gorm:"type:json"`
	Issues    JSON      `json:"issues" gorm:"type:json"`
	Steps     JSON      `json:"steps" gorm:"type:json"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (CaseVersion) TableName() string {
	return "case_versions"
}

type versionTag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type versionIssue struct {
	ID          uint   `json:"id"`
	ExternalKey string `json:"externalKey"`
	Title       string `json:"title"`
}

type versionStep struct {
	ID             uint            `json:"id"`
	Order          int             `json:"order"`
	Body           json.RawMessage `json:"step"`
	ExpectedResult json.RawMessage `json:"expectedResult"`
}

// snapshotBody copies a step body into the snapshot column. A body that is
// not valid JSON is preserved as a JSON string, so copying malformed content
// never rejects the case it belongs to.
func snapshotBody(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}

// snapshotOf builds a version row from the case's current, pre-mutation
// state. Relations are flattened into JSON columns so the snapshot survives
// later edits or deletes of the related rows.
func snapshotOf(tc *TestCase) (CaseVersion, error) {
	tags := make([]versionTag, len(tc.Tags))
	for i, tag := range tc.Tags {
		tags[i] = versionTag{ID: tag.ID, Name: tag.Name}
	}

	issues := make([]versionIssue, len(tc.Issues))
	for i, issue := range tc.Issues {
		issues[i] = versionIssue{ID: issue.ID, ExternalKey: issue.ExternalKey, Title: issue.Title}
	}

	steps := make([]versionStep, len(tc.Steps))
	for i, step := range tc.Steps {
		steps[i] = versionStep{
			ID:             step.ID,
			Order:          step.Order,
			Body:           snapshotBody(step.Body),
			ExpectedResult: snapshotBody(step.ExpectedResult),
		}
	}

	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return CaseVersion{}, err
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return CaseVersion{}, err
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return CaseVersion{}, err
	}

	return CaseVersion{
		CaseID:    tc.ID,
		Version:   tc.CurrentVersion,
		ProjectID: tc.ProjectID,
		Name:      tc.Name,
		StateID:   tc.StateID,
		Automated: tc.Automated,
		Estimate:  tc.Estimate,
		Tags:      JSON(tagsJSON),
		Issues:    JSON(issuesJSON),
		Steps:     JSON(stepsJSON),
	}, nil
}
