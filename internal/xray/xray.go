// Package xray holds the canonical test-execution model uploaded to Xray.
// Every report format is normalized into these types; their JSON encoding is
// the Xray JSON import format.
package xray

type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
)

// Test types Xray creates missing tests with.
const (
	TestTypeManual   = "Manual"
	TestTypeCucumber = "Cucumber"
)

const (
	DefaultSummary     = "Execution automatically imported"
	DefaultDescription = "This execution is automatically created when importing execution results from an external source"
)

// Execution is one import payload. Info is sent only when a new execution is created.
type Execution struct {
	TestExecutionKey string `json:"testExecutionKey,omitempty"`
	Info             *Info  `json:"info,omitempty"`
	Tests            []Test `json:"tests"`
}

type Info struct {
	Project          string   `json:"project"`
	Summary          string   `json:"summary"`
	Description      string   `json:"description"`
	TestPlanKey      string   `json:"testPlanKey,omitempty"`
	TestEnvironments []string `json:"testEnvironments,omitempty"`
	Version          string   `json:"version,omitempty"`
}

// Test is a canonical test case. A non-empty TestKey reports against an
// existing Xray test, otherwise Xray creates one from TestInfo.
type Test struct {
	TestKey  string       `json:"testKey,omitempty"`
	Start    string       `json:"start,omitempty"`
	Finish   string       `json:"finish,omitempty"`
	Comment  string       `json:"comment,omitempty"`
	Status   Status       `json:"status"`
	TestInfo *TestInfo    `json:"testInfo,omitempty"`
	Steps    []StepResult `json:"steps,omitempty"`
	Defects  []string     `json:"defects,omitempty"`
	Evidence []Evidence   `json:"evidence,omitempty"`
}

type TestInfo struct {
	ProjectKey string           `json:"projectKey"`
	Summary    string           `json:"summary"`
	Type       string           `json:"type"`
	Steps      []StepDefinition `json:"steps,omitempty"`
	Labels     []string         `json:"labels,omitempty"`
}

// StepDefinition is an expected step of the test script.
type StepDefinition struct {
	Action string `json:"action"`
	Data   string `json:"data"`
	Result string `json:"result"`
}

// StepResult is an observed step of the execution.
type StepResult struct {
	Status       Status     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	ActualResult string     `json:"actualResult,omitempty"`
	Evidences    []Evidence `json:"evidences,omitempty"`
}

// Evidence is an inline attachment, Data is base64 encoded.
type Evidence struct {
	Data        string `json:"data"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// ImportResponse is returned by Xray for an accepted execution import.
type ImportResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// StatusOf maps a pass flag to a Status.
func StatusOf(passed bool) Status {
	if passed {
		return StatusPassed
	}

	return StatusFailed
}
