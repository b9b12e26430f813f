// Package allure reads Allure results: the JSON result files of Allure 2 and
// the XML test-suite files of Allure 1.
package allure

import "github.com/robotomize/xrayctl/internal/slice"

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusBroken  = "broken"
)

// Label names with a meaning downstream.
const (
	LabelTag    = "tag"
	LabelTestID = "testId"
	LabelIssue  = "issue"
)

// Result is one Allure 2 "*-result.json" file.
type Result struct {
	UUID          string        `json:"uuid"`
	TestCaseID    string        `json:"testCaseId"`
	HistoryID     string        `json:"historyId"`
	Name          string        `json:"name"`
	FullName      string        `json:"fullName"`
	Description   string        `json:"description"`
	Status        string        `json:"status"`
	StatusDetails StatusDetails `json:"statusDetails"`
	Stage         string        `json:"stage"`
	Steps         []Step        `json:"steps"`
	Start         int64         `json:"start"`
	Stop          int64         `json:"stop"`
	Parameters    []Parameter   `json:"parameters"`
	Labels        []Label       `json:"labels"`
	Links         []Link        `json:"links"`
	Attachments   []Attachment  `json:"attachments"`
}

type StatusDetails struct {
	Known   bool   `json:"known"`
	Muted   bool   `json:"muted"`
	Flaky   bool   `json:"flaky"`
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

type Step struct {
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	StatusDetails StatusDetails `json:"statusDetails"`
	Stage         string        `json:"stage"`
	Steps         []Step        `json:"steps"`
	Attachments   []Attachment  `json:"attachments"`
	Parameters    []Parameter   `json:"parameters"`
	Start         int64         `json:"start"`
	Stop          int64         `json:"stop"`
}

type Parameter struct {
	Name  string `json:"name" xml:"name,attr"`
	Value string `json:"value" xml:"value,attr"`
	Kind  string `json:"-" xml:"kind,attr"`
}

type Label struct {
	Name  string `json:"name" xml:"name,attr"`
	Value string `json:"value" xml:"value,attr"`
}

type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Attachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// FindLabel returns the first label with the given name.
func FindLabel(labels []Label, name string) (Label, bool) {
	return slice.Find(
		labels, func(l Label) bool {
			return l.Name == name
		},
	)
}
