// Package gotest folds a `go test -json` event stream into a tree of tests and subtests.
package gotest

import (
	"strings"
	"time"
)

const (
	ActionOutput = "output"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionRun    = "run"
	ActionStart  = "start"
	ActionCont   = "cont"
	ActionPause  = "pause"
	ActionSkip   = "skip"
)

// Entry is one line of `go test -json` output.
type Entry struct {
	Time     time.Time
	TestName string `json:"Test"`
	Action   string
	Package  string
	Elapsed  float64
	Output   string
}

// Test is a test or subtest. Package level events fold into a Test with an
// empty Name.
type Test struct {
	Name    string
	Package string
	Start   time.Time
	Stop    time.Time
	Status  string
	Elapsed time.Duration
	Output  []string
}

func (t *Test) FullName() string {
	return t.Package + "/" + t.Name
}

// ShortName is the last segment of a subtest name.
func (t *Test) ShortName() string {
	if idx := strings.LastIndex(t.Name, "/"); idx >= 0 {
		return t.Name[idx+1:]
	}

	return t.Name
}

func (t *Test) Update(row Entry) {
	switch row.Action {
	case ActionRun, ActionStart:
		t.Start = row.Time
	case ActionOutput:
		t.Output = append(t.Output, row.Output)
	case ActionPass, ActionFail, ActionSkip:
		t.Stop = row.Time
		t.Status = row.Action
		if row.Elapsed > 0 {
			t.Elapsed = time.Duration(row.Elapsed * float64(time.Second))
		} else {
			t.Elapsed = t.Stop.Sub(t.Start)
		}
	}
}
