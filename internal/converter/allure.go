package converter

import (
	"encoding/base64"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/robotomize/xrayctl/internal/allure"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FromAllureXML converts the test cases that carry a testId label into updates
// of the referenced Xray tests. Test cases without one are left out.
func FromAllureXML(suites []allure.Suite, opts Options) ([]xray.Test, error) {
	tests := make([]xray.Test, 0)

	for _, suite := range suites {
		for _, tc := range suite.TestCases {
			testID, ok := allure.FindLabel(tc.Labels, allure.LabelTestID)
			if !ok || lastSegment(testID.Value) == "" {
				continue
			}

			start, err := formatEpoch(tc.Start)
			if err != nil {
				return nil, &xray.FormatError{Path: suite.File, Err: fmt.Errorf("test-case %s start: %w", tc.Name, err)}
			}

			finish, err := formatEpoch(tc.Stop)
			if err != nil {
				return nil, &xray.FormatError{Path: suite.File, Err: fmt.Errorf("test-case %s stop: %w", tc.Name, err)}
			}

			var defects []string
			if issue, ok := allure.FindLabel(tc.Labels, allure.LabelIssue); ok && lastSegment(issue.Value) != "" {
				defects = append(defects, lastSegment(issue.Value))
			}

			var (
				steps    []xray.StepResult
				evidence []xray.Evidence
			)
			for _, step := range tc.Steps {
				steps = append(
					steps, xray.StepResult{
						Status:  xray.Status(step.Status),
						Comment: step.Name,
					},
				)
				evidence = append(evidence, step.Attachments...)
			}

			summary := tc.Title
			if summary == "" {
				summary = tc.Name
			}

			tests = append(
				tests, xray.Test{
					TestKey:  lastSegment(testID.Value),
					Start:    start,
					Finish:   finish,
					Status:   xray.Status(tc.Status),
					TestInfo: newTestInfo(opts, summary, xray.TestTypeManual),
					Steps:    steps,
					Defects:  defects,
					Evidence: evidence,
				},
			)
		}
	}

	return tests, nil
}

// FromAllureJSON converts Allure 2 results. Attachments are read from fsys, the
// directory the results were read from.
func FromAllureJSON(fsys fs.FS, results []allure.Result, opts Options) ([]xray.Test, error) {
	tests := make([]xray.Test, 0, len(results))

	for _, r := range results {
		var evidence []xray.Evidence
		for _, a := range r.Attachments {
			data, err := fs.ReadFile(fsys, a.Source)
			if err != nil {
				return nil, fmt.Errorf("attachment %s of %s: %w", a.Source, r.UUID, err)
			}

			evidence = append(
				evidence, xray.Evidence{
					Data:        base64.StdEncoding.EncodeToString(data),
					Filename:    a.Name,
					ContentType: a.Type,
				},
			)
		}

		var (
			expected []xray.StepDefinition
			actual   []xray.StepResult
		)
		for _, step := range r.Steps {
			passed := step.Status == allure.StatusPassed

			expected = append(
				expected, xray.StepDefinition{
					Action: step.Name,
					Data:   "",
					Result: expectedStepResult,
				},
			)

			result := xray.StepResult{
				Status:       xray.StatusOf(passed),
				Comment:      step.Name,
				ActualResult: stepPassedResult,
			}
			if !passed {
				result.ActualResult = stepFailedResult
			}

			actual = append(actual, result)
		}

		var labels []string
		for _, l := range r.Labels {
			if l.Name == allure.LabelTag {
				labels = append(labels, l.Value)
			}
		}

		// Parameterized cases share name and fullName, the history id tells them apart.
		summary := r.FullName
		if r.Name == r.FullName {
			summary = r.HistoryID
		}

		info := newTestInfo(opts, summary, xray.TestTypeManual)
		info.Steps = expected
		info.Labels = labels

		tests = append(
			tests, xray.Test{
				Status:   xray.StatusOf(r.Status == allure.StatusPassed),
				TestInfo: info,
				Steps:    actual,
				Evidence: evidence,
			},
		)
	}

	return tests, nil
}

// formatEpoch renders epoch milliseconds as ISO-8601 in UTC with an explicit
// +00:00 offset. An empty value stays empty.
func formatEpoch(ms string) (string, error) {
	if ms == "" {
		return "", nil
	}

	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return "", fmt.Errorf("strconv.ParseInt: %w", err)
	}

	return formatTime(time.UnixMilli(n)), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "+00:00"
}
