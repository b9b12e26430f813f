package converter

import (
	"encoding/base64"
	"strings"

	"github.com/robotomize/xrayctl/internal/gotest"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FromGoTest converts top level go tests into tests with their subtests as
// steps. Skipped tests and subtests are left out. A package that failed with
// none of its tests failing, a TestMain or init panic or a setup failure,
// becomes a failed test of its own.
func FromGoTest(set gotest.Set, opts Options) []xray.Test {
	tests := make([]xray.Test, 0, len(set.Tests))
	failedPkgs := make(map[string]bool)

	for _, nested := range set.Tests {
		goTest := nested.Value
		if goTest.Status == gotest.ActionSkip {
			continue
		}

		var (
			expected []xray.StepDefinition
			actual   []xray.StepResult
		)

		// A test without a terminal action did not finish, typically a panic.
		passed := goTest.Status == gotest.ActionPass
		walkSubtests(
			nested, func(sub gotest.NestedTest) {
				action := strings.TrimPrefix(sub.Value.Name, goTest.Name+"/")
				subPassed := sub.Value.Status == gotest.ActionPass
				passed = passed && subPassed

				expected = append(
					expected, xray.StepDefinition{
						Action: action,
						Data:   "",
						Result: expectedStepResult,
					},
				)

				result := xray.StepResult{
					Status:       xray.StatusOf(subPassed),
					Comment:      action,
					ActualResult: stepPassedResult,
				}
				if !subPassed {
					result.ActualResult = stepFailedResult
					if log := strings.TrimSpace(string(sub.Log)); log != "" {
						result.ActualResult = log
					}
				}

				actual = append(actual, result)
			},
		)

		info := newTestInfo(opts, goTest.FullName(), xray.TestTypeManual)
		info.Steps = expected
		info.Labels = []string{goTest.Package}

		test := xray.Test{
			Status:   xray.StatusOf(passed),
			TestInfo: info,
			Steps:    actual,
		}

		if !goTest.Start.IsZero() {
			test.Start = formatTime(goTest.Start)
		}

		if !goTest.Stop.IsZero() {
			test.Finish = formatTime(goTest.Stop)
		}

		if !passed {
			failedPkgs[goTest.Package] = true
			test.Evidence = logEvidence(goTest.Name, collectLog(nested))
		}

		tests = append(tests, test)
	}

	for _, pkg := range set.Packages {
		if pkg.Status != gotest.ActionFail || failedPkgs[pkg.Package] {
			continue
		}

		info := newTestInfo(opts, pkg.Package, xray.TestTypeManual)
		info.Labels = []string{pkg.Package}

		test := xray.Test{
			Status:   xray.StatusFailed,
			TestInfo: info,
			Evidence: logEvidence(pkg.Package, []byte(strings.Join(pkg.Output, ""))),
		}

		if !pkg.Start.IsZero() {
			test.Start = formatTime(pkg.Start)
		}

		if !pkg.Stop.IsZero() {
			test.Finish = formatTime(pkg.Stop)
		}

		tests = append(tests, test)
	}

	return tests
}

func logEvidence(name string, log []byte) []xray.Evidence {
	if len(log) == 0 {
		return nil
	}

	return []xray.Evidence{
		{
			Data:        base64.StdEncoding.EncodeToString(log),
			Filename:    strings.ReplaceAll(name, "/", "_") + ".log",
			ContentType: "text/plain",
		},
	}
}

// walkSubtests calls fn for every subtest below n in pre-order, skipping
// skipped subtests together with their children.
func walkSubtests(n gotest.NestedTest, fn func(gotest.NestedTest)) {
	for _, child := range n.Children {
		if child.Value.Status == gotest.ActionSkip {
			continue
		}

		fn(child)
		walkSubtests(child, fn)
	}
}

func collectLog(n gotest.NestedTest) []byte {
	log := append([]byte(nil), n.Log...)
	for _, child := range n.Children {
		log = append(log, collectLog(child)...)
	}

	return log
}
