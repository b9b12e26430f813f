package converter

import (
	"github.com/robotomize/xrayctl/internal/cucumber"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FromSpecflow converts each scenario result into a step-less Cucumber test.
func FromSpecflow(report cucumber.SpecflowReport, opts Options) []xray.Test {
	tests := make([]xray.Test, 0, len(report.ExecutionResults))

	for _, result := range report.ExecutionResults {
		tests = append(
			tests, xray.Test{
				Status:   xray.StatusOf(result.Status == cucumber.SpecflowStatusOK),
				TestInfo: newTestInfo(opts, result.ScenarioTitle, xray.TestTypeCucumber),
			},
		)
	}

	return tests
}
