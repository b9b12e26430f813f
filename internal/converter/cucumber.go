package converter

import (
	"strconv"
	"strings"

	"github.com/robotomize/xrayctl/internal/cucumber"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FromCucumber converts every element of every feature into a test. A test
// fails when any of its steps did not pass.
func FromCucumber(features []cucumber.Feature, opts Options) []xray.Test {
	tests := make([]xray.Test, 0)

	for _, feature := range features {
		for _, element := range feature.Elements {
			tests = append(tests, cucumberTest(element, opts))
		}
	}

	return tests
}

func cucumberTest(element cucumber.Element, opts Options) xray.Test {
	expected := make([]xray.StepDefinition, 0, len(element.Steps))
	actual := make([]xray.StepResult, 0, len(element.Steps))
	passed := true

	for _, step := range element.Steps {
		action := step.Keyword + step.Name

		expected = append(
			expected, xray.StepDefinition{
				Action: action,
				Data:   "",
				Result: expectedStepResult,
			},
		)

		stepPassed := step.Result.Status == cucumber.StatusPassed
		passed = passed && stepPassed

		result := xray.StepResult{
			Status:       xray.StatusOf(stepPassed),
			Comment:      action,
			ActualResult: stepPassedResult,
		}

		if step.Result.ErrorMessage != "" {
			result.ActualResult = step.Result.ErrorMessage
		}

		for _, embedding := range step.Embeddings {
			result.Evidences = append(
				result.Evidences, xray.Evidence{
					Data:        embedding.Data,
					Filename:    embeddingFilename(step.Name, embedding.MimeType),
					ContentType: embedding.MimeType,
				},
			)
		}

		actual = append(actual, result)
	}

	var labels []string
	for _, tag := range element.Tags {
		labels = append(labels, strings.ReplaceAll(tag.Name, "@", ""))
	}

	info := newTestInfo(opts, element.Name+" - Example line: "+strconv.Itoa(element.Line), xray.TestTypeManual)
	info.Steps = expected
	info.Labels = labels

	return xray.Test{
		Status:   xray.StatusOf(passed),
		TestInfo: info,
		Steps:    actual,
	}
}

// embeddingFilename derives an attachment name from the step name and the MIME subtype,
// `I see the "cart" page` with image/png becomes `I_see_the_cart_page.png`.
func embeddingFilename(stepName, mimeType string) string {
	ext := mimeType
	if idx := strings.Index(mimeType, "/"); idx >= 0 {
		ext = mimeType[idx+1:]
	}

	name := strings.ReplaceAll(strings.ReplaceAll(stepName, " ", "_"), `"`, "")

	return name + "." + ext
}
