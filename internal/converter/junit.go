package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotomize/xrayctl/internal/junit"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FromJUnit converts each suite into one test. A suite with failures or errors
// fails and carries the text of its failing test cases as comment.
func FromJUnit(suites []junit.TestSuite, opts Options) []xray.Test {
	tests := make([]xray.Test, 0, len(suites))

	for _, suite := range suites {
		failed := nonZero(suite.Failures) || nonZero(suite.Errors)

		test := xray.Test{
			Status:   xray.StatusOf(!failed),
			TestInfo: newTestInfo(opts, suite.Name, xray.TestTypeManual),
		}

		if failed {
			test.Comment = junitComment(suite)
		}

		tests = append(tests, test)
	}

	return tests
}

func junitComment(suite junit.TestSuite) string {
	var b strings.Builder

	for _, tc := range suite.TestCases {
		if tc.Failed() {
			writeErrorLine(&b, tc.FailureText())
		}
	}

	if b.Len() == 0 && suite.Error != nil {
		writeErrorLine(&b, suite.Error.Text())
	}

	return b.String()
}

func writeErrorLine(b *strings.Builder, text string) {
	fmt.Fprintf(b, "  | [[[ERROR]]] %s |\n", text)
}

// nonZero reports whether a counter attribute holds anything but zero. Absent
// counters are zero, unreadable ones are not.
func nonZero(counter string) bool {
	counter = strings.TrimSpace(counter)
	if counter == "" {
		return false
	}

	n, err := strconv.ParseFloat(counter, 64)

	return err != nil || n != 0
}
