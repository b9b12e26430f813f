// Package junit reads JUnit XML reports.
package junit

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	reportfs "github.com/robotomize/xrayctl/internal/fs"
	"github.com/robotomize/xrayctl/internal/slice"
	"github.com/robotomize/xrayctl/internal/xray"
)

var ErrUnexpectedRoot = errors.New("root element is neither testsuites nor testsuite")

type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Name       string      `xml:"name,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite keeps the counters as raw attribute text, an absent attribute is "".
// A suite without <error> exposes its <system-err> as Error.
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     string     `xml:"tests,attr"`
	Failures  string     `xml:"failures,attr"`
	Errors    string     `xml:"errors,attr"`
	Skipped   string     `xml:"skipped,attr"`
	Time      string     `xml:"time,attr"`
	Timestamp string     `xml:"timestamp,attr"`
	TestCases []TestCase `xml:"testcase"`
	Error     *Output    `xml:"error"`
	SystemOut *Output    `xml:"system-out"`
	SystemErr *Output    `xml:"system-err"`
}

type TestCase struct {
	Name      string  `xml:"name,attr"`
	Classname string  `xml:"classname,attr"`
	Time      string  `xml:"time,attr"`
	Failure   *Output `xml:"failure"`
	Error     *Output `xml:"error"`
	Skipped   *Output `xml:"skipped"`
	SystemOut *Output `xml:"system-out"`
	SystemErr *Output `xml:"system-err"`
}

// Output is a failure, error or captured stream element.
type Output struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Content string `xml:",chardata"`
}

// Failed reports whether the test case carries a <failure> or an <error>.
func (tc *TestCase) Failed() bool {
	return tc.Failure != nil || tc.Error != nil
}

// FailureText is the failure text, else the error text, else the captured
// stderr of a failed test case. A passing test case has none.
func (tc *TestCase) FailureText() string {
	if !tc.Failed() {
		return ""
	}

	if text := tc.Failure.Text(); text != "" {
		return text
	}

	if text := tc.Error.Text(); text != "" {
		return text
	}

	return tc.SystemErr.Text()
}

// Text returns the trimmed element text, or the message attribute when there is none.
func (o *Output) Text() string {
	if o == nil {
		return ""
	}

	if text := strings.TrimSpace(o.Content); text != "" {
		return text
	}

	return strings.TrimSpace(o.Message)
}

// ReadDir reads every file of fsys and returns the suites of all files in order.
func ReadDir(ctx context.Context, fsys fs.FS) ([]TestSuite, error) {
	names, err := reportfs.Files(fsys, nil)
	if err != nil {
		return nil, fmt.Errorf("fs.Files: %w", err)
	}

	perFile, err := reportfs.ReadEach(ctx, fsys, names, decode)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadEach: %w", err)
	}

	return slice.Flat(perFile), nil
}

func decode(name string, data []byte) ([]TestSuite, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, &xray.FormatError{Path: name, Err: err}
	}

	var suites []TestSuite
	switch root {
	case "testsuites":
		var all TestSuites
		if err := xml.Unmarshal(data, &all); err != nil {
			return nil, &xray.FormatError{Path: name, Err: fmt.Errorf("xml.Unmarshal: %w", err)}
		}
		suites = all.TestSuites
	case "testsuite":
		var one TestSuite
		if err := xml.Unmarshal(data, &one); err != nil {
			return nil, &xray.FormatError{Path: name, Err: fmt.Errorf("xml.Unmarshal: %w", err)}
		}
		suites = []TestSuite{one}
	default:
		return nil, &xray.FormatError{Path: name, Err: fmt.Errorf("%w: %q", ErrUnexpectedRoot, root)}
	}

	for i := range suites {
		if suites[i].Error == nil {
			suites[i].Error = suites[i].SystemErr
		}
	}

	return suites, nil
}

func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("xml.Decoder.Token: %w", err)
		}

		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}
