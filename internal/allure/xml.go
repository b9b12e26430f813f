package allure

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	reportfs "github.com/robotomize/xrayctl/internal/fs"
	"github.com/robotomize/xrayctl/internal/xray"
)

// Suite is an Allure 1 test suite file with its steps flattened and step
// attachments loaded.
type Suite struct {
	File      string
	Name      string
	Title     string
	Start     string
	Stop      string
	TestCases []TestCase
}

type TestCase struct {
	Name       string
	Title      string
	Start      string
	Stop       string
	Status     string
	Failure    Failure
	Labels     []Label
	Parameters []Parameter
	// Steps are in document order, every step followed by its nested steps.
	Steps []FlatStep
}

type Failure struct {
	Message    string
	StackTrace string
}

type FlatStep struct {
	Name        string
	Title       string
	Start       string
	Stop        string
	Status      string
	Attachments []xray.Evidence
}

// The xml* types mirror the Allure 1 schema. encoding/xml matches the local
// names, so the ns2 prefix and the hyphenated tags need no rewriting.
type xmlSuite struct {
	XMLName   xml.Name      `xml:"test-suite"`
	Start     string        `xml:"start,attr"`
	Stop      string        `xml:"stop,attr"`
	Name      string        `xml:"name"`
	Title     string        `xml:"title"`
	TestCases *xmlTestCases `xml:"test-cases"`
}

type xmlTestCases struct {
	TestCases []xmlTestCase `xml:"test-case"`
}

type xmlTestCase struct {
	Start      string         `xml:"start,attr"`
	Stop       string         `xml:"stop,attr"`
	Status     string         `xml:"status,attr"`
	Name       string         `xml:"name"`
	Title      string         `xml:"title"`
	Failure    *xmlFailure    `xml:"failure"`
	Steps      *xmlSteps      `xml:"steps"`
	Labels     *xmlLabels     `xml:"labels"`
	Parameters *xmlParameters `xml:"parameters"`
}

type xmlFailure struct {
	Message    string `xml:"message"`
	StackTrace string `xml:"stack-trace"`
}

type xmlSteps struct {
	Steps []xmlStep `xml:"step"`
}

type xmlStep struct {
	Start       string          `xml:"start,attr"`
	Stop        string          `xml:"stop,attr"`
	Status      string          `xml:"status,attr"`
	Name        string          `xml:"name"`
	Title       string          `xml:"title"`
	Attachments []xmlAttachment `xml:"attachments>attachment"`
	Steps       *xmlSteps       `xml:"steps"`
}

type xmlAttachment struct {
	Title  string `xml:"title,attr"`
	Source string `xml:"source,attr"`
	Type   string `xml:"type,attr"`
}

type xmlLabels struct {
	Labels []Label `xml:"label"`
}

type xmlParameters struct {
	Parameters []Parameter `xml:"parameter"`
}

var (
	ErrMissingTestCases  = errors.New("missing test-cases")
	ErrMissingSteps      = errors.New("missing steps")
	ErrMissingLabels     = errors.New("missing labels")
	ErrMissingParameters = errors.New("missing parameters")
)

// ReadXMLDir reads every .xml file of fsys as an Allure 1 suite. Attachment
// sources are resolved relative to the root of fsys.
func ReadXMLDir(ctx context.Context, fsys fs.FS) ([]Suite, error) {
	names, err := reportfs.Files(
		fsys, func(name string) bool {
			return strings.EqualFold(path.Ext(name), ".xml")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("fs.Files: %w", err)
	}

	suites, err := reportfs.ReadEach(
		ctx, fsys, names, func(name string, data []byte) (Suite, error) {
			return decodeSuite(fsys, name, data)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadEach: %w", err)
	}

	return suites, nil
}

func decodeSuite(fsys fs.FS, name string, data []byte) (Suite, error) {
	var raw xmlSuite
	if err := xml.Unmarshal(data, &raw); err != nil {
		return Suite{}, &xray.FormatError{Path: name, Err: fmt.Errorf("xml.Unmarshal: %w", err)}
	}

	if raw.TestCases == nil {
		return Suite{}, &xray.FormatError{Path: name, Err: ErrMissingTestCases}
	}

	suite := Suite{
		File:      name,
		Name:      strings.TrimSpace(raw.Name),
		Title:     strings.TrimSpace(raw.Title),
		Start:     raw.Start,
		Stop:      raw.Stop,
		TestCases: make([]TestCase, 0, len(raw.TestCases.TestCases)),
	}

	for idx, rtc := range raw.TestCases.TestCases {
		tc, err := extractTestCase(fsys, rtc)
		if err != nil {
			return Suite{}, &xray.FormatError{Path: name, Err: fmt.Errorf("test-case %d: %w", idx, err)}
		}

		suite.TestCases = append(suite.TestCases, tc)
	}

	return suite, nil
}

func extractTestCase(fsys fs.FS, raw xmlTestCase) (TestCase, error) {
	switch {
	case raw.Steps == nil:
		return TestCase{}, ErrMissingSteps
	case raw.Labels == nil:
		return TestCase{}, ErrMissingLabels
	case raw.Parameters == nil:
		return TestCase{}, ErrMissingParameters
	}

	steps, err := flattenSteps(fsys, raw.Steps, make([]FlatStep, 0, len(raw.Steps.Steps)))
	if err != nil {
		return TestCase{}, err
	}

	tc := TestCase{
		Name:       strings.TrimSpace(raw.Name),
		Title:      strings.TrimSpace(raw.Title),
		Start:      raw.Start,
		Stop:       raw.Stop,
		Status:     raw.Status,
		Labels:     raw.Labels.Labels,
		Parameters: raw.Parameters.Parameters,
		Steps:      steps,
	}

	if raw.Failure != nil {
		tc.Failure = Failure{
			Message:    strings.TrimSpace(raw.Failure.Message),
			StackTrace: strings.TrimSpace(raw.Failure.StackTrace),
		}
	}

	return tc, nil
}

// flattenSteps appends steps and, after each of them, its nested steps to out.
// A step without <steps> ends the recursion.
func flattenSteps(fsys fs.FS, steps *xmlSteps, out []FlatStep) ([]FlatStep, error) {
	if steps == nil {
		return out, nil
	}

	for _, raw := range steps.Steps {
		step := FlatStep{
			Name:   strings.TrimSpace(raw.Name),
			Title:  strings.TrimSpace(raw.Title),
			Start:  raw.Start,
			Stop:   raw.Stop,
			Status: raw.Status,
		}

		for _, a := range raw.Attachments {
			evidence, err := loadAttachment(fsys, a)
			if err != nil {
				return nil, err
			}

			step.Attachments = append(step.Attachments, evidence)
		}

		out = append(out, step)

		var err error
		if out, err = flattenSteps(fsys, raw.Steps, out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func loadAttachment(fsys fs.FS, a xmlAttachment) (xray.Evidence, error) {
	data, err := fs.ReadFile(fsys, a.Source)
	if err != nil {
		return xray.Evidence{}, fmt.Errorf("attachment %s: %w", a.Source, err)
	}

	return xray.Evidence{
		Data:        base64.StdEncoding.EncodeToString(data),
		Filename:    a.Source,
		ContentType: a.Type,
	}, nil
}
