// Package converter normalizes parsed test reports into canonical Xray tests.
package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robotomize/xrayctl/internal/allure"
	"github.com/robotomize/xrayctl/internal/cucumber"
	reportfs "github.com/robotomize/xrayctl/internal/fs"
	"github.com/robotomize/xrayctl/internal/gotest"
	"github.com/robotomize/xrayctl/internal/junit"
	"github.com/robotomize/xrayctl/internal/xray"
)

type TestType string

const (
	TypeCucumberSpecflow TestType = "cucumber-specflow"
	TypeJUnitXML         TestType = "junit-xml"
	TypeAllureXML        TestType = "allure-xml"
	TypeCucumberJSON     TestType = "cucumber-json"
	TypeAllureJSON       TestType = "allure-json"
	TypeGoTestJSON       TestType = "go-test-json"
)

// TestTypes lists the supported report formats.
var TestTypes = []TestType{
	TypeCucumberSpecflow,
	TypeJUnitXML,
	TypeAllureXML,
	TypeCucumberJSON,
	TypeAllureJSON,
	TypeGoTestJSON,
}

const (
	expectedStepResult = "action is correct"
	stepPassedResult   = "Step passed OK"
	stepFailedResult   = "Step FAILED"
)

// ParseTestType accepts a test type in any letter case.
func ParseTestType(s string) (TestType, error) {
	tt := TestType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TestTypes {
		if tt == known {
			return tt, nil
		}
	}

	names := make([]string, 0, len(TestTypes))
	for _, known := range TestTypes {
		names = append(names, string(known))
	}

	return "", &xray.ConfigError{
		Field:  "testType",
		Reason: fmt.Sprintf("%q is not supported, options available are %s", s, strings.Join(names, " | ")),
	}
}

// Options are the run options normalization depends on.
type Options struct {
	ProjectKey   string
	Summary      string
	Description  string
	PlanKey      string
	Version      string
	Environments []string
	// Stdin is read for go-test-json when the path is "-".
	Stdin io.Reader
}

// Result is a normalized report.
type Result struct {
	Tests []xray.Test
	Info  xray.Info
}

// NewInfo builds the execution info of a run, falling back to the default summary and description.
func NewInfo(opts Options) xray.Info {
	info := xray.Info{
		Project:          opts.ProjectKey,
		Summary:          opts.Summary,
		Description:      opts.Description,
		TestPlanKey:      opts.PlanKey,
		TestEnvironments: opts.Environments,
		Version:          opts.Version,
	}

	if info.Summary == "" {
		info.Summary = xray.DefaultSummary
	}

	if info.Description == "" {
		info.Description = xray.DefaultDescription
	}

	return info
}

// Convert reads the report at pth with the reader of testType and normalizes it.
// pth is a file for the JSON formats and a directory for the XML and allure-json formats.
func Convert(ctx context.Context, testType TestType, pth string, opts Options) (Result, error) {
	tests, err := convert(ctx, testType, pth, opts)
	if err != nil {
		return Result{}, err
	}

	return Result{Tests: tests, Info: NewInfo(opts)}, nil
}

func convert(ctx context.Context, testType TestType, pth string, opts Options) ([]xray.Test, error) {
	switch testType {
	case TypeCucumberSpecflow:
		fsys, name := reportfs.ForFile(pth)
		report, err := cucumber.ReadSpecflowFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("cucumber.ReadSpecflowFile: %w", err)
		}

		return FromSpecflow(report, opts), nil
	case TypeCucumberJSON:
		fsys, name := reportfs.ForFile(pth)
		features, err := cucumber.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("cucumber.ReadFile: %w", err)
		}

		return FromCucumber(features, opts), nil
	case TypeJUnitXML:
		suites, err := junit.ReadDir(ctx, reportfs.New(pth))
		if err != nil {
			return nil, fmt.Errorf("junit.ReadDir: %w", err)
		}

		return FromJUnit(suites, opts), nil
	case TypeAllureXML:
		suites, err := allure.ReadXMLDir(ctx, reportfs.New(pth))
		if err != nil {
			return nil, fmt.Errorf("allure.ReadXMLDir: %w", err)
		}

		return FromAllureXML(suites, opts)
	case TypeAllureJSON:
		fsys := reportfs.New(pth)
		results, err := allure.ReadJSONDir(ctx, fsys)
		if err != nil {
			return nil, fmt.Errorf("allure.ReadJSONDir: %w", err)
		}

		return FromAllureJSON(fsys, results, opts)
	case TypeGoTestJSON:
		r := opts.Stdin
		if pth != "-" {
			f, err := os.Open(pth)
			if err != nil {
				return nil, fmt.Errorf("os.Open: %w", err)
			}
			defer f.Close()

			r = f
		}

		if r == nil {
			return nil, &xray.ConfigError{Field: "filePath", Reason: "no go test output to read"}
		}

		set, err := gotest.NewReader(r).ReadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("gotest.Reader.ReadAll: %w", err)
		}

		if set.Err != nil {
			return nil, &xray.FormatError{Path: pth, Err: set.Err}
		}

		return FromGoTest(set, opts), nil
	default:
		_, err := ParseTestType(string(testType))
		return nil, err
	}
}

func newTestInfo(opts Options, summary, testType string) *xray.TestInfo {
	return &xray.TestInfo{
		ProjectKey: opts.ProjectKey,
		Summary:    summary,
		Type:       testType,
	}
}

// lastSegment returns what follows the last "/" of s, links and plain keys alike.
func lastSegment(s string) string {
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}

	return s
}
