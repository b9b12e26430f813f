package allure

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/robotomize/xrayctl/internal/xray"
)

//go:embed testdata
var testdata embed.FS

func subFS(t *testing.T, dir string) fs.FS {
	t.Helper()

	sub, err := fs.Sub(testdata, "testdata/"+dir)
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	return sub
}

func TestReadXMLDir(t *testing.T) {
	t.Parallel()

	suites, err := ReadXMLDir(context.Background(), subFS(t, "xml"))
	if err != nil {
		t.Fatalf("ReadXMLDir: %v", err)
	}

	if len(suites) != 1 {
		t.Fatalf("got %d suites, want 1", len(suites))
	}

	suite := suites[0]
	if suite.Name != "com.example.LoginTest" || suite.Title != "Login" {
		t.Errorf("bad suite header: %q / %q", suite.Name, suite.Title)
	}

	if len(suite.TestCases) != 2 {
		t.Fatalf("got %d test cases, want 2", len(suite.TestCases))
	}

	expectedSteps := []FlatStep{
		{
			Name:   "open login page",
			Title:  "Open login page",
			Start:  "1650000000100",
			Stop:   "1650000000200",
			Status: "passed",
			Attachments: []xray.Evidence{
				{
					Data:        base64.StdEncoding.EncodeToString([]byte("PNGDATA")),
					Filename:    "shot-attachment.png",
					ContentType: "image/png",
				},
			},
		},
		{
			Name:   "wait for form",
			Title:  "Wait for form",
			Start:  "1650000000110",
			Stop:   "1650000000120",
			Status: "passed",
		},
		{
			Name:   "submit credentials",
			Title:  "Submit credentials",
			Start:  "1650000000300",
			Stop:   "1650000000400",
			Status: "passed",
		},
	}

	if diff := cmp.Diff(expectedSteps, suite.TestCases[0].Steps); diff != "" {
		t.Errorf("bad flattened steps (-want, +got): %s", diff)
	}

	if diff := cmp.Diff(
		[]Parameter{{Name: "browser", Value: "chrome", Kind: "argument"}}, suite.TestCases[0].Parameters,
	); diff != "" {
		t.Errorf("bad parameters (-want, +got): %s", diff)
	}

	failed := suite.TestCases[1]
	if failed.Status != StatusFailed {
		t.Errorf("got status %q, want %q", failed.Status, StatusFailed)
	}

	if diff := cmp.Diff(
		Failure{
			Message:    "expected logout link",
			StackTrace: "java.lang.AssertionError: expected logout link",
		}, failed.Failure,
	); diff != "" {
		t.Errorf("bad failure (-want, +got): %s", diff)
	}

	if len(failed.Steps) != 0 {
		t.Errorf("got %d steps for an empty <steps/>, want 0", len(failed.Steps))
	}
}

func TestReadXMLDir_FormatErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		fsys     fs.FS
		expected error
	}{
		{
			name:     "test_missing_labels",
			fsys:     subFS(t, "xml-missing-labels"),
			expected: ErrMissingLabels,
		},
		{
			name: "test_missing_steps",
			fsys: fstest.MapFS{
				"s.xml": {
					Data: []byte(`<test-suite><test-cases><test-case status="passed"><labels/><parameters/></test-case></test-cases></test-suite>`),
				},
			},
			expected: ErrMissingSteps,
		},
		{
			name: "test_missing_parameters",
			fsys: fstest.MapFS{
				"s.xml": {
					Data: []byte(`<test-suite><test-cases><test-case status="passed"><steps/><labels/></test-case></test-cases></test-suite>`),
				},
			},
			expected: ErrMissingParameters,
		},
		{
			name: "test_missing_attachment_file",
			fsys: fstest.MapFS{
				"s.xml": {
					Data: []byte(`<test-suite><test-cases><test-case status="passed"><steps><step status="passed"><name>a</name><attachments><attachment source="gone.png" type="image/png"/></attachments></step></steps><labels/><parameters/></test-case></test-cases></test-suite>`),
				},
			},
			expected: fs.ErrNotExist,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				_, err := ReadXMLDir(context.Background(), tc.fsys)

				var formatErr *xray.FormatError
				if !errors.As(err, &formatErr) {
					t.Fatalf("got error %v, want a FormatError", err)
				}

				if !errors.Is(err, tc.expected) {
					t.Errorf("got error %v, want %v", err, tc.expected)
				}
			},
		)
	}
}

func TestReadXMLDir_Malformed(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"bad.xml": {Data: []byte("<test-suite><test-cases>")}}

	_, err := ReadXMLDir(context.Background(), fsys)

	var formatErr *xray.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("got error %v, want a FormatError", err)
	}

	if formatErr.Path != "bad.xml" {
		t.Errorf("got path %q, want %q", formatErr.Path, "bad.xml")
	}
}

func TestReadJSONDir(t *testing.T) {
	t.Parallel()

	results, err := ReadJSONDir(context.Background(), subFS(t, "json"))
	if err != nil {
		t.Fatalf("ReadJSONDir: %v", err)
	}

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.UUID)
	}

	if diff := cmp.Diff([]string{"0b1e", "9c2d"}, names); diff != "" {
		t.Errorf("bad results (-want, +got): %s", diff)
	}

	checkout := results[0]
	if checkout.Status != StatusFailed || len(checkout.Steps) != 2 || len(checkout.Attachments) != 1 {
		t.Errorf("bad checkout result: %+v", checkout)
	}

	if l, ok := FindLabel(checkout.Labels, LabelTag); !ok || l.Value != "smoke" {
		t.Errorf("FindLabel tag = %+v, %v", l, ok)
	}
}

func TestReadJSONDir_Malformed(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"x-result.json": {Data: []byte("{")}}

	_, err := ReadJSONDir(context.Background(), fsys)

	var formatErr *xray.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("got error %v, want a FormatError", err)
	}
}
