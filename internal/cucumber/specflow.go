package cucumber

import (
	"errors"
	"io/fs"

	"github.com/robotomize/xrayctl/internal/xray"
)

const SpecflowStatusOK = "OK"

var ErrMissingExecutionResults = errors.New("missing ExecutionResults")

// SpecflowReport is the execution report written by the Specflow+ runner.
type SpecflowReport struct {
	ExecutionResults []SpecflowResult `json:"ExecutionResults"`
}

type SpecflowResult struct {
	FeatureTitle  string `json:"FeatureTitle"`
	ScenarioTitle string `json:"ScenarioTitle"`
	Status        string `json:"Status"`
}

// ReadSpecflowFile reads a Specflow execution report.
func ReadSpecflowFile(fsys fs.FS, name string) (SpecflowReport, error) {
	var raw struct {
		ExecutionResults *[]SpecflowResult `json:"ExecutionResults"`
	}

	if err := readJSON(fsys, name, &raw); err != nil {
		return SpecflowReport{}, err
	}

	if raw.ExecutionResults == nil {
		return SpecflowReport{}, &xray.FormatError{Path: name, Err: ErrMissingExecutionResults}
	}

	return SpecflowReport{ExecutionResults: *raw.ExecutionResults}, nil
}
