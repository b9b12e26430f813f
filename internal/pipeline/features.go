package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	reportfs "github.com/robotomize/xrayctl/internal/fs"
	"github.com/robotomize/xrayctl/internal/slice"
	"github.com/robotomize/xrayctl/internal/xray"
)

// FeatureReport summarizes a feature import.
type FeatureReport struct {
	Files      int
	Tests      []xray.ImportResponse
	AddedTests []string
}

// RunFeatures zips the feature files of a directory, imports them into the
// project and adds the resulting tests to the test plan when one is given.
func (r *Runner) RunFeatures(ctx context.Context, opts FeatureOptions) (FeatureReport, error) {
	if err := opts.Validate(r.cfg); err != nil {
		return FeatureReport{}, err
	}

	log := r.log.WithFields(
		logrus.Fields{
			"run_id":  uuid.NewString(),
			"project": opts.ProjectKey,
		},
	)

	fsys := reportfs.New(opts.FilePath)
	names, err := reportfs.Files(fsys, nil)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("fs.Files: %w", err)
	}

	if len(names) == 0 {
		return FeatureReport{}, &xray.ConfigError{Field: "filePath", Reason: opts.FilePath + " holds no feature files"}
	}

	var archive bytes.Buffer
	if err := reportfs.Zip(&archive, fsys, names); err != nil {
		return FeatureReport{}, fmt.Errorf("fs.Zip: %w", err)
	}

	log.WithField("files", len(names)).Info("features zipped")

	if err := r.xray.Authenticate(ctx, r.cfg.Xray.ClientID, r.cfg.Xray.ClientSecret); err != nil {
		return FeatureReport{}, fmt.Errorf("xray authenticate: %w", err)
	}

	resp, err := r.xray.ImportFeatures(ctx, opts.ProjectKey, &archive)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("xray import features: %w", err)
	}

	for _, msg := range resp.Errors {
		log.WithField("error", msg).Warn("feature import reported an error")
	}

	report := FeatureReport{Files: len(names), Tests: resp.UpdatedOrCreatedTests}
	log.WithField("tests", len(report.Tests)).Info("features imported")

	if opts.PlanKey == "" || len(report.Tests) == 0 {
		return report, nil
	}

	ids := slice.Map(
		report.Tests, func(t xray.ImportResponse) string {
			return t.ID
		},
	)

	added, err := r.xray.AddTestsToTestPlan(ctx, opts.PlanKey, ids)
	if err != nil {
		return report, fmt.Errorf("xray add tests to test plan: %w", err)
	}

	if added.Warning != "" {
		log.WithField("warning", added.Warning).Warn("adding tests to the plan reported a warning")
	}

	report.AddedTests = added.AddedTests
	log.WithFields(
		logrus.Fields{
			"plan_key": opts.PlanKey,
			"added":    len(added.AddedTests),
		},
	).Info("tests added to test plan")

	return report, nil
}
