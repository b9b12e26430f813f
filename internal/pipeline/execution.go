package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/robotomize/xrayctl/internal/converter"
	"github.com/robotomize/xrayctl/internal/exporter"
)

// Report summarizes a finished run.
type Report struct {
	ExecutionKey string
	Tests        int
	// Linked is set when the execution was linked to the issue.
	Linked bool
	// FieldsUpdated and FieldsFailed count the custom field updates.
	FieldsUpdated int
	FieldsFailed  int
}

// Run uploads the report described by opts. Configuration problems surface as
// *xray.ConfigError before anything is read, unreadable reports as
// *xray.FormatError and rejected uploads as *xray.TransportError. Linking the
// execution and updating custom fields afterwards never fails the run.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	if err := opts.Validate(r.cfg); err != nil {
		return Report{}, err
	}

	log := r.log.WithFields(
		logrus.Fields{
			"run_id":    uuid.NewString(),
			"test_type": opts.TestType,
			"project":   opts.ProjectKey,
		},
	)

	testType, _ := converter.ParseTestType(opts.TestType)

	convOpts := opts.converterOptions()
	convOpts.Stdin = r.stdin

	result, err := converter.Convert(ctx, testType, opts.FilePath, convOpts)
	if err != nil {
		return Report{}, fmt.Errorf("converter.Convert: %w", err)
	}

	log.WithField("tests", len(result.Tests)).Info("report normalized")

	execution := exporter.Assemble(
		result.Tests, exporter.AssembleOptions{
			ExecutionKey: opts.ExecutionKey,
			Info:         result.Info,
		},
	)

	uploader, err := r.uploader(ctx, opts)
	if err != nil {
		return Report{}, err
	}

	report := Report{Tests: len(result.Tests)}

	key, err := exporter.New(log, uploader, exporter.WithBatchDelay(r.batchDelay)).Export(ctx, execution)
	if err != nil {
		if errors.Is(err, exporter.ErrNoTests) {
			log.Warn("no tests found in the report, nothing was uploaded")
			return report, nil
		}

		return report, fmt.Errorf("exporter.Export: %w", err)
	}

	report.ExecutionKey = key
	log = log.WithField("execution_key", key)
	log.Info("execution uploaded")

	if opts.DryRun {
		log.Info("dry run, skipping issue linking and custom fields")
		return report, nil
	}

	if opts.IssueKey != "" {
		report.Linked = r.linkIssue(ctx, log, key, opts)
	}

	if opts.CustomFields != "" {
		field, _ := ParseCustomField(opts.CustomFields)

		report.FieldsUpdated, report.FieldsFailed, err = r.updateCustomFields(ctx, log, opts.PlanKey, field)
		if err != nil {
			return report, err
		}
	}

	return report, nil
}

// uploader authenticates against Xray, or returns the dry-run writer.
func (r *Runner) uploader(ctx context.Context, opts Options) (exporter.Uploader, error) {
	if opts.DryRun {
		writerOpts := []exporter.WriterOption{exporter.WriteReportTo(r.stdout)}
		if opts.OutputDir != "" {
			writerOpts = []exporter.WriterOption{exporter.WriteToDir(opts.OutputDir)}
		}

		return exporter.NewWriter(writerOpts...), nil
	}

	if err := r.xray.Authenticate(ctx, r.cfg.Xray.ClientID, r.cfg.Xray.ClientSecret); err != nil {
		return nil, fmt.Errorf("xray authenticate: %w", err)
	}

	return r.xray, nil
}
