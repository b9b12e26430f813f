package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// linkIssue links the execution to the issue. Failures are only logged.
func (r *Runner) linkIssue(ctx context.Context, log logrus.FieldLogger, executionKey string, opts Options) bool {
	log = log.WithField("issue_key", opts.IssueKey)

	if r.jira == nil {
		log.Warn("a jira issue is passed to link but no jira url is configured, skipping")
		return false
	}

	if opts.IssueLinkType == "" {
		log.Warn("a jira issue is passed to link but no issue link type, skipping")
		return false
	}

	if err := r.jira.LinkIssue(ctx, executionKey, opts.IssueKey, opts.IssueLinkType); err != nil {
		log.WithError(err).Error("could not link the execution to the issue")
		return false
	}

	log.Info("execution linked to issue")

	return true
}

// updateCustomFields sets the field on every test of the plan, one request at
// a time within the configured rate. A failed test does not stop the others
// and a plan that cannot be listed is only logged. Only cancellation is
// returned.
func (r *Runner) updateCustomFields(
	ctx context.Context,
	log logrus.FieldLogger,
	planKey string,
	field CustomField,
) (updated, failed int, err error) {
	log = log.WithFields(
		logrus.Fields{
			"plan_key": planKey,
			"field_id": field.ID,
		},
	)

	if r.jira == nil {
		log.Warn("custom fields are set but no jira url is configured, skipping")
		return 0, 0, nil
	}

	tests, err := r.xray.TestPlanTests(ctx, planKey)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}

		log.WithError(err).Error("could not list the tests of the plan")
		return 0, 0, nil
	}

	for _, test := range tests {
		if err := r.limiter.Wait(ctx); err != nil {
			return updated, failed, fmt.Errorf("rate.Limiter.Wait: %w", err)
		}

		if err := r.jira.SetCustomField(ctx, test.Key, field.ID, field.Value); err != nil {
			failed++
			log.WithError(err).WithField("test_key", test.Key).Error("could not set the custom field")
			continue
		}

		updated++
	}

	log.WithFields(
		logrus.Fields{
			"updated": updated,
			"failed":  failed,
		},
	).Info("custom fields updated")

	return updated, failed, nil
}
