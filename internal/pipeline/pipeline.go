// Package pipeline runs an upload from the report on disk to the linked Jira issues.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/robotomize/xrayctl/internal/config"
	"github.com/robotomize/xrayctl/internal/exporter"
	"github.com/robotomize/xrayctl/internal/jira"
	"github.com/robotomize/xrayctl/internal/xray"
	"github.com/robotomize/xrayctl/internal/xrayclient"
)

// XrayClient is the part of the Xray API a run needs.
type XrayClient interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) error
	ImportExecution(ctx context.Context, execution xray.Execution) (xray.ImportResponse, error)
	ImportFeatures(ctx context.Context, projectKey string, archive io.Reader) (xrayclient.FeatureImportResponse, error)
	TestPlanTests(ctx context.Context, planKey string) ([]xrayclient.PlanTest, error)
	AddTestsToTestPlan(ctx context.Context, planKey string, testIssueIDs []string) (xrayclient.AddTestsResult, error)
}

// JiraClient links executions and updates test issues.
type JiraClient interface {
	LinkIssue(ctx context.Context, executionKey, issueKey, linkTypeID string) error
	SetCustomField(ctx context.Context, issueKey, fieldID, value string) error
}

var (
	_ XrayClient = (*xrayclient.Client)(nil)
	_ JiraClient = (*jira.Client)(nil)
)

type Option func(*Runner)

func WithXrayClient(c XrayClient) Option {
	return func(r *Runner) {
		r.xray = c
	}
}

func WithJiraClient(c JiraClient) Option {
	return func(r *Runner) {
		r.jira = c
	}
}

// WithStdin sets where go-test-json output is read from when the file path is "-".
func WithStdin(stdin io.Reader) Option {
	return func(r *Runner) {
		r.stdin = stdin
	}
}

// WithStdout sets where dry-run payloads go when no output directory is given.
func WithStdout(stdout io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
	}
}

func WithBatchDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.batchDelay = d
	}
}

type Runner struct {
	log        logrus.FieldLogger
	cfg        *config.Config
	xray       XrayClient
	jira       JiraClient
	limiter    *rate.Limiter
	stdin      io.Reader
	stdout     io.Writer
	batchDelay time.Duration
}

// New builds a runner with clients for the configured Xray and Jira instances.
// The Jira client is left out when no Jira url is configured.
func New(log logrus.FieldLogger, cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		log:        log.WithField("component", "pipeline"),
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Jira.RequestsPerSecond), 1),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		batchDelay: exporter.DefaultBatchDelay,
	}

	if cfg.Jira.RequestsPerSecond <= 0 {
		r.limiter = rate.NewLimiter(rate.Inf, 1)
	}

	for _, o := range opts {
		o(r)
	}

	if r.xray == nil {
		r.xray = xrayclient.New(cfg.Xray.URL)
	}

	if r.jira == nil && cfg.Jira.URL != "" {
		r.jira = jira.New(cfg.Jira.URL, cfg.Jira.BasicToken)
	}

	return r
}
