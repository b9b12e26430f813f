package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robotomize/xrayctl/internal/converter"
	"github.com/robotomize/xrayctl/internal/pipeline"
	"github.com/robotomize/xrayctl/internal/slice"
)

var executionOpts pipeline.Options

func init() {
	testTypes := slice.Map(
		converter.TestTypes, func(t converter.TestType) string {
			return string(t)
		},
	)

	flags := executionCmd.Flags()
	flags.StringVarP(&executionOpts.TestType, "test-type", "t", "", "report format: "+strings.Join(testTypes, " | "))
	flags.StringVarP(
		&executionOpts.FilePath, "file-path", "f", "",
		"report file, or directory for junit-xml, allure-xml and allure-json, - reads go test output from stdin",
	)
	flags.StringVarP(&executionOpts.ProjectKey, "project-key", "p", "", "jira project key")
	flags.StringVar(
		&executionOpts.ExecutionKey, "execution-key", "",
		"existing test execution to add the results to, a new one is created when empty",
	)
	flags.StringVar(&executionOpts.PlanKey, "plan-key", "", "test plan the execution is linked to")
	flags.StringVarP(&executionOpts.Summary, "summary", "s", "", "test execution summary")
	flags.StringVarP(&executionOpts.Description, "description", "d", "", "test execution description")
	flags.StringVar(&executionOpts.ReleaseVersion, "release-version", "", "release version of the test execution")
	flags.StringVarP(&executionOpts.IssueKey, "issue-key", "i", "", "issue to link the execution to, needs --issue-link-type")
	flags.StringVar(&executionOpts.IssueLinkType, "issue-link-type", "", "id of the jira issue link type")
	flags.StringVarP(&executionOpts.Environments, "environments", "e", "", "comma separated test environments")
	flags.StringVar(
		&executionOpts.CustomFields, "jira-custom-fields", "",
		"custom field set on every test of the plan: customfield_10050,value",
	)
	flags.BoolVar(&executionOpts.DryRun, "dry-run", false, "write the payloads instead of uploading them")
	flags.StringVarP(
		&executionOpts.OutputDir, "output", "o", "",
		"directory for dry-run payloads, stdout when empty",
	)

	_ = executionCmd.MarkFlagRequired("test-type")
	_ = executionCmd.MarkFlagRequired("file-path")
	_ = executionCmd.MarkFlagRequired("project-key")

	rootCmd.AddCommand(executionCmd)
}

var executionCmd = &cobra.Command{
	Use:   "execution",
	Short: "Upload a test report as a test execution",
	Example: `  xrayctl execution -t junit-xml -f build/test-results -p PROJ --plan-key PROJ-7
  go test -json ./... | xrayctl execution -t go-test-json -f - -p PROJ`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(executionSummary(executionOpts)))

		runner := pipeline.New(log, cfg, pipeline.WithStdin(cmd.InOrStdin()), pipeline.WithStdout(cmd.OutOrStdout()))

		report, err := runner.Run(cmd.Context(), executionOpts)
		if err != nil {
			return err
		}

		log.WithField("execution_key", report.ExecutionKey).
			WithField("tests", report.Tests).
			Info("Upload completed")

		return nil
	},
}

func executionSummary(opts pipeline.Options) []summaryRow {
	return []summaryRow{
		{key: "Xray Url", value: cfg.Xray.URL},
		{key: "ClientID", value: cfg.Xray.ClientID},
		{key: "ClientSecret", value: mask(cfg.Xray.ClientSecret)},
		{key: "Jira Url", value: cfg.Jira.URL},
		{key: "Jira Basic Token", value: mask(cfg.Jira.BasicToken)},
		{key: "Test type", value: opts.TestType},
		{key: "Path", value: opts.FilePath},
		{key: "Project Key", value: opts.ProjectKey},
		{key: "Execution Key", value: opts.ExecutionKey},
		{key: "Plan Key", value: opts.PlanKey},
		{key: "Summary", value: opts.Summary},
		{key: "Description", value: opts.Description},
		{key: "Release version", value: opts.ReleaseVersion},
		{key: "Issue Key", value: opts.IssueKey},
		{key: "Issue Key Link type", value: opts.IssueLinkType},
		{key: "Environments", value: opts.Environments},
		{key: "Jira Custom Fields", value: opts.CustomFields},
	}
}
