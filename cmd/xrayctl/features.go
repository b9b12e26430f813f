package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robotomize/xrayctl/internal/pipeline"
)

var featureOpts pipeline.FeatureOptions

func init() {
	flags := featuresCmd.Flags()
	flags.StringVarP(&featureOpts.FilePath, "file-path", "f", "", "directory with the cucumber feature files")
	flags.StringVarP(&featureOpts.ProjectKey, "project-key", "p", "", "jira project key")
	flags.StringVar(&featureOpts.PlanKey, "plan-key", "", "test plan the imported tests are added to")

	_ = featuresCmd.MarkFlagRequired("file-path")
	_ = featuresCmd.MarkFlagRequired("project-key")

	rootCmd.AddCommand(featuresCmd)
}

var featuresCmd = &cobra.Command{
	Use:          "features",
	Short:        "Import cucumber feature files as Xray tests",
	Example:      `  xrayctl features -f features -p PROJ --plan-key PROJ-7`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _ = fmt.Fprintln(
			cmd.ErrOrStderr(), renderSummary(
				[]summaryRow{
					{key: "Xray Url", value: cfg.Xray.URL},
					{key: "ClientID", value: cfg.Xray.ClientID},
					{key: "ClientSecret", value: mask(cfg.Xray.ClientSecret)},
					{key: "Path", value: featureOpts.FilePath},
					{key: "Project Key", value: featureOpts.ProjectKey},
					{key: "Plan Key", value: featureOpts.PlanKey},
				},
			),
		)

		report, err := pipeline.New(log, cfg).RunFeatures(cmd.Context(), featureOpts)
		if err != nil {
			return err
		}

		log.WithField("files", report.Files).
			WithField("tests", len(report.Tests)).
			WithField("added_to_plan", len(report.AddedTests)).
			Info("Feature import completed")

		return nil
	},
}
