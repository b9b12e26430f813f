package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robotomize/xrayctl/internal/config"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	xrayURLFlag        string
	clientIDFlag       string
	clientSecretFlag   string
	jiraURLFlag        string
	jiraBasicTokenFlag string

	log *logrus.Logger
	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default .xrayctl.yaml)")
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "",
		"log level ("+strings.Join(logLevels(), ", ")+")",
	)
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	rootCmd.PersistentFlags().StringVar(&xrayURLFlag, "xray-url", "", "xray url, overrides xray.url")
	rootCmd.PersistentFlags().StringVar(&clientIDFlag, "client-id", "", "xray client id, overrides xray.client_id")
	rootCmd.PersistentFlags().StringVar(
		&clientSecretFlag, "client-secret", "", "xray client secret, overrides xray.client_secret",
	)
	rootCmd.PersistentFlags().StringVar(&jiraURLFlag, "jira-url", "", "jira url, overrides jira.url")
	rootCmd.PersistentFlags().StringVar(
		&jiraBasicTokenFlag, "jira-basic-token", "", "jira basic token, overrides jira.basic_token",
	)
}

var rootCmd = &cobra.Command{
	Use:   "xrayctl",
	Short: "Upload test reports to Xray",
	Long: `xrayctl converts cucumber, specflow, junit, allure and go test reports
into Xray test executions and uploads them, linking the execution to Jira
issues on request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}

		applyFlagOverrides(cmd, loaded)

		if err := loaded.Validate(); err != nil {
			return err
		}

		level, err := logrus.ParseLevel(loaded.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", loaded.Log.Level, err)
		}

		log.SetLevel(level)

		if strings.EqualFold(loaded.Log.Format, config.LogFormatJSON) {
			log.SetFormatter(&logrus.JSONFormatter{})
		}

		cfg = loaded

		return nil
	},
}

// applyFlagOverrides lets flags given on the command line win over the config
// file and the environment.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	overrides := []struct {
		flag  string
		value string
		dst   *string
	}{
		{flag: "log-level", value: logLevel, dst: &c.Log.Level},
		{flag: "log-format", value: logFormat, dst: &c.Log.Format},
		{flag: "xray-url", value: xrayURLFlag, dst: &c.Xray.URL},
		{flag: "client-id", value: clientIDFlag, dst: &c.Xray.ClientID},
		{flag: "client-secret", value: clientSecretFlag, dst: &c.Xray.ClientSecret},
		{flag: "jira-url", value: jiraURLFlag, dst: &c.Jira.URL},
		{flag: "jira-basic-token", value: jiraBasicTokenFlag, dst: &c.Jira.BasicToken},
	}

	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.value
		}
	}
}

func logLevels() []string {
	levels := make([]string, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		levels = append(levels, level.String())
	}

	return levels
}
