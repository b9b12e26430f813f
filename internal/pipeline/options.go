package pipeline

import (
	"strings"
	"unicode"

	"github.com/robotomize/xrayctl/internal/config"
	"github.com/robotomize/xrayctl/internal/converter"
	"github.com/robotomize/xrayctl/internal/slice"
	"github.com/robotomize/xrayctl/internal/xray"
)

// Options configure one execution upload.
type Options struct {
	TestType     string
	FilePath     string
	ProjectKey   string
	ExecutionKey string
	PlanKey      string
	Summary      string
	Description  string
	// ReleaseVersion is the fix version the execution belongs to.
	ReleaseVersion string
	IssueKey       string
	IssueLinkType  string
	// Environments is a comma separated list of test environments.
	Environments string
	// CustomFields is an "id,value" pair set on every test of the plan.
	CustomFields string
	// DryRun writes the payloads instead of uploading them.
	DryRun    bool
	OutputDir string
}

// CustomField is a Jira field id and the value to store in it.
type CustomField struct {
	ID    string
	Value string
}

// ParseCustomField reads an "id,value" pair. All whitespace is dropped.
func ParseCustomField(s string) (CustomField, error) {
	stripped := strings.Map(
		func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}

			return r
		}, s,
	)

	parts := strings.Split(stripped, ",")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CustomField{}, &xray.ConfigError{
			Field:  "jiraCustomFields",
			Reason: `expected exactly one "id,value" pair, got ` + `"` + s + `"`,
		}
	}

	return CustomField{ID: parts[0], Value: parts[1]}, nil
}

// ParseEnvironments splits a comma separated list, dropping empty entries.
func ParseEnvironments(s string) []string {
	envs := slice.Filter(
		slice.Map(strings.Split(s, ","), strings.TrimSpace), func(v string) bool {
			return v != ""
		},
	)

	if len(envs) == 0 {
		return nil
	}

	return envs
}

// Validate checks the options against the configuration before anything is
// read or sent.
func (o Options) Validate(cfg *config.Config) error {
	if _, err := converter.ParseTestType(o.TestType); err != nil {
		return err
	}

	if o.FilePath == "" {
		return &xray.ConfigError{Field: "filePath", Reason: "is required"}
	}

	if o.ProjectKey == "" {
		return &xray.ConfigError{Field: "projectKey", Reason: "is required"}
	}

	if !o.DryRun {
		if err := validateCredentials(cfg); err != nil {
			return err
		}
	}

	if o.IssueKey != "" && cfg.Jira.BasicToken == "" {
		return &xray.ConfigError{Field: "jira.basic_token", Reason: "linking issue " + o.IssueKey + " needs a jira basic token"}
	}

	if o.CustomFields != "" {
		if o.PlanKey == "" {
			return &xray.ConfigError{Field: "planKey", Reason: "custom fields are set on the tests of a test plan"}
		}

		if _, err := ParseCustomField(o.CustomFields); err != nil {
			return err
		}
	}

	return nil
}

func validateCredentials(cfg *config.Config) error {
	if cfg.Xray.ClientID == "" {
		return &xray.ConfigError{Field: "xray.client_id", Reason: "is required"}
	}

	if cfg.Xray.ClientSecret == "" {
		return &xray.ConfigError{Field: "xray.client_secret", Reason: "is required"}
	}

	return nil
}

func (o Options) converterOptions() converter.Options {
	return converter.Options{
		ProjectKey:   o.ProjectKey,
		Summary:      o.Summary,
		Description:  o.Description,
		PlanKey:      o.PlanKey,
		Version:      o.ReleaseVersion,
		Environments: ParseEnvironments(o.Environments),
	}
}

// FeatureOptions configure a cucumber feature import.
type FeatureOptions struct {
	FilePath   string
	ProjectKey string
	PlanKey    string
}

func (o FeatureOptions) Validate(cfg *config.Config) error {
	if o.FilePath == "" {
		return &xray.ConfigError{Field: "filePath", Reason: "is required"}
	}

	if o.ProjectKey == "" {
		return &xray.ConfigError{Field: "projectKey", Reason: "is required"}
	}

	return validateCredentials(cfg)
}
