package xrayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/robotomize/xrayctl/internal/xray"
)

// TestPlanPageSize is the number of plan tests requested per GraphQL call.
const TestPlanPageSize = 100

var ErrTestPlanNotFound = errors.New("test plan not found")

const testPlanQuery = `query($jql: String, $start: Int, $limit: Int!) {
  getTestPlans(jql: $jql, limit: 1) {
    results {
      issueId
      tests(start: $start, limit: $limit) {
        total
        results {
          issueId
          jira(fields: ["key"])
        }
      }
    }
  }
}`

const addTestsToTestPlanMutation = `mutation($issueId: String!, $testIssueIds: [String]!) {
  addTestsToTestPlan(issueId: $issueId, testIssueIds: $testIssueIds) {
    addedTests
    warning
  }
}`

// PlanTest is a test issue that belongs to a test plan.
type PlanTest struct {
	IssueID string
	Key     string
}

type AddTestsResult struct {
	AddedTests []string `json:"addedTests"`
	Warning    string   `json:"warning"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type testPlanPage struct {
	GetTestPlans struct {
		Results []struct {
			IssueID string `json:"issueId"`
			Tests   struct {
				Total   int `json:"total"`
				Results []struct {
					IssueID string `json:"issueId"`
					Jira    struct {
						Key string `json:"key"`
					} `json:"jira"`
				} `json:"results"`
			} `json:"tests"`
		} `json:"results"`
	} `json:"getTestPlans"`
}

func testPlanJQL(planKey string) string {
	return fmt.Sprintf("key = %q", planKey)
}

// TestPlanID resolves the issue id of the test plan with the given key.
func (c *Client) TestPlanID(ctx context.Context, planKey string) (string, error) {
	var page testPlanPage
	if err := c.graphQL(
		ctx, "xray get test plan", testPlanQuery, map[string]any{
			"jql":   testPlanJQL(planKey),
			"start": 0,
			"limit": 1,
		}, &page,
	); err != nil {
		return "", err
	}

	if len(page.GetTestPlans.Results) == 0 {
		return "", fmt.Errorf("%s: %w", planKey, ErrTestPlanNotFound)
	}

	return page.GetTestPlans.Results[0].IssueID, nil
}

// TestPlanTests lists every test of the test plan, fetching them page by page.
func (c *Client) TestPlanTests(ctx context.Context, planKey string) ([]PlanTest, error) {
	tests := make([]PlanTest, 0)

	for start := 0; ; start += TestPlanPageSize {
		var page testPlanPage
		if err := c.graphQL(
			ctx, "xray get test plan tests", testPlanQuery, map[string]any{
				"jql":   testPlanJQL(planKey),
				"start": start,
				"limit": TestPlanPageSize,
			}, &page,
		); err != nil {
			return nil, err
		}

		if len(page.GetTestPlans.Results) == 0 {
			return nil, fmt.Errorf("%s: %w", planKey, ErrTestPlanNotFound)
		}

		planTests := page.GetTestPlans.Results[0].Tests
		for _, t := range planTests.Results {
			tests = append(tests, PlanTest{IssueID: t.IssueID, Key: t.Jira.Key})
		}

		if len(planTests.Results) == 0 || start+len(planTests.Results) >= planTests.Total {
			return tests, nil
		}
	}
}

// AddTestsToTestPlan adds the tests with the given issue ids to the test plan.
func (c *Client) AddTestsToTestPlan(ctx context.Context, planKey string, testIssueIDs []string) (AddTestsResult, error) {
	planID, err := c.TestPlanID(ctx, planKey)
	if err != nil {
		return AddTestsResult{}, err
	}

	var data struct {
		AddTestsToTestPlan AddTestsResult `json:"addTestsToTestPlan"`
	}
	if err := c.graphQL(
		ctx, "xray add tests to test plan", addTestsToTestPlanMutation, map[string]any{
			"issueId":      planID,
			"testIssueIds": testIssueIDs,
		}, &data,
	); err != nil {
		return AddTestsResult{}, err
	}

	return data.AddTestsToTestPlan, nil
}

// graphQL runs a query and decodes its data into v. GraphQL level errors are
// reported as a TransportError even when the HTTP status is 200.
func (c *Client) graphQL(ctx context.Context, op, query string, variables map[string]any, v any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, graphQLPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := c.doJSON(op, req, &resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		messages := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			messages = append(messages, e.Message)
		}

		return &xray.TransportError{Op: op, Err: errors.New(strings.Join(messages, "; "))}
	}

	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return &xray.TransportError{Op: op, Err: errors.New("empty data in response")}
	}

	if err := json.Unmarshal(resp.Data, v); err != nil {
		return &xray.TransportError{Op: op, Err: fmt.Errorf("json.Unmarshal: %w", err)}
	}

	return nil
}
