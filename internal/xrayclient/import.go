package xrayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/robotomize/xrayctl/internal/xray"
)

// FeaturesArchiveName is the file name the feature archive is uploaded under.
const FeaturesArchiveName = "features.zip"

// ImportExecution posts an execution in the Xray JSON format.
func (c *Client) ImportExecution(ctx context.Context, execution xray.Execution) (xray.ImportResponse, error) {
	const op = "xray import execution"

	body, err := json.Marshal(execution)
	if err != nil {
		return xray.ImportResponse{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, apiPath+"/import/execution", bytes.NewReader(body))
	if err != nil {
		return xray.ImportResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")

	var resp xray.ImportResponse
	if err := c.doJSON(op, req, &resp); err != nil {
		return xray.ImportResponse{}, err
	}

	return resp, nil
}

// FeatureImportResponse lists the issues a feature import created or updated.
type FeatureImportResponse struct {
	Errors                        []string              `json:"errors"`
	UpdatedOrCreatedTests         []xray.ImportResponse `json:"updatedOrCreatedTests"`
	UpdatedOrCreatedPreconditions []xray.ImportResponse `json:"updatedOrCreatedPreconditions"`
}

// ImportFeatures uploads a zip archive of cucumber feature files to the project.
func (c *Client) ImportFeatures(ctx context.Context, projectKey string, archive io.Reader) (FeatureImportResponse, error) {
	const op = "xray import features"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", FeaturesArchiveName)
	if err != nil {
		return FeatureImportResponse{}, fmt.Errorf("multipart.Writer.CreateFormFile: %w", err)
	}

	if _, err = io.Copy(part, archive); err != nil {
		return FeatureImportResponse{}, fmt.Errorf("io.Copy: %w", err)
	}

	if err = mw.Close(); err != nil {
		return FeatureImportResponse{}, fmt.Errorf("multipart.Writer.Close: %w", err)
	}

	pth := apiPath + "/import/feature?" + url.Values{"projectKey": {projectKey}}.Encode()

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, pth, &body)
	if err != nil {
		return FeatureImportResponse{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp FeatureImportResponse
	if err := c.doJSON(op, req, &resp); err != nil {
		return FeatureImportResponse{}, err
	}

	return resp, nil
}
