// Package cucumber reads Cucumber JSON reports and Specflow execution results.
package cucumber

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/robotomize/xrayctl/internal/xray"
)

const StatusPassed = "passed"

type Feature struct {
	URI      string    `json:"uri"`
	ID       string    `json:"id"`
	Keyword  string    `json:"keyword"`
	Name     string    `json:"name"`
	Line     int       `json:"line"`
	Tags     []Tag     `json:"tags"`
	Elements []Element `json:"elements"`
}

// Element is a scenario, a scenario outline example or a background.
type Element struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Tags    []Tag  `json:"tags"`
	Steps   []Step `json:"steps"`
}

type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

type Step struct {
	Keyword    string      `json:"keyword"`
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	Result     Result      `json:"result"`
	Embeddings []Embedding `json:"embeddings"`
}

type Result struct {
	Status       string `json:"status"`
	Duration     int64  `json:"duration"`
	ErrorMessage string `json:"error_message"`
}

// Embedding is an attachment of a step, Data is already base64 encoded.
type Embedding struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
	Name     string `json:"name"`
}

// ReadFile reads a Cucumber JSON report.
func ReadFile(fsys fs.FS, name string) ([]Feature, error) {
	var features []Feature
	if err := readJSON(fsys, name, &features); err != nil {
		return nil, err
	}

	return features, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("fs.ReadFile %s: %w", name, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &xray.FormatError{Path: name, Err: fmt.Errorf("json.Unmarshal: %w", err)}
	}

	return nil
}
