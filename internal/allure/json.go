package allure

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	reportfs "github.com/robotomize/xrayctl/internal/fs"
	"github.com/robotomize/xrayctl/internal/xray"
)

// ReadJSONDir reads every file of fsys whose name contains "result", one Result per file.
func ReadJSONDir(ctx context.Context, fsys fs.FS) ([]Result, error) {
	names, err := reportfs.Files(
		fsys, func(name string) bool {
			return strings.Contains(name, "result")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("fs.Files: %w", err)
	}

	results, err := reportfs.ReadEach(ctx, fsys, names, decodeResult)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadEach: %w", err)
	}

	return results, nil
}

func decodeResult(name string, data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, &xray.FormatError{Path: name, Err: fmt.Errorf("json.Unmarshal: %w", err)}
	}

	return r, nil
}
