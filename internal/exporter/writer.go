package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/robotomize/xrayctl/internal/xray"
)

// DryRunKeyPrefix marks execution keys made up by the dry-run writer.
const DryRunKeyPrefix = "DRYRUN-"

type WriterOption func(*writer)

// WriteToDir stores every payload as <n>-execution.json in pth.
func WriteToDir(pth string) WriterOption {
	return func(w *writer) {
		w.pth = pth
	}
}

func WriteReportTo(writers ...io.Writer) WriterOption {
	return func(w *writer) {
		w.reportWriters = append(w.reportWriters, writers...)
	}
}

// NewWriter returns an Uploader that writes payloads instead of sending them.
// The first payload gets a made up execution key which is kept for the rest.
func NewWriter(opts ...WriterOption) Uploader {
	w := writer{reportWriters: []io.Writer{io.Discard}}
	for _, o := range opts {
		o(&w)
	}

	return &w
}

type writer struct {
	mu            sync.Mutex
	pth           string
	reportWriters []io.Writer
	written       int
	key           string
}

func (o *writer) ImportExecution(ctx context.Context, execution xray.Execution) (xray.ImportResponse, error) {
	if err := ctx.Err(); err != nil {
		return xray.ImportResponse{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.pth) > 0 {
		if err := mkdir(o.pth); err != nil {
			return xray.ImportResponse{}, err
		}
	}

	o.written++
	if err := o.writeReport(execution); err != nil {
		return xray.ImportResponse{}, fmt.Errorf("writeReport execution: %w", err)
	}

	if o.key == "" {
		o.key = execution.TestExecutionKey
	}

	if o.key == "" {
		o.key = DryRunKeyPrefix + uuid.NewString()
	}

	return xray.ImportResponse{Key: o.key}, nil
}

// writeReport writes the payload to the report writers and, if a directory is given, to a file.
func (o *writer) writeReport(execution xray.Execution) (err error) {
	writers := make([]io.Writer, len(o.reportWriters))
	copy(writers, o.reportWriters)

	if o.pth != "" {
		pth := filepath.Join(o.pth, fmt.Sprintf("%d-execution.json", o.written))
		file, openErr := os.OpenFile(pth, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if openErr != nil {
			return fmt.Errorf("os.OpenFile: %w", openErr)
		}

		defer func() {
			if syncErr := file.Sync(); syncErr != nil && err == nil {
				err = fmt.Errorf("file Sync: %w", syncErr)
			}

			_ = file.Close()
		}()

		writers = append(writers, file)
	}

	enc := json.NewEncoder(io.MultiWriter(writers...))
	enc.SetIndent("", "  ")

	if encErr := enc.Encode(execution); encErr != nil {
		return fmt.Errorf("json.NewEncoder.Encode: %w", encErr)
	}

	return nil
}
