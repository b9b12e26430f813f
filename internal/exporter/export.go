// Package exporter submits executions to an upload sink in batches.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robotomize/xrayctl/internal/slice"
	"github.com/robotomize/xrayctl/internal/xray"
)

const (
	// MaxBatchSize is the largest number of tests Xray accepts in one import.
	MaxBatchSize = 50
	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = 3 * time.Second
)

var ErrNoTests = errors.New("execution has no tests")

// Uploader accepts one execution payload and returns the created or updated execution.
type Uploader interface {
	ImportExecution(ctx context.Context, execution xray.Execution) (xray.ImportResponse, error)
}

type Option func(options *Options)

type Options struct {
	batchDelay time.Duration
}

func WithBatchDelay(d time.Duration) Option {
	return func(o *Options) {
		o.batchDelay = d
	}
}

type Exporter interface {
	Export(ctx context.Context, execution xray.Execution) (string, error)
}

func New(log logrus.FieldLogger, uploader Uploader, opts ...Option) Exporter {
	e := exporter{
		log:      log.WithField("component", "exporter"),
		uploader: uploader,
		opts:     Options{batchDelay: DefaultBatchDelay},
	}

	for _, o := range opts {
		o(&e.opts)
	}

	return &e
}

type exporter struct {
	log      logrus.FieldLogger
	opts     Options
	uploader Uploader
}

type state string

const (
	stateNotStarted     state = "NOT_STARTED"
	stateFirstBatchSent state = "FIRST_BATCH_SENT"
	stateWaiting        state = "WAITING"
	stateBatchSent      state = "BATCH_SENT"
	stateDone           state = "DONE"
)

// Export submits the execution and returns its key. Executions above
// MaxBatchSize tests are split, the first batch creates the execution (or
// targets the given one) and the following batches are added to it one by one.
// A failed batch stops the sequence, batches accepted before it stay in place.
func (e *exporter) Export(ctx context.Context, execution xray.Execution) (string, error) {
	if len(execution.Tests) == 0 {
		return "", ErrNoTests
	}

	batches := slice.Chunk(execution.Tests, MaxBatchSize)
	log := e.log.WithField("batches", len(batches))
	e.transition(log, stateNotStarted, 0)

	first := execution
	first.Tests = batches[0]

	resp, err := e.uploader.ImportExecution(ctx, first)
	if err != nil {
		return "", fmt.Errorf("exporter.Export: batch 1/%d: %w", len(batches), err)
	}

	key := resp.Key
	if key == "" {
		key = execution.TestExecutionKey
	}

	if key == "" {
		return "", &xray.TransportError{
			Op:  "import execution",
			Err: fmt.Errorf("batch 1/%d: response carries no execution key", len(batches)),
		}
	}

	log = log.WithField("execution_key", key)
	e.transition(log, stateFirstBatchSent, 1)

	for i := 1; i < len(batches); i++ {
		e.transition(log, stateWaiting, i)

		if err := e.wait(ctx); err != nil {
			return key, fmt.Errorf("exporter.Export: batch %d/%d: %w", i+1, len(batches), err)
		}

		if _, err := e.uploader.ImportExecution(
			ctx, xray.Execution{
				TestExecutionKey: key,
				Tests:            batches[i],
			},
		); err != nil {
			return key, fmt.Errorf("exporter.Export: batch %d/%d: %w", i+1, len(batches), err)
		}

		e.transition(log, stateBatchSent, i+1)
	}

	e.transition(log, stateDone, len(batches))

	return key, nil
}

func (e *exporter) wait(ctx context.Context) error {
	if e.opts.batchDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(e.opts.batchDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *exporter) transition(log logrus.FieldLogger, s state, sent int) {
	log.WithFields(
		logrus.Fields{
			"state": s,
			"sent":  sent,
		},
	).Debug("batch sequence")
}
