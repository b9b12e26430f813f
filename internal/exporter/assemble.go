package exporter

import "github.com/robotomize/xrayctl/internal/xray"

type AssembleOptions struct {
	// ExecutionKey is an existing test execution the results are added to.
	ExecutionKey string
	Info         xray.Info
}

// Assemble wraps the tests into an execution payload. Info is only attached
// when a new execution is going to be created, an existing execution keeps
// its own.
func Assemble(tests []xray.Test, opts AssembleOptions) xray.Execution {
	execution := xray.Execution{
		TestExecutionKey: opts.ExecutionKey,
		Tests:            tests,
	}

	if opts.ExecutionKey == "" {
		info := opts.Info
		execution.Info = &info
	}

	return execution
}
