package fs

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ReadEach reads and decodes the named files of fsys concurrently. The result
// keeps the order of names whatever order the files finish in. The first
// error cancels the remaining reads and is returned as is.
func ReadEach[T any](
	ctx context.Context, fsys fs.FS, names []string, decode func(name string, data []byte) (T, error),
) ([]T, error) {
	output := make([]T, len(names))

	// Each goroutine owns exactly one slot of output.
	wg, grpCtx := errgroup.WithContext(ctx)
	wg.SetLimit(runtime.NumCPU())

OuterLoop:
	for idx, name := range names {
		idx, name := idx, name

		select {
		case <-grpCtx.Done():
			break OuterLoop
		default:
		}

		wg.Go(
			func() error {
				if err := grpCtx.Err(); err != nil {
					return err
				}

				data, err := fs.ReadFile(fsys, name)
				if err != nil {
					return fmt.Errorf("fs.ReadFile %s: %w", name, err)
				}

				v, err := decode(name, data)
				if err != nil {
					return err
				}

				output[idx] = v

				return nil
			},
		)
	}

	if err := wg.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return output, nil
}
